package core

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

type (
	// Date is a calendar date at day granularity, stored as UTC midnight.
	Date struct {
		time.Time
	}

	// OptionalInt is an integer that may be absent in the source data.
	OptionalInt struct {
		Value int
		Valid bool
	}

	// NumericString holds a numeric field as found in the data file. The
	// source serializes these as strings but numbers and null also occur.
	NumericString string

	// RawBook is a book record exactly as serialized in the data file.
	RawBook struct {
		ID           string        `json:"ID"`
		Title        string        `json:"Title"`
		Writer       string        `json:"Writer"`
		Date         string        `json:"Date"`
		PartOfSeries string        `json:"PartOfSeries,omitempty"`
		SeriesNumber NumericString `json:"SeriesNumber,omitempty"`
		PrintLength  NumericString `json:"PrintLength,omitempty"`
	}

	// Book is a parsed, read-only book-log entry.
	Book struct {
		ID           string
		Title        string
		Writer       string
		Date         Date // zero when RawDate could not be parsed
		RawDate      string
		SeriesName   string
		SeriesNumber OptionalInt
		PageCount    OptionalInt
	}
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
)

// DateKeyLayout is the layout of day keys used by the calendar and the UI.
const DateKeyLayout = "2006-01-02"

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	DateKeyLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a calendar date from the data file. Timestamps keep the
// date of their own offset; there is no shift into the server's zone.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}

// ParseDateKey parses a day key produced by Date.Key.
func ParseDateKey(key string) (Date, error) {
	t, err := time.Parse(DateKeyLayout, strings.TrimSpace(key))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// Key returns the YYYY-MM-DD day key.
func (d Date) Key() string {
	return d.Format(DateKeyLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Scope returns the month containing d.
func (d Date) Scope() MonthScope {
	return MonthScope{Year: d.Year(), Month: d.Month()}
}

// IsEmpty reports whether the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Some returns a present OptionalInt.
func Some(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

func (o OptionalInt) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.Itoa(o.Value)
}

// UnmarshalJSON accepts a JSON string, number or null.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	// Anything else (numbers, stray booleans) is kept verbatim for ParseInt.
	*n = NumericString(raw)
	return nil
}

// ParseInt reads the leading integer of s: optional sign followed by
// digits, anything after is ignored ("12 pages" is 12, "3.5" is 3). No
// digits or an overflowing value yield an absent result.
func ParseInt(s string) OptionalInt {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return OptionalInt{}
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return OptionalInt{}
	}
	return Some(v)
}

// ParseRecords converts raw records into books. It never fails: malformed
// numeric fields become absent and malformed dates become zero dates.
func ParseRecords(raw []RawBook) []Book {
	books := make([]Book, 0, len(raw))
	for _, r := range raw {
		date, _ := ParseDate(r.Date)
		books = append(books, Book{
			ID:           strings.TrimSpace(r.ID),
			Title:        r.Title,
			Writer:       r.Writer,
			Date:         date,
			RawDate:      r.Date,
			SeriesName:   strings.TrimSpace(r.PartOfSeries),
			SeriesNumber: ParseInt(string(r.SeriesNumber)),
			PageCount:    ParseInt(string(r.PrintLength)),
		})
	}
	return books
}

// Dated reports whether the book can be placed on a calendar.
func (b Book) Dated() bool {
	return !b.Date.IsZero()
}
