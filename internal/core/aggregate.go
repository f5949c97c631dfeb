package core

import (
	"sort"
	"strconv"
)

// FilterByMonth keeps the books dated within m. Undated books are dropped.
func FilterByMonth(books []Book, m MonthScope) []Book {
	var out []Book
	for _, b := range books {
		if !b.Dated() {
			continue
		}
		if b.Date.Year() == m.Year && b.Date.Month() == m.Month {
			out = append(out, b)
		}
	}
	return out
}

// Filter applies a month or "all" scope. Undated books never match.
func Filter(books []Book, s Scope) []Book {
	if !s.All {
		return FilterByMonth(books, s.Month)
	}
	var out []Book
	for _, b := range books {
		if b.Dated() {
			out = append(out, b)
		}
	}
	return out
}

// GroupByDay partitions books by day of month. Callers pass books of a
// single month; undated books are skipped.
func GroupByDay(books []Book) DayGroup {
	g := DayGroup{}
	for _, b := range books {
		if !b.Dated() {
			continue
		}
		day := b.Date.Day()
		g[day] = append(g[day], b)
	}
	return g
}

// GroupByMonth groups all dated books by month, oldest month first.
func GroupByMonth(books []Book) []MonthGroup {
	byMonth := map[MonthScope][]Book{}
	for _, b := range books {
		if !b.Dated() {
			continue
		}
		s := b.Date.Scope()
		byMonth[s] = append(byMonth[s], b)
	}
	out := make([]MonthGroup, 0, len(byMonth))
	for s, list := range byMonth {
		out = append(out, MonthGroup{Scope: s, Days: GroupByDay(list)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scope.Before(out[j].Scope) })
	return out
}

// IndexByDate indexes dated books by day key, input order preserved.
func IndexByDate(books []Book) DateIndex {
	idx := DateIndex{}
	for _, b := range books {
		if !b.Dated() {
			continue
		}
		k := b.Date.Key()
		idx[k] = append(idx[k], b)
	}
	return idx
}

// CountUndated returns how many books have no usable date.
func CountUndated(books []Book) int {
	n := 0
	for _, b := range books {
		if !b.Dated() {
			n++
		}
	}
	return n
}

const (
	// DefaultWriterMaxLength is the writer length shown on detail cards.
	DefaultWriterMaxLength = 50
	ellipsis               = "..."
)

// TruncateWriterName shortens name to maxLength characters followed by an
// ellipsis. A non-positive maxLength means DefaultWriterMaxLength.
func TruncateWriterName(name string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultWriterMaxLength
	}
	runes := []rune(name)
	if len(runes) <= maxLength {
		return name
	}
	return string(runes[:maxLength]) + ellipsis
}

// FormatSeriesLabel renders "{name} {number}", whichever part is present,
// or an empty string.
func FormatSeriesLabel(name string, number OptionalInt) string {
	switch {
	case name != "" && number.Valid:
		return name + " " + strconv.Itoa(number.Value)
	case name != "":
		return name
	case number.Valid:
		return strconv.Itoa(number.Value)
	default:
		return ""
	}
}

// SeriesLabel is FormatSeriesLabel for b.
func (b Book) SeriesLabel() string {
	return FormatSeriesLabel(b.SeriesName, b.SeriesNumber)
}

// ShortWriter is the writer name as shown on detail cards.
func (b Book) ShortWriter() string {
	return TruncateWriterName(b.Writer, DefaultWriterMaxLength)
}

const (
	// CoverPathPrefix is where cover images are served from.
	CoverPathPrefix = "/data/covers/"
	// DefaultCoverPath is shown when a cover is unavailable.
	DefaultCoverPath = "/default.png"
)

// CoverPath returns the cover image path for a book id.
func CoverPath(id string) string {
	return CoverPathPrefix + id + ".jpg"
}
