package core

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// MonthScope identifies one calendar month.
type MonthScope struct {
	Year  int
	Month int // 1-12
}

// Scope is a month or the whole log.
type Scope struct {
	Month MonthScope
	All   bool
}

// AllScope is the unscoped listing.
func AllScope() Scope { return Scope{All: true} }

// InMonth scopes to a single month.
func InMonth(m MonthScope) Scope { return Scope{Month: m} }

// AllPath is the navigation target of the unscoped listing.
const AllPath = "/all"

// Path returns "/all" or the month path.
func (s Scope) Path() string {
	if s.All {
		return AllPath
	}
	return s.Month.Path()
}

// NormalizeMonth builds a MonthScope through date construction so any
// integer pair lands on a real month (2023/13 is 2024/01).
func NormalizeMonth(year, month int) MonthScope {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return MonthScope{Year: t.Year(), Month: int(t.Month())}
}

// Valid reports whether the month field is in 1..12.
func (m MonthScope) Valid() bool {
	return m.Month >= 1 && m.Month <= 12
}

// First returns the first day of the month.
func (m MonthScope) First() Date {
	return NewDate(m.Year, m.Month, 1)
}

// DaysIn returns the number of days in the month.
func (m MonthScope) DaysIn() int {
	return m.First().AddDate(0, 1, -1).Day()
}

// Path returns "/{year}/{MM}".
func (m MonthScope) Path() string {
	return fmt.Sprintf("/%d/%02d", m.Year, m.Month)
}

func (m MonthScope) String() string {
	return fmt.Sprintf("%d-%02d", m.Year, m.Month)
}

// Before reports whether m is earlier than o.
func (m MonthScope) Before(o MonthScope) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// PreviousMonth returns the month before m.
func PreviousMonth(m MonthScope) MonthScope {
	return NormalizeMonth(m.Year, m.Month-1)
}

// NextMonth returns the month after m.
func NextMonth(m MonthScope) MonthScope {
	return NormalizeMonth(m.Year, m.Month+1)
}

// PreviousMonthLink returns the path of the month before m.
func PreviousMonthLink(m MonthScope) string {
	return PreviousMonth(m).Path()
}

// NextMonthLink returns the path of the month after m.
func NextMonthLink(m MonthScope) string {
	return NextMonth(m).Path()
}

// ParseMonthPath parses the year and month segments of a detail path.
// Values are numeric but not necessarily canonical; callers compare the
// returned scope's Path with the request path.
func ParseMonthPath(year, month string) (MonthScope, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return MonthScope{}, fmt.Errorf("parse year %q: %w", year, ErrInvalidMonth)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return MonthScope{}, fmt.Errorf("parse month %q: %w", month, ErrInvalidMonth)
	}
	return NormalizeMonth(y, m), nil
}

// DayGroup holds the books of one month keyed by day of month, input
// order preserved within a day.
type DayGroup map[int][]Book

// Days returns the day keys in ascending numeric order.
func (g DayGroup) Days() []int {
	days := make([]int, 0, len(g))
	for d := range g {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Count returns the number of books in the group.
func (g DayGroup) Count() int {
	n := 0
	for _, books := range g {
		n += len(books)
	}
	return n
}

// MonthGroup is one month of the unscoped listing.
type MonthGroup struct {
	Scope MonthScope
	Days  DayGroup
}

// DateIndex maps a day key to the books logged on that date.
type DateIndex map[string][]Book

// Books returns the books logged on d in input order.
func (idx DateIndex) Books(d Date) []Book {
	return idx[d.Key()]
}
