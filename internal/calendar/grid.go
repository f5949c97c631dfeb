package calendar

import (
	"time"

	"booklog/internal/core"
)

// CellState is what a day cell shows.
type CellState int

const (
	CellEmpty CellState = iota
	CellSingle
	CellCollapsed // first cover plus a badge
	CellExpanded  // every cover
)

func (c CellState) String() string {
	switch c {
	case CellSingle:
		return "single"
	case CellCollapsed:
		return "multiple-collapsed"
	case CellExpanded:
		return "multiple-expanded"
	default:
		return "empty"
	}
}

// Classify decides the cell state for a day with count books.
func Classify(count int, hovered bool) CellState {
	switch {
	case count <= 0:
		return CellEmpty
	case count == 1:
		return CellSingle
	case hovered:
		return CellExpanded
	default:
		return CellCollapsed
	}
}

// Cell is one day of the month grid.
type Cell struct {
	Date    core.Date
	Key     string
	State   CellState
	Covers  []core.Book // books whose covers are shown
	Total   int
	Badge   int // hidden books in a collapsed cell
	InMonth bool
	Today   bool
	Weekend bool
	Hovered bool
}

// NewCell classifies the books of date. The first book in input order is
// the one shown in a collapsed cell.
func NewCell(date core.Date, books []core.Book, hovered bool) Cell {
	c := Cell{
		Date:    date,
		Key:     date.Key(),
		Total:   len(books),
		Hovered: hovered,
		State:   Classify(len(books), hovered),
	}
	wd := date.Weekday()
	c.Weekend = wd == time.Saturday || wd == time.Sunday

	switch c.State {
	case CellSingle:
		c.Covers = books[:1]
	case CellCollapsed:
		c.Covers = books[:1]
		c.Badge = len(books) - 1
	case CellExpanded:
		c.Covers = books
	}
	return c
}

// Clickable reports whether activating the cell navigates anywhere.
func (c Cell) Clickable() bool {
	return c.InMonth && c.Total > 0
}

// Month is a renderable month view.
type Month struct {
	Scope core.MonthScope
	Title string
	Weeks [][]Cell
	Prev  core.MonthScope
	Next  core.MonthScope
	Books int
}

// Weekdays are the column headings, Sunday first.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

const gridWeeks = 6

// BuildMonth lays out s.Active as six Sunday-first weeks, including the
// trailing and leading days of the neighbouring months.
func BuildMonth(s State, idx core.DateIndex, today core.Date) Month {
	first := s.Active.First()
	start := core.Date{Time: first.AddDate(0, 0, -int(first.Weekday()))}

	m := Month{
		Scope: s.Active,
		Title: first.Format("January 2006"),
		Prev:  core.PreviousMonth(s.Active),
		Next:  core.NextMonth(s.Active),
	}
	m.Weeks = make([][]Cell, gridWeeks)
	for w := 0; w < gridWeeks; w++ {
		week := make([]Cell, 7)
		for d := 0; d < 7; d++ {
			date := core.Date{Time: start.AddDate(0, 0, w*7+d)}
			c := NewCell(date, idx.Books(date), s.IsHovered(date.Key()))
			c.InMonth = date.Scope() == s.Active
			c.Today = !today.IsEmpty() && date.Key() == today.Key()
			if c.InMonth {
				m.Books += c.Total
			}
			week[d] = c
		}
		m.Weeks[w] = week
	}
	return m
}

// Cell finds the cell for key in the month grid.
func (m Month) Cell(key string) (Cell, bool) {
	for _, week := range m.Weeks {
		for _, c := range week {
			if c.Key == key {
				return c, true
			}
		}
	}
	return Cell{}, false
}
