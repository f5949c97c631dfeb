package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(id, date string) Book {
	d, _ := ParseDate(date)
	return Book{ID: id, Title: "Title " + id, Writer: "Writer", Date: d, RawDate: date}
}

func sampleBooks() []Book {
	return []Book{
		book("1", "2023-04-10"),
		book("2", "2023-04-02"),
		book("3", "2023-05-01"),
		book("4", "garbage"),
		book("5", "2023-04-10"),
		book("6", "2022-04-10"),
		book("7", ""),
		book("8", "2023-04-30"),
	}
}

func TestFilterByMonth(t *testing.T) {
	got := FilterByMonth(sampleBooks(), MonthScope{Year: 2023, Month: 4})

	ids := make([]string, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"1", "2", "5", "8"}, ids)
}

func TestFilterByMonthMalformedDatesNeverMatch(t *testing.T) {
	books := []Book{book("x", "31/31/31"), book("y", "")}
	assert.NotPanics(t, func() {
		assert.Empty(t, FilterByMonth(books, MonthScope{Year: 1, Month: 1}))
		assert.Empty(t, FilterByMonth(nil, MonthScope{Year: 2023, Month: 4}))
	})
}

func TestGroupByDayAfterFilter(t *testing.T) {
	scope := MonthScope{Year: 2023, Month: 4}
	g := GroupByDay(FilterByMonth(sampleBooks(), scope))

	for day, list := range g {
		assert.GreaterOrEqual(t, day, 1)
		assert.LessOrEqual(t, day, 31)
		for _, b := range list {
			assert.Equal(t, scope, b.Date.Scope())
			assert.Equal(t, day, b.Date.Day())
		}
	}
	require.Len(t, g[10], 2)
	assert.Equal(t, "1", g[10][0].ID, "input order is preserved within a day")
	assert.Equal(t, "5", g[10][1].ID)
	assert.Equal(t, 4, g.Count())
}

func TestDayGroupDaysSortsNumerically(t *testing.T) {
	g := DayGroup{10: nil, 2: nil, 31: nil, 1: nil, 20: nil}
	assert.Equal(t, []int{1, 2, 10, 20, 31}, g.Days())
	assert.Empty(t, DayGroup{}.Days())
}

func TestFilterAllScope(t *testing.T) {
	got := Filter(sampleBooks(), AllScope())
	assert.Len(t, got, 6)

	month := Filter(sampleBooks(), InMonth(MonthScope{Year: 2023, Month: 5}))
	require.Len(t, month, 1)
	assert.Equal(t, "3", month[0].ID)
}

func TestGroupByMonth(t *testing.T) {
	groups := GroupByMonth(sampleBooks())
	require.Len(t, groups, 3)
	assert.Equal(t, MonthScope{Year: 2022, Month: 4}, groups[0].Scope)
	assert.Equal(t, MonthScope{Year: 2023, Month: 4}, groups[1].Scope)
	assert.Equal(t, MonthScope{Year: 2023, Month: 5}, groups[2].Scope)
	assert.Equal(t, []int{2, 10, 30}, groups[1].Days.Days())
}

func TestIndexByDate(t *testing.T) {
	idx := IndexByDate(sampleBooks())
	list := idx.Books(NewDate(2023, 4, 10))
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Empty(t, idx.Books(NewDate(2023, 4, 11)))
	assert.Equal(t, 2, CountUndated(sampleBooks()))
}

func TestMonthLinksRoundTrip(t *testing.T) {
	for year := 2022; year <= 2024; year++ {
		for month := 1; month <= 12; month++ {
			s := MonthScope{Year: year, Month: month}
			assert.Equal(t, s, PreviousMonth(NextMonth(s)))
			assert.Equal(t, s, NextMonth(PreviousMonth(s)))
		}
	}
	assert.Equal(t, MonthScope{Year: 2024, Month: 1}, NextMonth(MonthScope{Year: 2023, Month: 12}))
	assert.Equal(t, MonthScope{Year: 2023, Month: 12}, PreviousMonth(MonthScope{Year: 2024, Month: 1}))
	assert.Equal(t, "/2023/12", PreviousMonthLink(MonthScope{Year: 2024, Month: 1}))
	assert.Equal(t, "/2024/01", NextMonthLink(MonthScope{Year: 2023, Month: 12}))
}

func TestNormalizeMonthAndPaths(t *testing.T) {
	assert.Equal(t, MonthScope{Year: 2024, Month: 1}, NormalizeMonth(2023, 13))
	assert.Equal(t, MonthScope{Year: 2022, Month: 12}, NormalizeMonth(2023, 0))
	assert.Equal(t, "/2023/04", MonthScope{Year: 2023, Month: 4}.Path())
	assert.Equal(t, "/all", AllScope().Path())
	assert.Equal(t, 29, MonthScope{Year: 2024, Month: 2}.DaysIn())
	assert.Equal(t, 30, MonthScope{Year: 2023, Month: 4}.DaysIn())

	s, err := ParseMonthPath("2023", "4")
	require.NoError(t, err)
	assert.Equal(t, "/2023/04", s.Path())

	_, err = ParseMonthPath("twenty", "04")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestTruncateWriterName(t *testing.T) {
	long := strings.Repeat("A", 60)
	got := TruncateWriterName(long, 50)
	assert.Len(t, got, 53)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", TruncateWriterName("short", 50))
	assert.Equal(t, strings.Repeat("B", 50), TruncateWriterName(strings.Repeat("B", 50), 50))
	assert.Equal(t, "", TruncateWriterName("", 50))

	korean := strings.Repeat("가", 51)
	assert.Equal(t, strings.Repeat("가", 50)+"...", TruncateWriterName(korean, 0))
}

func TestFormatSeriesLabel(t *testing.T) {
	assert.Equal(t, "Foo 3", FormatSeriesLabel("Foo", Some(3)))
	assert.Equal(t, "3", FormatSeriesLabel("", Some(3)))
	assert.Equal(t, "Foo", FormatSeriesLabel("Foo", OptionalInt{}))
	assert.Equal(t, "", FormatSeriesLabel("", OptionalInt{}))
}

func TestCoverPath(t *testing.T) {
	assert.Equal(t, "/data/covers/abc.jpg", CoverPath("abc"))
}
