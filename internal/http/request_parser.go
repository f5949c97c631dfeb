// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Every calendar endpoint is a GET whose state travels in the query string,
// so the parsers here rebuild that state from url.Values.

package http

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"booklog/internal/calendar"
	"booklog/internal/core"
)

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// Scope normalises the parameters into a calendar month.
func (p MonthParams) Scope() core.MonthScope {
	return core.NormalizeMonth(p.Year, p.Month)
}

// ParseMonthParams extracts year and month from query parameters, using the
// month of now as defaults.
func ParseMonthParams(query url.Values, now time.Time) MonthParams {
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			params.Month = m
		}
	}

	return params
}

// CalendarParams is the state a calendar partial request carries.
type CalendarParams struct {
	MonthParams
	Nav        string // "prev", "next" or empty
	TouchStart *float64
	TouchEnd   *float64
}

// ParseCalendarParams reads the month plus an optional navigation or a
// recorded touch gesture.
func ParseCalendarParams(query url.Values, now time.Time) CalendarParams {
	p := CalendarParams{MonthParams: ParseMonthParams(query, now)}
	switch nav := strings.ToLower(strings.TrimSpace(query.Get("nav"))); nav {
	case "prev", "next":
		p.Nav = nav
	}
	p.TouchStart = parseFloat(query.Get("touch_start"))
	p.TouchEnd = parseFloat(query.Get("touch_end"))
	return p
}

// Events converts the parameters into calendar events, in dispatch order.
func (p CalendarParams) Events() []calendar.Event {
	var events []calendar.Event
	switch p.Nav {
	case "prev":
		events = append(events, calendar.NavigatePrev{})
	case "next":
		events = append(events, calendar.NavigateNext{})
	}
	if p.TouchStart != nil && p.TouchEnd != nil {
		events = append(events,
			calendar.TouchStart{X: *p.TouchStart},
			calendar.TouchEnd{X: *p.TouchEnd})
	}
	return events
}

// CellParams identifies one day cell and whether the pointer is over it.
type CellParams struct {
	Key   string
	Hover bool
}

// ParseCellParams reads the date key and hover flag of a cell request.
func ParseCellParams(query url.Values) CellParams {
	hover, _ := strconv.ParseBool(strings.TrimSpace(query.Get("hover")))
	return CellParams{
		Key:   strings.TrimSpace(query.Get("date")),
		Hover: hover,
	}
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}
