package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strings"

	"booklog/internal/calendar"
	"booklog/internal/catalog"
	"booklog/internal/core"
	"booklog/internal/log"
)

// coverIDPattern limits cover ids to a single safe path element.
var coverIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"coverPath":   core.CoverPath,
		"koreanMonth": koreanMonth,
		"koreanDay":   koreanDay,
		"weekdays":    func() []string { return calendar.Weekdays },
		"cellClass":   cellClass,
	}
}

// koreanMonth renders the detail page heading, e.g. "2024년 03월".
func koreanMonth(m core.MonthScope) string {
	return fmt.Sprintf("%d년 %02d월", m.Year, m.Month)
}

// koreanDay renders a day heading, e.g. "5일".
func koreanDay(day int) string {
	return fmt.Sprintf("%d일", day)
}

func cellClass(c calendar.Cell) string {
	classes := []string{"day-cell", c.State.String()}
	if !c.InMonth {
		classes = append(classes, "outside")
	}
	if c.Weekend {
		classes = append(classes, "weekend")
	}
	if c.Today {
		classes = append(classes, "today")
	}
	if c.Clickable() {
		classes = append(classes, "clickable")
	}
	if c.Hovered {
		classes = append(classes, "hovered")
	}
	return strings.Join(classes, " ")
}

// calendarURL is the browser location for the calendar showing m.
func calendarURL(m core.MonthScope) string {
	return fmt.Sprintf("/?year=%d&month=%d", m.Year, m.Month)
}

// splitMonthPath reports whether path has the shape /{year}/{month}.
func splitMonthPath(path string) (year, month string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// render executes name into a buffer so template errors never produce a
// half-written page.
func (s *Server) render(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("render %s: %s", name, templatesLoadFailed)
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// writeHTML renders name and writes it, or a 500 when rendering fails.
func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, name string, data any, b *HTMXResponseBuilder) {
	body, err := s.render(name, data)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender,
			"template", name)
		InternalServerError("Unable to render page").Write(w)
		return
	}
	if b == nil {
		b = NewHTMXResponse()
	}
	b.BodyHTML(body).Write(w)
}

// snapshot returns the current catalog snapshot or writes a 503.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*catalog.Snapshot, bool) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Request before catalog load",
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		ServiceUnavailableError("The reading log is still loading").Write(w)
		return nil, false
	}
	return snap, true
}

// monthView builds the grid for st. Grids without a hovered day are cached
// per snapshot version.
func (s *Server) monthView(snap *catalog.Snapshot, st calendar.State, today core.Date) calendar.Month {
	if _, hovered := st.Hovered(); hovered {
		return calendar.BuildMonth(st, snap.ByDate, today)
	}
	key := s.monthCacheKey(snap.Version, st, today.Key())
	m, _ := s.months.GetOrLoad(key, func() (calendar.Month, error) {
		return calendar.BuildMonth(st, snap.ByDate, today), nil
	})
	return m
}

// newMachine starts a calendar on m that logs through the request logger.
func (s *Server) newMachine(r *http.Request, m core.MonthScope) *calendar.Machine {
	return calendar.NewMachine(m,
		calendar.WithSwipeThreshold(s.opts.SwipeThreshold),
		calendar.WithLogger(log.FromContext(r.Context())))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderHXRequest) == "true"
}
