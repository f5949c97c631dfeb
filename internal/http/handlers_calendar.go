package http

import (
	"net/http"
	"strconv"
	"strings"

	"booklog/internal/calendar"
	"booklog/internal/core"
	"booklog/internal/log"
)

type calendarPage struct {
	Month calendar.Month
}

// route dispatches everything the mux does not match exactly: the
// calendar, the "all" listing, the default cover and /{year}/{month}.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	switch r.URL.Path {
	case "/":
		s.handleCalendarPage(w, r)
		return
	case core.AllPath:
		s.handleAll(w, r)
		return
	case core.DefaultCoverPath:
		s.handleDefaultCover(w, r)
		return
	}

	if year, month, ok := splitMonthPath(r.URL.Path); ok {
		s.handleMonthDetail(w, r, year, month)
		return
	}
	NotFoundError("Page not found").Write(w)
}

// handleCalendarPage renders the full calendar page for ?year=&month=,
// defaulting to the current month.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	now := s.now()
	scope := ParseMonthParams(r.URL.Query(), now).Scope()
	m := s.newMachine(r, scope)

	month := s.monthView(snap, m.State(), core.DateOf(now))
	s.writeHTML(w, r, "calendar.html", calendarPage{Month: month}, nil)
}

// handleCalendarPartial re-renders the calendar after a navigation button
// or a touch gesture. The gesture is resolved by the calendar state.
func (s *Server) handleCalendarPartial(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	now := s.now()
	params := ParseCalendarParams(r.URL.Query(), now)

	m := s.newMachine(r, params.Scope())
	for _, ev := range params.Events() {
		m.Dispatch(ev)
	}

	active := m.Active()
	log.FromContext(r.Context()).DebugContext(r.Context(), "Calendar partial",
		log.FieldOperation, log.OpNavigate,
		log.FieldYear, active.Year,
		log.FieldMonth, active.Month)

	month := s.monthView(snap, m.State(), core.DateOf(now))
	resp := NewHTMXResponse().
		PushURL(calendarURL(active)).
		TriggerMonthChanged(active.Year, active.Month)
	s.writeHTML(w, r, "calendar_grid", month, resp)
}

// handleCell renders one in-month day cell, hovered or not.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	params := ParseCellParams(r.URL.Query())
	date, err := core.ParseDateKey(params.Key)
	if err != nil {
		BadRequestError("Invalid date").Write(w)
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	m := s.newMachine(r, date.Scope())
	if params.Hover {
		m.SetHover(date.Key())
	} else {
		m.ClearHover()
	}

	cell := calendar.NewCell(date, snap.ByDate.Books(date), m.State().IsHovered(date.Key()))
	cell.InMonth = true
	cell.Today = date.Key() == core.DateOf(s.now()).Key()
	s.writeHTML(w, r, "day_cell", cell, nil)
}

// handleActivate opens the month detail of a clicked day. Empty days and
// malformed keys do not navigate; the latter are logged by the calendar.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	key := strings.TrimSpace(query.Get("date"))

	// The rendered count wins when it is higher: the snapshot may have been
	// replaced since the cell was drawn.
	books := len(snap.ByDate[key])
	if n, err := strconv.Atoi(query.Get("books")); err == nil && n > books {
		books = n
	}

	now := s.now()
	m := s.newMachine(r, core.DateOf(now).Scope())
	path, navigate := m.ActivateDay(key, books)
	if !navigate {
		NewHTMXResponse().Status(http.StatusNoContent).Write(w)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	NewHTMXResponse().Redirect(path).Write(w)
}
