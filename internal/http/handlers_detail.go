package http

import (
	"net/http"

	"booklog/internal/core"
	"booklog/internal/log"
)

type monthPage struct {
	Scope core.MonthScope
	Days  core.DayGroup
	Prev  string
	Next  string
}

type allPage struct {
	Months  []core.MonthGroup
	Undated int
}

// handleMonthDetail renders /{year}/{month}. Numeric but non-canonical
// months are redirected to their canonical path.
func (s *Server) handleMonthDetail(w http.ResponseWriter, r *http.Request, year, month string) {
	scope, err := core.ParseMonthPath(year, month)
	if err != nil {
		NotFoundError("Page not found").Write(w)
		return
	}
	if canonical := scope.Path(); canonical != r.URL.Path {
		http.Redirect(w, r, canonical, http.StatusPermanentRedirect)
		return
	}

	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	days := snap.Days(scope)
	log.FromContext(r.Context()).DebugContext(r.Context(), "Month detail",
		log.FieldYear, scope.Year,
		log.FieldMonth, scope.Month,
		log.FieldBooks, days.Count())

	s.writeHTML(w, r, "detail.html", monthPage{
		Scope: scope,
		Days:  days,
		Prev:  core.PreviousMonthLink(scope),
		Next:  core.NextMonthLink(scope),
	}, nil)
}

// handleAll renders every dated book grouped by month, then by day.
func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	s.writeHTML(w, r, "all.html", allPage{
		Months:  snap.Months,
		Undated: snap.Undated,
	}, nil)
}
