package calendar

import (
	"fmt"

	"booklog/internal/core"
	"booklog/internal/log"
)

// Machine owns a State across events and logs rejected events. It is not
// safe for concurrent use; one Machine belongs to one calendar view.
type Machine struct {
	state  State
	logger *log.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithSwipeThreshold overrides DefaultSwipeThreshold.
func WithSwipeThreshold(threshold float64) Option {
	return func(m *Machine) {
		if threshold > 0 {
			m.state.Threshold = threshold
		}
	}
}

// WithLogger sets the logger used for rejected events.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger.WithComponent(log.ComponentCalendar)
		}
	}
}

// NewMachine creates a calendar showing active.
func NewMachine(active core.MonthScope, opts ...Option) *Machine {
	m := &Machine{
		state:  NewState(active),
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	return m.state
}

// Active returns the displayed month.
func (m *Machine) Active() core.MonthScope {
	return m.state.Active
}

// Dispatch applies ev and returns the navigation target it produced, if any.
func (m *Machine) Dispatch(ev Event) (Navigate, bool) {
	next, eff := m.state.Update(ev)
	m.state = next
	switch eff := eff.(type) {
	case Navigate:
		m.logger.Debug("Calendar navigation", log.FieldTarget, eff.Path, log.FieldEvent, fmt.Sprintf("%T", ev))
		return eff, true
	case Invalid:
		m.logger.Error("Calendar event rejected",
			"reason", eff.Reason,
			log.FieldDayKey, eff.Key,
			log.FieldOperation, log.OpActivate)
	}
	return Navigate{}, false
}

func (m *Machine) NavigatePrevMonth() { m.Dispatch(NavigatePrev{}) }
func (m *Machine) NavigateNextMonth() { m.Dispatch(NavigateNext{}) }
func (m *Machine) SetHover(key string) { m.Dispatch(Hover{Key: key}) }
func (m *Machine) ClearHover()         { m.Dispatch(ClearHover{}) }
func (m *Machine) RecordTouchStart(x float64) {
	m.Dispatch(TouchStart{X: x})
}

// RecordTouchEnd records the end of a touch and resolves the swipe.
func (m *Machine) RecordTouchEnd(x float64) {
	m.Dispatch(TouchEnd{X: x})
}

// ResolveSwipe re-evaluates the recorded gesture.
func (m *Machine) ResolveSwipe() {
	m.Dispatch(ResolveSwipe{})
}

// ActivateDay returns the month path for a day holding books. It reports
// false for empty days and for keys that are not valid dates.
func (m *Machine) ActivateDay(key string, books int) (string, bool) {
	nav, ok := m.Dispatch(Activate{Key: key, Books: books})
	return nav.Path, ok
}
