// Package calendar holds the view state of the book calendar: the displayed
// month, the hovered day and touch gestures. State changes are driven by
// events through State.Update, which is pure; Machine adds logging for
// surfaces that keep a calendar alive across events.
package calendar

import (
	"math"

	"booklog/internal/core"
)

// DefaultSwipeThreshold is the horizontal distance a touch must travel to
// count as a swipe rather than a tap.
const DefaultSwipeThreshold = 70.0

// Event is an input to the calendar.
type Event interface {
	event()
}

type (
	// NavigatePrev shows the previous month.
	NavigatePrev struct{}
	// NavigateNext shows the next month.
	NavigateNext struct{}
	// Hover marks a day cell as hovered.
	Hover struct{ Key string }
	// ClearHover clears the hovered day.
	ClearHover struct{}
	// TouchStart records where a touch began.
	TouchStart struct{ X float64 }
	// TouchEnd records where a touch ended and resolves the swipe.
	TouchEnd struct{ X float64 }
	// ResolveSwipe interprets the recorded touch coordinates.
	ResolveSwipe struct{}
	// Activate opens the month of a day cell holding Books books. An empty
	// Key means the hovered day.
	Activate struct {
		Key   string
		Books int
	}
)

func (NavigatePrev) event() {}
func (NavigateNext) event() {}
func (Hover) event()        {}
func (ClearHover) event()   {}
func (TouchStart) event()   {}
func (TouchEnd) event()     {}
func (ResolveSwipe) event() {}
func (Activate) event()     {}

// Effect is an output of a transition for the surface to carry out.
type Effect interface {
	effect()
}

type (
	// Navigate asks the surface to open Path.
	Navigate struct{ Path string }
	// Invalid reports an event that could not be honoured.
	Invalid struct {
		Reason string
		Key    string
	}
)

func (Navigate) effect() {}
func (Invalid) effect()  {}

// Swipe is the classification of a touch gesture.
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipePrev
	SwipeNext
)

func (s Swipe) String() string {
	switch s {
	case SwipePrev:
		return "prev"
	case SwipeNext:
		return "next"
	default:
		return "none"
	}
}

// ClassifySwipe turns a touch from start to end into a swipe. Moving right
// reveals the earlier month.
func ClassifySwipe(start, end, threshold float64) Swipe {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	delta := end - start
	if !(math.Abs(delta) > threshold) {
		return SwipeNone
	}
	if delta > 0 {
		return SwipePrev
	}
	return SwipeNext
}

// State is the interaction state of one calendar instance.
type State struct {
	Active      core.MonthScope
	TouchStartX float64
	TouchEndX   float64
	Threshold   float64

	hovered string
}

// NewState starts a calendar on the given month.
func NewState(active core.MonthScope) State {
	return State{
		Active:    core.NormalizeMonth(active.Year, active.Month),
		Threshold: DefaultSwipeThreshold,
	}
}

// Hovered returns the hovered day key, if any.
func (s State) Hovered() (string, bool) {
	return s.hovered, s.hovered != ""
}

// IsHovered reports whether key is the hovered day.
func (s State) IsHovered(key string) bool {
	return key != "" && s.hovered == key
}

// Update applies ev and returns the new state with an optional effect.
func (s State) Update(ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case NavigatePrev:
		s.Active = core.PreviousMonth(s.Active)
	case NavigateNext:
		s.Active = core.NextMonth(s.Active)
	case Hover:
		s.hovered = ev.Key
	case ClearHover:
		s.hovered = ""
	case TouchStart:
		s.TouchStartX = ev.X
	case TouchEnd:
		s.TouchEndX = ev.X
		return s.Update(ResolveSwipe{})
	case ResolveSwipe:
		switch ClassifySwipe(s.TouchStartX, s.TouchEndX, s.Threshold) {
		case SwipePrev:
			return s.Update(NavigatePrev{})
		case SwipeNext:
			return s.Update(NavigateNext{})
		}
	case Activate:
		return s, s.activate(ev)
	}
	return s, nil
}

func (s State) activate(ev Activate) Effect {
	if ev.Books <= 0 {
		return nil
	}
	key := ev.Key
	if key == "" {
		key = s.hovered
	}
	if key == "" {
		return Invalid{Reason: "no date hovered"}
	}
	d, err := core.ParseDateKey(key)
	if err != nil {
		return Invalid{Reason: "invalid date", Key: key}
	}
	return Navigate{Path: d.Scope().Path()}
}
