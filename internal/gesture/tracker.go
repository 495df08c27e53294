// Package gesture classifies horizontal row drags and sequences the edit
// sheet's open and close transitions.
package gesture

import "poptique_list/internal/config"

// Outcome is what a finished drag asks for.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeEditPlatform
	OutcomeConfirmDelete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEditPlatform:
		return "edit-platform"
	case OutcomeConfirmDelete:
		return "confirm-delete"
	default:
		return "none"
	}
}

// Thresholds are the drag distances, in pixels.
type Thresholds struct {
	DeadZone  int
	Action    int
	VisualCap int
}

var DefaultThresholds = ThresholdsFrom(config.DefaultInteraction)

func ThresholdsFrom(i config.Interaction) Thresholds {
	return Thresholds{DeadZone: i.DeadZone, Action: i.ActionThreshold, VisualCap: i.VisualCap}
}

// Session is the state of one drag on one row.
type Session struct {
	StartX  int
	LastX   int
	Swiping bool
}

// Feedback is the visual state to draw for a row while it is dragged.
// DeleteWidth is only non-zero for leftward drags.
type Feedback struct {
	Offset      int
	DeleteWidth int
	Swiping     bool
}

// Tracker owns the drag sessions, at most one per row.
type Tracker struct {
	thresholds Thresholds
	sessions   map[int]*Session
}

func NewTracker(t Thresholds) *Tracker {
	return &Tracker{thresholds: t, sessions: make(map[int]*Session)}
}

func (t *Tracker) Thresholds() Thresholds { return t.thresholds }

// Start begins a session for row, replacing any session the row had.
func (t *Tracker) Start(row, x int) {
	t.sessions[row] = &Session{StartX: x, LastX: x}
}

// Session returns the active session for row.
func (t *Tracker) Session(row int) (Session, bool) {
	s, ok := t.sessions[row]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Active reports whether row has a session.
func (t *Tracker) Active(row int) bool {
	_, ok := t.sessions[row]
	return ok
}

// Move records the pointer position and returns the capped feedback.
// Rows without a session are ignored.
func (t *Tracker) Move(row, x int) Feedback {
	s, ok := t.sessions[row]
	if !ok {
		return Feedback{}
	}
	dx := x - s.StartX
	s.LastX = x
	if abs(dx) > t.thresholds.DeadZone {
		s.Swiping = true
	}

	fb := Feedback{Swiping: s.Swiping}
	if dx > 0 {
		fb.Offset = min(dx, t.thresholds.VisualCap)
	} else {
		fb.Offset = max(dx, -t.thresholds.VisualCap)
		fb.DeleteWidth = min(t.thresholds.VisualCap, abs(dx))
	}
	return fb
}

// End classifies the drag from the last recorded position, discards the
// session and returns zeroed feedback. Rows without a session yield OutcomeNone.
func (t *Tracker) End(row int) (Outcome, Feedback) {
	s, ok := t.sessions[row]
	if !ok {
		return OutcomeNone, Feedback{}
	}
	delete(t.sessions, row)

	dx := s.LastX - s.StartX
	switch {
	case dx > t.thresholds.Action:
		return OutcomeEditPlatform, Feedback{}
	case dx < -t.thresholds.Action:
		return OutcomeConfirmDelete, Feedback{}
	default:
		return OutcomeNone, Feedback{}
	}
}

// Cancel drops row's session without classifying it.
func (t *Tracker) Cancel(row int) {
	delete(t.sessions, row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
