package gesture

import "time"

// SheetState is the phase of the edit sheet.
type SheetState int

const (
	SheetClosed SheetState = iota
	SheetOpening
	SheetOpen
	SheetClosing
)

func (s SheetState) String() string {
	switch s {
	case SheetOpening:
		return "opening"
	case SheetOpen:
		return "open"
	case SheetClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Sheet sequences the bottom sheet used to move a row to another platform.
//
// Opening shows the backdrop at once and applies the visible style after one
// Frame. Closing removes the visible style at once and hides the backdrop when
// the transition settles. While a transition is in flight (Animating) Open and
// Close are no-ops. A transition settles on TransitionEnd or on the first
// Advance at least settle after it began.
type Sheet struct {
	settle time.Duration

	state      SheetState
	started    time.Time
	editingRow int
	backdrop   bool
	visible    bool
	framed     bool
}

func NewSheet(settle time.Duration) *Sheet {
	return &Sheet{settle: settle}
}

func (s *Sheet) State() SheetState { return s.state }

// Animating reports whether a transition is in flight.
func (s *Sheet) Animating() bool {
	return s.state == SheetOpening || s.state == SheetClosing
}

// IsOpen reports whether the sheet is shown, including while it opens.
func (s *Sheet) IsOpen() bool {
	return s.state == SheetOpening || s.state == SheetOpen
}

// EditingRow returns the row the sheet edits, if any.
func (s *Sheet) EditingRow() (int, bool) {
	return s.editingRow, s.editingRow != 0
}

func (s *Sheet) BackdropShown() bool { return s.backdrop }
func (s *Sheet) Visible() bool       { return s.visible }

// Open starts opening the sheet for row and reports whether it did.
func (s *Sheet) Open(row int, now time.Time) bool {
	if s.Animating() {
		return false
	}
	s.state = SheetOpening
	s.started = now
	s.editingRow = row
	s.backdrop = true
	s.framed = false
	return true
}

// Frame is one rendering cycle. The first frame after Open applies the visible style.
func (s *Sheet) Frame() {
	if s.state == SheetOpening && !s.framed {
		s.framed = true
		s.visible = true
	}
}

// Close starts closing the sheet and reports whether it did.
func (s *Sheet) Close(now time.Time) bool {
	if s.Animating() || s.state == SheetClosed {
		return false
	}
	s.state = SheetClosing
	s.started = now
	s.visible = false
	return true
}

// Advance settles the current transition if settle has elapsed since it began.
func (s *Sheet) Advance(now time.Time) {
	if !s.Animating() || now.Sub(s.started) < s.settle {
		return
	}
	s.finish()
}

// TransitionEnd settles the current transition immediately.
func (s *Sheet) TransitionEnd() {
	if s.Animating() {
		s.finish()
	}
}

func (s *Sheet) finish() {
	switch s.state {
	case SheetOpening:
		// a settle before any frame still leaves the sheet visible
		s.visible = true
		s.state = SheetOpen
	case SheetClosing:
		if !s.visible {
			s.backdrop = false
		}
		s.state = SheetClosed
	}
}

// Settle is the configured transition length.
func (s *Sheet) Settle() time.Duration { return s.settle }
