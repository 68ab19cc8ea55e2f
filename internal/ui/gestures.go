package ui

import (
	"time"

	"fyne.io/fyne/v2"
)

// Gesture thresholds constants
const (
	// DefaultDragThreshold is how far a touch moves before it counts as a drag
	DefaultDragThreshold float32 = 6.0
	// DefaultLongPressDuration arms a touch drag without movement
	DefaultLongPressDuration = 400 * time.Millisecond
)

// pointerTracker follows one pointer from press to release. Mouse drags are reported
// by Fyne directly; touches go through moved to decide when a drag begins.
type pointerTracker struct {
	pressed  bool
	dragging bool
	rejected bool

	startPos  fyne.Position
	startTime time.Time
	threshold float32
	now       func() time.Time
}

func newPointerTracker() *pointerTracker {
	return &pointerTracker{threshold: DefaultDragThreshold, now: time.Now}
}

func (p *pointerTracker) press(pos fyne.Position) {
	p.pressed = true
	p.dragging = false
	p.rejected = false
	p.startPos = pos
	p.startTime = p.now()
}

// moved reports whether a pressed pointer travelled past the drag threshold
func (p *pointerTracker) moved(pos fyne.Position) bool {
	if !p.pressed {
		return false
	}
	dx := pos.X - p.startPos.X
	dy := pos.Y - p.startPos.Y
	return dx*dx+dy*dy >= p.threshold*p.threshold
}

// longPress reports whether the press has been held long enough to arm a drag
func (p *pointerTracker) longPress() bool {
	return p.pressed && p.now().Sub(p.startTime) >= DefaultLongPressDuration
}

// release ends the gesture and reports whether it was a drag
func (p *pointerTracker) release() bool {
	wasDragging := p.dragging
	p.pressed = false
	p.dragging = false
	p.rejected = false
	return wasDragging
}
