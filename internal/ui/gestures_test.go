package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
)

func TestPointerTrackerThreshold(t *testing.T) {
	p := newPointerTracker()
	if p.moved(fyne.NewPos(50, 50)) {
		t.Error("an unpressed pointer never moves")
	}

	p.press(fyne.NewPos(10, 10))
	tests := []struct {
		pos      fyne.Position
		expected bool
	}{
		{fyne.NewPos(12, 12), false},
		{fyne.NewPos(16, 10), true},
		{fyne.NewPos(10, 3), true},
	}
	for _, tt := range tests {
		if got := p.moved(tt.pos); got != tt.expected {
			t.Errorf("moved(%v) = %v, expected %v", tt.pos, got, tt.expected)
		}
	}
}

func TestPointerTrackerLongPressAndRelease(t *testing.T) {
	now := time.Unix(0, 0)
	p := newPointerTracker()
	p.now = func() time.Time { return now }

	p.press(fyne.NewPos(0, 0))
	if p.longPress() {
		t.Error("longPress() should be false right after press")
	}
	now = now.Add(DefaultLongPressDuration)
	if !p.longPress() {
		t.Error("longPress() should be true after the hold duration")
	}

	p.dragging = true
	if !p.release() {
		t.Error("release() should report the drag")
	}
	if p.pressed || p.dragging {
		t.Error("release() should reset the tracker")
	}
	if p.release() {
		t.Error("second release() should not report a drag")
	}
}
