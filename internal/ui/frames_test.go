package ui

import (
	"testing"
	"time"
)

func TestFrameTickerRunsRequestedFrame(t *testing.T) {
	ft := newFrameTicker(time.Millisecond, func(fn func()) { fn() })
	done := make(chan struct{})

	id := ft.RequestFrame(func() { close(done) })
	if id == 0 {
		t.Fatal("RequestFrame() returned the zero id")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frame did not run")
	}
	if got := ft.Pending(); got != 0 {
		t.Errorf("Pending() = %d, expected 0", got)
	}
}

func TestFrameTickerCancel(t *testing.T) {
	ft := newFrameTicker(20*time.Millisecond, func(fn func()) { fn() })
	ran := make(chan struct{}, 1)

	id := ft.RequestFrame(func() { ran <- struct{}{} })
	ft.CancelFrame(id)

	select {
	case <-ran:
		t.Fatal("cancelled frame ran")
	case <-time.After(60 * time.Millisecond):
	}
	ft.CancelFrame(id)
}

func TestFrameTickerDistinctIDs(t *testing.T) {
	ft := newFrameTicker(time.Hour, func(fn func()) { fn() })
	a := ft.RequestFrame(func() {})
	b := ft.RequestFrame(func() {})
	if a == b {
		t.Errorf("ids should differ, got %d twice", a)
	}
	if got := ft.Pending(); got != 2 {
		t.Errorf("Pending() = %d, expected 2", got)
	}
	ft.Stop()
	if got := ft.Pending(); got != 0 {
		t.Errorf("Pending() after Stop = %d, expected 0", got)
	}
}
