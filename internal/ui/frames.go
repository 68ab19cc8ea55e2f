package ui

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/toolboard/internal/dashboard"
)

// FrameTicker schedules animation frames on a timer and runs them on the UI goroutine
type FrameTicker struct {
	mu       sync.Mutex
	next     dashboard.FrameID
	timers   map[dashboard.FrameID]*time.Timer
	interval time.Duration
	post     func(func())
}

// NewFrameTicker creates a ticker firing about FrameInterval after each request
func NewFrameTicker() *FrameTicker {
	return newFrameTicker(FrameInterval, fyne.Do)
}

func newFrameTicker(interval time.Duration, post func(func())) *FrameTicker {
	return &FrameTicker{
		timers:   make(map[dashboard.FrameID]*time.Timer),
		interval: interval,
		post:     post,
	}
}

// RequestFrame runs fn on the next frame and returns an id for CancelFrame
func (f *FrameTicker) RequestFrame(fn func()) dashboard.FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := f.next
	f.timers[id] = time.AfterFunc(f.interval, func() {
		f.mu.Lock()
		_, live := f.timers[id]
		delete(f.timers, id)
		f.mu.Unlock()
		if live {
			f.post(fn)
		}
	})
	return id
}

// CancelFrame drops a frame that has not fired yet
func (f *FrameTicker) CancelFrame(id dashboard.FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
}

// Pending returns the number of frames waiting to fire
func (f *FrameTicker) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Stop cancels every pending frame
func (f *FrameTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.timers {
		t.Stop()
		delete(f.timers, id)
	}
}
