package ui

import (
	"sync"

	"fyne.io/fyne/v2"

	"github.com/ytget/toolboard/internal/dashboard"
	"github.com/ytget/toolboard/internal/grid"
)

// GridSurface is the engine's read of the rendered grid. It caches what the grid
// layout measured so it can be queried from any goroutine while the engine holds its
// lock. Viewport coordinates have their origin at the top-left of the scroll area.
type GridSurface struct {
	mu sync.Mutex

	origin   fyne.Position
	offset   fyne.Position
	viewport fyne.Size
	width    float64
	columns  int
	gap      float64
	minTrack float64

	order   []string
	rects   map[string]dashboard.Rect
	headers map[string]float64

	captured map[int]string
	scroller func(dy float32)
}

// NewGridSurface creates a surface for a grid with the given column gap and minimum
// track width
func NewGridSurface(gap, minTrack float64) *GridSurface {
	return &GridSurface{
		columns:  1,
		gap:      gap,
		minTrack: minTrack,
		rects:    make(map[string]dashboard.Rect),
		headers:  make(map[string]float64),
		captured: make(map[int]string),
	}
}

// SetScroller installs the function that moves the scroll area
func (s *GridSurface) SetScroller(fn func(dy float32)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroller = fn
}

// SetViewport records where the scroll area sits on the canvas and its size
func (s *GridSurface) SetViewport(origin fyne.Position, size fyne.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = origin
	s.viewport = size
}

// SetOffset records the scroll offset of the content
func (s *GridSurface) SetOffset(offset fyne.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = offset
}

// SetContainerWidth records the content width and returns the column count it holds
func (s *GridSurface) SetContainerWidth(width float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.columns = grid.ColumnsFor(width, s.gap, s.minTrack)
	return s.columns
}

// SetCards replaces the placed card rects, in content coordinates and render order
func (s *GridSurface) SetCards(order []string, rects map[string]dashboard.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order[:0], order...)
	s.rects = make(map[string]dashboard.Rect, len(rects))
	for id, r := range rects {
		s.rects[id] = r
	}
}

// SetHeaderHeight records the measured header height of a card
func (s *GridSurface) SetHeaderHeight(id string, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers[id] = h
}

// ToViewport converts a canvas position to viewport coordinates
func (s *GridSurface) ToViewport(abs fyne.Position) dashboard.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dashboard.Point{X: float64(abs.X - s.origin.X), Y: float64(abs.Y - s.origin.Y)}
}

// Metrics implements dashboard.Surface
func (s *GridSurface) Metrics() grid.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return grid.Metrics{
		ContainerWidth: s.width,
		Columns:        s.columns,
		ColumnGap:      s.gap,
		ViewportHeight: float64(s.viewport.Height),
	}
}

// CardRect implements dashboard.Surface
func (s *GridSurface) CardRect(id string) (dashboard.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rects[id]
	if !ok {
		return dashboard.Rect{}, false
	}
	r.X -= float64(s.offset.X)
	r.Y -= float64(s.offset.Y)
	return r, true
}

// CardAt implements dashboard.Surface
func (s *GridSurface) CardAt(p dashboard.Point) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content := dashboard.Point{X: p.X + float64(s.offset.X), Y: p.Y + float64(s.offset.Y)}
	for _, id := range s.order {
		if r, ok := s.rects[id]; ok && r.Contains(content) {
			return id, true
		}
	}
	return "", false
}

// HeaderHeight implements dashboard.Surface
func (s *GridSurface) HeaderHeight(id string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.headers[id]; ok && h > 0 {
		return h
	}
	return float64(CardHeaderMinHeight)
}

// ScrollBy implements dashboard.Surface
func (s *GridSurface) ScrollBy(dy float64) {
	s.mu.Lock()
	fn := s.scroller
	s.mu.Unlock()
	if fn != nil {
		fn(float32(dy))
	}
}

// CapturePointer implements dashboard.Surface. Fyne keeps delivering drag events to
// the object the drag started on, so capture is only recorded.
func (s *GridSurface) CapturePointer(id string, pointerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured[pointerID] = id
}

// ReleasePointer implements dashboard.Surface
func (s *GridSurface) ReleasePointer(id string, pointerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captured[pointerID] == id {
		delete(s.captured, pointerID)
	}
}

// Captured returns the card holding pointerID, if any
func (s *GridSurface) Captured(pointerID int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.captured[pointerID]
	return id, ok
}
