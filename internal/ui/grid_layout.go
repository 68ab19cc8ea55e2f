package ui

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/toolboard/internal/dashboard"
	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
)

// gridItem is one card the layout positions
type gridItem struct {
	id      string
	colSpan int
	rowSpan int
	object  fyne.CanvasObject
}

// cardGridLayout places cards by column and row span the way the auto-fill grid does.
// It only runs on the UI goroutine and never calls into the engine directly.
type cardGridLayout struct {
	surface  *GridSurface
	tuning   grid.Tuning
	settings model.Settings
	items    []gridItem

	lastWidth    float32
	lastColumns  int
	lastViewport float64
	rows         int

	// onGeometryChanged fires when the container width or the viewport height changes
	// after the first layout
	onGeometryChanged func()
	// measureViewport refreshes the surface's view of the scroll area
	measureViewport func()
}

func newCardGridLayout(surface *GridSurface, tuning grid.Tuning) *cardGridLayout {
	return &cardGridLayout{
		surface:  surface,
		tuning:   tuning,
		settings: model.DefaultSettings(),
	}
}

// setItems replaces the cards to place and the settings they are placed with
func (l *cardGridLayout) setItems(items []gridItem, settings model.Settings) {
	l.items = items
	l.settings = settings
}

func (l *cardGridLayout) geometry(width float32) grid.Geometry {
	m := l.surface.Metrics()
	m.ContainerWidth = float64(width)
	m.Columns = grid.ColumnsFor(float64(width), m.ColumnGap, l.surface.minTrack)
	return grid.New(m, l.settings, l.tuning)
}

// Layout positions the cards and publishes their rects to the surface
func (l *cardGridLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	if l.measureViewport != nil {
		l.measureViewport()
	}
	columns := l.surface.SetContainerWidth(float64(size.Width))
	g := l.geometry(size.Width)

	placed := make([]grid.Item, len(l.items))
	for i, it := range l.items {
		placed[i] = grid.Item{ColSpan: it.colSpan, RowSpan: it.rowSpan}
	}
	cells, rows := grid.Place(placed, columns)
	l.rows = rows

	order := make([]string, len(l.items))
	rects := make(map[string]dashboard.Rect, len(l.items))
	for i, it := range l.items {
		c := cells[i]
		r := dashboard.Rect{
			X: g.ColumnOffset(c.Col),
			Y: g.RowOffset(c.Row),
			W: g.SpanWidth(c.ColSpan),
			H: g.RowsHeight(c.RowSpan),
		}
		it.object.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
		it.object.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
		order[i] = it.id
		rects[it.id] = r
	}
	l.surface.SetCards(order, rects)

	viewport := l.surface.Metrics().ViewportHeight
	changed := l.lastColumns != 0 &&
		(columns != l.lastColumns || size.Width != l.lastWidth || viewport != l.lastViewport)
	l.lastWidth, l.lastColumns, l.lastViewport = size.Width, columns, viewport
	if changed && l.onGeometryChanged != nil {
		l.onGeometryChanged()
	}
}

// MinSize is the height of every placed row at the last known width
func (l *cardGridLayout) MinSize(_ []fyne.CanvasObject) fyne.Size {
	width := l.lastWidth
	if width <= 0 {
		width = float32(l.surface.minTrack)
	}
	columns := grid.ColumnsFor(float64(width), l.surface.gap, l.surface.minTrack)
	placed := make([]grid.Item, len(l.items))
	for i, it := range l.items {
		placed[i] = grid.Item{ColSpan: it.colSpan, RowSpan: it.rowSpan}
	}
	_, rows := grid.Place(placed, columns)
	g := l.geometry(width)
	return fyne.NewSize(float32(l.surface.minTrack), float32(g.RowsHeight(rows)))
}

// viewportLayout stacks the scroll area and its overlays. The grid content keeps its
// size when only the window height changes, so this layout is where a height-only
// resize is seen.
type viewportLayout struct {
	measure  func()
	onResize func()

	lastHeight float32
}

func (l *viewportLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	if l.measure != nil {
		l.measure()
	}
	changed := l.lastHeight != 0 && size.Height != l.lastHeight
	l.lastHeight = size.Height
	if changed && l.onResize != nil {
		l.onResize()
	}
}

func (l *viewportLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var min fyne.Size
	for _, o := range objects {
		min = min.Max(o.MinSize())
	}
	return min
}
