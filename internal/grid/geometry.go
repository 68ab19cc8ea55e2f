package grid

import (
	"math"

	"github.com/ytget/toolboard/internal/model"
)

// Limits that hold regardless of user settings
const (
	// MinCardWidthFloor is the narrowest width a card span is computed for
	MinCardWidthFloor = 200
	// ViewportHeightShare caps a widget at this share of the viewport height
	ViewportHeightShare = 0.85
	// minColumnWidth guards span math against a collapsed container
	minColumnWidth = 1
)

// Tuning holds the presentation constants of the grid
type Tuning struct {
	RowHeight           float64
	RowGap              float64
	Padding             float64
	DefaultWidgetHeight float64
}

// DefaultTuning returns the stock tuning
func DefaultTuning() Tuning {
	return Tuning{
		RowHeight:           8,
		RowGap:              20,
		Padding:             12,
		DefaultWidgetHeight: 240,
	}
}

// Metrics describe the rendered container at one instant
type Metrics struct {
	ContainerWidth float64
	Columns        int
	ColumnGap      float64
	ViewportHeight float64
}

// Geometry combines container metrics with layout settings
type Geometry struct {
	metrics  Metrics
	settings model.Settings
	tuning   Tuning
}

// New creates a Geometry. Settings are clamped here so out-of-range values loaded
// from an older store never reach the span math.
func New(m Metrics, s model.Settings, t Tuning) Geometry {
	if m.Columns < 1 {
		m.Columns = 1
	}
	if m.ColumnGap < 0 || math.IsNaN(m.ColumnGap) {
		m.ColumnGap = 0
	}
	if t.RowHeight <= 0 {
		t.RowHeight = DefaultTuning().RowHeight
	}
	if t.RowGap < 0 {
		t.RowGap = 0
	}
	return Geometry{metrics: m, settings: s.Clamped(), tuning: t}
}

// Metrics returns the sanitised metrics
func (g Geometry) Metrics() Metrics {
	return g.metrics
}

// Settings returns the clamped settings in effect
func (g Geometry) Settings() model.Settings {
	return g.settings
}

// Columns returns the realised column count
func (g Geometry) Columns() int {
	return g.metrics.Columns
}

// ColumnWidth returns the width of one grid track
func (g Geometry) ColumnWidth() float64 {
	cols := float64(g.metrics.Columns)
	w := (g.metrics.ContainerWidth - g.metrics.ColumnGap*(cols-1)) / cols
	if math.IsNaN(w) || w < minColumnWidth {
		return minColumnWidth
	}
	return w
}

// MinSpan returns the smallest column span that still fits the minimum card width
func (g Geometry) MinSpan() int {
	minWidth := math.Max(MinCardWidthFloor, g.settings.MinCardWidthPx)
	gap := g.metrics.ColumnGap
	span := int(math.Ceil((minWidth + gap) / (g.ColumnWidth() + gap)))
	return clampInt(span, 1, g.metrics.Columns)
}

// ClampSpan forces a span into [MinSpan, Columns]
func (g Geometry) ClampSpan(span int) int {
	return clampInt(span, g.MinSpan(), g.metrics.Columns)
}

// SpanForWidth converts a desired pixel width into a clamped column span
func (g Geometry) SpanForWidth(width float64) int {
	width = math.Max(MinCardWidthFloor, width)
	gap := g.metrics.ColumnGap
	span := int(math.Round((width + gap) / (g.ColumnWidth() + gap)))
	return g.ClampSpan(span)
}

// SpanWidth returns the pixel width a card of the given span occupies
func (g Geometry) SpanWidth(span int) float64 {
	span = clampInt(span, 1, g.metrics.Columns)
	return g.ColumnWidth()*float64(span) + g.metrics.ColumnGap*float64(span-1)
}

// MinWidgetHeight returns the clamped minimum widget height
func (g Geometry) MinWidgetHeight() float64 {
	return g.settings.MinWidgetHeight
}

// MaxWidgetHeight returns the widget height cap. The viewport wins over a stored
// preference that would overflow it, but never below the minimum height.
func (g Geometry) MaxWidgetHeight() float64 {
	minH := g.settings.MinWidgetHeight
	viewportCap := math.Floor(g.metrics.ViewportHeight * ViewportHeightShare)
	userMax := math.Max(minH, g.settings.MaxWidgetHeightPx)
	return math.Max(minH, math.Min(userMax, viewportCap))
}

// ClampHeight forces a widget height into [MinWidgetHeight, MaxWidgetHeight]
func (g Geometry) ClampHeight(h float64) float64 {
	if math.IsNaN(h) {
		h = g.tuning.DefaultWidgetHeight
	}
	return math.Max(g.MinWidgetHeight(), math.Min(g.MaxWidgetHeight(), h))
}

// DefaultWidgetHeight returns the clamped height of a card without an override
func (g Geometry) DefaultWidgetHeight() float64 {
	return g.ClampHeight(g.tuning.DefaultWidgetHeight)
}

// RowSpan returns how many grid rows a card occupies. The widget block only counts
// while it is visible.
func (g Geometry) RowSpan(headerHeight, widgetHeight float64, widgetVisible bool) int {
	content := math.Max(0, headerHeight)
	if widgetVisible {
		content += math.Max(0, widgetHeight)
	}
	content += g.tuning.Padding
	span := int(math.Ceil((content + g.tuning.RowGap) / (g.tuning.RowHeight + g.tuning.RowGap)))
	if span < 1 {
		return 1
	}
	return span
}

// RowsHeight returns the pixel height of a run of rows
func (g Geometry) RowsHeight(rows int) float64 {
	if rows <= 0 {
		return 0
	}
	return float64(rows)*g.tuning.RowHeight + float64(rows-1)*g.tuning.RowGap
}

// RowOffset returns the top offset of a row index
func (g Geometry) RowOffset(row int) float64 {
	if row <= 0 {
		return 0
	}
	return float64(row) * (g.tuning.RowHeight + g.tuning.RowGap)
}

// ColumnOffset returns the left offset of a column index
func (g Geometry) ColumnOffset(col int) float64 {
	if col <= 0 {
		return 0
	}
	return float64(col) * (g.ColumnWidth() + g.metrics.ColumnGap)
}

// ColumnsFor returns the auto-fill column count for a container: as many tracks of
// at least trackMin as fit, never fewer than one.
func ColumnsFor(width, gap, trackMin float64) int {
	if trackMin <= 0 || width <= 0 {
		return 1
	}
	n := int(math.Floor((width + gap) / (trackMin + gap)))
	if n < 1 {
		return 1
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
