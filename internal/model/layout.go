package model

import "math"

// LayoutEntry is the persisted size override of a single card. A zero field means
// the override is unset and the default applies.
type LayoutEntry struct {
	Height  float64 `json:"height,omitempty" yaml:"height,omitempty"`
	ColSpan int     `json:"colSpan,omitempty" yaml:"colSpan,omitempty"`
}

// HasHeight reports whether a height override is stored
func (e LayoutEntry) HasHeight() bool {
	return e.Height > 0 && !math.IsInf(e.Height, 0) && !math.IsNaN(e.Height)
}

// HasColSpan reports whether a column span override is stored
func (e LayoutEntry) HasColSpan() bool {
	return e.ColSpan >= 1
}

// LayoutPatch is a partial LayoutEntry merged into the stored one
type LayoutPatch struct {
	Height  *float64
	ColSpan *int
}

// HeightPatch builds a patch that only touches the height
func HeightPatch(h float64) LayoutPatch {
	return LayoutPatch{Height: &h}
}

// ColSpanPatch builds a patch that only touches the column span
func ColSpanPatch(span int) LayoutPatch {
	return LayoutPatch{ColSpan: &span}
}

// SizePatch builds a patch touching both fields
func SizePatch(h float64, span int) LayoutPatch {
	return LayoutPatch{Height: &h, ColSpan: &span}
}

// Apply merges the patch over the entry and returns the result
func (p LayoutPatch) Apply(e LayoutEntry) LayoutEntry {
	if p.Height != nil {
		e.Height = *p.Height
	}
	if p.ColSpan != nil {
		e.ColSpan = *p.ColSpan
	}
	return e
}

// Settings are the user-tunable layout parameters
type Settings struct {
	MinWidgetHeight      float64 `json:"minWidgetHeight" yaml:"minWidgetHeight"`
	MaxWidgetHeightPx    float64 `json:"maxWidgetHeightPx" yaml:"maxWidgetHeightPx"`
	MinCardWidthPx       float64 `json:"minCardWidthPx" yaml:"minCardWidthPx"`
	DragAutoScrollEdgePx float64 `json:"dragAutoScrollEdgePx" yaml:"dragAutoScrollEdgePx"`
	DragAutoScrollStepPx float64 `json:"dragAutoScrollStepPx" yaml:"dragAutoScrollStepPx"`
}

// Default layout settings
const (
	DefaultMinWidgetHeight      = 120
	DefaultMaxWidgetHeightPx    = 760
	DefaultMinCardWidthPx       = 320
	DefaultDragAutoScrollEdgePx = 80
	DefaultDragAutoScrollStepPx = 24
)

// Safe ranges each setting is clamped into on save
const (
	MinWidgetHeightFloor = 80
	MinWidgetHeightCeil  = 600
	MaxWidgetHeightFloor = 200
	MaxWidgetHeightCeil  = 2400
	MinCardWidthFloor    = 200
	MinCardWidthCeil     = 1600
	AutoScrollEdgeFloor  = 8
	AutoScrollEdgeCeil   = 400
	AutoScrollStepFloor  = 1
	AutoScrollStepCeil   = 200
)

// DefaultSettings returns the factory layout settings
func DefaultSettings() Settings {
	return Settings{
		MinWidgetHeight:      DefaultMinWidgetHeight,
		MaxWidgetHeightPx:    DefaultMaxWidgetHeightPx,
		MinCardWidthPx:       DefaultMinCardWidthPx,
		DragAutoScrollEdgePx: DefaultDragAutoScrollEdgePx,
		DragAutoScrollStepPx: DefaultDragAutoScrollStepPx,
	}
}

// Clamped returns a copy with every field forced into its safe range. Non-finite
// values are replaced by the default.
func (s Settings) Clamped() Settings {
	d := DefaultSettings()
	return Settings{
		MinWidgetHeight:      clampSetting(s.MinWidgetHeight, d.MinWidgetHeight, MinWidgetHeightFloor, MinWidgetHeightCeil),
		MaxWidgetHeightPx:    clampSetting(s.MaxWidgetHeightPx, d.MaxWidgetHeightPx, MaxWidgetHeightFloor, MaxWidgetHeightCeil),
		MinCardWidthPx:       clampSetting(s.MinCardWidthPx, d.MinCardWidthPx, MinCardWidthFloor, MinCardWidthCeil),
		DragAutoScrollEdgePx: clampSetting(s.DragAutoScrollEdgePx, d.DragAutoScrollEdgePx, AutoScrollEdgeFloor, AutoScrollEdgeCeil),
		DragAutoScrollStepPx: clampSetting(s.DragAutoScrollStepPx, d.DragAutoScrollStepPx, AutoScrollStepFloor, AutoScrollStepCeil),
	}
}

func clampSetting(v, fallback, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, v))
}
