package dashboard

import (
	"math"

	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
)

// EnforceCardSpanConstraints clamps the column span of every shown card and persists
// each correction. Running it twice changes nothing the second time.
func (d *Dashboard) EnforceCardSpanConstraints() {
	d.locked(func() {
		g := d.geometry()
		if d.enforceSpansLocked(g) {
			d.recomputeRowSpansLocked(g)
			d.queueRender()
		}
	})
}

// EnforceWidgetHeightConstraints clamps the widget height of every shown card whose
// widget block is visible.
func (d *Dashboard) EnforceWidgetHeightConstraints() {
	d.locked(func() {
		g := d.geometry()
		if d.enforceHeightsLocked(g) {
			d.recomputeRowSpansLocked(g)
			d.queueRender()
		}
	})
}

// Relayout re-runs both constraint passes and the row span pass. The renderer calls
// it when the container or viewport size changes.
func (d *Dashboard) Relayout() {
	d.locked(func() {
		g := d.geometry()
		d.enforceSpansLocked(g)
		d.enforceHeightsLocked(g)
		if d.recomputeRowSpansLocked(g) {
			d.queueRender()
		}
	})
}

// RecomputeRowSpans refreshes row spans after header heights changed
func (d *Dashboard) RecomputeRowSpans() {
	d.locked(func() {
		if d.recomputeRowSpansLocked(d.geometry()) {
			d.queueRender()
		}
	})
}

func (d *Dashboard) shownLocked(id string) bool {
	return d.cards[id] != nil && !d.store.IsHidden(id)
}

func (d *Dashboard) enforceSpansLocked(g grid.Geometry) bool {
	changed := false
	for _, id := range d.order {
		if !d.shownLocked(id) {
			continue
		}
		c := d.cards[id]
		span := g.ClampSpan(c.colSpan)
		if span == c.colSpan {
			// the live span may already be clamped while the stored one is not
			if saved, ok := d.store.LayoutFor(id); ok && saved.HasColSpan() && saved.ColSpan != span && !d.resizingLocked(id) {
				d.store.SaveLayout(id, model.ColSpanPatch(span))
			}
			continue
		}
		c.colSpan = span
		d.store.SaveLayout(id, model.ColSpanPatch(span))
		d.queueCard(id)
		changed = true
	}
	return changed
}

// resizingLocked reports whether id is in a live resize whose size is not committed yet
func (d *Dashboard) resizingLocked(id string) bool {
	return d.resize != nil && d.resize.toolID == id
}

func (d *Dashboard) enforceHeightsLocked(g grid.Geometry) bool {
	changed := false
	for _, id := range d.order {
		if !d.shownLocked(id) {
			continue
		}
		c := d.cards[id]
		if !c.widgetVisible {
			continue
		}
		h := g.ClampHeight(c.height)
		if math.Round(h) == math.Round(c.height) {
			if saved, ok := d.store.LayoutFor(id); ok && saved.HasHeight() && math.Round(saved.Height) != math.Round(h) && !d.resizingLocked(id) {
				d.store.SaveLayout(id, model.HeightPatch(math.Round(h)))
			}
			continue
		}
		c.height = h
		d.store.SaveLayout(id, model.HeightPatch(math.Round(h)))
		d.queueCard(id)
		changed = true
	}
	return changed
}

// recomputeRowSpansLocked reports whether any shown card's row span changed
func (d *Dashboard) recomputeRowSpansLocked(g grid.Geometry) bool {
	changed := false
	for _, id := range d.order {
		if !d.shownLocked(id) {
			continue
		}
		if d.updateRowSpanLocked(g, id) {
			changed = true
		}
	}
	return changed
}

func (d *Dashboard) updateRowSpanLocked(g grid.Geometry, id string) bool {
	c := d.cards[id]
	span := g.RowSpan(d.surface.HeaderHeight(id), c.height, c.widgetVisible)
	if span == c.rowSpan {
		return false
	}
	c.rowSpan = span
	return true
}

// SetHidden moves a tool in or out of the hidden set
func (d *Dashboard) SetHidden(id string, hidden bool) error {
	var err error
	d.locked(func() {
		if d.cards[id] == nil {
			err = ErrUnknownTool
			return
		}
		if !d.store.SetHidden(id, hidden) {
			return
		}
		if hidden && d.resize != nil && d.resize.toolID == id {
			d.cancelResizeLocked()
		}
		g := d.geometry()
		d.enforceSpansLocked(g)
		d.recomputeRowSpansLocked(g)
		d.queueCard(id)
		d.queueRender()
		d.menus.Changed()
		d.logger.Debug("visibility changed", "tool", id, "hidden", hidden)
	})
	return err
}

// Settings returns the layout settings in effect
func (d *Dashboard) Settings() model.Settings {
	return d.store.Settings()
}

// SaveSettings stores clamped settings and re-applies every constraint
func (d *Dashboard) SaveSettings(s model.Settings) model.Settings {
	var saved model.Settings
	d.locked(func() {
		saved = d.store.SaveSettings(s)
		g := d.geometry()
		d.enforceSpansLocked(g)
		d.enforceHeightsLocked(g)
		d.recomputeRowSpansLocked(g)
		d.queueRender()
	})
	return saved
}

// ActivityCollapsed reports whether the activity panel is collapsed
func (d *Dashboard) ActivityCollapsed() bool {
	return d.store.Collapsed()
}

// SetActivityCollapsed persists the activity panel flag
func (d *Dashboard) SetActivityCollapsed(collapsed bool) {
	d.store.SetCollapsed(collapsed)
}
