package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ytget/toolboard/internal/model"
)

// Load fetches the tool list and rebuilds the registry. A failed fetch keeps the
// current registry and rendered state.
func (d *Dashboard) Load(ctx context.Context) error {
	tools, err := d.svc.ListTools(ctx)
	if err != nil {
		d.logger.Warn("tool list fetch failed", "err", err)
		return fmt.Errorf("load dashboard: %w", err)
	}
	d.locked(func() {
		d.rebuildLocked(tools)
	})
	d.logger.Debug("dashboard loaded", "tools", len(tools))

	if _, err := d.Refresh(ctx); err != nil {
		d.logger.Debug("initial refresh failed", "err", err)
	}
	return nil
}

// SortTools orders tools by category, then case-insensitive title, then id, and then
// applies saved as a stable override. Ids missing from saved keep their relative
// order after every saved id.
func SortTools(tools []model.ToolView, saved []string) []model.ToolView {
	out := append([]model.ToolView(nil), tools...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category.Order() != b.Category.Order() {
			return a.Category.Order() < b.Category.Order()
		}
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}
		return a.ID < b.ID
	})
	if len(saved) == 0 || len(out) < 2 {
		return out
	}

	index := make(map[string]int, len(saved))
	for i, id := range saved {
		if _, dup := index[id]; !dup {
			index[id] = i
		}
	}
	rank := func(id string) int {
		if i, ok := index[id]; ok {
			return i
		}
		return math.MaxInt
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].ID) < rank(out[j].ID)
	})
	return out
}

func (d *Dashboard) rebuildLocked(tools []model.ToolView) {
	d.cancelDragLocked()
	d.cancelResizeLocked()

	sorted := SortTools(dedupeTools(tools), d.store.Order())
	g := d.geometry()
	layout := d.store.Layout()

	d.cards = make(map[string]*card, len(sorted))
	d.order = make([]string, 0, len(sorted))
	for _, tv := range sorted {
		c := &card{
			tool:          tv,
			widgetVisible: tv.Status != model.ToolStatusStopped,
			height:        g.DefaultWidgetHeight(),
			colSpan:       1,
		}
		if saved, ok := layout[tv.ID]; ok {
			if saved.HasHeight() {
				c.height = g.ClampHeight(saved.Height)
			}
			if saved.HasColSpan() {
				c.colSpan = g.ClampSpan(saved.ColSpan)
			}
		}
		d.cards[tv.ID] = c
		d.order = append(d.order, tv.ID)
	}

	d.store.PruneHidden(d.knownIDs())
	d.reconcileMenusLocked()

	d.enforceSpansLocked(g)
	d.enforceHeightsLocked(g)
	d.recomputeRowSpansLocked(g)
	d.queueRender()
}

// dedupeTools keeps the first record of each id
func dedupeTools(tools []model.ToolView) []model.ToolView {
	seen := make(map[string]bool, len(tools))
	out := make([]model.ToolView, 0, len(tools))
	for _, tv := range tools {
		if seen[tv.ID] {
			continue
		}
		seen[tv.ID] = true
		out = append(out, tv)
	}
	return out
}

// reconcileMenusLocked closes overlays that point at tools no longer registered
func (d *Dashboard) reconcileMenusLocked() {
	s := d.menus.State()
	if s.Kind == MenuCardSettings && d.cards[s.CardID] == nil {
		d.menus.Close()
		return
	}
	if s.RowMenuFor != "" && d.cards[s.RowMenuFor] == nil {
		d.menus.CloseRowMenu()
	}
	if s.Kind != MenuNone {
		d.menus.Changed()
	}
}
