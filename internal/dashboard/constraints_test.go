package dashboard

import (
	"context"
	"reflect"
	"testing"

	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
	"github.com/ytget/toolboard/internal/store"
)

func wideCards(s *store.Store) {
	settings := model.DefaultSettings()
	settings.MinCardWidthPx = 700
	s.SaveSettings(settings)
}

func TestSpanEnforcementPersistsAndIsIdempotent(t *testing.T) {
	// 700px cards need ceil(720/340) = 3 of 4 columns
	f := newFixture(t, threeTools(), wideCards)
	f.load(t)

	for _, c := range f.d.Cards() {
		if c.ColSpan != 3 {
			t.Errorf("card %s span = %d, expected 3", c.ID, c.ColSpan)
		}
		if e, _ := f.store.LayoutFor(c.ID); e.ColSpan != 3 {
			t.Errorf("card %s stored span = %d, expected 3", c.ID, e.ColSpan)
		}
	}

	before := f.store.Snapshot()
	renders := f.view.renderCount()
	f.d.EnforceCardSpanConstraints()
	f.d.EnforceWidgetHeightConstraints()
	if !reflect.DeepEqual(f.store.Snapshot(), before) {
		t.Error("a second enforcement pass changed the store")
	}
	if f.view.renderCount() != renders {
		t.Error("a no-op enforcement pass should not render")
	}
}

func TestHeightEnforcementOnViewportShrink(t *testing.T) {
	f := newFixture(t, threeTools(), func(s *store.Store) {
		s.SaveLayout("a", model.HeightPatch(700))
		s.SaveLayout("b", model.HeightPatch(300))
	})
	f.load(t)
	f.svc.setStatuses(model.Liveness{ID: "a", Alive: true}, model.Liveness{ID: "b", Alive: true}, model.Liveness{ID: "c", Alive: false})
	f.d.Refresh(context.Background())

	f.surface.setMetrics(grid.Metrics{ContainerWidth: 1340, Columns: 4, ColumnGap: 20, ViewportHeight: 500})
	f.d.Relayout()

	g := f.d.Geometry()
	for id, e := range f.store.Layout() {
		if e.HasHeight() && (e.Height < g.MinWidgetHeight() || e.Height > g.MaxWidgetHeight()) {
			t.Errorf("stored height of %s = %v outside [%v, %v]", id, e.Height, g.MinWidgetHeight(), g.MaxWidgetHeight())
		}
		if e.HasColSpan() && (e.ColSpan < g.MinSpan() || e.ColSpan > g.Columns()) {
			t.Errorf("stored span of %s = %d outside [%d, %d]", id, e.ColSpan, g.MinSpan(), g.Columns())
		}
	}
	if a, _ := f.d.Card("a"); a.Height != 425 {
		t.Errorf("card a height = %v, expected 425", a.Height)
	}
	if e, _ := f.store.LayoutFor("b"); e.Height != 300 {
		t.Errorf("card b already fits and should keep 300, got %v", e.Height)
	}
	if _, ok := f.store.LayoutFor("c"); ok {
		t.Error("a stopped card has no visible widget and must be skipped")
	}
}

func TestColumnsShrinkClampsSpans(t *testing.T) {
	f := newFixture(t, threeTools(), func(s *store.Store) {
		s.SaveLayout("a", model.ColSpanPatch(4))
	})
	f.load(t)

	f.surface.setMetrics(grid.Metrics{ContainerWidth: 660, Columns: 2, ColumnGap: 20, ViewportHeight: 1000})
	f.d.Relayout()
	if a, _ := f.d.Card("a"); a.ColSpan != 2 {
		t.Errorf("span = %d, expected 2", a.ColSpan)
	}
	if e, _ := f.store.LayoutFor("a"); e.ColSpan != 2 {
		t.Errorf("stored span = %d, expected 2", e.ColSpan)
	}
}

func TestVisibilityToggle(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)

	if err := f.d.SetHidden("b", true); err != nil {
		t.Fatalf("SetHidden() error = %v", err)
	}
	if !f.store.IsHidden("b") {
		t.Fatal("b should be in the hidden set")
	}

	// hidden cards are skipped by enforcement
	settings := model.DefaultSettings()
	settings.MinCardWidthPx = 700
	f.d.SaveSettings(settings)
	if _, ok := f.store.LayoutFor("b"); ok {
		t.Error("hidden card b should not be enforced")
	}
	if a, _ := f.d.Card("a"); a.ColSpan != 3 {
		t.Errorf("visible card a span = %d, expected 3", a.ColSpan)
	}

	if err := f.d.SetHidden("b", false); err != nil {
		t.Fatalf("SetHidden() error = %v", err)
	}
	if b, _ := f.d.Card("b"); b.ColSpan != 3 || b.Hidden {
		t.Errorf("card b = %+v, expected clamped and shown", b)
	}
	if e, _ := f.store.LayoutFor("b"); e.ColSpan != 3 {
		t.Errorf("stored span of b = %d, expected 3", e.ColSpan)
	}

	if err := f.d.SetHidden("nope", true); err != ErrUnknownTool {
		t.Errorf("SetHidden(unknown) error = %v, expected ErrUnknownTool", err)
	}
}

func TestSaveSettingsClamps(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)
	got := f.d.SaveSettings(model.Settings{MinWidgetHeight: 1, MaxWidgetHeightPx: 1e6, MinCardWidthPx: 320, DragAutoScrollEdgePx: 80, DragAutoScrollStepPx: 24})
	if got.MinWidgetHeight != model.MinWidgetHeightFloor || got.MaxWidgetHeightPx != model.MaxWidgetHeightCeil {
		t.Errorf("SaveSettings() = %+v", got)
	}
	if f.d.Settings() != got {
		t.Error("Settings() should return the stored values")
	}
}

func TestActivityCollapsed(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.d.SetActivityCollapsed(true)
	if !f.d.ActivityCollapsed() || !f.store.Collapsed() {
		t.Error("activity flag should be persisted")
	}
}

func TestLoadPersistsClampedStoredEntry(t *testing.T) {
	f := newFixture(t, threeTools(), func(s *store.Store) {
		s.SaveLayout("a", model.SizePatch(5000, 9))
	})
	f.load(t)

	g := f.d.Geometry()
	want := model.LayoutEntry{Height: g.MaxWidgetHeight(), ColSpan: g.Columns()}
	if e, _ := f.store.LayoutFor("a"); e != want {
		t.Errorf("stored entry after load = %+v, expected %+v", e, want)
	}
	if a, _ := f.d.Card("a"); a.Height != want.Height || a.ColSpan != want.ColSpan {
		t.Errorf("live card = %v/%d, expected %v/%d", a.Height, a.ColSpan, want.Height, want.ColSpan)
	}

	before := f.store.Snapshot()
	f.d.EnforceCardSpanConstraints()
	f.d.EnforceWidgetHeightConstraints()
	f.d.Relayout()
	if !reflect.DeepEqual(f.store.Snapshot(), before) {
		t.Error("later enforcement passes should leave the corrected entry alone")
	}
}
