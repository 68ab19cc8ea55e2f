package dashboard

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ytget/toolboard/internal/model"
	"github.com/ytget/toolboard/internal/store"
)

func ids(tools []model.ToolView) []string {
	out := make([]string, 0, len(tools))
	for _, tv := range tools {
		out = append(out, tv.ID)
	}
	return out
}

func TestSortTools(t *testing.T) {
	tools := []model.ToolView{
		tool("logger", "Logger", model.CategoryBackground),
		tool("zeta", "alpha", model.CategoryDisplay),
		tool("dice", "Dice", model.CategoryHybrid),
		tool("clock", "Alpha", model.CategoryDisplay),
		tool("cal", "Calendar", model.CategoryDisplay),
	}

	tests := []struct {
		name  string
		saved []string
		want  []string
	}{
		{"category then title then id", nil, []string{"clock", "zeta", "cal", "dice", "logger"}},
		{"saved order wins", []string{"logger", "dice", "cal", "zeta", "clock"}, []string{"logger", "dice", "cal", "zeta", "clock"}},
		{"unseen ids keep relative order after saved", []string{"dice", "gone"}, []string{"dice", "clock", "zeta", "cal", "logger"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(SortTools(tools, tt.saved)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortTools() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestSortToolsIsStable(t *testing.T) {
	tools := []model.ToolView{
		tool("b", "Same", model.CategoryDisplay),
		tool("a", "Same", model.CategoryDisplay),
		tool("c", "Same", model.CategoryDisplay),
	}
	for i := 0; i < 20; i++ {
		if got := ids(SortTools(tools, []string{"c"})); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
			t.Fatalf("SortTools() = %v, expected [c a b]", got)
		}
	}
}

func TestLoadAppliesStoredState(t *testing.T) {
	f := newFixture(t, threeTools(), func(s *store.Store) {
		s.SaveOrder([]string{"c", "a", "b"})
		s.SaveLayout("a", model.SizePatch(5000, 9))
		s.SaveLayout("b", model.HeightPatch(300))
		s.SetHidden("b", true)
		s.SetHidden("ghost", true)
	})
	f.load(t)

	if got := f.d.Order(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("Order() = %v, expected [c a b]", got)
	}
	a, _ := f.d.Card("a")
	if a.Height != 760 || a.ColSpan != 4 {
		t.Errorf("card a = height %v span %d, expected 760 and 4", a.Height, a.ColSpan)
	}
	if e, _ := f.store.LayoutFor("a"); e.Height != 5000 {
		t.Errorf("load clamping should not be persisted, stored %v", e)
	}
	if got := f.store.Hidden(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Hidden() = %v, expected ghost pruned", got)
	}
	if got := len(f.d.VisibleCards()); got != 2 {
		t.Errorf("VisibleCards() = %d cards, expected 2", got)
	}
	c, _ := f.d.Card("c")
	if c.Height != 240 || c.ColSpan != 1 || c.RowSpan == 0 {
		t.Errorf("card c = %+v, expected defaults", c)
	}
	if c.StatusLine != "Checking..." {
		t.Errorf("StatusLine = %q before any liveness", c.StatusLine)
	}
	if f.view.renderCount() == 0 {
		t.Error("Load should render")
	}
	if f.svc.statusCalls != 1 {
		t.Errorf("Load should trigger one refresh, got %d", f.svc.statusCalls)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)
	renders := f.view.renderCount()

	f.svc.listErr = errors.New("connection refused")
	if err := f.d.Load(context.Background()); err == nil {
		t.Fatal("Load() should return the fetch error")
	}
	if got := f.d.Order(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Order() = %v after failed load", got)
	}
	if f.view.renderCount() != renders {
		t.Error("failed load should not re-render")
	}
}

func TestLoadCancelsGestures(t *testing.T) {
	f := newFixture(t, threeTools(), func(s *store.Store) {
		s.SaveLayout("a", model.HeightPatch(200))
	})
	f.load(t)

	if err := f.d.BeginResize("a", ResizeBottom, 1, Point{}); err != nil {
		t.Fatalf("BeginResize() error = %v", err)
	}
	f.d.ResizeMove(1, Point{Y: 80})
	f.load(t)

	if _, _, ok := f.d.Resizing(); ok {
		t.Error("reload should cancel the resize session")
	}
	if e, _ := f.store.LayoutFor("a"); e.Height != 200 {
		t.Errorf("cancelled resize should not commit, stored %v", e)
	}
	f.frames.run()
	if a, _ := f.d.Card("a"); a.Height != 200 {
		t.Errorf("stale frame changed the height to %v", a.Height)
	}
}

func TestLoadDropsMenuOfRemovedTool(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)
	f.d.ToggleCardSettings("c")

	f.svc.tools = threeTools()[:2]
	f.load(t)
	if got := f.d.MenuState(); got.Kind != MenuNone {
		t.Errorf("MenuState() = %+v, expected closed", got)
	}
}
