package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/toolboard/internal/config"
	"github.com/ytget/toolboard/internal/dashboard"
	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
	"github.com/ytget/toolboard/internal/store"
)

type fakeService struct {
	mu       sync.Mutex
	tools    []model.ToolView
	statuses []model.Liveness
	activity model.ActivityRange
	actErr   error
	launches []string
}

func (f *fakeService) ListTools(context.Context) ([]model.ToolView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ToolView(nil), f.tools...), nil
}

func (f *fakeService) StatusAll(context.Context) ([]model.Liveness, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Liveness(nil), f.statuses...), nil
}

func (f *fakeService) Launch(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches = append(f.launches, id)
	return nil
}

func (f *fakeService) Kill(context.Context, string) error { return nil }

func (f *fakeService) SetAutoStart(context.Context, string, bool) error { return nil }

func (f *fakeService) WidgetURL(id string) string {
	return "http://127.0.0.1:8000/proxy/" + id + "/widget"
}

func (f *fakeService) JobActivity(context.Context, int) (model.ActivityRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activity, f.actErr
}

type rootFixture struct {
	app    fyne.App
	window fyne.Window
	svc    *fakeService
	store  *store.Store
	ui     *RootUI
	opened []string
}

func newRootFixture(t *testing.T, prepare func(*store.Store)) *rootFixture {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	svc := &fakeService{
		tools: []model.ToolView{
			{ID: "alpha", Title: "Alpha", Category: model.CategoryDisplay, Status: model.ToolStatusRunning},
			{ID: "beta", Title: "Beta", Category: model.CategoryDisplay, Status: model.ToolStatusRunning},
			{ID: "gamma", Title: "Gamma", Category: model.CategoryBackground, Status: model.ToolStatusStopped},
		},
		statuses: []model.Liveness{
			{ID: "alpha", Alive: true, PID: 11},
			{ID: "beta", Alive: true, PID: 12},
			{ID: "gamma", Alive: false},
		},
	}
	st := store.New(a.Preferences(), nil)
	if prepare != nil {
		prepare(st)
	}

	f := &rootFixture{app: a, svc: svc, store: st}
	f.window = test.NewWindow(nil)
	f.window.Resize(fyne.NewSize(1200, 900))
	t.Cleanup(f.window.Close)

	f.ui = NewRootUI(f.window, Deps{
		Service:       svc,
		Store:         st,
		Preferences:   config.NewPreferences(a, nil),
		Tuning:        grid.DefaultTuning(),
		ColumnGap:     20,
		MinTrackWidth: 320,
		OpenURL: func(u string) error {
			f.opened = append(f.opened, u)
			return nil
		},
	})
	t.Cleanup(f.ui.Stop)
	if err := f.ui.Dashboard().Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return f
}

func TestRootRendersVisibleCardsInOrder(t *testing.T) {
	f := newRootFixture(t, func(s *store.Store) {
		s.SetHidden("beta", true)
	})

	if got := len(f.ui.cards); got != 2 {
		t.Fatalf("rendered cards = %d, expected 2", got)
	}
	if _, ok := f.ui.cards["beta"]; ok {
		t.Error("hidden card should not be rendered")
	}
	if got := len(f.ui.gridBox.Objects); got != 2 {
		t.Errorf("grid objects = %d, expected 2", got)
	}
	first := f.ui.gridBox.Objects[0].(*CardWidget)
	if first.ID() != "alpha" {
		t.Errorf("first card = %s, expected alpha", first.ID())
	}
	if f.ui.emptyLabel.Visible() {
		t.Error("empty label should be hidden while cards exist")
	}
}

func TestRootCardReflectsLiveness(t *testing.T) {
	f := newRootFixture(t, nil)

	alpha := f.ui.cards["alpha"].Card()
	if !alpha.Alive || !alpha.WidgetVisible || alpha.FrameSource == "" {
		t.Errorf("alpha = %+v, expected a live widget", alpha)
	}
	gamma := f.ui.cards["gamma"]
	if gamma.Card().WidgetVisible {
		t.Error("stopped card should hide its widget block")
	}
	if gamma.corner.Visible() || gamma.bottom.Visible() {
		t.Error("stopped card should hide its resize handles")
	}
	if !gamma.stoppedText.Visible() {
		t.Error("stopped card should show the stopped text")
	}
}

func TestRootMenusOpenAndEscape(t *testing.T) {
	f := newRootFixture(t, nil)

	f.ui.dash.ToggleHiddenTools()
	if f.ui.overlay.State().Kind != dashboard.MenuHiddenTools {
		t.Fatalf("overlay state = %v, expected hidden-tools", f.ui.overlay.State().Kind)
	}
	if f.ui.overlay.Panel() == nil {
		t.Fatal("apps panel should be shown")
	}
	if top := f.window.Canvas().Overlays().Top(); top != f.ui.overlay.layer {
		t.Error("overlay layer should be the top canvas overlay")
	}

	f.ui.dash.ToggleReorderPanel()
	if f.ui.overlay.State().Kind != dashboard.MenuReorder {
		t.Errorf("overlay state = %v, expected reorder", f.ui.overlay.State().Kind)
	}

	f.window.Canvas().OnTypedKey()(&fyne.KeyEvent{Name: fyne.KeyEscape})
	if f.ui.overlay.State().Kind != dashboard.MenuNone || f.ui.overlay.Panel() != nil {
		t.Error("Escape should close every overlay")
	}
	if top := f.window.Canvas().Overlays().Top(); top != nil {
		t.Error("overlay layer should be removed")
	}
}

func TestRootTapOutsideClosesCardSettings(t *testing.T) {
	f := newRootFixture(t, nil)

	test.Tap(f.ui.cards["alpha"].header.settingsBtn)
	state := f.ui.overlay.State()
	if state.Kind != dashboard.MenuCardSettings || state.CardID != "alpha" {
		t.Fatalf("overlay state = %+v, expected alpha settings", state)
	}

	test.Tap(f.ui.overlay.catcher)
	if f.ui.overlay.State().Kind != dashboard.MenuNone {
		t.Error("a tap outside the panel should close it")
	}
}

func TestRootMoveCardFromReorderPanel(t *testing.T) {
	f := newRootFixture(t, nil)

	f.ui.dash.ToggleReorderPanel()
	if !f.ui.dash.MoveCard("beta", -1) {
		t.Fatal("MoveCard() should move beta")
	}
	first := f.ui.gridBox.Objects[0].(*CardWidget)
	if first.ID() != "beta" {
		t.Errorf("first card = %s, expected beta", first.ID())
	}
	if got := f.store.Order(); len(got) == 0 || got[0] != "beta" {
		t.Errorf("stored order = %v, expected beta first", got)
	}
}

func TestRootOpenPage(t *testing.T) {
	f := newRootFixture(t, nil)

	test.Tap(f.ui.cards["beta"].header.openBtn)
	if len(f.opened) != 1 || f.opened[0] != f.svc.WidgetURL("beta") {
		t.Errorf("opened = %v, expected the beta page", f.opened)
	}
}

func TestRootPowerButtonLaunches(t *testing.T) {
	f := newRootFixture(t, nil)

	test.Tap(f.ui.cards["gamma"].header.powerBtn)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.svc.mu.Lock()
		n := len(f.svc.launches)
		f.svc.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("power button on a stopped tool should launch it")
}

func TestRootHideFromCardSettings(t *testing.T) {
	f := newRootFixture(t, nil)

	f.ui.setHidden("alpha", true)
	if _, ok := f.ui.cards["alpha"]; ok {
		t.Error("hidden card should be removed from the grid")
	}
	if !f.store.IsHidden("alpha") {
		t.Error("hidden flag should be persisted")
	}
	f.ui.setHidden("alpha", false)
	if _, ok := f.ui.cards["alpha"]; !ok {
		t.Error("shown card should come back")
	}
}

func TestRootShowErrorOpensDialog(t *testing.T) {
	f := newRootFixture(t, nil)
	f.ui.ShowError("Could not start the tool", errors.New("boom"))
	if f.window.Canvas().Overlays().Top() == nil {
		t.Error("ShowError should open an error dialog overlay")
	}
}

func TestRootResizeTouchCancelCommits(t *testing.T) {
	f := newRootFixture(t, nil)

	start, _ := f.ui.dash.Card("alpha")
	handle := f.ui.cards["alpha"].bottom
	from := fyne.NewPos(100, 300)
	handle.TouchDown(&mobile.TouchEvent{PointEvent: fyne.PointEvent{AbsolutePosition: from}})
	if _, _, ok := f.ui.dash.Resizing(); !ok {
		t.Fatal("touch on the bottom handle should start a resize")
	}
	handle.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{AbsolutePosition: from.AddXY(0, 50)}})
	handle.TouchCancel(&mobile.TouchEvent{})

	if _, _, ok := f.ui.dash.Resizing(); ok {
		t.Error("cancel should end the session")
	}
	want := start.Height + 50
	if e, _ := f.store.LayoutFor("alpha"); e.Height != want {
		t.Errorf("stored height = %v, expected %v", e.Height, want)
	}
	if c, _ := f.ui.dash.Card("alpha"); c.Height != want {
		t.Errorf("live height = %v, expected %v", c.Height, want)
	}
}

func TestRootWindowHeightChangeReclampsCards(t *testing.T) {
	f := newRootFixture(t, func(st *store.Store) {
		st.SaveLayout("alpha", model.HeightPatch(5000))
	})
	tall, _ := f.ui.dash.Card("alpha")

	f.window.Resize(fyne.NewSize(1200, 600))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c, _ := f.ui.dash.Card("alpha"); c.Height < tall.Height {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	c, _ := f.ui.dash.Card("alpha")
	if c.Height >= tall.Height {
		t.Fatalf("height = %v, expected it below %v after the window got shorter", c.Height, tall.Height)
	}
	if e, _ := f.store.LayoutFor("alpha"); e.Height != c.Height {
		t.Errorf("stored height = %v, expected %v", e.Height, c.Height)
	}
}
