package dashboard

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
	"github.com/ytget/toolboard/internal/store"
)

type fakeService struct {
	mu sync.Mutex

	tools   []model.ToolView
	listErr error

	statuses      []model.Liveness
	statusErr     error
	statusCalls   int
	statusGate    chan struct{}
	statusStarted chan struct{}

	launchErr  error
	killErr    error
	autoErr    error
	actionGate chan struct{}
	launches   []string
	kills      []string
	autoStarts map[string]bool
}

func (f *fakeService) ListTools(ctx context.Context) ([]model.ToolView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.ToolView(nil), f.tools...), nil
}

func (f *fakeService) StatusAll(ctx context.Context) ([]model.Liveness, error) {
	f.mu.Lock()
	f.statusCalls++
	gate, started := f.statusGate, f.statusStarted
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return append([]model.Liveness(nil), f.statuses...), nil
}

func (f *fakeService) waitAction() {
	f.mu.Lock()
	gate := f.actionGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeService) Launch(ctx context.Context, id string) error {
	f.waitAction()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches = append(f.launches, id)
	return f.launchErr
}

func (f *fakeService) Kill(ctx context.Context, id string) error {
	f.waitAction()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kills = append(f.kills, id)
	return f.killErr
}

func (f *fakeService) SetAutoStart(ctx context.Context, id string, enabled bool) error {
	f.waitAction()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.autoStarts == nil {
		f.autoStarts = map[string]bool{}
	}
	f.autoStarts[id] = enabled
	return f.autoErr
}

func (f *fakeService) WidgetURL(id string) string {
	return "http://controller/proxy/" + id + "/widget"
}

func (f *fakeService) setStatuses(s ...model.Liveness) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = s
}

// fakeSurface serves fixed card rectangles
type fakeSurface struct {
	mu       sync.Mutex
	metrics  grid.Metrics
	rects    map[string]Rect
	header   float64
	scrolls  []float64
	captured map[string]int
	released int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		metrics:  grid.Metrics{ContainerWidth: 1340, Columns: 4, ColumnGap: 20, ViewportHeight: 1000},
		rects:    map[string]Rect{},
		header:   48,
		captured: map[string]int{},
	}
}

func (s *fakeSurface) Metrics() grid.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

func (s *fakeSurface) setMetrics(m grid.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

func (s *fakeSurface) CardRect(id string) (Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rects[id]
	return r, ok
}

func (s *fakeSurface) CardAt(p Point) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rects {
		if r.Contains(p) {
			return id, true
		}
	}
	return "", false
}

func (s *fakeSurface) HeaderHeight(string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header
}

func (s *fakeSurface) ScrollBy(dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolls = append(s.scrolls, dy)
}

func (s *fakeSurface) CapturePointer(id string, pointerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captured[id] = pointerID
}

func (s *fakeSurface) ReleasePointer(id string, pointerID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.captured, id)
	s.released++
}

// fakeFrames queues frame callbacks until run is called
type fakeFrames struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func()
}

func newFakeFrames() *fakeFrames {
	return &fakeFrames{pending: map[FrameID]func(){}}
}

func (f *fakeFrames) RequestFrame(fn func()) FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.pending[f.next] = fn
	return f.next
}

func (f *fakeFrames) CancelFrame(id FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)
}

func (f *fakeFrames) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// run fires the frames queued so far, in request order
func (f *fakeFrames) run() {
	f.mu.Lock()
	ids := make([]FrameID, 0, len(f.pending))
	for id := range f.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, f.pending[id])
		delete(f.pending, id)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type recordingView struct {
	mu      sync.Mutex
	renders int
	cards   []string
	menus   []MenuState
	errors  []string
	resizes []bool
}

func (v *recordingView) Render() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders++
}

func (v *recordingView) CardChanged(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = append(v.cards, id)
}

func (v *recordingView) MenuChanged(s MenuState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.menus = append(v.menus, s)
}

func (v *recordingView) ShowError(msg string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, msg)
}

func (v *recordingView) ResizeStateChanged(id string, mode ResizeMode, active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resizes = append(v.resizes, active)
}

func (v *recordingView) renderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

type fixture struct {
	d       *Dashboard
	svc     *fakeService
	surface *fakeSurface
	frames  *fakeFrames
	view    *recordingView
	store   *store.Store
	backend store.Backend
}

func tool(id, title string, cat model.Category) model.ToolView {
	return model.ToolView{ID: id, Title: title, Category: cat, Status: model.ToolStatusUnknown}
}

// newFixture builds a dashboard. prepare runs against the backend before the store
// loads, so tests can seed persisted state.
func newFixture(t *testing.T, tools []model.ToolView, prepare func(*store.Store)) *fixture {
	t.Helper()
	backend := test.NewApp().Preferences()
	if prepare != nil {
		prepare(store.New(backend, nil))
	}
	f := &fixture{
		svc:     &fakeService{tools: tools},
		surface: newFakeSurface(),
		frames:  newFakeFrames(),
		view:    &recordingView{},
		backend: backend,
	}
	f.store = store.New(backend, nil)
	f.d = New(Options{
		Service:            f.svc,
		Store:              f.store,
		Surface:            f.surface,
		View:               f.view,
		Frames:             f.frames,
		ActionRefreshDelay: time.Hour,
	})
	return f
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	if err := f.d.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func threeTools() []model.ToolView {
	return []model.ToolView{
		tool("a", "Alpha", model.CategoryDisplay),
		tool("b", "Beta", model.CategoryDisplay),
		tool("c", "Gamma", model.CategoryDisplay),
	}
}

func allAlive(ids ...string) []model.Liveness {
	out := make([]model.Liveness, 0, len(ids))
	for i, id := range ids {
		out = append(out, model.Liveness{ID: id, Alive: true, PID: 100 + i})
	}
	return out
}
