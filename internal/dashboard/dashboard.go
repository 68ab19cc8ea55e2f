package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
	"github.com/ytget/toolboard/internal/store"
)

// Errors returned by gesture and action methods
var (
	ErrActionPending  = errors.New("an action is already pending for this tool")
	ErrDragRejected   = errors.New("drag rejected")
	ErrResizeRejected = errors.New("resize rejected")
	ErrUnknownTool    = errors.New("unknown tool")
)

// Default timings
const (
	DefaultRefreshInterval    = 2 * time.Second
	DefaultActionRefreshDelay = 400 * time.Millisecond
)

// Options wires a Dashboard to its collaborators. Service, Store, Surface and Frames
// are required.
type Options struct {
	Service ToolService
	Store   *store.Store
	Surface Surface
	View    View
	Frames  FrameScheduler
	Tuning  grid.Tuning

	RefreshInterval    time.Duration
	ActionRefreshDelay time.Duration

	Logger *slog.Logger
}

// Dashboard is the layout engine
type Dashboard struct {
	mu sync.Mutex

	svc     ToolService
	store   *store.Store
	surface Surface
	view    View
	frames  FrameScheduler
	tuning  grid.Tuning
	logger  *slog.Logger

	refreshInterval    time.Duration
	actionRefreshDelay time.Duration
	refreshGroup       singleflight.Group

	// ctx bounds scheduled refreshes and is cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc

	cards map[string]*card
	order []string

	dragState DragState
	armedID   string
	drag      *dragSession
	resize    *resizeSession
	menus     *MenuCoordinator

	outbox       []func(View)
	renderQueued bool
}

// New creates a Dashboard. Nothing is fetched until Load is called.
func New(opts Options) *Dashboard {
	if opts.View == nil {
		opts.View = NopView{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tuning == (grid.Tuning{}) {
		opts.Tuning = grid.DefaultTuning()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.ActionRefreshDelay <= 0 {
		opts.ActionRefreshDelay = DefaultActionRefreshDelay
	}
	d := &Dashboard{
		svc:                opts.Service,
		store:              opts.Store,
		surface:            opts.Surface,
		view:               opts.View,
		frames:             opts.Frames,
		tuning:             opts.Tuning,
		logger:             opts.Logger.With("component", "dashboard"),
		refreshInterval:    opts.RefreshInterval,
		actionRefreshDelay: opts.ActionRefreshDelay,
		cards:              make(map[string]*card),
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.menus = NewMenuCoordinator(func(s MenuState) {
		d.queue(func(v View) { v.MenuChanged(s) })
	})
	return d
}

// Run polls liveness until ctx is cancelled
func (d *Dashboard) Run(ctx context.Context) {
	ticker := time.NewTicker(d.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Refresh(ctx); err != nil && ctx.Err() == nil {
				d.logger.Debug("periodic refresh failed", "err", err)
			}
		}
	}
}

// RefreshSoon schedules one refresh after delay. A refresh still pending when the
// dashboard is closed is dropped.
func (d *Dashboard) RefreshSoon(delay time.Duration) {
	time.AfterFunc(delay, func() {
		if d.ctx.Err() != nil {
			return
		}
		if _, err := d.Refresh(d.ctx); err != nil && d.ctx.Err() == nil {
			d.logger.Debug("scheduled refresh failed", "err", err)
		}
	})
}

// Close drops pending scheduled refreshes, tears down any live gesture and closes
// every overlay
func (d *Dashboard) Close() {
	d.cancel()
	defer d.flush()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelDragLocked()
	d.cancelResizeLocked()
	d.menus.Escape()
}

// geometry builds the geometry for the current container metrics and settings
func (d *Dashboard) geometry() grid.Geometry {
	return grid.New(d.surface.Metrics(), d.store.Settings(), d.tuning)
}

// Geometry returns the geometry the engine is currently enforcing
func (d *Dashboard) Geometry() grid.Geometry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.geometry()
}

// queue records a notification for delivery after the lock is released. Callers
// hold d.mu.
func (d *Dashboard) queue(fn func(View)) {
	d.outbox = append(d.outbox, fn)
}

func (d *Dashboard) queueRender() {
	d.renderQueued = true
}

func (d *Dashboard) queueCard(id string) {
	d.queue(func(v View) { v.CardChanged(id) })
}

// flush delivers queued notifications. It must run without d.mu held.
func (d *Dashboard) flush() {
	d.mu.Lock()
	pending := d.outbox
	render := d.renderQueued
	d.outbox = nil
	d.renderQueued = false
	d.mu.Unlock()

	for _, fn := range pending {
		fn(d.view)
	}
	if render {
		d.view.Render()
	}
}

// locked runs fn under the lock and delivers its notifications afterwards
func (d *Dashboard) locked(fn func()) {
	defer d.flush()
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// knownIDs returns the set of registered tool ids
func (d *Dashboard) knownIDs() map[string]bool {
	known := make(map[string]bool, len(d.cards))
	for id := range d.cards {
		known[id] = true
	}
	return known
}

// defaultStatusLine is shown until the first liveness report
const defaultStatusLine = "Checking..."

// card is the registry entry of one tool with its transient UI state
type card struct {
	tool          model.ToolView
	alive         bool
	pid           int
	statusKnown   bool
	pending       bool
	frameSource   string
	widgetVisible bool
	height        float64
	colSpan       int
	rowSpan       int
}

func (c *card) statusLine() string {
	if !c.statusKnown {
		return defaultStatusLine
	}
	return model.Liveness{ID: c.tool.ID, Alive: c.alive, PID: c.pid}.StatusLine()
}

// Card is a read-only snapshot of one card
type Card struct {
	ID            string
	Title         string
	Category      model.Category
	Status        model.ToolStatus
	AutoStart     bool
	Alive         bool
	PID           int
	StatusKnown   bool
	StatusLine    string
	Pending       bool
	Hidden        bool
	FrameSource   string
	WidgetVisible bool
	Height        float64
	ColSpan       int
	RowSpan       int
	Dragging      bool
	Resizing      bool
}

func (d *Dashboard) snapshotLocked(c *card) Card {
	id := c.tool.ID
	return Card{
		ID:            id,
		Title:         c.tool.Title,
		Category:      c.tool.Category,
		Status:        c.tool.Status,
		AutoStart:     c.tool.AutoStart,
		Alive:         c.alive,
		PID:           c.pid,
		StatusKnown:   c.statusKnown,
		StatusLine:    c.statusLine(),
		Pending:       c.pending,
		Hidden:        d.store.IsHidden(id),
		FrameSource:   c.frameSource,
		WidgetVisible: c.widgetVisible,
		Height:        c.height,
		ColSpan:       c.colSpan,
		RowSpan:       c.rowSpan,
		Dragging:      d.drag != nil && d.drag.sourceID == id,
		Resizing:      d.resize != nil && d.resize.toolID == id,
	}
}

// Cards returns every card in live order, hidden ones included
func (d *Dashboard) Cards() []Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Card, 0, len(d.order))
	for _, id := range d.order {
		if c, ok := d.cards[id]; ok {
			out = append(out, d.snapshotLocked(c))
		}
	}
	return out
}

// VisibleCards returns the cards shown in the grid, in live order
func (d *Dashboard) VisibleCards() []Card {
	all := d.Cards()
	out := all[:0]
	for _, c := range all {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Card returns the snapshot of one card
func (d *Dashboard) Card(id string) (Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.cards[id]
	if !ok {
		return Card{}, false
	}
	return d.snapshotLocked(c), true
}

// Order returns the live order of every card
func (d *Dashboard) Order() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.order...)
}

// PageURL returns the address a tool opens at in the browser
func (d *Dashboard) PageURL(id string) string {
	return d.svc.WidgetURL(id)
}
