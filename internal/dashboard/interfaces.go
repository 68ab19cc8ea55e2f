package dashboard

import (
	"context"

	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/model"
)

// ToolService is the part of the controller API the dashboard needs
type ToolService interface {
	ListTools(ctx context.Context) ([]model.ToolView, error)
	StatusAll(ctx context.Context) ([]model.Liveness, error)
	Launch(ctx context.Context, id string) error
	Kill(ctx context.Context, id string) error
	SetAutoStart(ctx context.Context, id string, enabled bool) error
	WidgetURL(id string) string
}

// Point is a position in viewport coordinates
type Point struct {
	X, Y float64
}

// Rect is an axis aligned box in viewport coordinates
type Rect struct {
	X, Y, W, H float64
}

// MidX returns the horizontal centre
func (r Rect) MidX() float64 { return r.X + r.W/2 }

// MidY returns the vertical centre
func (r Rect) MidY() float64 { return r.Y + r.H/2 }

// Contains reports whether p lies inside r
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Surface is the engine's read of the rendered grid. Implementations must not call
// back into the Dashboard; they are queried while its lock is held.
type Surface interface {
	Metrics() grid.Metrics
	CardRect(id string) (Rect, bool)
	CardAt(p Point) (string, bool)
	HeaderHeight(id string) float64
	ScrollBy(dy float64)
	CapturePointer(id string, pointerID int)
	ReleasePointer(id string, pointerID int)
}

// View receives change notifications. Calls arrive outside the Dashboard lock.
type View interface {
	// Render asks for the whole grid to be laid out again
	Render()
	// CardChanged reports state changes that only affect one card
	CardChanged(id string)
	MenuChanged(state MenuState)
	// ShowError surfaces a failed user action
	ShowError(msg string, err error)
	ResizeStateChanged(id string, mode ResizeMode, active bool)
}

// NopView ignores every notification
type NopView struct{}

func (NopView) Render()                                     {}
func (NopView) CardChanged(string)                          {}
func (NopView) MenuChanged(MenuState)                       {}
func (NopView) ShowError(string, error)                     {}
func (NopView) ResizeStateChanged(string, ResizeMode, bool) {}

// FrameID identifies a requested animation frame. Zero is never a valid id.
type FrameID uint64

// FrameScheduler runs callbacks on the next animation frame. RequestFrame must not
// run fn synchronously.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}
