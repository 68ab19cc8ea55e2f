package dashboard

import (
	"math"

	"github.com/google/uuid"

	"github.com/ytget/toolboard/internal/model"
)

// ResizeMode selects which affordance started a resize
type ResizeMode int

const (
	// ResizeCorner changes height and column span
	ResizeCorner ResizeMode = iota
	// ResizeBottom only changes height
	ResizeBottom
)

func (m ResizeMode) String() string {
	if m == ResizeBottom {
		return "bottom"
	}
	return "corner"
}

type resizeSession struct {
	id        uuid.UUID
	toolID    string
	mode      ResizeMode
	pointerID int

	startX, startY float64
	lastX, lastY   float64
	startHeight    float64
	startWidth     float64
	startColSpan   int
	nextHeight     float64
	nextColSpan    int

	frame        FrameID
	framePending bool
}

// Resizing reports the tool being resized, if any
func (d *Dashboard) Resizing() (string, ResizeMode, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resize == nil {
		return "", 0, false
	}
	return d.resize.toolID, d.resize.mode, true
}

// BeginResize starts resizing the widget of id. A session left over from a lost
// pointer-up is cancelled without committing first.
func (d *Dashboard) BeginResize(id string, mode ResizeMode, pointerID int, p Point) error {
	var err error
	d.locked(func() {
		d.cancelResizeLocked()
		if d.dragState == DragDragging {
			err = ErrResizeRejected
			return
		}
		c := d.cards[id]
		if c == nil {
			err = ErrUnknownTool
			return
		}
		if !c.widgetVisible || d.store.IsHidden(id) {
			err = ErrResizeRejected
			return
		}
		if d.dragState == DragArmed {
			d.dragState = DragIdle
			d.armedID = ""
		}

		g := d.geometry()
		width := g.SpanWidth(c.colSpan)
		if r, ok := d.surface.CardRect(id); ok && r.W > 0 {
			width = r.W
		}
		d.resize = &resizeSession{
			id:           uuid.New(),
			toolID:       id,
			mode:         mode,
			pointerID:    pointerID,
			startX:       p.X,
			startY:       p.Y,
			lastX:        p.X,
			lastY:        p.Y,
			startHeight:  c.height,
			startWidth:   width,
			startColSpan: c.colSpan,
			nextHeight:   c.height,
			nextColSpan:  c.colSpan,
		}
		d.surface.CapturePointer(id, pointerID)
		d.queue(func(v View) { v.ResizeStateChanged(id, mode, true) })
		d.queueCard(id)
		d.logger.Debug("resize started", "tool", id, "mode", mode, "session", d.resize.id)
	})
	return err
}

// ResizeMove records pointer movement and schedules at most one frame to apply it
func (d *Dashboard) ResizeMove(pointerID int, p Point) {
	d.locked(func() {
		s := d.resize
		if s == nil || s.pointerID != pointerID {
			return
		}
		s.lastX, s.lastY = p.X, p.Y
		if s.framePending {
			return
		}
		s.framePending = true
		s.frame = d.frames.RequestFrame(d.resizeFrame(s.id))
	})
}

func (d *Dashboard) resizeFrame(session uuid.UUID) func() {
	return func() {
		d.locked(func() {
			s := d.resize
			if s == nil || s.id != session {
				return
			}
			s.framePending = false
			s.frame = 0
			d.applyResizeLocked(s)
		})
	}
}

func (d *Dashboard) applyResizeLocked(s *resizeSession) {
	c := d.cards[s.toolID]
	if c == nil {
		return
	}
	g := d.geometry()
	s.nextHeight = g.ClampHeight(s.startHeight + (s.lastY - s.startY))
	c.height = s.nextHeight
	if s.mode == ResizeCorner {
		s.nextColSpan = g.SpanForWidth(s.startWidth + (s.lastX - s.startX))
		c.colSpan = s.nextColSpan
	}
	d.updateRowSpanLocked(g, s.toolID)
	d.queueCard(s.toolID)
	d.queueRender()
}

// EndResize finishes the session owned by pointerID, applies any movement still
// waiting for a frame and persists the final size
func (d *Dashboard) EndResize(pointerID int) {
	d.locked(func() {
		s := d.resize
		if s == nil || s.pointerID != pointerID {
			return
		}
		if s.framePending {
			d.frames.CancelFrame(s.frame)
			s.framePending = false
			s.frame = 0
			d.applyResizeLocked(s)
		}
		d.teardownResizeLocked(s)

		g := d.geometry()
		h := math.Round(s.nextHeight)
		span := g.ClampSpan(s.nextColSpan)
		if c := d.cards[s.toolID]; c != nil {
			c.colSpan = span
			d.updateRowSpanLocked(g, s.toolID)
		}
		d.store.SaveLayout(s.toolID, model.SizePatch(h, span))
		d.queueRender()
		d.logger.Debug("resize committed", "tool", s.toolID, "height", h, "colSpan", span)
	})
}

// CancelResize drops the live session without persisting anything. The card goes
// back to the size it had when the session began. It is the teardown path for a
// reload or a card that went away; a cancelled pointer still ends with EndResize.
func (d *Dashboard) CancelResize() {
	d.locked(d.cancelResizeLocked)
}

func (d *Dashboard) cancelResizeLocked() {
	s := d.resize
	if s == nil {
		return
	}
	if s.framePending {
		d.frames.CancelFrame(s.frame)
	}
	if c := d.cards[s.toolID]; c != nil {
		c.height = s.startHeight
		c.colSpan = s.startColSpan
		if d.updateRowSpanLocked(d.geometry(), s.toolID) {
			d.queueRender()
		}
	}
	d.teardownResizeLocked(s)
}

func (d *Dashboard) teardownResizeLocked(s *resizeSession) {
	d.surface.ReleasePointer(s.toolID, s.pointerID)
	d.resize = nil
	id, mode := s.toolID, s.mode
	d.queue(func(v View) { v.ResizeStateChanged(id, mode, false) })
	d.queueCard(id)
}
