package dashboard

import (
	"math"

	"github.com/google/uuid"
)

// DragState is the phase of the drag-reorder gesture
type DragState int

const (
	DragIdle DragState = iota
	DragArmed
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragArmed:
		return "armed"
	case DragDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// sameRowFactor is the share of the target height within which two card tops count
// as the same row
const sameRowFactor = 0.35

type dragSession struct {
	id          uuid.UUID
	sourceID    string
	pointer     *Point
	scrollFrame FrameID
}

// DragState returns the current drag phase
func (d *Dashboard) DragState() DragState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dragState
}

// ArmDrag arms a drag on a header pointer-down. Presses on header controls never arm.
func (d *Dashboard) ArmDrag(id string, onControl bool) bool {
	armed := false
	d.locked(func() {
		if onControl || d.dragState == DragDragging || d.resize != nil || !d.shownLocked(id) {
			return
		}
		d.dragState = DragArmed
		d.armedID = id
		armed = true
	})
	return armed
}

// DisarmDrag drops an armed drag on header pointer-up or cancel
func (d *Dashboard) DisarmDrag(id string) {
	d.locked(func() {
		if d.dragState == DragArmed && d.armedID == id {
			d.dragState = DragIdle
			d.armedID = ""
		}
	})
}

// BeginDrag starts dragging id. It only succeeds when the same card is armed and no
// resize is running; otherwise the machine returns to idle.
func (d *Dashboard) BeginDrag(id string) error {
	var err error
	d.locked(func() {
		if d.dragState != DragArmed || d.armedID != id || d.resize != nil || !d.shownLocked(id) {
			d.cancelDragLocked()
			err = ErrDragRejected
			return
		}
		d.dragState = DragDragging
		d.armedID = ""
		d.drag = &dragSession{id: uuid.New(), sourceID: id}
		d.queueCard(id)
		d.logger.Debug("drag started", "tool", id, "session", d.drag.id)
	})
	return err
}

// DragOver handles pointer movement over the grid during a drag. It reports whether
// the live order changed.
func (d *Dashboard) DragOver(p Point) bool {
	moved := false
	d.locked(func() {
		s := d.drag
		if d.dragState != DragDragging || s == nil {
			return
		}
		s.pointer = &p
		d.updateAutoScrollLocked(s)

		targetID, ok := d.surface.CardAt(p)
		if !ok || targetID == s.sourceID || !d.shownLocked(targetID) {
			return
		}
		targetRect, ok := d.surface.CardRect(targetID)
		if !ok {
			return
		}
		before := true
		if srcRect, ok := d.surface.CardRect(s.sourceID); ok {
			before = insertBefore(srcRect, targetRect, p)
		}
		if d.moveBesideLocked(s.sourceID, targetID, before) {
			d.recomputeRowSpansLocked(d.geometry())
			d.queueRender()
			moved = true
		}
	})
	return moved
}

// EndDrag finishes or cancels a drag and persists the live order
func (d *Dashboard) EndDrag() {
	d.locked(func() {
		if d.dragState != DragDragging {
			d.cancelDragLocked()
			return
		}
		src := d.drag.sourceID
		d.cancelDragLocked()
		d.store.SaveOrder(d.order)
		d.recomputeRowSpansLocked(d.geometry())
		d.queueCard(src)
		d.queueRender()
		d.logger.Debug("drag finished", "tool", src)
	})
}

// insertBefore decides which side of target the source lands on. Cards in the same
// row compare horizontal midpoints, otherwise vertical ones.
func insertBefore(src, target Rect, p Point) bool {
	if math.Abs(src.Y-target.Y) < target.H*sameRowFactor {
		return p.X < target.MidX()
	}
	return p.Y < target.MidY()
}

// moveBesideLocked moves src directly before or after target in the live order
func (d *Dashboard) moveBesideLocked(src, target string, before bool) bool {
	next := make([]string, 0, len(d.order))
	for _, id := range d.order {
		if id == src {
			continue
		}
		if id == target && before {
			next = append(next, src)
		}
		next = append(next, id)
		if id == target && !before {
			next = append(next, src)
		}
	}
	if len(next) != len(d.order) || equalOrder(next, d.order) {
		return false
	}
	d.order = next
	return true
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// scrollDirection returns -1 near the top edge, +1 near the bottom edge and 0 elsewhere
func (d *Dashboard) scrollDirection(p *Point) float64 {
	if p == nil {
		return 0
	}
	edge := d.store.Settings().Clamped().DragAutoScrollEdgePx
	vh := d.surface.Metrics().ViewportHeight
	switch {
	case p.Y < edge:
		return -1
	case p.Y > vh-edge:
		return 1
	default:
		return 0
	}
}

// updateAutoScrollLocked starts the scroll loop when the pointer enters an edge zone
// and stops it when the pointer leaves
func (d *Dashboard) updateAutoScrollLocked(s *dragSession) {
	if d.scrollDirection(s.pointer) == 0 {
		if s.scrollFrame != 0 {
			d.frames.CancelFrame(s.scrollFrame)
			s.scrollFrame = 0
		}
		return
	}
	if s.scrollFrame == 0 {
		s.scrollFrame = d.frames.RequestFrame(d.autoScrollFrame(s.id))
	}
}

func (d *Dashboard) autoScrollFrame(session uuid.UUID) func() {
	return func() {
		d.locked(func() {
			s := d.drag
			if s == nil || s.id != session {
				return
			}
			s.scrollFrame = 0
			dir := d.scrollDirection(s.pointer)
			if dir == 0 {
				return
			}
			d.surface.ScrollBy(dir * d.store.Settings().Clamped().DragAutoScrollStepPx)
			s.scrollFrame = d.frames.RequestFrame(d.autoScrollFrame(session))
		})
	}
}

// cancelDragLocked returns the machine to idle and cancels its pending frame
func (d *Dashboard) cancelDragLocked() {
	if s := d.drag; s != nil {
		if s.scrollFrame != 0 {
			d.frames.CancelFrame(s.scrollFrame)
		}
		d.queueCard(s.sourceID)
	}
	d.drag = nil
	d.dragState = DragIdle
	d.armedID = ""
}
