package dashboard

import (
	"context"
	"fmt"

	"github.com/ytget/toolboard/internal/model"
)

const refreshKey = "status-all"

// Refresh fetches liveness of every tool and applies it. Concurrent callers share one
// request and receive the same result.
func (d *Dashboard) Refresh(ctx context.Context) ([]model.Liveness, error) {
	v, err, shared := d.refreshGroup.Do(refreshKey, func() (any, error) {
		statuses, err := d.svc.StatusAll(ctx)
		if err != nil {
			d.logger.Warn("status refresh failed", "err", err)
			return nil, err
		}
		d.locked(func() {
			d.applyStatusesLocked(statuses)
		})
		return statuses, nil
	})
	if err != nil {
		return nil, fmt.Errorf("refresh statuses: %w", err)
	}
	if shared {
		d.logger.Debug("refresh shared with a concurrent caller")
	}
	return v.([]model.Liveness), nil
}

func (d *Dashboard) applyStatusesLocked(statuses []model.Liveness) {
	for _, l := range statuses {
		c := d.cards[l.ID]
		if c == nil {
			continue
		}
		before := *c
		c.alive = l.Alive
		c.pid = l.PID
		c.statusKnown = true
		c.tool.Status = model.StatusFromAlive(l.Alive)
		if l.Alive {
			if c.frameSource == "" {
				c.frameSource = d.svc.WidgetURL(l.ID)
			}
			c.widgetVisible = true
		} else {
			c.frameSource = ""
			c.widgetVisible = false
			if d.resize != nil && d.resize.toolID == l.ID {
				d.cancelResizeLocked()
			}
		}
		if *c != before {
			d.queueCard(l.ID)
		}
	}

	g := d.geometry()
	d.enforceSpansLocked(g)
	d.recomputeRowSpansLocked(g)
	d.queueRender()
	if d.menus.State().Kind == MenuHiddenTools {
		d.menus.Changed()
	}
}
