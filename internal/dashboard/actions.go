package dashboard

import (
	"context"
	"fmt"
)

// User facing messages of failed actions
const (
	MsgRunningStateFailed = "Failed to update running state"
	MsgAutoStartFailed    = "Failed to update Auto Start"
)

// ToggleRunning launches a stopped tool or kills a running one. While a previous
// action on the same tool is outstanding it returns ErrActionPending and does nothing.
func (d *Dashboard) ToggleRunning(ctx context.Context, id string) error {
	alive, err := d.beginAction(id)
	if err != nil {
		return err
	}

	action := "launch"
	if alive {
		action = "kill"
		err = d.svc.Kill(ctx, id)
	} else {
		err = d.svc.Launch(ctx, id)
	}

	d.endAction(id, err, MsgRunningStateFailed, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, id, err)
	}
	d.logger.Debug("action sent", "tool", id, "action", action)
	d.RefreshSoon(d.actionRefreshDelay)
	return nil
}

// SetAutoStart changes the auto start flag of a tool. The local flag only changes once
// the controller accepted it.
func (d *Dashboard) SetAutoStart(ctx context.Context, id string, enabled bool) error {
	if _, err := d.beginAction(id); err != nil {
		return err
	}
	err := d.svc.SetAutoStart(ctx, id, enabled)
	d.endAction(id, err, MsgAutoStartFailed, func(c *card) {
		c.tool.AutoStart = enabled
	})
	if err != nil {
		return fmt.Errorf("set auto start %s: %w", id, err)
	}
	return nil
}

// ToggleAutoStart flips the auto start flag of a tool
func (d *Dashboard) ToggleAutoStart(ctx context.Context, id string) error {
	c, ok := d.Card(id)
	if !ok {
		return ErrUnknownTool
	}
	return d.SetAutoStart(ctx, id, !c.AutoStart)
}

// beginAction sets the pending flag and returns the current liveness
func (d *Dashboard) beginAction(id string) (bool, error) {
	var (
		alive bool
		err   error
	)
	d.locked(func() {
		c := d.cards[id]
		if c == nil {
			err = ErrUnknownTool
			return
		}
		if c.pending {
			err = ErrActionPending
			return
		}
		c.pending = true
		alive = c.alive
		d.queueCard(id)
		d.menus.Changed()
	})
	return alive, err
}

// endAction clears the pending flag. On success apply runs against the card; on
// failure the error is shown and nothing else changes.
func (d *Dashboard) endAction(id string, err error, msg string, apply func(*card)) {
	d.locked(func() {
		c := d.cards[id]
		if c == nil {
			// the registry was rebuilt while the request was in flight
			return
		}
		c.pending = false
		if err == nil && apply != nil {
			apply(c)
		}
		d.queueCard(id)
		d.menus.Changed()
	})
	if err != nil {
		d.logger.Warn("action failed", "tool", id, "err", err)
		d.view.ShowError(msg, err)
	}
}
