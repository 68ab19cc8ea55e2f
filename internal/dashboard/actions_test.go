package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestToggleRunningChoosesAction(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)
	f.svc.setStatuses(allAlive("a")...)
	f.d.Refresh(context.Background())

	ctx := context.Background()
	if err := f.d.ToggleRunning(ctx, "a"); err != nil {
		t.Fatalf("ToggleRunning(a) error = %v", err)
	}
	if err := f.d.ToggleRunning(ctx, "b"); err != nil {
		t.Fatalf("ToggleRunning(b) error = %v", err)
	}
	if len(f.svc.kills) != 1 || f.svc.kills[0] != "a" {
		t.Errorf("kills = %v, expected [a]", f.svc.kills)
	}
	if len(f.svc.launches) != 1 || f.svc.launches[0] != "b" {
		t.Errorf("launches = %v, expected [b]", f.svc.launches)
	}
	if err := f.d.ToggleRunning(ctx, "zzz"); err != ErrUnknownTool {
		t.Errorf("ToggleRunning(unknown) = %v", err)
	}
}

func TestPendingActionIsNoop(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)

	gate := make(chan struct{})
	f.svc.mu.Lock()
	f.svc.actionGate = gate
	f.svc.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- f.d.ToggleRunning(context.Background(), "a") }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if c, _ := f.d.Card("a"); c.Pending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("action never became pending")
		}
		time.Sleep(time.Millisecond)
	}

	if err := f.d.ToggleRunning(context.Background(), "a"); !errors.Is(err, ErrActionPending) {
		t.Errorf("second ToggleRunning() = %v, expected ErrActionPending", err)
	}
	if err := f.d.SetAutoStart(context.Background(), "a", true); !errors.Is(err, ErrActionPending) {
		t.Errorf("SetAutoStart() while pending = %v, expected ErrActionPending", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("ToggleRunning() error = %v", err)
	}
	if len(f.svc.launches) != 1 {
		t.Errorf("launches = %v, expected exactly one", f.svc.launches)
	}
	if c, _ := f.d.Card("a"); c.Pending {
		t.Error("pending flag should be cleared")
	}
}

func TestActionFailure(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)
	f.svc.launchErr = errors.New("port in use")
	f.svc.autoErr = errors.New("db locked")

	if err := f.d.ToggleRunning(context.Background(), "a"); err == nil {
		t.Fatal("ToggleRunning() should return the failure")
	}
	if err := f.d.SetAutoStart(context.Background(), "a", true); err == nil {
		t.Fatal("SetAutoStart() should return the failure")
	}

	c, _ := f.d.Card("a")
	if c.Pending || c.AutoStart || c.Alive {
		t.Errorf("card a = %+v, expected unchanged state", c)
	}
	want := []string{MsgRunningStateFailed, MsgAutoStartFailed}
	if len(f.view.errors) != 2 || f.view.errors[0] != want[0] || f.view.errors[1] != want[1] {
		t.Errorf("errors shown = %v, expected %v", f.view.errors, want)
	}
}

func TestSetAutoStartCommitsOnSuccess(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)

	if err := f.d.ToggleAutoStart(context.Background(), "b"); err != nil {
		t.Fatalf("ToggleAutoStart() error = %v", err)
	}
	if c, _ := f.d.Card("b"); !c.AutoStart {
		t.Error("auto start should be set after the controller accepted it")
	}
	if !f.svc.autoStarts["b"] {
		t.Error("controller should have received enabled=true")
	}
}

func TestActionsOnDifferentToolsRunConcurrently(t *testing.T) {
	f := newFixture(t, threeTools(), nil)
	f.load(t)

	gate := make(chan struct{})
	f.svc.mu.Lock()
	f.svc.actionGate = gate
	f.svc.mu.Unlock()

	done := make(chan error, 2)
	go func() { done <- f.d.ToggleRunning(context.Background(), "a") }()
	go func() { done <- f.d.ToggleRunning(context.Background(), "b") }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		a, _ := f.d.Card("a")
		b, _ := f.d.Card("b")
		if a.Pending && b.Pending {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("both actions should be in flight at once")
		}
		time.Sleep(time.Millisecond)
	}
	close(gate)
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Errorf("ToggleRunning() error = %v", err)
		}
	}
}
