package toolapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ytget/toolboard/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	if _, err := New("localhost"); err == nil {
		t.Error("New(localhost) should fail without a scheme")
	}
	if _, err := New("http://127.0.0.1:8000/"); err != nil {
		t.Errorf("New() error = %v", err)
	}
}

func TestListTools(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"tools":[{"name":"clock","title":"Clock","category":"display","auto_start":true},{"title":"nameless"},{"name":"dice"}]}`},
		{"bare array", `[{"name":"clock","title":"Clock","category":"display","auto_start":true},{"title":"nameless"},{"name":"dice"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/tools" || r.Method != http.MethodGet {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Write([]byte(tt.body))
			})
			tools, err := c.ListTools(context.Background())
			if err != nil {
				t.Fatalf("ListTools() error = %v", err)
			}
			if len(tools) != 2 {
				t.Fatalf("ListTools() returned %d tools, expected 2", len(tools))
			}
			if tools[0].ID != "clock" || tools[0].Title != "Clock" || !tools[0].AutoStart {
				t.Errorf("tools[0] = %+v", tools[0])
			}
			if tools[1].ID != "dice" || tools[1].Title != "dice" || tools[1].Category != model.CategoryDisplay {
				t.Errorf("tools[1] = %+v", tools[1])
			}
		})
	}
}

func TestListToolsBadBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})
	if _, err := c.ListTools(context.Background()); err == nil {
		t.Error("ListTools() should fail when the tools field is missing")
	}
}

func TestStatusAll(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools/status-all" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"name":"clock","alive":true,"pid":4242},{"name":"dice","alive":false},{"alive":true}]`))
	})
	got, err := c.StatusAll(context.Background())
	if err != nil {
		t.Fatalf("StatusAll() error = %v", err)
	}
	want := []model.Liveness{{ID: "clock", Alive: true, PID: 4242}, {ID: "dice"}}
	if len(got) != len(want) {
		t.Fatalf("StatusAll() = %+v, expected %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("StatusAll()[%d] = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestLaunchAndKill(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, expected POST", r.Method)
		}
		paths = append(paths, r.URL.EscapedPath())
		w.Write([]byte(`{"ok":true}`))
	})
	ctx := context.Background()
	if err := c.Launch(ctx, "clock"); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if err := c.Kill(ctx, "my tool"); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}
	if paths[0] != "/tools/clock/launch" || paths[1] != "/tools/my%20tool/kill" {
		t.Errorf("paths = %v", paths)
	}
}

func TestActionErrorCarriesMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"already running"}`, "already running"},
		{"detail field", `{"detail":"Tool 'x' not found."}`, "Tool 'x' not found."},
		{"plain text", "boom", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})
			err := c.Launch(context.Background(), "x")
			if !errors.Is(err, ErrStatus) {
				t.Fatalf("Launch() error = %v, expected ErrStatus", err)
			}
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("Launch() error %T is not a StatusError", err)
			}
			if se.Code != http.StatusBadRequest || se.Message != tt.want {
				t.Errorf("StatusError = %+v, expected message %q", se, tt.want)
			}
		})
	}
}

func TestSetAutoStart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools/clock/auto-start" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["enabled"] != true {
			t.Errorf("enabled = %v, expected true", body["enabled"])
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.SetAutoStart(context.Background(), "clock", true); err != nil {
		t.Fatalf("SetAutoStart() error = %v", err)
	}
}

func TestJobActivity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("days") != "30" {
			t.Errorf("days = %q, expected 30", r.URL.Query().Get("days"))
		}
		w.Write([]byte(`{"range_start":"2026-09-01","range_end":"2026-09-30","max_count":0,
			"days":[{"date":"2026-09-01","count":2},{"date":"bogus","count":9},{"date":"2026-09-02","count":5}]}`))
	})
	r, err := c.JobActivity(context.Background(), 30)
	if err != nil {
		t.Fatalf("JobActivity() error = %v", err)
	}
	if len(r.Days) != 2 || r.Total() != 7 {
		t.Errorf("Days = %+v", r.Days)
	}
	if r.MaxCount != 5 {
		t.Errorf("MaxCount = %d, expected 5 when the server omits it", r.MaxCount)
	}
	if !r.RangeStart.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("RangeStart = %v", r.RangeStart)
	}
}

func TestWidgetURL(t *testing.T) {
	c, err := New("http://127.0.0.1:8000/")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.WidgetURL("my tool"); got != "http://127.0.0.1:8000/proxy/my%20tool/widget" {
		t.Errorf("WidgetURL() = %q", got)
	}
	if c.PageURL("clock") != c.WidgetURL("clock") {
		t.Error("PageURL() should match WidgetURL()")
	}
}
