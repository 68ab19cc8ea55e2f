package store

import (
	"encoding/json"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/ytget/toolboard/internal/model"
)

// Storage keys. The .v1 suffix is part of the persisted format.
const (
	KeyWidgetLayout      = "toolboard.widgetLayout.v1"
	KeyWidgetOrder       = "toolboard.widgetOrder.v1"
	KeyHiddenTools       = "toolboard.hiddenTools.v1"
	KeyActivityCollapsed = "toolboard.jobActivityCollapsed.v1"
	KeyLayoutSettings    = "toolboard.layoutSettings.v1"
)

// Keys lists every key the store owns
var Keys = []string{
	KeyWidgetLayout,
	KeyWidgetOrder,
	KeyHiddenTools,
	KeyActivityCollapsed,
	KeyLayoutSettings,
}

// Snapshot is the full persisted state, used for export
type Snapshot struct {
	Layout            map[string]model.LayoutEntry `json:"layout" yaml:"layout"`
	Order             []string                     `json:"order" yaml:"order"`
	Hidden            []string                     `json:"hidden" yaml:"hidden"`
	ActivityCollapsed bool                         `json:"activityCollapsed" yaml:"activityCollapsed"`
	Settings          model.Settings               `json:"settings" yaml:"settings"`
}

// Store is the in-memory view of the persisted layout. Every mutation is written
// through to the backend.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	logger    *slog.Logger
	layout    map[string]model.LayoutEntry
	order     []string
	hidden    map[string]bool
	collapsed bool
	settings  model.Settings
}

// New loads every kind of state from backend. It never fails; unreadable values
// yield their defaults.
func New(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend: backend,
		logger:  logger.With("component", "store"),
	}
	s.load()
	return s
}

func (s *Store) load() {
	s.layout = s.loadLayout()
	s.order = s.loadOrder()
	s.hidden = s.loadHidden()
	s.collapsed = s.loadCollapsed()
	s.settings = s.loadSettings()
}

// LayoutFor returns the stored override of one card
func (s *Store) LayoutFor(id string) (model.LayoutEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.layout[id]
	return e, ok
}

// Layout returns a copy of every stored override
func (s *Store) Layout() map[string]model.LayoutEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.LayoutEntry, len(s.layout))
	for k, v := range s.layout {
		out[k] = v
	}
	return out
}

// SaveLayout merges patch into the entry of id and writes the whole map back
func (s *Store) SaveLayout(id string, patch model.LayoutPatch) {
	if id == "" || (patch.Height == nil && patch.ColSpan == nil) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layout[id] = patch.Apply(s.layout[id])
	s.writeJSON(KeyWidgetLayout, s.layout)
}

// Order returns the persisted card order
func (s *Store) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// SaveOrder replaces the persisted card order
func (s *Store) SaveOrder(ids []string) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			clean = append(clean, id)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = clean
	s.writeJSON(KeyWidgetOrder, clean)
}

// Hidden returns the hidden ids in sorted order
func (s *Store) Hidden() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hiddenListLocked()
}

// IsHidden reports whether id is in the hidden set
func (s *Store) IsHidden(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden[id]
}

// SetHidden adds or removes id from the hidden set. It reports whether the set changed.
func (s *Store) SetHidden(id string, hidden bool) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden[id] == hidden {
		return false
	}
	if hidden {
		s.hidden[id] = true
	} else {
		delete(s.hidden, id)
	}
	s.writeJSON(KeyHiddenTools, s.hiddenListLocked())
	return true
}

// PruneHidden drops hidden ids that are not in known. The set is only rewritten when
// something was removed.
func (s *Store) PruneHidden(known map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for id := range s.hidden {
		if !known[id] {
			delete(s.hidden, id)
			changed = true
		}
	}
	if changed {
		s.writeJSON(KeyHiddenTools, s.hiddenListLocked())
	}
}

// Collapsed reports whether the activity panel is collapsed
func (s *Store) Collapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collapsed
}

// SetCollapsed persists the activity panel flag
func (s *Store) SetCollapsed(collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collapsed = collapsed
	s.writeJSON(KeyActivityCollapsed, collapsed)
}

// Settings returns the layout settings as loaded. Values are not clamped here.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings clamps settings, persists them and returns what was stored
func (s *Store) SaveSettings(settings model.Settings) model.Settings {
	clamped := settings.Clamped()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = clamped
	s.writeJSON(KeyLayoutSettings, clamped)
	return clamped
}

// Reset removes every key from the backend and restores the defaults
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range Keys {
		s.backend.RemoveValue(key)
	}
	s.layout = map[string]model.LayoutEntry{}
	s.order = nil
	s.hidden = map[string]bool{}
	s.collapsed = false
	s.settings = model.DefaultSettings()
	s.logger.Info("layout reset")
}

// Snapshot returns a copy of everything the store holds
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	layout := make(map[string]model.LayoutEntry, len(s.layout))
	for k, v := range s.layout {
		layout[k] = v
	}
	return Snapshot{
		Layout:            layout,
		Order:             append([]string{}, s.order...),
		Hidden:            s.hiddenListLocked(),
		ActivityCollapsed: s.collapsed,
		Settings:          s.settings,
	}
}

func (s *Store) hiddenListLocked() []string {
	out := make([]string, 0, len(s.hidden))
	for id := range s.hidden {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Store) writeJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode failed", "key", key, "err", err)
		return
	}
	s.backend.SetString(key, string(data))
}

// readJSON decodes the value of key into v. A missing key is not an error.
func (s *Store) readJSON(key string, v any) bool {
	raw := s.backend.String(key)
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("ignoring unreadable value", "key", key, "err", err)
		return false
	}
	return true
}

func (s *Store) loadLayout() map[string]model.LayoutEntry {
	out := map[string]model.LayoutEntry{}
	var raw map[string]any
	if !s.readJSON(KeyWidgetLayout, &raw) {
		return out
	}
	for id, v := range raw {
		fields, ok := v.(map[string]any)
		if id == "" || !ok {
			s.logger.Debug("dropping layout entry", "id", id)
			continue
		}
		var e model.LayoutEntry
		if h, ok := positiveNumber(fields["height"]); ok {
			e.Height = h
		}
		if span, ok := positiveNumber(fields["colSpan"]); ok {
			e.ColSpan = int(math.Round(span))
		}
		out[id] = e
	}
	return out
}

func (s *Store) loadOrder() []string {
	var raw []any
	if !s.readJSON(KeyWidgetOrder, &raw) {
		return nil
	}
	return stringItems(raw)
}

func (s *Store) loadHidden() map[string]bool {
	out := map[string]bool{}
	var raw []any
	if !s.readJSON(KeyHiddenTools, &raw) {
		return out
	}
	for _, id := range stringItems(raw) {
		out[id] = true
	}
	return out
}

func (s *Store) loadCollapsed() bool {
	var raw any
	if !s.readJSON(KeyActivityCollapsed, &raw) {
		return false
	}
	b, ok := raw.(bool)
	return ok && b
}

func (s *Store) loadSettings() model.Settings {
	out := model.DefaultSettings()
	var raw map[string]any
	if !s.readJSON(KeyLayoutSettings, &raw) {
		return out
	}
	fields := []struct {
		key string
		dst *float64
	}{
		{"minWidgetHeight", &out.MinWidgetHeight},
		{"maxWidgetHeightPx", &out.MaxWidgetHeightPx},
		{"minCardWidthPx", &out.MinCardWidthPx},
		{"dragAutoScrollEdgePx", &out.DragAutoScrollEdgePx},
		{"dragAutoScrollStepPx", &out.DragAutoScrollStepPx},
	}
	for _, f := range fields {
		if v, ok := raw[f.key].(float64); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*f.dst = v
		}
	}
	return out
}

func positiveNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

// stringItems keeps the non-empty strings of a decoded JSON array, dropping duplicates
func stringItems(raw []any) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, v := range raw {
		id, ok := v.(string)
		if !ok || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
