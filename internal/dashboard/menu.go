package dashboard

import (
	"sort"
	"strings"
)

// MenuKind names the overlay that is open
type MenuKind int

const (
	MenuNone MenuKind = iota
	MenuCardSettings
	MenuHiddenTools
	MenuReorder
)

func (k MenuKind) String() string {
	switch k {
	case MenuCardSettings:
		return "card-settings"
	case MenuHiddenTools:
		return "hidden-tools"
	case MenuReorder:
		return "reorder"
	default:
		return "none"
	}
}

// MenuState is which overlay is open. CardID is set for card settings and RowMenuFor
// names the open row menu inside the hidden-tools menu.
type MenuState struct {
	Kind       MenuKind
	CardID     string
	RowMenuFor string
}

// RegionKind classifies where a pointer-down landed
type RegionKind int

const (
	RegionOutside RegionKind = iota
	RegionCardSettingsTrigger
	RegionCardSettingsPanel
	RegionHiddenToolsTrigger
	RegionHiddenToolsPanel
	RegionRowMenuTrigger
	RegionRowMenu
	RegionReorderTrigger
	RegionReorderPanel
)

// Region is a pointer-down target. ID is the card or row the region belongs to.
type Region struct {
	Kind RegionKind
	ID   string
}

// MenuCoordinator keeps at most one overlay open. It is not safe for concurrent use;
// the Dashboard guards its coordinator with its own lock.
type MenuCoordinator struct {
	state    MenuState
	onChange func(MenuState)
}

// NewMenuCoordinator creates a coordinator reporting every change to onChange
func NewMenuCoordinator(onChange func(MenuState)) *MenuCoordinator {
	if onChange == nil {
		onChange = func(MenuState) {}
	}
	return &MenuCoordinator{onChange: onChange}
}

// State returns the current state
func (m *MenuCoordinator) State() MenuState {
	return m.state
}

func (m *MenuCoordinator) set(s MenuState) {
	if s == m.state {
		return
	}
	m.state = s
	m.onChange(s)
}

// Changed re-announces the current state so an open overlay re-renders its content
func (m *MenuCoordinator) Changed() {
	if m.state.Kind != MenuNone {
		m.onChange(m.state)
	}
}

// ToggleCardSettings opens the settings of id, closing anything else, or closes it
// when it is already open
func (m *MenuCoordinator) ToggleCardSettings(id string) {
	if m.state.Kind == MenuCardSettings && m.state.CardID == id {
		m.set(MenuState{})
		return
	}
	m.set(MenuState{Kind: MenuCardSettings, CardID: id})
}

// ToggleHiddenTools opens or closes the hidden-tools menu
func (m *MenuCoordinator) ToggleHiddenTools() {
	if m.state.Kind == MenuHiddenTools {
		m.set(MenuState{})
		return
	}
	m.set(MenuState{Kind: MenuHiddenTools})
}

// ToggleReorderPanel opens or closes the reorder panel
func (m *MenuCoordinator) ToggleReorderPanel() {
	if m.state.Kind == MenuReorder {
		m.set(MenuState{})
		return
	}
	m.set(MenuState{Kind: MenuReorder})
}

// ToggleRowMenu opens the row menu of id inside the hidden-tools menu, or closes it
func (m *MenuCoordinator) ToggleRowMenu(id string) {
	if m.state.Kind != MenuHiddenTools {
		return
	}
	next := m.state
	if next.RowMenuFor == id {
		next.RowMenuFor = ""
	} else {
		next.RowMenuFor = id
	}
	m.set(next)
}

// CloseRowMenu closes the nested row menu only
func (m *MenuCoordinator) CloseRowMenu() {
	next := m.state
	next.RowMenuFor = ""
	m.set(next)
}

// Close closes every overlay
func (m *MenuCoordinator) Close() {
	m.set(MenuState{})
}

// Escape closes every overlay
func (m *MenuCoordinator) Escape() {
	m.Close()
}

// PointerDown dismisses the open overlay when r is outside the regions it owns
func (m *MenuCoordinator) PointerDown(r Region) {
	switch m.state.Kind {
	case MenuCardSettings:
		owned := (r.Kind == RegionCardSettingsTrigger || r.Kind == RegionCardSettingsPanel) && r.ID == m.state.CardID
		if !owned {
			m.Close()
		}
	case MenuHiddenTools:
		switch r.Kind {
		case RegionHiddenToolsTrigger:
		case RegionRowMenuTrigger, RegionRowMenu:
			if r.ID != m.state.RowMenuFor {
				m.CloseRowMenu()
			}
		case RegionHiddenToolsPanel:
			m.CloseRowMenu()
		default:
			m.Close()
		}
	case MenuReorder:
		if r.Kind != RegionReorderTrigger && r.Kind != RegionReorderPanel {
			m.Close()
		}
	}
}

// Menu state on the Dashboard

// MenuState returns the open overlay
func (d *Dashboard) MenuState() MenuState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.menus.State()
}

// ToggleCardSettings toggles the settings overlay of a registered card
func (d *Dashboard) ToggleCardSettings(id string) {
	d.locked(func() {
		if d.cards[id] != nil {
			d.menus.ToggleCardSettings(id)
		}
	})
}

// ToggleHiddenTools toggles the hidden-tools menu
func (d *Dashboard) ToggleHiddenTools() {
	d.locked(d.menus.ToggleHiddenTools)
}

// ToggleReorderPanel toggles the reorder panel
func (d *Dashboard) ToggleReorderPanel() {
	d.locked(d.menus.ToggleReorderPanel)
}

// ToggleRowMenu toggles a row menu inside the hidden-tools menu
func (d *Dashboard) ToggleRowMenu(id string) {
	d.locked(func() {
		if d.cards[id] != nil {
			d.menus.ToggleRowMenu(id)
		}
	})
}

// CloseMenus closes every overlay
func (d *Dashboard) CloseMenus() {
	d.locked(d.menus.Close)
}

// PointerDown forwards a pointer-down to the menu coordinator
func (d *Dashboard) PointerDown(r Region) {
	d.locked(func() { d.menus.PointerDown(r) })
}

// Escape closes every overlay
func (d *Dashboard) Escape() {
	d.locked(d.menus.Escape)
}

// AppEntry is one row of the hidden-tools menu
type AppEntry struct {
	ID        string
	Title     string
	Hidden    bool
	Alive     bool
	AutoStart bool
	Pending   bool
}

// AppsMenu lists every registered tool sorted by title
func (d *Dashboard) AppsMenu() []AppEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]AppEntry, 0, len(d.cards))
	for id, c := range d.cards {
		out = append(out, AppEntry{
			ID:        id,
			Title:     c.tool.Title,
			Hidden:    d.store.IsHidden(id),
			Alive:     c.alive,
			AutoStart: c.tool.AutoStart,
			Pending:   c.pending,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ReorderItem is one row of the reorder panel
type ReorderItem struct {
	ID     string
	Title  string
	Hidden bool
}

// ReorderList returns every card in live order
func (d *Dashboard) ReorderList() []ReorderItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ReorderItem, 0, len(d.order))
	for _, id := range d.order {
		c := d.cards[id]
		if c == nil {
			continue
		}
		out = append(out, ReorderItem{ID: id, Title: c.tool.Title, Hidden: d.store.IsHidden(id)})
	}
	return out
}

// MoveCard shifts a card by delta positions in the live order and persists the order.
// It reports whether the card moved.
func (d *Dashboard) MoveCard(id string, delta int) bool {
	moved := false
	d.locked(func() {
		from := -1
		for i, v := range d.order {
			if v == id {
				from = i
				break
			}
		}
		if from < 0 || delta == 0 || d.dragState == DragDragging {
			return
		}
		to := from + delta
		if to < 0 {
			to = 0
		}
		if to > len(d.order)-1 {
			to = len(d.order) - 1
		}
		if to == from {
			return
		}
		next := append([]string(nil), d.order[:from]...)
		next = append(next, d.order[from+1:]...)
		next = append(next[:to], append([]string{id}, next[to:]...)...)
		d.order = next
		d.store.SaveOrder(d.order)
		d.recomputeRowSpansLocked(d.geometry())
		d.queueRender()
		d.menus.Changed()
		moved = true
	})
	return moved
}
