package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPower    = "⏻"
	IconOpen     = "↗"
	IconApps     = "☰"
	IconReorder  = "⇅"
	IconReload   = "⟳"
	IconUp       = "▲"
	IconDown     = "▼"
	IconMore     = "⋯"
	IconDot      = "●"
	IconExpand   = "▸"
	IconCollapse = "▾"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Card sizing
const (
	CardHeaderMinHeight float32 = 56
	CardCornerRadius    float32 = 6
	CardStrokeWidth     float32 = 1
	CardDragStrokeWidth float32 = 2

	ResizeCornerSize  float32 = 14
	ResizeBottomThick float32 = 6
)

// Overlay panel sizing
const (
	PanelWidth       float32 = 280
	PanelMaxHeight   float32 = 420
	PanelOffset      float32 = 4
	ReorderRowHeight float32 = 32
)

// Activity panel sizing
const (
	HeatmapCellSize float32 = 11
	HeatmapCellGap  float32 = 2
)

// Settings dialog sizing
const (
	SettingsDialogWidth  float32 = 460
	SettingsDialogHeight float32 = 420
)

// Frame pacing
const (
	FrameInterval = 16 * time.Millisecond
)

// mousePointer is the pointer id used for mouse gestures; desktop Fyne has one pointer
const mousePointer = 1
