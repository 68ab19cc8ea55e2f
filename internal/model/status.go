package model

// ToolStatus represents the last known run state of a tool
type ToolStatus string

const (
	// ToolStatusUnknown means no liveness report has been seen yet
	ToolStatusUnknown ToolStatus = "unknown"

	// ToolStatusRunning means the controller reported the tool alive
	ToolStatusRunning ToolStatus = "running"

	// ToolStatusStopped means the controller reported the tool not alive
	ToolStatusStopped ToolStatus = "stopped"
)

// String returns the string representation of ToolStatus
func (ts ToolStatus) String() string {
	return string(ts)
}

// IsRunning returns true if the tool is known to be running
func (ts ToolStatus) IsRunning() bool {
	return ts == ToolStatusRunning
}

// IsKnown returns true once a liveness report has settled the status
func (ts ToolStatus) IsKnown() bool {
	return ts == ToolStatusRunning || ts == ToolStatusStopped
}

// ParseToolStatus maps a raw status string to a ToolStatus. Anything unrecognised
// is reported as unknown.
func ParseToolStatus(raw string) ToolStatus {
	switch ToolStatus(raw) {
	case ToolStatusRunning, ToolStatusStopped:
		return ToolStatus(raw)
	default:
		return ToolStatusUnknown
	}
}

// StatusFromAlive converts a liveness flag into a status
func StatusFromAlive(alive bool) ToolStatus {
	if alive {
		return ToolStatusRunning
	}
	return ToolStatusStopped
}

// Category groups tools on the dashboard
type Category string

const (
	CategoryDisplay    Category = "display"
	CategoryHybrid     Category = "hybrid"
	CategoryBackground Category = "background"
)

// ParseCategory maps a raw category string to a Category, defaulting to display
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategoryHybrid, CategoryBackground:
		return Category(raw)
	default:
		return CategoryDisplay
	}
}

// Order returns the sort rank of the category on the dashboard
func (c Category) Order() int {
	switch c {
	case CategoryHybrid:
		return 1
	case CategoryBackground:
		return 2
	default:
		return 0
	}
}
