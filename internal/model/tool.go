package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRecord is returned when a raw controller record cannot be turned into a
// typed value.
var ErrInvalidRecord = errors.New("invalid record")

// ToolView is the normalised, session-stable shape of a tool shown on the dashboard
type ToolView struct {
	ID        string
	Title     string
	Category  Category
	Status    ToolStatus
	AutoStart bool
}

// Liveness is a single entry of the controller's status-all report
type Liveness struct {
	ID    string
	Alive bool
	PID   int
}

// ParseTool validates a decoded /tools record. The record must carry a non-empty
// string name; every other field falls back to a safe default when missing or of the
// wrong type.
func ParseTool(raw map[string]any) (ToolView, error) {
	id, err := recordName(raw)
	if err != nil {
		return ToolView{}, err
	}

	title, _ := raw["title"].(string)
	title = cleanText(title)
	if title == "" {
		title = id
	}
	category, _ := raw["category"].(string)
	status, _ := raw["status"].(string)
	autoStart, _ := raw["auto_start"].(bool)

	return ToolView{
		ID:        id,
		Title:     title,
		Category:  ParseCategory(strings.ToLower(strings.TrimSpace(category))),
		Status:    ParseToolStatus(strings.ToLower(strings.TrimSpace(status))),
		AutoStart: autoStart,
	}, nil
}

// ParseLiveness validates a decoded /tools/status-all record
func ParseLiveness(raw map[string]any) (Liveness, error) {
	id, err := recordName(raw)
	if err != nil {
		return Liveness{}, err
	}
	alive, _ := raw["alive"].(bool)
	pid := 0
	if f, ok := raw["pid"].(float64); ok && f > 0 && f <= math.MaxInt32 && f == math.Trunc(f) {
		pid = int(f)
	}
	return Liveness{ID: id, Alive: alive, PID: pid}, nil
}

// StatusLine returns the human readable status text for a card header
func (l Liveness) StatusLine() string {
	if !l.Alive {
		return "Stopped"
	}
	if l.PID > 0 {
		return fmt.Sprintf("Running (PID: %d)", l.PID)
	}
	return "Running"
}

func recordName(raw map[string]any) (string, error) {
	if raw == nil {
		return "", fmt.Errorf("%w: empty record", ErrInvalidRecord)
	}
	name, ok := raw["name"].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing name", ErrInvalidRecord)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: blank name", ErrInvalidRecord)
	}
	return name, nil
}

// cleanText collapses control whitespace so titles render on a single line
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
