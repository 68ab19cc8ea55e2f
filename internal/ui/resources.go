package ui

import (
	"fyne.io/fyne/v2"
)

// AppIcon is the icon file looked up next to the binary
const AppIcon = "toolboard.png"

// LoadAppIcon loads the window icon from path, falling back to AppIcon in the working
// directory. A missing icon is not an error the window cares about.
func LoadAppIcon(path string) (fyne.Resource, error) {
	if path == "" {
		path = AppIcon
	}
	return fyne.LoadResourceFromPath(path)
}
