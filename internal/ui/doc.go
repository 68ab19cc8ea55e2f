package ui

// Package ui contains the Fyne desktop front end of the dashboard. It renders the
// engine's cards into a scrollable grid, forwards pointer gestures to the engine and
// shows its overlays, the activity heatmap and the layout settings. All UI strings are
// localized via Localization.
