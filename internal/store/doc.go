package store

// Package store persists the dashboard layout: card order, per-card size overrides, the
// hidden set, the activity panel flag and the layout settings. Values are JSON strings
// kept under fixed keys in a pluggable Backend; a broken value is never fatal and falls
// back to defaults.
