package config

// Package config resolves the application configuration from defaults, an optional
// toolboard.yaml and TOOLBOARD_ environment variables, builds the process logger, and
// keeps the per-user desktop preferences.
