package model

// Package model defines domain data structures used across the app: tool cards,
// liveness records, per-card layout entries, layout settings and the job activity
// range. Raw controller payloads are validated here so the rest of the app only
// sees fully typed values.
