package activity

// Package activity turns per-day job application counts into a calendar heatmap: one
// column per week, Sunday at the top, five intensity levels.
