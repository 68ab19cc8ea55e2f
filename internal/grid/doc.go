package grid

// Package grid holds the pure geometry of the dashboard grid: column widths, column
// and row spans, widget height caps and the auto-placement of spanned cards. It reads
// nothing from the screen; callers pass in the metrics of the rendered container.
