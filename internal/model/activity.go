package model

import "time"

// ActivityDay is the number of job applications collected on one calendar day
type ActivityDay struct {
	Date  time.Time
	Count int
}

// ActivityRange is the trailing window shown by the activity heatmap
type ActivityRange struct {
	RangeStart time.Time
	RangeEnd   time.Time
	MaxCount   int
	Days       []ActivityDay
}

// Total returns the sum of all counts in the range
func (r ActivityRange) Total() int {
	total := 0
	for _, d := range r.Days {
		total += d.Count
	}
	return total
}
