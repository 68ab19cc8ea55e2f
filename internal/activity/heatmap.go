package activity

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/ytget/toolboard/internal/model"
)

// Levels is the number of intensity levels including the empty one
const Levels = 5

// Level buckets count against max into 0..4. Zero means no activity.
func Level(count, max int) int {
	if count <= 0 || max <= 0 {
		return 0
	}
	lvl := int(math.Ceil(4 * float64(count) / float64(max)))
	if lvl < 1 {
		return 1
	}
	if lvl > 4 {
		return 4
	}
	return lvl
}

// Cell is one day of the heatmap. Padding cells outside the range are Empty.
type Cell struct {
	Date  time.Time
	Count int
	Level int
	Empty bool
}

// Week is one column, Sunday first
type Week struct {
	Days [7]Cell
	// MonthLabel is set on the first column of each month
	MonthLabel string
}

// Heatmap is the laid out calendar
type Heatmap struct {
	Start    time.Time
	End      time.Time
	MaxCount int
	Total    int
	Weeks    []Week
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Build lays the range out in week columns. Missing dates inside the range count as
// zero.
func Build(r model.ActivityRange) Heatmap {
	counts := make(map[time.Time]int, len(r.Days))
	start, end := r.RangeStart, r.RangeEnd
	for _, d := range r.Days {
		key := day(d.Date)
		counts[key] += d.Count
		if start.IsZero() || key.Before(day(start)) {
			start = key
		}
		if end.IsZero() || key.After(day(end)) {
			end = key
		}
	}
	if start.IsZero() || end.IsZero() {
		return Heatmap{}
	}
	start, end = day(start), day(end)
	if end.Before(start) {
		start, end = end, start
	}

	h := Heatmap{Start: start, End: end, MaxCount: r.MaxCount}
	if h.MaxCount <= 0 {
		for _, c := range counts {
			if c > h.MaxCount {
				h.MaxCount = c
			}
		}
	}

	first := start.AddDate(0, 0, -int(start.Weekday()))
	lastMonth := time.Month(0)
	for ws := first; !ws.After(end); ws = ws.AddDate(0, 0, 7) {
		var w Week
		for i := 0; i < 7; i++ {
			date := ws.AddDate(0, 0, i)
			cell := Cell{Date: date}
			if date.Before(start) || date.After(end) {
				cell.Empty = true
			} else {
				cell.Count = counts[date]
				cell.Level = Level(cell.Count, h.MaxCount)
				h.Total += cell.Count
				if date.Month() != lastMonth && (date.Day() == 1 || lastMonth == 0) {
					w.MonthLabel = date.Format("Jan")
					lastMonth = date.Month()
				}
			}
			w.Days[i] = cell
		}
		h.Weeks = append(h.Weeks, w)
	}
	return h
}

var glyphs = [Levels]string{"·", "░", "▒", "▓", "█"}

// WriteText draws the heatmap as seven text rows with month labels on top
func (h Heatmap) WriteText(w io.Writer) error {
	if len(h.Weeks) == 0 {
		_, err := io.WriteString(w, "no activity\n")
		return err
	}
	var b strings.Builder
	b.WriteString("    ")
	for i := 0; i < len(h.Weeks); i++ {
		label := h.Weeks[i].MonthLabel
		if label == "" {
			b.WriteString(" ")
			continue
		}
		b.WriteString(label)
		// a label covers the columns it is drawn over
		i += len(label) - 1
	}
	b.WriteString("\n")

	names := [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for row := 0; row < 7; row++ {
		b.WriteString(names[row])
		b.WriteString(" ")
		for _, week := range h.Weeks {
			c := week.Days[row]
			if c.Empty {
				b.WriteString(" ")
				continue
			}
			b.WriteString(glyphs[c.Level])
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
