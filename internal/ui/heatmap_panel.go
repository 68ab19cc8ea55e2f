package ui

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/toolboard/internal/activity"
	"github.com/ytget/toolboard/internal/model"
)

// ActivitySource fetches the per-day job application counts
type ActivitySource interface {
	JobActivity(ctx context.Context, days int) (model.ActivityRange, error)
}

// ActivityPanel is the collapsible job activity heatmap above the grid
type ActivityPanel struct {
	widget.BaseWidget

	source       ActivitySource
	localization *Localization
	logger       *slog.Logger
	days         func() int
	onCollapse   func(collapsed bool)

	collapsed bool
	heatmap   activity.Heatmap

	toggleBtn *widget.Button
	summary   *widget.Label
	cells     *fyne.Container
	body      *fyne.Container
	content   *fyne.Container
}

// NewActivityPanel creates the panel; days returns the window to request
func NewActivityPanel(source ActivitySource, localization *Localization, days func() int, collapsed bool, onCollapse func(bool), logger *slog.Logger) *ActivityPanel {
	if logger == nil {
		logger = slog.Default()
	}
	p := &ActivityPanel{
		source:       source,
		localization: localization,
		logger:       logger.With("component", "activity"),
		days:         days,
		onCollapse:   onCollapse,
		collapsed:    collapsed,
	}
	p.ExtendBaseWidget(p)

	p.toggleBtn = widget.NewButton("", p.toggle)
	p.toggleBtn.Importance = widget.LowImportance
	p.toggleBtn.Alignment = widget.ButtonAlignLeading
	p.summary = widget.NewLabel("")
	p.cells = container.New(&heatmapLayout{})
	p.body = container.NewVBox(container.NewHScroll(p.cells))
	p.content = container.NewVBox(container.NewBorder(nil, nil, p.toggleBtn, nil, p.summary), p.body)
	p.applyCollapsed()
	return p
}

// Collapsed reports whether the heatmap body is hidden
func (p *ActivityPanel) Collapsed() bool {
	return p.collapsed
}

func (p *ActivityPanel) toggle() {
	p.collapsed = !p.collapsed
	p.applyCollapsed()
	if p.onCollapse != nil {
		p.onCollapse(p.collapsed)
	}
}

func (p *ActivityPanel) applyCollapsed() {
	icon := IconCollapse
	if p.collapsed {
		icon = IconExpand
		p.body.Hide()
	} else {
		p.body.Show()
	}
	p.toggleBtn.SetText(icon + " " + p.localization.GetText(KeyJobActivity))
}

// RefreshTexts re-applies localized labels
func (p *ActivityPanel) RefreshTexts() {
	p.applyCollapsed()
	p.updateSummary()
}

// Load fetches the activity range in the background and shows it when it arrives
func (p *ActivityPanel) Load(ctx context.Context) {
	if p.source == nil {
		return
	}
	days := p.days()
	go func() {
		r, err := p.source.JobActivity(ctx, days)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.Warn("activity fetch failed", "err", err)
			}
			fyne.Do(func() { p.summary.SetText(p.localization.GetText(KeyActivityFailed)) })
			return
		}
		h := activity.Build(r)
		fyne.Do(func() { p.SetHeatmap(h) })
	}()
}

// Heatmap returns the heatmap currently shown
func (p *ActivityPanel) Heatmap() activity.Heatmap {
	return p.heatmap
}

// SetHeatmap renders h. It must run on the UI goroutine.
func (p *ActivityPanel) SetHeatmap(h activity.Heatmap) {
	p.heatmap = h
	th := fyne.CurrentApp().Settings().Theme()
	variant := fyne.CurrentApp().Settings().ThemeVariant()

	objects := make([]fyne.CanvasObject, 0, len(h.Weeks)*7)
	for _, w := range h.Weeks {
		for _, d := range w.Days {
			r := canvas.NewRectangle(HeatmapColor(th, variant, d.Level))
			r.CornerRadius = 2
			if d.Empty {
				r.Hide()
			}
			objects = append(objects, r)
		}
	}
	p.cells.Objects = objects
	p.cells.Refresh()
	p.updateSummary()
}

func (p *ActivityPanel) updateSummary() {
	if len(p.heatmap.Weeks) == 0 {
		return
	}
	days := int(p.heatmap.End.Sub(p.heatmap.Start).Hours()/24) + 1
	p.summary.SetText(fmt.Sprintf(p.localization.GetText(KeyActivityTotal), p.heatmap.Total, days))
}

// CreateRenderer creates the widget renderer
func (p *ActivityPanel) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// heatmapLayout lays cells out column-major: seven per week column
type heatmapLayout struct{}

func (heatmapLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	step := HeatmapCellSize + HeatmapCellGap
	for i, o := range objects {
		col, row := i/7, i%7
		o.Move(fyne.NewPos(float32(col)*step, float32(row)*step))
		o.Resize(fyne.NewSize(HeatmapCellSize, HeatmapCellSize))
	}
}

func (heatmapLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) == 0 {
		return fyne.NewSize(0, 0)
	}
	step := HeatmapCellSize + HeatmapCellGap
	cols := (len(objects) + 6) / 7
	return fyne.NewSize(float32(cols)*step-HeatmapCellGap, 7*step-HeatmapCellGap)
}
