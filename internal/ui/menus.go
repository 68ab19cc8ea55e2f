package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/toolboard/internal/dashboard"
)

// regionCatcher is a transparent widget reporting taps on its area as one region
type regionCatcher struct {
	widget.BaseWidget
	region dashboard.Region
	onTap  func(dashboard.Region)
	fill   *canvas.Rectangle
}

func newRegionCatcher(region dashboard.Region, fill fyne.ThemeColorName, onTap func(dashboard.Region)) *regionCatcher {
	c := &regionCatcher{region: region, onTap: onTap}
	c.ExtendBaseWidget(c)
	c.fill = canvas.NewRectangle(theme.Color(fill))
	if fill == "" {
		c.fill.FillColor = nil
	}
	return c
}

// Tapped reports the region
func (c *regionCatcher) Tapped(*fyne.PointEvent) {
	if c.onTap != nil {
		c.onTap(c.region)
	}
}

func (c *regionCatcher) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.fill)
}

// menuOverlay renders the open menu above the window content. Taps outside the panel
// land on the full-window catcher and close it.
type menuOverlay struct {
	ui      *RootUI
	state   dashboard.MenuState
	layer   *fyne.Container
	catcher *regionCatcher
	panel   fyne.CanvasObject
	shown   bool
}

func newMenuOverlay(ui *RootUI) *menuOverlay {
	o := &menuOverlay{ui: ui}
	o.catcher = newRegionCatcher(dashboard.Region{Kind: dashboard.RegionOutside}, "", ui.dash.PointerDown)
	o.layer = container.NewWithoutLayout(o.catcher)
	return o
}

// State returns the menu state the overlay shows
func (o *menuOverlay) State() dashboard.MenuState {
	return o.state
}

// Panel returns the visible panel, nil when closed
func (o *menuOverlay) Panel() fyne.CanvasObject {
	return o.panel
}

// show renders state; MenuNone removes the overlay
func (o *menuOverlay) show(state dashboard.MenuState) {
	o.state = state
	if state.Kind == dashboard.MenuNone {
		o.hide()
		return
	}
	o.rebuild()
}

// refresh rebuilds an open panel so it shows current engine data
func (o *menuOverlay) refresh() {
	if o.state.Kind != dashboard.MenuNone {
		o.rebuild()
	}
}

func (o *menuOverlay) hide() {
	o.panel = nil
	if o.shown {
		o.ui.window.Canvas().Overlays().Remove(o.layer)
		o.shown = false
	}
}

func (o *menuOverlay) rebuild() {
	var panel fyne.CanvasObject
	var anchor fyne.CanvasObject
	switch o.state.Kind {
	case dashboard.MenuCardSettings:
		cw := o.ui.cards[o.state.CardID]
		if cw == nil {
			o.ui.dash.CloseMenus()
			return
		}
		panel = o.cardSettingsPanel(cw.Card())
		anchor = cw.header.settingsBtn
	case dashboard.MenuHiddenTools:
		panel = o.appsPanel()
		anchor = o.ui.appsBtn
	case dashboard.MenuReorder:
		panel = o.reorderPanel()
		anchor = o.ui.reorderBtn
	default:
		o.hide()
		return
	}

	c := o.ui.window.Canvas()
	size := c.Size()
	o.catcher.Move(fyne.NewPos(0, 0))
	o.catcher.Resize(size)

	ps := panel.MinSize()
	ps.Width = fyne.Max(ps.Width, PanelWidth)
	ps.Height = fyne.Min(ps.Height, PanelMaxHeight)
	pos := o.anchorPosition(anchor, ps, size)
	panel.Move(pos)
	panel.Resize(ps)

	o.panel = panel
	o.layer.Objects = []fyne.CanvasObject{o.catcher, panel}
	o.layer.Resize(size)
	o.layer.Refresh()
	if !o.shown {
		c.Overlays().Add(o.layer)
		o.shown = true
	}
}

// anchorPosition places a panel under its trigger, kept inside the canvas
func (o *menuOverlay) anchorPosition(anchor fyne.CanvasObject, ps, canvasSize fyne.Size) fyne.Position {
	if anchor == nil {
		return fyne.NewPos(PanelOffset, PanelOffset)
	}
	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(anchor)
	x := abs.X
	y := abs.Y + anchor.Size().Height + PanelOffset
	if x+ps.Width > canvasSize.Width {
		x = canvasSize.Width - ps.Width - PanelOffset
	}
	if y+ps.Height > canvasSize.Height {
		y = fyne.Max(PanelOffset, abs.Y-ps.Height-PanelOffset)
	}
	return fyne.NewPos(fyne.Max(x, 0), fyne.Max(y, 0))
}

// framed puts content on a card-colored backdrop that reports taps as region
func (o *menuOverlay) framed(region dashboard.Region, content fyne.CanvasObject) fyne.CanvasObject {
	bg := newRegionCatcher(region, ColorNameCard, o.ui.dash.PointerDown)
	border := canvas.NewRectangle(nil)
	border.StrokeColor = theme.Color(ColorNameCardBorder)
	border.StrokeWidth = CardStrokeWidth
	border.CornerRadius = CardCornerRadius
	return container.NewStack(bg, border, container.NewPadded(container.NewVScroll(content)))
}

func (o *menuOverlay) cardSettingsPanel(c dashboard.Card) fyne.CanvasObject {
	l := o.ui.localization
	auto := widget.NewCheck(l.GetText(KeyAutoStart), nil)
	auto.SetChecked(c.AutoStart)
	auto.OnChanged = func(on bool) { o.ui.setAutoStart(c.ID, on) }
	if c.Pending {
		auto.Disable()
	}

	hideKey := KeyHideCard
	if c.Hidden {
		hideKey = KeyShowCard
	}
	hide := widget.NewButton(l.GetText(hideKey), func() {
		o.ui.setHidden(c.ID, !c.Hidden)
		o.ui.dash.CloseMenus()
	})
	open := widget.NewButton(l.GetText(KeyOpenPage), func() {
		o.ui.openPage(c.ID)
		o.ui.dash.CloseMenus()
	})

	title := widget.NewLabel(c.Title)
	title.TextStyle = fyne.TextStyle{Bold: true}
	body := container.NewVBox(title, widget.NewLabel(c.StatusLine), widget.NewSeparator(), auto, hide, open)
	return o.framed(dashboard.Region{Kind: dashboard.RegionCardSettingsPanel, ID: c.ID}, body)
}

func (o *menuOverlay) appsPanel() fyne.CanvasObject {
	l := o.ui.localization
	entries := o.ui.dash.AppsMenu()
	rows := container.NewVBox()
	if len(entries) == 0 {
		rows.Add(widget.NewLabel(l.GetText(KeyNoTools)))
	}
	for _, e := range entries {
		dot := canvas.NewText(IconDot, theme.Color(statusColorName(true, e.Alive)))
		name := e.Title
		if e.Hidden {
			name += MiddleDotSeparator + l.GetText(KeyHiddenBadge)
		}
		more := widget.NewButton(IconMore, func() { o.ui.dash.ToggleRowMenu(e.ID) })
		more.Importance = widget.LowImportance
		rows.Add(container.NewBorder(nil, nil, dot, more, widget.NewLabel(name)))

		if o.state.RowMenuFor == e.ID {
			rows.Add(o.rowMenu(e))
		}
	}
	return o.framed(dashboard.Region{Kind: dashboard.RegionHiddenToolsPanel}, rows)
}

// rowMenu is the nested menu of one app row
func (o *menuOverlay) rowMenu(e dashboard.AppEntry) fyne.CanvasObject {
	l := o.ui.localization
	visKey := KeyHideCard
	if e.Hidden {
		visKey = KeyShowCard
	}
	vis := widget.NewButton(l.GetText(visKey), func() { o.ui.setHidden(e.ID, !e.Hidden) })

	runKey := KeyLaunch
	if e.Alive {
		runKey = KeyStop
	}
	run := widget.NewButton(l.GetText(runKey), func() { o.ui.toggleRunning(e.ID) })
	auto := widget.NewCheck(l.GetText(KeyAutoStart), nil)
	auto.SetChecked(e.AutoStart)
	auto.OnChanged = func(on bool) { o.ui.setAutoStart(e.ID, on) }
	if e.Pending {
		run.Disable()
		auto.Disable()
	}

	bg := newRegionCatcher(dashboard.Region{Kind: dashboard.RegionRowMenu, ID: e.ID}, ColorNameHeatmapBase, o.ui.dash.PointerDown)
	return container.NewStack(bg, container.NewPadded(container.NewVBox(vis, run, auto)))
}

func (o *menuOverlay) reorderPanel() fyne.CanvasObject {
	l := o.ui.localization
	items := o.ui.dash.ReorderList()
	rows := container.NewVBox()
	for i, it := range items {
		name := it.Title
		if it.Hidden {
			name += MiddleDotSeparator + l.GetText(KeyHiddenBadge)
		}
		up := widget.NewButton(IconUp, func() { o.ui.dash.MoveCard(it.ID, -1) })
		down := widget.NewButton(IconDown, func() { o.ui.dash.MoveCard(it.ID, 1) })
		if i == 0 {
			up.Disable()
		}
		if i == len(items)-1 {
			down.Disable()
		}
		rows.Add(container.NewBorder(nil, nil, nil, container.NewHBox(up, down), widget.NewLabel(name)))
	}
	return o.framed(dashboard.Region{Kind: dashboard.RegionReorderPanel}, rows)
}
