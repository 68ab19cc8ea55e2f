package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/toolboard/internal/dashboard"
	"github.com/ytget/toolboard/internal/model"
)

// cardHost is the part of the engine a card forwards its gestures to
type cardHost interface {
	ArmDrag(id string, onControl bool) bool
	DisarmDrag(id string)
	BeginDrag(id string) error
	DragOver(p dashboard.Point) bool
	EndDrag()
	BeginResize(id string, mode dashboard.ResizeMode, pointerID int, p dashboard.Point) error
	ResizeMove(pointerID int, p dashboard.Point)
	EndResize(pointerID int)
	ToggleCardSettings(id string)
}

// CardWidget renders one tool card: a draggable header, the widget block and the
// resize affordances
type CardWidget struct {
	widget.BaseWidget

	id           string
	card         dashboard.Card
	host         cardHost
	surface      *GridSurface
	localization *Localization
	logger       *slog.Logger

	background  *canvas.Rectangle
	header      *cardHeader
	body        *fyne.Container
	frameLink   *widget.Hyperlink
	pidLabel    *widget.Label
	stoppedText *widget.Label
	bottom      *resizeHandle
	corner      *resizeHandle
	layout      *cardLayout
	content     *fyne.Container

	onPower func(id string)
	onOpen  func(id string)
}

// NewCardWidget creates the widget for one card
func NewCardWidget(c dashboard.Card, host cardHost, surface *GridSurface, localization *Localization, logger *slog.Logger) *CardWidget {
	if logger == nil {
		logger = slog.Default()
	}
	cw := &CardWidget{
		id:           c.ID,
		host:         host,
		surface:      surface,
		localization: localization,
		logger:       logger,
	}
	cw.ExtendBaseWidget(cw)
	cw.createUI()
	cw.Update(c)
	return cw
}

// SetCallbacks sets the header action callbacks
func (cw *CardWidget) SetCallbacks(onPower, onOpen func(id string)) {
	cw.onPower = onPower
	cw.onOpen = onOpen
}

// ID returns the tool id of the card
func (cw *CardWidget) ID() string {
	return cw.id
}

// Card returns the snapshot the widget last rendered
func (cw *CardWidget) Card() dashboard.Card {
	return cw.card
}

func (cw *CardWidget) createUI() {
	cw.background = canvas.NewRectangle(theme.Color(ColorNameCard))
	cw.background.CornerRadius = CardCornerRadius
	cw.background.StrokeColor = theme.Color(ColorNameCardBorder)
	cw.background.StrokeWidth = CardStrokeWidth

	cw.header = newCardHeader(cw)

	cw.frameLink = widget.NewHyperlink("", nil)
	cw.frameLink.Truncation = fyne.TextTruncateEllipsis
	cw.pidLabel = widget.NewLabel("")
	cw.pidLabel.TextStyle = fyne.TextStyle{Monospace: true}
	cw.stoppedText = widget.NewLabel(cw.localization.GetText(KeyWidgetStopped))
	cw.stoppedText.Alignment = fyne.TextAlignCenter
	cw.body = container.NewVBox(cw.frameLink, cw.pidLabel, cw.stoppedText)

	cw.bottom = newResizeHandle(cw, dashboard.ResizeBottom)
	cw.corner = newResizeHandle(cw, dashboard.ResizeCorner)

	cw.layout = &cardLayout{}
	cw.content = container.New(cw.layout, cw.background, cw.header, cw.body, cw.bottom, cw.corner)
}

// Update renders a new snapshot of the card
func (cw *CardWidget) Update(c dashboard.Card) {
	cw.card = c
	cw.header.update(c)

	cw.layout.widgetHeight = float32(c.Height)
	cw.layout.widgetVisible = c.WidgetVisible
	if c.WidgetVisible && c.FrameSource != "" {
		if err := cw.frameLink.SetURLFromString(c.FrameSource); err != nil {
			cw.logger.Debug("bad frame source", "tool", c.ID, "err", err)
		}
		cw.frameLink.SetText(c.FrameSource)
		cw.frameLink.Show()
		cw.pidLabel.SetText(c.StatusLine)
		cw.pidLabel.Show()
		cw.stoppedText.Hide()
		cw.bottom.Show()
		cw.corner.Show()
	} else {
		cw.frameLink.Hide()
		cw.pidLabel.Hide()
		cw.stoppedText.SetText(cw.localization.GetText(KeyWidgetStopped))
		cw.stoppedText.Show()
		if c.WidgetVisible {
			cw.bottom.Show()
			cw.corner.Show()
		} else {
			cw.bottom.Hide()
			cw.corner.Hide()
		}
	}

	switch {
	case c.Dragging:
		cw.background.StrokeColor = theme.Color(theme.ColorNamePrimary)
		cw.background.StrokeWidth = CardDragStrokeWidth
	case c.Resizing:
		cw.background.StrokeColor = theme.Color(ColorNameResizeGrip)
		cw.background.StrokeWidth = CardDragStrokeWidth
	default:
		cw.background.StrokeColor = theme.Color(ColorNameCardBorder)
		cw.background.StrokeWidth = CardStrokeWidth
	}
	cw.Refresh()
}

// SetResizeActive highlights the handle of an active resize
func (cw *CardWidget) SetResizeActive(mode dashboard.ResizeMode, active bool) {
	cw.bottom.setActive(active && mode == dashboard.ResizeBottom)
	cw.corner.setActive(active && mode == dashboard.ResizeCorner)
}

// HeaderHeight returns the rendered header height
func (cw *CardWidget) HeaderHeight() float32 {
	return fyne.Max(cw.header.MinSize().Height, CardHeaderMinHeight)
}

// CreateRenderer creates the widget renderer
func (cw *CardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cw.content)
}

// cardLayout stacks the header over the widget block and pins the resize handles to
// the block's bottom edge and bottom-right corner
type cardLayout struct {
	widgetHeight  float32
	widgetVisible bool
}

func (l *cardLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 5 {
		return
	}
	bg, header, body, bottom, corner := objects[0], objects[1], objects[2], objects[3], objects[4]
	bg.Move(fyne.NewPos(0, 0))
	bg.Resize(size)

	hh := fyne.Min(fyne.Max(header.MinSize().Height, CardHeaderMinHeight), size.Height)
	header.Move(fyne.NewPos(0, 0))
	header.Resize(fyne.NewSize(size.Width, hh))

	bh := size.Height - hh
	if l.widgetVisible {
		bh = fyne.Min(l.widgetHeight, bh)
	}
	bh = fyne.Max(bh, 0)
	body.Move(fyne.NewPos(0, hh))
	body.Resize(fyne.NewSize(size.Width, bh))

	edge := hh + bh
	bottom.Move(fyne.NewPos(0, edge-ResizeBottomThick))
	bottom.Resize(fyne.NewSize(size.Width-ResizeCornerSize, ResizeBottomThick))
	corner.Move(fyne.NewPos(size.Width-ResizeCornerSize, edge-ResizeCornerSize))
	corner.Resize(fyne.NewSize(ResizeCornerSize, ResizeCornerSize))
}

func (l *cardLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	h := CardHeaderMinHeight
	if l.widgetVisible {
		h += l.widgetHeight
	}
	return fyne.NewSize(ResizeCornerSize*2, h)
}

// cardHeader is the drag handle of a card. Presses on its buttons never arm a drag.
type cardHeader struct {
	widget.BaseWidget

	card    *CardWidget
	tracker *pointerTracker

	titleLabel    *widget.Label
	statusDot     *canvas.Text
	statusLabel   *widget.Label
	categoryLabel *widget.Label
	hiddenBadge   *widget.Label

	powerBtn    *widget.Button
	openBtn     *widget.Button
	settingsBtn *widget.Button
}

var (
	_ desktop.Mouseable = (*cardHeader)(nil)
	_ fyne.Draggable    = (*cardHeader)(nil)
	_ mobile.Touchable  = (*cardHeader)(nil)
)

func newCardHeader(cw *CardWidget) *cardHeader {
	h := &cardHeader{card: cw, tracker: newPointerTracker()}
	h.ExtendBaseWidget(h)

	h.titleLabel = widget.NewLabel("")
	h.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	h.titleLabel.Truncation = fyne.TextTruncateEllipsis
	h.statusDot = canvas.NewText(IconDot, theme.Color(ColorNameUnknown))
	h.statusLabel = widget.NewLabel("")
	h.statusLabel.Truncation = fyne.TextTruncateEllipsis
	h.categoryLabel = widget.NewLabel("")
	h.hiddenBadge = widget.NewLabel(cw.localization.GetText(KeyHiddenBadge))
	h.hiddenBadge.Hide()

	h.powerBtn = widget.NewButton(IconPower, func() {
		if cw.onPower != nil {
			cw.onPower(cw.id)
		}
	})
	h.openBtn = widget.NewButton(IconOpen, func() {
		if cw.onOpen != nil {
			cw.onOpen(cw.id)
		}
	})
	h.openBtn.Importance = widget.LowImportance
	h.settingsBtn = widget.NewButton(IconSettings, func() {
		cw.host.ToggleCardSettings(cw.id)
	})
	h.settingsBtn.Importance = widget.LowImportance
	return h
}

func (h *cardHeader) update(c dashboard.Card) {
	h.titleLabel.SetText(c.Title)
	status := c.StatusLine
	if status == "" {
		status = DashPlaceholder
	}
	h.statusLabel.SetText(status)
	h.statusDot.Color = theme.Color(statusColorName(c.StatusKnown, c.Alive))
	h.statusDot.Refresh()
	h.categoryLabel.SetText(categoryText(h.card.localization, c.Category))
	if c.Hidden {
		h.hiddenBadge.Show()
	} else {
		h.hiddenBadge.Hide()
	}

	if c.Alive {
		h.powerBtn.Importance = widget.DangerImportance
	} else {
		h.powerBtn.Importance = widget.SuccessImportance
	}
	if c.Pending {
		h.powerBtn.Disable()
	} else {
		h.powerBtn.Enable()
	}
	h.powerBtn.Refresh()
}

func (h *cardHeader) CreateRenderer() fyne.WidgetRenderer {
	controls := container.NewHBox(h.powerBtn, h.openBtn, h.settingsBtn)
	text := container.NewVBox(
		h.titleLabel,
		container.NewHBox(h.statusDot, h.statusLabel, h.categoryLabel, h.hiddenBadge),
	)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, controls, text))
}

// onControl reports whether an absolute position lies on one of the header buttons
func (h *cardHeader) onControl(abs fyne.Position) bool {
	app := fyne.CurrentApp()
	if app == nil {
		return false
	}
	drv := app.Driver()
	for _, b := range []*widget.Button{h.powerBtn, h.openBtn, h.settingsBtn} {
		if !b.Visible() {
			continue
		}
		pos := drv.AbsolutePositionForObject(b)
		size := b.Size()
		if abs.X >= pos.X && abs.X < pos.X+size.Width && abs.Y >= pos.Y && abs.Y < pos.Y+size.Height {
			return true
		}
	}
	return false
}

func (h *cardHeader) pressed(abs fyne.Position) {
	h.tracker.press(abs)
	h.card.host.ArmDrag(h.card.id, h.onControl(abs))
}

func (h *cardHeader) released() {
	if h.tracker.release() {
		h.card.host.EndDrag()
		return
	}
	h.card.host.DisarmDrag(h.card.id)
}

// MouseDown arms a drag for primary-button presses
func (h *cardHeader) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	h.pressed(ev.AbsolutePosition)
}

// MouseUp disarms a drag that never started
func (h *cardHeader) MouseUp(*desktop.MouseEvent) {
	if !h.tracker.dragging {
		h.released()
	}
}

// Dragged starts the drag on the first movement and hit-tests every later one
func (h *cardHeader) Dragged(ev *fyne.DragEvent) {
	if h.tracker.rejected {
		return
	}
	if !h.tracker.dragging {
		if err := h.card.host.BeginDrag(h.card.id); err != nil {
			h.tracker.rejected = true
			return
		}
		h.tracker.dragging = true
	}
	h.card.host.DragOver(h.card.surface.ToViewport(ev.AbsolutePosition))
}

// DragEnd drops the card and persists the order
func (h *cardHeader) DragEnd() {
	h.released()
}

// TouchDown arms a drag for touch input
func (h *cardHeader) TouchDown(ev *mobile.TouchEvent) {
	h.pressed(ev.AbsolutePosition)
}

// TouchUp mirrors MouseUp
func (h *cardHeader) TouchUp(*mobile.TouchEvent) {
	if !h.tracker.dragging {
		h.released()
	}
}

// TouchCancel ends whatever the touch started
func (h *cardHeader) TouchCancel(*mobile.TouchEvent) {
	h.released()
}

// resizeHandle is the bottom edge or bottom-right corner affordance of a card
type resizeHandle struct {
	widget.BaseWidget

	card   *CardWidget
	mode   dashboard.ResizeMode
	grip   *canvas.Rectangle
	active bool
}

var (
	_ desktop.Mouseable  = (*resizeHandle)(nil)
	_ desktop.Cursorable = (*resizeHandle)(nil)
	_ fyne.Draggable     = (*resizeHandle)(nil)
	_ mobile.Touchable   = (*resizeHandle)(nil)
)

func newResizeHandle(cw *CardWidget, mode dashboard.ResizeMode) *resizeHandle {
	r := &resizeHandle{card: cw, mode: mode}
	r.ExtendBaseWidget(r)
	r.grip = canvas.NewRectangle(theme.Color(ColorNameCardBorder))
	if mode == dashboard.ResizeCorner {
		r.grip.CornerRadius = 2
	}
	return r
}

func (r *resizeHandle) setActive(active bool) {
	if r.active == active {
		return
	}
	r.active = active
	if active {
		r.grip.FillColor = theme.Color(ColorNameResizeGrip)
	} else {
		r.grip.FillColor = theme.Color(ColorNameCardBorder)
	}
	r.grip.Refresh()
}

func (r *resizeHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(r.grip)
}

// Cursor shows which way the handle resizes
func (r *resizeHandle) Cursor() desktop.Cursor {
	if r.mode == dashboard.ResizeBottom {
		return desktop.VResizeCursor
	}
	return desktop.CrosshairCursor
}

func (r *resizeHandle) begin(abs fyne.Position) {
	p := r.card.surface.ToViewport(abs)
	if err := r.card.host.BeginResize(r.card.id, r.mode, mousePointer, p); err != nil {
		r.card.logger.Debug("resize refused", "tool", r.card.id, "mode", r.mode, "err", err)
	}
}

// MouseDown starts a resize
func (r *resizeHandle) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	r.begin(ev.AbsolutePosition)
}

// MouseUp commits a resize that ended without a drag
func (r *resizeHandle) MouseUp(*desktop.MouseEvent) {
	r.card.host.EndResize(mousePointer)
}

// Dragged feeds pointer movement to the resize session
func (r *resizeHandle) Dragged(ev *fyne.DragEvent) {
	r.card.host.ResizeMove(mousePointer, r.card.surface.ToViewport(ev.AbsolutePosition))
}

// DragEnd commits the resize
func (r *resizeHandle) DragEnd() {
	r.card.host.EndResize(mousePointer)
}

// TouchDown starts a resize from touch input
func (r *resizeHandle) TouchDown(ev *mobile.TouchEvent) {
	r.begin(ev.AbsolutePosition)
}

// TouchUp commits the resize
func (r *resizeHandle) TouchUp(*mobile.TouchEvent) {
	r.card.host.EndResize(mousePointer)
}

// TouchCancel ends the resize like a release and keeps the size reached so far
func (r *resizeHandle) TouchCancel(*mobile.TouchEvent) {
	r.card.host.EndResize(mousePointer)
}

// categoryText returns the localized label of a category
func categoryText(l *Localization, c model.Category) string {
	switch c {
	case model.CategoryHybrid:
		return l.GetText(KeyCategoryHybrid)
	case model.CategoryBackground:
		return l.GetText(KeyCategoryBackground)
	default:
		return l.GetText(KeyCategoryDisplay)
	}
}
