package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/toolboard/internal/config"
	"github.com/ytget/toolboard/internal/dashboard"
	"github.com/ytget/toolboard/internal/grid"
	"github.com/ytget/toolboard/internal/store"
)

// Service is everything the window needs from the controller
type Service interface {
	dashboard.ToolService
	ActivitySource
}

// Deps wires the window to the rest of the application
type Deps struct {
	Service     Service
	Store       *store.Store
	Preferences *config.Preferences
	Tuning      grid.Tuning

	ColumnGap     float64
	MinTrackWidth float64

	RefreshInterval    time.Duration
	ActionRefreshDelay time.Duration

	// OpenURL opens a tool page in the browser
	OpenURL func(string) error
	Logger  *slog.Logger
}

// RootUI is the main window of the dashboard
type RootUI struct {
	window       fyne.Window
	dash         *dashboard.Dashboard
	prefs        *config.Preferences
	localization *Localization
	logger       *slog.Logger
	openURL      func(string) error

	surface    *GridSurface
	frames     *FrameTicker
	gridLayout *cardGridLayout
	gridBox    *fyne.Container
	scroll     *container.Scroll
	emptyLabel *widget.Label
	cards      map[string]*CardWidget
	overlay    *menuOverlay
	activity   *ActivityPanel
	settings   *SettingsDialog

	appsBtn     *widget.Button
	reorderBtn  *widget.Button
	settingsBtn *widget.Button
	reloadBtn   *widget.Button

	ctx    context.Context
	cancel context.CancelFunc
}

var _ dashboard.View = (*RootUI)(nil)

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, deps Deps) *RootUI {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.MinTrackWidth <= 0 {
		deps.MinTrackWidth = config.DefaultMinTrackWidth
	}
	if deps.Tuning == (grid.Tuning{}) {
		deps.Tuning = grid.DefaultTuning()
	}
	if deps.OpenURL == nil {
		deps.OpenURL = func(string) error { return errors.New("no browser available") }
	}

	localization := NewLocalization()
	localization.SetLanguage(deps.Preferences.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		prefs:        deps.Preferences,
		localization: localization,
		logger:       logger.With("component", "ui"),
		openURL:      deps.OpenURL,
		surface:      NewGridSurface(deps.ColumnGap, deps.MinTrackWidth),
		frames:       NewFrameTicker(),
		cards:        make(map[string]*CardWidget),
		ctx:          ctx,
		cancel:       cancel,
	}

	ui.dash = dashboard.New(dashboard.Options{
		Service:            deps.Service,
		Store:              deps.Store,
		Surface:            ui.surface,
		View:               ui,
		Frames:             ui.frames,
		Tuning:             deps.Tuning,
		RefreshInterval:    deps.RefreshInterval,
		ActionRefreshDelay: deps.ActionRefreshDelay,
		Logger:             logger,
	})

	ui.gridLayout = newCardGridLayout(ui.surface, deps.Tuning)
	ui.gridLayout.onGeometryChanged = func() { go ui.dash.Relayout() }
	ui.gridLayout.measureViewport = ui.measureViewport

	ui.activity = NewActivityPanel(deps.Service, localization, ui.prefs.GetActivityDays,
		ui.dash.ActivityCollapsed(), ui.dash.SetActivityCollapsed, logger)
	ui.overlay = newMenuOverlay(ui)
	ui.settings = NewSettingsDialog(ui.dash, ui.prefs, localization, window, ui.onSettingsSaved)

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

// Dashboard returns the engine behind the window
func (ui *RootUI) Dashboard() *dashboard.Dashboard {
	return ui.dash
}

// Start loads the tools and the activity and starts polling liveness
func (ui *RootUI) Start() {
	go func() {
		if err := ui.dash.Load(ui.ctx); err != nil && ui.ctx.Err() == nil {
			ui.logger.Warn("initial load failed", "err", err)
			fyne.Do(ui.showLoadFailed)
		}
		ui.dash.Run(ui.ctx)
	}()
	ui.activity.Load(ui.ctx)
}

// Stop ends polling and tears down live gestures
func (ui *RootUI) Stop() {
	ui.cancel()
	ui.frames.Stop()
	ui.dash.Close()
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	l := ui.localization
	ui.appsBtn = widget.NewButton(IconApps+" "+l.GetText(KeyApps), ui.dash.ToggleHiddenTools)
	ui.reorderBtn = widget.NewButton(IconReorder+" "+l.GetText(KeyReorder), ui.dash.ToggleReorderPanel)
	ui.settingsBtn = widget.NewButton(IconSettings, ui.onShowSettings)
	ui.settingsBtn.Importance = widget.LowImportance
	ui.reloadBtn = widget.NewButton(IconReload, ui.reload)
	ui.reloadBtn.Importance = widget.LowImportance

	toolbar := container.NewHBox(ui.appsBtn, ui.reorderBtn, ui.settingsBtn, ui.reloadBtn)

	ui.gridBox = container.New(ui.gridLayout)
	ui.scroll = container.NewVScroll(ui.gridBox)
	ui.scroll.OnScrolled = ui.surface.SetOffset
	ui.surface.SetScroller(ui.scrollBy)

	ui.emptyLabel = widget.NewLabel(l.GetText(KeyNoTools))
	ui.emptyLabel.Alignment = fyne.TextAlignCenter
	ui.emptyLabel.Hide()

	top := container.NewVBox(toolbar, ui.activity, widget.NewSeparator())
	viewport := &viewportLayout{measure: ui.measureViewport, onResize: func() { go ui.dash.Relayout() }}
	center := container.New(viewport, ui.scroll, container.NewCenter(ui.emptyLabel))
	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, center))

	ui.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			ui.dash.Escape()
		}
	})
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	l := ui.localization
	settingsItem := fyne.NewMenuItem(l.GetText(KeySettings), ui.onShowSettings)
	reloadItem := fyne.NewMenuItem(l.GetText(KeyReload), ui.reload)

	languageMenu := fyne.NewMenu(l.GetText(KeyLanguage))
	available := l.GetAvailableLanguages()
	for _, code := range l.LanguageCodes() {
		item := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(code)
		})
		item.Checked = l.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(l.GetText(KeyFile), settingsItem, reloadItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(code string) {
	ui.localization.SetLanguage(code)
	ui.prefs.SetLanguage(code)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))
	ui.appsBtn.SetText(IconApps + " " + l.GetText(KeyApps))
	ui.reorderBtn.SetText(IconReorder + " " + l.GetText(KeyReorder))
	ui.emptyLabel.SetText(l.GetText(KeyNoTools))
	ui.activity.RefreshTexts()
	ui.settings = NewSettingsDialog(ui.dash, ui.prefs, l, ui.window, ui.onSettingsSaved)
	for id, cw := range ui.cards {
		if c, ok := ui.dash.Card(id); ok {
			cw.stoppedText.SetText(l.GetText(KeyWidgetStopped))
			cw.header.hiddenBadge.SetText(l.GetText(KeyHiddenBadge))
			cw.Update(c)
		}
	}
	ui.overlay.refresh()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ui.dash.CloseMenus()
	ui.settings.Show()
}

func (ui *RootUI) onSettingsSaved(languageChanged bool) {
	if languageChanged {
		ui.localization.SetLanguage(ui.prefs.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	}
	ui.activity.Load(ui.ctx)
}

// reload rebuilds the registry from the controller
func (ui *RootUI) reload() {
	go func() {
		if err := ui.dash.Load(ui.ctx); err != nil && ui.ctx.Err() == nil {
			ui.logger.Warn("reload failed", "err", err)
			fyne.Do(ui.showLoadFailed)
		}
	}()
	ui.activity.Load(ui.ctx)
}

// showLoadFailed replaces the empty grid text; cards already shown stay
func (ui *RootUI) showLoadFailed() {
	if len(ui.cards) > 0 {
		return
	}
	ui.emptyLabel.SetText(ui.localization.GetText(KeyLoadFailed))
	ui.emptyLabel.Show()
}

func (ui *RootUI) measureViewport() {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(ui.scroll)
	ui.surface.SetViewport(origin, ui.scroll.Size())
}

// scrollBy moves the grid during a drag auto-scroll. It is called with the engine
// lock held, so the scroll itself is posted to the UI goroutine.
func (ui *RootUI) scrollBy(dy float32) {
	fyne.Do(func() {
		maxY := fyne.Max(0, ui.gridBox.MinSize().Height-ui.scroll.Size().Height)
		off := ui.scroll.Offset
		off.Y = fyne.Min(maxY, fyne.Max(0, off.Y+dy))
		if off == ui.scroll.Offset {
			return
		}
		ui.scroll.Offset = off
		ui.scroll.Refresh()
		ui.surface.SetOffset(off)
	})
}

// render rebuilds the grid from the engine's visible cards. It runs on the UI goroutine.
func (ui *RootUI) render() {
	cards := ui.dash.VisibleCards()
	items := make([]gridItem, 0, len(cards))
	objects := make([]fyne.CanvasObject, 0, len(cards))
	seen := make(map[string]bool, len(cards))
	headersChanged := false

	for _, c := range cards {
		cw := ui.cards[c.ID]
		if cw == nil {
			cw = NewCardWidget(c, ui.dash, ui.surface, ui.localization, ui.logger)
			cw.SetCallbacks(ui.toggleRunning, ui.openPage)
			ui.cards[c.ID] = cw
		} else {
			cw.Update(c)
		}
		seen[c.ID] = true

		hh := float64(cw.HeaderHeight())
		if hh != ui.surface.HeaderHeight(c.ID) {
			headersChanged = true
		}
		ui.surface.SetHeaderHeight(c.ID, hh)

		items = append(items, gridItem{id: c.ID, colSpan: c.ColSpan, rowSpan: c.RowSpan, object: cw})
		objects = append(objects, cw)
	}
	for id := range ui.cards {
		if !seen[id] {
			delete(ui.cards, id)
		}
	}

	ui.gridLayout.setItems(items, ui.dash.Settings())
	ui.gridBox.Objects = objects
	ui.gridBox.Refresh()
	if len(cards) == 0 {
		ui.emptyLabel.SetText(ui.localization.GetText(KeyNoTools))
		ui.emptyLabel.Show()
	} else {
		ui.emptyLabel.Hide()
	}
	ui.overlay.refresh()

	if headersChanged {
		go ui.dash.RecomputeRowSpans()
	}
}

func (ui *RootUI) toggleRunning(id string) {
	go func() {
		if err := ui.dash.ToggleRunning(ui.ctx, id); err != nil && !errors.Is(err, dashboard.ErrActionPending) {
			ui.logger.Debug("toggle running failed", "tool", id, "err", err)
		}
	}()
}

func (ui *RootUI) setAutoStart(id string, enabled bool) {
	go func() {
		if err := ui.dash.SetAutoStart(ui.ctx, id, enabled); err != nil && !errors.Is(err, dashboard.ErrActionPending) {
			ui.logger.Debug("auto-start change failed", "tool", id, "err", err)
		}
	}()
}

func (ui *RootUI) setHidden(id string, hidden bool) {
	if err := ui.dash.SetHidden(id, hidden); err != nil {
		ui.logger.Debug("visibility change failed", "tool", id, "err", err)
	}
}

func (ui *RootUI) openPage(id string) {
	if err := ui.openURL(ui.dash.PageURL(id)); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningPage), err), ui.window)
	}
}

// Render implements dashboard.View
func (ui *RootUI) Render() {
	fyne.Do(ui.render)
}

// CardChanged implements dashboard.View
func (ui *RootUI) CardChanged(id string) {
	fyne.Do(func() {
		cw := ui.cards[id]
		if cw == nil {
			return
		}
		if c, ok := ui.dash.Card(id); ok {
			cw.Update(c)
		}
	})
}

// MenuChanged implements dashboard.View
func (ui *RootUI) MenuChanged(state dashboard.MenuState) {
	fyne.Do(func() { ui.overlay.show(state) })
}

// ShowError implements dashboard.View
func (ui *RootUI) ShowError(msg string, err error) {
	ui.logger.Warn(msg, "err", err)
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s (%s): %w", ui.localization.GetText(KeyActionFailed), msg, err), ui.window)
	})
}

// ResizeStateChanged implements dashboard.View
func (ui *RootUI) ResizeStateChanged(id string, mode dashboard.ResizeMode, active bool) {
	fyne.Do(func() {
		if cw := ui.cards[id]; cw != nil {
			cw.SetResizeActive(mode, active)
		}
	})
}
