package ui

import (
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/toolboard/internal/config"
	"github.com/ytget/toolboard/internal/model"
)

// layoutSettingsHost reads and commits the layout settings
type layoutSettingsHost interface {
	Settings() model.Settings
	SaveSettings(s model.Settings) model.Settings
}

// SettingsDialog edits the layout settings, the activity window and the language
type SettingsDialog struct {
	host         layoutSettingsHost
	prefs        *config.Preferences
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(languageChanged bool)

	minHeightEntry *widget.Entry
	maxHeightEntry *widget.Entry
	minWidthEntry  *widget.Entry
	edgeEntry      *widget.Entry
	stepEntry      *widget.Entry
	daysEntry      *widget.Entry
	languageSelect *widget.Select
	languageCodes  map[string]string
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(host layoutSettingsHost, prefs *config.Preferences, localization *Localization, window fyne.Window, onSaved func(languageChanged bool)) *SettingsDialog {
	sd := &SettingsDialog{
		host:         host,
		prefs:        prefs,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func numberEntry(placeholder string) *widget.Entry {
	e := widget.NewEntry()
	e.SetPlaceHolder(placeholder)
	e.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err
	}
	return e
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	l := sd.localization
	sd.minHeightEntry = numberEntry(strconv.Itoa(model.DefaultMinWidgetHeight))
	sd.maxHeightEntry = numberEntry(strconv.Itoa(model.DefaultMaxWidgetHeightPx))
	sd.minWidthEntry = numberEntry(strconv.Itoa(model.DefaultMinCardWidthPx))
	sd.edgeEntry = numberEntry(strconv.Itoa(model.DefaultDragAutoScrollEdgePx))
	sd.stepEntry = numberEntry(strconv.Itoa(model.DefaultDragAutoScrollStepPx))
	sd.daysEntry = numberEntry(strconv.Itoa(config.DefaultActivityDays))

	// The select shows display names; languageCodes maps them back
	sd.languageCodes = make(map[string]string)
	var names []string
	for code, name := range sd.prefs.GetLanguageOptions() {
		sd.languageCodes[name] = code
		names = append(names, name)
	}
	sort.Strings(names)
	sd.languageSelect = widget.NewSelect(names, nil)

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyMinWidgetHeight), sd.minHeightEntry),
		widget.NewFormItem(l.GetText(KeyMaxWidgetHeight), sd.maxHeightEntry),
		widget.NewFormItem(l.GetText(KeyMinCardWidth), sd.minWidthEntry),
		widget.NewFormItem(l.GetText(KeyAutoScrollEdge), sd.edgeEntry),
		widget.NewFormItem(l.GetText(KeyAutoScrollStep), sd.stepEntry),
		widget.NewFormItem(l.GetText(KeyActivityDays), sd.daysEntry),
		widget.NewFormItem(l.GetText(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		container.NewVBox(widget.NewLabel(l.GetText(KeyLayoutSettings)), widget.NewSeparator(), form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	s := sd.host.Settings().Clamped()
	sd.minHeightEntry.SetText(formatPx(s.MinWidgetHeight))
	sd.maxHeightEntry.SetText(formatPx(s.MaxWidgetHeightPx))
	sd.minWidthEntry.SetText(formatPx(s.MinCardWidthPx))
	sd.edgeEntry.SetText(formatPx(s.DragAutoScrollEdgePx))
	sd.stepEntry.SetText(formatPx(s.DragAutoScrollStepPx))
	sd.daysEntry.SetText(strconv.Itoa(sd.prefs.GetActivityDays()))

	lang := sd.prefs.GetLanguage()
	if name, ok := sd.prefs.GetLanguageOptions()[lang]; ok {
		sd.languageSelect.SetSelected(name)
	}
}

// parseInto overwrites dst when the entry holds a number
func parseInto(e *widget.Entry, dst *float64) {
	if v, err := strconv.ParseFloat(strings.TrimSpace(e.Text), 64); err == nil {
		*dst = v
	}
}

// collect reads the entries over the current settings; unparsable fields keep their value
func (sd *SettingsDialog) collect() model.Settings {
	s := sd.host.Settings()
	parseInto(sd.minHeightEntry, &s.MinWidgetHeight)
	parseInto(sd.maxHeightEntry, &s.MaxWidgetHeightPx)
	parseInto(sd.minWidthEntry, &s.MinCardWidthPx)
	parseInto(sd.edgeEntry, &s.DragAutoScrollEdgePx)
	parseInto(sd.stepEntry, &s.DragAutoScrollStepPx)
	return s
}

// onSave commits the settings; the engine clamps them and the entries show the result
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	sd.host.SaveSettings(sd.collect())

	if days, err := strconv.Atoi(strings.TrimSpace(sd.daysEntry.Text)); err == nil {
		sd.prefs.SetActivityDays(days)
	}

	languageChanged := false
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok && code != sd.prefs.GetLanguage() {
		sd.prefs.SetLanguage(code)
		languageChanged = true
	}

	if sd.onSaved != nil {
		sd.onSaved(languageChanged)
	}
}
