package config

import (
	"fyne.io/fyne/v2"
)

// Preference keys of the desktop app
const (
	KeyPrefLanguage     = "app_language"
	KeyPrefActivityDays = "activity_days"
	KeyPrefWindowWidth  = "window_width"
	KeyPrefWindowHeight = "window_height"
)

// Window size bounds
const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 860
	MinWindowWidth      = 480
	MinWindowHeight     = 360
)

// Activity window bounds in days
const (
	MinActivityDays = 7
	MaxActivityDays = 371
)

// Preferences are the per-user choices of the desktop app, kept in fyne preferences.
// Values not set there fall back to the loaded Config.
type Preferences struct {
	app      fyne.App
	fallback *Config
}

// NewPreferences creates a preferences manager
func NewPreferences(app fyne.App, fallback *Config) *Preferences {
	if fallback == nil {
		fallback = &Config{Language: DefaultLanguage, ActivityDays: DefaultActivityDays}
	}
	return &Preferences{app: app, fallback: fallback}
}

// GetLanguage returns the configured language
func (p *Preferences) GetLanguage() string {
	lang := p.app.Preferences().String(KeyPrefLanguage)
	if lang == "" {
		if p.fallback.Language != "" {
			return p.fallback.Language
		}
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (p *Preferences) SetLanguage(lang string) {
	p.app.Preferences().SetString(KeyPrefLanguage, lang)
}

// GetLanguageOptions returns available language options
func (p *Preferences) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetActivityDays returns how many trailing days the activity panel shows
func (p *Preferences) GetActivityDays() int {
	days := p.app.Preferences().Int(KeyPrefActivityDays)
	if days <= 0 {
		days = p.fallback.ActivityDays
	}
	return clampDays(days)
}

// SetActivityDays sets the activity window
func (p *Preferences) SetActivityDays(days int) {
	p.app.Preferences().SetInt(KeyPrefActivityDays, clampDays(days))
}

func clampDays(days int) int {
	if days < MinActivityDays {
		return MinActivityDays
	}
	if days > MaxActivityDays {
		return MaxActivityDays
	}
	return days
}

// GetWindowSize returns the last saved window size
func (p *Preferences) GetWindowSize() fyne.Size {
	w := p.app.Preferences().FloatWithFallback(KeyPrefWindowWidth, DefaultWindowWidth)
	h := p.app.Preferences().FloatWithFallback(KeyPrefWindowHeight, DefaultWindowHeight)
	if w < MinWindowWidth {
		w = MinWindowWidth
	}
	if h < MinWindowHeight {
		h = MinWindowHeight
	}
	return fyne.NewSize(float32(w), float32(h))
}

// SetWindowSize remembers the window size
func (p *Preferences) SetWindowSize(size fyne.Size) {
	p.app.Preferences().SetFloat(KeyPrefWindowWidth, float64(size.Width))
	p.app.Preferences().SetFloat(KeyPrefWindowHeight, float64(size.Height))
}
