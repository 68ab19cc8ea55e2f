package ui

import "sort"

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyApps               = "apps"
	KeyReorder            = "reorder"
	KeyReload             = "reload"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyLayoutSettings     = "layout_settings"
	KeyMinWidgetHeight    = "min_widget_height"
	KeyMaxWidgetHeight    = "max_widget_height"
	KeyMinCardWidth       = "min_card_width"
	KeyAutoScrollEdge     = "auto_scroll_edge"
	KeyAutoScrollStep     = "auto_scroll_step"
	KeyActivityDays       = "activity_days"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyLaunch             = "launch"
	KeyStop               = "stop"
	KeyOpenPage           = "open_page"
	KeyHideCard           = "hide_card"
	KeyShowCard           = "show_card"
	KeyAutoStart          = "auto_start"
	KeyNoTools            = "no_tools"
	KeyWidgetStopped      = "widget_stopped"
	KeyJobActivity        = "job_activity"
	KeyActivityTotal      = "activity_total"
	KeyActivityFailed     = "activity_failed"
	KeyLoadFailed         = "load_failed"
	KeyActionFailed       = "action_failed"
	KeyHiddenBadge        = "hidden_badge"
	KeyErrorOpeningPage   = "error_opening_page"
	KeyCategoryDisplay    = "category_display"
	KeyCategoryHybrid     = "category_hybrid"
	KeyCategoryBackground = "category_background"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown codes keep the current one.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" || lang == "" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// LanguageCodes returns the available codes in a stable order
func (l *Localization) LanguageCodes() []string {
	codes := make([]string, 0, len(l.texts))
	for code := range l.GetAvailableLanguages() {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Toolboard",
		KeyApps:               "Apps",
		KeyReorder:            "Reorder",
		KeyReload:             "Reload",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyLayoutSettings:     "Layout",
		KeyMinWidgetHeight:    "Min widget height (px)",
		KeyMaxWidgetHeight:    "Max widget height (px)",
		KeyMinCardWidth:       "Min card width (px)",
		KeyAutoScrollEdge:     "Auto-scroll edge (px)",
		KeyAutoScrollStep:     "Auto-scroll step (px)",
		KeyActivityDays:       "Activity window (days)",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyLaunch:             "Launch",
		KeyStop:               "Stop",
		KeyOpenPage:           "Open page",
		KeyHideCard:           "Hide card",
		KeyShowCard:           "Show card",
		KeyAutoStart:          "Start automatically",
		KeyNoTools:            "No tools registered",
		KeyWidgetStopped:      "Tool is stopped",
		KeyJobActivity:        "Job applications",
		KeyActivityTotal:      "%d in the last %d days",
		KeyActivityFailed:     "Activity unavailable",
		KeyLoadFailed:         "Could not load tools",
		KeyActionFailed:       "Action failed",
		KeyHiddenBadge:        "hidden",
		KeyErrorOpeningPage:   "Error opening page",
		KeyCategoryDisplay:    "Display",
		KeyCategoryHybrid:     "Hybrid",
		KeyCategoryBackground: "Background",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Панель инструментов",
		KeyApps:               "Приложения",
		KeyReorder:            "Порядок",
		KeyReload:             "Обновить",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyLayoutSettings:     "Раскладка",
		KeyMinWidgetHeight:    "Мин. высота виджета (px)",
		KeyMaxWidgetHeight:    "Макс. высота виджета (px)",
		KeyMinCardWidth:       "Мин. ширина карточки (px)",
		KeyAutoScrollEdge:     "Зона автопрокрутки (px)",
		KeyAutoScrollStep:     "Шаг автопрокрутки (px)",
		KeyActivityDays:       "Период активности (дни)",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyLaunch:             "Запустить",
		KeyStop:               "Остановить",
		KeyOpenPage:           "Открыть страницу",
		KeyHideCard:           "Скрыть карточку",
		KeyShowCard:           "Показать карточку",
		KeyAutoStart:          "Запускать автоматически",
		KeyNoTools:            "Нет зарегистрированных инструментов",
		KeyWidgetStopped:      "Инструмент остановлен",
		KeyJobActivity:        "Отклики на вакансии",
		KeyActivityTotal:      "%d за последние %d дней",
		KeyActivityFailed:     "Активность недоступна",
		KeyLoadFailed:         "Не удалось загрузить инструменты",
		KeyActionFailed:       "Действие не выполнено",
		KeyHiddenBadge:        "скрыт",
		KeyErrorOpeningPage:   "Ошибка открытия страницы",
		KeyCategoryDisplay:    "Виджеты",
		KeyCategoryHybrid:     "Гибридные",
		KeyCategoryBackground: "Фоновые",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Toolboard",
		KeyApps:               "Aplicativos",
		KeyReorder:            "Reordenar",
		KeyReload:             "Recarregar",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyLayoutSettings:     "Layout",
		KeyMinWidgetHeight:    "Altura mínima do widget (px)",
		KeyMaxWidgetHeight:    "Altura máxima do widget (px)",
		KeyMinCardWidth:       "Largura mínima do cartão (px)",
		KeyAutoScrollEdge:     "Borda de rolagem automática (px)",
		KeyAutoScrollStep:     "Passo de rolagem automática (px)",
		KeyActivityDays:       "Janela de atividade (dias)",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyLaunch:             "Iniciar",
		KeyStop:               "Parar",
		KeyOpenPage:           "Abrir página",
		KeyHideCard:           "Ocultar cartão",
		KeyShowCard:           "Mostrar cartão",
		KeyAutoStart:          "Iniciar automaticamente",
		KeyNoTools:            "Nenhuma ferramenta registrada",
		KeyWidgetStopped:      "Ferramenta parada",
		KeyJobActivity:        "Candidaturas",
		KeyActivityTotal:      "%d nos últimos %d dias",
		KeyActivityFailed:     "Atividade indisponível",
		KeyLoadFailed:         "Não foi possível carregar as ferramentas",
		KeyActionFailed:       "Falha na ação",
		KeyHiddenBadge:        "oculto",
		KeyErrorOpeningPage:   "Erro ao abrir página",
		KeyCategoryDisplay:    "Exibição",
		KeyCategoryHybrid:     "Híbridos",
		KeyCategoryBackground: "Em segundo plano",
	}
}
