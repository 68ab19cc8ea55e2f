package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/toolboard/internal/activity"
)

// Dashboard specific color names
const (
	ColorNameCard        fyne.ThemeColorName = "toolboardCard"
	ColorNameCardBorder  fyne.ThemeColorName = "toolboardCardBorder"
	ColorNameAlive       fyne.ThemeColorName = "toolboardAlive"
	ColorNameStopped     fyne.ThemeColorName = "toolboardStopped"
	ColorNameUnknown     fyne.ThemeColorName = "toolboardUnknown"
	ColorNameResizeGrip  fyne.ThemeColorName = "toolboardResizeGrip"
	ColorNameHeatmapBase fyne.ThemeColorName = "toolboardHeatmap"
)

// CompactTheme is a dense theme for the dashboard grid with status colors
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	dark := variant == theme.VariantDark
	switch name {
	case ColorNameAlive, theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255}
	case ColorNameStopped, theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case ColorNameUnknown:
		return color.RGBA{R: 140, G: 140, B: 140, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 255, G: 193, B: 7, A: 255}
	case theme.ColorNamePrimary, ColorNameResizeGrip:
		return color.RGBA{R: 25, G: 118, B: 210, A: 255}
	case ColorNameCard:
		if dark {
			return color.RGBA{R: 30, G: 30, B: 30, A: 255}
		}
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case ColorNameCardBorder:
		if dark {
			return color.RGBA{R: 60, G: 60, B: 60, A: 255}
		}
		return color.RGBA{R: 221, G: 221, B: 221, A: 255}
	case ColorNameHeatmapBase:
		if dark {
			return color.RGBA{R: 45, G: 45, B: 45, A: 255}
		}
		return color.RGBA{R: 235, G: 237, B: 240, A: 255}
	case theme.ColorNameBackground:
		if dark {
			return color.RGBA{R: 18, G: 18, B: 18, A: 255}
		}
		return color.RGBA{R: 246, G: 247, B: 249, A: 255}
	case theme.ColorNameForeground:
		if dark {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{R: 33, G: 33, B: 33, A: 255}
	}

	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 16
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 3
	case theme.SizeNameSelectionRadius:
		return 2
	}

	return theme.DefaultTheme().Size(name)
}

// heatmapGreens are the fills of levels 1..4
var heatmapGreens = [activity.Levels - 1]color.RGBA{
	{R: 155, G: 233, B: 168, A: 255},
	{R: 64, G: 196, B: 99, A: 255},
	{R: 48, G: 161, B: 78, A: 255},
	{R: 33, G: 110, B: 57, A: 255},
}

// HeatmapColor returns the fill of one heatmap level; level 0 uses the theme base
func HeatmapColor(th fyne.Theme, variant fyne.ThemeVariant, level int) color.Color {
	if level <= 0 {
		return th.Color(ColorNameHeatmapBase, variant)
	}
	if level >= activity.Levels {
		level = activity.Levels - 1
	}
	return heatmapGreens[level-1]
}

// statusColorName maps a card's liveness to its indicator color
func statusColorName(known, alive bool) fyne.ThemeColorName {
	switch {
	case !known:
		return ColorNameUnknown
	case alive:
		return ColorNameAlive
	default:
		return ColorNameStopped
	}
}
