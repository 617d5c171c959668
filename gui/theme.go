//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	colorBackground = color.RGBA{22, 22, 26, 255}
	colorForeground = color.RGBA{210, 210, 215, 255}
	colorRecordRed  = color.RGBA{200, 60, 60, 255}
)

// murmurTheme is the default dark theme with the primary color swapped
// for the record-red used by the record button and the meter.
type murmurTheme struct{}

func (murmurTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return colorBackground
	case theme.ColorNameForeground:
		return colorForeground
	case theme.ColorNamePrimary:
		return colorRecordRed
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (murmurTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (murmurTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (murmurTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
