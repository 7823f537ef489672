// Package theme provides color themes and styling for the stacktile
// demo host.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// Call this once at application startup. An empty name disables theming
// and falls back to the built-in palette.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if ok := tint.SetTintID(themeName); !ok {
		tint.SetTintID("default")
	}

	return nil
}

// IsEnabled returns true if theming is enabled.
func IsEnabled() bool { return enabled }

// Current returns the currently active theme, or nil when theming is
// disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// BorderColor returns the frame color for a window.
func BorderColor(focused bool) color.Color {
	if t := Current(); t != nil {
		if focused {
			return t.BrightBlue
		}
		return t.BrightBlack
	}
	if focused {
		return lipgloss.Color("#5f87ff")
	}
	return lipgloss.Color("#585858")
}

// HighlightColor returns the snapping-candidate emphasis color.
func HighlightColor() color.Color {
	if t := Current(); t != nil {
		return t.BrightYellow
	}
	return lipgloss.Color("#ffd75f")
}

// Border maps a configured border style name to its lipgloss border.
func Border(style string) lipgloss.Border {
	switch style {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	case "ascii":
		return lipgloss.ASCIIBorder()
	}
	return lipgloss.RoundedBorder()
}

// TitleStyle returns the style for a window's active tab label.
func TitleStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	if focused {
		return style.Bold(true).Foreground(lipgloss.Color("#ffffff"))
	}
	return style.Foreground(lipgloss.Color("#bcbcbc"))
}

// StatusStyle returns the style of the bottom status line.
func StatusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Faint(true).Padding(0, 1)
}
