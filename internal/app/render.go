package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/czeidler/stacktile/internal/theme"
)

// View composes the desktop frame: one layer per visible native stack,
// a status line, and the optional help overlay.
func (d *Desktop) View() tea.View {
	canvas := lipgloss.NewCanvas()

	layers := make([]*lipgloss.Layer, 0, len(d.Windows)+2)
	for z, window := range d.Windows {
		if window.IsHidden() {
			continue
		}
		// stacked windows share one frame; only the stack top paints
		if window.TopStackWindow() != window {
			continue
		}
		layers = append(layers, d.renderWindow(window, z))
	}

	layers = append(layers, d.renderStatus())
	if d.ShowHelp {
		layers = append(layers, d.renderHelp())
	}

	canvas.AddLayers(layers...)

	var view tea.View
	view.SetContent(lipgloss.Sprint(canvas.Render()))
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

func (d *Desktop) renderWindow(window *Window, z int) *lipgloss.Layer {
	width := int(window.frame.Width())
	height := int(window.frame.Height())
	if width < 4 {
		width = 4
	}
	if height < 1 {
		height = 1
	}

	focused := false
	tabLabels := make([]string, 0, len(window.stack.windows))
	for _, member := range window.stack.windows {
		if member == d.Focused {
			focused = true
		}
		tabLabels = append(tabLabels,
			theme.TitleStyle(member == d.Focused).Render(member.title))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabLabels...)

	borderColor := theme.BorderColor(focused)
	if window.decorator.Highlighted() {
		borderColor = theme.HighlightColor()
	}

	body := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(theme.Border(d.cfg.Appearance.BorderStyle)).
		BorderForeground(borderColor).
		Render("")

	content := lipgloss.JoinVertical(lipgloss.Left, bar, body)

	complete := window.decorator.CompleteFrame()
	return lipgloss.NewLayer(content).
		X(int(complete.Left)).
		Y(int(complete.Top) + 1).
		Z(z).
		ID(window.ID)
}

func (d *Desktop) renderStatus() *lipgloss.Layer {
	grouped := 0
	if d.Controller != nil {
		for _, window := range d.Windows {
			if satWindow := d.Controller.GetWindow(window); satWindow != nil &&
				satWindow.PositionManagedBySAT() {
				grouped++
			}
		}
	}

	prefix, _, _ := d.gestureModifier()
	status := fmt.Sprintf(
		"%d windows · %d grouped · hold %s and drag to stack or tile · ? help · q quit",
		len(d.Windows), grouped, prefix)
	rendered := theme.StatusStyle().Width(d.Width).Render(status)
	return lipgloss.NewLayer(rendered).X(0).Y(d.Height - 1).Z(1000).ID("status")
}

func (d *Desktop) renderHelp() *lipgloss.Layer {
	prefix, _, _ := d.gestureModifier()
	lines := []string{
		"stacktile",
		"",
		"n             new window",
		"x / w         close window",
		"m / M         minimize / restore all",
		prefix + "+drag      stack onto a tab, or tile next to an edge",
		prefix + "+arrows    cycle tabs / groups",
		prefix + "+pgup      activate the backmost group",
		prefix + "+pgdown    activate the next group",
		"?             toggle this help",
		"q             quit",
	}
	content := lipgloss.NewStyle().
		Border(theme.Border(d.cfg.Appearance.BorderStyle)).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	x := (d.Width - lipgloss.Width(content)) / 2
	y := (d.Height - lipgloss.Height(content)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return lipgloss.NewLayer(content).X(x).Y(y).Z(2000).ID("help")
}
