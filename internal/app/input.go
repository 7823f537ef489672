package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/czeidler/stacktile/internal/host"
	"github.com/czeidler/stacktile/internal/sat"
)

// navigationKeys maps modifier-chord suffixes to the controller's key
// codes.
var navigationKeys = map[string]sat.Key{
	"left":      sat.KeyLeftArrow,
	"right":     sat.KeyRightArrow,
	"up":        sat.KeyUpArrow,
	"down":      sat.KeyDownArrow,
	"pgup":      sat.KeyPageUp,
	"pgdown":    sat.KeyPageDown,
	"tab":       sat.KeyTab,
	"shift+tab": sat.KeyTab,
}

// gestureModifier resolves the configured gesture modifier to its key
// chord prefix, its terminal mod bit, and the controller's modifier
// mask. The name mapping matches sat.ModifierForName.
func (d *Desktop) gestureModifier() (prefix string, mod tea.KeyMod, mask sat.Modifiers) {
	name := d.cfg.Snapping.ModifierKey
	switch name {
	case "shift":
		return "shift", tea.ModShift, sat.ModifierForName(name)
	case "ctrl", "control":
		return "ctrl", tea.ModCtrl, sat.ModifierForName(name)
	case "cmd", "command":
		return "meta", tea.ModMeta, sat.ModifierForName(name)
	}
	return "alt", tea.ModAlt, sat.ModifierForName(name)
}

func (d *Desktop) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	prefix, _, mask := d.gestureModifier()
	if suffix, chorded := strings.CutPrefix(key, prefix+"+"); chorded {
		if navKey, known := navigationKeys[suffix]; known {
			modifiers := mask
			if strings.HasPrefix(suffix, "shift+") {
				modifiers |= sat.ModShift
			}
			// a terminal delivers no bare modifier transitions, so the
			// chord itself arms the controller for the keystroke
			d.syncModifier(true)
			d.Controller.KeyPressed(sat.KeyDown, navKey, modifiers)
			if d.dragging == nil && d.resizing == nil {
				d.syncModifier(false)
			}
			return d, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		return d, tea.Quit

	case "n":
		d.SpawnWindow()
		return d, nil

	case "x", "w":
		d.CloseWindow(d.Focused)
		return d, nil

	case "m":
		if d.Focused != nil {
			d.Focused.minimized = true
			d.Controller.WindowMinimized(d.Focused, true)
		}
		return d, nil

	case "M":
		for _, window := range d.Windows {
			if window.minimized {
				window.minimized = false
				d.Controller.WindowMinimized(window, false)
			}
		}
		return d, nil

	case "?":
		d.ShowHelp = !d.ShowHelp
		return d, nil
	}

	return d, nil
}

// syncModifier forwards modifier transitions to the controller.
func (d *Desktop) syncModifier(held bool) {
	if d.modifierHeld == held {
		return
	}
	d.modifierHeld = held
	modifiers := sat.Modifiers(0)
	if held {
		_, _, modifiers = d.gestureModifier()
	}
	d.Controller.KeyPressed(sat.ModifiersChanged, sat.KeyNone, modifiers)
}

// syncModifierFromMouse derives the modifier state from a mouse event's
// mod bits.
func (d *Desktop) syncModifierFromMouse(mod tea.KeyMod) {
	_, teaMod, _ := d.gestureModifier()
	d.syncModifier(mod&teaMod != 0)
}

func (d *Desktop) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	where := host.Point{X: float64(mouse.X), Y: float64(mouse.Y)}
	d.mouse = where

	d.syncModifierFromMouse(mouse.Mod)

	if mouse.Button != tea.MouseLeft {
		return d, nil
	}
	d.buttons = host.PrimaryMouseButton

	window, region, _ := d.windowAt(where)
	if window == nil {
		return d, nil
	}

	switch region {
	case host.RegionTab:
		d.dragging = window
		d.dragOffset = host.Point{X: where.X - window.frame.Left,
			Y: where.Y - window.frame.Top}
	case host.RegionRightBorder, host.RegionBottomBorder,
		host.RegionRightBottomCorner:
		d.resizing = window
		d.resizeRegion = region
	}

	d.ActivateWindow(window)
	d.Controller.MouseDown(window, where, d.buttons, 1)
	return d, nil
}

func (d *Desktop) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	where := host.Point{X: float64(mouse.X), Y: float64(mouse.Y)}
	d.mouse = where

	d.syncModifierFromMouse(mouse.Mod)

	switch {
	case d.dragging != nil:
		target := host.Point{X: where.X - d.dragOffset.X,
			Y: where.Y - d.dragOffset.Y}
		delta := host.Point{X: target.X - d.dragging.frame.Left,
			Y: target.Y - d.dragging.frame.Top}
		for _, member := range d.dragging.stack.windows {
			member.frame = member.frame.OffsetBy(delta.X, delta.Y)
		}
		d.Controller.WindowMoved(d.dragging)

	case d.resizing != nil:
		frame := &d.resizing.frame
		if d.resizeRegion != host.RegionBottomBorder {
			frame.Right = maxFloat(where.X, frame.Left+d.resizing.minWidth)
		}
		if d.resizeRegion != host.RegionRightBorder {
			frame.Bottom = maxFloat(where.Y, frame.Top+d.resizing.minHeight)
		}
		for _, member := range d.resizing.stack.windows {
			member.frame = *frame
		}
		d.Controller.WindowResized(d.resizing)
	}

	return d, nil
}

func (d *Desktop) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	where := host.Point{X: float64(mouse.X), Y: float64(mouse.Y)}
	d.mouse = where
	d.buttons = 0

	var released host.Window
	if d.dragging != nil {
		released = d.dragging
	} else if d.resizing != nil {
		released = d.resizing
	}
	d.dragging = nil
	d.resizing = nil

	// the controller ends its gesture on every release
	d.Controller.MouseUp(released, where)

	d.syncModifierFromMouse(mouse.Mod)
	return d, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
