// Package app implements the stacktile demo host: a terminal desktop
// whose windows are managed by the stack-and-tile core. It stands in
// for the window server the core is designed to extend.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/host"
	"github.com/czeidler/stacktile/internal/sat"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "app",
	})
}

// SetLogLevel sets the logging level for the app package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Desktop is the demo host's window server stand-in and the bubbletea
// model in one. It satisfies host.Desktop; every mutation the core asks
// for is applied to the in-memory windows and shows up on the next
// frame.
type Desktop struct {
	Width  int
	Height int

	// Windows is kept back to front.
	Windows []*Window
	Focused *Window

	Controller *sat.Controller

	cfg *config.UserConfig

	mouse        host.Point
	buttons      int32
	modifierHeld bool

	dragging     *Window
	dragOffset   host.Point
	resizing     *Window
	resizeRegion host.Region

	nextWindowNumber int
	ShowHelp         bool
}

// NewDesktop creates an empty demo desktop; the controller is attached
// by the caller once, before the program runs.
func NewDesktop(cfg *config.UserConfig) *Desktop {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Desktop{
		Width:            80,
		Height:           24,
		cfg:              cfg,
		nextWindowNumber: 1,
	}
}

// SetConfig swaps the active configuration for the host and the core
// (hot reload).
func (d *Desktop) SetConfig(cfg *config.UserConfig) {
	if cfg == nil {
		return
	}
	d.cfg = cfg
	if d.Controller != nil {
		d.Controller.SetConfig(cfg)
	}
}

// SpawnWindow creates a new demo window at a slight cascade offset and
// reports it to the controller.
func (d *Desktop) SpawnWindow() *Window {
	offset := float64((d.nextWindowNumber - 1) % 5)
	frame := host.NewRect(
		4+offset*3, 4+offset*2,
		4+offset*3+config.DefaultWindowWidth,
		4+offset*2+config.DefaultWindowHeight)
	window := newWindow(d, fmt.Sprintf("Window %d", d.nextWindowNumber), frame)
	d.nextWindowNumber++

	d.Windows = append(d.Windows, window)
	d.Focused = window
	if d.Controller != nil {
		d.Controller.WindowAdded(window)
	}
	logger.Debug("window spawned", "title", window.title)
	return window
}

// CloseWindow removes a window from the desktop and the core.
func (d *Desktop) CloseWindow(window *Window) {
	if window == nil {
		return
	}
	if d.Controller != nil {
		d.Controller.WindowRemoved(window)
	}
	window.DetachFromStack()
	for i, candidate := range d.Windows {
		if candidate == window {
			d.Windows = append(d.Windows[:i], d.Windows[i+1:]...)
			break
		}
	}
	if d.Focused == window {
		d.Focused = nil
		if len(d.Windows) > 0 {
			d.Focused = d.Windows[len(d.Windows)-1]
		}
	}
}

// windowAt returns the frontmost window whose decoration contains the
// point, with the hit region.
func (d *Desktop) windowAt(where host.Point) (*Window, host.Region, int) {
	for i := len(d.Windows) - 1; i >= 0; i-- {
		window := d.Windows[i]
		if window.IsHidden() {
			continue
		}
		region, tab := window.decorator.RegionAt(where)
		if region != host.RegionNone {
			return window, region, tab
		}
		if window.frame.Contains(where) {
			return window, host.RegionNone, -1
		}
	}
	return nil, host.RegionNone, -1
}

// =============================================================================
// host.Desktop
// =============================================================================

// Screen returns the terminal frame, minus the status line.
func (d *Desktop) Screen() host.Rect {
	return host.NewRect(0, 0, float64(d.Width-1), float64(d.Height-2))
}

// CurrentWorkspace returns the single demo workspace.
func (d *Desktop) CurrentWorkspace() int { return 0 }

// FocusWindow returns the focused window, or nil.
func (d *Desktop) FocusWindow() host.Window {
	if d.Focused == nil {
		return nil
	}
	return d.Focused
}

// CurrentWindows returns the windows back to front.
func (d *Desktop) CurrentWindows() []host.Window {
	result := make([]host.Window, 0, len(d.Windows))
	for _, window := range d.Windows {
		result = append(result, window)
	}
	return result
}

// AllWindows returns every window.
func (d *Desktop) AllWindows() []host.Window { return d.CurrentWindows() }

// LastMouseState returns the most recent pointer position and buttons.
func (d *Desktop) LastMouseState() (host.Point, int32) {
	return d.mouse, d.buttons
}

// MoveWindowBy translates a window's native stack.
func (d *Desktop) MoveWindowBy(w host.Window, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	window, ok := w.(*Window)
	if !ok {
		return
	}
	for _, member := range window.stack.windows {
		member.frame = member.frame.OffsetBy(dx, dy)
	}
}

// ResizeWindowBy grows or shrinks a window's native stack.
func (d *Desktop) ResizeWindowBy(w host.Window, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	window, ok := w.(*Window)
	if !ok {
		return
	}
	for _, member := range window.stack.windows {
		member.frame.Right += dx
		member.frame.Bottom += dy
	}
}

// ActivateWindow focuses a window and raises its stack.
func (d *Desktop) ActivateWindow(w host.Window) {
	window, ok := w.(*Window)
	if !ok {
		return
	}
	d.Focused = window
	// the other stack members keep their relative order; the window goes last
	var others, members []*Window
	found := false
	for _, candidate := range d.Windows {
		switch {
		case candidate == window:
			found = true
		case candidate.stack == window.stack:
			members = append(members, candidate)
		default:
			others = append(others, candidate)
		}
	}
	if found {
		d.Windows = append(append(others, members...), window)
	}
}

// SendWindowBehind lowers a window behind all others.
func (d *Desktop) SendWindowBehind(w, behind host.Window) {
	window, ok := w.(*Window)
	if !ok {
		return
	}
	for i, candidate := range d.Windows {
		if candidate == window {
			d.Windows = append(d.Windows[:i], d.Windows[i+1:]...)
			d.Windows = append([]*Window{window}, d.Windows...)
			break
		}
	}
}

// SetWindowWorkspaces updates a window's workspace mask.
func (d *Desktop) SetWindowWorkspaces(w host.Window, workspaces uint32) {
	if window, ok := w.(*Window); ok {
		window.workspaces = workspaces
	}
}

// NotifyMinimize minimizes or restores a window.
func (d *Desktop) NotifyMinimize(w host.Window, minimize bool) {
	if window, ok := w.(*Window); ok {
		window.minimized = minimize
	}
}

// =============================================================================
// bubbletea model
// =============================================================================

// Init starts the program; the desktop begins with one window.
func (d *Desktop) Init() tea.Cmd {
	d.SpawnWindow()
	return nil
}

// Update routes terminal events into the host hooks.
func (d *Desktop) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.Width = msg.Width
		d.Height = msg.Height
		return d, nil

	case tea.KeyPressMsg:
		return d.handleKey(msg)

	case tea.MouseClickMsg:
		return d.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return d.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return d.handleMouseRelease(msg)
	}

	return d, nil
}
