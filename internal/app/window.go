package app

import (
	"github.com/google/uuid"

	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/host"
)

// windowStack is a native window stack: windows stacked by the host
// share one frame and one tab bar.
type windowStack struct {
	windows []*Window
}

// Window is one demo window. It satisfies host.Window so the core can
// manage it like a real server-side window.
type Window struct {
	desktop *Desktop

	ID    string
	title string
	frame host.Rect

	look  host.Look
	feel  host.Feel
	flags host.Flags

	minWidth, maxWidth   float64
	minHeight, maxHeight float64

	hidden    bool
	minimized bool

	workspaces uint32

	stack     *windowStack
	decorator *Decorator
}

func newWindow(desktop *Desktop, title string, frame host.Rect) *Window {
	window := &Window{
		desktop:    desktop,
		ID:         uuid.NewString(),
		title:      title,
		frame:      frame,
		look:       host.TitledLook,
		feel:       host.NormalFeel,
		minWidth:   config.MinWindowWidth,
		maxWidth:   config.MaxSolverValue,
		minHeight:  config.MinWindowHeight,
		maxHeight:  config.MaxSolverValue,
		workspaces: 1,
	}
	window.stack = &windowStack{windows: []*Window{window}}
	window.decorator = &Decorator{window: window}
	return window
}

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Frame returns the client frame.
func (w *Window) Frame() host.Rect { return w.frame }

// Look returns the decoration style.
func (w *Window) Look() host.Look { return w.look }

// Feel returns the stacking feel.
func (w *Window) Feel() host.Feel { return w.feel }

// Flags returns the behavior bits.
func (w *Window) Flags() host.Flags { return w.flags }

// IsHidden reports whether the window is hidden or minimized.
func (w *Window) IsHidden() bool { return w.hidden || w.minimized }

// Decorator returns the window's decorator.
func (w *Window) Decorator() host.Decorator { return w.decorator }

// SizeLimits returns the client size limits.
func (w *Window) SizeLimits() (minWidth, maxWidth, minHeight, maxHeight float64) {
	return w.minWidth, w.maxWidth, w.minHeight, w.maxHeight
}

// SetSizeLimits overwrites the client size limits.
func (w *Window) SetSizeLimits(minWidth, maxWidth, minHeight, maxHeight float64) {
	w.minWidth, w.maxWidth = minWidth, maxWidth
	w.minHeight, w.maxHeight = minHeight, maxHeight
}

// CurrentWorkspace returns the active workspace; the demo host has one.
func (w *Window) CurrentWorkspace() int { return 0 }

// Workspaces returns the workspace membership mask.
func (w *Window) Workspaces() uint32 { return w.workspaces }

// AnchorPosition is unused by the single-workspace demo host.
func (w *Window) AnchorPosition(workspace int) (host.Point, bool) {
	return host.Point{}, false
}

// PositionInStack returns the window's tab index within its stack.
func (w *Window) PositionInStack() int {
	for i, candidate := range w.stack.windows {
		if candidate == w {
			return i
		}
	}
	return 0
}

// AddToStack merges the child's stack into this window's stack.
func (w *Window) AddToStack(child host.Window) bool {
	childWindow, ok := child.(*Window)
	if !ok {
		return false
	}
	childWindow.DetachFromStack()
	w.stack.windows = append(w.stack.windows, childWindow)
	childWindow.stack = w.stack
	childWindow.frame = w.frame
	return true
}

// DetachFromStack removes the window from its stack.
func (w *Window) DetachFromStack() bool {
	if len(w.stack.windows) <= 1 {
		return false
	}
	for i, candidate := range w.stack.windows {
		if candidate == w {
			w.stack.windows = append(w.stack.windows[:i],
				w.stack.windows[i+1:]...)
			break
		}
	}
	w.stack = &windowStack{windows: []*Window{w}}
	return true
}

// TopStackWindow returns the top window of this window's stack.
func (w *Window) TopStackWindow() host.Window {
	return w.stack.windows[len(w.stack.windows)-1]
}

// StackedWindowCount returns the size of the stack.
func (w *Window) StackedWindowCount() int { return len(w.stack.windows) }

// ProcessDirtyRegion is a no-op: the demo host redraws every frame.
func (w *Window) ProcessDirtyRegion(dirty host.Rect) {}

// Decorator draws a one-cell border with a one-cell tab bar above the
// client area and tracks the highlight state the core requests.
type Decorator struct {
	window *Window

	highlights map[host.Region]host.Highlight
}

// BorderWidth returns the frame thickness in cells.
func (d *Decorator) BorderWidth() float64 { return config.DemoBorderWidth }

// TabHeight returns the tab bar height in cells.
func (d *Decorator) TabHeight() float64 { return config.DemoTabHeight }

// CompleteFrame returns the client frame inflated by the decoration.
func (d *Decorator) CompleteFrame() host.Rect {
	f := d.window.frame
	return host.NewRect(
		f.Left-d.BorderWidth(),
		f.Top-d.BorderWidth()-d.TabHeight()-1,
		f.Right+d.BorderWidth()+1,
		f.Bottom+d.BorderWidth())
}

// TitleBarRect returns the tab bar strip.
func (d *Decorator) TitleBarRect() host.Rect {
	complete := d.CompleteFrame()
	return host.NewRect(complete.Left, complete.Top, complete.Right,
		complete.Top+d.TabHeight())
}

const tabSlotWidth = 20.0

// TabRect returns the rectangle of one stacked tab.
func (d *Decorator) TabRect(stackPosition int) host.Rect {
	bar := d.TitleBarRect()
	left := bar.Left + float64(stackPosition)*tabSlotWidth
	right := left + tabSlotWidth
	if right > bar.Right {
		right = bar.Right
	}
	return host.NewRect(left, bar.Top, right, bar.Bottom)
}

// RegionAt hit-tests a desktop point.
func (d *Decorator) RegionAt(where host.Point) (host.Region, int) {
	if d.TitleBarRect().Contains(where) {
		for i := range d.window.stack.windows {
			if d.TabRect(i).Contains(where) {
				return host.RegionTab, i
			}
		}
		return host.RegionTab, 0
	}

	complete := d.CompleteFrame()
	if !complete.Contains(where) {
		return host.RegionNone, -1
	}
	f := d.window.frame
	left := where.X < f.Left
	right := where.X > f.Right
	top := where.Y < f.Top
	bottom := where.Y > f.Bottom
	switch {
	case left && top:
		return host.RegionLeftTopCorner, -1
	case right && top:
		return host.RegionRightTopCorner, -1
	case left && bottom:
		return host.RegionLeftBottomCorner, -1
	case right && bottom:
		return host.RegionRightBottomCorner, -1
	case left:
		return host.RegionLeftBorder, -1
	case right:
		return host.RegionRightBorder, -1
	case top:
		return host.RegionTopBorder, -1
	case bottom:
		return host.RegionBottomBorder, -1
	}
	return host.RegionNone, -1
}

// SetRegionHighlight records the requested highlight and returns the
// dirtied rectangle.
func (d *Decorator) SetRegionHighlight(region host.Region, tabIndex int,
	highlight host.Highlight) host.Rect {
	if d.highlights == nil {
		d.highlights = make(map[host.Region]host.Highlight)
	}
	d.highlights[region] = highlight
	return d.CompleteFrame()
}

// Highlighted reports whether any region currently carries the
// stack-and-tile highlight.
func (d *Decorator) Highlighted() bool {
	for _, highlight := range d.highlights {
		if highlight == host.HighlightStackAndTile {
			return true
		}
	}
	return false
}

// SizeLimits returns the decoration's own limits.
func (d *Decorator) SizeLimits() (minWidth, minHeight, maxWidth, maxHeight float64) {
	return 2 * tabSlotWidth / 4, 1, config.MaxSolverValue, config.MaxSolverValue
}
