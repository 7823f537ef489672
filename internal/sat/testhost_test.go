package sat

import (
	"github.com/czeidler/stacktile/internal/host"
)

// A scripted in-memory host. Tests drive the controller's listener hooks
// directly, the way the event thread of a real window server would.

type fakeStack struct {
	windows []*fakeWindow
}

type fakeDecorator struct {
	window      *fakeWindow
	borderWidth float64
	tabHeight   float64

	highlights map[host.Region]host.Highlight
}

func (d *fakeDecorator) BorderWidth() float64 { return d.borderWidth }
func (d *fakeDecorator) TabHeight() float64   { return d.tabHeight }

func (d *fakeDecorator) TitleBarRect() host.Rect {
	f := d.window.frame
	return host.NewRect(f.Left, f.Top-d.tabHeight-1, f.Right+1, f.Top-1)
}

func (d *fakeDecorator) TabRect(stackPosition int) host.Rect {
	bar := d.TitleBarRect()
	const tabWidth = 100.0
	left := bar.Left + float64(stackPosition)*tabWidth
	right := left + tabWidth
	if right > bar.Right {
		right = bar.Right
	}
	return host.NewRect(left, bar.Top, right, bar.Bottom)
}

func (d *fakeDecorator) RegionAt(where host.Point) (host.Region, int) {
	if d.TitleBarRect().Contains(where) {
		for i := range d.window.stack.windows {
			if d.TabRect(i).Contains(where) {
				return host.RegionTab, i
			}
		}
		return host.RegionTab, 0
	}
	f := d.window.frame
	complete := host.NewRect(f.Left-d.borderWidth, f.Top-d.borderWidth-d.tabHeight-1,
		f.Right+d.borderWidth+1, f.Bottom+d.borderWidth)
	if !complete.Contains(where) {
		return host.RegionNone, -1
	}
	switch {
	case where.X < f.Left:
		return host.RegionLeftBorder, -1
	case where.X > f.Right:
		return host.RegionRightBorder, -1
	case where.Y > f.Bottom:
		return host.RegionBottomBorder, -1
	case where.Y < f.Top:
		return host.RegionTopBorder, -1
	}
	return host.RegionNone, -1
}

func (d *fakeDecorator) SetRegionHighlight(region host.Region, tabIndex int,
	highlight host.Highlight) host.Rect {
	if d.highlights == nil {
		d.highlights = make(map[host.Region]host.Highlight)
	}
	d.highlights[region] = highlight
	return d.TitleBarRect()
}

func (d *fakeDecorator) SizeLimits() (minWidth, minHeight, maxWidth,
	maxHeight float64) {
	return 1, 1, 10000, 10000
}

type fakeWindow struct {
	desktop *fakeDesktop

	title string
	frame host.Rect
	look  host.Look
	feel  host.Feel
	flags host.Flags

	minWidth, maxWidth   float64
	minHeight, maxHeight float64

	hidden    bool
	minimized bool

	workspace  int
	workspaces uint32

	stack     *fakeStack
	decorator *fakeDecorator

	refuseStacking bool
}

func (w *fakeWindow) Title() string        { return w.title }
func (w *fakeWindow) Frame() host.Rect     { return w.frame }
func (w *fakeWindow) Look() host.Look      { return w.look }
func (w *fakeWindow) Feel() host.Feel      { return w.feel }
func (w *fakeWindow) Flags() host.Flags    { return w.flags }
func (w *fakeWindow) IsHidden() bool       { return w.hidden }
func (w *fakeWindow) CurrentWorkspace() int { return w.workspace }
func (w *fakeWindow) Workspaces() uint32   { return w.workspaces }

func (w *fakeWindow) Decorator() host.Decorator {
	if w.decorator == nil {
		return nil
	}
	return w.decorator
}

func (w *fakeWindow) SizeLimits() (minWidth, maxWidth, minHeight,
	maxHeight float64) {
	return w.minWidth, w.maxWidth, w.minHeight, w.maxHeight
}

func (w *fakeWindow) SetSizeLimits(minWidth, maxWidth, minHeight,
	maxHeight float64) {
	w.minWidth, w.maxWidth = minWidth, maxWidth
	w.minHeight, w.maxHeight = minHeight, maxHeight
}

func (w *fakeWindow) AnchorPosition(workspace int) (host.Point, bool) {
	return host.Point{}, false
}

func (w *fakeWindow) PositionInStack() int {
	for i, candidate := range w.stack.windows {
		if candidate == w {
			return i
		}
	}
	return 0
}

func (w *fakeWindow) AddToStack(child host.Window) bool {
	if w.refuseStacking {
		return false
	}
	childWindow := child.(*fakeWindow)
	childWindow.DetachFromStack()
	w.stack.windows = append(w.stack.windows, childWindow)
	childWindow.stack = w.stack
	// a native stack shares one frame
	childWindow.frame = w.frame
	return true
}

func (w *fakeWindow) DetachFromStack() bool {
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
	w.stack = &fakeStack{windows: []*fakeWindow{w}}
	return true
}

func (w *fakeWindow) TopStackWindow() host.Window {
	return w.stack.windows[len(w.stack.windows)-1]
}

func (w *fakeWindow) StackedWindowCount() int { return len(w.stack.windows) }

func (w *fakeWindow) ProcessDirtyRegion(dirty host.Rect) {}

type fakeDesktop struct {
	screen host.Rect

	// windows is kept back to front
	windows []*fakeWindow
	focus   *fakeWindow

	mouse   host.Point
	buttons int32

	workspace int
}

func newFakeDesktop(screen host.Rect) *fakeDesktop {
	return &fakeDesktop{screen: screen}
}

// addWindow creates a titled, resizable window at the front.
func (d *fakeDesktop) addWindow(title string, frame host.Rect) *fakeWindow {
	window := &fakeWindow{
		desktop:    d,
		title:      title,
		frame:      frame,
		look:       host.TitledLook,
		feel:       host.NormalFeel,
		minWidth:   10,
		maxWidth:   5000,
		minHeight:  10,
		maxHeight:  5000,
		workspaces: 1,
	}
	window.stack = &fakeStack{windows: []*fakeWindow{window}}
	window.decorator = &fakeDecorator{window: window, borderWidth: 0, tabHeight: 0}
	d.windows = append(d.windows, window)
	return window
}

func (d *fakeDesktop) Screen() host.Rect     { return d.screen }
func (d *fakeDesktop) CurrentWorkspace() int { return d.workspace }

func (d *fakeDesktop) FocusWindow() host.Window {
	if d.focus == nil {
		return nil
	}
	return d.focus
}

func (d *fakeDesktop) CurrentWindows() []host.Window {
	result := make([]host.Window, 0, len(d.windows))
	for _, window := range d.windows {
		result = append(result, window)
	}
	return result
}

func (d *fakeDesktop) AllWindows() []host.Window { return d.CurrentWindows() }

func (d *fakeDesktop) LastMouseState() (host.Point, int32) {
	return d.mouse, d.buttons
}

func (d *fakeDesktop) MoveWindowBy(w host.Window, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	window := w.(*fakeWindow)
	for _, member := range window.stack.windows {
		member.frame = member.frame.OffsetBy(dx, dy)
	}
}

func (d *fakeDesktop) ResizeWindowBy(w host.Window, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	window := w.(*fakeWindow)
	for _, member := range window.stack.windows {
		member.frame.Right += dx
		member.frame.Bottom += dy
	}
}

func (d *fakeDesktop) ActivateWindow(w host.Window) {
	window := w.(*fakeWindow)
	d.focus = window
	for i, candidate := range d.windows {
		if candidate == window {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			d.windows = append(d.windows, window)
			return
		}
	}
}

func (d *fakeDesktop) SendWindowBehind(w, behind host.Window) {
	window := w.(*fakeWindow)
	for i, candidate := range d.windows {
		if candidate == window {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			d.windows = append([]*fakeWindow{window}, d.windows...)
			return
		}
	}
}

func (d *fakeDesktop) SetWindowWorkspaces(w host.Window, workspaces uint32) {
	w.(*fakeWindow).workspaces = workspaces
}

func (d *fakeDesktop) NotifyMinimize(w host.Window, minimize bool) {
	w.(*fakeWindow).minimized = minimize
}

// pressModifier reports the dedicated modifier going down.
func pressModifier(c *Controller) {
	c.KeyPressed(ModifiersChanged, KeyNone, ModOption)
}

// releaseModifier reports the dedicated modifier going up.
func releaseModifier(c *Controller) {
	c.KeyPressed(ModifiersChanged, KeyNone, 0)
}

// dragTo moves a window's frame like a host drag and notifies the
// controller.
func dragTo(c *Controller, d *fakeDesktop, window *fakeWindow, to host.Point,
	mouse host.Point) {
	window.frame = window.frame.OffsetTo(to)
	d.mouse = mouse
	c.WindowMoved(window)
}
