package sat

import (
	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/host"
)

// KeyEventKind classifies the host's keyboard events.
type KeyEventKind int

const (
	// KeyDown is a mapped key press.
	KeyDown KeyEventKind = iota
	// KeyUp is a mapped key release.
	KeyUp
	// UnmappedKeyDown is a press that produced no character (the
	// dedicated modifier arrives this way on some hosts).
	UnmappedKeyDown
	// UnmappedKeyUp is the matching release.
	UnmappedKeyUp
	// ModifiersChanged reports a new modifier mask.
	ModifiersChanged
)

// Key identifies the keys the controller reacts to.
type Key int32

const (
	// KeyNone is the absence of a key.
	KeyNone Key = iota
	// KeyTab cycles window tabs within a stack.
	KeyTab
	// KeyLeftArrow moves to the previous window tab.
	KeyLeftArrow
	// KeyRightArrow moves to the next window tab.
	KeyRightArrow
	// KeyUpArrow moves to the previous group.
	KeyUpArrow
	// KeyDownArrow moves to the next group.
	KeyDownArrow
	// KeyPageUp activates the backmost group.
	KeyPageUp
	// KeyPageDown activates the next group.
	KeyPageDown
	// KeyModifier is the dedicated stack-and-tile key.
	KeyModifier
)

// Modifiers is the host's modifier mask.
type Modifiers uint32

const (
	// ModShift is the shift mask bit.
	ModShift Modifiers = 1 << iota
	// ModCommand is the command mask bit.
	ModCommand
	// ModControl is the control mask bit.
	ModControl
	// ModOption is the option/alt mask bit.
	ModOption
	// ModMenu is the menu mask bit.
	ModMenu
)

const allModifiers = ModShift | ModCommand | ModControl | ModOption | ModMenu

// ModifierForName maps a configured modifier key name to its mask. The
// host uses the same mapping when it synthesizes modifier transitions.
func ModifierForName(name string) Modifiers {
	switch name {
	case "shift":
		return ModShift
	case "ctrl", "control":
		return ModControl
	case "cmd", "command":
		return ModCommand
	default:
		return ModOption
	}
}

// Controller is the session object binding the core to one desktop. It
// receives the host's listener events, tracks the dedicated modifier,
// and drives gestures from pointer-down to commit.
type Controller struct {
	desktop host.Desktop

	satKeyPressed bool

	windows map[host.Window]*Window

	// currentWindow is the window of the ongoing pointer gesture.
	currentWindow *Window

	// notifying guards group-wide broadcasts against re-entrant listener
	// storms; re-entrant notifications are dropped.
	notifying bool

	cfg *config.UserConfig
}

// NewController creates a controller for the given desktop and registers
// the already existing windows.
func NewController(desktop host.Desktop, cfg *config.UserConfig) *Controller {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Controller{
		desktop: desktop,
		windows: make(map[host.Window]*Window),
		cfg:     cfg,
	}
	for _, window := range desktop.AllWindows() {
		c.WindowAdded(window)
	}
	return c
}

// SetConfig swaps the active configuration (hot reload).
func (c *Controller) SetConfig(cfg *config.UserConfig) {
	if cfg != nil {
		c.cfg = cfg
	}
}

// SnapDistance returns the configured tiling matching distance.
func (c *Controller) SnapDistance() float64 {
	return c.cfg.Snapping.SnapDistance
}

// StayBelowMouse reports whether an evicted window should be translated
// so the cursor keeps hovering the decorator element it was on.
func (c *Controller) StayBelowMouse() bool {
	return c.cfg.Snapping.StayBelowMouse
}

// SATKeyPressed reports whether the dedicated modifier is held.
func (c *Controller) SATKeyPressed() bool { return c.satKeyPressed }

// GetWindow returns the adapter for a host window, or nil for unknown
// windows.
func (c *Controller) GetWindow(window host.Window) *Window {
	if window == nil {
		return nil
	}
	return c.windows[window]
}

// FindWindowByID returns the adapter with the given stable id, or nil.
func (c *Controller) FindWindowByID(id uint64) *Window {
	for _, window := range c.windows {
		if window.ID() == id {
			return window
		}
	}
	return nil
}

// WindowAdded registers a new host window.
func (c *Controller) WindowAdded(window host.Window) {
	if window == nil {
		return
	}
	if _, ok := c.windows[window]; ok {
		return
	}
	c.windows[window] = NewWindow(c, window, c.desktop)
}

// WindowRemoved drops a host window; its group is split if needed and a
// gesture on it is canceled.
func (c *Controller) WindowRemoved(window host.Window) {
	satWindow, ok := c.windows[window]
	if !ok {
		return
	}
	logger.Debug("window removed", "window", window.Title())

	if c.currentWindow == satWindow {
		// a lost window cancels the gesture, nothing is committed
		satWindow.ongoingSnapping = nil
		c.currentWindow = nil
	}

	if satWindow.GetWindowArea() != nil {
		satWindow.GetWindowArea().Group().RemoveWindow(satWindow, false)
	}
	delete(c.windows, window)
}

// KeyPressed tracks the dedicated modifier and implements the keyboard
// navigation. It returns true when the event was consumed.
func (c *Controller) KeyPressed(kind KeyEventKind, key Key,
	modifiers Modifiers) bool {
	satModifier := ModifierForName(c.cfg.Snapping.ModifierKey)
	if kind == ModifiersChanged ||
		(kind == UnmappedKeyDown && key == KeyModifier) ||
		(kind == UnmappedKeyUp && key == KeyModifier) {
		// switch to and from stacking and tiling mode
		wasPressed := c.satKeyPressed
		c.satKeyPressed = (kind == ModifiersChanged &&
			modifiers&allModifiers == satModifier) ||
			(kind == UnmappedKeyDown && key == KeyModifier)
		if wasPressed && !c.satKeyPressed {
			c.stopSAT()
		}
		if !wasPressed && c.satKeyPressed {
			c.startSAT()
		}
	}

	if !c.SATKeyPressed() || kind != KeyDown {
		return false
	}

	frontWindow := c.GetWindow(c.desktop.FocusWindow())
	currentGroup := c.getGroup(frontWindow)

	switch key {
	case KeyLeftArrow, KeyRightArrow, KeyTab:
		// go to the previous or next window tab in the current group
		if currentGroup == nil {
			return false
		}

		groupSize := currentGroup.CountItems()
		if groupSize <= 1 {
			return false
		}

		for i := 0; i < groupSize; i++ {
			targetWindow := currentGroup.WindowAt(i)
			if targetWindow != frontWindow {
				continue
			}
			if key == KeyLeftArrow ||
				(key == KeyTab && modifiers&ModShift != 0) {
				// previous window tab (wrap around)
				previousIndex := i - 1
				if previousIndex < 0 {
					previousIndex = groupSize - 1
				}
				targetWindow = currentGroup.WindowAt(previousIndex)
			} else {
				// next window tab (wrap around)
				nextIndex := i + 1
				if nextIndex >= groupSize {
					nextIndex = 0
				}
				targetWindow = currentGroup.WindowAt(nextIndex)
			}

			c.activateWindow(targetWindow)
			return true
		}

	case KeyUpArrow, KeyPageUp:
		// go to the previous window group
		groups := NewGroupIterator(c, c.desktop)
		groups.SetCurrentGroup(currentGroup)
		var backmostGroup *Group

		for {
			group := groups.NextGroup()
			if group == nil || group == currentGroup {
				break
			}
			if group.CountItems() < 1 {
				continue
			}

			if currentGroup == nil {
				c.activateGroup(group)
				return true
			}
			backmostGroup = group
		}
		if backmostGroup != nil && backmostGroup != currentGroup {
			c.activateGroup(backmostGroup)
			return true
		}

	case KeyDownArrow, KeyPageDown:
		// go to the next window group
		groups := NewGroupIterator(c, c.desktop)
		groups.SetCurrentGroup(currentGroup)

		for {
			group := groups.NextGroup()
			if group == nil || group == currentGroup {
				break
			}
			if group.CountItems() < 1 {
				continue
			}

			c.activateGroup(group)

			if currentGroup != nil && frontWindow != nil {
				window := frontWindow.HostWindow()
				c.desktop.SendWindowBehind(window, nil)
				c.WindowSentBehind(window, nil)
			}
			return true
		}
	}

	return false
}

// activateGroup activates a group's remembered active window, falling
// back to its first member.
func (c *Controller) activateGroup(group *Group) {
	if activeWindow := group.ActiveWindow(); activeWindow != nil {
		c.activateWindow(activeWindow)
	} else {
		c.activateWindow(group.WindowAt(0))
	}
}

// MouseDown arms or starts a gesture when the click hits a grabbable
// decorator region.
func (c *Controller) MouseDown(window host.Window, where host.Point,
	buttons int32, clicks int32) {
	satWindow := c.GetWindow(window)
	if satWindow == nil || satWindow.HostWindow().Decorator() == nil {
		return
	}

	// currentWindow survives e.g. a second button pressed mid-gesture
	if buttons&host.PrimaryMouseButton == 0 || c.currentWindow != nil {
		return
	}

	// only single clicks start a gesture
	if clicks == 2 {
		return
	}

	region, _ := satWindow.HostWindow().Decorator().RegionAt(where)
	switch region {
	case host.RegionTab, host.RegionLeftBorder, host.RegionRightBorder,
		host.RegionTopBorder, host.RegionBottomBorder,
		host.RegionLeftTopCorner, host.RegionLeftBottomCorner,
		host.RegionRightTopCorner, host.RegionRightBottomCorner:
	default:
		return
	}

	c.currentWindow = satWindow

	if !c.SATKeyPressed() {
		return
	}

	c.startSAT()
}

// MouseUp ends the gesture, committing the candidate while the modifier
// is still held.
func (c *Controller) MouseUp(window host.Window, where host.Point) {
	if c.satKeyPressed {
		c.stopSAT()
	}

	c.currentWindow = nil
}

// MouseMoved is uninteresting; candidate search runs off WindowMoved.
func (c *Controller) MouseMoved(window host.Window, where host.Point,
	buttons int32) {
}

// WindowMoved recomputes candidates during a gesture, otherwise keeps
// the group glued to the moved window.
func (c *Controller) WindowMoved(window host.Window) {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	if c.SATKeyPressed() && c.currentWindow != nil {
		satWindow.FindSnappingCandidates()
	} else {
		satWindow.DoGroupLayout()
	}
}

// WindowResized behaves like WindowMoved and also refreshes the
// remembered extent.
func (c *Controller) WindowResized(window host.Window) {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}
	satWindow.Resized()

	if c.SATKeyPressed() && c.currentWindow != nil {
		satWindow.FindSnappingCandidates()
	} else {
		satWindow.DoGroupLayout()
	}
}

// WindowActivated raises the whole group of the activated window.
func (c *Controller) WindowActivated(window host.Window) {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	c.activateWindow(satWindow)
}

// WindowSentBehind sends every other area's top window behind as well.
func (c *Controller) WindowSentBehind(window, behindOf host.Window) {
	if c.notifying {
		return
	}
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	group := satWindow.GetGroup()
	if group == nil {
		return
	}

	c.notifying = true
	defer func() { c.notifying = false }()

	for _, area := range group.AreaList() {
		topWindow := area.TopWindow()
		if topWindow == nil || topWindow == satWindow {
			continue
		}
		c.desktop.SendWindowBehind(topWindow.HostWindow(), behindOf)
	}
}

// WindowWorkspacesChanged forces the whole group onto the new workspace
// set.
func (c *Controller) WindowWorkspacesChanged(window host.Window,
	workspaces uint32) {
	if c.notifying {
		return
	}
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	group := satWindow.GetGroup()
	if group == nil {
		return
	}

	c.notifying = true
	defer func() { c.notifying = false }()

	for _, area := range group.AreaList() {
		if containsWindow(area.WindowList(), satWindow) {
			continue
		}
		topWindow := area.TopWindow()
		if topWindow == nil {
			continue
		}
		c.desktop.SetWindowWorkspaces(topWindow.HostWindow(), workspaces)
	}
}

// WindowHidden evicts a window hidden for another reason than minimize.
func (c *Controller) WindowHidden(window host.Window, fromMinimize bool) {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	group := satWindow.GetGroup()
	if group == nil {
		return
	}

	if !fromMinimize && group.CountItems() > 1 {
		group.RemoveWindow(satWindow, false)
	}
}

// WindowMinimized minimizes or restores the rest of the group.
func (c *Controller) WindowMinimized(window host.Window, minimize bool) {
	if c.notifying {
		return
	}
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	group := satWindow.GetGroup()
	if group == nil {
		return
	}

	c.notifying = true
	defer func() { c.notifying = false }()

	for i := 0; i < group.CountItems(); i++ {
		listWindow := group.WindowAt(i)
		if listWindow != satWindow {
			c.desktop.NotifyMinimize(listWindow.HostWindow(), minimize)
		}
	}
}

// WindowTabLocationChanged is uninteresting for the data model.
func (c *Controller) WindowTabLocationChanged(window host.Window,
	location float64, isShifting bool) {
}

// SizeLimitsChanged adopts the new limits and relayouts.
func (c *Controller) SizeLimitsChanged(window host.Window, minWidth, maxWidth,
	minHeight, maxHeight float64) {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}
	satWindow.SetOriginalSizeLimits(minWidth, maxWidth, minHeight, maxHeight)

	// trigger a relayout
	c.WindowMoved(window)
}

// WindowLookChanged delegates to the snapping behaviors.
func (c *Controller) WindowLookChanged(window host.Window, look host.Look) {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}
	satWindow.WindowLookChanged(look)
}

// WindowFeelChanged evicts windows whose feel is no longer compatible.
func (c *Controller) WindowFeelChanged(window host.Window, feel host.Feel) {
	if feel == host.NormalFeel {
		return
	}
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return
	}

	group := satWindow.GetGroup()
	if group == nil {
		return
	}

	if group.CountItems() > 1 {
		group.RemoveWindow(satWindow, false)
	}
}

// SetDecoratorSettings adopts the archived window id.
func (c *Controller) SetDecoratorSettings(window host.Window,
	settings *Settings) bool {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return false
	}

	return satWindow.SetSettings(settings)
}

// GetDecoratorSettings exports the window's stable id.
func (c *Controller) GetDecoratorSettings(window host.Window) *Settings {
	satWindow := c.GetWindow(window)
	if satWindow == nil {
		return nil
	}

	return satWindow.GetSettings()
}

// startSAT begins the gesture: the window leaves its group and starts
// hunting for candidates.
func (c *Controller) startSAT() {
	logger.Debug("start gesture")
	if c.currentWindow == nil {
		return
	}

	group := c.currentWindow.GetGroup()
	if group == nil {
		return
	}

	group.RemoveWindow(c.currentWindow, false)
	// bring the window to the front (focus follows mouse does not)
	c.activateWindow(c.currentWindow)

	c.currentWindow.FindSnappingCandidates()
}

// stopSAT ends the gesture and commits the winning candidate.
func (c *Controller) stopSAT() {
	logger.Debug("stop gesture")
	if c.currentWindow == nil {
		return
	}
	if c.currentWindow.JoinCandidates() {
		c.activateWindow(c.currentWindow)
	}
}

// activateWindow raises the group area by area and focuses the window,
// remembering the previous group's active member for focus restoration.
func (c *Controller) activateWindow(satWindow *Window) {
	if c.notifying || satWindow == nil {
		return
	}

	group := satWindow.GetGroup()
	if group == nil {
		return
	}

	area := satWindow.GetWindowArea()
	if area == nil {
		return
	}

	area.MoveToTopLayer(satWindow)

	// save the active window of the current group
	frontWindow := c.GetWindow(c.desktop.FocusWindow())
	currentGroup := c.getGroup(frontWindow)
	if currentGroup != nil && currentGroup != group && frontWindow != nil {
		currentGroup.SetActiveWindow(frontWindow)
	} else {
		group.SetActiveWindow(satWindow)
	}

	c.notifying = true
	defer func() { c.notifying = false }()

	for _, currentArea := range group.AreaList() {
		if currentArea == area {
			continue
		}
		topWindow := currentArea.TopWindow()
		if topWindow == nil {
			continue
		}
		c.desktop.ActivateWindow(topWindow.HostWindow())
	}

	c.desktop.ActivateWindow(satWindow.HostWindow())
}

func (c *Controller) getGroup(window *Window) *Group {
	if window == nil {
		return nil
	}
	group := window.GetGroup()
	if group == nil || group.CountItems() < 1 {
		return nil
	}
	return group
}

func containsWindow(list []*Window, window *Window) bool {
	for _, candidate := range list {
		if candidate == window {
			return true
		}
	}
	return false
}

// GroupIterator walks the distinct groups of the current workspace from
// front to back.
type GroupIterator struct {
	controller   *Controller
	windows      []host.Window
	index        int
	currentGroup *Group
}

// NewGroupIterator snapshots the current window order and rewinds to the
// front.
func NewGroupIterator(controller *Controller, desktop host.Desktop) *GroupIterator {
	iterator := &GroupIterator{
		controller: controller,
		windows:    desktop.CurrentWindows(),
	}
	iterator.RewindToFront()
	return iterator
}

// RewindToFront restarts the iteration at the frontmost window.
func (it *GroupIterator) RewindToFront() {
	it.index = len(it.windows) - 1
}

// SetCurrentGroup marks a group as already seen so NextGroup skips it.
func (it *GroupIterator) SetCurrentGroup(group *Group) {
	it.currentGroup = group
}

// NextGroup returns the next distinct group, or nil at the end.
func (it *GroupIterator) NextGroup() *Group {
	var group *Group
	for {
		if it.index < 0 {
			group = nil
			break
		}
		window := it.windows[it.index]
		it.index--
		if window.IsHidden() {
			continue
		}

		satWindow := it.controller.GetWindow(window)
		if satWindow == nil {
			continue
		}
		group = satWindow.GetGroup()
		if group != nil && group != it.currentGroup {
			break
		}
	}

	it.currentGroup = group
	return it.currentGroup
}

// WindowIterator returns a group's windows area by area, each area in
// layer order; bottommost first unless reversed.
type WindowIterator struct {
	group             *Group
	reverseLayerOrder bool

	currentArea *WindowArea
	areaIndex   int
	windowIndex int
}

// NewWindowIterator creates an iterator over the group's windows.
func NewWindowIterator(group *Group, reverseLayerOrder bool) *WindowIterator {
	iterator := &WindowIterator{
		group:             group,
		reverseLayerOrder: reverseLayerOrder,
	}
	if reverseLayerOrder {
		iterator.reverseRewind()
	} else {
		iterator.Rewind()
	}
	return iterator
}

// Rewind restarts the iteration.
func (it *WindowIterator) Rewind() {
	it.areaIndex = 0
	it.windowIndex = 0
	it.currentArea = it.areaAt(it.areaIndex)
}

// NextWindow returns the next window, or nil at the end.
func (it *WindowIterator) NextWindow() *Window {
	if it.reverseLayerOrder {
		return it.reverseNextWindow()
	}

	if it.currentArea == nil {
		return nil
	}
	if it.windowIndex == len(it.currentArea.LayerOrder()) {
		it.areaIndex++
		it.windowIndex = 0
		it.currentArea = it.areaAt(it.areaIndex)
		if it.currentArea == nil {
			return nil
		}
	}
	window := it.currentArea.LayerOrder()[it.windowIndex]
	it.windowIndex++
	return window
}

func (it *WindowIterator) reverseNextWindow() *Window {
	if it.currentArea == nil {
		return nil
	}
	if it.windowIndex < 0 {
		it.areaIndex++
		it.currentArea = it.areaAt(it.areaIndex)
		if it.currentArea == nil {
			return nil
		}
		it.windowIndex = len(it.currentArea.LayerOrder()) - 1
	}
	window := it.currentArea.LayerOrder()[it.windowIndex]
	it.windowIndex--
	return window
}

func (it *WindowIterator) reverseRewind() {
	it.Rewind()
	if it.currentArea != nil {
		it.windowIndex = len(it.currentArea.LayerOrder()) - 1
	}
}

func (it *WindowIterator) areaAt(index int) *WindowArea {
	areas := it.group.AreaList()
	if index < 0 || index >= len(areas) {
		return nil
	}
	return areas[index]
}
