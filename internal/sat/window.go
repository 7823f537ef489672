package sat

import (
	"math/rand/v2"
	"time"

	"github.com/czeidler/stacktile/internal/host"
)

// Window adapts one host window for stack-and-tile: it keeps the
// original size limits, knows its current area, owns the window's
// snapping behaviors, and carries the stable id used by session
// archives.
type Window struct {
	window     host.Window
	desktop    host.Desktop
	controller *Controller

	// area is the current window area; nil while the window is loose.
	area *WindowArea

	ongoingSnapping SnappingBehaviour
	stacking        *Stacking
	tiling          *Tiling
	behaviours      []SnappingBehaviour

	originalMinWidth  float64
	originalMaxWidth  float64
	originalMinHeight float64
	originalMaxHeight float64

	originalWidth  float64
	originalHeight float64

	id uint64

	oldTabLocation float64
}

// NewWindow wraps a host window.
func NewWindow(controller *Controller, window host.Window, desktop host.Desktop) *Window {
	w := &Window{
		window:     window,
		desktop:    desktop,
		controller: controller,
		id:         generateID(),
	}

	// read the initial limit values
	w.originalMinWidth, w.originalMaxWidth, w.originalMinHeight,
		w.originalMaxHeight = window.SizeLimits()
	frame := window.Frame()
	w.originalWidth = frame.Width()
	w.originalHeight = frame.Height()

	w.stacking = newStacking(w)
	w.tiling = newTiling(w)
	w.behaviours = []SnappingBehaviour{w.stacking, w.tiling}
	return w
}

func generateID() uint64 {
	usecs := uint64(time.Now().UnixMicro())
	return (usecs &^ 0xFFFF) | uint64(rand.Uint32()&0x7FFF)
}

// HostWindow returns the wrapped host window.
func (w *Window) HostWindow() host.Window { return w.window }

// Desktop returns the host desktop.
func (w *Window) Desktop() host.Desktop { return w.desktop }

// Controller returns the owning controller.
func (w *Window) Controller() *Controller { return w.controller }

// GetWindowArea returns the current area, nil while loose.
func (w *Window) GetWindowArea() *WindowArea { return w.area }

// ID returns the stable 64-bit window id.
func (w *Window) ID() uint64 { return w.id }

// GetGroup returns the window's group, creating a singleton group on
// demand. While the window is loose its singleton area's tabs are
// refreshed from the decorated frame so the group reflects reality.
func (w *Window) GetGroup() *Group {
	if w.area == nil {
		group := NewGroup()
		// AddWindow makes the window reference the new group
		if !group.AddWindow(w, nil, nil, nil, nil) {
			return nil
		}
	}

	// manually set the tabs of the single window
	if !w.PositionManagedBySAT() {
		frame := w.CompleteWindowFrame()
		w.area.LeftTopCrossing().VerticalTab().SetPosition(frame.Left)
		w.area.LeftTopCrossing().HorizontalTab().SetPosition(frame.Top)
		w.area.RightBottomCrossing().VerticalTab().SetPosition(frame.Right)
		w.area.RightBottomCrossing().HorizontalTab().SetPosition(frame.Bottom)
	}

	return w.area.Group()
}

// PropagateToGroup moves the window's area into another group.
func (w *Window) PropagateToGroup(group *Group) bool {
	if w.area == nil {
		return false
	}
	return w.area.PropagateToGroup(group)
}

// addedToGroup is the group's hook after a successful insert.
func (w *Window) addedToGroup(group *Group, area *WindowArea) bool {
	logger.Debug("window added to group", "window", w.window.Title())
	w.area = area
	return true
}

// removedFromGroup is the group's hook after a removal.
func (w *Window) removedFromGroup(group *Group, stayBelowMouse bool) {
	logger.Debug("window removed from group", "window", w.window.Title())

	w.restoreOriginalSize(stayBelowMouse)
	if group.CountItems() == 1 {
		group.WindowAt(0).restoreOriginalSize(false)
	}

	w.area = nil
}

// removedFromArea runs before the window leaves its area: the tab
// location is remembered so the cursor can stay on the tab, the native
// stack is detached, and the behaviors get to react.
func (w *Window) removedFromArea(area *WindowArea) {
	if decorator := w.window.Decorator(); decorator != nil {
		w.oldTabLocation = decorator.TabRect(w.window.PositionInStack()).Left
	}

	w.window.DetachFromStack()
	for _, behaviour := range w.behaviours {
		behaviour.RemovedFromArea(area)
	}
}

// WindowLookChanged lets the behaviors react to a look change; stacking
// ejects windows that can no longer stack.
func (w *Window) WindowLookChanged(look host.Look) {
	for _, behaviour := range w.behaviours {
		behaviour.WindowLookChanged(look)
	}
}

// StackWindow adds child on top of this window's area and merges the
// native window stacks. A host refusal rolls the insertion back.
func (w *Window) StackWindow(child *Window) bool {
	group := w.GetGroup()
	area := w.GetWindowArea()
	if group == nil || area == nil {
		return false
	}

	if !group.AddWindowToArea(child, area, w) {
		return false
	}

	w.DoGroupLayout()

	if !w.window.AddToStack(child.HostWindow()) {
		group.RemoveWindow(child, child.Controller().StayBelowMouse())
		w.DoGroupLayout()
		return false
	}

	return true
}

// FindSnappingCandidates lets each behavior scan all groups for a merge
// target for the ongoing gesture.
func (w *Window) FindSnappingCandidates() {
	w.ongoingSnapping = nil

	if w.window.Feel() != host.NormalFeel {
		return
	}

	iterator := NewGroupIterator(w.controller, w.desktop)
	for group := iterator.NextGroup(); group != nil; group = iterator.NextGroup() {
		if group.CountItems() == 1 &&
			group.WindowAt(0).HostWindow().Feel() != host.NormalFeel {
			continue
		}
		for _, behaviour := range w.behaviours {
			if behaviour.FindSnappingCandidates(group) {
				w.ongoingSnapping = behaviour
				return
			}
		}
	}
}

// JoinCandidates commits the winning behavior's candidate.
func (w *Window) JoinCandidates() bool {
	if w.ongoingSnapping == nil {
		return false
	}
	status := w.ongoingSnapping.JoinCandidates()
	w.ongoingSnapping = nil
	return status
}

// DoGroupLayout lays out the whole group from this window's area.
func (w *Window) DoGroupLayout() {
	if !w.PositionManagedBySAT() {
		return
	}

	if w.area != nil {
		w.area.DoGroupLayout()
	}
}

// AdjustSizeLimits widens the host's effective max limits so the solved
// frame is reachable.
func (w *Window) AdjustSizeLimits(targetFrame host.Rect) {
	decorator := w.window.Decorator()
	if decorator == nil {
		return
	}

	targetFrame.Right -= 2 * decorator.BorderWidth()
	targetFrame.Bottom -= 2*decorator.BorderWidth() + decorator.TabHeight() + 1

	minWidth, maxWidth, minHeight, maxHeight := w.GetSizeLimits()

	if maxWidth < targetFrame.Width() {
		maxWidth = targetFrame.Width()
	}
	if maxHeight < targetFrame.Height() {
		maxHeight = targetFrame.Height()
	}

	w.window.SetSizeLimits(minWidth, maxWidth, minHeight, maxHeight)
}

// GetSizeLimits returns the window's effective limits: the original
// limits, except that non-resizable axes are pinned to the original
// extent.
func (w *Window) GetSizeLimits() (minWidth, maxWidth, minHeight, maxHeight float64) {
	minWidth = w.originalMinWidth
	maxWidth = w.originalMaxWidth
	minHeight = w.originalMinHeight
	maxHeight = w.originalMaxHeight

	decorator := w.window.Decorator()
	if decorator == nil {
		return minWidth, maxWidth, minHeight, maxHeight
	}

	minDecorWidth, minDecorHeight, _, _ := decorator.SizeLimits()

	// if no limit is set but the window is not resizeable, the current
	// size is the limit
	if !w.IsHResizeable() && w.originalMinWidth <= minDecorWidth {
		minWidth = w.originalWidth
	}
	if !w.IsVResizeable() && w.originalMinHeight <= minDecorHeight {
		minHeight = w.originalHeight
	}

	if minWidth > maxWidth {
		maxWidth = minWidth
	}
	if minHeight > maxHeight {
		maxHeight = minHeight
	}
	return minWidth, maxWidth, minHeight, maxHeight
}

// AddDecoratorLimits inflates client size limits by the decoration.
func (w *Window) AddDecoratorLimits(minWidth, maxWidth, minHeight,
	maxHeight float64) (float64, float64, float64, float64) {
	decorator := w.window.Decorator()
	if decorator == nil {
		return minWidth, maxWidth, minHeight, maxHeight
	}

	minWidth += 2 * decorator.BorderWidth()
	minHeight += 2*decorator.BorderWidth() + decorator.TabHeight() + 1
	maxWidth += 2 * decorator.BorderWidth()
	maxHeight += 2*decorator.BorderWidth() + decorator.TabHeight() + 1
	return minWidth, maxWidth, minHeight, maxHeight
}

// AddDecoratorFrame inflates a client frame by the decoration.
func (w *Window) AddDecoratorFrame(frame host.Rect) host.Rect {
	decorator := w.window.Decorator()
	if decorator == nil {
		return frame
	}
	frame.Left -= decorator.BorderWidth()
	frame.Right += decorator.BorderWidth() + 1
	frame.Top -= decorator.BorderWidth() + decorator.TabHeight() + 1
	frame.Bottom += decorator.BorderWidth()
	return frame
}

// SetOriginalSizeLimits records new host-declared limits and re-derives
// the area constraints.
func (w *Window) SetOriginalSizeLimits(minWidth, maxWidth, minHeight,
	maxHeight float64) {
	w.originalMinWidth = minWidth
	w.originalMaxWidth = maxWidth
	w.originalMinHeight = minHeight
	w.originalMaxHeight = maxHeight

	if w.area != nil {
		w.area.UpdateSizeLimits()
	}
}

// Resized is the hook for a window resized from the outside.
func (w *Window) Resized() {
	hResizeable := w.IsHResizeable()
	vResizeable := w.IsVResizeable()
	if !hResizeable && !vResizeable {
		return
	}

	frame := w.window.Frame()
	if hResizeable {
		w.originalWidth = frame.Width()
	}
	if vResizeable {
		w.originalHeight = frame.Height()
	}

	if w.area != nil {
		w.area.UpdateSizeConstraints(w.CompleteWindowFrame())
	}
}

// IsHResizeable reports whether the width may change.
func (w *Window) IsHResizeable() bool {
	look := w.window.Look()
	if look == host.ModalLook || look == host.BorderedLook ||
		look == host.NoBorderLook {
		return false
	}
	flags := w.window.Flags()
	return flags&host.NotResizable == 0 && flags&host.NotHResizable == 0
}

// IsVResizeable reports whether the height may change.
func (w *Window) IsVResizeable() bool {
	look := w.window.Look()
	if look == host.ModalLook || look == host.BorderedLook ||
		look == host.NoBorderLook {
		return false
	}
	flags := w.window.Flags()
	return flags&host.NotResizable == 0 && flags&host.NotVResizable == 0
}

// CompleteWindowFrame returns the host frame including decoration; for
// windows not on the current workspace, the stored workspace anchor is
// used instead of the live position.
func (w *Window) CompleteWindowFrame() host.Rect {
	frame := w.window.Frame()
	if w.desktop != nil &&
		w.desktop.CurrentWorkspace() != w.window.CurrentWorkspace() {
		if anchor, ok := w.window.AnchorPosition(w.window.CurrentWorkspace()); ok {
			frame = frame.OffsetTo(anchor)
		}
	}

	return w.AddDecoratorFrame(frame)
}

// PositionManagedBySAT reports whether the window shares a group with at
// least one other window.
func (w *Window) PositionManagedBySAT() bool {
	return w.area != nil && w.area.Group().CountItems() > 1
}

// HighlightTab sets or clears the snapping highlight on the window's tab
// and its buttons.
func (w *Window) HighlightTab(active bool) bool {
	decorator := w.window.Decorator()
	if decorator == nil {
		return false
	}

	tabIndex := w.window.PositionInStack()
	highlight := host.HighlightNone
	if active {
		highlight = host.HighlightStackAndTile
	}
	dirty := decorator.SetRegionHighlight(host.RegionTab, tabIndex, highlight)
	dirty = dirty.Union(decorator.SetRegionHighlight(host.RegionCloseButton,
		tabIndex, highlight))
	dirty = dirty.Union(decorator.SetRegionHighlight(host.RegionZoomButton,
		tabIndex, highlight))

	w.window.TopStackWindow().ProcessDirtyRegion(dirty)
	return true
}

// HighlightBorders sets or clears the snapping highlight on one border
// region.
func (w *Window) HighlightBorders(region host.Region, active bool) bool {
	decorator := w.window.Decorator()
	if decorator == nil {
		return false
	}

	highlight := host.HighlightNone
	if active {
		highlight = host.HighlightStackAndTile
	}
	dirty := decorator.SetRegionHighlight(region, -1, highlight)

	w.window.ProcessDirtyRegion(dirty)
	return true
}

// Settings is the decorator-settings payload carrying the stable id.
type Settings struct {
	WindowID uint64 `json:"window_id"`
}

// SetSettings adopts an archived window id.
func (w *Window) SetSettings(settings *Settings) bool {
	if settings == nil {
		return false
	}
	w.id = settings.WindowID
	return true
}

// GetSettings exports the window's stable id.
func (w *Window) GetSettings() *Settings {
	return &Settings{WindowID: w.id}
}

// restoreOriginalSize puts the host limits and non-resizable extents
// back to their declared values; with stayBelowMouse the window is
// translated so the cursor keeps hovering the decorator element it was
// on.
func (w *Window) restoreOriginalSize(stayBelowMouse bool) {
	w.window.SetSizeLimits(w.originalMinWidth, w.originalMaxWidth,
		w.originalMinHeight, w.originalMaxHeight)
	frame := w.window.Frame()
	x, y := 0.0, 0.0
	if !w.IsHResizeable() {
		x = w.originalWidth - frame.Width()
	}
	if !w.IsVResizeable() {
		y = w.originalHeight - frame.Height()
	}
	w.desktop.ResizeWindowBy(w.window, x, y)

	if !stayBelowMouse {
		return
	}
	// verify that the window stays below the mouse
	mousePosition, _ := w.desktop.LastMouseState()
	decorator := w.window.Decorator()
	if decorator == nil {
		return
	}
	tabRect := decorator.TitleBarRect()
	if mousePosition.Y < tabRect.Bottom && mousePosition.Y > tabRect.Top &&
		mousePosition.X <= frame.Right+decorator.BorderWidth()+1 &&
		mousePosition.X >= frame.Left+decorator.BorderWidth() {
		// keep the mouse on the tab
		oldOffset := mousePosition.X - w.oldTabLocation
		deltaX := mousePosition.X - (tabRect.Left + oldOffset)
		w.desktop.MoveWindowBy(w.window, deltaX, 0)
	} else {
		// keep the mouse on the border
		deltaX, deltaY := 0.0, 0.0
		newFrame := w.window.Frame()
		if x != 0 && mousePosition.X > frame.Left &&
			mousePosition.X > newFrame.Right {
			deltaX = mousePosition.X - newFrame.Right
			if mousePosition.X > frame.Right {
				deltaX -= mousePosition.X - frame.Right
			}
		}
		if y != 0 && mousePosition.Y > frame.Top &&
			mousePosition.Y > newFrame.Bottom {
			deltaY = mousePosition.Y - newFrame.Bottom
			if mousePosition.Y > frame.Bottom {
				deltaY -= mousePosition.Y - frame.Bottom
			}
		}
		w.desktop.MoveWindowBy(w.window, deltaX, deltaY)
	}
}
