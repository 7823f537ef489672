package sat

import (
	"math"

	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/host"
	"github.com/czeidler/stacktile/internal/solver"
)

// WindowArea is a rectangle bounded by four crossings, holding the stack
// of windows that share it. The area owns the solver constraints tying
// the rectangle's extent to its members' size limits and preferences.
//
// Areas are reference counted; every member window holds one reference,
// so removing the last window tears the area down, which in turn may
// split the group.
type WindowArea struct {
	group *Group

	// windowList is the user-visible tab order, windowLayerOrder the
	// back-to-front order (last item on top).
	windowList       []*Window
	windowLayerOrder []*Window

	leftTopCrossing     *Crossing
	rightTopCrossing    *Crossing
	leftBottomCrossing  *Crossing
	rightBottomCrossing *Crossing

	minWidthConstraint  *solver.Constraint
	minHeightConstraint *solver.Constraint
	maxWidthConstraint  *solver.Constraint
	maxHeightConstraint *solver.Constraint
	widthConstraint     *solver.Constraint
	heightConstraint    *solver.Constraint

	refs int
}

// newWindowArea creates an area over the four crossings and takes a
// reference on each. The caller owns the returned reference.
func newWindowArea(leftTop, rightTop, leftBottom, rightBottom *Crossing) *WindowArea {
	area := &WindowArea{
		leftTopCrossing:     leftTop,
		rightTopCrossing:    rightTop,
		leftBottomCrossing:  leftBottom,
		rightBottomCrossing: rightBottom,
		refs:                1,
	}
	leftTop.acquireReference()
	rightTop.acquireReference()
	leftBottom.acquireReference()
	rightBottom.acquireReference()
	return area
}

func (a *WindowArea) acquireReference() { a.refs++ }

func (a *WindowArea) releaseReference() {
	a.refs--
	if a.refs > 0 {
		return
	}

	// The split must run while the corner bookkeeping is still intact;
	// it reads the removed area's neighbours.
	if a.group != nil {
		a.group.windowAreaRemoved(a)
	}

	a.cleanupCorners()
	if a.group != nil {
		a.group.removeAreaFromList(a)
	}
	a.uninitConstraints()

	a.leftTopCrossing.releaseReference()
	a.rightTopCrossing.releaseReference()
	a.leftBottomCrossing.releaseReference()
	a.rightBottomCrossing.releaseReference()
}

// Init registers the area with a group and installs its six size
// constraints in the group's solver. A failed Init leaves the group
// unchanged.
func (a *WindowArea) Init(group *Group) bool {
	a.uninitConstraints()

	if group == nil {
		return false
	}
	group.areas = append(group.areas, a)
	a.group = group

	spec := group.linearSpec

	a.minWidthConstraint = spec.AddConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.RightVar()}, {Coeff: -1, Var: a.LeftVar()}},
		solver.GE, 0)
	a.minHeightConstraint = spec.AddConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.BottomVar()}, {Coeff: -1, Var: a.TopVar()}},
		solver.GE, 0)

	a.maxWidthConstraint = spec.AddSoftConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.RightVar()}, {Coeff: -1, Var: a.LeftVar()}},
		solver.LE, 0, config.InequalityPenalty, config.InequalityPenalty)
	a.maxHeightConstraint = spec.AddSoftConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.BottomVar()}, {Coeff: -1, Var: a.TopVar()}},
		solver.LE, 0, config.InequalityPenalty, config.InequalityPenalty)

	// width and height are soft preferences
	a.widthConstraint = spec.AddSoftConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.RightVar()}, {Coeff: -1, Var: a.LeftVar()}},
		solver.EQ, 0, config.ExtentPenalty, config.ExtentPenalty)
	a.heightConstraint = spec.AddSoftConstraint(
		[]solver.Summand{{Coeff: -1, Var: a.TopVar()}, {Coeff: 1, Var: a.BottomVar()}},
		solver.EQ, 0, config.ExtentPenalty, config.ExtentPenalty)

	if a.minWidthConstraint == nil || a.minHeightConstraint == nil ||
		a.maxWidthConstraint == nil || a.maxHeightConstraint == nil ||
		a.widthConstraint == nil || a.heightConstraint == nil {
		a.uninitConstraints()
		a.group.removeAreaFromList(a)
		a.group = nil
		return false
	}
	return true
}

// Group returns the owning group.
func (a *WindowArea) Group() *Group { return a.group }

// WindowList returns the members in tab order.
func (a *WindowArea) WindowList() []*Window { return a.windowList }

// LayerOrder returns the members back to front.
func (a *WindowArea) LayerOrder() []*Window { return a.windowLayerOrder }

// TopWindow returns the frontmost member, or nil.
func (a *WindowArea) TopWindow() *Window {
	if len(a.windowLayerOrder) == 0 {
		return nil
	}
	return a.windowLayerOrder[len(a.windowLayerOrder)-1]
}

// MoveWindowToPosition reorders a member within the tab order without
// touching geometry.
func (a *WindowArea) MoveWindowToPosition(window *Window, index int) bool {
	if index < 0 || index >= len(a.windowList) {
		return false
	}
	oldIndex := -1
	for i, candidate := range a.windowList {
		if candidate == window {
			oldIndex = i
			break
		}
	}
	if oldIndex < 0 || oldIndex == index {
		return false
	}
	a.windowList = append(a.windowList[:oldIndex], a.windowList[oldIndex+1:]...)
	a.windowList = append(a.windowList[:index],
		append([]*Window{window}, a.windowList[index:]...)...)
	return true
}

// MoveToTopLayer raises a member to the front of the layer order.
func (a *WindowArea) MoveToTopLayer(window *Window) bool {
	for i, candidate := range a.windowLayerOrder {
		if candidate == window {
			a.windowLayerOrder = append(a.windowLayerOrder[:i],
				a.windowLayerOrder[i+1:]...)
			a.windowLayerOrder = append(a.windowLayerOrder, window)
			return true
		}
	}
	return false
}

// DoGroupLayout anchors this area to its oldest member's on-screen
// position, solves the group, and moves every area's top window to the
// solved geometry.
func (a *WindowArea) DoGroupLayout() {
	if len(a.windowLayerOrder) == 0 {
		return
	}
	parentWindow := a.windowLayerOrder[0]

	frame := parentWindow.CompleteWindowFrame()
	// also works for solvers which don't support negative variables
	frame = frame.OffsetBy(config.MakePositiveOffset, config.MakePositiveOffset)

	// adjust window size soft constraints
	a.widthConstraint.SetRightSide(frame.Width())
	a.heightConstraint.SetRightSide(frame.Height())

	spec := a.group.linearSpec
	leftConstraint := spec.AddConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.LeftVar()}}, solver.EQ, frame.Left)
	topConstraint := spec.AddConstraint(
		[]solver.Summand{{Coeff: 1, Var: a.TopVar()}}, solver.EQ, frame.Top)

	// give the dragged area's soft constraints a high penalty
	a.widthConstraint.SetPenaltyNeg(config.HighPenalty)
	a.widthConstraint.SetPenaltyPos(config.HighPenalty)
	a.heightConstraint.SetPenaltyNeg(config.HighPenalty)
	a.heightConstraint.SetPenaltyPos(config.HighPenalty)

	for tries := 0; tries < config.MaxSolveTries; tries++ {
		result := spec.Solve()
		if result == solver.Infeasible {
			if !a.group.layoutFailed {
				a.group.layoutFailed = true
				logger.Warn("can't solve group constraints", "windows",
					len(a.group.windows))
			}
			break
		}
		if result == solver.Optimal {
			a.group.layoutFailed = false
			for _, area := range a.group.areas {
				area.moveToSAT(parentWindow)
			}
			break
		}
	}

	// set penalties back to normal
	a.widthConstraint.SetPenaltyNeg(config.ExtentPenalty)
	a.widthConstraint.SetPenaltyPos(config.ExtentPenalty)
	a.heightConstraint.SetPenaltyNeg(config.ExtentPenalty)
	a.heightConstraint.SetPenaltyPos(config.ExtentPenalty)

	spec.RemoveConstraint(leftConstraint)
	spec.RemoveConstraint(topConstraint)
}

// UpdateSizeLimits re-derives the min/max constraints after a member's
// size limits changed.
func (a *WindowArea) UpdateSizeLimits() {
	a.updateConstraintValues()
}

// UpdateSizeConstraints remembers the given frame extent as the area's
// preferred size, without solving.
func (a *WindowArea) UpdateSizeConstraints(frame host.Rect) {
	a.widthConstraint.SetRightSide(frame.Width())
	a.heightConstraint.SetRightSide(frame.Height())
}

// LeftTopCrossing returns the upper-left bounding crossing.
func (a *WindowArea) LeftTopCrossing() *Crossing { return a.leftTopCrossing }

// RightTopCrossing returns the upper-right bounding crossing.
func (a *WindowArea) RightTopCrossing() *Crossing { return a.rightTopCrossing }

// LeftBottomCrossing returns the lower-left bounding crossing.
func (a *WindowArea) LeftBottomCrossing() *Crossing { return a.leftBottomCrossing }

// RightBottomCrossing returns the lower-right bounding crossing.
func (a *WindowArea) RightBottomCrossing() *Crossing { return a.rightBottomCrossing }

// LeftTab returns the area's left edge tab.
func (a *WindowArea) LeftTab() *Tab { return a.leftTopCrossing.VerticalTab() }

// RightTab returns the area's right edge tab.
func (a *WindowArea) RightTab() *Tab { return a.rightBottomCrossing.VerticalTab() }

// TopTab returns the area's top edge tab.
func (a *WindowArea) TopTab() *Tab { return a.leftTopCrossing.HorizontalTab() }

// BottomTab returns the area's bottom edge tab.
func (a *WindowArea) BottomTab() *Tab { return a.rightBottomCrossing.HorizontalTab() }

// LeftVar returns the solver variable of the left tab.
func (a *WindowArea) LeftVar() *solver.Variable { return a.LeftTab().Variable() }

// RightVar returns the solver variable of the right tab.
func (a *WindowArea) RightVar() *solver.Variable { return a.RightTab().Variable() }

// TopVar returns the solver variable of the top tab.
func (a *WindowArea) TopVar() *solver.Variable { return a.TopTab().Variable() }

// BottomVar returns the solver variable of the bottom tab.
func (a *WindowArea) BottomVar() *solver.Variable { return a.BottomTab().Variable() }

// Frame returns the area rectangle in world coordinates.
func (a *WindowArea) Frame() host.Rect {
	return host.NewRect(
		a.leftTopCrossing.VerticalTab().Position(),
		a.leftTopCrossing.HorizontalTab().Position(),
		a.rightBottomCrossing.VerticalTab().Position(),
		a.rightBottomCrossing.HorizontalTab().Position())
}

// PropagateToGroup moves the area and its windows into another group,
// finding or creating matching tabs and crossings there. On failure the
// area is left in its original group.
func (a *WindowArea) PropagateToGroup(group *Group) bool {
	newLeftTop := a.crossingByPosition(a.leftTopCrossing, group)
	newRightTop := a.crossingByPosition(a.rightTopCrossing, group)
	newLeftBottom := a.crossingByPosition(a.leftBottomCrossing, group)
	newRightBottom := a.crossingByPosition(a.rightBottomCrossing, group)

	if newLeftTop == nil || newRightTop == nil || newLeftBottom == nil ||
		newRightBottom == nil {
		releaseAll(newLeftTop, newRightTop, newLeftBottom, newRightBottom)
		return false
	}

	// the old crossings stay alive until the transfer cannot fail anymore
	oldLeftTop := a.leftTopCrossing
	oldRightTop := a.rightTopCrossing
	oldLeftBottom := a.leftBottomCrossing
	oldRightBottom := a.rightBottomCrossing

	a.leftTopCrossing = newLeftTop
	a.rightTopCrossing = newRightTop
	a.leftBottomCrossing = newLeftBottom
	a.rightBottomCrossing = newRightBottom

	a.initCorners()

	oldGroup := a.group
	if !a.Init(group) {
		// roll everything back into the original group
		a.leftTopCrossing = oldLeftTop
		a.rightTopCrossing = oldRightTop
		a.leftBottomCrossing = oldLeftBottom
		a.rightBottomCrossing = oldRightBottom
		a.initCorners()
		oldGroup.removeAreaFromList(a)
		a.Init(oldGroup)
		releaseAll(newLeftTop, newRightTop, newLeftBottom, newRightBottom)
		return false
	}

	oldGroup.removeAreaFromList(a)
	for _, window := range a.windowList {
		oldGroup.removeWindowFromList(window)
		group.windows = append(group.windows, window)
		window.area = a
	}

	a.updateConstraintValues()

	releaseAll(oldLeftTop, oldRightTop, oldLeftBottom, oldRightBottom)
	return true
}

func releaseAll(crossings ...*Crossing) {
	for _, crossing := range crossings {
		if crossing != nil {
			crossing.releaseReference()
		}
	}
}

// crossingByPosition finds or creates the crossing in the destination
// group matching the given crossing's tab positions. The caller owns the
// returned reference.
func (a *WindowArea) crossingByPosition(crossing *Crossing, group *Group) *Crossing {
	oldHTab := crossing.HorizontalTab()
	hTab := group.FindHorizontalTab(oldHTab.Position())
	if hTab != nil {
		hTab.acquireReference()
	} else {
		hTab = group.addHorizontalTab(oldHTab.Position())
	}
	if hTab == nil {
		return nil
	}
	defer hTab.releaseReference()

	oldVTab := crossing.VerticalTab()
	if found := hTab.FindCrossingAt(oldVTab.Position()); found != nil {
		found.acquireReference()
		return found
	}

	vTab := group.FindVerticalTab(oldVTab.Position())
	if vTab != nil {
		vTab.acquireReference()
	} else {
		vTab = group.addVerticalTab(oldVTab.Position())
	}
	if vTab == nil {
		return nil
	}
	defer vTab.releaseReference()

	return hTab.AddCrossing(vTab)
}

// addWindow inserts a window into the area. Only the group calls this.
func (a *WindowArea) addWindow(window *Window, after *Window) bool {
	if after != nil {
		index := -1
		for i, candidate := range a.windowList {
			if candidate == after {
				index = i
				break
			}
		}
		if index < 0 {
			return false
		}
		a.windowList = append(a.windowList[:index+1],
			append([]*Window{window}, a.windowList[index+1:]...)...)
	} else {
		a.windowList = append(a.windowList, window)
	}

	a.acquireReference()

	if len(a.windowList) <= 1 {
		a.initCorners()
	}

	a.windowLayerOrder = append(a.windowLayerOrder, window)

	a.updateConstraintValues()
	return true
}

// removeWindow removes a member; the last removal destroys the area.
// Only the group calls this.
func (a *WindowArea) removeWindow(window *Window) bool {
	index := -1
	for i, candidate := range a.windowList {
		if candidate == window {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}
	a.windowList = append(a.windowList[:index], a.windowList[index+1:]...)

	for i, candidate := range a.windowLayerOrder {
		if candidate == window {
			a.windowLayerOrder = append(a.windowLayerOrder[:i],
				a.windowLayerOrder[i+1:]...)
			break
		}
	}
	a.updateConstraintValues()

	window.removedFromArea(a)
	a.releaseReference()
	return true
}

// updateConstraintValues re-derives min/max/preferred right sides from
// the members.
func (a *WindowArea) updateConstraintValues() {
	topWindow := a.TopWindow()
	if topWindow == nil {
		return
	}

	// tightest intersection of the members' limits
	minWidth, maxWidth, minHeight, maxHeight := a.windowList[0].GetSizeLimits()
	for _, window := range a.windowList[1:] {
		minW, maxW, minH, maxH := window.GetSizeLimits()
		minWidth = math.Max(minWidth, minW)
		minHeight = math.Max(minHeight, minH)
		maxWidth = math.Min(maxWidth, maxW)
		maxHeight = math.Min(maxHeight, maxH)
	}
	// the solver dislikes big values
	minWidth = math.Min(minWidth, config.MaxSolverValue)
	minHeight = math.Min(minHeight, config.MaxSolverValue)
	maxWidth = math.Min(maxWidth, config.MaxSolverValue)
	maxHeight = math.Min(maxHeight, config.MaxSolverValue)
	if minWidth > maxWidth {
		maxWidth = minWidth
	}
	if minHeight > maxHeight {
		maxHeight = minHeight
	}

	minWidth, maxWidth, minHeight, maxHeight = topWindow.AddDecoratorLimits(
		minWidth, maxWidth, minHeight, maxHeight)
	a.minWidthConstraint.SetRightSide(minWidth)
	a.minHeightConstraint.SetRightSide(minHeight)
	a.maxWidthConstraint.SetRightSide(maxWidth)
	a.maxHeightConstraint.SetRightSide(maxHeight)

	frame := topWindow.CompleteWindowFrame()
	a.widthConstraint.SetRightSide(frame.Width())
	a.heightConstraint.SetRightSide(frame.Height())
}

func (a *WindowArea) uninitConstraints() {
	if a.group != nil {
		spec := a.group.linearSpec
		spec.RemoveConstraint(a.minWidthConstraint)
		spec.RemoveConstraint(a.minHeightConstraint)
		spec.RemoveConstraint(a.maxWidthConstraint)
		spec.RemoveConstraint(a.maxHeightConstraint)
		spec.RemoveConstraint(a.widthConstraint)
		spec.RemoveConstraint(a.heightConstraint)
	}

	a.minWidthConstraint = nil
	a.minHeightConstraint = nil
	a.maxWidthConstraint = nil
	a.maxHeightConstraint = nil
	a.widthConstraint = nil
	a.heightConstraint = nil
}

// initCorners marks the area's four inner corners used and refreshes the
// dockability of their neighbours.
func (a *WindowArea) initCorners() {
	a.setToWindowCorner(a.leftTopCrossing.RightBottomCorner())
	a.setToNeighbourCorner(a.leftTopCrossing.LeftBottomCorner())
	a.setToNeighbourCorner(a.leftTopCrossing.RightTopCorner())

	a.setToWindowCorner(a.rightTopCrossing.LeftBottomCorner())
	a.setToNeighbourCorner(a.rightTopCrossing.LeftTopCorner())
	a.setToNeighbourCorner(a.rightTopCrossing.RightBottomCorner())

	a.setToWindowCorner(a.leftBottomCrossing.RightTopCorner())
	a.setToNeighbourCorner(a.leftBottomCrossing.LeftTopCorner())
	a.setToNeighbourCorner(a.leftBottomCrossing.RightBottomCorner())

	a.setToWindowCorner(a.rightBottomCrossing.LeftTopCorner())
	a.setToNeighbourCorner(a.rightBottomCrossing.LeftBottomCorner())
	a.setToNeighbourCorner(a.rightBottomCrossing.RightTopCorner())
}

// cleanupCorners is the inverse of initCorners; a neighbour corner drops
// back to not-dockable only if it is still free and its diagonal
// opponent is unused.
func (a *WindowArea) cleanupCorners() {
	a.unsetWindowCorner(a.leftTopCrossing.RightBottomCorner())
	a.unsetNeighbourCorner(a.leftTopCrossing.LeftBottomCorner(),
		a.leftBottomCrossing.LeftTopCorner())
	a.unsetNeighbourCorner(a.leftTopCrossing.RightTopCorner(),
		a.leftBottomCrossing.LeftTopCorner())

	a.unsetWindowCorner(a.rightTopCrossing.LeftBottomCorner())
	a.unsetNeighbourCorner(a.rightTopCrossing.LeftTopCorner(),
		a.leftBottomCrossing.RightTopCorner())
	a.unsetNeighbourCorner(a.rightTopCrossing.RightBottomCorner(),
		a.leftBottomCrossing.RightTopCorner())

	a.unsetWindowCorner(a.leftBottomCrossing.RightTopCorner())
	a.unsetNeighbourCorner(a.leftBottomCrossing.LeftTopCorner(),
		a.leftBottomCrossing.LeftBottomCorner())
	a.unsetNeighbourCorner(a.leftBottomCrossing.RightBottomCorner(),
		a.leftBottomCrossing.LeftBottomCorner())

	a.unsetWindowCorner(a.rightBottomCrossing.LeftTopCorner())
	a.unsetNeighbourCorner(a.rightBottomCrossing.LeftBottomCorner(),
		a.rightBottomCrossing.RightBottomCorner())
	a.unsetNeighbourCorner(a.rightBottomCrossing.RightTopCorner(),
		a.rightBottomCrossing.RightBottomCorner())
}

func (a *WindowArea) setToWindowCorner(corner *Corner) {
	corner.status = CornerUsed
	corner.windowArea = a
}

func (a *WindowArea) setToNeighbourCorner(neighbour *Corner) {
	if neighbour.status == CornerNotDockable {
		neighbour.status = CornerFree
	}
}

func (a *WindowArea) unsetWindowCorner(corner *Corner) {
	corner.status = CornerFree
	corner.windowArea = nil
}

// opponent is the other neighbour of the neighbour
func (a *WindowArea) unsetNeighbourCorner(neighbour, opponent *Corner) {
	if neighbour.status == CornerFree && opponent.status != CornerUsed {
		neighbour.status = CornerNotDockable
	}
}

// moveToSAT moves the area's top window to the solved rectangle through
// the host.
func (a *WindowArea) moveToSAT(triggerWindow *Window) {
	topWindow := a.TopWindow()
	// if there is no window in the area we are done
	if topWindow == nil {
		return
	}

	frameSAT := host.NewRect(
		a.LeftVar().Value()-config.MakePositiveOffset,
		a.TopVar().Value()-config.MakePositiveOffset,
		a.RightVar().Value()-config.MakePositiveOffset,
		a.BottomVar().Value()-config.MakePositiveOffset)
	topWindow.AdjustSizeLimits(frameSAT)

	frame := topWindow.CompleteWindowFrame()
	deltaToX := math.Round(frameSAT.Left - frame.Left)
	deltaToY := math.Round(frameSAT.Top - frame.Top)
	frame = frame.OffsetBy(deltaToX, deltaToY)
	deltaByX := math.Round(frameSAT.Right - frame.Right)
	deltaByY := math.Round(frameSAT.Bottom - frame.Bottom)

	desktop := triggerWindow.Desktop()
	desktop.MoveWindowBy(topWindow.HostWindow(), deltaToX, deltaToY)
	// the move brought the frame up to date, now adjust the size
	desktop.ResizeWindowBy(topWindow.HostWindow(), deltaByX, deltaByY)

	a.UpdateSizeConstraints(frameSAT)
}
