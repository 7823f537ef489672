package sat

import (
	"math"
	"sort"

	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/host"
	"github.com/czeidler/stacktile/internal/solver"
)

// Group is a maximal connected set of window areas whose geometry is
// jointly maintained by one linear spec. Groups come into existence on
// demand and dissolve when their last window leaves; a removal that
// disconnects the adjacency graph splits the group into one group per
// connected component.
type Group struct {
	linearSpec *solver.LinearSpec

	areas   []*WindowArea
	windows []*Window

	horizontalTabs       []*Tab
	horizontalTabsSorted bool
	verticalTabs         []*Tab
	verticalTabsSorted   bool

	// activeWindow is remembered for focus restoration when the user
	// cycles between groups.
	activeWindow *Window

	layoutFailed bool
}

// NewGroup returns an empty group with a fresh linear spec.
func NewGroup() *Group {
	return &Group{linearSpec: solver.NewLinearSpec()}
}

// LinearSpec returns the group's solver spec.
func (g *Group) LinearSpec() *solver.LinearSpec { return g.linearSpec }

// AddWindow creates a new window area bounded by the given tabs (nil
// tabs are created) and inserts the window into it. Any failure leaves
// the group unchanged.
func (g *Group) AddWindow(window *Window, left, top, right, bottom *Tab) bool {
	// first check for tabs and crossings to reuse
	var leftTop, rightTop, leftBottom, rightBottom *Crossing
	if left != nil && top != nil {
		if leftTop = left.FindCrossing(top); leftTop != nil {
			leftTop.acquireReference()
		}
	}
	if right != nil && top != nil {
		if rightTop = right.FindCrossing(top); rightTop != nil {
			rightTop.acquireReference()
		}
	}
	if left != nil && bottom != nil {
		if leftBottom = left.FindCrossing(bottom); leftBottom != nil {
			leftBottom.acquireReference()
		}
	}
	if right != nil && bottom != nil {
		if rightBottom = right.FindCrossing(bottom); rightBottom != nil {
			rightBottom.acquireReference()
		}
	}
	defer func() {
		releaseAll(leftTop, rightTop, leftBottom, rightBottom)
	}()

	var ownedTabs []*Tab
	defer func() {
		for _, tab := range ownedTabs {
			tab.releaseReference()
		}
	}()
	if left == nil {
		if left = g.addVerticalTab(0); left == nil {
			return false
		}
		ownedTabs = append(ownedTabs, left)
	}
	if top == nil {
		if top = g.addHorizontalTab(0); top == nil {
			return false
		}
		ownedTabs = append(ownedTabs, top)
	}
	if right == nil {
		if right = g.addVerticalTab(0); right == nil {
			return false
		}
		ownedTabs = append(ownedTabs, right)
	}
	if bottom == nil {
		if bottom = g.addHorizontalTab(0); bottom == nil {
			return false
		}
		ownedTabs = append(ownedTabs, bottom)
	}

	if leftTop == nil {
		if leftTop = left.AddCrossing(top); leftTop == nil {
			return false
		}
	}
	if rightTop == nil {
		if rightTop = right.AddCrossing(top); rightTop == nil {
			return false
		}
	}
	if leftBottom == nil {
		if leftBottom = left.AddCrossing(bottom); leftBottom == nil {
			return false
		}
	}
	if rightBottom == nil {
		if rightBottom = right.AddCrossing(bottom); rightBottom == nil {
			return false
		}
	}

	area := newWindowArea(leftTop, rightTop, leftBottom, rightBottom)
	// the area registers itself in our area list
	if !area.Init(g) {
		area.releaseReference()
		return false
	}
	// drop our reference once the member window holds its own
	defer area.releaseReference()

	return g.AddWindowToArea(window, area, nil)
}

// AddWindowToArea adds a window to an existing area, after the given
// sibling when non-nil. A singleton group the window still belongs to
// (the candidate search recreates one on demand) is dissolved first.
func (g *Group) AddWindowToArea(window *Window, area *WindowArea, after *Window) bool {
	if oldArea := window.GetWindowArea(); oldArea != nil && oldArea.Group() != g {
		oldArea.Group().RemoveWindow(window, false)
	}

	if !area.addWindow(window, after) {
		return false
	}

	g.windows = append(g.windows, window)

	if !window.addedToGroup(g, area) {
		area.removeWindow(window)
		g.removeWindowFromList(window)
		return false
	}

	return true
}

// RemoveWindow removes a window from the group; the area may destroy
// itself, which in turn may split the group. If stayBelowMouse is set
// the evicted window is translated so the cursor keeps hovering the same
// decorator element.
func (g *Group) RemoveWindow(window *Window, stayBelowMouse bool) bool {
	if !g.removeWindowFromList(window) {
		return false
	}

	// The area is needed a little longer: the release below may be the
	// last one, and the split it triggers must see consistent state.
	area := window.GetWindowArea()
	if area != nil {
		area.acquireReference()
		defer area.releaseReference()
		area.removeWindow(window)
	}

	window.removedFromGroup(g, stayBelowMouse)

	if g.CountItems() >= 2 {
		g.WindowAt(0).DoGroupLayout()
	}

	return true
}

// CountItems returns the number of member windows.
func (g *Group) CountItems() int { return len(g.windows) }

// WindowAt returns the member at the given index, or nil.
func (g *Group) WindowAt(index int) *Window {
	if index < 0 || index >= len(g.windows) {
		return nil
	}
	return g.windows[index]
}

// AreaList returns the group's window areas in registration order.
func (g *Group) AreaList() []*WindowArea { return g.areas }

// ActiveWindow returns the member remembered for focus restoration.
func (g *Group) ActiveWindow() *Window { return g.activeWindow }

// SetActiveWindow remembers the member to refocus when the group is
// activated again.
func (g *Group) SetActiveWindow(window *Window) { g.activeWindow = window }

// HorizontalTabs returns the horizontal tabs sorted by position.
func (g *Group) HorizontalTabs() []*Tab {
	if !g.horizontalTabsSorted {
		sort.SliceStable(g.horizontalTabs, func(i, j int) bool {
			return compareTabs(g.horizontalTabs[i], g.horizontalTabs[j]) < 0
		})
		g.horizontalTabsSorted = true
	}
	return g.horizontalTabs
}

// VerticalTabs returns the vertical tabs sorted by position.
func (g *Group) VerticalTabs() []*Tab {
	if !g.verticalTabsSorted {
		sort.SliceStable(g.verticalTabs, func(i, j int) bool {
			return compareTabs(g.verticalTabs[i], g.verticalTabs[j]) < 0
		})
		g.verticalTabsSorted = true
	}
	return g.verticalTabs
}

// FindHorizontalTab returns the horizontal tab at the given position, or
// nil.
func (g *Group) FindHorizontalTab(position float64) *Tab {
	return findTab(g.horizontalTabs, position)
}

// FindVerticalTab returns the vertical tab at the given position, or
// nil.
func (g *Group) FindVerticalTab(position float64) *Tab {
	return findTab(g.verticalTabs, position)
}

// windowAreaRemoved runs the split check after an area died.
func (g *Group) windowAreaRemoved(area *WindowArea) {
	g.splitGroupIfNecessary(area)
}

func (g *Group) addHorizontalTab(position float64) *Tab {
	variable := g.linearSpec.AddVariable()
	if variable == nil {
		return nil
	}
	tab := newTab(g, variable, Horizontal)
	g.horizontalTabs = append(g.horizontalTabs, tab)
	g.horizontalTabsSorted = false
	tab.SetPosition(position)
	return tab
}

func (g *Group) addVerticalTab(position float64) *Tab {
	variable := g.linearSpec.AddVariable()
	if variable == nil {
		return nil
	}
	tab := newTab(g, variable, Vertical)
	g.verticalTabs = append(g.verticalTabs, tab)
	g.verticalTabsSorted = false
	tab.SetPosition(position)
	return tab
}

func (g *Group) removeHorizontalTab(tab *Tab) bool {
	for i, candidate := range g.horizontalTabs {
		if candidate == tab {
			g.horizontalTabs = append(g.horizontalTabs[:i],
				g.horizontalTabs[i+1:]...)
			g.horizontalTabsSorted = false
			return true
		}
	}
	return false
}

func (g *Group) removeVerticalTab(tab *Tab) bool {
	for i, candidate := range g.verticalTabs {
		if candidate == tab {
			g.verticalTabs = append(g.verticalTabs[:i],
				g.verticalTabs[i+1:]...)
			g.verticalTabsSorted = false
			return true
		}
	}
	return false
}

func (g *Group) removeAreaFromList(area *WindowArea) bool {
	for i, candidate := range g.areas {
		if candidate == area {
			g.areas = append(g.areas[:i], g.areas[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Group) removeWindowFromList(window *Window) bool {
	for i, candidate := range g.windows {
		if candidate == window {
			g.windows = append(g.windows[:i], g.windows[i+1:]...)
			return true
		}
	}
	return false
}

func findTab(list []*Tab, position float64) *Tab {
	for _, tab := range list {
		if math.Abs(tab.Position()-position) < config.TabPositionEpsilon {
			return tab
		}
	}
	return nil
}

// splitGroupIfNecessary splits the group into its connected components
// after the given area was removed.
func (g *Group) splitGroupIfNecessary(removedArea *WindowArea) {
	// stacked windows keep the area alive, nothing to split then
	if removedArea == nil || len(removedArea.windowList) > 1 {
		return
	}

	var neighbours []*WindowArea
	g.fillNeighbourList(&neighbours, removedArea)

	ownGroupProcessed := false
	var newGroup []*WindowArea
	for g.findConnectedGroup(&neighbours, removedArea, &newGroup) {
		logger.Debug("connected group found", "areas", len(newGroup))
		if len(newGroup) == 1 && len(newGroup[0].windowList) == 1 {
			window := newGroup[0].windowList[0]
			g.RemoveWindow(window, window.Controller().StayBelowMouse())
			g.ensureGroupIsOnScreen(window.GetGroup())
		} else if ownGroupProcessed {
			g.spawnNewGroup(newGroup)
		} else {
			g.ensureGroupIsOnScreen(g)
			ownGroupProcessed = true
		}

		newGroup = newGroup[:0]
	}
}

func (g *Group) fillNeighbourList(neighbours *[]*WindowArea, area *WindowArea) {
	g.leftNeighbours(neighbours, area)
	g.rightNeighbours(neighbours, area)
	g.topNeighbours(neighbours, area)
	g.bottomNeighbours(neighbours, area)
}

// leftNeighbours collects the areas adjacent to the parent's left edge:
// those using the shared vertical tab whose vertical extents overlap the
// parent's by more than zero.
func (g *Group) leftNeighbours(neighbours *[]*WindowArea, parent *WindowArea) {
	startPos := parent.LeftTopCrossing().HorizontalTab().Position()
	endPos := parent.LeftBottomCrossing().HorizontalTab().Position()

	tab := parent.LeftTopCrossing().VerticalTab()
	for _, crossing := range tab.Crossings() {
		corner := crossing.LeftTopCorner()
		if corner.status != CornerUsed {
			continue
		}

		area := corner.windowArea
		pos1 := area.LeftTopCrossing().HorizontalTab().Position()
		pos2 := area.LeftBottomCrossing().HorizontalTab().Position()

		if pos1 < endPos && pos2 > startPos {
			appendUnique(neighbours, area)
		}
		if pos2 > endPos {
			break
		}
	}
}

func (g *Group) topNeighbours(neighbours *[]*WindowArea, parent *WindowArea) {
	startPos := parent.LeftTopCrossing().VerticalTab().Position()
	endPos := parent.RightTopCrossing().VerticalTab().Position()

	tab := parent.LeftTopCrossing().HorizontalTab()
	for _, crossing := range tab.Crossings() {
		corner := crossing.LeftTopCorner()
		if corner.status != CornerUsed {
			continue
		}

		area := corner.windowArea
		pos1 := area.LeftTopCrossing().VerticalTab().Position()
		pos2 := area.RightTopCrossing().VerticalTab().Position()

		if pos1 < endPos && pos2 > startPos {
			appendUnique(neighbours, area)
		}
		if pos2 > endPos {
			break
		}
	}
}

func (g *Group) rightNeighbours(neighbours *[]*WindowArea, parent *WindowArea) {
	startPos := parent.RightTopCrossing().HorizontalTab().Position()
	endPos := parent.RightBottomCrossing().HorizontalTab().Position()

	tab := parent.RightTopCrossing().VerticalTab()
	for _, crossing := range tab.Crossings() {
		corner := crossing.RightTopCorner()
		if corner.status != CornerUsed {
			continue
		}

		area := corner.windowArea
		pos1 := area.RightTopCrossing().HorizontalTab().Position()
		pos2 := area.RightBottomCrossing().HorizontalTab().Position()

		if pos1 < endPos && pos2 > startPos {
			appendUnique(neighbours, area)
		}
		if pos2 > endPos {
			break
		}
	}
}

func (g *Group) bottomNeighbours(neighbours *[]*WindowArea, parent *WindowArea) {
	startPos := parent.LeftBottomCrossing().VerticalTab().Position()
	endPos := parent.RightBottomCrossing().VerticalTab().Position()

	tab := parent.LeftBottomCrossing().HorizontalTab()
	for _, crossing := range tab.Crossings() {
		corner := crossing.LeftBottomCorner()
		if corner.status != CornerUsed {
			continue
		}

		area := corner.windowArea
		pos1 := area.LeftBottomCrossing().VerticalTab().Position()
		pos2 := area.RightBottomCrossing().VerticalTab().Position()

		if pos1 < endPos && pos2 > startPos {
			appendUnique(neighbours, area)
		}
		if pos2 > endPos {
			break
		}
	}
}

func appendUnique(list *[]*WindowArea, area *WindowArea) {
	for _, candidate := range *list {
		if candidate == area {
			return
		}
	}
	*list = append(*list, area)
}

// findConnectedGroup pops a seed and floods its component into newGroup.
// It returns false once the seed list is exhausted.
func (g *Group) findConnectedGroup(seedList *[]*WindowArea,
	removedArea *WindowArea, newGroup *[]*WindowArea) bool {
	if len(*seedList) == 0 {
		return false
	}

	area := (*seedList)[0]
	*seedList = (*seedList)[1:]
	*newGroup = append(*newGroup, area)

	g.followSeed(area, removedArea, seedList, newGroup)
	return true
}

// followSeed floods from one area over the neighbour relation, never
// crossing the vetoed (removed) area.
func (g *Group) followSeed(area, veto *WindowArea, seedList,
	newGroup *[]*WindowArea) {
	var neighbours []*WindowArea
	g.fillNeighbourList(&neighbours, area)

	var fresh []*WindowArea
	for _, currentArea := range neighbours {
		if currentArea != veto && !containsArea(*newGroup, currentArea) {
			*newGroup = append(*newGroup, currentArea)
			// an area reached by the flood is no longer a seed
			removeArea(seedList, currentArea)
			fresh = append(fresh, currentArea)
		}
	}

	for _, currentArea := range fresh {
		g.followSeed(currentArea, veto, seedList, newGroup)
	}
}

func containsArea(list []*WindowArea, area *WindowArea) bool {
	for _, candidate := range list {
		if candidate == area {
			return true
		}
	}
	return false
}

func removeArea(list *[]*WindowArea, area *WindowArea) {
	for i, candidate := range *list {
		if candidate == area {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// spawnNewGroup moves a connected component into a fresh group.
func (g *Group) spawnNewGroup(areas []*WindowArea) {
	logger.Debug("spawn new group", "areas", len(areas))
	group := NewGroup()
	for _, area := range areas {
		area.PropagateToGroup(group)
	}

	g.ensureGroupIsOnScreen(group)
}

const kBigDistance = 1e10

// ensureGroupIsOnScreen translates a group back toward the screen if no
// member window still overlaps the (inset) screen rect.
func (g *Group) ensureGroupIsOnScreen(group *Group) {
	if group == nil || group.CountItems() < 1 {
		return
	}

	window := group.WindowAt(0)
	desktop := window.Desktop()
	if desktop == nil {
		return
	}

	minLeftDistance := kBigDistance
	var leftRect host.Rect
	minTopDistance := kBigDistance
	var topRect host.Rect
	minRightDistance := kBigDistance
	var rightRect host.Rect
	minBottomDistance := kBigDistance
	var bottomRect host.Rect

	screen := desktop.Screen()
	reducedScreen := screen.InsetBy(config.MinScreenOverlap,
		config.MinScreenOverlap)

	for i := 0; i < group.CountItems(); i++ {
		frame := group.WindowAt(i).CompleteWindowFrame()
		if reducedScreen.Intersects(frame) {
			return
		}

		if frame.Right < screen.Left+config.MinScreenOverlap {
			dist := math.Abs(screen.Left - frame.Right)
			if dist < minLeftDistance {
				minLeftDistance = dist
				leftRect = frame
			} else if dist == minLeftDistance {
				leftRect = leftRect.Union(frame)
			}
		}
		if frame.Top > screen.Bottom-config.MinScreenOverlap {
			dist := math.Abs(frame.Top - screen.Bottom)
			if dist < minBottomDistance {
				minBottomDistance = dist
				bottomRect = frame
			} else if dist == minBottomDistance {
				bottomRect = bottomRect.Union(frame)
			}
		}
		if frame.Left > screen.Right-config.MinScreenOverlap {
			dist := math.Abs(frame.Left - screen.Right)
			if dist < minRightDistance {
				minRightDistance = dist
				rightRect = frame
			} else if dist == minRightDistance {
				rightRect = rightRect.Union(frame)
			}
		}
		if frame.Bottom < screen.Top+config.MinScreenOverlap {
			dist := math.Abs(frame.Bottom - screen.Top)
			if dist < minTopDistance {
				minTopDistance = dist
				topRect = frame
			} else if dist == minTopDistance {
				topRect = topRect.Union(frame)
			}
		}
	}

	var offset host.Point
	if minLeftDistance < kBigDistance {
		offset.X = screen.Left - leftRect.Right + config.MoveToScreenMargin
		calculateYOffset(&offset, leftRect, screen)
	} else if minTopDistance < kBigDistance {
		offset.Y = screen.Top - topRect.Bottom + config.MoveToScreenMargin
		calculateXOffset(&offset, topRect, screen)
	} else if minRightDistance < kBigDistance {
		offset.X = screen.Right - rightRect.Left - config.MoveToScreenMargin
		calculateYOffset(&offset, rightRect, screen)
	} else if minBottomDistance < kBigDistance {
		offset.Y = screen.Bottom - bottomRect.Top - config.MoveToScreenMargin
		calculateXOffset(&offset, bottomRect, screen)
	}

	if offset.X == 0 && offset.Y == 0 {
		return
	}
	logger.Debug("move group back to screen", "dx", offset.X, "dy", offset.Y)

	desktop.MoveWindowBy(window.HostWindow(), offset.X, offset.Y)
	window.DoGroupLayout()
}

func calculateXOffset(offset *host.Point, frame, screen host.Rect) {
	if frame.Right < screen.Left+config.MinScreenOverlap {
		offset.X = screen.Left - frame.Right + config.MoveToScreenMargin
	} else if frame.Left > screen.Right-config.MinScreenOverlap {
		offset.X = screen.Right - frame.Left - config.MoveToScreenMargin
	}
}

func calculateYOffset(offset *host.Point, frame, screen host.Rect) {
	if frame.Top > screen.Bottom-config.MinScreenOverlap {
		offset.Y = screen.Bottom - frame.Top - config.MoveToScreenMargin
	} else if frame.Bottom < screen.Top+config.MinScreenOverlap {
		offset.Y = screen.Top - frame.Bottom + config.MoveToScreenMargin
	}
}
