package sat

import (
	"math"

	"github.com/czeidler/stacktile/internal/host"
)

const (
	// kBigAreaError dominates any real fit error so unusable candidates
	// never win.
	kBigAreaError = 1e17

	// kEndTabError is charged per edge that had to extend to infinity.
	kEndTabError = 9999999.0

	// kBigValue bounds open free-area edges; big, but small enough to
	// add and subtract matching distances without losing precision.
	kBigValue = 9999999.0
)

// Tiling snaps the dragged window next to an existing group: it looks
// for a free rectangle between the group's tabs whose corner geometry
// matches the window's nearby edges, scores all candidates by fit, and
// commits the best one as a new window area.
type Tiling struct {
	window *Window

	freeAreaGroup  *Group
	freeAreaLeft   *Tab
	freeAreaRight  *Tab
	freeAreaTop    *Tab
	freeAreaBottom *Tab
}

func newTiling(window *Window) *Tiling {
	return &Tiling{window: window}
}

// FindSnappingCandidates searches the group for the best matching free
// area next to the dragged window.
func (t *Tiling) FindSnappingCandidates(group *Group) bool {
	t.resetSearchResults()

	if t.window.GetGroup() == group {
		return false
	}

	if t.findFreeAreaInGroup(group) {
		t.freeAreaGroup = group
		t.highlightWindows(t.freeAreaGroup, true)
		return true
	}

	return false
}

// JoinCandidates inserts the dragged window into the found free area.
func (t *Tiling) JoinCandidates() bool {
	if t.freeAreaGroup == nil {
		return false
	}

	if !t.freeAreaGroup.AddWindow(t.window, t.freeAreaLeft, t.freeAreaTop,
		t.freeAreaRight, t.freeAreaBottom) {
		t.resetSearchResults()
		return false
	}

	t.freeAreaGroup.WindowAt(0).DoGroupLayout()

	t.resetSearchResults()
	return true
}

// RemovedFromArea is not interesting for tiling.
func (t *Tiling) RemovedFromArea(area *WindowArea) {}

// WindowLookChanged is not interesting for tiling.
func (t *Tiling) WindowLookChanged(look host.Look) {}

func (t *Tiling) matchingDistance() float64 {
	return t.window.Controller().SnapDistance()
}

func (t *Tiling) findFreeAreaInGroup(group *Group) bool {
	if t.findFreeAreaInGroupAt(group, LeftTop) {
		return true
	}
	if t.findFreeAreaInGroupAt(group, RightTop) {
		return true
	}
	if t.findFreeAreaInGroupAt(group, LeftBottom) {
		return true
	}
	if t.findFreeAreaInGroupAt(group, RightBottom) {
		return true
	}

	return false
}

func (t *Tiling) findFreeAreaInGroupAt(group *Group, corner CornerPosition) bool {
	windowFrame := t.window.CompleteWindowFrame()

	for _, tab := range group.VerticalTabs() {
		for _, crossing := range tab.Crossings() {
			if !t.interestingCrossing(crossing, corner, windowFrame) {
				continue
			}
			if t.findFreeArea(group, crossing, corner, windowFrame) {
				logger.Debug("free area found", "corner", corner)
				return true
			}
		}
	}

	return false
}

// interestingCrossing checks whether the crossing could anchor the
// dragged window's given corner: the diagonal corner is free, a
// neighbour corner is in use, and the window's matching edges are within
// snapping distance of the tabs.
func (t *Tiling) interestingCrossing(crossing *Crossing,
	corner CornerPosition, windowFrame host.Rect) bool {
	if crossing.GetOppositeCorner(corner).Status() != CornerFree {
		return false
	}

	maxMatchingDistance := t.matchingDistance()

	hTabPosition := crossing.HorizontalTab().Position()
	vTabPosition := crossing.VerticalTab().Position()
	var hBorder, vBorder float64
	vDistance, hDistance := -1.0, -1.0
	windowAtH, windowAtV := false, false
	switch corner {
	case LeftTop:
		if crossing.RightBottomCorner().Status() == CornerUsed {
			return false
		}
		vBorder = windowFrame.Left
		hBorder = windowFrame.Top
		if crossing.LeftBottomCorner().Status() == CornerUsed {
			windowAtV = true
		}
		if crossing.RightTopCorner().Status() == CornerUsed {
			windowAtH = true
		}
		vDistance = vTabPosition - vBorder
		hDistance = hTabPosition - hBorder
	case RightTop:
		if crossing.LeftBottomCorner().Status() == CornerUsed {
			return false
		}
		vBorder = windowFrame.Right
		hBorder = windowFrame.Top
		if crossing.RightBottomCorner().Status() == CornerUsed {
			windowAtV = true
		}
		if crossing.LeftTopCorner().Status() == CornerUsed {
			windowAtH = true
		}
		vDistance = vBorder - vTabPosition
		hDistance = hTabPosition - hBorder
	case LeftBottom:
		if crossing.RightTopCorner().Status() == CornerUsed {
			return false
		}
		vBorder = windowFrame.Left
		hBorder = windowFrame.Bottom
		if crossing.LeftTopCorner().Status() == CornerUsed {
			windowAtV = true
		}
		if crossing.RightBottomCorner().Status() == CornerUsed {
			windowAtH = true
		}
		vDistance = vTabPosition - vBorder
		hDistance = hBorder - hTabPosition
	case RightBottom:
		if crossing.LeftTopCorner().Status() == CornerUsed {
			return false
		}
		vBorder = windowFrame.Right
		hBorder = windowFrame.Bottom
		if crossing.RightTopCorner().Status() == CornerUsed {
			windowAtV = true
		}
		if crossing.LeftBottomCorner().Status() == CornerUsed {
			windowAtH = true
		}
		vDistance = vBorder - vTabPosition
		hDistance = hBorder - hTabPosition
	}

	hValid := windowAtH && math.Abs(hDistance) < maxMatchingDistance &&
		vDistance < maxMatchingDistance
	vValid := windowAtV && math.Abs(vDistance) < maxMatchingDistance &&
		hDistance < maxMatchingDistance
	return hValid || vValid
}

// findFreeArea searches outward from the anchor crossing for the best
// fitting free rectangle. The search walks the two orthogonal sorted tab
// lists, one quadrant at a time, and keeps the minimum-error candidate.
func (t *Tiling) findFreeArea(group *Group, crossing *Crossing,
	corner CornerPosition, windowFrame host.Rect) bool {
	t.freeAreaLeft, t.freeAreaRight = nil, nil
	t.freeAreaTop, t.freeAreaBottom = nil, nil

	hTabs := group.HorizontalTabs()
	vTabs := group.VerticalTabs()
	hIndex := indexOfTab(hTabs, crossing.HorizontalTab())
	if hIndex < 0 {
		return false
	}
	vIndex := indexOfTab(vTabs, crossing.VerticalTab())
	if vIndex < 0 {
		return false
	}

	var endHTab, endVTab **Tab
	vSearchDirection, hSearchDirection := 1, 1
	switch corner {
	case LeftTop:
		t.freeAreaLeft = crossing.VerticalTab()
		t.freeAreaTop = crossing.HorizontalTab()
		endHTab = &t.freeAreaBottom
		endVTab = &t.freeAreaRight
		vSearchDirection = 1
		hSearchDirection = 1
	case RightTop:
		t.freeAreaRight = crossing.VerticalTab()
		t.freeAreaTop = crossing.HorizontalTab()
		endHTab = &t.freeAreaBottom
		endVTab = &t.freeAreaLeft
		vSearchDirection = -1
		hSearchDirection = 1
	case LeftBottom:
		t.freeAreaLeft = crossing.VerticalTab()
		t.freeAreaBottom = crossing.HorizontalTab()
		endHTab = &t.freeAreaTop
		endVTab = &t.freeAreaRight
		vSearchDirection = 1
		hSearchDirection = -1
	case RightBottom:
		t.freeAreaRight = crossing.VerticalTab()
		t.freeAreaBottom = crossing.HorizontalTab()
		endHTab = &t.freeAreaTop
		endVTab = &t.freeAreaLeft
		vSearchDirection = -1
		hSearchDirection = -1
	}

	var bestLeftTab, bestRightTab, bestTopTab, bestBottomTab *Tab
	bestError := kBigAreaError
	stop := false
	found := false
	v := vIndex
	for {
		v += vSearchDirection
		*endVTab = tabAt(vTabs, v)
		h := hIndex
		for {
			h += hSearchDirection
			*endHTab = tabAt(hTabs, h)
			areaError, ok := t.checkArea(group, corner, windowFrame)
			if !ok {
				if h == hIndex+hSearchDirection {
					stop = true
				}
				break
			}
			found = true
			if areaError < bestError {
				bestError = areaError
				bestLeftTab = t.freeAreaLeft
				bestRightTab = t.freeAreaRight
				bestTopTab = t.freeAreaTop
				bestBottomTab = t.freeAreaBottom
			}
			if *endHTab == nil {
				break
			}
		}
		if stop || *endVTab == nil {
			break
		}
	}
	if !found {
		return false
	}

	t.freeAreaLeft = bestLeftTab
	t.freeAreaRight = bestRightTab
	t.freeAreaTop = bestTopTab
	t.freeAreaBottom = bestBottomTab

	return true
}

func tabAt(list []*Tab, index int) *Tab {
	if index < 0 || index >= len(list) {
		return nil
	}
	return list[index]
}

// hasOverlap reports whether the current free area intersects an
// existing window area.
func (t *Tiling) hasOverlap(group *Group) bool {
	areaRect := t.freeAreaSize()
	areaRect = areaRect.InsetBy(1, 1)

	for _, hTab := range group.HorizontalTabs() {
		if hTab.Position() >= areaRect.Bottom {
			return false
		}
		for _, leftTopCrossing := range hTab.Crossings() {
			if leftTopCrossing.VerticalTab().Position() > areaRect.Right {
				continue
			}
			corner := leftTopCrossing.RightBottomCorner()
			if corner.Status() != CornerUsed {
				continue
			}
			if areaRect.Intersects(corner.WindowArea().Frame()) {
				return true
			}
		}
	}
	return false
}

// checkArea validates the current candidate rectangle and returns its
// fit error.
func (t *Tiling) checkArea(group *Group, corner CornerPosition,
	windowFrame host.Rect) (float64, bool) {
	if !t.checkMinFreeAreaSize() {
		return kBigAreaError, false
	}
	// the dragged corner must lie in the free area
	if !t.isCornerInFreeArea(corner, windowFrame) {
		return kBigAreaError, false
	}

	areaError := t.freeAreaError(windowFrame)
	if t.hasOverlap(group) {
		return kBigAreaError, false
	}
	return areaError, true
}

// checkMinFreeAreaSize rejects candidate areas smaller than twice the
// matching distance in either dimension.
func (t *Tiling) checkMinFreeAreaSize() bool {
	maxMatchingDistance := t.matchingDistance()
	if t.freeAreaLeft != nil && t.freeAreaRight != nil &&
		t.freeAreaRight.Position()-t.freeAreaLeft.Position() <
			2*maxMatchingDistance {
		return false
	}
	if t.freeAreaBottom != nil && t.freeAreaTop != nil &&
		t.freeAreaBottom.Position()-t.freeAreaTop.Position() <
			2*maxMatchingDistance {
		return false
	}
	return true
}

// freeAreaError scores the candidate by the squared size mismatch, with
// a flat charge per open edge.
func (t *Tiling) freeAreaError(windowFrame host.Rect) float64 {
	areaError := 0.0
	if t.freeAreaLeft != nil && t.freeAreaRight != nil {
		areaError += math.Pow(t.freeAreaRight.Position()-
			t.freeAreaLeft.Position()-windowFrame.Width(), 2)
	} else {
		areaError += kEndTabError
	}
	if t.freeAreaBottom != nil && t.freeAreaTop != nil {
		areaError += math.Pow(t.freeAreaBottom.Position()-
			t.freeAreaTop.Position()-windowFrame.Height(), 2)
	} else {
		areaError += kEndTabError
	}
	return areaError
}

func (t *Tiling) isCornerInFreeArea(corner CornerPosition, frame host.Rect) bool {
	freeArea := t.freeAreaSize()
	maxMatchingDistance := t.matchingDistance()

	switch corner {
	case LeftTop:
		return freeArea.Bottom-maxMatchingDistance > frame.Top &&
			freeArea.Right-maxMatchingDistance > frame.Left
	case RightTop:
		return freeArea.Bottom-maxMatchingDistance > frame.Top &&
			freeArea.Left+maxMatchingDistance < frame.Right
	case LeftBottom:
		return freeArea.Top+maxMatchingDistance < frame.Bottom &&
			freeArea.Right-maxMatchingDistance > frame.Left
	case RightBottom:
		return freeArea.Top+maxMatchingDistance < frame.Bottom &&
			freeArea.Left+maxMatchingDistance < frame.Right
	}

	return false
}

func (t *Tiling) freeAreaSize() host.Rect {
	left, right := -kBigValue, kBigValue
	top, bottom := -kBigValue, kBigValue
	if t.freeAreaLeft != nil {
		left = t.freeAreaLeft.Position()
	}
	if t.freeAreaRight != nil {
		right = t.freeAreaRight.Position()
	}
	if t.freeAreaTop != nil {
		top = t.freeAreaTop.Position()
	}
	if t.freeAreaBottom != nil {
		bottom = t.freeAreaBottom.Position()
	}
	return host.NewRect(left, top, right, bottom)
}

// highlightWindows marks the windows flanking the free area on all four
// sides, and the matching borders of the dragged window itself.
func (t *Tiling) highlightWindows(group *Group, highlight bool) {
	hTabs := group.HorizontalTabs()
	vTabs := group.VerticalTabs()

	leftCorner := LeftTop
	if t.freeAreaTop != nil {
		leftCorner = LeftBottom
	}
	leftWindowsFound := t.searchHighlightWindow(t.freeAreaLeft, t.freeAreaTop,
		t.freeAreaBottom, hTabs, leftCorner, host.RegionRightBorder, highlight)

	topCorner := LeftTop
	if t.freeAreaLeft != nil {
		topCorner = RightTop
	}
	topWindowsFound := t.searchHighlightWindow(t.freeAreaTop, t.freeAreaLeft,
		t.freeAreaRight, vTabs, topCorner, host.RegionBottomBorder, highlight)

	rightCorner := RightTop
	if t.freeAreaTop != nil {
		rightCorner = RightBottom
	}
	rightWindowsFound := t.searchHighlightWindow(t.freeAreaRight, t.freeAreaTop,
		t.freeAreaBottom, hTabs, rightCorner, host.RegionLeftBorder, highlight)

	bottomCorner := LeftBottom
	if t.freeAreaLeft != nil {
		bottomCorner = RightBottom
	}
	bottomWindowsFound := t.searchHighlightWindow(t.freeAreaBottom,
		t.freeAreaLeft, t.freeAreaRight, vTabs, bottomCorner,
		host.RegionTopBorder, highlight)

	if leftWindowsFound {
		t.window.HighlightBorders(host.RegionLeftBorder, highlight)
	}
	if topWindowsFound {
		t.window.HighlightBorders(host.RegionTopBorder, highlight)
	}
	if rightWindowsFound {
		t.window.HighlightBorders(host.RegionRightBorder, highlight)
	}
	if bottomWindowsFound {
		t.window.HighlightBorders(host.RegionBottomBorder, highlight)
	}
}

// searchHighlightWindow walks the crossings of one free-area edge
// between the two orthogonal bounds and highlights the inside border of
// every flanking area.
func (t *Tiling) searchHighlightWindow(tab, firstOrthTab, secondOrthTab *Tab,
	orthTabs []*Tab, areaCorner CornerPosition, region host.Region,
	highlight bool) bool {
	if tab == nil {
		return false
	}

	searchDir := 1
	var startOrthTab, endOrthTab *Tab
	switch {
	case firstOrthTab != nil:
		searchDir = 1
		startOrthTab = firstOrthTab
		endOrthTab = secondOrthTab
	case secondOrthTab != nil:
		searchDir = -1
		startOrthTab = secondOrthTab
		endOrthTab = firstOrthTab
	default:
		return false
	}

	index := indexOfTab(orthTabs, startOrthTab)
	if index < 0 {
		return false
	}

	windowsFound := false
	for ; index < len(orthTabs) && index >= 0; index += searchDir {
		orthTab := orthTabs[index]
		if orthTab == endOrthTab {
			break
		}
		crossing := tab.FindCrossing(orthTab)
		if crossing == nil {
			continue
		}
		corner := crossing.GetCorner(areaCorner)
		if corner.WindowArea() != nil {
			highlightAreaBorder(corner.WindowArea(), region, highlight)
			windowsFound = true
		}
	}
	return windowsFound
}

func highlightAreaBorder(area *WindowArea, region host.Region, highlight bool) {
	topWindow := area.TopWindow()
	if topWindow == nil {
		return
	}
	topWindow.HighlightBorders(region, highlight)
}

func (t *Tiling) resetSearchResults() {
	if t.freeAreaGroup == nil {
		return
	}

	t.highlightWindows(t.freeAreaGroup, false)
	t.freeAreaGroup = nil
}
