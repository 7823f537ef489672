package sat

// CornerStatus is the occupancy state of one crossing quadrant.
type CornerStatus int

const (
	// CornerFree means a window area could occupy the quadrant.
	CornerFree CornerStatus = iota
	// CornerUsed means a window area occupies the quadrant.
	CornerUsed
	// CornerNotDockable marks quadrants next to a used corner that have
	// no opposing used corner; purely advisory for the candidate search.
	CornerNotDockable
)

// CornerPosition identifies one of the four quadrants at a crossing.
type CornerPosition int

const (
	// LeftTop is the quadrant above-left of the crossing.
	LeftTop CornerPosition = 0
	// RightTop is the quadrant above-right of the crossing.
	RightTop CornerPosition = 1
	// LeftBottom is the quadrant below-left of the crossing.
	LeftBottom CornerPosition = 2
	// RightBottom is the quadrant below-right of the crossing.
	RightBottom CornerPosition = 3
)

// Corner is one quadrant at a crossing. The windowArea back-pointer is
// only meaningful while the status is CornerUsed and does not keep the
// area alive.
type Corner struct {
	status     CornerStatus
	windowArea *WindowArea
}

// Status returns the corner's occupancy state.
func (c *Corner) Status() CornerStatus { return c.status }

// WindowArea returns the occupying area while the corner is used, nil
// otherwise.
func (c *Corner) WindowArea() *WindowArea {
	if c.status != CornerUsed {
		return nil
	}
	return c.windowArea
}

// Crossing is the intersection of one vertical and one horizontal tab.
// It owns the four corners around the intersection and holds the
// references keeping both tabs alive.
type Crossing struct {
	corners [4]Corner

	verticalTab   *Tab
	horizontalTab *Tab

	refs int
}

func newCrossing(vertical, horizontal *Tab) *Crossing {
	crossing := &Crossing{
		verticalTab:   vertical,
		horizontalTab: horizontal,
		refs:          1,
	}
	for i := range crossing.corners {
		crossing.corners[i].status = CornerNotDockable
	}
	vertical.acquireReference()
	horizontal.acquireReference()
	return crossing
}

func (c *Crossing) acquireReference() { c.refs++ }

func (c *Crossing) releaseReference() {
	c.refs--
	if c.refs > 0 {
		return
	}
	c.verticalTab.removeCrossing(c)
	c.horizontalTab.removeCrossing(c)
	c.verticalTab.releaseReference()
	c.horizontalTab.releaseReference()
}

// GetCorner returns the corner at the given quadrant.
func (c *Crossing) GetCorner(position CornerPosition) *Corner {
	return &c.corners[position]
}

// GetOppositeCorner returns the diagonal counterpart of the given
// quadrant.
func (c *Crossing) GetOppositeCorner(position CornerPosition) *Corner {
	return &c.corners[3-position]
}

// LeftTopCorner returns the upper-left quadrant.
func (c *Crossing) LeftTopCorner() *Corner { return &c.corners[LeftTop] }

// RightTopCorner returns the upper-right quadrant.
func (c *Crossing) RightTopCorner() *Corner { return &c.corners[RightTop] }

// LeftBottomCorner returns the lower-left quadrant.
func (c *Crossing) LeftBottomCorner() *Corner { return &c.corners[LeftBottom] }

// RightBottomCorner returns the lower-right quadrant.
func (c *Crossing) RightBottomCorner() *Corner { return &c.corners[RightBottom] }

// VerticalTab returns the crossing's vertical tab.
func (c *Crossing) VerticalTab() *Tab { return c.verticalTab }

// HorizontalTab returns the crossing's horizontal tab.
func (c *Crossing) HorizontalTab() *Tab { return c.horizontalTab }
