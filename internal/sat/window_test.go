package sat

import (
	"testing"

	"github.com/czeidler/stacktile/internal/host"
)

func TestSoloGroupReflectsWindowFrame(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("solo", host.NewRect(40, 30, 240, 180))
	f1.decorator.tabHeight = 0
	c.WindowAdded(f1)
	w1 := c.GetWindow(f1)

	group := w1.GetGroup()
	if group == nil {
		t.Fatal("no group created")
	}
	area := w1.GetWindowArea()
	complete := w1.CompleteWindowFrame()

	if area.LeftTab().Position() != complete.Left ||
		area.TopTab().Position() != complete.Top ||
		area.RightTab().Position() != complete.Right ||
		area.BottomTab().Position() != complete.Bottom {
		t.Errorf("solo tabs %+v do not match complete frame %+v",
			area.Frame(), complete)
	}

	// moving the window and asking again refreshes the tabs
	f1.frame = f1.frame.OffsetBy(17, 9)
	w1.GetGroup()
	if area.LeftTab().Position() != complete.Left+17 {
		t.Error("solo tabs not refreshed after a move")
	}
}

func TestSoloGroupLayoutIsIdempotent(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("solo", host.NewRect(40, 30, 240, 180))
	c.WindowAdded(f1)
	w1 := c.GetWindow(f1)
	w1.GetGroup()

	before := f1.frame
	w1.DoGroupLayout()
	if f1.frame != before {
		t.Errorf("solo layout changed the frame: %+v -> %+v", before, f1.frame)
	}
}

func TestGeneratedIdsAreDistinct(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("one", host.NewRect(0, 0, 100, 100))
	f2 := d.addWindow("two", host.NewRect(0, 0, 100, 100))
	c.WindowAdded(f1)
	c.WindowAdded(f2)

	id1 := c.GetWindow(f1).ID()
	id2 := c.GetWindow(f2).ID()
	if id1 == 0 || id2 == 0 {
		t.Error("ids must be non-zero")
	}
	if id1 == id2 {
		t.Error("ids must differ")
	}
}

func TestMoveWindowToPositionReordersTabs(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	_, _, w1, w2 := stackPair(t, c, d)
	area := w1.GetWindowArea()

	if !area.MoveWindowToPosition(w2, 0) {
		t.Fatal("reorder failed")
	}
	list := area.WindowList()
	if list[0] != w2 || list[1] != w1 {
		t.Error("tab order not updated")
	}
	if area.MoveWindowToPosition(w2, 0) {
		t.Error("reordering to the same index must fail")
	}
	if area.MoveWindowToPosition(w1, 5) {
		t.Error("out-of-range index must fail")
	}
}

// =============================================================================
// Size Limit Bookkeeping
// =============================================================================

func TestEffectiveLimitsStayOrdered(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	_, _, w1, _ := stackPair(t, c, d)
	area := w1.GetWindowArea()

	sequences := [][4]float64{
		{100, 4000, 80, 4000},
		{600, 500, 600, 500}, // min above max
		{50, 5000, 50, 5000},
		{7000, 8000, 7000, 8000}, // beyond the solver ceiling
	}
	for _, limits := range sequences {
		w1.SetOriginalSizeLimits(limits[0], limits[1], limits[2], limits[3])

		if area.minWidthConstraint.RightSide() >
			area.maxWidthConstraint.RightSide() {
			t.Errorf("limits %v: width min %v above max %v", limits,
				area.minWidthConstraint.RightSide(),
				area.maxWidthConstraint.RightSide())
		}
		if area.minHeightConstraint.RightSide() >
			area.maxHeightConstraint.RightSide() {
			t.Errorf("limits %v: height min %v above max %v", limits,
				area.minHeightConstraint.RightSide(),
				area.maxHeightConstraint.RightSide())
		}
	}
}

func TestNonResizableAxisIsRestoredOnEviction(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("fixed-height", host.NewRect(0, 0, 200, 150))
	f1.flags = host.NotVResizable
	f2 := d.addWindow("partner", host.NewRect(300, 0, 500, 160))
	c.WindowAdded(f1)
	c.WindowAdded(f2)
	w1, w2 := c.GetWindow(f1), c.GetWindow(f2)

	originalHeight := f1.frame.Height()

	if !w2.StackWindow(w1) {
		t.Fatal("stacking failed")
	}
	// the group may have resized the fixed window meanwhile
	group := w1.GetWindowArea().Group()
	if !group.RemoveWindow(w1, false) {
		t.Fatal("removal failed")
	}

	if f1.frame.Height() != originalHeight {
		t.Errorf("fixed axis not restored: height %v, want %v",
			f1.frame.Height(), originalHeight)
	}
	if f1.minHeight != 10 || f1.maxHeight != 5000 {
		t.Errorf("original limits not restored: %v..%v", f1.minHeight,
			f1.maxHeight)
	}
}

func TestAdjustSizeLimitsWidensForTargetFrame(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("small-max", host.NewRect(0, 0, 100, 100))
	f1.maxWidth = 150
	f1.maxHeight = 150
	c.WindowAdded(f1)
	w1 := c.GetWindow(f1)

	w1.AdjustSizeLimits(host.NewRect(0, 0, 400, 300))

	if f1.maxWidth < 399 {
		t.Errorf("max width %v not widened for the target frame", f1.maxWidth)
	}
	if f1.maxHeight < 298 {
		t.Errorf("max height %v not widened for the target frame", f1.maxHeight)
	}
}
