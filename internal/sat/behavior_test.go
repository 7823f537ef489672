package sat

import (
	"math"
	"testing"

	"github.com/czeidler/stacktile/internal/host"
)

// =============================================================================
// Stacking (drag a title onto another title)
// =============================================================================

func TestStackingGesture(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("W1", host.NewRect(0, 0, 200, 150))
	f2 := d.addWindow("W2", host.NewRect(220, 10, 420, 160))
	f1.decorator.tabHeight = 10
	f2.decorator.tabHeight = 10
	c.WindowAdded(f1)
	c.WindowAdded(f2)
	w1, w2 := c.GetWindow(f1), c.GetWindow(f2)

	pressModifier(c)
	if !c.SATKeyPressed() {
		t.Fatal("modifier not registered")
	}

	// grab W2 by its tab
	d.mouse = host.Point{X: 230, Y: 5}
	d.buttons = host.PrimaryMouseButton
	c.MouseDown(f2, d.mouse, d.buttons, 1)

	// drag W2 so its tab overlaps W1's tab
	dragTo(c, d, f2, host.Point{X: 30, Y: 4}, host.Point{X: 80, Y: 0})

	if w2.ongoingSnapping != w2.stacking {
		t.Fatal("expected the stacking behavior to hold a candidate")
	}
	if f1.decorator.highlights[host.RegionTab] != host.HighlightStackAndTile {
		t.Error("parent tab not highlighted")
	}

	// drop
	releaseModifier(c)
	c.MouseUp(f2, d.mouse)

	area := w1.GetWindowArea()
	if area == nil || w2.GetWindowArea() != area {
		t.Fatal("windows do not share an area after the stack merge")
	}
	list := area.WindowList()
	if len(list) != 2 || list[0] != w1 || list[1] != w2 {
		t.Fatalf("unexpected window order in the area")
	}
	if f1.decorator.highlights[host.RegionTab] != host.HighlightNone {
		t.Error("highlight not cleared after the merge")
	}

	if f1.frame != f2.frame {
		t.Errorf("stacked frames differ: %+v vs %+v", f1.frame, f2.frame)
	}
	if f2.frame != host.NewRect(0, 0, 200, 150) {
		t.Errorf("stack did not adopt W1's frame: %+v", f2.frame)
	}
	if f2.stack != f1.stack {
		t.Error("native stacks were not merged")
	}

	// key-press Right moves focus from W1 to W2
	d.focus = f1
	pressModifier(c)
	if !c.KeyPressed(KeyDown, KeyRightArrow, ModOption) {
		t.Fatal("right arrow not consumed")
	}
	if d.focus != f2 {
		t.Error("focus did not move to W2")
	}
	// and Shift+Tab moves it back
	if !c.KeyPressed(KeyDown, KeyTab, ModOption|ModShift) {
		t.Fatal("shift+tab not consumed")
	}
	if d.focus != f1 {
		t.Error("focus did not move back to W1")
	}
}

func TestStackingRollbackOnHostRefusal(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("parent", host.NewRect(0, 0, 200, 150))
	f2 := d.addWindow("child", host.NewRect(300, 0, 500, 150))
	c.WindowAdded(f1)
	c.WindowAdded(f2)
	w1, w2 := c.GetWindow(f1), c.GetWindow(f2)

	f1.refuseStacking = true

	if w1.StackWindow(w2) {
		t.Fatal("stacking should have been refused by the host")
	}

	if w2.GetWindowArea() != nil {
		t.Error("child still in an area after the rollback")
	}
	if w1.GetGroup().CountItems() != 1 {
		t.Error("parent group not back to a singleton")
	}
}

func TestLookChangeEjectsUnstackableWindow(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("parent", host.NewRect(0, 0, 200, 150))
	f2 := d.addWindow("child", host.NewRect(300, 0, 500, 150))
	c.WindowAdded(f1)
	c.WindowAdded(f2)
	w1, w2 := c.GetWindow(f1), c.GetWindow(f2)

	if !w1.StackWindow(w2) {
		t.Fatal("stacking failed")
	}

	f2.look = host.BorderedLook
	c.WindowLookChanged(f2, f2.look)

	if w2.GetWindowArea() != nil {
		t.Error("window with an unstackable look kept its area")
	}
}

// =============================================================================
// Tiling (drag an edge close to another group's edge)
// =============================================================================

func TestTilingGestureSnapsToRightEdge(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("W1", host.NewRect(0, 0, 300, 200))
	f2 := d.addWindow("W2", host.NewRect(310, 5, 500, 210))
	f1.decorator.tabHeight = 0
	f2.decorator.tabHeight = 0
	c.WindowAdded(f1)
	c.WindowAdded(f2)
	w1, w2 := c.GetWindow(f1), c.GetWindow(f2)

	pressModifier(c)
	d.mouse = host.Point{X: 350, Y: 4}
	d.buttons = host.PrimaryMouseButton
	c.MouseDown(f2, d.mouse, d.buttons, 1)

	// drag W2's left edge within snapping distance of W1's right edge
	dragTo(c, d, f2, host.Point{X: 307, Y: 5}, host.Point{X: 347, Y: 4})

	if w2.ongoingSnapping != w2.tiling {
		t.Fatal("expected the tiling behavior to hold a candidate")
	}
	if f1.decorator.highlights[host.RegionRightBorder] != host.HighlightStackAndTile {
		t.Error("flanking border not highlighted")
	}
	if f2.decorator.highlights[host.RegionLeftBorder] != host.HighlightStackAndTile {
		t.Error("dragged window border not highlighted")
	}

	releaseModifier(c)
	c.MouseUp(f2, d.mouse)

	area1 := w1.GetWindowArea()
	area2 := w2.GetWindowArea()
	if area1 == nil || area2 == nil {
		t.Fatal("missing areas after the tile merge")
	}
	if area1.Group() != area2.Group() {
		t.Fatal("windows not in the same group")
	}
	if area1.RightTab() != area2.LeftTab() {
		t.Fatal("the snapped edge is not a shared tab")
	}
	if math.Abs(area2.LeftTab().Position()-301) > 0.5 {
		t.Errorf("shared tab at %v, want 301", area2.LeftTab().Position())
	}
	if math.Abs(f2.frame.Left-301) > 0.5 {
		t.Errorf("W2 left edge at %v, want 301", f2.frame.Left)
	}
	// the shared top and bottom tabs keep the rows aligned
	if area1.TopTab() != area2.TopTab() || area1.BottomTab() != area2.BottomTab() {
		t.Error("horizontal tabs not shared between the tiled areas")
	}

	// growing W1 on the right drags W2's left edge along
	f1.frame.Right += 50
	c.WindowResized(f1)
	if math.Abs(area1.RightTab().Position()-351) > 0.5 {
		t.Errorf("shared tab at %v after the resize, want 351",
			area1.RightTab().Position())
	}
	if math.Abs(f2.frame.Left-351) > 0.5 {
		t.Errorf("W2 left edge at %v after the resize, want 351", f2.frame.Left)
	}
}

func TestTilingIgnoresDistantWindows(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	f1 := d.addWindow("W1", host.NewRect(0, 0, 300, 200))
	f2 := d.addWindow("W2", host.NewRect(400, 5, 590, 210))
	f1.decorator.tabHeight = 0
	f2.decorator.tabHeight = 0
	c.WindowAdded(f1)
	c.WindowAdded(f2)
	w2 := c.GetWindow(f2)

	pressModifier(c)
	d.mouse = host.Point{X: 450, Y: 4}
	d.buttons = host.PrimaryMouseButton
	c.MouseDown(f2, d.mouse, d.buttons, 1)

	// 99 px away from W1's right edge: far beyond the matching distance
	dragTo(c, d, f2, host.Point{X: 400, Y: 5}, host.Point{X: 450, Y: 4})

	if w2.ongoingSnapping != nil {
		t.Error("no candidate expected at this distance")
	}

	releaseModifier(c)
	c.MouseUp(f2, d.mouse)

	if w2.PositionManagedBySAT() {
		t.Error("window must stay loose")
	}
}
