package sat

import (
	"math"
	"testing"

	"github.com/czeidler/stacktile/internal/host"
)

// tileRight adds a window in a new area directly right of the anchor
// area, sharing its left edge with the anchor's right tab.
func tileRight(t *testing.T, g *Group, anchor *WindowArea, w *Window,
	right float64) *WindowArea {
	t.Helper()
	if !g.AddWindow(w, anchor.RightTab(), anchor.TopTab(), nil,
		anchor.BottomTab()) {
		t.Fatal("tiling right failed")
	}
	area := w.GetWindowArea()
	area.RightTab().SetPosition(right)
	return area
}

// tileBelow adds a window in a new area directly below the anchor area.
func tileBelow(t *testing.T, g *Group, anchor *WindowArea, w *Window,
	bottom float64) *WindowArea {
	t.Helper()
	if !g.AddWindow(w, anchor.LeftTab(), anchor.BottomTab(), anchor.RightTab(),
		nil) {
		t.Fatal("tiling below failed")
	}
	area := w.GetWindowArea()
	area.BottomTab().SetPosition(bottom)
	return area
}

// buildQuad builds a 2x2 group with a cross of shared tabs and returns
// the four areas (left-top, right-top, left-bottom, right-bottom).
func buildQuad(t *testing.T, c *Controller, d *fakeDesktop) (*Group,
	[4]*Window, [4]*WindowArea) {
	t.Helper()
	fa := d.addWindow("A", host.NewRect(0, 0, 100, 100))
	fb := d.addWindow("B", host.NewRect(101, 0, 201, 100))
	fc := d.addWindow("C", host.NewRect(0, 101, 100, 201))
	fd := d.addWindow("D", host.NewRect(101, 101, 201, 201))
	for _, fw := range []*fakeWindow{fa, fb, fc, fd} {
		fw.decorator.tabHeight = 0
		c.WindowAdded(fw)
	}

	wA := c.GetWindow(fa)
	wB := c.GetWindow(fb)
	wC := c.GetWindow(fc)
	wD := c.GetWindow(fd)

	group := wA.GetGroup()
	if group == nil {
		t.Fatal("no group for A")
	}
	areaA := wA.GetWindowArea()

	areaB := tileRight(t, group, areaA, wB, 202)
	areaC := tileBelow(t, group, areaA, wC, 202)
	if !group.AddWindow(wD, areaA.RightTab(), areaA.BottomTab(),
		areaB.RightTab(), areaC.BottomTab()) {
		t.Fatal("adding bottom-right area failed")
	}
	areaD := wD.GetWindowArea()

	return group, [4]*Window{wA, wB, wC, wD},
		[4]*WindowArea{areaA, areaB, areaC, areaD}
}

func newTestController(screen host.Rect) (*Controller, *fakeDesktop) {
	desktop := newFakeDesktop(screen)
	return NewController(desktop, nil), desktop
}

// =============================================================================
// Structural Invariants
// =============================================================================

func TestInnerCornersBackpointToArea(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	_, _, areas := buildQuad(t, c, d)

	for i, area := range areas {
		inner := []*Corner{
			area.LeftTopCrossing().RightBottomCorner(),
			area.RightTopCrossing().LeftBottomCorner(),
			area.LeftBottomCrossing().RightTopCorner(),
			area.RightBottomCrossing().LeftTopCorner(),
		}
		for j, corner := range inner {
			if corner.Status() != CornerUsed {
				t.Errorf("area %d inner corner %d is not used", i, j)
			}
			if corner.WindowArea() != area {
				t.Errorf("area %d inner corner %d points to wrong area", i, j)
			}
		}
	}
}

func TestTabListsAreSorted(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	group, _, _ := buildQuad(t, c, d)

	checkSorted := func(name string, tabs []*Tab) {
		for i := 1; i < len(tabs); i++ {
			if tabs[i].Position() < tabs[i-1].Position() {
				t.Errorf("%s tabs unsorted at %d: %v after %v", name, i,
					tabs[i].Position(), tabs[i-1].Position())
			}
		}
	}
	checkSorted("horizontal", group.HorizontalTabs())
	checkSorted("vertical", group.VerticalTabs())

	if len(group.VerticalTabs()) != 3 {
		t.Errorf("expected 3 vertical tabs, got %d", len(group.VerticalTabs()))
	}
	if len(group.HorizontalTabs()) != 3 {
		t.Errorf("expected 3 horizontal tabs, got %d",
			len(group.HorizontalTabs()))
	}
}

func TestCrossingsAreShared(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	_, _, areas := buildQuad(t, c, d)

	// the center crossing is shared by all four areas
	center := areas[0].RightBottomCrossing()
	if areas[1].LeftBottomCrossing() != center {
		t.Error("right-top area does not share the center crossing")
	}
	if areas[2].RightTopCrossing() != center {
		t.Error("left-bottom area does not share the center crossing")
	}
	if areas[3].LeftTopCrossing() != center {
		t.Error("right-bottom area does not share the center crossing")
	}

	// and every quadrant of it is in use
	for position := LeftTop; position <= RightBottom; position++ {
		if center.GetCorner(position).Status() != CornerUsed {
			t.Errorf("center corner %d not used", position)
		}
	}
}

func TestAddCrossingRejectsSameOrientation(t *testing.T) {
	group := NewGroup()
	first := group.addVerticalTab(0)
	second := group.addVerticalTab(10)

	if crossing := first.AddCrossing(second); crossing != nil {
		t.Error("crossing of two vertical tabs must fail")
	}

	first.releaseReference()
	second.releaseReference()
}

func TestFindTabUsesEpsilon(t *testing.T) {
	group := NewGroup()
	tab := group.addVerticalTab(100)
	defer tab.releaseReference()

	if group.FindVerticalTab(100.00005) != tab {
		t.Error("expected position within epsilon to match")
	}
	if group.FindVerticalTab(100.1) != nil {
		t.Error("expected position outside epsilon to miss")
	}
	if group.FindHorizontalTab(100) != nil {
		t.Error("vertical tab must not be found in the horizontal list")
	}
}

// =============================================================================
// Split (Scenario: remove the middle of a row)
// =============================================================================

func TestRemovingMiddleWindowSplitsRow(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	fa := d.addWindow("A", host.NewRect(0, 0, 100, 100))
	fb := d.addWindow("B", host.NewRect(101, 0, 201, 100))
	fc := d.addWindow("C", host.NewRect(202, 0, 302, 100))
	for _, fw := range []*fakeWindow{fa, fb, fc} {
		fw.decorator.tabHeight = 0
		c.WindowAdded(fw)
	}
	wA, wB, wC := c.GetWindow(fa), c.GetWindow(fb), c.GetWindow(fc)

	group := wA.GetGroup()
	areaA := wA.GetWindowArea()
	areaB := tileRight(t, group, areaA, wB, 202)
	tileRight(t, group, areaB, wC, 303)

	frameA := fa.frame
	frameC := fc.frame

	if !group.RemoveWindow(wB, false) {
		t.Fatal("removing B failed")
	}

	groupA := wA.GetGroup()
	groupC := wC.GetGroup()
	if groupA == nil || groupC == nil {
		t.Fatal("expected fresh groups for the split halves")
	}
	if groupA == groupC {
		t.Error("A and C must end up in different groups")
	}
	if groupA.CountItems() != 1 || groupC.CountItems() != 1 {
		t.Errorf("expected singleton groups, got %d and %d",
			groupA.CountItems(), groupC.CountItems())
	}

	// both fully on-screen: neither moves
	if fa.frame != frameA {
		t.Errorf("A moved during the split: %+v", fa.frame)
	}
	if fc.frame != frameC {
		t.Errorf("C moved during the split: %+v", fc.frame)
	}

	// moving A later must not affect C
	d.MoveWindowBy(fa, 30, 0)
	c.WindowMoved(fa)
	if fc.frame != frameC {
		t.Error("C followed A after the split")
	}
}

func TestRemovingCornerOfQuadKeepsRestConnected(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	group, windows, _ := buildQuad(t, c, d)

	preCount := group.CountItems()
	if !group.RemoveWindow(windows[1], false) {
		t.Fatal("removing the right-top window failed")
	}

	remaining := []*Window{windows[0], windows[2], windows[3]}
	base := remaining[0].GetWindowArea().Group()
	total := 0
	for i, window := range remaining {
		area := window.GetWindowArea()
		if area == nil {
			t.Fatalf("window %d lost its area", i)
		}
		if area.Group() != base {
			t.Errorf("window %d ended up in a different group", i)
		}
		total += 1
	}
	if total != preCount-1 {
		t.Errorf("window count %d, want %d", total, preCount-1)
	}
	if base.CountItems() != 3 {
		t.Errorf("group claims %d windows, want 3", base.CountItems())
	}
}

// =============================================================================
// Off-Screen Recovery
// =============================================================================

func TestOffscreenGroupIsPulledBack(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	fx := d.addWindow("X", host.NewRect(-300, 0, -200, 100))
	fy := d.addWindow("Y", host.NewRect(-199, 0, -99, 100))
	fx.decorator.tabHeight = 0
	fy.decorator.tabHeight = 0
	c.WindowAdded(fx)
	c.WindowAdded(fy)
	wX, wY := c.GetWindow(fx), c.GetWindow(fy)

	group := wX.GetGroup()
	areaX := wX.GetWindowArea()
	tileRight(t, group, areaX, wY, -98)

	// removing Y leaves X as an entirely off-screen singleton
	if !group.RemoveWindow(wY, false) {
		t.Fatal("removing Y failed")
	}

	completeRight := wX.CompleteWindowFrame().Right
	want := 0.0 + 75.0 // screen.left + recovery margin
	if math.Abs(completeRight-want) > 0.5 {
		t.Errorf("expected X pulled to %v, frame right is %v", want,
			completeRight)
	}
}

// =============================================================================
// Archive Round-Trip
// =============================================================================

func TestArchiveRoundTrip(t *testing.T) {
	c, d := newTestController(host.NewRect(0, 0, 800, 600))
	group, windows, _ := buildQuad(t, c, d)

	archive := group.ArchiveGroup()
	if archive.HTabCount != 3 || archive.VTabCount != 3 {
		t.Fatalf("unexpected tab counts: %d horizontal, %d vertical",
			archive.HTabCount, archive.VTabCount)
	}
	if len(archive.Areas) != 4 {
		t.Fatalf("expected 4 areas, got %d", len(archive.Areas))
	}

	flattened, err := archive.Flatten()
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}

	// tear the group apart
	for _, window := range windows {
		if current := window.GetWindowArea(); current != nil {
			current.Group().RemoveWindow(window, false)
		}
	}
	for i, window := range windows {
		if window.GetWindowArea() != nil &&
			window.GetWindowArea().Group().CountItems() > 1 {
			t.Fatalf("window %d still grouped after teardown", i)
		}
	}

	restoredArchive, err := UnflattenGroupArchive(flattened)
	if err != nil {
		t.Fatalf("unflatten failed: %v", err)
	}
	if err := RestoreGroup(restoredArchive, c); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	areaA := windows[0].GetWindowArea()
	areaB := windows[1].GetWindowArea()
	areaC := windows[2].GetWindowArea()
	areaD := windows[3].GetWindowArea()
	for i, area := range []*WindowArea{areaA, areaB, areaC, areaD} {
		if area == nil {
			t.Fatalf("window %d not restored into an area", i)
		}
	}

	restored := areaA.Group()
	for i, area := range []*WindowArea{areaB, areaC, areaD} {
		if area.Group() != restored {
			t.Errorf("area %d restored into a different group", i+1)
		}
	}

	// identical adjacency: the shared tabs are the same objects again
	if areaA.RightTab() != areaB.LeftTab() {
		t.Error("A and B no longer share their vertical tab")
	}
	if areaA.BottomTab() != areaC.TopTab() {
		t.Error("A and C no longer share their horizontal tab")
	}
	if areaD.LeftTab() != areaB.LeftTab() {
		t.Error("D and B no longer share their vertical tab")
	}
	if areaD.TopTab() != areaC.TopTab() {
		t.Error("D and C no longer share their horizontal tab")
	}

	// per-area window id sets survived
	if len(areaA.WindowList()) != 1 ||
		areaA.WindowList()[0].ID() != windows[0].ID() {
		t.Error("area A window id set changed")
	}

	// unknown ids are skipped silently
	bogus := &GroupArchive{HTabCount: 2, VTabCount: 2, Areas: []AreaArchive{{
		LeftTab: 0, RightTab: 1, TopTab: 0, BottomTab: 1,
		Windows: []uint64{0xdeadbeef},
	}}}
	if err := RestoreGroup(bogus, c); err != nil {
		t.Errorf("restore with unknown ids must not fail, got %v", err)
	}

	// out-of-range tab indices are rejected
	broken := &GroupArchive{HTabCount: 1, VTabCount: 1, Areas: []AreaArchive{{
		LeftTab: 0, RightTab: 5, TopTab: 0, BottomTab: 0,
	}}}
	if err := RestoreGroup(broken, c); err == nil {
		t.Error("restore with out-of-range tab index must fail")
	}
}
