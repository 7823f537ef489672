package app

import (
	"testing"

	"github.com/czeidler/stacktile/internal/host"
	"github.com/czeidler/stacktile/internal/sat"
)

func newTestDesktop() *Desktop {
	desktop := NewDesktop(nil)
	desktop.Width = 120
	desktop.Height = 40
	desktop.Controller = sat.NewController(desktop, nil)
	return desktop
}

func TestSpawnAndCloseWindow(t *testing.T) {
	desktop := newTestDesktop()

	window := desktop.SpawnWindow()
	if len(desktop.Windows) != 1 || desktop.Focused != window {
		t.Fatal("spawn did not focus the new window")
	}
	if desktop.Controller.GetWindow(window) == nil {
		t.Error("controller does not know the new window")
	}

	desktop.CloseWindow(window)
	if len(desktop.Windows) != 0 {
		t.Error("window not removed")
	}
	if desktop.Controller.GetWindow(window) != nil {
		t.Error("controller still knows the closed window")
	}
}

func TestWindowAtPrefersFrontmost(t *testing.T) {
	desktop := newTestDesktop()
	back := desktop.SpawnWindow()
	front := desktop.SpawnWindow()
	back.frame = host.NewRect(10, 10, 60, 25)
	front.frame = host.NewRect(20, 15, 70, 30)

	window, _, _ := desktop.windowAt(host.Point{X: 40, Y: 20})
	if window != front {
		t.Errorf("expected the front window, got %v", window.title)
	}

	window, region, _ := desktop.windowAt(host.Point{X: 12, Y: 12})
	if window != back || region != host.RegionNone {
		t.Errorf("expected the back window body, got %v/%v", window, region)
	}
}

func TestDecoratorHitTesting(t *testing.T) {
	desktop := newTestDesktop()
	window := desktop.SpawnWindow()
	window.frame = host.NewRect(10, 10, 60, 25)

	tests := []struct {
		name   string
		point  host.Point
		region host.Region
	}{
		{"tab bar", host.Point{X: 15, Y: 8}, host.RegionTab},
		{"left border", host.Point{X: 9, Y: 15}, host.RegionLeftBorder},
		{"right border", host.Point{X: 61, Y: 15}, host.RegionRightBorder},
		{"bottom border", host.Point{X: 30, Y: 26}, host.RegionBottomBorder},
		{"outside", host.Point{X: 100, Y: 35}, host.RegionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, _ := window.decorator.RegionAt(tt.point)
			if region != tt.region {
				t.Errorf("RegionAt(%+v) = %v, want %v", tt.point, region,
					tt.region)
			}
		})
	}
}

func TestActivateRaisesStack(t *testing.T) {
	desktop := newTestDesktop()
	first := desktop.SpawnWindow()
	second := desktop.SpawnWindow()

	desktop.ActivateWindow(first)
	if desktop.Windows[len(desktop.Windows)-1] != first {
		t.Error("activation did not raise the window")
	}
	if desktop.Focused != first {
		t.Error("activation did not focus the window")
	}

	desktop.SendWindowBehind(first, nil)
	if desktop.Windows[0] != first {
		t.Error("send-behind did not lower the window")
	}
	_ = second
}

func TestStackSharesFrame(t *testing.T) {
	desktop := newTestDesktop()
	parent := desktop.SpawnWindow()
	child := desktop.SpawnWindow()
	child.frame = host.NewRect(70, 5, 110, 20)

	if !parent.AddToStack(child) {
		t.Fatal("stack merge refused")
	}
	if child.frame != parent.frame {
		t.Error("stacked windows do not share a frame")
	}

	desktop.MoveWindowBy(parent, 5, 3)
	if child.frame != parent.frame {
		t.Error("stack members move apart")
	}

	if child.PositionInStack() != 1 {
		t.Errorf("child stack position %d, want 1", child.PositionInStack())
	}
}
