package sat

import (
	"github.com/czeidler/stacktile/internal/host"
)

// SnappingBehaviour is one strategy for merging the dragged window into
// another group. A behavior that finds a candidate marks it visually; a
// later commit (or a new search) clears the mark again.
type SnappingBehaviour interface {
	// FindSnappingCandidates scans one group for a merge target for the
	// ongoing gesture and highlights it.
	FindSnappingCandidates(group *Group) bool
	// JoinCandidates merges the previously found candidates and clears
	// the highlight. It reports whether the integration succeeded.
	JoinCandidates() bool
	// RemovedFromArea lets the behavior react to its window leaving an
	// area.
	RemovedFromArea(area *WindowArea)
	// WindowLookChanged lets the behavior react to a decoration change.
	WindowLookChanged(look host.Look)
}

// Stacking merges the dragged window into another window's area when its
// tab is dropped onto that window's tab.
type Stacking struct {
	window         *Window
	stackingParent *Window
}

func newStacking(window *Window) *Stacking {
	return &Stacking{window: window}
}

// FindSnappingCandidates looks for a window in the group whose tab lies
// under the dragged window's top edge at the cursor position.
func (s *Stacking) FindSnappingCandidates(group *Group) bool {
	s.clearSearchResult()

	decorator := s.window.HostWindow().Decorator()
	if decorator == nil {
		return false
	}

	mousePosition, _ := s.window.Desktop().LastMouseState()
	if !decorator.TitleBarRect().Contains(mousePosition) {
		return false
	}

	// use the upper edge of the dragged window to find the parent window
	mousePosition.Y = decorator.TitleBarRect().Top

	for i := 0; i < group.CountItems(); i++ {
		candidate := group.WindowAt(i)
		win := candidate.HostWindow()
		if win == s.window.HostWindow() || win.Decorator() == nil {
			continue
		}
		if !isStackableWindow(win) || !isStackableWindow(s.window.HostWindow()) {
			continue
		}
		tabRect := win.Decorator().TabRect(win.PositionInStack())
		if tabRect.Contains(mousePosition) {
			// remember the window as the parent for stacking
			s.stackingParent = candidate
			s.highlightWindows(true)
			return true
		}
	}

	return false
}

// JoinCandidates stacks the dragged window onto the found parent.
func (s *Stacking) JoinCandidates() bool {
	if s.stackingParent == nil {
		return false
	}

	result := s.stackingParent.StackWindow(s.window)

	s.clearSearchResult()
	return result
}

// RemovedFromArea re-runs the group layout for the remaining stack
// members.
func (s *Stacking) RemovedFromArea(area *WindowArea) {
	list := area.WindowList()
	if len(list) > 0 {
		list[0].DoGroupLayout()
	}
}

// WindowLookChanged ejects the window from its group when the new look
// cannot stack anymore.
func (s *Stacking) WindowLookChanged(look host.Look) {
	win := s.window.HostWindow()
	if win.StackedWindowCount() <= 1 {
		return
	}
	group := s.window.GetGroup()
	if group == nil {
		return
	}
	if !isStackableWindow(win) {
		group.RemoveWindow(s.window, s.window.Controller().StayBelowMouse())
	}
}

// isStackableWindow permits stacking for looks that carry a tab.
func isStackableWindow(window host.Window) bool {
	switch window.Look() {
	case host.DocumentLook, host.TitledLook:
		return true
	}
	return false
}

func (s *Stacking) clearSearchResult() {
	if s.stackingParent == nil {
		return
	}

	s.highlightWindows(false)
	s.stackingParent = nil
}

func (s *Stacking) highlightWindows(highlight bool) {
	s.stackingParent.HighlightTab(highlight)
	s.window.HighlightTab(highlight)
}
