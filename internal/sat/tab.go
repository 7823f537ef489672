package sat

import (
	"math"

	"github.com/czeidler/stacktile/internal/config"
	"github.com/czeidler/stacktile/internal/solver"
)

// Orientation distinguishes the two tab directions.
type Orientation int

const (
	// Vertical tabs are vertical lines ordered by x position.
	Vertical Orientation = iota
	// Horizontal tabs are horizontal lines ordered by y position.
	Horizontal
)

// Tab is one alignment line inside a group. Adjacent window areas share
// tabs, which is what keeps their edges glued together: the tab owns the
// single solver variable every shared edge reads.
//
// Tabs are reference counted. Crossings hold the references; when the
// last crossing lets go, the tab removes itself from its group.
type Tab struct {
	group       *Group
	variable    *solver.Variable
	orientation Orientation

	crossings []*Crossing

	refs int
}

func newTab(group *Group, variable *solver.Variable, orientation Orientation) *Tab {
	return &Tab{
		group:       group,
		variable:    variable,
		orientation: orientation,
		refs:        1,
	}
}

func (t *Tab) acquireReference() { t.refs++ }

func (t *Tab) releaseReference() {
	t.refs--
	if t.refs > 0 {
		return
	}
	if t.orientation == Vertical {
		t.group.removeVerticalTab(t)
	} else {
		t.group.removeHorizontalTab(t)
	}
	t.group.linearSpec.RemoveVariable(t.variable)
}

// Position returns the tab's location, hiding the positive offset the
// solver variable carries.
func (t *Tab) Position() float64 {
	return t.variable.Value() - config.MakePositiveOffset
}

// SetPosition moves the tab to the given location.
func (t *Tab) SetPosition(position float64) {
	t.variable.SetValue(position + config.MakePositiveOffset)
}

// Orientation returns whether the tab is horizontal or vertical. It
// never changes.
func (t *Tab) Orientation() Orientation { return t.orientation }

// Variable exposes the underlying solver variable.
func (t *Tab) Variable() *solver.Variable { return t.variable }

// Connect equality-joins another variable to this tab's variable. The
// caller owns the returned constraint.
func (t *Tab) Connect(variable *solver.Variable) *solver.Constraint {
	return t.variable.IsEqual(variable)
}

// AddCrossing creates the crossing of this tab with a tab of the other
// orientation, registers it with both, and returns it with one reference
// owned by the caller. Tabs of matching orientation cannot cross.
func (t *Tab) AddCrossing(other *Tab) *Crossing {
	if other == nil || other.orientation == t.orientation {
		return nil
	}

	vertical, horizontal := t, other
	if t.orientation == Horizontal {
		vertical, horizontal = other, t
	}

	crossing := newCrossing(vertical, horizontal)
	t.crossings = append(t.crossings, crossing)
	other.crossings = append(other.crossings, crossing)
	return crossing
}

// removeCrossing drops a crossing from this tab's list; called by the
// crossing on teardown.
func (t *Tab) removeCrossing(crossing *Crossing) bool {
	if crossing.VerticalTab() != t && crossing.HorizontalTab() != t {
		return false
	}
	for i, candidate := range t.crossings {
		if candidate == crossing {
			t.crossings = append(t.crossings[:i], t.crossings[i+1:]...)
			return true
		}
	}
	return false
}

// FindCrossing returns this tab's crossing with the given tab, or nil.
func (t *Tab) FindCrossing(tab *Tab) *Crossing {
	for _, crossing := range t.crossings {
		if t.orientation == Vertical {
			if crossing.HorizontalTab() == tab {
				return crossing
			}
		} else if crossing.VerticalTab() == tab {
			return crossing
		}
	}
	return nil
}

// FindCrossingAt returns the crossing whose other tab sits at the given
// position, or nil.
func (t *Tab) FindCrossingAt(position float64) *Crossing {
	for _, crossing := range t.crossings {
		other := crossing.HorizontalTab()
		if t.orientation == Horizontal {
			other = crossing.VerticalTab()
		}
		if math.Abs(other.Position()-position) < config.TabPositionEpsilon {
			return crossing
		}
	}
	return nil
}

// Crossings returns the crossings the tab participates in, in insertion
// order. Crossings are created walking existing geometry, so the list is
// position-ordered by construction.
func (t *Tab) Crossings() []*Crossing { return t.crossings }

// compareTabs is the ordering predicate for the lazily sorted tab lists.
func compareTabs(a, b *Tab) int {
	switch {
	case a.Position() < b.Position():
		return -1
	case a.Position() > b.Position():
		return 1
	}
	return 0
}
