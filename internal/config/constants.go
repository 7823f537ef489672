package config

// =============================================================================
// Solver
// =============================================================================

const (
	// MakePositiveOffset shifts all tab positions into the positive range
	// before they reach the solver. Readers subtract it again.
	MakePositiveOffset = 5000.0

	// MaxSolverValue clamps size limits fed to the solver. Larger values
	// destabilize the iteration without adding information.
	MaxSolverValue = 5000.0

	// MaxSolveTries is how often a layout retries a non-optimal solve
	// before giving up and leaving the last known geometry.
	MaxSolveTries = 15
)

// =============================================================================
// Constraint Penalties
// =============================================================================

const (
	// ExtentPenalty is the baseline soft cost on preferred-size equalities.
	ExtentPenalty = 1.0

	// HighPenalty is applied to the dragged area's preferred-size
	// constraints for the duration of one solve so the user-chosen size
	// wins over the other members' preferences.
	HighPenalty = 100.0

	// InequalityPenalty makes max-size constraints near-hard without
	// wedging the solver into infeasibility.
	InequalityPenalty = 10000.0
)

// =============================================================================
// Geometry Matching
// =============================================================================

const (
	// TabPositionEpsilon is the distance below which two tab positions are
	// considered the same line.
	TabPositionEpsilon = 0.0001

	// DefaultSnapDistance is how close a dragged window edge must come to
	// a tab before tiling considers it a candidate.
	DefaultSnapDistance = 12.0

	// MinScreenOverlap is the inset applied to the screen rect when
	// checking whether a group is still reachable.
	MinScreenOverlap = 50.0

	// MoveToScreenMargin is how far a recovered group is pulled back
	// across the screen edge.
	MoveToScreenMargin = 75.0
)

// =============================================================================
// Demo Host Defaults
// =============================================================================

const (
	// DefaultWindowWidth is the default width for new demo windows.
	DefaultWindowWidth = 40

	// DefaultWindowHeight is the default height for new demo windows.
	DefaultWindowHeight = 12

	// MinWindowWidth is the minimum width a demo window can be resized to.
	MinWindowWidth = 12

	// MinWindowHeight is the minimum height a demo window can be resized to.
	MinWindowHeight = 4

	// DemoBorderWidth is the decorator border thickness of demo windows.
	DemoBorderWidth = 1.0

	// DemoTabHeight is the decorator tab bar height of demo windows.
	DemoTabHeight = 1.0
)
