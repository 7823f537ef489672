// Package solver implements a small linear constraint solver for
// axis-aligned layout problems. A LinearSpec owns a set of variables and
// linear equality/inequality constraints; constraints are hard by
// default and become soft when given violation penalties.
package solver

// ResultType is the outcome of a Solve call.
type ResultType int

const (
	// Optimal means every hard constraint is satisfied and the soft
	// penalty sum has converged.
	Optimal ResultType = iota
	// Suboptimal means the hard constraints are satisfied but the
	// iteration stopped before the soft terms settled. Callers may
	// simply solve again.
	Suboptimal
	// Infeasible means the hard constraints contradict each other.
	Infeasible
)

func (r ResultType) String() string {
	switch r {
	case Optimal:
		return "optimal"
	case Suboptimal:
		return "suboptimal"
	case Infeasible:
		return "infeasible"
	}
	return "unknown"
}

// OperatorType is the relation of a constraint's left side to its right side.
type OperatorType int

const (
	// EQ constrains the weighted variable sum to equal the right side.
	EQ OperatorType = iota
	// LE constrains the sum to stay at or below the right side.
	LE
	// GE constrains the sum to stay at or above the right side.
	GE
)

// HardPenalty marks a constraint side as not violable.
const HardPenalty = -1.0

// Variable is a scalar unknown of a LinearSpec. Its range is unbounded;
// callers bound it through constraints.
type Variable struct {
	spec  *LinearSpec
	value float64
}

// Value returns the variable's current value.
func (v *Variable) Value() float64 { return v.value }

// SetValue overwrites the variable's value. Solve uses the current
// values as the starting point, so seeding positions keeps solutions
// close to what is on screen.
func (v *Variable) SetValue(value float64) { v.value = value }

// IsEqual adds a hard equality between this variable and another and
// returns the constraint.
func (v *Variable) IsEqual(other *Variable) *Constraint {
	return v.spec.AddConstraint(
		[]Summand{{1, v}, {-1, other}}, EQ, 0)
}

// Summand is one coefficient*variable term of a constraint's left side.
type Summand struct {
	Coeff float64
	Var   *Variable
}

// Constraint relates a weighted sum of variables to a constant.
type Constraint struct {
	spec       *LinearSpec
	summands   []Summand
	op         OperatorType
	rightSide  float64
	penaltyNeg float64
	penaltyPos float64
}

// Op returns the constraint's relation.
func (c *Constraint) Op() OperatorType { return c.op }

// RightSide returns the constant side.
func (c *Constraint) RightSide() float64 { return c.rightSide }

// SetRightSide updates the constant side without solving.
func (c *Constraint) SetRightSide(value float64) { c.rightSide = value }

// PenaltyNeg returns the cost of undershooting the right side, or
// HardPenalty.
func (c *Constraint) PenaltyNeg() float64 { return c.penaltyNeg }

// PenaltyPos returns the cost of overshooting the right side, or
// HardPenalty.
func (c *Constraint) PenaltyPos() float64 { return c.penaltyPos }

// SetPenaltyNeg updates the undershoot cost.
func (c *Constraint) SetPenaltyNeg(penalty float64) { c.penaltyNeg = penalty }

// SetPenaltyPos updates the overshoot cost.
func (c *Constraint) SetPenaltyPos(penalty float64) { c.penaltyPos = penalty }

// IsHard reports whether the constraint tolerates no violation.
func (c *Constraint) IsHard() bool {
	return c.penaltyNeg < 0 && c.penaltyPos < 0
}

// LinearSpec is a set of variables and constraints over them.
type LinearSpec struct {
	variables   []*Variable
	constraints []*Constraint
}

// NewLinearSpec returns an empty spec.
func NewLinearSpec() *LinearSpec {
	return &LinearSpec{}
}

// AddVariable creates a new unbounded variable with value 0.
func (s *LinearSpec) AddVariable() *Variable {
	v := &Variable{spec: s}
	s.variables = append(s.variables, v)
	return v
}

// RemoveVariable drops a variable. Constraints referencing it must be
// removed first.
func (s *LinearSpec) RemoveVariable(v *Variable) bool {
	for i, candidate := range s.variables {
		if candidate == v {
			s.variables = append(s.variables[:i], s.variables[i+1:]...)
			return true
		}
	}
	return false
}

// AddConstraint installs a hard constraint sum(summands) op rightSide.
func (s *LinearSpec) AddConstraint(summands []Summand, op OperatorType,
	rightSide float64) *Constraint {
	return s.addConstraint(summands, op, rightSide, HardPenalty, HardPenalty)
}

// AddSoftConstraint installs a constraint whose violation is charged
// penaltyNeg (undershoot) and penaltyPos (overshoot) instead of being
// forbidden.
func (s *LinearSpec) AddSoftConstraint(summands []Summand, op OperatorType,
	rightSide, penaltyNeg, penaltyPos float64) *Constraint {
	return s.addConstraint(summands, op, rightSide, penaltyNeg, penaltyPos)
}

func (s *LinearSpec) addConstraint(summands []Summand, op OperatorType,
	rightSide, penaltyNeg, penaltyPos float64) *Constraint {
	if len(summands) == 0 {
		return nil
	}
	for _, summand := range summands {
		if summand.Var == nil || summand.Var.spec != s {
			return nil
		}
	}
	c := &Constraint{
		spec:       s,
		summands:   append([]Summand(nil), summands...),
		op:         op,
		rightSide:  rightSide,
		penaltyNeg: penaltyNeg,
		penaltyPos: penaltyPos,
	}
	s.constraints = append(s.constraints, c)
	return c
}

// RemoveConstraint detaches a constraint; the constraint is dead
// afterwards. Removing nil or an already removed constraint is a no-op.
func (s *LinearSpec) RemoveConstraint(c *Constraint) bool {
	if c == nil {
		return false
	}
	for i, candidate := range s.constraints {
		if candidate == c {
			s.constraints = append(s.constraints[:i], s.constraints[i+1:]...)
			c.spec = nil
			return true
		}
	}
	return false
}

// CountConstraints returns the number of live constraints.
func (s *LinearSpec) CountConstraints() int { return len(s.constraints) }

// CountVariables returns the number of live variables.
func (s *LinearSpec) CountVariables() int { return len(s.variables) }
