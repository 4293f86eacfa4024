package solver

import "context"

// Result is the outcome of a CheckSat call.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Constraint is a closure over a fixed set of variables. Check receives
// the variables' current assignment in the same order as Vars and
// reports whether the constraint is satisfied. A closure-based
// constraint is coarser-grained than a term-level SMT assertion, but it
// is all the bounded encoder needs and keeps this package free of a full
// expression language of its own.
type Constraint struct {
	Vars  []Var
	Check func(vals []int64) bool
	Name  string
}

// Model is a satisfying assignment returned by CheckSat.
type Model struct {
	assign map[Var]int64
}

// Value returns the assigned value of v. It panics if v has no
// assignment, which indicates a bug in the caller (every declared
// variable is assigned by a successful CheckSat).
func (m Model) Value(v Var) int64 {
	val, ok := m.assign[v]
	if !ok {
		panic("solver: variable has no assignment in model")
	}
	return val
}

// Solver is the narrow interface the symbolic encoder programs against.
// The bounded in-process backend (below) is the only implementation
// today; a production deployment is expected to supply a real SMT-backed
// Solver, out of this module's scope per spec.md §1.
type Solver interface {
	NewVar(d Domain) Var
	Assert(c Constraint)
	Push()
	Pop()
	CheckSat(ctx context.Context) (Result, error)
	Model() Model
}

// BoundedSolver is a bounded finite-domain backtracking solver: Assert
// adds a closure constraint, Push/Pop bracket a scope of assertions (Pop
// drops constraints only; variables declared inside the scope remain),
// and CheckSat performs a depth-first
// search over the Cartesian product of all variable domains, checking
// each constraint as soon as all of its variables are bound. The search
// shape follows the finite-domain labeling style of constraint solvers
// such as gitrdm/gokando's pkg/minikanren (fd_domains.go, labeling.go),
// reimplemented here for integer domains and closure-based constraints.
type BoundedSolver struct {
	domains     map[Var]Domain
	order       []Var
	constraints []Constraint
	// scopeMarks[i] records len(constraints) at the i-th Push.
	scopeMarks []int
	next       Var
	lastModel  Model
}

// New returns an empty bounded solver.
func New() *BoundedSolver {
	return &BoundedSolver{domains: make(map[Var]Domain)}
}

// NewVar declares a fresh variable ranging over d.
func (s *BoundedSolver) NewVar(d Domain) Var {
	v := s.next
	s.next++
	s.domains[v] = d
	s.order = append(s.order, v)
	return v
}

// Assert adds c to the current scope.
func (s *BoundedSolver) Assert(c Constraint) {
	s.constraints = append(s.constraints, c)
}

// Push opens a new assertion scope.
func (s *BoundedSolver) Push() {
	s.scopeMarks = append(s.scopeMarks, len(s.constraints))
}

// Pop discards every constraint asserted since the matching Push. It is
// a no-op if there is no open scope.
func (s *BoundedSolver) Pop() {
	if len(s.scopeMarks) == 0 {
		return
	}
	mark := s.scopeMarks[len(s.scopeMarks)-1]
	s.scopeMarks = s.scopeMarks[:len(s.scopeMarks)-1]
	s.constraints = s.constraints[:mark]
}

// Model returns the assignment found by the most recent successful
// CheckSat call.
func (s *BoundedSolver) Model() Model {
	return s.lastModel
}

// readyConstraints groups constraints by the index of the last variable
// (in search order) they depend on, so CheckSat can prune a branch the
// moment a violated constraint's variables are all bound.
func (s *BoundedSolver) readyConstraints(pos map[Var]int) map[int][]Constraint {
	out := make(map[int][]Constraint)
	for _, c := range s.constraints {
		last := -1
		for _, v := range c.Vars {
			if p := pos[v]; p > last {
				last = p
			}
		}
		out[last] = append(out[last], c)
	}
	return out
}

// CheckSat searches for a satisfying assignment, respecting ctx
// cancellation/deadline. It returns Unknown (not Unsat) if the context is
// cancelled before the search space is exhausted, since "unsat" would
// otherwise overclaim completeness.
func (s *BoundedSolver) CheckSat(ctx context.Context) (Result, error) {
	pos := make(map[Var]int, len(s.order))
	for i, v := range s.order {
		pos[v] = i
	}
	ready := s.readyConstraints(pos)
	assign := make([]int64, len(s.order))

	var cancelled bool
	var search func(i int) bool
	search = func(i int) bool {
		if ctx.Err() != nil {
			cancelled = true
			return false
		}
		if i == len(s.order) {
			return true
		}
		v := s.order[i]
		for _, val := range s.domains[v].Values {
			assign[i] = val
			if s.violatesAt(i, ready, pos, assign) {
				continue
			}
			if search(i + 1) {
				return true
			}
			if cancelled {
				return false
			}
		}
		return false
	}

	ok := search(0)
	if cancelled {
		return Unknown, ctx.Err()
	}
	if !ok {
		return Unsat, nil
	}
	m := Model{assign: make(map[Var]int64, len(s.order))}
	for i, v := range s.order {
		m.assign[v] = assign[i]
	}
	s.lastModel = m
	return Sat, nil
}

// violatesAt reports whether any constraint whose last variable is at
// position i is violated by the partial assignment built so far.
func (s *BoundedSolver) violatesAt(i int, ready map[int][]Constraint, pos map[Var]int, assign []int64) bool {
	for _, c := range ready[i] {
		vals := make([]int64, len(c.Vars))
		for j, v := range c.Vars {
			vals[j] = assign[pos[v]]
		}
		if !c.Check(vals) {
			return true
		}
	}
	return false
}
