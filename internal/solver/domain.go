// Package solver provides the narrow SMT-like interface the symbolic
// encoder (internal/symbolic) drives, plus a bounded finite-domain
// backtracking backend. Every symbolic attribute in this system already
// has a finite integer bound (INT_LOW..INT_HIGH, DATE_LOW..DATE_HIGH,
// {0,1}, or a disjoint varchar range), so a real SMT solver is not
// required to get a sound, complete decision procedure — only an
// exhaustive enumeration that checks each constraint as soon as all its
// variables are bound (there is no domain propagation). The search shape
// (order variables, try each domain value, check, backtrack) follows the
// finite-domain style used by constraint solvers like gitrdm/gokando, reimplemented here for integer domains and
// closure-based constraints rather than a list/bitset unification engine.
package solver

import "fmt"

// Var identifies a solver variable.
type Var int

// Domain is a finite, ordered set of candidate integer values.
type Domain struct {
	Values []int64
}

// Range returns the domain {lo, lo+1, ..., hi}.
func Range(lo, hi int64) Domain {
	if hi < lo {
		return Domain{}
	}
	vals := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		vals = append(vals, v)
	}
	return Domain{Values: vals}
}

// Bool returns the two-valued {0,1} domain.
func Bool() Domain { return Domain{Values: []int64{0, 1}} }

// Single returns a domain containing only v (used to pin a variable).
func Single(v int64) Domain { return Domain{Values: []int64{v}} }

func (d Domain) String() string {
	if len(d.Values) == 0 {
		return "{}"
	}
	return fmt.Sprintf("{%d..%d, n=%d}", d.Values[0], d.Values[len(d.Values)-1], len(d.Values))
}
