package symbolic

import (
	"fmt"

	"github.com/graphiti-verify/graphiti/internal/solver"
)

// Semantics selects how two result relations are compared for
// equivalence (spec.md §4.6, "Equivalence formula").
type Semantics string

const (
	SemanticsBag  Semantics = "bag"
	SemanticsSet  Semantics = "set"
	SemanticsList Semantics = "list"
)

// BuildEquivalence asserts the constraints defining "left and right
// produce equal results under semantics" and returns the boolean
// variable carrying that truth value. Callers check equivalence at a
// given bound by asking the solver whether Not(equal) is satisfiable: if
// unsatisfiable, the two relations agree on every row the bound can
// represent; if satisfiable, the model is a counterexample.
func (ctx *EncodingContext) BuildEquivalence(left, right *SymRelation, semantics Semantics) (solver.Var, error) {
	if len(left.Order) != len(right.Order) {
		return 0, fmt.Errorf("arity mismatch: left has %d output columns, right has %d", len(left.Order), len(right.Order))
	}
	switch semantics {
	case SemanticsBag:
		return ctx.buildBagEquivalence(left, right)
	case SemanticsSet:
		return ctx.buildSetEquivalence(left, right)
	case SemanticsList:
		return ctx.buildListEquivalence(left, right)
	default:
		return 0, fmt.Errorf("unknown semantics %q", semantics)
	}
}

// crossRowEqual compares row i of a against row j of b, positionally by
// output order (the two relations may use different aliases for the same
// logical column).
func (ctx *EncodingContext) crossRowEqual(a *SymRelation, i int, b *SymRelation, j int) (solver.Var, error) {
	result := ctx.pinBool(1)
	for k, aName := range a.Order {
		bName := b.Order[k]
		acol, ok := a.Columns[aName]
		if !ok {
			return 0, fmt.Errorf("missing output column %q", aName)
		}
		bcol, ok := b.Columns[bName]
		if !ok {
			return 0, fmt.Errorf("missing output column %q", bName)
		}
		cellEq := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{cellEq, acol.Values[i], acol.Nulls[i], bcol.Values[j], bcol.Nulls[j]},
			Name: "cross cell equal",
			Check: func(v []int64) bool {
				want := int64(0)
				if v[2] == 1 && v[4] == 1 {
					want = 1
				} else if v[2] == 0 && v[4] == 0 && v[1] == v[3] {
					want = 1
				}
				return v[0] == want
			},
		})
		next := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{next, result, cellEq},
			Name:  "and-accumulate",
			Check: func(v []int64) bool { return v[0] == v[1]*v[2] },
		})
		result = next
	}
	return result, nil
}

// countMatches returns (and asserts) the number of present rows in
// target whose value equals probe's row pi.
func (ctx *EncodingContext) countMatches(probe *SymRelation, pi int, target *SymRelation) (solver.Var, error) {
	n := target.N
	eqs := make([]solver.Var, n)
	for j := 0; j < n; j++ {
		eq, err := ctx.crossRowEqual(probe, pi, target, j)
		if err != nil {
			return 0, err
		}
		eqs[j] = eq
	}
	count := ctx.S.NewVar(solver.Range(0, int64(n)))
	vars := append([]solver.Var{count}, target.Present...)
	vars = append(vars, eqs...)
	ctx.S.Assert(solver.Constraint{
		Vars: vars,
		Name: "count matches",
		Check: func(v []int64) bool {
			rest := v[1:]
			present, eqv := rest[:n], rest[n:]
			var c int64
			for i := 0; i < n; i++ {
				if present[i] == 1 && eqv[i] == 1 {
					c++
				}
			}
			return v[0] == c
		},
	})
	return count, nil
}

func (ctx *EncodingContext) andAll(vars []solver.Var) solver.Var {
	result := ctx.pinBool(1)
	for _, v := range vars {
		next := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{next, result, v},
			Name:  "and-accumulate",
			Check: func(a []int64) bool { return a[0] == a[1]*a[2] },
		})
		result = next
	}
	return result
}

// buildBagEquivalence: multiset equality. Every row's count of equal
// values must agree across both relations, checked once using every left
// row as a probe and once using every right row as a probe (so a value
// appearing only on one side, with nonzero count there and zero on the
// other, is caught).
func (ctx *EncodingContext) buildBagEquivalence(left, right *SymRelation) (solver.Var, error) {
	var rowOK []solver.Var
	for i := 0; i < left.N; i++ {
		cl, err := ctx.countMatches(left, i, left)
		if err != nil {
			return 0, err
		}
		cr, err := ctx.countMatches(left, i, right)
		if err != nil {
			return 0, err
		}
		rowOK = append(rowOK, ctx.presenceImpliesEqual(left.Present[i], cl, cr))
	}
	for j := 0; j < right.N; j++ {
		cl, err := ctx.countMatches(right, j, left)
		if err != nil {
			return 0, err
		}
		cr, err := ctx.countMatches(right, j, right)
		if err != nil {
			return 0, err
		}
		rowOK = append(rowOK, ctx.presenceImpliesEqual(right.Present[j], cl, cr))
	}
	return ctx.andAll(rowOK), nil
}

// buildSetEquivalence: membership equality, ignoring duplicate counts —
// every present row on either side must have at least one equal present
// row on the other side.
func (ctx *EncodingContext) buildSetEquivalence(left, right *SymRelation) (solver.Var, error) {
	var rowOK []solver.Var
	for i := 0; i < left.N; i++ {
		cr, err := ctx.countMatches(left, i, right)
		if err != nil {
			return 0, err
		}
		rowOK = append(rowOK, ctx.presenceImpliesPositive(left.Present[i], cr))
	}
	for j := 0; j < right.N; j++ {
		cl, err := ctx.countMatches(right, j, left)
		if err != nil {
			return 0, err
		}
		rowOK = append(rowOK, ctx.presenceImpliesPositive(right.Present[j], cl))
	}
	return ctx.andAll(rowOK), nil
}

// buildListEquivalence: positional equality among present rows in index
// order, plus equal length — the k-th present row of left must equal the
// k-th present row of right.
func (ctx *EncodingContext) buildListEquivalence(left, right *SymRelation) (solver.Var, error) {
	leftRank := ctx.prefixPresenceCounts(left)
	rightRank := ctx.prefixPresenceCounts(right)

	var rowOK []solver.Var
	for i := 0; i < left.N; i++ {
		ok, err := ctx.rankMatches(left, i, leftRank[i], right, rightRank)
		if err != nil {
			return 0, err
		}
		rowOK = append(rowOK, ctx.presenceImpliesEqual(left.Present[i], ok, ctx.pinInt(1)))
	}
	for j := 0; j < right.N; j++ {
		ok, err := ctx.rankMatches(right, j, rightRank[j], left, leftRank)
		if err != nil {
			return 0, err
		}
		rowOK = append(rowOK, ctx.presenceImpliesEqual(right.Present[j], ok, ctx.pinInt(1)))
	}

	leftTotal := leftRank[left.N-1]
	rightTotal := rightRank[right.N-1]
	lengthsEq := ctx.S.NewVar(solver.Bool())
	ctx.S.Assert(solver.Constraint{
		Vars: []solver.Var{lengthsEq, leftTotal, rightTotal},
		Name: "equal length",
		Check: func(v []int64) bool {
			want := int64(0)
			if v[1] == v[2] {
				want = 1
			}
			return v[0] == want
		},
	})
	rowOK = append(rowOK, lengthsEq)
	return ctx.andAll(rowOK), nil
}

// prefixPresenceCounts returns, for each row i, the number of present
// rows at index <= i — row i's 1-based position among present rows, if
// row i is itself present.
func (ctx *EncodingContext) prefixPresenceCounts(rel *SymRelation) []solver.Var {
	ranks := make([]solver.Var, rel.N)
	running := ctx.pinInt(0)
	for i := 0; i < rel.N; i++ {
		next := ctx.S.NewVar(solver.Range(0, int64(rel.N)))
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{next, running, rel.Present[i]},
			Name:  "prefix presence count",
			Check: func(v []int64) bool { return v[0] == v[1]+v[2] },
		})
		ranks[i] = next
		running = next
	}
	return ranks
}

// rankMatches reports (as a fresh boolean var) whether some present row
// of target at the same rank as probe's row pi has an equal value.
func (ctx *EncodingContext) rankMatches(probe *SymRelation, pi int, probeRank solver.Var, target *SymRelation, targetRank []solver.Var) (solver.Var, error) {
	n := target.N
	matched := make([]solver.Var, n)
	for j := 0; j < n; j++ {
		eq, err := ctx.crossRowEqual(probe, pi, target, j)
		if err != nil {
			return 0, err
		}
		sameRank := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{sameRank, probeRank, targetRank[j]},
			Name: "same rank",
			Check: func(v []int64) bool {
				want := int64(0)
				if v[1] == v[2] {
					want = 1
				}
				return v[0] == want
			},
		})
		both := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{both, target.Present[j], sameRank, eq},
			Name:  "rank+value match",
			Check: func(v []int64) bool { return v[0] == v[1]*v[2]*v[3] },
		})
		matched[j] = both
	}
	result := ctx.S.NewVar(solver.Bool())
	vars := append([]solver.Var{result}, matched...)
	ctx.S.Assert(solver.Constraint{
		Vars: vars,
		Name: "exists rank match",
		Check: func(v []int64) bool {
			for _, m := range v[1:] {
				if m == 1 {
					return v[0] == 1
				}
			}
			return v[0] == 0
		},
	})
	return result, nil
}

// presenceImpliesEqual returns a var true unless present holds and a!=b.
func (ctx *EncodingContext) presenceImpliesEqual(present, a, b solver.Var) solver.Var {
	result := ctx.S.NewVar(solver.Bool())
	ctx.S.Assert(solver.Constraint{
		Vars: []solver.Var{result, present, a, b},
		Name: "presence implies equal",
		Check: func(v []int64) bool {
			if v[1] == 0 {
				return v[0] == 1
			}
			want := int64(0)
			if v[2] == v[3] {
				want = 1
			}
			return v[0] == want
		},
	})
	return result
}

// presenceImpliesPositive returns a var true unless present holds and
// count == 0.
func (ctx *EncodingContext) presenceImpliesPositive(present, count solver.Var) solver.Var {
	result := ctx.S.NewVar(solver.Bool())
	ctx.S.Assert(solver.Constraint{
		Vars: []solver.Var{result, present, count},
		Name: "presence implies member exists",
		Check: func(v []int64) bool {
			if v[1] == 0 {
				return v[0] == 1
			}
			want := int64(0)
			if v[2] > 0 {
				want = 1
			}
			return v[0] == want
		},
	})
	return result
}
