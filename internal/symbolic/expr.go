package symbolic

import (
	"fmt"

	"github.com/graphiti-verify/graphiti/internal/relalg"
	"github.com/graphiti-verify/graphiti/internal/solver"
)

// evalScalar evaluates a non-aggregate expression against one row,
// returning its VALUE and NULL variables. relalg.Func (an aggregate) is
// rejected here; aggregates are only meaningful inside GroupBy, which
// evaluates them with evalAggregate instead.
func (ctx *EncodingContext) evalScalar(lookup RowLookup, e relalg.Expr) (value, null solver.Var, err error) {
	switch v := e.(type) {
	case relalg.Column:
		val, n, ok := lookup(v.Alias + "." + v.Col)
		if !ok {
			return 0, 0, fmt.Errorf("unbound column %s.%s", v.Alias, v.Col)
		}
		return val, n, nil
	case relalg.Number:
		return ctx.pinInt(v.Value), ctx.pinBool(0), nil
	case relalg.String:
		return ctx.pinInt(ctx.Strings.Intern(v.Value)), ctx.pinBool(0), nil
	case relalg.Star:
		return 0, 0, fmt.Errorf("* is not a scalar value")
	case relalg.Func:
		return 0, 0, &NotSupportedError{Reason: "aggregate " + string(v.Name) + " used outside GROUP BY"}
	default:
		return 0, 0, fmt.Errorf("unrecognized expression")
	}
}

// scalarEval resolves one expression to its VALUE/NULL variable pair; it
// is evalScalar closed over a row (the common case) or a group-aware
// evaluator that additionally understands aggregate Func expressions
// (used by GroupBy's Items and HAVING).
type scalarEval func(e relalg.Expr) (value, null solver.Var, err error)

// evalPred evaluates a predicate against one row, returning a fresh
// boolean variable constrained to its truth value under SQL three-valued
// logic (a comparison with either side NULL is "unknown", folded to
// false per spec.md §4.6's Select rule).
func (ctx *EncodingContext) evalPred(lookup RowLookup, p relalg.Predicate) (solver.Var, error) {
	return ctx.evalPredWith(func(e relalg.Expr) (solver.Var, solver.Var, error) {
		return ctx.evalScalar(lookup, e)
	}, p)
}

// evalPredWith is evalPred generalized over the scalar evaluator, so
// GroupBy's HAVING clause (whose expressions may be aggregates) can reuse
// the same boolean-combinator logic as ordinary row predicates.
func (ctx *EncodingContext) evalPredWith(eval scalarEval, p relalg.Predicate) (solver.Var, error) {
	switch v := p.(type) {
	case relalg.Cmp:
		lv, ln, err := eval(v.Left)
		if err != nil {
			return 0, err
		}
		rv, rn, err := eval(v.Right)
		if err != nil {
			return 0, err
		}
		result := ctx.S.NewVar(solver.Bool())
		op := v.Op
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{result, lv, ln, rv, rn},
			Name: "cmp " + string(op),
			Check: func(vals []int64) bool {
				res, lval, lnull, rval, rnull := vals[0], vals[1], vals[2], vals[3], vals[4]
				var truth int64
				if lnull == 1 || rnull == 1 {
					truth = 0
				} else if compareOp(op, lval, rval) {
					truth = 1
				}
				return res == truth
			},
		})
		return result, nil

	case relalg.And:
		lv, err := ctx.evalPredWith(eval, v.Left)
		if err != nil {
			return 0, err
		}
		rv, err := ctx.evalPredWith(eval, v.Right)
		if err != nil {
			return 0, err
		}
		result := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{result, lv, rv},
			Name:  "and",
			Check: func(vals []int64) bool { return vals[0] == vals[1]*vals[2] },
		})
		return result, nil

	case relalg.Or:
		lv, err := ctx.evalPredWith(eval, v.Left)
		if err != nil {
			return 0, err
		}
		rv, err := ctx.evalPredWith(eval, v.Right)
		if err != nil {
			return 0, err
		}
		result := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{result, lv, rv},
			Name: "or",
			Check: func(vals []int64) bool {
				want := int64(0)
				if vals[1] == 1 || vals[2] == 1 {
					want = 1
				}
				return vals[0] == want
			},
		})
		return result, nil

	case relalg.Not:
		sv, err := ctx.evalPredWith(eval, v.Sub)
		if err != nil {
			return 0, err
		}
		result := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{result, sv},
			Name:  "not",
			Check: func(vals []int64) bool { return vals[0] == 1-vals[1] },
		})
		return result, nil

	default:
		return 0, fmt.Errorf("unrecognized predicate")
	}
}

func compareOp(op relalg.CmpOp, l, r int64) bool {
	switch op {
	case relalg.CmpEq:
		return l == r
	case relalg.CmpNe:
		return l != r
	case relalg.CmpLt:
		return l < r
	case relalg.CmpLe:
		return l <= r
	case relalg.CmpGt:
		return l > r
	case relalg.CmpGe:
		return l >= r
	default:
		return false
	}
}

// rowsValueEqual asserts and returns a fresh boolean variable for
// "rows i and j of columns (keyed by cols, the output column names) hold
// equal values", where two NULLs in the same column are considered
// equal (the row-identity sense used for bag/set comparison and UNION
// DISTINCT deduplication, not SQL's null-is-never-equal operator
// semantics).
func (ctx *EncodingContext) rowsValueEqual(columns map[string]ColData, cols []string, i, j int) (solver.Var, error) {
	result := ctx.pinBool(1)
	for _, name := range cols {
		col, ok := columns[name]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		cellEq := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{cellEq, col.Values[i], col.Nulls[i], col.Values[j], col.Nulls[j]},
			Name: "cell equal " + name,
			Check: func(v []int64) bool {
				want := int64(0)
				if v[2] == 1 && v[4] == 1 {
					want = 1 // both null
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
