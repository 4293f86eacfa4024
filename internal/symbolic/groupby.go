package symbolic

import (
	"fmt"

	"github.com/graphiti-verify/graphiti/internal/relalg"
	"github.com/graphiti-verify/graphiti/internal/solver"
)

// encodeGroupBy encodes relalg.GroupBy using the group-leader technique:
// every input row i is a candidate leader of the group of rows sharing
// its key values, present in the output iff row i itself is present and
// no earlier row shares its key (spec.md §4.6, "GroupBy"). Aggregate
// items are computed per leader by scanning every row's group membership.
func (ctx *EncodingContext) encodeGroupBy(t relalg.GroupBy) (*SymRelation, error) {
	rel, err := Encode(ctx, t.Sub)
	if err != nil {
		return nil, err
	}
	n := rel.N

	eq := make([][]solver.Var, n)
	for i := 0; i < n; i++ {
		eq[i] = make([]solver.Var, n)
	}
	for i := 0; i < n; i++ {
		eq[i][i] = ctx.pinBool(1)
		for j := 0; j < i; j++ {
			v, err := ctx.evalKeysEqual(rel, t.Keys, i, j)
			if err != nil {
				return nil, errorf("GroupBy", err)
			}
			eq[i][j] = v
			eq[j][i] = v
		}
	}

	membership := make([][]solver.Var, n)
	for i := 0; i < n; i++ {
		membership[i] = make([]solver.Var, n)
		for j := 0; j < n; j++ {
			m := ctx.S.NewVar(solver.Bool())
			ctx.S.Assert(solver.Constraint{
				Vars:  []solver.Var{m, rel.Present[j], eq[i][j]},
				Name:  "group membership",
				Check: func(v []int64) bool { return v[0] == v[1]*v[2] },
			})
			membership[i][j] = m
		}
	}

	leader := make([]solver.Var, n)
	for i := 0; i < n; i++ {
		vars := append([]solver.Var{rel.Present[i]}, membership[i][:i]...)
		result := ctx.S.NewVar(solver.Bool())
		full := append([]solver.Var{result}, vars...)
		leader[i] = result
		ctx.S.Assert(solver.Constraint{
			Vars: full,
			Name: "group leader",
			Check: func(v []int64) bool {
				res, present, earlier := v[0], v[1], v[2:]
				claimedEarlier := false
				for _, e := range earlier {
					if e == 1 {
						claimedEarlier = true
						break
					}
				}
				want := int64(0)
				if present == 1 && !claimedEarlier {
					want = 1
				}
				return res == want
			},
		})
	}

	columns := make(map[string]ColData, len(t.Items))
	order := make([]string, len(t.Items))
	for idx, item := range t.Items {
		order[idx] = item.Alias
		cd := ColData{Values: make([]solver.Var, n), Nulls: make([]solver.Var, n)}
		for i := 0; i < n; i++ {
			val, null, err := ctx.evalGroupScalar(rel, membership[i], item.Expr)
			if err != nil {
				return nil, errorf("GroupBy", err)
			}
			cd.Values[i] = val
			cd.Nulls[i] = null
		}
		columns[item.Alias] = cd
	}

	present := make([]solver.Var, n)
	if t.Having == nil {
		present = leader
	} else {
		for i := 0; i < n; i++ {
			havingVar, err := ctx.evalPredWith(func(e relalg.Expr) (solver.Var, solver.Var, error) {
				return ctx.evalGroupScalar(rel, membership[i], e)
			}, t.Having)
			if err != nil {
				return nil, errorf("GroupBy", err)
			}
			p := ctx.S.NewVar(solver.Bool())
			ctx.S.Assert(solver.Constraint{
				Vars:  []solver.Var{p, leader[i], havingVar},
				Name:  "having",
				Check: func(v []int64) bool { return v[0] == v[1]*v[2] },
			})
			present[i] = p
		}
	}

	return &SymRelation{N: n, Present: present, Columns: columns, Order: order}, nil
}

// evalKeysEqual reports whether rows i and j of rel agree on every GROUP
// BY key expression, treating two NULLs in the same key as equal.
func (ctx *EncodingContext) evalKeysEqual(rel *SymRelation, keys []relalg.Expr, i, j int) (solver.Var, error) {
	result := ctx.pinBool(1)
	li, lj := rowLookup(rel, i), rowLookup(rel, j)
	for _, key := range keys {
		vi, ni, err := ctx.evalScalar(li, key)
		if err != nil {
			return 0, err
		}
		vj, nj, err := ctx.evalScalar(lj, key)
		if err != nil {
			return 0, err
		}
		cellEq := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{cellEq, vi, ni, vj, nj},
			Name: "key equal",
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

// evalGroupScalar evaluates e for the group whose membership row is
// memberRow (memberRow[j] == 1 iff input row j belongs to this group).
// Non-aggregate expressions fall back to evaluating against the group's
// own leader row (any member row gives the same key value, by
// definition); aggregate Func expressions scan every member row.
func (ctx *EncodingContext) evalGroupScalar(rel *SymRelation, memberRow []solver.Var, e relalg.Expr) (value, null solver.Var, err error) {
	fn, ok := e.(relalg.Func)
	if !ok {
		return ctx.evalScalarAnyMember(rel, memberRow, e)
	}
	return ctx.evalAggregate(rel, memberRow, fn)
}

// evalScalarAnyMember evaluates a non-aggregate (key) expression for a
// group: every member row shares the same key values by construction, so
// the result is pinned to whichever member row comes first in index
// order.
func (ctx *EncodingContext) evalScalarAnyMember(rel *SymRelation, memberRow []solver.Var, e relalg.Expr) (solver.Var, solver.Var, error) {
	n := len(memberRow)
	vals := make([]solver.Var, n)
	nulls := make([]solver.Var, n)
	for i := 0; i < n; i++ {
		v, nl, err := ctx.evalScalar(rowLookup(rel, i), e)
		if err != nil {
			return 0, 0, err
		}
		vals[i] = v
		nulls[i] = nl
	}
	value := ctx.S.NewVar(solver.Range(IntLow, IntHigh))
	null := ctx.S.NewVar(solver.Bool())
	varsV := append([]solver.Var{value}, memberRow...)
	varsV = append(varsV, vals...)
	ctx.S.Assert(solver.Constraint{
		Vars: varsV,
		Name: "group key value = first member's",
		Check: func(v []int64) bool {
			result := v[0]
			rest := v[1:]
			member, cellVals := rest[:n], rest[n:]
			for i := 0; i < n; i++ {
				if member[i] == 1 {
					return result == cellVals[i]
				}
			}
			return true
		},
	})
	varsN := append([]solver.Var{null}, memberRow...)
	varsN = append(varsN, nulls...)
	ctx.S.Assert(solver.Constraint{
		Vars: varsN,
		Name: "group key null = first member's",
		Check: func(v []int64) bool {
			result := v[0]
			rest := v[1:]
			member, cellNulls := rest[:n], rest[n:]
			for i := 0; i < n; i++ {
				if member[i] == 1 {
					return result == cellNulls[i]
				}
			}
			return true
		},
	})
	return value, null, nil
}

// evalAggregate computes one of COUNT/SUM/AVG/MIN/MAX over the rows
// selected by memberRow (spec.md §4.6, "aggregate functions"). COUNT(*)
// counts every member row; every other form counts/folds only non-null
// values of its argument column. AVG truncates toward zero, matching
// integer division over the bounded integer domain.
func (ctx *EncodingContext) evalAggregate(rel *SymRelation, memberRow []solver.Var, fn relalg.Func) (solver.Var, solver.Var, error) {
	n := len(memberRow)
	var argVals, argNulls []solver.Var
	countStar := fn.Name == relalg.FuncCount && len(fn.Args) == 0
	if fn.Name == relalg.FuncCount && len(fn.Args) == 1 {
		if _, isStar := fn.Args[0].(relalg.Star); isStar {
			countStar = true
		}
	}
	if !countStar {
		if len(fn.Args) != 1 {
			return 0, 0, fmt.Errorf("%s expects exactly one argument", fn.Name)
		}
		argVals = make([]solver.Var, n)
		argNulls = make([]solver.Var, n)
		for i := 0; i < n; i++ {
			v, nl, err := ctx.evalScalar(rowLookup(rel, i), fn.Args[0])
			if err != nil {
				return 0, 0, err
			}
			argVals[i] = v
			argNulls[i] = nl
		}
	}

	value := ctx.S.NewVar(solver.Range(IntLow, IntHigh))
	null := ctx.pinBool(0)

	vars := append([]solver.Var{value}, memberRow...)
	vars = append(vars, argVals...)
	vars = append(vars, argNulls...)
	name := string(fn.Name)
	ctx.S.Assert(solver.Constraint{
		Vars: vars,
		Name: name,
		Check: func(v []int64) bool {
			result := v[0]
			rest := v[1:]
			member := rest[:n]
			rest = rest[n:]
			var vals, nulls []int64
			if !countStar {
				vals, nulls = rest[:n], rest[n:]
			}
			return result == computeAggregate(fn.Name, countStar, member, vals, nulls)
		},
	})
	return value, null, nil
}

func computeAggregate(name relalg.FuncKind, countStar bool, member, vals, nulls []int64) int64 {
	switch name {
	case relalg.FuncCount:
		var c int64
		for i, m := range member {
			if m != 1 {
				continue
			}
			if countStar || nulls[i] == 0 {
				c++
			}
		}
		return c
	case relalg.FuncSum, relalg.FuncAvg:
		var sum, count int64
		for i, m := range member {
			if m != 1 || nulls[i] == 1 {
				continue
			}
			sum += vals[i]
			count++
		}
		if name == relalg.FuncSum {
			return sum
		}
		if count == 0 {
			return 0
		}
		return sum / count
	case relalg.FuncMin, relalg.FuncMax:
		var best int64
		found := false
		for i, m := range member {
			if m != 1 || nulls[i] == 1 {
				continue
			}
			if !found || (name == relalg.FuncMin && vals[i] < best) || (name == relalg.FuncMax && vals[i] > best) {
				best = vals[i]
				found = true
			}
		}
		return best
	default:
		return 0
	}
}
