package symbolic

import (
	"github.com/graphiti-verify/graphiti/internal/relalg"
	"github.com/graphiti-verify/graphiti/internal/solver"
)

// encodeJoin emits the pairwise cross product of left×right, gated by
// the presence of both sides and the ON predicate, plus — for LEFT joins
// — one padded row per left tuple that matched nothing, with right-side
// columns forced NULL (spec.md §4.6, "Join").
func (ctx *EncodingContext) encodeJoin(t relalg.Join) (*SymRelation, error) {
	left, err := Encode(ctx, t.Left)
	if err != nil {
		return nil, err
	}
	right, err := Encode(ctx, t.Right)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(left.Columns)+len(right.Columns))
	for k := range left.Columns {
		keys[k] = true
	}
	for k := range right.Columns {
		keys[k] = true
	}

	n := left.N*right.N + left.N
	present := make([]solver.Var, n)
	columns := make(map[string]ColData, len(keys))
	for k := range keys {
		columns[k] = ColData{Values: make([]solver.Var, n), Nulls: make([]solver.Var, n)}
	}

	for i := 0; i < left.N; i++ {
		for j := 0; j < right.N; j++ {
			idx := i*right.N + j
			lookup := pairLookup(left, i, right, j)
			onVar, err := ctx.evalPred(lookup, t.On)
			if err != nil {
				return nil, errorf("Join", err)
			}
			p := ctx.S.NewVar(solver.Bool())
			ctx.S.Assert(solver.Constraint{
				Vars: []solver.Var{p, left.Present[i], right.Present[j], onVar},
				Name: "inner pair presence",
				Check: func(v []int64) bool {
					return v[0] == v[1]*v[2]*v[3]
				},
			})
			present[idx] = p
			for k := range keys {
				if col, ok := left.Columns[k]; ok {
					columns[k].Values[idx] = col.Values[i]
					columns[k].Nulls[idx] = col.Nulls[i]
				} else if col, ok := right.Columns[k]; ok {
					columns[k].Values[idx] = col.Values[j]
					columns[k].Nulls[idx] = col.Nulls[j]
				}
			}
		}
	}

	for i := 0; i < left.N; i++ {
		idx := left.N*right.N + i
		if t.Kind != relalg.JoinLeft {
			present[idx] = ctx.pinBool(0)
		} else {
			pairVars := make([]solver.Var, right.N)
			for j := 0; j < right.N; j++ {
				pairVars[j] = present[i*right.N+j]
			}
			vars := append([]solver.Var{left.Present[i]}, pairVars...)
			p := ctx.S.NewVar(solver.Bool())
			vars = append([]solver.Var{p}, vars...)
			ctx.S.Assert(solver.Constraint{
				Vars: vars,
				Name: "left pad presence",
				Check: func(v []int64) bool {
					result, leftPresent, pairs := v[0], v[1], v[2:]
					matched := false
					for _, pv := range pairs {
						if pv == 1 {
							matched = true
							break
						}
					}
					want := int64(0)
					if leftPresent == 1 && !matched {
						want = 1
					}
					return result == want
				},
			})
			present[idx] = p
		}
		for k := range keys {
			if col, ok := left.Columns[k]; ok {
				columns[k].Values[idx] = col.Values[i]
				columns[k].Nulls[idx] = col.Nulls[i]
			} else {
				columns[k].Values[idx] = ctx.pinInt(0)
				columns[k].Nulls[idx] = ctx.pinBool(1)
			}
		}
	}

	return &SymRelation{N: n, Present: present, Columns: columns}, nil
}
