package symbolic

import (
	"github.com/graphiti-verify/graphiti/internal/relalg"
	"github.com/graphiti-verify/graphiti/internal/solver"
)

// ColData holds one column's per-row VALUE/NULL variables, parallel to
// SymRelation.Present.
type ColData struct {
	Values []solver.Var
	Nulls  []solver.Var
}

// SymRelation is the symbolic encoding of a relalg.SQL node: a fixed
// number of candidate rows N, a per-row presence predicate, and a set of
// named columns (keyed "alias.col" for table, join and selection
// relations, and by output alias for Project, GroupBy and UNION results)
// each holding one VALUE/NULL pair per
// row (spec.md §4.6, "Relational encoding"). Order records the output
// column names in RETURN/SELECT order for relations that define an
// output (Project, GroupBy, and anything wrapping them); it is nil for
// intermediate relations (FromTable, Join, Select) that do not.
type SymRelation struct {
	N       int
	Present []solver.Var
	Columns map[string]ColData
	Order   []string
}

// RowLookup resolves a "alias.col" key to its VALUE/NULL variable pair
// for one specific (implicit) row.
type RowLookup func(key string) (value, null solver.Var, ok bool)

func rowLookup(rel *SymRelation, i int) RowLookup {
	return func(key string) (solver.Var, solver.Var, bool) {
		col, ok := rel.Columns[key]
		if !ok {
			return 0, 0, false
		}
		return col.Values[i], col.Nulls[i], true
	}
}

func pairLookup(left *SymRelation, i int, right *SymRelation, j int) RowLookup {
	return func(key string) (solver.Var, solver.Var, bool) {
		if col, ok := left.Columns[key]; ok {
			return col.Values[i], col.Nulls[i], true
		}
		if col, ok := right.Columns[key]; ok {
			return col.Values[j], col.Nulls[j], true
		}
		return 0, 0, false
	}
}

// pinInt returns a variable pinned to the single value v.
func (ctx *EncodingContext) pinInt(v int64) solver.Var {
	return ctx.S.NewVar(solver.Single(v))
}

func (ctx *EncodingContext) pinBool(v int64) solver.Var {
	return ctx.S.NewVar(solver.Single(v))
}

// Encode translates one relalg.SQL node into a SymRelation, recursing
// into its subrelations.
func Encode(ctx *EncodingContext, n relalg.SQL) (*SymRelation, error) {
	switch t := n.(type) {
	case relalg.FromTable:
		return ctx.encodeFromTable(t)
	case relalg.Select:
		return ctx.encodeSelect(t)
	case relalg.Join:
		return ctx.encodeJoin(t)
	case relalg.Project:
		return ctx.encodeProject(t)
	case relalg.GroupBy:
		return ctx.encodeGroupBy(t)
	case relalg.OrderByIR:
		rel, err := Encode(ctx, t.Sub)
		if err != nil {
			return nil, err
		}
		// Every ORDER BY is dropped here, the outermost one included: the
		// sort key is not encoded, so list semantics compares rows in their
		// encoding order, not in ORDER BY order. An inner ORDER BY is not
		// observable (§9's documented design choice).
		return rel, nil
	case relalg.UnionIR:
		return ctx.encodeUnion(t)
	case relalg.WithCTE:
		return ctx.encodeCTE(t)
	default:
		return nil, &NotSupportedError{Reason: "unrecognized SQL IR node"}
	}
}

func (ctx *EncodingContext) encodeFromTable(t relalg.FromTable) (*SymRelation, error) {
	st, ok := ctx.Tables[t.Table]
	if !ok {
		return nil, errorf("FromTable", &NotSupportedError{Reason: "no symbolic table for " + t.Table})
	}
	n := ctx.Bound
	present := make([]solver.Var, n)
	columns := make(map[string]ColData, len(st.Table.Attrs))
	for _, attr := range st.Table.Attrs {
		cd := ColData{Values: make([]solver.Var, n), Nulls: make([]solver.Var, n)}
		for i, tup := range st.Tuples {
			cd.Values[i] = tup.Values[attr]
			cd.Nulls[i] = tup.Nulls[attr]
		}
		columns[t.Alias+"."+attr] = cd
	}
	for i, tup := range st.Tuples {
		p := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars: []solver.Var{p, tup.Deleted},
			Name: t.Table + " presence = not deleted",
			Check: func(v []int64) bool { return v[0]+v[1] == 1 },
		})
		present[i] = p
	}
	return &SymRelation{N: n, Present: present, Columns: columns}, nil
}

func (ctx *EncodingContext) encodeSelect(t relalg.Select) (*SymRelation, error) {
	rel, err := Encode(ctx, t.Sub)
	if err != nil {
		return nil, err
	}
	present := make([]solver.Var, rel.N)
	for i := 0; i < rel.N; i++ {
		predVar, err := ctx.evalPred(rowLookup(rel, i), t.Pred)
		if err != nil {
			return nil, errorf("Select", err)
		}
		p := ctx.S.NewVar(solver.Bool())
		ctx.S.Assert(solver.Constraint{
			Vars:  []solver.Var{p, rel.Present[i], predVar},
			Name:  "select presence",
			Check: func(v []int64) bool { return v[0] == v[1]*v[2] },
		})
		present[i] = p
	}
	return &SymRelation{N: rel.N, Present: present, Columns: rel.Columns}, nil
}

func (ctx *EncodingContext) encodeProject(t relalg.Project) (*SymRelation, error) {
	rel, err := Encode(ctx, t.Sub)
	if err != nil {
		return nil, err
	}
	columns := make(map[string]ColData, len(t.Items))
	order := make([]string, len(t.Items))
	for _, item := range t.Items {
		cd := ColData{Values: make([]solver.Var, rel.N), Nulls: make([]solver.Var, rel.N)}
		columns[item.Alias] = cd
	}
	for i := 0; i < rel.N; i++ {
		lookup := rowLookup(rel, i)
		for _, item := range t.Items {
			val, null, err := ctx.evalScalar(lookup, item.Expr)
			if err != nil {
				return nil, errorf("Project", err)
			}
			columns[item.Alias].Values[i] = val
			columns[item.Alias].Nulls[i] = null
		}
	}
	for i, item := range t.Items {
		order[i] = item.Alias
	}
	return &SymRelation{N: rel.N, Present: rel.Present, Columns: columns, Order: order}, nil
}

func (ctx *EncodingContext) encodeUnion(t relalg.UnionIR) (*SymRelation, error) {
	left, err := Encode(ctx, t.Left)
	if err != nil {
		return nil, err
	}
	right, err := Encode(ctx, t.Right)
	if err != nil {
		return nil, err
	}
	if len(left.Order) != len(right.Order) {
		return nil, &NotSupportedError{Reason: "UNION operands project a different number of columns"}
	}
	n := left.N + right.N
	present := make([]solver.Var, n)
	columns := make(map[string]ColData, len(left.Order))
	for idx, name := range left.Order {
		cd := ColData{Values: make([]solver.Var, n), Nulls: make([]solver.Var, n)}
		lcol := left.Columns[name]
		rcol := right.Columns[right.Order[idx]]
		copy(cd.Values[:left.N], lcol.Values)
		copy(cd.Nulls[:left.N], lcol.Nulls)
		copy(cd.Values[left.N:], rcol.Values)
		copy(cd.Nulls[left.N:], rcol.Nulls)
		columns[name] = cd
	}
	copy(present[:left.N], left.Present)
	copy(present[left.N:], right.Present)

	if !t.All {
		// UNION (distinct): suppress duplicate rows by zeroing the
		// presence of any row whose value tuple matches an earlier
		// present row's, using rowsValueEqual (two NULLs compare
		// equal, the same rule crossRowEqual applies in the
		// equivalence formula).
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				eq, err := ctx.rowsValueEqual(columns, left.Order, i, j)
				if err != nil {
					return nil, errorf("UnionIR", err)
				}
				suppressed := ctx.S.NewVar(solver.Bool())
				prev := present[i]
				ctx.S.Assert(solver.Constraint{
					Vars: []solver.Var{suppressed, prev, present[j], eq},
					Name: "union distinct suppression",
					Check: func(v []int64) bool {
						cur, base, otherPresent, rowsEq := v[0], v[1], v[2], v[3]
						if otherPresent == 1 && rowsEq == 1 {
							return cur == 0
						}
						return cur == base
					},
				})
				present[i] = suppressed
			}
		}
	}
	return &SymRelation{N: n, Present: present, Columns: columns, Order: append([]string(nil), left.Order...)}, nil
}

func (ctx *EncodingContext) encodeCTE(t relalg.WithCTE) (*SymRelation, error) {
	// FromTable only resolves induced-schema table names, and no induced
	// table is ever named after a CTE, so Body cannot reference Name as a
	// FromTable in the bounded encoder: encoding it surfaces the
	// FromTable-side NotSupportedError ("no symbolic table for <Name>")
	// rather than silently misencoding it. Sub is still encoded, for its
	// constraints, before Body is attempted.
	if _, err := Encode(ctx, t.Sub); err != nil {
		return nil, errorf("WithCTE", err)
	}
	return Encode(ctx, t.Body)
}
