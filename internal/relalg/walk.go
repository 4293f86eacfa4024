package relalg

// Visitor is implemented by callers of Walk; following the teacher's
// expr.Visitor convention, Visit returns the Visitor to use for the node's
// children, or nil to stop descending.
type Visitor interface {
	Visit(SQL) Visitor
}

// Walk traverses the relation tree rooted at n in depth-first order.
func Walk(v Visitor, n SQL) {
	if v = v.Visit(n); v == nil {
		return
	}
	switch t := n.(type) {
	case Join:
		Walk(v, t.Left)
		Walk(v, t.Right)
	case Select:
		Walk(v, t.Sub)
	case Project:
		Walk(v, t.Sub)
	case GroupBy:
		Walk(v, t.Sub)
	case OrderByIR:
		Walk(v, t.Sub)
	case UnionIR:
		Walk(v, t.Left)
		Walk(v, t.Right)
	case WithCTE:
		Walk(v, t.Sub)
		Walk(v, t.Body)
	case FromTable:
		// leaf
	}
	v.Visit(nil)
}

// OutputColumns returns the aliases of the outermost projection (Project or
// GroupBy) of n, peering through OrderByIR/WithCTE wrappers and taking a
// UnionIR's left side. Used by internal/verify's "schema checks first" step
// (spec.md §4.6) to compare output arity before building constraints.
func OutputColumns(n SQL) ([]string, bool) {
	switch t := n.(type) {
	case Project:
		out := make([]string, len(t.Items))
		for i, it := range t.Items {
			out[i] = it.Alias
		}
		return out, true
	case GroupBy:
		out := make([]string, len(t.Items))
		for i, it := range t.Items {
			out[i] = it.Alias
		}
		return out, true
	case OrderByIR:
		return OutputColumns(t.Sub)
	case WithCTE:
		return OutputColumns(t.Body)
	case UnionIR:
		return OutputColumns(t.Left)
	default:
		return nil, false
	}
}
