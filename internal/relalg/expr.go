// Package relalg is the SQL intermediate representation of spec.md §3/§4.5:
// an algebraic IR (FromTable, Join, Select, Project, GroupBy, OrderByIR,
// UnionIR, WithCTE) over a small tagged-variant expression/predicate
// language. Node shapes follow the teacher's plan/pir algebra
// (github.com/SnellerInc/sneller's plan/pir package): a closed set of
// concrete Go types implementing a shared interface, walked with a Visitor,
// rather than the source's single "kind + args tuple" representation.
package relalg

// Expr is a scalar SQL expression.
type Expr interface{ isExpr() }

// Column references `alias.col`.
type Column struct {
	Alias string
	Col   string
}

func (Column) isExpr() {}

// Star is the bare `*`, legal only as an argument to COUNT.
type Star struct{}

func (Star) isExpr() {}

// Number is an integer literal.
type Number struct{ Value int64 }

func (Number) isExpr() {}

// String is a string literal.
type String struct{ Value string }

func (String) isExpr() {}

// FuncKind enumerates supported functions: the aggregates, plus any scalar
// function the printer passes through verbatim.
type FuncKind string

const (
	FuncCount FuncKind = "COUNT"
	FuncSum   FuncKind = "SUM"
	FuncAvg   FuncKind = "AVG"
	FuncMin   FuncKind = "MIN"
	FuncMax   FuncKind = "MAX"
)

// Func is `name(args...)`.
type Func struct {
	Name FuncKind
	Args []Expr
}

func (Func) isExpr() {}

// IsAggregate reports whether name is one of the five supported aggregates.
func IsAggregate(name FuncKind) bool {
	switch name {
	case FuncCount, FuncSum, FuncAvg, FuncMin, FuncMax:
		return true
	}
	return false
}

// Equal reports structural equality of two expressions, used for GROUP BY
// key deduplication (spec.md §4.4, "deduplicated by structural equality").
func Equal(a, b Expr) bool {
	switch av := a.(type) {
	case Column:
		bv, ok := b.(Column)
		return ok && av == bv
	case Star:
		_, ok := b.(Star)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Func:
		bv, ok := b.(Func)
		if !ok || av.Name != bv.Name || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
