// Package cypher parses the restricted Cypher subset of spec.md §6 into a
// fully-typed AST (C2). It follows the teacher's closed-tagged-sum style
// (github.com/SnellerInc/sneller's expr package): each AST layer is a small
// interface implemented by a handful of concrete node types, not a single
// "kind + args" tuple.
package cypher

// NodePat is a node pattern `(var:Label)`.
type NodePat struct {
	Var   string
	Label string
}

// Direction is the arrow direction of an EdgePat.
type Direction int

const (
	// DirRight is `-[var:Label]->`.
	DirRight Direction = iota
	// DirLeft is `<-[var:Label]-`.
	DirLeft
	// DirEither is the undirected `-[var:Label]-`.
	DirEither
)

func (d Direction) String() string {
	switch d {
	case DirRight:
		return "->"
	case DirLeft:
		return "<-"
	case DirEither:
		return "--"
	default:
		return "?"
	}
}

// EdgePat is an edge pattern with a direction tag.
type EdgePat struct {
	Var       string
	Label     string
	Direction Direction
}

// PathPat is a sequence alternating NodePat and EdgePat, starting and
// ending with a NodePat (spec.md §3). Edges[i] connects Nodes[i] to
// Nodes[i+1].
type PathPat struct {
	Nodes []NodePat
	Edges []EdgePat // len(Edges) == len(Nodes)-1
}

// Expr is a RETURN/WHERE expression: property access, aggregate, literal,
// or the special `*`.
type Expr interface{ isExpr() }

// ExprProp is `var.key`.
type ExprProp struct {
	Var string
	Key string
}

func (ExprProp) isExpr() {}

// AggFunc enumerates the supported aggregate function names.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// ExprAgg is `AGG(expr)`, including the special `COUNT(*)` (Arg == nil,
// Star == true).
type ExprAgg struct {
	Func AggFunc
	Arg  Expr // nil iff Star
	Star bool
}

func (ExprAgg) isExpr() {}

// ExprInt is an integer literal.
type ExprInt struct{ Value int64 }

func (ExprInt) isExpr() {}

// ExprString is a string literal.
type ExprString struct{ Value string }

func (ExprString) isExpr() {}

// ExprStar is the bare `*` RETURN item (only legal inside COUNT(*) or as a
// standalone RETURN item per spec.md §4.2).
type ExprStar struct{}

func (ExprStar) isExpr() {}

// CmpOp enumerates comparison operators.
type CmpOp string

const (
	CmpEq  CmpOp = "="
	CmpNe  CmpOp = "<>"
	CmpLt  CmpOp = "<"
	CmpLe  CmpOp = "<="
	CmpGt  CmpOp = ">"
	CmpGe  CmpOp = ">="
)

// Predicate is a WHERE-clause boolean expression.
type Predicate interface{ isPredicate() }

// PredCompare is a single comparison; comparisons do not nest (spec.md
// §4.2).
type PredCompare struct {
	Left  Expr
	Op    CmpOp
	Right Expr
}

func (PredCompare) isPredicate() {}

// PredAnd is a conjunction.
type PredAnd struct{ Left, Right Predicate }

func (PredAnd) isPredicate() {}

// PredOr is a disjunction.
type PredOr struct{ Left, Right Predicate }

func (PredOr) isPredicate() {}

// PredNot is a negation.
type PredNot struct{ Sub Predicate }

func (PredNot) isPredicate() {}

// Clause is a MATCH or OPTIONAL MATCH clause.
type Clause struct {
	Optional bool
	Pattern  PathPat
	Where    Predicate // nil if absent
}

// ReturnItem is one `expr AS alias` entry.
type ReturnItem struct {
	Expr  Expr
	Alias string
}

// Query is the top-level AST node: a ReturnQuery optionally wrapped by
// OrderBy and/or UnionQuery (spec.md §3).
type Query interface{ isQuery() }

// ReturnQuery is `clause RETURN exprs AS names`.
type ReturnQuery struct {
	Clause Clause
	Items  []ReturnItem
}

func (ReturnQuery) isQuery() {}

// OrderBy wraps a Query with a trailing ORDER BY.
type OrderBy struct {
	Sub Query
	Key Expr
	Asc bool
}

func (OrderBy) isQuery() {}

// UnionQuery combines two queries with UNION [ALL].
type UnionQuery struct {
	Left, Right Query
	All         bool
}

func (UnionQuery) isQuery() {}
