package relalg

// SQL is an algebraic relation: the common interface implemented by every
// IR node of spec.md §3/§4.5.
type SQL interface{ isSQL() }

// FromTable is a leaf relation: one induced-schema table under an alias.
type FromTable struct {
	Table string
	Alias string
}

func (FromTable) isSQL() {}

// JoinKind distinguishes INNER from LEFT joins.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
)

// Join combines two relations under a join predicate.
type Join struct {
	Left, Right SQL
	On          Predicate
	Kind        JoinKind
}

func (Join) isSQL() {}

// Select is a filter (σ) over a sub-relation.
type Select struct {
	Sub  SQL
	Pred Predicate
}

func (Select) isSQL() {}

// ProjectItem is one `(alias, expr)` pair of a projection list.
type ProjectItem struct {
	Alias string
	Expr  Expr
}

// Project is a projection (π) producing named output columns.
type Project struct {
	Sub   SQL
	Items []ProjectItem
}

func (Project) isSQL() {}

// GroupBy groups rows by Keys and computes aggregate/grouping Items, with
// an optional HAVING predicate over the grouped row.
type GroupBy struct {
	Sub    SQL
	Keys   []Expr
	Items  []ProjectItem
	Having Predicate // nil if absent
}

func (GroupBy) isSQL() {}

// OrderByIR orders the rows of Sub by Key.
type OrderByIR struct {
	Sub SQL
	Key Expr
	Asc bool
}

func (OrderByIR) isSQL() {}

// UnionIR combines two relations; All selects UNION ALL (bag union) over
// UNION (distinct union).
type UnionIR struct {
	Left, Right SQL
	All         bool
}

func (UnionIR) isSQL() {}

// WithCTE binds Name to Sub for use within Body (a `WITH name AS (sub)
// body` common table expression).
type WithCTE struct {
	Name string
	Sub  SQL
	Body SQL
}

func (WithCTE) isSQL() {}
