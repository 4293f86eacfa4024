package relalg

// Predicate is a boolean expression usable in WHERE/ON/HAVING.
type Predicate interface{ isPredicate() }

// CmpOp enumerates SQL comparison operators.
type CmpOp string

const (
	CmpEq CmpOp = "="
	CmpNe CmpOp = "<>"
	CmpLt CmpOp = "<"
	CmpLe CmpOp = "<="
	CmpGt CmpOp = ">"
	CmpGe CmpOp = ">="
)

// Cmp is a comparison between two expressions.
type Cmp struct {
	Op          CmpOp
	Left, Right Expr
}

func (Cmp) isPredicate() {}

// And is a conjunction.
type And struct{ Left, Right Predicate }

func (And) isPredicate() {}

// Or is a disjunction.
type Or struct{ Left, Right Predicate }

func (Or) isPredicate() {}

// Not is a negation.
type Not struct{ Sub Predicate }

func (Not) isPredicate() {}
