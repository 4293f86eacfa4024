package symbolic

import (
	"github.com/graphiti-verify/graphiti/date"
	"github.com/graphiti-verify/graphiti/internal/fingerprint"
	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/solver"
)

// Bounds for the type-tagged integer ranges of spec.md §4.6. Every
// non-reserved attribute is encoded within [IntLow, IntHigh] by default
// ("int" and unannotated columns); gschema.Table.AttrType narrows this for
// columns a NodeType/EdgeType declared "bool" ([0,1]), "date" ([DateLow,
// DateHigh], in epoch days), or "varchar" (disjoint from the int/date/bool
// space, above IntHigh — the same space fingerprint.StringPool interns
// literals into).
const (
	IntLow  int64 = -1_000_000
	IntHigh int64 = 1_000_000
)

// DateLow and DateHigh bound the "date" attribute type as epoch days,
// computed with the date package's calendar arithmetic rather than a
// hand-rolled constant, spanning 1900-01-01 to 2100-01-01.
var (
	DateLow  = date.Date(1900, 1, 1, 0, 0, 0, 0).Unix() / 86400
	DateHigh = date.Date(2100, 1, 1, 0, 0, 0, 0).Unix() / 86400
)

// boundFor returns the solver.Domain for one attribute of table, per its
// declared AttrType.
func boundFor(table *gschema.Table, attr string) solver.Domain {
	switch table.AttrType(attr) {
	case "bool":
		return solver.Range(0, 1)
	case "date":
		return solver.Range(DateLow, DateHigh)
	case "varchar":
		return solver.Range(IntHigh+1, IntHigh+1_000_000)
	default:
		return solver.Range(IntLow, IntHigh)
	}
}

// Tuple is one symbolic row of an induced table: a DELETED predicate and,
// per attribute, a VALUE and NULL function (spec.md §3, "Symbolic
// database").
type Tuple struct {
	Deleted solver.Var
	Values  map[string]solver.Var
	Nulls   map[string]solver.Var
}

// SymTable is the k symbolic tuples standing in for one induced table.
type SymTable struct {
	Table  *gschema.Table
	Tuples []Tuple
}

// EncodingContext carries every piece of per-call symbolic state: the
// solver, the chosen bound, the base database, and the string pool. No
// state survives past one verification call (spec.md §9, "Global
// symbolic-sort state").
type EncodingContext struct {
	S       *solver.BoundedSolver
	Bound   int
	Schema  *gschema.InducedSchema
	Tables  map[string]*SymTable
	Strings *fingerprint.StringPool
}

// NewEncodingContext builds the bounded base database: k fresh tuples
// per induced table, with type-bound, primary-key, and foreign-key
// constraints asserted (spec.md §4.6, "Base database").
func NewEncodingContext(schema *gschema.InducedSchema, bound int) *EncodingContext {
	ctx := &EncodingContext{
		S:       solver.New(),
		Bound:   bound,
		Schema:  schema,
		Tables:  make(map[string]*SymTable),
		Strings: fingerprint.NewStringPool(IntHigh),
	}
	for _, name := range schema.TableNames() {
		table, _ := schema.Table(name)
		ctx.Tables[name] = ctx.buildTable(table)
	}
	for _, name := range schema.TableNames() {
		table, _ := schema.Table(name)
		ctx.assertForeignKeys(table)
	}
	return ctx
}

func (ctx *EncodingContext) buildTable(table *gschema.Table) *SymTable {
	st := &SymTable{Table: table, Tuples: make([]Tuple, ctx.Bound)}
	for i := 0; i < ctx.Bound; i++ {
		tup := Tuple{
			Deleted: ctx.S.NewVar(solver.Bool()),
			Values:  make(map[string]solver.Var, len(table.Attrs)),
			Nulls:   make(map[string]solver.Var, len(table.Attrs)),
		}
		for _, attr := range table.Attrs {
			tup.Values[attr] = ctx.S.NewVar(boundFor(table, attr))
			tup.Nulls[attr] = ctx.S.NewVar(solver.Bool())
		}
		st.Tuples[i] = tup
		ctx.assertRowConstraints(table, tup)
	}
	return st
}

func (ctx *EncodingContext) assertRowConstraints(table *gschema.Table, tup Tuple) {
	// Primary key: not null and (together with the other rows) pairwise
	// distinct whenever both tuples are non-deleted. Distinctness is
	// asserted once per unordered pair by assertPKDistinct, called from
	// assertForeignKeys.
	pkNull := tup.Nulls[table.PK]
	deleted := tup.Deleted
	ctx.S.Assert(solver.Constraint{
		Vars: []solver.Var{deleted, pkNull},
		Name: table.Name + ".pk not null unless deleted",
		Check: func(v []int64) bool {
			del, null := v[0], v[1]
			return del == 1 || null == 0
		},
	})
}

func (ctx *EncodingContext) assertForeignKeys(table *gschema.Table) {
	st := ctx.Tables[table.Name]
	for _, tup := range st.Tuples {
		for attr, fk := range table.FKs {
			target := ctx.Tables[fk.Table]
			ctx.assertFKRow(table.Name, attr, tup, target, fk.Column)
		}
	}
	// Pairwise PK distinctness.
	for i := 0; i < len(st.Tuples); i++ {
		for j := i + 1; j < len(st.Tuples); j++ {
			ctx.assertPKDistinct(table, st.Tuples[i], st.Tuples[j])
		}
	}
}

func (ctx *EncodingContext) assertPKDistinct(table *gschema.Table, a, b Tuple) {
	vars := []solver.Var{a.Deleted, b.Deleted, a.Values[table.PK], b.Values[table.PK]}
	ctx.S.Assert(solver.Constraint{
		Vars: vars,
		Name: table.Name + ".pk pairwise distinct",
		Check: func(v []int64) bool {
			delA, delB, pkA, pkB := v[0], v[1], v[2], v[3]
			if delA == 1 || delB == 1 {
				return true
			}
			return pkA != pkB
		},
	})
}

// assertFKRow asserts: row is deleted, or there exists a non-deleted
// tuple in target whose targetCol value equals row's attr value
// (spec.md §4.6, "foreign key").
func (ctx *EncodingContext) assertFKRow(tableName, attr string, row Tuple, target *SymTable, targetCol string) {
	vars := []solver.Var{row.Deleted, row.Values[attr], row.Nulls[attr]}
	for _, t := range target.Tuples {
		vars = append(vars, t.Deleted, t.Values[targetCol])
	}
	ctx.S.Assert(solver.Constraint{
		Vars: vars,
		Name: tableName + "." + attr + " foreign key",
		Check: func(v []int64) bool {
			deleted, val, null := v[0], v[1], v[2]
			if deleted == 1 || null == 1 {
				return true
			}
			rest := v[3:]
			for i := 0; i+1 < len(rest); i += 2 {
				tDeleted, tVal := rest[i], rest[i+1]
				if tDeleted == 0 && tVal == val {
					return true
				}
			}
			return false
		},
	})
}
