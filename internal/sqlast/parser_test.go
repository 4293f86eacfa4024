package sqlast

import (
	"testing"

	"github.com/graphiti-verify/graphiti/internal/relalg"
)

func TestParseSimpleJoin(t *testing.T) {
	src := `SELECT p.pid AS pid, c.cid AS cid FROM person AS p INNER JOIN works_at AS w ON p.pid = w.SRC INNER JOIN company AS c ON w.TGT = c.cid`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	proj, ok := ir.(relalg.Project)
	if !ok {
		t.Fatalf("expected Project, got %T", ir)
	}
	if len(proj.Items) != 2 || proj.Items[0].Alias != "pid" || proj.Items[1].Alias != "cid" {
		t.Fatalf("unexpected items: %+v", proj.Items)
	}
	join2, ok := proj.Sub.(relalg.Join)
	if !ok || join2.Kind != relalg.JoinInner {
		t.Fatalf("expected inner Join, got %+v", proj.Sub)
	}
}

func TestParseLeftJoin(t *testing.T) {
	src := `SELECT p.name AS name FROM person AS p LEFT JOIN works_at AS w ON p.pid = w.SRC`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	proj := ir.(relalg.Project)
	join := proj.Sub.(relalg.Join)
	if join.Kind != relalg.JoinLeft {
		t.Fatalf("expected left join, got %v", join.Kind)
	}
}

func TestParseGroupByHaving(t *testing.T) {
	src := `SELECT p.pid AS pid, COUNT(*) AS n FROM person AS p GROUP BY p.pid HAVING COUNT(*) > 1`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	gb, ok := ir.(relalg.GroupBy)
	if !ok {
		t.Fatalf("expected GroupBy, got %T", ir)
	}
	if len(gb.Keys) != 1 {
		t.Fatalf("expected one group key, got %+v", gb.Keys)
	}
	if gb.Having == nil {
		t.Fatal("expected HAVING predicate")
	}
}

func TestParseWhereOrderBy(t *testing.T) {
	src := `SELECT p.name AS name FROM person AS p WHERE p.name = 'Ada' ORDER BY p.pid DESC`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ob, ok := ir.(relalg.OrderByIR)
	if !ok {
		t.Fatalf("expected OrderByIR, got %T", ir)
	}
	if ob.Asc {
		t.Fatal("expected descending order")
	}
	proj := ob.Sub.(relalg.Project)
	sel, ok := proj.Sub.(relalg.Select)
	if !ok {
		t.Fatalf("expected Select, got %T", proj.Sub)
	}
	cmp := sel.Pred.(relalg.Cmp)
	if cmp.Op != relalg.CmpEq {
		t.Fatalf("unexpected op: %v", cmp.Op)
	}
}

func TestParseUnionAll(t *testing.T) {
	src := `SELECT p.name AS name FROM person AS p UNION ALL SELECT c.title AS name FROM company AS c`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u, ok := ir.(relalg.UnionIR)
	if !ok || !u.All {
		t.Fatalf("expected UNION ALL, got %+v", ir)
	}
}

func TestParseWithCTE(t *testing.T) {
	src := `WITH recent AS (SELECT p.pid AS pid FROM person AS p) SELECT r.pid AS pid FROM recent AS r`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cte, ok := ir.(relalg.WithCTE)
	if !ok || cte.Name != "recent" {
		t.Fatalf("expected WithCTE named recent, got %+v", ir)
	}
}

func TestParseUnqualifiedColumn(t *testing.T) {
	src := `SELECT pid FROM person AS p`
	ir, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	proj := ir.(relalg.Project)
	col, ok := proj.Items[0].Expr.(relalg.Column)
	if !ok || col.Alias != "" || col.Col != "pid" {
		t.Fatalf("unexpected column: %+v", proj.Items[0].Expr)
	}
}

func TestParseRejectsMissingFrom(t *testing.T) {
	_, err := Parse(`SELECT p.pid AS pid`)
	if err == nil {
		t.Fatal("expected ParseError for missing FROM")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}
