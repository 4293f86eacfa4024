package transpile

import (
	"testing"

	"github.com/graphiti-verify/graphiti/internal/cypher"
	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/relalg"
)

func scenario1Schema(t *testing.T) (*gschema.InducedSchema, *gschema.SDT) {
	t.Helper()
	g, err := gschema.New(
		[]gschema.NodeType{
			{Label: "Person", Keys: []string{"pid", "name"}},
			{Label: "Company", Keys: []string{"cid", "title"}},
		},
		[]gschema.EdgeType{
			{Label: "WORKS_AT", SrcLabel: "Person", TgtLabel: "Company", Keys: []string{"wid"}},
		},
	)
	if err != nil {
		t.Fatalf("gschema.New: %v", err)
	}
	schema, sdt, err := gschema.InferSDT(g)
	if err != nil {
		t.Fatalf("InferSDT: %v", err)
	}
	return schema, sdt
}

func TestTranspileSimpleJoin(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN p.name AS name, c.title AS title`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	ir, err := Transpile(q, sdt, schema)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}

	proj, ok := ir.(relalg.Project)
	if !ok {
		t.Fatalf("expected Project, got %T", ir)
	}
	if len(proj.Items) != 2 || proj.Items[0].Alias != "name" || proj.Items[1].Alias != "title" {
		t.Fatalf("unexpected projection items: %+v", proj.Items)
	}

	join2, ok := proj.Sub.(relalg.Join)
	if !ok {
		t.Fatalf("expected outer Join, got %T", proj.Sub)
	}
	if join2.Kind != relalg.JoinInner {
		t.Fatalf("expected inner join for plain MATCH, got %v", join2.Kind)
	}
	onRight, ok := join2.On.(relalg.Cmp)
	if !ok || onRight.Op != relalg.CmpEq {
		t.Fatalf("unexpected second join predicate: %+v", join2.On)
	}
	if c, ok := onRight.Left.(relalg.Column); !ok || c.Alias != "w" || c.Col != "TGT" {
		t.Fatalf("expected w.TGT on left of second join, got %+v", onRight.Left)
	}
	if c, ok := onRight.Right.(relalg.Column); !ok || c.Alias != "c" || c.Col != "cid" {
		t.Fatalf("expected c.cid on right of second join, got %+v", onRight.Right)
	}

	join1, ok := join2.Left.(relalg.Join)
	if !ok {
		t.Fatalf("expected inner Join, got %T", join2.Left)
	}
	onLeft, ok := join1.On.(relalg.Cmp)
	if !ok {
		t.Fatalf("unexpected first join predicate: %+v", join1.On)
	}
	if c, ok := onLeft.Left.(relalg.Column); !ok || c.Alias != "p" || c.Col != "pid" {
		t.Fatalf("expected p.pid on left of first join, got %+v", onLeft.Left)
	}
	if c, ok := onLeft.Right.(relalg.Column); !ok || c.Alias != "w" || c.Col != "SRC" {
		t.Fatalf("expected w.SRC on right of first join, got %+v", onLeft.Right)
	}

	from, ok := join1.Left.(relalg.FromTable)
	if !ok || from.Table != "person" || from.Alias != "p" {
		t.Fatalf("unexpected base relation: %+v", join1.Left)
	}
}

func TestTranspileOptionalMatchUsesLeftJoin(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `OPTIONAL MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN p.name AS name`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ir, err := Transpile(q, sdt, schema)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	proj := ir.(relalg.Project)
	join := proj.Sub.(relalg.Join)
	if join.Kind != relalg.JoinLeft {
		t.Fatalf("expected left join for OPTIONAL MATCH, got %v", join.Kind)
	}
}

func TestTranspileBackwardEdgeSwapsJoinOrder(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (c:Company)<-[w:WORKS_AT]-(p:Person) RETURN p.name AS name`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ir, err := Transpile(q, sdt, schema)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	proj := ir.(relalg.Project)
	join2 := proj.Sub.(relalg.Join)
	onRight := join2.On.(relalg.Cmp)
	if c, ok := onRight.Left.(relalg.Column); !ok || c.Alias != "w" || c.Col != "SRC" {
		t.Fatalf("expected w.SRC on left for backward edge, got %+v", onRight.Left)
	}
	if c, ok := onRight.Right.(relalg.Column); !ok || c.Alias != "p" || c.Col != "pid" {
		t.Fatalf("expected p.pid on right for backward edge, got %+v", onRight.Right)
	}

	join1 := join2.Left.(relalg.Join)
	onLeft := join1.On.(relalg.Cmp)
	if c, ok := onLeft.Left.(relalg.Column); !ok || c.Alias != "c" || c.Col != "cid" {
		t.Fatalf("expected c.cid on left, got %+v", onLeft.Left)
	}
	if c, ok := onLeft.Right.(relalg.Column); !ok || c.Alias != "w" || c.Col != "TGT" {
		t.Fatalf("expected w.TGT on right, got %+v", onLeft.Right)
	}
}

func TestTranspileAggregationGroupsByNonAggregateKeys(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN c.title AS title, COUNT(p.pid) AS n`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ir, err := Transpile(q, sdt, schema)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	gb, ok := ir.(relalg.GroupBy)
	if !ok {
		t.Fatalf("expected GroupBy, got %T", ir)
	}
	if len(gb.Keys) != 1 {
		t.Fatalf("expected one group key, got %d: %+v", len(gb.Keys), gb.Keys)
	}
	key, ok := gb.Keys[0].(relalg.Column)
	if !ok || key.Alias != "c" || key.Col != "title" {
		t.Fatalf("unexpected group key: %+v", gb.Keys[0])
	}
	if len(gb.Items) != 2 || gb.Items[1].Alias != "n" {
		t.Fatalf("unexpected projection items: %+v", gb.Items)
	}
	fn, ok := gb.Items[1].Expr.(relalg.Func)
	if !ok || fn.Name != relalg.FuncCount {
		t.Fatalf("expected COUNT func, got %+v", gb.Items[1].Expr)
	}
}

func TestTranspileWhereAndOrderBy(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (p:Person) WHERE p.name = 'Ada' RETURN p.pid AS pid ORDER BY p.pid ASC`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ir, err := Transpile(q, sdt, schema)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	ob, ok := ir.(relalg.OrderByIR)
	if !ok {
		t.Fatalf("expected OrderByIR, got %T", ir)
	}
	if !ob.Asc {
		t.Fatal("expected ascending order")
	}
	proj, ok := ob.Sub.(relalg.Project)
	if !ok {
		t.Fatalf("expected Project beneath OrderByIR, got %T", ob.Sub)
	}
	sel, ok := proj.Sub.(relalg.Select)
	if !ok {
		t.Fatalf("expected Select beneath Project, got %T", proj.Sub)
	}
	cmp, ok := sel.Pred.(relalg.Cmp)
	if !ok || cmp.Op != relalg.CmpEq {
		t.Fatalf("unexpected WHERE predicate: %+v", sel.Pred)
	}
}

func TestTranspileUnion(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (p:Person) RETURN p.name AS name UNION MATCH (c:Company) RETURN c.title AS name`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ir, err := Transpile(q, sdt, schema)
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	if _, ok := ir.(relalg.UnionIR); !ok {
		t.Fatalf("expected UnionIR, got %T", ir)
	}
}

func TestTranspileUnboundVariableIsBindingError(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (p:Person) RETURN q.name AS name`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Transpile(q, sdt, schema)
	if err == nil {
		t.Fatal("expected BindingError")
	}
	if _, ok := err.(*BindingError); !ok {
		t.Fatalf("expected *BindingError, got %T: %v", err, err)
	}
}

func TestTranspileUnknownLabelIsSchemaMismatchError(t *testing.T) {
	schema, sdt := scenario1Schema(t)

	src := `MATCH (x:Robot) RETURN x.pid AS pid`
	q, err := cypher.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Transpile(q, sdt, schema)
	if err == nil {
		t.Fatal("expected SchemaMismatchError")
	}
	if _, ok := err.(*SchemaMismatchError); !ok {
		t.Fatalf("expected *SchemaMismatchError, got %T: %v", err, err)
	}
}
