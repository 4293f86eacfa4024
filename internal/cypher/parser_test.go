package cypher

import (
	"reflect"
	"testing"
)

func TestParseSimpleJoin(t *testing.T) {
	q, err := Parse("MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN p.pid AS pid, c.cid AS cid")
	if err != nil {
		t.Fatal(err)
	}
	rq, ok := q.(ReturnQuery)
	if !ok {
		t.Fatalf("expected ReturnQuery, got %T", q)
	}
	if rq.Clause.Optional {
		t.Error("expected non-optional MATCH")
	}
	if len(rq.Clause.Pattern.Nodes) != 2 || len(rq.Clause.Pattern.Edges) != 1 {
		t.Fatalf("unexpected pattern shape: %+v", rq.Clause.Pattern)
	}
	if rq.Clause.Pattern.Edges[0].Direction != DirRight {
		t.Errorf("expected DirRight, got %v", rq.Clause.Pattern.Edges[0].Direction)
	}
	want := []ReturnItem{
		{Expr: ExprProp{Var: "p", Key: "pid"}, Alias: "pid"},
		{Expr: ExprProp{Var: "c", Key: "cid"}, Alias: "cid"},
	}
	if !reflect.DeepEqual(rq.Items, want) {
		t.Errorf("unexpected items: %+v", rq.Items)
	}
}

func TestParseOptionalMatch(t *testing.T) {
	q, err := Parse("OPTIONAL MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN p.pid AS pid")
	if err != nil {
		t.Fatal(err)
	}
	rq := q.(ReturnQuery)
	if !rq.Clause.Optional {
		t.Error("expected optional MATCH")
	}
}

func TestParseBackwardAndUndirectedEdges(t *testing.T) {
	q, err := Parse("MATCH (a:X)<-[e:E]-(b:Y) RETURN a.id AS id")
	if err != nil {
		t.Fatal(err)
	}
	rq := q.(ReturnQuery)
	if rq.Clause.Pattern.Edges[0].Direction != DirLeft {
		t.Errorf("expected DirLeft, got %v", rq.Clause.Pattern.Edges[0].Direction)
	}

	q2, err := Parse("MATCH (a:X)-[e:E]-(b:Y) RETURN a.id AS id")
	if err != nil {
		t.Fatal(err)
	}
	rq2 := q2.(ReturnQuery)
	if rq2.Clause.Pattern.Edges[0].Direction != DirEither {
		t.Errorf("expected DirEither, got %v", rq2.Clause.Pattern.Edges[0].Direction)
	}
}

func TestParseAggregation(t *testing.T) {
	q, err := Parse("MATCH (p:Person) RETURN p.pid AS pid, COUNT(*) AS n")
	if err != nil {
		t.Fatal(err)
	}
	rq := q.(ReturnQuery)
	agg, ok := rq.Items[1].Expr.(ExprAgg)
	if !ok || agg.Func != AggCount || !agg.Star {
		t.Errorf("expected COUNT(*), got %+v", rq.Items[1].Expr)
	}
}

func TestParseAggregateOfAggregateRejected(t *testing.T) {
	_, err := Parse("MATCH (p:Person) RETURN SUM(COUNT(p.pid)) AS n")
	if err == nil {
		t.Fatal("expected parse error for aggregate of aggregate")
	}
}

func TestParseWhereAndOrderBy(t *testing.T) {
	q, err := Parse("MATCH (n:Person) WHERE n.age > 25 AND n.name <> 'Bob' RETURN n.name AS name ORDER BY n.name DESC")
	if err != nil {
		t.Fatal(err)
	}
	ob, ok := q.(OrderBy)
	if !ok || ob.Asc {
		t.Fatalf("expected descending OrderBy wrapper, got %+v", q)
	}
	rq := ob.Sub.(ReturnQuery)
	and, ok := rq.Clause.Where.(PredAnd)
	if !ok {
		t.Fatalf("expected AND predicate, got %+v", rq.Clause.Where)
	}
	left := and.Left.(PredCompare)
	if left.Op != CmpGt {
		t.Errorf("expected > operator, got %v", left.Op)
	}
}

func TestParseUnion(t *testing.T) {
	q, err := Parse("MATCH (n:Person) RETURN n.name AS name UNION ALL MATCH (n:Company) RETURN n.title AS name")
	if err != nil {
		t.Fatal(err)
	}
	u, ok := q.(UnionQuery)
	if !ok || !u.All {
		t.Fatalf("expected UnionQuery with All=true, got %+v", q)
	}
}

func TestParseDuplicateReturnAliasRejected(t *testing.T) {
	_, err := Parse("MATCH (n:Person) RETURN n.name AS x, n.age AS x")
	if err == nil {
		t.Fatal("expected error for duplicate RETURN alias")
	}
}

func TestParseStarOnlyInCountRejected(t *testing.T) {
	_, err := Parse("MATCH (n:Person) RETURN SUM(*) AS n")
	if err == nil {
		t.Fatal("expected error for SUM(*)")
	}
}
