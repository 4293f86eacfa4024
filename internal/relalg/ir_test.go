package relalg

import "testing"

func TestEqualStructural(t *testing.T) {
	a := Func{Name: FuncCount, Args: []Expr{Star{}}}
	b := Func{Name: FuncCount, Args: []Expr{Star{}}}
	c := Func{Name: FuncSum, Args: []Expr{Column{Alias: "p", Col: "pid"}}}
	if !Equal(a, b) {
		t.Error("expected a == b")
	}
	if Equal(a, c) {
		t.Error("expected a != c")
	}
}

func TestOutputColumns(t *testing.T) {
	ir := Project{
		Sub: FromTable{Table: "person", Alias: "p"},
		Items: []ProjectItem{
			{Alias: "pid", Expr: Column{Alias: "p", Col: "pid"}},
			{Alias: "name", Expr: Column{Alias: "p", Col: "name"}},
		},
	}
	cols, ok := OutputColumns(OrderByIR{Sub: ir, Key: Column{Alias: "p", Col: "pid"}, Asc: true})
	if !ok {
		t.Fatal("expected ok")
	}
	if len(cols) != 2 || cols[0] != "pid" || cols[1] != "name" {
		t.Errorf("unexpected columns: %v", cols)
	}
}
