package solver

import (
	"context"
	"testing"
)

func TestCheckSatFindsAssignment(t *testing.T) {
	s := New()
	a := s.NewVar(Range(0, 3))
	b := s.NewVar(Range(0, 3))
	s.Assert(Constraint{
		Vars: []Var{a, b}, Name: "a+b=4",
		Check: func(v []int64) bool { return v[0]+v[1] == 4 },
	})
	res, err := s.CheckSat(context.Background())
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Sat {
		t.Fatalf("expected sat, got %v", res)
	}
	model := s.Model()
	if model.Value(a)+model.Value(b) != 4 {
		t.Fatalf("model violates constraint: a=%d b=%d", model.Value(a), model.Value(b))
	}
}

func TestCheckSatUnsat(t *testing.T) {
	s := New()
	a := s.NewVar(Single(1))
	b := s.NewVar(Single(1))
	s.Assert(Constraint{
		Vars:  []Var{a, b},
		Check: func(v []int64) bool { return v[0] != v[1] },
	})
	res, err := s.CheckSat(context.Background())
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Unsat {
		t.Fatalf("expected unsat, got %v", res)
	}
}

func TestPushPopDiscardsConstraints(t *testing.T) {
	s := New()
	a := s.NewVar(Range(0, 2))
	s.Push()
	s.Assert(Constraint{Vars: []Var{a}, Check: func(v []int64) bool { return v[0] == 99 }})
	s.Pop()
	res, err := s.CheckSat(context.Background())
	if err != nil {
		t.Fatalf("CheckSat: %v", err)
	}
	if res != Sat {
		t.Fatalf("expected sat after Pop discarded the impossible constraint, got %v", res)
	}
}

var _ Solver = (*BoundedSolver)(nil)
