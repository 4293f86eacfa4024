package oracle

import "testing"

func TestEquivalentReflexive(t *testing.T) {
	rows := []Row{{int64(1), "A"}, {int64(2), "B"}}
	ok, err := Equivalent(rows, rows)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected equiv(R, R) = true")
	}
}

func TestEquivalentSymmetric(t *testing.T) {
	a := []Row{{int64(1), "A"}, {int64(2), "B"}}
	b := []Row{{int64(2), "B"}, {int64(1), "A"}}
	ab, err := Equivalent(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Equivalent(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if ab != ba {
		t.Fatalf("expected symmetry, got equiv(a,b)=%v equiv(b,a)=%v", ab, ba)
	}
	if !ab {
		t.Fatal("expected row-order-independent equivalence")
	}
}

// TestColumnPermutationScenario reproduces spec.md §8 scenario 5:
// rows1=[(1,"A"),(2,"B"),(2,"B")], rows2=[("A",1),("B",2),("B",2)].
func TestColumnPermutationScenario(t *testing.T) {
	rows1 := []Row{{int64(1), "A"}, {int64(2), "B"}, {int64(2), "B"}}
	rows2 := []Row{{"A", int64(1)}, {"B", int64(2)}, {"B", int64(2)}}
	ok, err := Equivalent(rows1, rows2)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected column-permutation equivalence to hold")
	}
}

func TestEmptyTablesEquivalent(t *testing.T) {
	ok, err := Equivalent(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected two empty tables to be equivalent")
	}
}

func TestArityMismatchIsValueError(t *testing.T) {
	rows1 := []Row{{int64(1)}}
	rows2 := []Row{{int64(1), int64(2)}}
	_, err := Equivalent(rows1, rows2)
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*ValueError); !ok {
		t.Fatalf("expected *ValueError, got %T", err)
	}
}

func TestDifferentRowCountsNotEquivalent(t *testing.T) {
	rows1 := []Row{{int64(1)}}
	rows2 := []Row{{int64(1)}, {int64(2)}}
	ok, err := Equivalent(rows1, rows2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected different row counts to be non-equivalent")
	}
}

func TestDifferentValuesNotEquivalent(t *testing.T) {
	rows1 := []Row{{int64(1), "A"}}
	rows2 := []Row{{int64(1), "B"}}
	ok, err := Equivalent(rows1, rows2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected differing values to be non-equivalent")
	}
}

func TestNoValidPermutationIsNotEquivalent(t *testing.T) {
	// Columns can't be permuted into agreement: column signatures don't
	// match under any permutation since {1,1} never equals {2,2}.
	rows1 := []Row{{int64(1), int64(1)}}
	rows2 := []Row{{int64(2), int64(2)}}
	ok, err := Equivalent(rows1, rows2)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no valid permutation to exist")
	}
}
