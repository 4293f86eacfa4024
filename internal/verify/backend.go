package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/relalg"
	"github.com/graphiti-verify/graphiti/internal/solver"
	"github.com/graphiti-verify/graphiti/internal/sqlprint"
	"github.com/graphiti-verify/graphiti/internal/symbolic"
)

// Backend decides, at one bound k, whether two relational IRs are
// equivalent under the given semantics (SPEC_FULL §10, supplementing
// original_source/backend/core/verieql_integration.go's second verifier
// wired behind the same interface). A nil error with equivalentAtBound
// false means cx holds a rendered counterexample; a non-nil error paired
// with ctx.Err() != nil means the bound could not be checked before
// cancellation.
type Backend interface {
	CheckAtBound(ctx context.Context, lir, rir relalg.SQL, schema *gschema.InducedSchema, bound int, semantics string) (equivalentAtBound bool, cx string, err error)
}

// SymbolicBackend is the authoritative backend: it builds a bounded
// symbolic database over schema, encodes both IRs, and asks the solver
// whether Not(equal) is satisfiable (spec.md §4.6/§4.7).
type SymbolicBackend struct{}

func (SymbolicBackend) CheckAtBound(ctx context.Context, lir, rir relalg.SQL, schema *gschema.InducedSchema, bound int, semantics string) (bool, string, error) {
	encCtx := symbolic.NewEncodingContext(schema, bound)

	left, err := symbolic.Encode(encCtx, lir)
	if err != nil {
		return false, "", err
	}
	right, err := symbolic.Encode(encCtx, rir)
	if err != nil {
		return false, "", err
	}
	eq, err := encCtx.BuildEquivalence(left, right, symbolic.Semantics(semantics))
	if err != nil {
		return false, "", err
	}
	notEq := encCtx.S.NewVar(solver.Bool())
	encCtx.S.Assert(solver.Constraint{
		Vars:  []solver.Var{notEq, eq},
		Name:  "not equal",
		Check: func(v []int64) bool { return v[0] == 1-v[1] },
	})
	encCtx.S.Assert(solver.Constraint{
		Vars:  []solver.Var{notEq},
		Name:  "search for a counterexample",
		Check: func(v []int64) bool { return v[0] == 1 },
	})

	result, err := encCtx.S.CheckSat(ctx)
	if err != nil {
		return false, "", err
	}
	switch result {
	case solver.Unsat:
		return true, "", nil
	case solver.Sat:
		return false, renderCounterexample(encCtx, schema, left, right), nil
	default:
		return false, "", fmt.Errorf("verify: solver returned unknown with no error")
	}
}

// NormalizeBackend is a non-authoritative heuristic: it compares the
// printed SQL text of both sides after whitespace/case normalization,
// ignoring bound entirely (SPEC_FULL §10's supplemented
// backend=normalize mode, standing in for original_source's literal
// string-normalization comparator). It never produces a real
// counterexample — only a diagnostic note of where the printed text
// diverges — and is intended for quick sanity checks, not proof.
type NormalizeBackend struct{}

func (NormalizeBackend) CheckAtBound(_ context.Context, lir, rir relalg.SQL, _ *gschema.InducedSchema, _ int, _ string) (bool, string, error) {
	l := normalizeSQLText(sqlprint.Print(lir))
	r := normalizeSQLText(sqlprint.Print(rir))
	if l == r {
		return true, "", nil
	}
	return false, fmt.Sprintf("normalized text differs:\n-- sql1\n%s\n-- sql2\n%s\n", l, r), nil
}

func normalizeSQLText(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f)
	}
	return strings.Join(fields, " ")
}

func backendFor(name string) (Backend, error) {
	switch name {
	case "symbolic", "":
		return SymbolicBackend{}, nil
	case "normalize":
		return NormalizeBackend{}, nil
	default:
		return nil, fmt.Errorf("verify: unknown backend %q", name)
	}
}
