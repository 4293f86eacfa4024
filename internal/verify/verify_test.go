package verify

import (
	"encoding/hex"
	"testing"

	"github.com/graphiti-verify/graphiti/internal/config"
	"github.com/graphiti-verify/graphiti/internal/fingerprint"
	"github.com/graphiti-verify/graphiti/internal/gschema"
)

func personWorksAtSchema(t *testing.T) *gschema.GraphSchema {
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
	return g
}

// TestVerifyRoundTrip checks spec.md §8's "Verifier round-trip" invariant:
// a query compared against its own canonical transpilation is Equivalent.
func TestVerifyRoundTrip(t *testing.T) {
	schema := personWorksAtSchema(t)
	cypherSrc := `MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN p.pid AS pid, c.cid AS cid`
	sqlSrc := `SELECT p.pid AS pid, c.cid AS cid FROM person AS p INNER JOIN works_at AS w ON p.pid = w.SRC INNER JOIN company AS c ON w.TGT = c.cid`

	cfg := config.Default()
	cfg.BoundMax = 2
	report := Verify(cypherSrc, sqlSrc, schema, cfg)
	if report.Result != Equivalent {
		t.Fatalf("expected Equivalent, got %s (details=%v)", report.Result, report.Details)
	}
	if report.CheckedBound != cfg.BoundMax {
		t.Fatalf("expected CheckedBound=%d, got %d", cfg.BoundMax, report.CheckedBound)
	}
}

// TestVerifyDetectsColumnCountMismatch reproduces spec.md §4.7's
// schema-checks-first short circuit: two queries with a different number
// of output columns are NotEquivalent before any solver call.
func TestVerifyDetectsColumnCountMismatch(t *testing.T) {
	schema := personWorksAtSchema(t)
	cypherSrc := `MATCH (p:Person) RETURN p.pid AS pid, p.name AS name`
	sqlSrc := `SELECT p.pid AS pid FROM person AS p`

	cfg := config.Default()
	report := Verify(cypherSrc, sqlSrc, schema, cfg)
	if report.Result != NotEquivalent {
		t.Fatalf("expected NotEquivalent, got %s (details=%v)", report.Result, report.Details)
	}
	if report.Counterexample != "" {
		t.Fatal("arity-mismatch short circuit should not render a counterexample")
	}
}

// TestVerifyRenderedCounterexampleSetsHashDetail checks that a genuine
// solver-discovered mismatch (same output arity, but the SQL side
// cross-joins instead of following the WORKS_AT edge) populates
// Details["counterexample_hash"] with BlobHash's hex encoding of the
// rendered counterexample, per SPEC_FULL.md §4.12's dedupe-key use.
func TestVerifyRenderedCounterexampleSetsHashDetail(t *testing.T) {
	schema := personWorksAtSchema(t)
	cypherSrc := `MATCH (p:Person)-[w:WORKS_AT]->(c:Company) RETURN p.pid AS pid, c.cid AS cid`
	sqlSrc := `SELECT p.pid AS pid, c.cid AS cid FROM person AS p INNER JOIN company AS c ON p.pid = p.pid`

	cfg := config.Default()
	cfg.BoundMax = 2
	report := Verify(cypherSrc, sqlSrc, schema, cfg)
	if report.Result != NotEquivalent {
		t.Fatalf("expected NotEquivalent, got %s (details=%v)", report.Result, report.Details)
	}
	if report.Counterexample == "" {
		t.Fatal("expected a rendered counterexample")
	}
	hash := fingerprint.BlobHash([]byte(report.Counterexample))
	want := hex.EncodeToString(hash[:])
	if got := report.Details["counterexample_hash"]; got != want {
		t.Fatalf("counterexample_hash = %q, want %q", got, want)
	}
}

func TestVerifyCypherSyntaxErrorMapsToSyntaxError(t *testing.T) {
	schema := personWorksAtSchema(t)
	report := Verify(`MATCH (p:Person RETURN p.pid`, `SELECT p.pid AS pid FROM person AS p`, schema, config.Default())
	if report.Result != SyntaxError {
		t.Fatalf("expected SyntaxError, got %s", report.Result)
	}
	if report.Details["side"] != "cypher" {
		t.Fatalf("expected side=cypher, got %q", report.Details["side"])
	}
}

func TestVerifySQLSyntaxErrorMapsToSyntaxError(t *testing.T) {
	schema := personWorksAtSchema(t)
	report := Verify(`MATCH (p:Person) RETURN p.pid AS pid`, `SELECT p.pid FROM`, schema, config.Default())
	if report.Result != SyntaxError {
		t.Fatalf("expected SyntaxError, got %s", report.Result)
	}
	if report.Details["side"] != "sql" {
		t.Fatalf("expected side=sql, got %q", report.Details["side"])
	}
}

// TestVerifyUnknownLabelIsSyntaxError checks a Cypher query referencing
// a label the schema doesn't define: InferSDT still succeeds (it only
// depends on the graph schema), but Transpile fails, and that failure
// must map to SyntaxError rather than crash the ladder.
func TestVerifyUnknownLabelIsSyntaxError(t *testing.T) {
	schema := personWorksAtSchema(t)
	report := Verify(`MATCH (x:Unknown) RETURN x.pid AS pid`, `SELECT p.pid AS pid FROM person AS p`, schema, config.Default())
	if report.Result != SyntaxError {
		t.Fatalf("expected SyntaxError, got %s (details=%v)", report.Result, report.Details)
	}
	if report.Details["side"] != "cypher" {
		t.Fatalf("expected side=cypher, got %q", report.Details["side"])
	}
}

func TestVerifyUnknownBackendNameIsSyntaxError(t *testing.T) {
	schema := personWorksAtSchema(t)
	cfg := config.Default()
	cfg.Backend = "not-a-real-backend"
	report := Verify(`MATCH (p:Person) RETURN p.pid AS pid`, `SELECT p.pid AS pid FROM person AS p`, schema, cfg)
	if report.Result != SyntaxError {
		t.Fatalf("expected unknown-backend name to surface as SyntaxError, got %s", report.Result)
	}
}

// TestVerifyRecoversFromPanic checks spec.md §7's guarantee that Verify
// never panics: a nil schema reaches gschema.InferSDT, which dereferences
// it and would otherwise crash the caller.
func TestVerifyRecoversFromPanic(t *testing.T) {
	report := Verify(`MATCH (p:Person) RETURN p.pid AS pid`, `SELECT p.pid AS pid FROM person AS p`, nil, config.Default())
	if report.Result != Unknown {
		t.Fatalf("expected Unknown after recovering from a panic, got %s", report.Result)
	}
	if report.Details["internal_error"] == "" {
		t.Fatal("expected internal_error detail to be populated")
	}
}
