// Package verify implements C9: the end-to-end verifier that parses a
// Cypher query and a SQL query, transpiles the Cypher side through the
// induced schema, and checks semantic equivalence with a bounded-search
// ladder over a pluggable Backend (spec.md §4.7).
package verify

// Result is the verdict of one Verify call.
type Result string

const (
	Equivalent    Result = "Equivalent"
	NotEquivalent Result = "NotEquivalent"
	Timeout       Result = "Timeout"
	NotSupported  Result = "NotSupported"
	Unknown       Result = "Unknown"
	SyntaxError   Result = "SyntaxError"
)

// Report is the response shape of spec.md §6: result, a per-phase time
// split, the bound actually checked, an optional rendered counterexample,
// and a free-form details map for diagnostics.
type Report struct {
	Result         Result            `json:"result"`
	TimeMs         map[string]int64  `json:"time_ms"`
	CheckedBound   int               `json:"checked_bound"`
	Counterexample string            `json:"counterexample,omitempty"`
	Details        map[string]string `json:"details,omitempty"`
}

func newReport() *Report {
	return &Report{TimeMs: make(map[string]int64), Details: make(map[string]string)}
}
