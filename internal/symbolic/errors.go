// Package symbolic implements C8: building a bounded symbolic database
// over the induced schema and encoding relalg.SQL IR into constraints
// over a single uninterpreted Tuple sort (spec.md §4.6). It follows the
// teacher's `*CompileError{In, Err}` + `errorf` convention
// (github.com/SnellerInc/sneller's plan/pir/build.go) for reporting
// encoding failures, and carries all per-call symbolic state in an
// explicit EncodingContext rather than process-wide globals (spec.md §9,
// "Global symbolic-sort state").
package symbolic

import "fmt"

// NotSupportedError reports a feature the encoder deliberately cannot
// translate into constraints (spec.md §7): a table with no symbolic
// tuples, an unrecognized IR node, UNION operands with different column
// counts, or an aggregate appearing outside a GroupBy. The IR has no
// CAST, so no CAST case arises.
type NotSupportedError struct {
	Reason string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("symbolic: not supported: %s", e.Reason)
}

// CompileError wraps an error encountered while encoding a specific IR
// node, following the teacher's `*CompileError{In, Err}` pattern.
type CompileError struct {
	In  string
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("symbolic: encoding %s: %v", e.In, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func errorf(in string, err error) error {
	return &CompileError{In: in, Err: err}
}
