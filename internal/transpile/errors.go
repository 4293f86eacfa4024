// Package transpile implements C6: translating a restricted Cypher AST
// into the relalg SQL IR, guided by the induced schema and SDT (spec.md
// §4.4). It follows the teacher's build-pass shape
// (github.com/SnellerInc/sneller's plan/pir/build.go); errors are returned
// as the concrete types below, without position context.
package transpile

import "fmt"

// SchemaMismatchError reports a Cypher label with no corresponding induced
// table.
type SchemaMismatchError struct {
	Label string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("transpile: no induced table for label %q", e.Label)
}

// BindingError reports a reference to a variable not bound by any pattern.
type BindingError struct {
	Var string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("transpile: unbound variable %q", e.Var)
}

// SemanticsError reports a semantically invalid construct, such as an
// aggregate of an aggregate.
type SemanticsError struct {
	Msg string
}

func (e *SemanticsError) Error() string {
	return "transpile: " + e.Msg
}
