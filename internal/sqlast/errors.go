// Package sqlast implements C3: parsing the supported SQL subset into a
// relational AST. Following the teacher's lexer/parser shape
// (github.com/SnellerInc/sneller's rules/parse.go, adapted for SQL's richer
// punctuation and keyword set), the parser lowers directly into the same
// relalg.SQL IR used by C5/C6 rather than a separate tree — the two layers
// of spec.md §2 share one representation here, the way the teacher's own
// query compiler folds parsing and IR construction into a single pass.
package sqlast

import "fmt"

// ParseError reports a SQL syntax error with byte offset and the token
// that was expected.
type ParseError struct {
	Offset   int
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sql parse error at offset %d: expected %s, found %q", e.Offset, e.Expected, e.Found)
}

func errorf(offset int, found, expected string) error {
	return &ParseError{Offset: offset, Expected: expected, Found: found}
}
