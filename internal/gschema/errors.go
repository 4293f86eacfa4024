package gschema

// SchemaError reports a malformed graph schema: duplicate labels, a missing
// referenced label, or a type with zero keys (spec.md §7).
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Msg
}
