package gschema

// ForeignKey names the table and column a foreign-key attribute resolves to.
type ForeignKey struct {
	Table  string
	Column string
}

// Table is one table of the induced relational schema: a lower-cased label,
// its ordered attribute list, a primary key, any foreign keys (spec.md §3),
// and an optional per-attribute type narrowing the symbolic encoder's
// bound (AttrTypes; an attribute absent from it defaults to "int").
type Table struct {
	Name      string
	Attrs     []string
	PK        string
	FKs       map[string]ForeignKey
	AttrTypes map[string]string
}

// AttrType returns attr's declared type, or "int" if none was declared.
func (t *Table) AttrType(attr string) string {
	if kind, ok := t.AttrTypes[attr]; ok {
		return kind
	}
	return "int"
}

// HasAttr reports whether attr is one of the table's columns.
func (t *Table) HasAttr(attr string) bool {
	for _, a := range t.Attrs {
		if a == attr {
			return true
		}
	}
	return false
}

// EnsureAttr appends attr to the table's column list if it is not already
// present. Mirrors the original Python `Table.ensure_attr` used by the
// incremental-schema-building test harness.
func (t *Table) EnsureAttr(attr string) {
	if !t.HasAttr(attr) {
		t.Attrs = append(t.Attrs, attr)
	}
}

// InducedSchema is the relational schema mechanically derived from a graph
// schema: one table per node/edge type (spec.md §3).
type InducedSchema struct {
	Tables map[string]*Table
	// order preserves insertion order for deterministic iteration
	// (e.g. when emitting CREATE TABLE statements).
	order []string
}

// NewInducedSchema returns an empty schema ready to be populated by InferSDT.
func NewInducedSchema() *InducedSchema {
	return &InducedSchema{Tables: make(map[string]*Table)}
}

// AddTable registers a table, preserving insertion order.
func (s *InducedSchema) AddTable(t *Table) {
	if _, exists := s.Tables[t.Name]; !exists {
		s.order = append(s.order, t.Name)
	}
	s.Tables[t.Name] = t
}

// Table looks up a table by name.
func (s *InducedSchema) Table(name string) (*Table, bool) {
	t, ok := s.Tables[name]
	return t, ok
}

// TableNames returns table names in insertion order.
func (s *InducedSchema) TableNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
