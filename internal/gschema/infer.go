package gschema

// InferSDT derives the induced relational schema and the SDT from a graph
// schema (C4, spec.md §4.1). It is a pure function: the same GraphSchema
// always yields structurally equal output (spec.md §8, "InferSDT
// idempotence").
//
// Nodes are processed first, in schema order, each emitting one table
// (columns = keys, PK = default key) and one node-rule. Edges are
// processed next, each emitting a table whose columns are its keys
// followed by the reserved SRC/TGT columns, with SRC/TGT as foreign keys
// to the source/target node tables, plus one edge-rule. An edge
// referencing a node label absent from the schema is a SchemaError,
// though GraphSchema.New already rejects that case before InferSDT runs.
func InferSDT(g *GraphSchema) (*InducedSchema, *SDT, error) {
	schema := NewInducedSchema()
	sdt := &SDT{}

	for _, node := range g.Nodes {
		tableName := lowerLabel(node.Label)
		table := &Table{
			Name:      tableName,
			Attrs:     append([]string(nil), node.Keys...),
			PK:        node.DefaultKey(),
			FKs:       map[string]ForeignKey{},
			AttrTypes: node.Types,
		}
		schema.AddTable(table)
		sdt.Add(Rule{
			Left:  Pred{Name: node.Label, Args: append([]string(nil), node.Keys...)},
			Right: Pred{Name: tableName, Args: append([]string(nil), node.Keys...)},
		})
	}

	for _, edge := range g.Edges {
		tableName := lowerLabel(edge.Label)
		srcTable, ok := schema.Table(lowerLabel(edge.SrcLabel))
		if !ok {
			return nil, nil, &SchemaError{Msg: "edge " + edge.Label + " references missing node label " + edge.SrcLabel}
		}
		tgtTable, ok := schema.Table(lowerLabel(edge.TgtLabel))
		if !ok {
			return nil, nil, &SchemaError{Msg: "edge " + edge.Label + " references missing node label " + edge.TgtLabel}
		}

		attrs := append(append([]string(nil), edge.Keys...), "SRC", "TGT")
		table := &Table{
			Name:  tableName,
			Attrs: attrs,
			PK:    edge.DefaultKey(),
			FKs: map[string]ForeignKey{
				"SRC": {Table: srcTable.Name, Column: srcTable.PK},
				"TGT": {Table: tgtTable.Name, Column: tgtTable.PK},
			},
			AttrTypes: edge.Types,
		}
		schema.AddTable(table)
		sdt.Add(Rule{
			Left:  Pred{Name: edge.Label, Args: append(append([]string(nil), edge.Keys...), "SRC", "TGT")},
			Right: Pred{Name: tableName, Args: attrs},
		})
	}

	return schema, sdt, nil
}

func lowerLabel(label string) string {
	out := make([]byte, len(label))
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
