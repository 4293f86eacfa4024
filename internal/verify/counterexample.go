package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/solver"
	"github.com/graphiti-verify/graphiti/internal/symbolic"
)

// renderCounterexample implements spec.md §6's "Counterexample rendering":
// a CREATE TABLE statement for every base table and an INSERT INTO for
// each of its tuples that is not deleted in the model, followed by
// -- sql1 / -- sql2 comment sections showing each query's projected rows, and — since the
// induced schema always descends from a graph schema in this module — a
// Cypher block reconstructing the same instance.
func renderCounterexample(ctx *symbolic.EncodingContext, schema *gschema.InducedSchema, left, right *symbolic.SymRelation) string {
	model := ctx.S.Model()
	var b strings.Builder

	for _, name := range schema.TableNames() {
		table, _ := schema.Table(name)
		st := ctx.Tables[name]
		fmt.Fprintf(&b, "CREATE TABLE %s (%s);\n", name, strings.Join(table.Attrs, ", "))
		for _, tup := range st.Tuples {
			if model.Value(tup.Deleted) == 1 {
				continue
			}
			vals := make([]string, len(table.Attrs))
			for i, attr := range table.Attrs {
				vals[i] = renderValue(ctx, model, tup.Values[attr], tup.Nulls[attr])
			}
			fmt.Fprintf(&b, "INSERT INTO %s VALUES (%s);\n", name, strings.Join(vals, ", "))
		}
	}

	b.WriteString("-- sql1\n")
	writeProjectedRows(&b, ctx, model, left)
	b.WriteString("-- sql2\n")
	writeProjectedRows(&b, ctx, model, right)

	b.WriteString("MATCH (n) DETACH DELETE n;\n")
	b.WriteString(renderGraphCreate(ctx, schema, model))

	return b.String()
}

func writeProjectedRows(b *strings.Builder, ctx *symbolic.EncodingContext, model solver.Model, rel *symbolic.SymRelation) {
	for i := 0; i < rel.N; i++ {
		if model.Value(rel.Present[i]) != 1 {
			continue
		}
		vals := make([]string, len(rel.Order))
		for k, name := range rel.Order {
			col := rel.Columns[name]
			vals[k] = renderValue(ctx, model, col.Values[i], col.Nulls[i])
		}
		fmt.Fprintf(b, "-- (%s)\n", strings.Join(vals, ", "))
	}
}

func renderValue(ctx *symbolic.EncodingContext, model solver.Model, value, null solver.Var) string {
	if model.Value(null) == 1 {
		return "NULL"
	}
	v := model.Value(value)
	if s, ok := ctx.Strings.Resolve(v); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return fmt.Sprint(v)
}

// renderGraphCreate reconstructs the counterexample instance as one
// Cypher CREATE statement, grouping node-label tables (no FKs) separately
// from edge-label tables (FKs named SRC/TGT), matching the induced-schema
// shape invariant (spec.md §8).
func renderGraphCreate(ctx *symbolic.EncodingContext, schema *gschema.InducedSchema, model solver.Model) string {
	var nodeParts []string
	var edgeParts []string
	pkToVar := map[string]string{}
	varCounter := 0

	nodeTables, edgeTables := classifyTables(schema)

	for _, name := range nodeTables {
		table, _ := schema.Table(name)
		st := ctx.Tables[name]
		for _, tup := range st.Tuples {
			if model.Value(tup.Deleted) == 1 {
				continue
			}
			v := fmt.Sprintf("n%d", varCounter)
			varCounter++
			pkToVar[name+":"+renderValue(ctx, model, tup.Values[table.PK], tup.Nulls[table.PK])] = v
			nodeParts = append(nodeParts, fmt.Sprintf("(%s:%s %s)", v, strings.ToUpper(name[:1])+name[1:], renderProps(ctx, model, table, tup)))
		}
	}

	for _, name := range edgeTables {
		table, _ := schema.Table(name)
		st := ctx.Tables[name]
		for _, tup := range st.Tuples {
			if model.Value(tup.Deleted) == 1 {
				continue
			}
			srcFK, tgtFK := table.FKs["SRC"], table.FKs["TGT"]
			srcKey := srcFK.Table + ":" + renderValue(ctx, model, tup.Values["SRC"], tup.Nulls["SRC"])
			tgtKey := tgtFK.Table + ":" + renderValue(ctx, model, tup.Values["TGT"], tup.Nulls["TGT"])
			srcVar, srcOK := pkToVar[srcKey]
			tgtVar, tgtOK := pkToVar[tgtKey]
			if !srcOK || !tgtOK {
				continue // endpoint was deleted/absent; edge cannot be reconstructed
			}
			v := fmt.Sprintf("e%d", varCounter)
			varCounter++
			edgeParts = append(edgeParts, fmt.Sprintf("(%s)-[%s:%s %s]->(%s)", srcVar, v, strings.ToUpper(name[:1])+name[1:], renderProps(ctx, model, table, tup), tgtVar))
		}
	}

	all := append(append([]string(nil), nodeParts...), edgeParts...)
	if len(all) == 0 {
		return "CREATE ();\n"
	}
	return "CREATE " + strings.Join(all, ", ") + ";\n"
}

func renderProps(ctx *symbolic.EncodingContext, model solver.Model, table *gschema.Table, tup symbolic.Tuple) string {
	var parts []string
	for _, attr := range table.Attrs {
		if attr == "SRC" || attr == "TGT" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", attr, renderValue(ctx, model, tup.Values[attr], tup.Nulls[attr])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func classifyTables(schema *gschema.InducedSchema) (nodeTables, edgeTables []string) {
	for _, name := range schema.TableNames() {
		table, _ := schema.Table(name)
		_, hasSrc := table.FKs["SRC"]
		_, hasTgt := table.FKs["TGT"]
		if hasSrc && hasTgt {
			edgeTables = append(edgeTables, name)
		} else {
			nodeTables = append(nodeTables, name)
		}
	}
	sort.Strings(nodeTables)
	sort.Strings(edgeTables)
	return nodeTables, edgeTables
}
