package transpile

import (
	"github.com/graphiti-verify/graphiti/internal/cypher"
	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/relalg"
)

// binding maps a pattern variable to the induced table it resolves to.
type binding map[string]*gschema.Table

// Transpile translates a Cypher Query into the relalg SQL IR, guided by the
// SDT and induced schema (C6, spec.md §4.4).
func Transpile(q cypher.Query, sdt *gschema.SDT, schema *gschema.InducedSchema) (relalg.SQL, error) {
	ir, _, err := transpileQuery(q, sdt, schema)
	return ir, err
}

func transpileQuery(q cypher.Query, sdt *gschema.SDT, schema *gschema.InducedSchema) (relalg.SQL, binding, error) {
	switch t := q.(type) {
	case cypher.UnionQuery:
		left, _, err := transpileQuery(t.Left, sdt, schema)
		if err != nil {
			return nil, nil, err
		}
		right, _, err := transpileQuery(t.Right, sdt, schema)
		if err != nil {
			return nil, nil, err
		}
		return relalg.UnionIR{Left: left, Right: right, All: t.All}, nil, nil

	case cypher.OrderBy:
		sub, bound, err := transpileQuery(t.Sub, sdt, schema)
		if err != nil {
			return nil, nil, err
		}
		key, err := resolveExpr(t.Key, bound)
		if err != nil {
			return nil, nil, err
		}
		return relalg.OrderByIR{Sub: sub, Key: key, Asc: t.Asc}, bound, nil

	case cypher.ReturnQuery:
		return transpileReturn(t, sdt, schema)

	default:
		return nil, nil, &SemanticsError{Msg: "unrecognized query form"}
	}
}

func resolveTable(label string, sdt *gschema.SDT, schema *gschema.InducedSchema) (*gschema.Table, error) {
	rule, ok := sdt.ForLabel(label)
	if !ok {
		return nil, &SchemaMismatchError{Label: label}
	}
	table, ok := schema.Table(rule.Right.Name)
	if !ok {
		return nil, &SchemaMismatchError{Label: label}
	}
	return table, nil
}

// transpilePattern performs the "pattern walk" of spec.md §4.4: it seeds
// the IR with the first node's table and emits exactly two joins per
// path segment, in the direction dictated by the edge's arrow.
func transpilePattern(clause cypher.Clause, sdt *gschema.SDT, schema *gschema.InducedSchema) (relalg.SQL, binding, error) {
	path := clause.Pattern
	firstTable, err := resolveTable(path.Nodes[0].Label, sdt, schema)
	if err != nil {
		return nil, nil, err
	}

	var ir relalg.SQL = relalg.FromTable{Table: firstTable.Name, Alias: path.Nodes[0].Var}
	bound := binding{path.Nodes[0].Var: firstTable}

	kind := relalg.JoinInner
	if clause.Optional {
		kind = relalg.JoinLeft
	}

	prevVar := path.Nodes[0].Var
	prevTable := firstTable
	for i, edge := range path.Edges {
		nextNode := path.Nodes[i+1]
		edgeTable, err := resolveTable(edge.Label, sdt, schema)
		if err != nil {
			return nil, nil, err
		}
		nextTable, err := resolveTable(nextNode.Label, sdt, schema)
		if err != nil {
			return nil, nil, err
		}

		var onLeft relalg.Predicate
		var onRight relalg.Predicate
		if edge.Direction == cypher.DirLeft {
			onLeft = relalg.Cmp{Op: relalg.CmpEq, Left: relalg.Column{Alias: prevVar, Col: prevTable.PK}, Right: relalg.Column{Alias: edge.Var, Col: "TGT"}}
			onRight = relalg.Cmp{Op: relalg.CmpEq, Left: relalg.Column{Alias: edge.Var, Col: "SRC"}, Right: relalg.Column{Alias: nextNode.Var, Col: nextTable.PK}}
		} else {
			// DirRight and DirEither (undirected `--` is treated as forward
			// `->`, per spec.md §4.4 and §9).
			onLeft = relalg.Cmp{Op: relalg.CmpEq, Left: relalg.Column{Alias: prevVar, Col: prevTable.PK}, Right: relalg.Column{Alias: edge.Var, Col: "SRC"}}
			onRight = relalg.Cmp{Op: relalg.CmpEq, Left: relalg.Column{Alias: edge.Var, Col: "TGT"}, Right: relalg.Column{Alias: nextNode.Var, Col: nextTable.PK}}
		}

		ir = relalg.Join{Left: ir, Right: relalg.FromTable{Table: edgeTable.Name, Alias: edge.Var}, On: onLeft, Kind: kind}
		bound[edge.Var] = edgeTable
		ir = relalg.Join{Left: ir, Right: relalg.FromTable{Table: nextTable.Name, Alias: nextNode.Var}, On: onRight, Kind: kind}
		bound[nextNode.Var] = nextTable

		prevVar, prevTable = nextNode.Var, nextTable
	}

	if clause.Where != nil {
		pred, err := resolvePredicate(clause.Where, bound)
		if err != nil {
			return nil, nil, err
		}
		ir = relalg.Select{Sub: ir, Pred: pred}
	}

	return ir, bound, nil
}

func transpileReturn(rq cypher.ReturnQuery, sdt *gschema.SDT, schema *gschema.InducedSchema) (relalg.SQL, binding, error) {
	ir, bound, err := transpilePattern(rq.Clause, sdt, schema)
	if err != nil {
		return nil, nil, err
	}

	hasAgg := false
	for _, item := range rq.Items {
		if _, ok := item.Expr.(cypher.ExprAgg); ok {
			hasAgg = true
			break
		}
	}

	items := make([]relalg.ProjectItem, len(rq.Items))
	for i, item := range rq.Items {
		e, err := resolveExpr(item.Expr, bound)
		if err != nil {
			return nil, nil, err
		}
		items[i] = relalg.ProjectItem{Alias: item.Alias, Expr: e}
	}

	if !hasAgg {
		return relalg.Project{Sub: ir, Items: items}, bound, nil
	}

	// Aggregate ⇒ GroupBy: keys are the non-aggregate RETURN expressions,
	// deduplicated by structural equality (spec.md §4.4, §8).
	var keys []relalg.Expr
	for i, item := range rq.Items {
		if _, ok := item.Expr.(cypher.ExprAgg); ok {
			continue
		}
		k := items[i].Expr
		dup := false
		for _, existing := range keys {
			if relalg.Equal(existing, k) {
				dup = true
				break
			}
		}
		if !dup {
			keys = append(keys, k)
		}
	}
	return relalg.GroupBy{Sub: ir, Keys: keys, Items: items}, bound, nil
}

func resolveExpr(e cypher.Expr, bound binding) (relalg.Expr, error) {
	switch v := e.(type) {
	case cypher.ExprProp:
		if _, ok := bound[v.Var]; !ok {
			return nil, &BindingError{Var: v.Var}
		}
		return relalg.Column{Alias: v.Var, Col: v.Key}, nil
	case cypher.ExprInt:
		return relalg.Number{Value: v.Value}, nil
	case cypher.ExprString:
		return relalg.String{Value: v.Value}, nil
	case cypher.ExprStar:
		return relalg.Star{}, nil
	case cypher.ExprAgg:
		if v.Star {
			return relalg.Func{Name: relalg.FuncCount, Args: []relalg.Expr{relalg.Star{}}}, nil
		}
		if _, nested := v.Arg.(cypher.ExprAgg); nested {
			return nil, &SemanticsError{Msg: "aggregate of an aggregate is not supported"}
		}
		inner, err := resolveExpr(v.Arg, bound)
		if err != nil {
			return nil, err
		}
		return relalg.Func{Name: relalg.FuncKind(v.Func), Args: []relalg.Expr{inner}}, nil
	default:
		return nil, &SemanticsError{Msg: "unrecognized expression form"}
	}
}

func resolvePredicate(p cypher.Predicate, bound binding) (relalg.Predicate, error) {
	switch v := p.(type) {
	case cypher.PredCompare:
		left, err := resolveExpr(v.Left, bound)
		if err != nil {
			return nil, err
		}
		right, err := resolveExpr(v.Right, bound)
		if err != nil {
			return nil, err
		}
		return relalg.Cmp{Op: relalg.CmpOp(v.Op), Left: left, Right: right}, nil
	case cypher.PredAnd:
		left, err := resolvePredicate(v.Left, bound)
		if err != nil {
			return nil, err
		}
		right, err := resolvePredicate(v.Right, bound)
		if err != nil {
			return nil, err
		}
		return relalg.And{Left: left, Right: right}, nil
	case cypher.PredOr:
		left, err := resolvePredicate(v.Left, bound)
		if err != nil {
			return nil, err
		}
		right, err := resolvePredicate(v.Right, bound)
		if err != nil {
			return nil, err
		}
		return relalg.Or{Left: left, Right: right}, nil
	case cypher.PredNot:
		sub, err := resolvePredicate(v.Sub, bound)
		if err != nil {
			return nil, err
		}
		return relalg.Not{Sub: sub}, nil
	default:
		return nil, &SemanticsError{Msg: "unrecognized predicate form"}
	}
}
