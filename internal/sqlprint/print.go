// Package sqlprint implements C7: rendering the relalg SQL IR back into
// deterministic PostgreSQL-dialect text (spec.md §4.5).
// verify.NormalizeBackend compares the printed text of both queries;
// counterexample rendering in internal/verify does not use this package.
package sqlprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/graphiti-verify/graphiti/internal/relalg"
)

// Print renders n as SQL text.
func Print(n relalg.SQL) string {
	p := &printer{}
	return p.print(n)
}

type printer struct {
	aliasCounter int
}

func (p *printer) print(n relalg.SQL) string {
	switch t := n.(type) {
	case relalg.Project:
		from, where := p.fromWhere(t.Sub)
		return "SELECT " + p.items(t.Items) + " FROM " + from + where
	case relalg.GroupBy:
		from, where := p.fromWhere(t.Sub)
		s := "SELECT " + p.items(t.Items) + " FROM " + from + where
		s += " GROUP BY " + p.exprList(t.Keys)
		if t.Having != nil {
			s += " HAVING " + p.pred(t.Having)
		}
		return s
	case relalg.OrderByIR:
		dir := "ASC"
		if !t.Asc {
			dir = "DESC"
		}
		return p.print(t.Sub) + " ORDER BY " + p.expr(t.Key) + " " + dir
	case relalg.UnionIR:
		op := "UNION"
		if t.All {
			op += " ALL"
		}
		return p.unionOperand(t.Left) + " " + op + " " + p.unionOperand(t.Right)
	case relalg.WithCTE:
		return "WITH " + t.Name + " AS (" + p.print(t.Sub) + ") " + p.print(t.Body)
	case relalg.FromTable, relalg.Join, relalg.Select:
		from, where := p.fromWhere(n)
		return "SELECT * FROM " + from + where
	default:
		return "?"
	}
}

func (p *printer) unionOperand(n relalg.SQL) string {
	if _, ok := n.(relalg.UnionIR); ok {
		return "(" + p.print(n) + ")"
	}
	return p.print(n)
}

// fromWhere fuses a Select directly beneath n into the enclosing
// `FROM ... WHERE ...` clause (spec.md §4.5); anything else that is not
// already a bare FromTable/Join relation is wrapped as a subquery.
func (p *printer) fromWhere(sub relalg.SQL) (from string, where string) {
	if sel, ok := sub.(relalg.Select); ok {
		return p.printFrom(sel.Sub), " WHERE " + p.pred(sel.Pred)
	}
	switch sub.(type) {
	case relalg.FromTable, relalg.Join:
		return p.printFrom(sub), ""
	}
	p.aliasCounter++
	alias := fmt.Sprintf("sub%d", p.aliasCounter)
	return "(" + p.print(sub) + ") AS " + alias, ""
}

func (p *printer) printFrom(n relalg.SQL) string {
	switch t := n.(type) {
	case relalg.FromTable:
		return t.Table + " AS " + t.Alias
	case relalg.Join:
		kind := "INNER"
		if t.Kind == relalg.JoinLeft {
			kind = "LEFT"
		}
		return p.printFrom(t.Left) + " " + kind + " JOIN " + p.printFrom(t.Right) + " ON " + p.pred(t.On)
	default:
		p.aliasCounter++
		alias := fmt.Sprintf("sub%d", p.aliasCounter)
		return "(" + p.print(n) + ") AS " + alias
	}
}

func (p *printer) items(items []relalg.ProjectItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		if it.Alias == "" {
			parts[i] = p.expr(it.Expr)
		} else {
			parts[i] = p.expr(it.Expr) + " AS " + it.Alias
		}
	}
	return strings.Join(parts, ", ")
}

func (p *printer) exprList(exprs []relalg.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, ", ")
}

func (p *printer) expr(e relalg.Expr) string {
	switch v := e.(type) {
	case relalg.Column:
		if v.Alias == "" {
			return v.Col
		}
		return v.Alias + "." + v.Col
	case relalg.Star:
		return "*"
	case relalg.Number:
		return strconv.FormatInt(v.Value, 10)
	case relalg.String:
		return "'" + strings.ReplaceAll(v.Value, "'", "''") + "'"
	case relalg.Func:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = p.expr(a)
		}
		return string(v.Name) + "(" + strings.Join(args, ", ") + ")"
	default:
		return "?"
	}
}

func (p *printer) pred(pr relalg.Predicate) string {
	switch v := pr.(type) {
	case relalg.Cmp:
		return p.expr(v.Left) + " " + string(v.Op) + " " + p.expr(v.Right)
	case relalg.And:
		return "(" + p.pred(v.Left) + " AND " + p.pred(v.Right) + ")"
	case relalg.Or:
		return "(" + p.pred(v.Left) + " OR " + p.pred(v.Right) + ")"
	case relalg.Not:
		return "NOT (" + p.pred(v.Sub) + ")"
	default:
		return "?"
	}
}
