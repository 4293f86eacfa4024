package sqlast

import (
	"strconv"
	"strings"

	"github.com/graphiti-verify/graphiti/internal/relalg"
)

// Parse parses the supported SQL subset (spec.md §4.3, §6) into the relalg
// IR:
//
//	statement  := [withClause] unionSelect
//	withClause := "WITH" cte ("," cte)*
//	cte        := ident "AS" "(" unionSelect ")"
//	unionSelect := select ( "UNION" ["ALL"] select )*
//	select     := "SELECT" item ("," item)* "FROM" tableRef joinClause*
//	              ["WHERE" pred] ["GROUP BY" expr ("," expr)* ["HAVING" pred]]
//	              ["ORDER BY" expr ["ASC"|"DESC"]]
//	joinClause := ("INNER"|"LEFT") "JOIN" tableRef "ON" pred
//	tableRef   := ident [["AS"] ident]   (alias defaults to the table name)
func Parse(src string) (relalg.SQL, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	ir, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, errorf(p.tok.offset, p.tok.String(), "end of input")
	}
	return ir, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func eqFold(a, b string) bool { return strings.EqualFold(a, b) }

func (p *parser) isKeyword(word string) bool {
	return p.tok.kind == tokIdent && eqFold(p.tok.text, word)
}

func (p *parser) expectKeyword(word string) error {
	if !p.isKeyword(word) {
		return errorf(p.tok.offset, p.tok.String(), word)
	}
	return p.advance()
}

func (p *parser) expectIdent(expected string) (string, error) {
	if p.tok.kind != tokIdent {
		return "", errorf(p.tok.offset, p.tok.String(), expected)
	}
	text := p.tok.text
	return text, p.advance()
}

var reservedWords = map[string]bool{
	"WHERE": true, "GROUP": true, "BY": true, "HAVING": true, "ORDER": true,
	"JOIN": true, "INNER": true, "LEFT": true, "ON": true, "UNION": true,
	"ALL": true, "AS": true, "SELECT": true, "FROM": true, "WITH": true,
	"ASC": true, "DESC": true, "AND": true, "OR": true, "NOT": true,
}

func (p *parser) parseStatement() (relalg.SQL, error) {
	type cte struct {
		name string
		sub  relalg.SQL
	}
	var ctes []cte

	if p.isKeyword("WITH") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			name, err := p.expectIdent("CTE name")
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("AS"); err != nil {
				return nil, err
			}
			if p.tok.kind != tokLParen {
				return nil, errorf(p.tok.offset, p.tok.String(), "(")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			sub, err := p.parseUnionSelect()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokRParen {
				return nil, errorf(p.tok.offset, p.tok.String(), ")")
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			ctes = append(ctes, cte{name: name, sub: sub})
			if p.tok.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	body, err := p.parseUnionSelect()
	if err != nil {
		return nil, err
	}

	for i := len(ctes) - 1; i >= 0; i-- {
		body = relalg.WithCTE{Name: ctes[i].name, Sub: ctes[i].sub, Body: body}
	}
	return body, nil
}

func (p *parser) parseUnionSelect() (relalg.SQL, error) {
	left, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("UNION") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		all := false
		if p.isKeyword("ALL") {
			all = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		right, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		left = relalg.UnionIR{Left: left, Right: right, All: all}
	}
	return left, nil
}

func (p *parser) parseSelect() (relalg.SQL, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	var items []relalg.ProjectItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		alias := ""
		if p.isKeyword("AS") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			alias, err = p.expectIdent("column alias")
			if err != nil {
				return nil, err
			}
		} else if p.tok.kind == tokIdent && !reservedWords[strings.ToUpper(p.tok.text)] {
			alias, err = p.expectIdent("column alias")
			if err != nil {
				return nil, err
			}
		}
		items = append(items, relalg.ProjectItem{Alias: alias, Expr: e})
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	var ir relalg.SQL
	first, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	ir = first

	for p.isKeyword("INNER") || p.isKeyword("LEFT") {
		kind := relalg.JoinInner
		if p.isKeyword("LEFT") {
			kind = relalg.JoinLeft
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("JOIN"); err != nil {
			return nil, err
		}
		right, err := p.parseTableRef()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("ON"); err != nil {
			return nil, err
		}
		on, err := p.parsePredOr()
		if err != nil {
			return nil, err
		}
		ir = relalg.Join{Left: ir, Right: right, On: on, Kind: kind}
	}

	if p.isKeyword("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		pred, err := p.parsePredOr()
		if err != nil {
			return nil, err
		}
		ir = relalg.Select{Sub: ir, Pred: pred}
	}

	var groupKeys []relalg.Expr
	var having relalg.Predicate
	if p.isKeyword("GROUP") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			groupKeys = append(groupKeys, e)
			if p.tok.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if p.isKeyword("HAVING") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			having, err = p.parsePredOr()
			if err != nil {
				return nil, err
			}
		}
		ir = relalg.GroupBy{Sub: ir, Keys: groupKeys, Items: items, Having: having}
	} else {
		ir = relalg.Project{Sub: ir, Items: items}
	}

	if p.isKeyword("ORDER") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		asc := true
		if p.isKeyword("DESC") {
			asc = false
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.isKeyword("ASC") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		ir = relalg.OrderByIR{Sub: ir, Key: key, Asc: asc}
	}

	return ir, nil
}

func (p *parser) parseTableRef() (relalg.FromTable, error) {
	name, err := p.expectIdent("table name")
	if err != nil {
		return relalg.FromTable{}, err
	}
	alias := name
	if p.isKeyword("AS") {
		if err := p.advance(); err != nil {
			return relalg.FromTable{}, err
		}
		alias, err = p.expectIdent("table alias")
		if err != nil {
			return relalg.FromTable{}, err
		}
	} else if p.tok.kind == tokIdent && !reservedWords[strings.ToUpper(p.tok.text)] {
		alias, err = p.expectIdent("table alias")
		if err != nil {
			return relalg.FromTable{}, err
		}
	}
	return relalg.FromTable{Table: name, Alias: alias}, nil
}

var aggNames = map[string]relalg.FuncKind{
	"COUNT": relalg.FuncCount,
	"SUM":   relalg.FuncSum,
	"AVG":   relalg.FuncAvg,
	"MIN":   relalg.FuncMin,
	"MAX":   relalg.FuncMax,
}

func (p *parser) parseExpr() (relalg.Expr, error) {
	switch p.tok.kind {
	case tokStar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return relalg.Star{}, nil
	case tokInt:
		v, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			return nil, errorf(p.tok.offset, p.tok.text, "integer literal")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return relalg.Number{Value: v}, nil
	case tokString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return relalg.String{Value: s}, nil
	case tokIdent:
		name := p.tok.text
		if fn, ok := aggNames[strings.ToUpper(name)]; ok {
			save := p.lex.pos
			saveTok := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind == tokLParen {
				if err := p.advance(); err != nil {
					return nil, err
				}
				var args []relalg.Expr
				if p.tok.kind == tokStar {
					if err := p.advance(); err != nil {
						return nil, err
					}
					args = []relalg.Expr{relalg.Star{}}
				} else {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = []relalg.Expr{arg}
				}
				if p.tok.kind != tokRParen {
					return nil, errorf(p.tok.offset, p.tok.String(), ")")
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
				return relalg.Func{Name: fn, Args: args}, nil
			}
			// not actually a call: rewind and fall through to plain ident.
			p.lex.pos = save
			p.tok = saveTok
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokDot {
			if err := p.advance(); err != nil {
				return nil, err
			}
			col, err := p.expectIdent("column name")
			if err != nil {
				return nil, err
			}
			return relalg.Column{Alias: name, Col: col}, nil
		}
		return relalg.Column{Alias: "", Col: name}, nil
	default:
		return nil, errorf(p.tok.offset, p.tok.String(), "an expression")
	}
}

var cmpOps = map[tokenKind]relalg.CmpOp{
	tokEq: relalg.CmpEq, tokNe: relalg.CmpNe, tokLt: relalg.CmpLt,
	tokLe: relalg.CmpLe, tokGt: relalg.CmpGt, tokGe: relalg.CmpGe,
}

func (p *parser) parsePredOr() (relalg.Predicate, error) {
	left, err := p.parsePredAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("OR") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePredAnd()
		if err != nil {
			return nil, err
		}
		left = relalg.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePredAnd() (relalg.Predicate, error) {
	left, err := p.parsePredNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("AND") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePredNot()
		if err != nil {
			return nil, err
		}
		left = relalg.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parsePredNot() (relalg.Predicate, error) {
	if p.isKeyword("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		sub, err := p.parsePredPrimary()
		if err != nil {
			return nil, err
		}
		return relalg.Not{Sub: sub}, nil
	}
	return p.parsePredPrimary()
}

func (p *parser) parsePredPrimary() (relalg.Predicate, error) {
	if p.tok.kind == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parsePredOr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, errorf(p.tok.offset, p.tok.String(), ")")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op, ok := cmpOps[p.tok.kind]
	if !ok {
		return nil, errorf(p.tok.offset, p.tok.String(), "a comparison operator")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return relalg.Cmp{Op: op, Left: left, Right: right}, nil
}
