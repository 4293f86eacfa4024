package cypher

import "strconv"

// Parse parses a Cypher query string into a fully-typed Query, per the
// grammar in spec.md §4.2 and §6:
//
//	query      := unionQuery
//	unionQuery := orderedReturn ( "UNION" ["ALL"] orderedReturn )*
//	orderedReturn := returnQuery [ "ORDER BY" expr ["ASC"|"DESC"] ]
//	returnQuery := clause "RETURN" item ("," item)*
//	clause     := ["OPTIONAL"] "MATCH" pattern ["WHERE" predicate]
//
// The parser is an LL(1) recursive-descent parser over a one-token
// lookahead, in the shape of the teacher's rules/parse.go.
func Parse(src string) (query Query, err error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	q, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, errorf(p.tok.offset, p.tok.String(), "end of input")
	}
	return q, nil
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

func (p *parser) isIdent(text string) bool {
	return p.tok.kind == tokIdent && eqFold(p.tok.text, text)
}

func eqFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (p *parser) expectIdent(text string) error {
	if !p.isIdent(text) {
		return errorf(p.tok.offset, p.tok.String(), text)
	}
	return p.advance()
}

func (p *parser) expect(kind tokenKind, expected string) (token, error) {
	if p.tok.kind != kind {
		return token{}, errorf(p.tok.offset, p.tok.String(), expected)
	}
	t := p.tok
	return t, p.advance()
}

func (p *parser) parseUnion() (Query, error) {
	left, err := p.parseOrderedReturn()
	if err != nil {
		return nil, err
	}
	for p.isIdent("UNION") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		all := false
		if p.isIdent("ALL") {
			all = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		right, err := p.parseOrderedReturn()
		if err != nil {
			return nil, err
		}
		left = UnionQuery{Left: left, Right: right, All: all}
	}
	return left, nil
}

func (p *parser) parseOrderedReturn() (Query, error) {
	rq, err := p.parseReturnQuery()
	if err != nil {
		return nil, err
	}
	if !p.isIdent("ORDER") {
		return rq, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectIdent("BY"); err != nil {
		return nil, err
	}
	key, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	asc := true
	if p.isIdent("ASC") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if p.isIdent("DESC") {
		asc = false
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return OrderBy{Sub: rq, Key: key, Asc: asc}, nil
}

func (p *parser) parseReturnQuery() (Query, error) {
	clause, err := p.parseClause()
	if err != nil {
		return nil, err
	}
	if err := p.expectIdent("RETURN"); err != nil {
		return nil, err
	}
	var items []ReturnItem
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectIdent("AS"); err != nil {
			return nil, err
		}
		alias, err := p.expect(tokIdent, "alias")
		if err != nil {
			return nil, err
		}
		items = append(items, ReturnItem{Expr: e, Alias: alias.text})
		if p.tok.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := validateReturnNames(items); err != nil {
		return nil, err
	}
	return ReturnQuery{Clause: clause, Items: items}, nil
}

func validateReturnNames(items []ReturnItem) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.Alias] {
			return errorf(0, it.Alias, "a unique RETURN alias")
		}
		seen[it.Alias] = true
	}
	return nil
}

func (p *parser) parseClause() (Clause, error) {
	optional := false
	if p.isIdent("OPTIONAL") {
		optional = true
		if err := p.advance(); err != nil {
			return Clause{}, err
		}
	}
	if err := p.expectIdent("MATCH"); err != nil {
		return Clause{}, err
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return Clause{}, err
	}
	var where Predicate
	if p.isIdent("WHERE") {
		if err := p.advance(); err != nil {
			return Clause{}, err
		}
		where, err = p.parsePredicate()
		if err != nil {
			return Clause{}, err
		}
	}
	return Clause{Optional: optional, Pattern: pattern, Where: where}, nil
}

func (p *parser) parseNodePat() (NodePat, error) {
	if _, err := p.expect(tokLParen, "("); err != nil {
		return NodePat{}, err
	}
	v, err := p.expect(tokIdent, "variable name")
	if err != nil {
		return NodePat{}, err
	}
	if _, err := p.expect(tokColon, ":"); err != nil {
		return NodePat{}, err
	}
	label, err := p.expect(tokIdent, "label")
	if err != nil {
		return NodePat{}, err
	}
	if _, err := p.expect(tokRParen, ")"); err != nil {
		return NodePat{}, err
	}
	return NodePat{Var: v.text, Label: label.text}, nil
}

// parseEdgePat consumes one of the three direction forms:
//
//	-[var:Label]->    forward
//	<-[var:Label]-    backward
//	-[var:Label]-     undirected
func (p *parser) parseEdgePat() (EdgePat, error) {
	var dir Direction
	switch p.tok.kind {
	case tokArrowLeft:
		dir = DirLeft
		if err := p.advance(); err != nil {
			return EdgePat{}, err
		}
	case tokDash:
		if err := p.advance(); err != nil {
			return EdgePat{}, err
		}
	default:
		return EdgePat{}, errorf(p.tok.offset, p.tok.String(), "an edge pattern")
	}
	if _, err := p.expect(tokLBracket, "["); err != nil {
		return EdgePat{}, err
	}
	v, err := p.expect(tokIdent, "variable name")
	if err != nil {
		return EdgePat{}, err
	}
	if _, err := p.expect(tokColon, ":"); err != nil {
		return EdgePat{}, err
	}
	label, err := p.expect(tokIdent, "label")
	if err != nil {
		return EdgePat{}, err
	}
	if _, err := p.expect(tokRBracket, "]"); err != nil {
		return EdgePat{}, err
	}
	if dir == DirLeft {
		if _, err := p.expect(tokDash, "-"); err != nil {
			return EdgePat{}, err
		}
	} else {
		switch p.tok.kind {
		case tokArrowRight:
			dir = DirRight
			if err := p.advance(); err != nil {
				return EdgePat{}, err
			}
		case tokDash:
			dir = DirEither
			if err := p.advance(); err != nil {
				return EdgePat{}, err
			}
		default:
			return EdgePat{}, errorf(p.tok.offset, p.tok.String(), "-> or - to close the edge pattern")
		}
	}
	return EdgePat{Var: v.text, Label: label.text, Direction: dir}, nil
}

func (p *parser) parsePattern() (PathPat, error) {
	first, err := p.parseNodePat()
	if err != nil {
		return PathPat{}, err
	}
	path := PathPat{Nodes: []NodePat{first}}
	for p.tok.kind == tokDash || p.tok.kind == tokArrowLeft {
		edge, err := p.parseEdgePat()
		if err != nil {
			return PathPat{}, err
		}
		node, err := p.parseNodePat()
		if err != nil {
			return PathPat{}, err
		}
		path.Edges = append(path.Edges, edge)
		path.Nodes = append(path.Nodes, node)
	}
	return path, nil
}

// parsePredicate implements `OR < AND < NOT < comparison` precedence
// (spec.md §4.2).
func (p *parser) parsePredicate() (Predicate, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Predicate, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isIdent("OR") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = PredOr{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Predicate, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isIdent("AND") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = PredAnd{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Predicate, error) {
	if p.isIdent("NOT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		sub, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return PredNot{Sub: sub}, nil
	}
	return p.parseComparison()
}

var cmpOps = map[tokenKind]CmpOp{
	tokEq: CmpEq, tokNe: CmpNe, tokLt: CmpLt, tokLe: CmpLe, tokGt: CmpGt, tokGe: CmpGe,
}

func (p *parser) parseComparison() (Predicate, error) {
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
	return PredCompare{Left: left, Op: op, Right: right}, nil
}

var aggNames = map[string]AggFunc{
	"COUNT": AggCount, "SUM": AggSum, "AVG": AggAvg, "MIN": AggMin, "MAX": AggMax,
}

func (p *parser) parseExpr() (Expr, error) {
	switch p.tok.kind {
	case tokStar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ExprStar{}, nil
	case tokInt:
		v, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			return nil, errorf(p.tok.offset, p.tok.text, "an integer literal")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ExprInt{Value: v}, nil
	case tokString:
		v := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ExprString{Value: v}, nil
	case tokIdent:
		name := p.tok.text
		if agg, ok := aggNames[normalizeFold(name)]; ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.expect(tokLParen, "("); err != nil {
				return nil, err
			}
			if p.tok.kind == tokStar {
				if agg != AggCount {
					return nil, errorf(p.tok.offset, "*", "an expression (only COUNT(*) may use *)")
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
				if _, err := p.expect(tokRParen, ")"); err != nil {
					return nil, err
				}
				return ExprAgg{Func: agg, Star: true}, nil
			}
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, ok := inner.(ExprAgg); ok {
				return nil, errorf(p.tok.offset, "aggregate", "a non-aggregate expression (aggregate of an aggregate is not allowed)")
			}
			if _, err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			return ExprAgg{Func: agg, Arg: inner}, nil
		}
		v, err := p.expect(tokIdent, "an identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokDot, "."); err != nil {
			return nil, err
		}
		key, err := p.expect(tokIdent, "a property name")
		if err != nil {
			return nil, err
		}
		return ExprProp{Var: v.text, Key: key.text}, nil
	default:
		return nil, errorf(p.tok.offset, p.tok.String(), "an expression")
	}
}

func normalizeFold(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
