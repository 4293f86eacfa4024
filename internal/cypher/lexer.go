package cypher

import "strings"

// lexer is a hand-rolled tokenizer over the restricted Cypher surface of
// spec.md §6. Cypher patterns use multi-character punctuation runs
// (`-[`, `]->`, `<-`) that stdlib text/scanner cannot tokenize directly, so
// unlike the teacher's rules/parse.go (which scans over text/scanner
// runes), this lexer scans bytes itself; the surrounding parser keeps the
// teacher's peek/next lookahead-token shape.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

// next scans and returns the next token.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, offset: start}, nil
	}
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], offset: start}, nil
	case isDigit(c):
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokInt, text: l.src[start:l.pos], offset: start}, nil
	case c == '\'':
		l.pos++
		var b strings.Builder
		for l.pos < len(l.src) && l.src[l.pos] != '\'' {
			b.WriteByte(l.src[l.pos])
			l.pos++
		}
		if l.pos >= len(l.src) {
			return token{}, errorf(start, "<eof>", "closing quote")
		}
		l.pos++ // consume closing quote
		return token{kind: tokString, text: b.String(), offset: start}, nil
	case c == '*':
		l.pos++
		return token{kind: tokStar, text: "*", offset: start}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", offset: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", offset: start}, nil
	case c == '[':
		l.pos++
		return token{kind: tokLBracket, text: "[", offset: start}, nil
	case c == ']':
		l.pos++
		return token{kind: tokRBracket, text: "]", offset: start}, nil
	case c == ':':
		l.pos++
		return token{kind: tokColon, text: ":", offset: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", offset: start}, nil
	case c == '.':
		l.pos++
		return token{kind: tokDot, text: ".", offset: start}, nil
	case c == '-':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '>' {
			l.pos++
			return token{kind: tokArrowRight, text: "->", offset: start}, nil
		}
		return token{kind: tokDash, text: "-", offset: start}, nil
	case c == '<':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '-' {
			l.pos++
			return token{kind: tokArrowLeft, text: "<-", offset: start}, nil
		}
		if l.pos < len(l.src) && l.src[l.pos] == '>' {
			l.pos++
			return token{kind: tokNe, text: "<>", offset: start}, nil
		}
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokLe, text: "<=", offset: start}, nil
		}
		return token{kind: tokLt, text: "<", offset: start}, nil
	case c == '>':
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '=' {
			l.pos++
			return token{kind: tokGe, text: ">=", offset: start}, nil
		}
		return token{kind: tokGt, text: ">", offset: start}, nil
	case c == '=':
		l.pos++
		return token{kind: tokEq, text: "=", offset: start}, nil
	default:
		return token{}, errorf(start, string(c), "a valid token")
	}
}
