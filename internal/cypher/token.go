package cypher

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokStar
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokDot
	tokArrowRight // ->
	tokArrowLeft  // <-
	tokDash       // -
	tokEq
	tokNe
	tokLe
	tokGe
	tokLt
	tokGt
)

type token struct {
	kind   tokenKind
	text   string
	offset int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "<eof>"
	}
	return t.text
}
