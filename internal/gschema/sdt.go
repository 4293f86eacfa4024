package gschema

import "strings"

// Pred is a predicate (name, args) as used on either side of an SDT rule:
// a graph-world predicate is (NodeLabel/EdgeLabel, keys[...]); a relational
// predicate is (table_name, columns[...]) (spec.md §3).
type Pred struct {
	Name string
	Args []string
}

// String renders a predicate as `name(arg1, arg2, ...)`, matching the
// teacher's rule-printing convention in rules/rule.go.
func (p Pred) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte('(')
	for i, a := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a)
	}
	b.WriteByte(')')
	return b.String()
}

// Rule is one SDT rewrite rule relating a graph-world predicate to a
// relational-world predicate.
type Rule struct {
	Left  Pred
	Right Pred
}

func (r Rule) String() string {
	return r.Left.String() + " -> " + r.Right.String()
}

// SDT is the ordered list of rewrite rules produced by InferSDT.
type SDT struct {
	Rules []Rule
}

// Add appends a rule, preserving the order rules are discovered in.
func (s *SDT) Add(r Rule) {
	s.Rules = append(s.Rules, r)
}

// ForLabel returns the rule whose left predicate has the given name, and
// whether one was found. SDT rules are one-to-one with node/edge labels so
// a linear scan is adequate for schemas of the size this module targets.
func (s *SDT) ForLabel(label string) (Rule, bool) {
	for _, r := range s.Rules {
		if r.Left.Name == label {
			return r, true
		}
	}
	return Rule{}, false
}
