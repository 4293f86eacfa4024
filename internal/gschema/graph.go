// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package gschema holds the graph schema, the induced relational schema,
// and the Schema-Dependent Transformation (SDT) that relates them.
package gschema

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NodeType is a node label plus its ordered key attributes. Keys[0] is the
// default key. Types optionally narrows the symbolic encoder's bound for
// an attribute (one of "bool", "int", "date", "varchar"); an attribute
// absent from Types defaults to "int" (spec.md §4.6's type-tagged integer
// ranges).
type NodeType struct {
	Label string
	Keys  []string
	Types map[string]string
}

// DefaultKey returns the first key, which is the default key per spec.
func (n NodeType) DefaultKey() string {
	return n.Keys[0]
}

func (n NodeType) validate() error {
	if !labelPattern.MatchString(n.Label) {
		return &SchemaError{Msg: fmt.Sprintf("node label %q is not a valid identifier", n.Label)}
	}
	if len(n.Keys) == 0 {
		return &SchemaError{Msg: fmt.Sprintf("node type %q must have at least one key", n.Label)}
	}
	return validateTypes(n.Label, n.Types)
}

// EdgeType is a directed edge label plus source/target node labels and its
// ordered key attributes. Types has the same role as NodeType.Types.
type EdgeType struct {
	Label    string
	SrcLabel string
	TgtLabel string
	Keys     []string
	Types    map[string]string
}

// DefaultKey returns the first key, which is the default key per spec.
func (e EdgeType) DefaultKey() string {
	return e.Keys[0]
}

func (e EdgeType) validate() error {
	if !labelPattern.MatchString(e.Label) {
		return &SchemaError{Msg: fmt.Sprintf("edge label %q is not a valid identifier", e.Label)}
	}
	if e.SrcLabel == "" || e.TgtLabel == "" {
		return &SchemaError{Msg: fmt.Sprintf("edge type %q needs both a source and a target label", e.Label)}
	}
	if len(e.Keys) == 0 {
		return &SchemaError{Msg: fmt.Sprintf("edge type %q must have at least one key", e.Label)}
	}
	return validateTypes(e.Label, e.Types)
}

func validateTypes(label string, types map[string]string) error {
	for attr, kind := range types {
		switch kind {
		case "bool", "int", "date", "varchar":
		default:
			return &SchemaError{Msg: fmt.Sprintf("%q.%s: unknown attribute type %q", label, attr, kind)}
		}
	}
	return nil
}

// GraphSchema is the set of node and edge types forming a property-graph
// schema. Node and edge label spaces are disjoint and each label is unique
// within its own space (spec.md §3).
type GraphSchema struct {
	Nodes []NodeType
	Edges []EdgeType

	nodeIndex map[string]int
	edgeIndex map[string]int
}

// New builds a GraphSchema from ordered node and edge lists, validating the
// invariants in spec.md §3: disjoint/unique labels, edges reference
// existing node labels, every type has at least one key.
func New(nodes []NodeType, edges []EdgeType) (*GraphSchema, error) {
	g := &GraphSchema{
		Nodes:     nodes,
		Edges:     edges,
		nodeIndex: make(map[string]int, len(nodes)),
		edgeIndex: make(map[string]int, len(edges)),
	}
	for i, n := range nodes {
		if err := n.validate(); err != nil {
			return nil, err
		}
		if _, dup := g.nodeIndex[n.Label]; dup {
			return nil, &SchemaError{Msg: fmt.Sprintf("duplicate node label %q", n.Label)}
		}
		g.nodeIndex[n.Label] = i
	}
	for i, e := range edges {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := g.nodeIndex[e.Label]; dup {
			return nil, &SchemaError{Msg: fmt.Sprintf("edge label %q collides with a node label", e.Label)}
		}
		if _, dup := g.edgeIndex[e.Label]; dup {
			return nil, &SchemaError{Msg: fmt.Sprintf("duplicate edge label %q", e.Label)}
		}
		if _, ok := g.nodeIndex[e.SrcLabel]; !ok {
			return nil, &SchemaError{Msg: fmt.Sprintf("edge %q references missing source label %q", e.Label, e.SrcLabel)}
		}
		if _, ok := g.nodeIndex[e.TgtLabel]; !ok {
			return nil, &SchemaError{Msg: fmt.Sprintf("edge %q references missing target label %q", e.Label, e.TgtLabel)}
		}
		g.edgeIndex[e.Label] = i
	}
	return g, nil
}

// Node looks up a NodeType by label.
func (g *GraphSchema) Node(label string) (NodeType, bool) {
	i, ok := g.nodeIndex[label]
	if !ok {
		return NodeType{}, false
	}
	return g.Nodes[i], true
}

// Edge looks up an EdgeType by label.
func (g *GraphSchema) Edge(label string) (EdgeType, bool) {
	i, ok := g.edgeIndex[label]
	if !ok {
		return EdgeType{}, false
	}
	return g.Edges[i], true
}

// IsNodeLabel reports whether label names a NodeType.
func (g *GraphSchema) IsNodeLabel(label string) bool {
	_, ok := g.nodeIndex[label]
	return ok
}

// IsEdgeLabel reports whether label names an EdgeType.
func (g *GraphSchema) IsEdgeLabel(label string) bool {
	_, ok := g.edgeIndex[label]
	return ok
}

// jsonSchema is the wire representation described in spec.md §6. Types is
// an optional attribute-name -> "bool"|"int"|"date"|"varchar" map
// narrowing the symbolic encoder's bound for that column; omitted
// attributes default to "int".
type jsonSchema struct {
	Nodes []struct {
		Label string            `json:"label"`
		Keys  []string          `json:"keys"`
		Types map[string]string `json:"types"`
	} `json:"nodes"`
	Edges []struct {
		Label string            `json:"label"`
		Src   string            `json:"src"`
		Tgt   string            `json:"tgt"`
		Keys  []string          `json:"keys"`
		Types map[string]string `json:"types"`
	} `json:"edges"`
}

// ParseJSON decodes and validates the JSON graph-schema input of spec.md §6.
func ParseJSON(data []byte) (*GraphSchema, error) {
	var js jsonSchema
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, &SchemaError{Msg: "malformed graph schema JSON: " + err.Error()}
	}
	nodes := make([]NodeType, len(js.Nodes))
	for i, n := range js.Nodes {
		nodes[i] = NodeType{Label: n.Label, Keys: n.Keys, Types: n.Types}
	}
	edges := make([]EdgeType, len(js.Edges))
	for i, e := range js.Edges {
		edges[i] = EdgeType{Label: e.Label, SrcLabel: e.Src, TgtLabel: e.Tgt, Keys: e.Keys, Types: e.Types}
	}
	return New(nodes, edges)
}
