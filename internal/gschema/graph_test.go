package gschema

import (
	"strings"
	"testing"
)

func TestNewRejectsMissingEdgeLabel(t *testing.T) {
	_, err := New(
		[]NodeType{{Label: "Person", Keys: []string{"pid"}}},
		[]EdgeType{{Label: "WORKS_AT", SrcLabel: "Person", TgtLabel: "Company", Keys: []string{"wid"}}},
	)
	if err == nil {
		t.Fatal("expected error for edge referencing missing node label")
	}
	if !strings.Contains(err.Error(), "Company") {
		t.Errorf("error should mention missing label: %v", err)
	}
}

func TestNewRejectsDuplicateNodeLabel(t *testing.T) {
	_, err := New(
		[]NodeType{
			{Label: "Person", Keys: []string{"pid"}},
			{Label: "Person", Keys: []string{"other"}},
		},
		nil,
	)
	if err == nil {
		t.Fatal("expected error for duplicate node label")
	}
}

func TestNewRejectsZeroKeys(t *testing.T) {
	_, err := New([]NodeType{{Label: "Person", Keys: nil}}, nil)
	if err == nil {
		t.Fatal("expected error for node type with no keys")
	}
}

func TestNewRejectsLabelCollisionBetweenNodeAndEdge(t *testing.T) {
	_, err := New(
		[]NodeType{
			{Label: "Person", Keys: []string{"pid"}},
			{Label: "WORKS_AT", Keys: []string{"x"}},
		},
		[]EdgeType{{Label: "WORKS_AT", SrcLabel: "Person", TgtLabel: "Person", Keys: []string{"wid"}}},
	)
	if err == nil {
		t.Fatal("expected error for edge label colliding with node label")
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"nodes": [{"label": "Person", "keys": ["pid", "name"]}],
		"edges": []
	}`)
	g, err := ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := g.Node("Person")
	if !ok || n.DefaultKey() != "pid" {
		t.Fatalf("unexpected node: %+v ok=%v", n, ok)
	}
}

func TestParseJSONPropagatesAttributeTypes(t *testing.T) {
	data := []byte(`{
		"nodes": [{"label": "Person", "keys": ["pid", "name"], "types": {"born": "date", "active": "bool"}}],
		"edges": []
	}`)
	g, err := ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node("Person")
	if n.Types["born"] != "date" || n.Types["active"] != "bool" {
		t.Fatalf("unexpected types: %+v", n.Types)
	}
}

func TestNewRejectsUnknownAttributeType(t *testing.T) {
	_, err := New(
		[]NodeType{{Label: "Person", Keys: []string{"pid"}, Types: map[string]string{"pid": "uuid"}}},
		nil,
	)
	if err == nil {
		t.Fatal("expected error for unknown attribute type")
	}
}
