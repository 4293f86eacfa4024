package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testSchemaJSON = `{
  "nodes": [{"label": "Person", "keys": ["pid", "name"]}],
  "edges": []
}`

func resetFlags() {
	dashschema, dashcypher, dashsql, dashconfig = "", "", "", ""
	dashbound = 0
	dashtimeout = 0
	dashsem, dashbackend = "", ""
	dashverbose = false
}

func writeFixture(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func TestRunMissingFlagsReturns64(t *testing.T) {
	resetFlags()
	if got := run(); got != 64 {
		t.Fatalf("expected exit code 64, got %d", got)
	}
}

func TestRunEquivalentReturns0(t *testing.T) {
	dir := t.TempDir()
	resetFlags()
	dashschema = writeFixture(t, dir, "schema.json", testSchemaJSON)
	dashcypher = writeFixture(t, dir, "q.cypher", `MATCH (p:Person) RETURN p.pid AS pid`)
	dashsql = writeFixture(t, dir, "q.sql", `SELECT p.pid AS pid FROM person AS p`)
	dashbound = 2

	if got := run(); got != 0 {
		t.Fatalf("expected exit code 0, got %d", got)
	}
}

func TestRunNotEquivalentReturns1(t *testing.T) {
	dir := t.TempDir()
	resetFlags()
	dashschema = writeFixture(t, dir, "schema.json", testSchemaJSON)
	dashcypher = writeFixture(t, dir, "q.cypher", `MATCH (p:Person) RETURN p.pid AS pid, p.name AS name`)
	dashsql = writeFixture(t, dir, "q.sql", `SELECT p.pid AS pid FROM person AS p`)

	if got := run(); got != 1 {
		t.Fatalf("expected exit code 1, got %d", got)
	}
}

func TestRunSyntaxErrorReturns64(t *testing.T) {
	dir := t.TempDir()
	resetFlags()
	dashschema = writeFixture(t, dir, "schema.json", testSchemaJSON)
	dashcypher = writeFixture(t, dir, "q.cypher", `MATCH (p:Person RETURN p.pid`)
	dashsql = writeFixture(t, dir, "q.sql", `SELECT p.pid AS pid FROM person AS p`)

	if got := run(); got != 64 {
		t.Fatalf("expected exit code 64, got %d", got)
	}
}

func TestRunBadSchemaPathReturns64(t *testing.T) {
	dir := t.TempDir()
	resetFlags()
	dashschema = filepath.Join(dir, "does-not-exist.json")
	dashcypher = writeFixture(t, dir, "q.cypher", `MATCH (p:Person) RETURN p.pid AS pid`)
	dashsql = writeFixture(t, dir, "q.sql", `SELECT p.pid AS pid FROM person AS p`)

	if got := run(); got != 64 {
		t.Fatalf("expected exit code 64, got %d", got)
	}
}
