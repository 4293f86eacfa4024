package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verify.yaml")
	if err := os.WriteFile(path, []byte("bound_max: 8\nsemantics: set\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BoundMax != 8 || cfg.Semantics != "set" {
		t.Fatalf("expected overlay to apply, got %+v", cfg)
	}
	if cfg.Backend != "symbolic" {
		t.Fatalf("expected untouched fields to keep their default, got backend=%q", cfg.Backend)
	}
}

func TestValidateRejectsUnknownSemantics(t *testing.T) {
	cfg := Default()
	cfg.Semantics = "interval"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for unknown semantics")
	}
}

