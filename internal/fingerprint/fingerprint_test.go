package fingerprint

import "testing"

func TestSchemaFingerprintOrderIndependent(t *testing.T) {
	a := SchemaFingerprint([]string{"Person", "Company"}, []string{"WORKS_AT"})
	b := SchemaFingerprint([]string{"Company", "Person"}, []string{"WORKS_AT"})
	if a != b {
		t.Fatalf("expected order-independent fingerprint, got %d != %d", a, b)
	}
}

func TestSchemaFingerprintDistinguishesSchemas(t *testing.T) {
	a := SchemaFingerprint([]string{"Person"}, nil)
	b := SchemaFingerprint([]string{"Company"}, nil)
	if a == b {
		t.Fatal("expected distinct fingerprints for distinct schemas")
	}
}

func TestStringPoolInjective(t *testing.T) {
	pool := NewStringPool(1000)
	a := pool.Intern("Ada")
	b := pool.Intern("Grace")
	a2 := pool.Intern("Ada")
	if a != a2 {
		t.Fatalf("expected stable constant for repeated intern, got %d != %d", a, a2)
	}
	if a == b {
		t.Fatal("expected distinct constants for distinct literals")
	}
	if a <= 1000 || b <= 1000 {
		t.Fatalf("expected constants above floor, got a=%d b=%d", a, b)
	}
	s, ok := pool.Resolve(a)
	if !ok || s != "Ada" {
		t.Fatalf("Resolve failed to reverse Intern: %q, %v", s, ok)
	}
}

func TestQueryFingerprintDistinguishesPairs(t *testing.T) {
	a := QueryFingerprint(`MATCH (p:Person) RETURN p.pid`, `SELECT pid FROM person`)
	b := QueryFingerprint(`MATCH (p:Person) RETURN p.pid`, `SELECT pid, name FROM person`)
	if a == b {
		t.Fatal("expected distinct fingerprints for distinct sql text")
	}
	c := QueryFingerprint(`MATCH (p:Person) RETURN p.pid`, `SELECT pid FROM person`)
	if a != c {
		t.Fatalf("expected identical pairs to fingerprint identically, got %d != %d", a, c)
	}
}

func TestBlobHashDeterministic(t *testing.T) {
	h1 := BlobHash([]byte("INSERT INTO person VALUES (1)"))
	h2 := BlobHash([]byte("INSERT INTO person VALUES (1)"))
	if h1 != h2 {
		t.Fatal("expected identical blobs to hash identically")
	}
}
