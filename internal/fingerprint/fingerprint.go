// Package fingerprint implements C14: deterministic hashing of schemas
// and queries for cache keys and report details, using
// github.com/dchest/siphash the way a content-addressed cache would, plus
// a blake2b hash for larger rendered blobs (counterexample scripts). It
// also realizes spec.md §9's "string symbols as integers" design note via
// StringPool.Intern: a deterministic, injective mapping from string
// literal to an integer constant above INT_HIGH, so the symbolic encoder
// can treat string comparisons as plain integer equality over a disjoint
// range. StringPool is scoped to one EncodingContext rather than a
// process-wide table, so two concurrent verification calls (as
// internal/verify.Batch runs them) never contend on shared interning
// state or leak constants across calls.
package fingerprint

import (
	"sort"

	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"
)

// fixed, arbitrary 128-bit key: fingerprints only need to be stable
// within one process/run, not cryptographically keyed per caller.
const (
	sipK0 = 0x0123456789abcdef
	sipK1 = 0xfedcba9876543210
)

// Hash64 returns a stable 64-bit fingerprint of data.
func Hash64(data []byte) uint64 {
	return siphash.Hash(sipK0, sipK1, data)
}

// SchemaFingerprint hashes a graph schema's shape, field-order
// independent: labels are sorted before hashing so two structurally
// equal schemas with differently-ordered node/edge lists still
// fingerprint identically.
func SchemaFingerprint(nodeLabels, edgeLabels []string) uint64 {
	nodes := append([]string(nil), nodeLabels...)
	edges := append([]string(nil), edgeLabels...)
	sort.Strings(nodes)
	sort.Strings(edges)
	var buf []byte
	for _, n := range nodes {
		buf = append(buf, 'N')
		buf = append(buf, n...)
		buf = append(buf, 0)
	}
	for _, e := range edges {
		buf = append(buf, 'E')
		buf = append(buf, e...)
		buf = append(buf, 0)
	}
	return Hash64(buf)
}

// QueryFingerprint hashes a (cypher, sql) query pair together, so a
// benchmark harness can dedupe identical verification requests.
func QueryFingerprint(cypherText, sqlText string) uint64 {
	buf := make([]byte, 0, len(cypherText)+len(sqlText)+1)
	buf = append(buf, cypherText...)
	buf = append(buf, 0)
	buf = append(buf, sqlText...)
	return Hash64(buf)
}

// BlobHash hashes a larger byte blob (a rendered counterexample script)
// with blake2b-256, used to dedupe repeated counterexamples across a
// benchmark run.
func BlobHash(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// StringPool assigns a deterministic, injective integer to each distinct
// string literal it interns, starting above a caller-supplied floor
// (INT_HIGH in the symbolic encoder): the first literal seen gets floor+1,
// the next floor+2, and so on by insertion order — a plain incrementing
// counter, not a content hash. Determinism here means "the same literal
// always maps to the same constant within one pool's lifetime," which is
// all the encoder needs, since the encoder constructs exactly one
// StringPool per EncodingContext and both sides of one verification call
// share it.
type StringPool struct {
	floor   int64
	next    int64
	byValue map[string]int64
	byConst map[int64]string
}

// NewStringPool returns a pool that assigns constants starting at
// floor+1.
func NewStringPool(floor int64) *StringPool {
	return &StringPool{
		floor:   floor,
		next:    floor + 1,
		byValue: make(map[string]int64),
		byConst: make(map[int64]string),
	}
}

// Intern returns the integer constant for s, assigning a fresh one (the
// next unused value above the floor) the first time s is seen.
func (p *StringPool) Intern(s string) int64 {
	if v, ok := p.byValue[s]; ok {
		return v
	}
	v := p.next
	p.next++
	p.byValue[s] = v
	p.byConst[v] = s
	return v
}

// Resolve reverses Intern, used by the counterexample decoder to render
// '...' literals from the integer constants in a solver model.
func (p *StringPool) Resolve(v int64) (string, bool) {
	s, ok := p.byConst[v]
	return s, ok
}
