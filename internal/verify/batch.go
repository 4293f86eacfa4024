package verify

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/graphiti-verify/graphiti/internal/config"
	"github.com/graphiti-verify/graphiti/internal/fingerprint"
	"github.com/graphiti-verify/graphiti/internal/gschema"
)

// Pair is one (Cypher, SQL) comparison submitted to Batch, supplementing
// spec.md §5 with the multi-pair driver the original Python harness
// (backend/core/cli_verieql.py) provided as a loop over a worklist.
type Pair struct {
	Cypher string
	SQL    string
	Schema *gschema.GraphSchema
}

// dedupeKey combines the pair's query fingerprint with its schema's shape
// fingerprint, so two positionally-distinct pairs that are actually
// identical (same query text over the same graph schema shape) share one
// verification instead of two, matching original_source's
// cli_verieql.py harness deduping repeated benchmark entries before
// dispatch.
func dedupeKey(pair Pair) uint64 {
	var nodeLabels, edgeLabels []string
	if pair.Schema != nil {
		for _, n := range pair.Schema.Nodes {
			nodeLabels = append(nodeLabels, n.Label)
		}
		for _, e := range pair.Schema.Edges {
			edgeLabels = append(edgeLabels, e.Label)
		}
	}
	return fingerprint.QueryFingerprint(pair.Cypher, pair.SQL) ^ fingerprint.SchemaFingerprint(nodeLabels, edgeLabels)
}

// Batch runs Verify over every distinct pair with up to maxConcurrency
// workers in flight at once, each bounded by cfg.Timeout individually.
// Pairs that dedupeKey identifies as duplicates of an earlier pair reuse
// that pair's Report instead of re-verifying. Results line up
// positionally with pairs; a pair whose worker context is cancelled
// before Verify returns still gets a Report (Timeout or Unknown), never a
// missing slot.
func Batch(ctx context.Context, pairs []Pair, cfg config.VerifyConfig, maxConcurrency int64) []*Report {
	reports := make([]*Report, len(pairs))
	sem := semaphore.NewWeighted(maxConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	firstOf := make(map[uint64]int, len(pairs))
	duplicateOf := make(map[int]int, len(pairs))
	for i, pair := range pairs {
		key := dedupeKey(pair)
		if first, ok := firstOf[key]; ok {
			duplicateOf[i] = first
			continue
		}
		firstOf[key] = i
	}

	for i, pair := range pairs {
		if _, isDup := duplicateOf[i]; isDup {
			continue
		}
		i, pair := i, pair
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				reports[i] = &Report{Result: Timeout, TimeMs: map[string]int64{}, Details: map[string]string{"error": err.Error()}}
				return nil
			}
			defer sem.Release(1)

			workerCtx, cancel := context.WithTimeout(gctx, cfg.Timeout)
			defer cancel()

			reports[i] = verifyCtx(workerCtx, pair.Cypher, pair.SQL, pair.Schema, cfg)
			return nil
		})
	}

	// Errors from individual workers are already captured per-slot in
	// reports; g.Wait's return value only ever reflects sem.Acquire's
	// ctx cancellation, which the report above already reflects.
	_ = g.Wait()

	for i, first := range duplicateOf {
		reports[i] = reports[first]
	}
	return reports
}
