package verify

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/graphiti-verify/graphiti/internal/config"
	"github.com/graphiti-verify/graphiti/internal/cypher"
	"github.com/graphiti-verify/graphiti/internal/fingerprint"
	"github.com/graphiti-verify/graphiti/internal/gschema"
	"github.com/graphiti-verify/graphiti/internal/logx"
	"github.com/graphiti-verify/graphiti/internal/relalg"
	"github.com/graphiti-verify/graphiti/internal/sqlast"
	"github.com/graphiti-verify/graphiti/internal/symbolic"
	"github.com/graphiti-verify/graphiti/internal/transpile"
)

// Verify parses cypherText and sqlText, transpiles the Cypher side
// through schema's induced relational schema, and checks equivalence with
// a bounded-search ladder: EQUIV at bound k retries at k+1, NOT_EQUIV
// returns immediately, UNKNOWN/TIMEOUT returns with the last bound
// actually completed (spec.md §4.7). It never panics: any invariant
// violation is recovered and reported as Result Unknown with an
// "internal_error" detail, per spec.md §7's "verifier catches everything
// except InternalError" (here InternalError is reported, not re-raised,
// since a library must not crash its caller).
func Verify(cypherText, sqlText string, schema *gschema.GraphSchema, cfg config.VerifyConfig) *Report {
	return verifyCtx(context.Background(), cypherText, sqlText, schema, cfg)
}

// verifyCtx is Verify's implementation, parameterized on a caller-supplied
// context so Batch can derive a per-pair timeout from its own group
// context instead of Verify always rooting a fresh context.Background().
func verifyCtx(ctx context.Context, cypherText, sqlText string, schema *gschema.GraphSchema, cfg config.VerifyConfig) (report *Report) {
	report = newReport()
	defer func() {
		if r := recover(); r != nil {
			report = newReport()
			report.Result = Unknown
			report.Details["internal_error"] = fmt.Sprintf("%v", r)
		}
	}()

	backend, err := backendFor(cfg.Backend)
	if err != nil {
		report.Result = SyntaxError
		report.Details["error"] = err.Error()
		return report
	}

	start := time.Now()
	query, err := cypher.Parse(cypherText)
	report.TimeMs["parse"] = time.Since(start).Milliseconds()
	if err != nil {
		report.Result = SyntaxError
		report.Details["error"] = err.Error()
		report.Details["side"] = "cypher"
		return report
	}

	startSQL := time.Now()
	rir, err := sqlast.Parse(sqlText)
	report.TimeMs["parse"] += time.Since(startSQL).Milliseconds()
	if err != nil {
		report.Result = SyntaxError
		report.Details["error"] = err.Error()
		report.Details["side"] = "sql"
		return report
	}

	induced, sdt, err := gschema.InferSDT(schema)
	if err != nil {
		report.Result = SyntaxError
		report.Details["error"] = err.Error()
		report.Details["side"] = "schema"
		return report
	}

	startTranspile := time.Now()
	lir, err := transpile.Transpile(query, sdt, induced)
	report.TimeMs["transpile"] = time.Since(startTranspile).Milliseconds()
	if err != nil {
		report.Result = SyntaxError
		report.Details["error"] = err.Error()
		report.Details["side"] = "cypher"
		return report
	}

	leftCols, leftOK := relalg.OutputColumns(lir)
	rightCols, rightOK := relalg.OutputColumns(rir)
	if leftOK && rightOK && len(leftCols) != len(rightCols) {
		report.Result = NotEquivalent
		report.Details["reason"] = "output column count mismatch"
		return report
	}

	solveCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	lastGoodBound := 0
	for bound := 1; bound <= cfg.BoundMax; bound++ {
		boundStart := time.Now()
		ok, cx, err := backend.CheckAtBound(solveCtx, lir, rir, induced, bound, cfg.Semantics)
		elapsed := time.Since(boundStart)
		report.TimeMs["solve"] += elapsed.Milliseconds()

		if err != nil {
			if solveCtx.Err() != nil {
				logx.BoundAttempt(logx.PhaseSolve, bound, elapsed, "timeout")
				report.Result = Timeout
				report.CheckedBound = lastGoodBound
				report.Details["error"] = err.Error()
				logx.Summary(string(report.Result), report.CheckedBound, time.Since(start))
				return report
			}
			if isNotSupported(err) {
				report.Result = NotSupported
				report.Details["error"] = err.Error()
				return report
			}
			report.Result = Unknown
			report.CheckedBound = lastGoodBound
			report.Details["error"] = err.Error()
			return report
		}

		if !ok {
			logx.BoundAttempt(logx.PhaseSolve, bound, elapsed, "not_equivalent")
			report.Result = NotEquivalent
			report.CheckedBound = bound
			report.Counterexample = cx
			hash := fingerprint.BlobHash([]byte(cx))
			report.Details["counterexample_hash"] = hex.EncodeToString(hash[:])
			logx.Summary(string(report.Result), report.CheckedBound, time.Since(start))
			return report
		}

		logx.BoundAttempt(logx.PhaseSolve, bound, elapsed, "equivalent")
		lastGoodBound = bound
	}

	report.Result = Equivalent
	report.CheckedBound = lastGoodBound
	logx.Summary(string(report.Result), report.CheckedBound, time.Since(start))
	return report
}

// isNotSupported reports whether err is, or wraps, a
// symbolic.NotSupportedError. encode.go raises these directly and
// sometimes wrapped in a *symbolic.CompileError, so errors.As is needed
// rather than a direct type assertion.
func isNotSupported(err error) bool {
	var nse *symbolic.NotSupportedError
	return errors.As(err, &nse)
}
