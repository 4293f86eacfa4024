// Package logx wraps logrus with the field conventions the verifier uses
// throughout its bounded-search ladder: phase=parse|transpile|encode|solve,
// bound=k, elapsed_ms=.... Structured logging via logrus (rather than
// stdlib log) follows the retrieval pack's SQL-engine test/audit code
// (e.g. dolthub-go-mysql-server's auth package).
package logx

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Phase names a stage of one verification call, matching Report.TimeMs's
// keys (spec.md §4.7/SPEC_FULL §10, "per-call timing split").
type Phase string

const (
	PhaseParse     Phase = "parse"
	PhaseTranspile Phase = "transpile"
	PhaseEncode    Phase = "encode"
	PhaseSolve     Phase = "solve"
)

var base = logrus.New()

// Entry returns a logrus.Entry pre-populated with the phase field.
func Entry(phase Phase) *logrus.Entry {
	return base.WithField("phase", string(phase))
}

// BoundAttempt logs one bound k's outcome at Debug level, as the
// bounded-search ladder climbs k=1,2,3....
func BoundAttempt(phase Phase, bound int, elapsed time.Duration, result string) {
	Entry(phase).WithFields(logrus.Fields{
		"bound":      bound,
		"elapsed_ms": elapsed.Milliseconds(),
		"result":     result,
	}).Debug("bound attempt")
}

// Summary logs one verification call's final outcome at Info level.
func Summary(result string, checkedBound int, totalElapsed time.Duration) {
	logrus.WithFields(logrus.Fields{
		"result":        result,
		"checked_bound": checkedBound,
		"elapsed_ms":    totalElapsed.Milliseconds(),
	}).Info("verify call complete")
}

// SetLevel adjusts the package logger's verbosity; used by the CLI's
// -v flag.
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
	logrus.SetLevel(level)
}
