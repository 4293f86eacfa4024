// Package oracle implements C10, the table-equivalence oracle: comparing
// two concrete result bags up to column permutation. It is a standalone
// package with no dependency on internal/verify; internal/verify does not
// call it.
package oracle

import (
	"fmt"
	"sort"
)

// ValueError reports a row-shape mismatch the oracle refuses to compare:
// differing arity, or a ragged table (rows of inconsistent width).
type ValueError struct {
	Reason string
}

func (e *ValueError) Error() string { return fmt.Sprintf("oracle: %s", e.Reason) }

// Row is one tuple of a result bag. Values are compared by Go type and
// value (via fmt.Sprintf("%T:%v", ...)), so nil (SQL NULL), int64, string,
// and bool values of equal textual form never alias each other.
type Row []any

// Equivalent reports whether rows1 and rows2 are equal up to row order and
// a single consistent column permutation (spec.md §4.8): same row count,
// same arity, and a permutation π of rows2's columns such that the
// multiset of rows1 equals the multiset of π(rows2). Empty tables (both
// zero rows) are equivalent. Arity mismatch is reported as *ValueError,
// not a false verdict, since the two tables describe incompatible
// schemas rather than merely different data.
func Equivalent(rows1, rows2 []Row) (bool, error) {
	if len(rows1) == 0 && len(rows2) == 0 {
		return true, nil
	}
	if len(rows1) != len(rows2) {
		return false, nil
	}
	arity1, err := uniformArity(rows1)
	if err != nil {
		return false, err
	}
	arity2, err := uniformArity(rows2)
	if err != nil {
		return false, err
	}
	if arity1 != arity2 {
		return false, &ValueError{Reason: fmt.Sprintf("arity mismatch: %d vs %d", arity1, arity2)}
	}
	arity := arity1

	sig1 := columnSignatures(rows1, arity)
	sig2 := columnSignatures(rows2, arity)

	candidates := make([][]int, arity)
	for i := 0; i < arity; i++ {
		for j := 0; j < arity; j++ {
			if sig1[i] == sig2[j] {
				candidates[i] = append(candidates[i], j)
			}
		}
	}

	used := make([]bool, arity)
	perm := make([]int, arity)
	return backtrack(rows1, rows2, candidates, used, perm, 0), nil
}

func uniformArity(rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	arity := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) != arity {
			return 0, &ValueError{Reason: "ragged table: rows of inconsistent width"}
		}
	}
	return arity, nil
}

// columnSignatures returns, per column index, a sorted-multiset string key
// cheap enough to compare with ==, used to prune the permutation search to
// only those column pairs that could possibly match.
func columnSignatures(rows []Row, arity int) []string {
	sigs := make([]string, arity)
	for col := 0; col < arity; col++ {
		vals := make([]string, len(rows))
		for i, r := range rows {
			vals[i] = valueKey(r[col])
		}
		sort.Strings(vals)
		sigs[col] = fmt.Sprint(vals)
	}
	return sigs
}

func valueKey(v any) string {
	return fmt.Sprintf("%T:%v", v, v)
}

// backtrack extends perm (a partial column permutation, perm[i] = the
// rows2 column assigned to rows1 column i) one position at a time, trying
// only rows2 columns whose signature matched (candidates), and checks the
// full row-tuple multiset only once every column is assigned.
func backtrack(rows1, rows2 []Row, candidates [][]int, used []bool, perm []int, i int) bool {
	if i == len(candidates) {
		return multisetsEqual(rows1, permuteColumns(rows2, perm))
	}
	for _, j := range candidates[i] {
		if used[j] {
			continue
		}
		used[j] = true
		perm[i] = j
		if backtrack(rows1, rows2, candidates, used, perm, i+1) {
			return true
		}
		used[j] = false
	}
	return false
}

func permuteColumns(rows []Row, perm []int) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		pr := make(Row, len(perm))
		for dst, src := range perm {
			pr[dst] = r[src]
		}
		out[i] = pr
	}
	return out
}

func multisetsEqual(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	ka := make([]string, len(a))
	kb := make([]string, len(b))
	for i, r := range a {
		ka[i] = rowKey(r)
	}
	for i, r := range b {
		kb[i] = rowKey(r)
	}
	sort.Strings(ka)
	sort.Strings(kb)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func rowKey(r Row) string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = valueKey(v)
	}
	return fmt.Sprint(parts)
}
