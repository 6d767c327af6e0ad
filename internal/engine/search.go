package engine

import (
	"math"

	"gemrecon/internal/domain"
)

// findMatch searches the candidate pool for invoices that cover the target
// amount within tolerance. The exact pass runs first: the earliest single
// invoice equal to the target wins. Only if that fails does the combination
// pass enumerate subsets of size 2..MaxCombinationSize in lexicographic index
// order, size by size, accepting the first subset whose sum is equal within
// tolerance. First-found is the deterministic tie-break; no "best" or
// minimal-count combination is sought.
func findMatch(candidates []domain.Invoice, target float64, cfg Config) ([]string, bool) {
	for _, inv := range candidates {
		if withinTolerance(inv.CRACAmount, target, cfg.AmountTolerance) {
			return []string{inv.InvoiceNumber}, true
		}
	}

	maxSize := cfg.MaxCombinationSize
	if maxSize > len(candidates) {
		maxSize = len(candidates)
	}
	for r := 2; r <= maxSize; r++ {
		if ids, ok := findCombination(candidates, target, r, cfg.AmountTolerance); ok {
			return ids, true
		}
	}
	return nil, false
}

// findCombination enumerates all r-element subsets of candidates in
// lexicographic index order and returns the first whose amounts sum to the
// target within tolerance.
func findCombination(candidates []domain.Invoice, target float64, r int, tol float64) ([]string, bool) {
	n := len(candidates)
	if r > n {
		return nil, false
	}

	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}

	for {
		sum := 0.0
		for _, i := range idx {
			sum += candidates[i].CRACAmount
		}
		if withinTolerance(sum, target, tol) {
			ids := make([]string, r)
			for k, i := range idx {
				ids[k] = candidates[i].InvoiceNumber
			}
			return ids, true
		}

		// Advance to the next combination in lexicographic order.
		k := r - 1
		for k >= 0 && idx[k] == n-r+k {
			k--
		}
		if k < 0 {
			return nil, false
		}
		idx[k]++
		for j := k + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func withinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
