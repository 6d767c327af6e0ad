// Package engine implements the matching engine that reconciles PAO bills
// against GeM invoices.
//
// The engine is a greedy, order-dependent, single-pass allocator: payments are
// processed strictly in input order, and state committed for one payment is
// visible to the eligibility filtering of every later payment in the same run.
// Reordering the payment ledger can change which invoices end up settled by
// which bills; callers that need reproducible output must fix the input order.
package engine

import (
	"fmt"
	"math"
	"strings"

	"gemrecon/internal/domain"
)

// Config holds the engine's tunables.
type Config struct {
	// MaxCombinationSize bounds the combination search (K). Enumeration is
	// O(n^K) over the candidate pool, so keep this small (3-6).
	MaxCombinationSize int

	// AmountTolerance is the maximum absolute difference for two currency
	// amounts to be considered equal.
	AmountTolerance float64

	// BlacklistPrefixes lists bill-number prefixes excluded from matching,
	// compared case-insensitively.
	BlacklistPrefixes []string

	// TrackPaymentStatus enables writing FULLY_PAID back onto settled
	// payments and skipping payments that already carry it.
	TrackPaymentStatus bool
}

// DefaultConfig returns the reference policy.
func DefaultConfig() Config {
	return Config{
		MaxCombinationSize: 4,
		AmountTolerance:    0.01,
		BlacklistPrefixes:  []string{"ACB", "DCB"},
		TrackPaymentStatus: true,
	}
}

func (c Config) validate() error {
	if c.MaxCombinationSize < 2 {
		return fmt.Errorf("max combination size must be >= 2, got %d", c.MaxCombinationSize)
	}
	if c.AmountTolerance < 0 || math.IsNaN(c.AmountTolerance) {
		return fmt.Errorf("amount tolerance must be >= 0, got %v", c.AmountTolerance)
	}
	return nil
}

// Result carries the complete outcome of a run. Invoices and Payments are
// updated copies in the original input order; the inputs are never mutated.
type Result struct {
	Invoices   []domain.Invoice
	Groups     []domain.MatchGroup
	Rejections []domain.Rejection
	Payments   []domain.Payment
}

// Run reconciles the payment ledger against the invoice ledger. Per-payment
// problems (bad data, no match) are classified into rejections and never abort
// the run; only an invalid configuration returns an error.
func Run(invoices []domain.Invoice, payments []domain.Payment, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	led := newLedger(invoices)
	res := &Result{
		Payments:   make([]domain.Payment, len(payments)),
		Groups:     make([]domain.MatchGroup, 0),
		Rejections: make([]domain.Rejection, 0),
	}
	copy(res.Payments, payments)

	groupSeq := 0

	for i := range res.Payments {
		pay := &res.Payments[i]

		if cfg.TrackPaymentStatus && pay.PaidStatus == domain.PaidStatusFullyPaid {
			continue
		}

		if reason, rejected := settle(led, pay, cfg, &groupSeq, res); rejected {
			res.Rejections = append(res.Rejections, domain.Rejection{
				BillNo:        pay.BillNo,
				BillAmount:    pay.BillAmount,
				BillDate:      pay.BillDate,
				Reason:        reason,
				HeadOfAccount: pay.HeadOfAccount,
			})
		}
	}

	res.Invoices = led.snapshot()
	return res, nil
}

// settle attempts to allocate one payment. On failure it returns the single
// highest-priority rejection reason; earlier rules always win even when
// several would apply.
func settle(led *ledger, pay *domain.Payment, cfg Config, groupSeq *int, res *Result) (domain.RejectionReason, bool) {
	if isBlacklisted(pay.BillNo, cfg.BlacklistPrefixes) {
		return domain.ReasonBlacklistedBill, true
	}
	if !pay.Valid() {
		return domain.ReasonInvalidPayment, true
	}
	if !led.anyUnpaidInYear(pay.FinancialYear) {
		return domain.ReasonNoEligibleInFY, true
	}

	candidates := led.eligible(*pay)
	if len(candidates) == 0 {
		// Same-FY invoices exist but the date rule removed them all, so
		// there was nothing to combine in the first place.
		return domain.ReasonNoFullMatch, true
	}

	ids, ok := findMatch(candidates, pay.BillAmount, cfg)
	if !ok {
		// Candidates existed but every subset over- or under-shoots the
		// bill amount. Part payment is not allowed.
		return domain.ReasonPartialMatch, true
	}

	*groupSeq++
	res.Groups = append(res.Groups, allocate(led, ids, *pay, *groupSeq))

	if cfg.TrackPaymentStatus {
		pay.PaidStatus = domain.PaidStatusFullyPaid
	}
	return "", false
}

// allocate commits a winning candidate set: flips paid state, stamps the
// group id and provenance onto every invoice, and records the group. All
// invoices in the set are replaced in the same call, so the mutation is never
// partially visible to later payments.
func allocate(led *ledger, ids []string, pay domain.Payment, seq int) domain.MatchGroup {
	gid := fmt.Sprintf("MG%05d", seq)

	matchType := domain.MatchTypeSingle
	confidence := domain.ConfidenceHigh
	if len(ids) > 1 {
		matchType = domain.MatchTypeCombination
		confidence = domain.ConfidenceMedium
	}

	total := 0.0
	for _, id := range ids {
		inv := led.get(id)
		inv.Paid = true
		inv.MatchGroupID = gid
		inv.MatchType = matchType
		inv.Confidence = confidence
		inv.PAOBillNo = pay.BillNo
		inv.PAOPassDate = pay.BillDate
		led.put(inv)
		total += inv.CRACAmount
	}

	return domain.MatchGroup{
		GroupID:        gid,
		BillNo:         pay.BillNo,
		BillDate:       pay.BillDate,
		HeadOfAccount:  pay.HeadOfAccount,
		MatchType:      matchType,
		Confidence:     confidence,
		InvoiceNumbers: ids,
		TotalAmount:    total,
	}
}

func isBlacklisted(billNo string, prefixes []string) bool {
	b := strings.ToUpper(strings.TrimSpace(billNo))
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(b, strings.ToUpper(p)) {
			return true
		}
	}
	return false
}
