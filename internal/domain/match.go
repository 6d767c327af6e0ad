package domain

import "time"

// RejectionReason classifies why a payment could not be settled.
type RejectionReason string

const (
	ReasonBlacklistedBill RejectionReason = "IGNORED_BLACKLISTED_BILL"
	ReasonInvalidPayment  RejectionReason = "INVALID_PAYMENT_DATA"
	ReasonNoEligibleInFY  RejectionReason = "NO_ELIGIBLE_INVOICES_IN_SAME_FY"
	ReasonPartialMatch    RejectionReason = "PARTIAL_MATCH_NOT_ALLOWED"
	ReasonNoFullMatch     RejectionReason = "NO_FULL_MATCH_FOUND"
)

// MatchGroup records the set of invoices settled by one payment. It is
// created atomically with the allocation and immutable afterwards.
type MatchGroup struct {
	GroupID        string     `json:"group_id"`
	BillNo         string     `json:"bill_no"`
	BillDate       time.Time  `json:"bill_date"`
	HeadOfAccount  string     `json:"head_of_account,omitempty"`
	MatchType      MatchType  `json:"match_type"`
	Confidence     Confidence `json:"confidence"`
	InvoiceNumbers []string   `json:"invoice_numbers"`
	TotalAmount    float64    `json:"total_amount"`
}

// MatchMode is the report-facing name of a match type.
func (g MatchGroup) MatchMode() string {
	if g.MatchType == MatchTypeSingle {
		return "EXACT"
	}
	return "COMBINATION"
}

// Rejection is the audit record for a payment that was not allocated.
// Exactly one is produced per unsettled payment.
type Rejection struct {
	BillNo        string          `json:"bill_no"`
	BillAmount    float64         `json:"bill_amount"`
	BillDate      time.Time       `json:"bill_date"`
	Reason        RejectionReason `json:"reason"`
	HeadOfAccount string          `json:"head_of_account,omitempty"`
}

// RunSummary is the top-level outcome of one reconciliation run.
type RunSummary struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
	InvoiceCount     int       `json:"invoice_count"`
	PaymentCount     int       `json:"payment_count"`
	MatchedGroups    int       `json:"matched_groups"`
	MatchedInvoices  int       `json:"matched_invoices"`
	RejectedPayments int       `json:"rejected_payments"`
	SkippedPayments  int       `json:"skipped_payments"`
}
