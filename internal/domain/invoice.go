package domain

import "time"

// MatchType describes how an invoice was settled.
type MatchType string

const (
	MatchTypeSingle      MatchType = "AUTO_SINGLE"
	MatchTypeCombination MatchType = "AUTO_COMBINATION"
)

// Confidence expresses how certain the engine is about a match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
)

// Invoice represents one line of the GeM invoice/credit-advice ledger.
type Invoice struct {
	InvoiceNumber string    `json:"invoice_number"`
	CRACAmount    float64   `json:"crac_amount"`
	InvoiceDate   time.Time `json:"invoice_date"`
	PRCDate       time.Time `json:"prc_date"`

	// Derived fields, populated at ingestion time.
	EligibleDate  time.Time `json:"eligible_date"`
	FinancialYear int       `json:"financial_year"`

	// Mutable settlement state. Paid transitions false->true exactly once;
	// the remaining fields are written together with it and never change again.
	Paid         bool       `json:"paid"`
	MatchGroupID string     `json:"match_group_id,omitempty"`
	MatchType    MatchType  `json:"match_type,omitempty"`
	Confidence   Confidence `json:"confidence,omitempty"`
	PAOBillNo    string     `json:"pao_bill_no,omitempty"`
	PAOPassDate  time.Time  `json:"pao_pass_date,omitempty"`
}
