package domain

import (
	"math"
	"time"
)

// PaidStatus tracks cross-run settlement state of a PAO bill.
type PaidStatus string

const (
	PaidStatusUnpaid    PaidStatus = "UNPAID"
	PaidStatusFullyPaid PaidStatus = "FULLY_PAID"
)

// Payment represents one bill passed by the Pay & Accounts Office.
type Payment struct {
	BillNo        string    `json:"bill_no"`
	BillAmount    float64   `json:"bill_amount"` // NaN when the source value was unparsable
	BillDate      time.Time `json:"bill_date"`   // zero when the source value was unparsable
	FinancialYear int       `json:"financial_year"`
	HeadOfAccount string    `json:"head_of_account,omitempty"`

	// PaidStatus may be persisted between runs so an already-settled bill
	// is not re-processed against an updated invoice ledger.
	PaidStatus PaidStatus `json:"paid_status"`
}

// Valid reports whether the payment carries a usable amount and date.
func (p Payment) Valid() bool {
	return !math.IsNaN(p.BillAmount) && !p.BillDate.IsZero()
}
