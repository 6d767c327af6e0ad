package engine

import "gemrecon/internal/domain"

// ledger holds the run's working copy of the invoice collection as a map
// keyed by invoice number, plus the original ordering. Settling an invoice
// replaces its map entry wholesale, so there is never a lookup-by-value
// back into the collection after a match is chosen.
type ledger struct {
	order []string
	byID  map[string]domain.Invoice
}

func newLedger(invoices []domain.Invoice) *ledger {
	l := &ledger{
		order: make([]string, 0, len(invoices)),
		byID:  make(map[string]domain.Invoice, len(invoices)),
	}
	for _, inv := range invoices {
		l.order = append(l.order, inv.InvoiceNumber)
		l.byID[inv.InvoiceNumber] = inv
	}
	return l
}

func (l *ledger) get(id string) domain.Invoice { return l.byID[id] }

func (l *ledger) put(inv domain.Invoice) { l.byID[inv.InvoiceNumber] = inv }

// eligible returns the invoices that are legal candidates for the payment:
// unpaid, same financial year, and not dated after the payment. Order follows
// the underlying collection order, which is significant for tie-breaking.
func (l *ledger) eligible(pay domain.Payment) []domain.Invoice {
	var out []domain.Invoice
	for _, id := range l.order {
		inv := l.byID[id]
		if inv.Paid {
			continue
		}
		if inv.EligibleDate.IsZero() || inv.FinancialYear != pay.FinancialYear {
			continue
		}
		if inv.EligibleDate.After(pay.BillDate) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// anyUnpaidInYear reports whether at least one unpaid invoice shares the
// given financial year, ignoring the date rule.
func (l *ledger) anyUnpaidInYear(fy int) bool {
	for _, id := range l.order {
		inv := l.byID[id]
		if !inv.Paid && !inv.EligibleDate.IsZero() && inv.FinancialYear == fy {
			return true
		}
	}
	return false
}

// snapshot returns the invoices in their original order.
func (l *ledger) snapshot() []domain.Invoice {
	out := make([]domain.Invoice, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}
