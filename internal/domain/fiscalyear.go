package domain

import "time"

// FinancialYear returns the Indian financial year (April-March) a date falls
// in, identified by its starting calendar year. A zero date has no financial
// year and yields 0, which never equals a valid payment's year.
func FinancialYear(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	if t.Month() >= time.April {
		return t.Year()
	}
	return t.Year() - 1
}
