// Package gateway reads the invoice and payment ledgers from CSV exports.
//
// Source spreadsheets come from different offices with inconsistent column
// headings, so headers are normalized (trimmed, upper-cased, whitespace
// collapsed to underscores) and each required field is resolved against a
// list of known heading variants. A missing required column is a structural
// failure and aborts the run; a bad value inside a row is coerced (NaN
// amount, zero date) and left for the engine to classify per payment.
package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gemrecon/internal/domain"
)

// ErrMissingColumn reports that a required ledger column could not be
// resolved under any known heading. This is fatal for the whole run.
var ErrMissingColumn = errors.New("required column not found")

// Heading variants observed across PAO and GeM exports.
var (
	invoiceNumberCols = []string{"INVOICE_NUMBER", "INVOICE_NO", "INVOICE_NO."}
	invoiceDateCols   = []string{"INVOICE_DATE"}
	prcDateCols       = []string{"PRC_DATE"}
	cracAmountCols    = []string{"CRAC_AMOUNT"}

	billNoCols     = []string{"BILLNO", "BILL_NO", "BILL_NO.", "BILLNO."}
	billAmountCols = []string{"BILLAMOUNT", "BILL_AMOUNT"}
	billDateCols   = []string{"PAO_PASS_DATE", "PAO_DATE", "BILLDATE", "BILL_DATE", "PASS_DATE", "PAO_PASSING_DATE", "DDO_APPROVAL_DATE"}
	headOfAcctCols = []string{"HEAD_OF_ACCOUNT", "HEAD_OF_ACCCOUNT"}
	paidStatusCols = []string{"PAO_PAID_STATUS"}
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonAmountRe  = regexp.MustCompile(`[^\d.\-]`)
)

// Ledger exports use day-first dates; ISO dates appear in re-exported files.
var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CSVLedgerRepository reads both ledgers from CSV streams.
type CSVLedgerRepository struct{}

// NewCSVLedgerRepository creates a new repository instance.
func NewCSVLedgerRepository() *CSVLedgerRepository {
	return &CSVLedgerRepository{}
}

// ReadInvoices parses the GeM invoice ledger.
func (r *CSVLedgerRepository) ReadInvoices(ctx context.Context, src io.Reader) ([]domain.Invoice, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice header: %w", err)
	}
	cols := normalizeHeader(header)

	amountIdx, err := findColumn(cols, cracAmountCols)
	if err != nil {
		return nil, err
	}
	prcIdx, err := findColumn(cols, prcDateCols)
	if err != nil {
		return nil, err
	}
	// Optional columns: absent invoice numbers are synthesized per row so the
	// identifier stays unique even on partial exports.
	numberIdx, _ := findColumn(cols, invoiceNumberCols)
	invDateIdx, _ := findColumn(cols, invoiceDateCols)

	var invoices []domain.Invoice
	seen := make(map[string]bool)
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading invoice row: %w", err)
		}
		row++

		inv := domain.Invoice{
			CRACAmount: parseAmount(field(record, amountIdx)),
			PRCDate:    parseDate(field(record, prcIdx)),
		}
		if invDateIdx >= 0 {
			inv.InvoiceDate = parseDate(field(record, invDateIdx))
		}
		if numberIdx >= 0 {
			inv.InvoiceNumber = strings.TrimSpace(field(record, numberIdx))
		}
		if inv.InvoiceNumber == "" || seen[inv.InvoiceNumber] {
			inv.InvoiceNumber = fmt.Sprintf("ROW%06d", row)
		}
		seen[inv.InvoiceNumber] = true

		inv.EligibleDate = maxDate(inv.InvoiceDate, inv.PRCDate)
		inv.FinancialYear = domain.FinancialYear(inv.EligibleDate)

		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// ReadPayments parses the PAO bill ledger.
func (r *CSVLedgerRepository) ReadPayments(ctx context.Context, src io.Reader) ([]domain.Payment, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read payment header: %w", err)
	}
	cols := normalizeHeader(header)

	billNoIdx, err := findColumn(cols, billNoCols)
	if err != nil {
		return nil, err
	}
	amountIdx, err := findColumn(cols, billAmountCols)
	if err != nil {
		return nil, err
	}
	dateIdx, err := findColumn(cols, billDateCols)
	if err != nil {
		return nil, err
	}
	headIdx, _ := findColumn(cols, headOfAcctCols)
	statusIdx, _ := findColumn(cols, paidStatusCols)

	var payments []domain.Payment
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading payment row: %w", err)
		}

		pay := domain.Payment{
			BillNo:     strings.TrimSpace(field(record, billNoIdx)),
			BillAmount: parseAmount(field(record, amountIdx)),
			BillDate:   parseDate(field(record, dateIdx)),
			PaidStatus: domain.PaidStatusUnpaid,
		}
		pay.FinancialYear = domain.FinancialYear(pay.BillDate)
		if headIdx >= 0 {
			pay.HeadOfAccount = strings.TrimSpace(field(record, headIdx))
		}
		if statusIdx >= 0 {
			if s := strings.ToUpper(strings.TrimSpace(field(record, statusIdx))); s == string(domain.PaidStatusFullyPaid) {
				pay.PaidStatus = domain.PaidStatusFullyPaid
			}
		}

		payments = append(payments, pay)
	}
	return payments, nil
}

// ReadInvoiceFile opens and parses an invoice ledger from disk.
func (r *CSVLedgerRepository) ReadInvoiceFile(ctx context.Context, path string) ([]domain.Invoice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open invoice file %s: %w", path, err)
	}
	defer f.Close()
	return r.ReadInvoices(ctx, f)
}

// ReadPaymentFile opens and parses a payment ledger from disk.
func (r *CSVLedgerRepository) ReadPaymentFile(ctx context.Context, path string) ([]domain.Payment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payment file %s: %w", path, err)
	}
	defer f.Close()
	return r.ReadPayments(ctx, f)
}

// normalizeHeader maps raw headings to canonical form: trimmed, upper-cased,
// runs of whitespace collapsed and replaced with underscores.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.ReplaceAll(h, "\n", " "))
		h = whitespaceRe.ReplaceAllString(h, " ")
		h = strings.ToUpper(h)
		out[i] = strings.ReplaceAll(h, " ", "_")
	}
	return out
}

// findColumn resolves the first matching heading variant to its index.
func findColumn(cols []string, candidates []string) (int, error) {
	for _, name := range candidates {
		for i, c := range cols {
			if c == name {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: tried %s", ErrMissingColumn, strings.Join(candidates, ", "))
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// parseAmount cleans currency formatting (commas, symbols) before parsing.
// Empty values mean zero; anything unparsable becomes NaN so the engine can
// reject the payment instead of the whole file.
func parseAmount(raw string) float64 {
	cleaned := nonAmountRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseDate tries the known layouts and coerces failures to the zero time.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
