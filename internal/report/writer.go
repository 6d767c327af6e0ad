// Package report writes the reconciliation output tables as CSV files,
// either into a directory or bundled into a single ZIP stream for download.
package report

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gemrecon/internal/domain"
	"gemrecon/internal/engine"
)

// Output table file names.
const (
	MatchedInvoicesFile   = "matched_invoices.csv"
	UnpaidInvoicesFile    = "unpaid_invoices.csv"
	UnmatchedPaymentsFile = "unmatched_payments.csv"
	PaymentInvoiceMapFile = "payment_invoice_map.csv"
	UpdatedPaymentsFile   = "payments_updated.csv"
)

// Writer renders engine results into the five output tables.
type Writer struct{}

// NewWriter creates a report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteDir writes all output tables into dir, creating it if needed.
func (w *Writer) WriteDir(dir string, res *engine.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	for name, render := range w.tables(res) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to create report %s: %w", name, err)
		}
		if err := render(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write report %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close report %s: %w", name, err)
		}
	}
	return nil
}

// WriteZip streams all output tables as a ZIP archive.
func (w *Writer) WriteZip(out io.Writer, res *engine.Result) error {
	zw := zip.NewWriter(out)
	// Fixed entry order keeps the archive byte-stable for identical results.
	names := []string{
		MatchedInvoicesFile,
		UnpaidInvoicesFile,
		UnmatchedPaymentsFile,
		PaymentInvoiceMapFile,
		UpdatedPaymentsFile,
	}
	tables := w.tables(res)
	for _, name := range names {
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}
		if err := tables[name](entry); err != nil {
			return fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}
	return zw.Close()
}

func (w *Writer) tables(res *engine.Result) map[string]func(io.Writer) error {
	return map[string]func(io.Writer) error{
		MatchedInvoicesFile:   func(out io.Writer) error { return writeMatchedInvoices(out, res.Invoices) },
		UnpaidInvoicesFile:    func(out io.Writer) error { return writeUnpaidInvoices(out, res.Invoices) },
		UnmatchedPaymentsFile: func(out io.Writer) error { return writeRejections(out, res.Rejections) },
		PaymentInvoiceMapFile: func(out io.Writer) error { return writeGroupMap(out, res.Groups) },
		UpdatedPaymentsFile:   func(out io.Writer) error { return writePayments(out, res.Payments) },
	}
}

func writeMatchedInvoices(out io.Writer, invoices []domain.Invoice) error {
	matched := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Paid {
			matched = append(matched, inv)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchGroupID < matched[j].MatchGroupID
	})

	cw := csv.NewWriter(out)
	if err := cw.Write([]string{
		"INVOICE_NUMBER", "CRAC_AMOUNT", "INVOICE_DATE", "PRC_DATE", "ELIGIBLE_DATE", "FY",
		"MATCH_GROUP_ID", "MATCH_TYPE", "CONFIDENCE", "PAO_BILL_NO", "PAO_PASS_DATE",
	}); err != nil {
		return err
	}
	for _, inv := range matched {
		if err := cw.Write([]string{
			inv.InvoiceNumber,
			formatAmount(inv.CRACAmount),
			formatDate(inv.InvoiceDate),
			formatDate(inv.PRCDate),
			formatDate(inv.EligibleDate),
			strconv.Itoa(inv.FinancialYear),
			inv.MatchGroupID,
			string(inv.MatchType),
			string(inv.Confidence),
			inv.PAOBillNo,
			formatDate(inv.PAOPassDate),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeUnpaidInvoices(out io.Writer, invoices []domain.Invoice) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{
		"INVOICE_NUMBER", "CRAC_AMOUNT", "INVOICE_DATE", "PRC_DATE", "ELIGIBLE_DATE", "FY",
	}); err != nil {
		return err
	}
	for _, inv := range invoices {
		if inv.Paid {
			continue
		}
		if err := cw.Write([]string{
			inv.InvoiceNumber,
			formatAmount(inv.CRACAmount),
			formatDate(inv.InvoiceDate),
			formatDate(inv.PRCDate),
			formatDate(inv.EligibleDate),
			strconv.Itoa(inv.FinancialYear),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeRejections(out io.Writer, rejections []domain.Rejection) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"BILLNO", "BILL_AMOUNT", "BILL_DATE", "REASON", "HEAD_OF_ACCOUNT"}); err != nil {
		return err
	}
	for _, rej := range rejections {
		if err := cw.Write([]string{
			rej.BillNo,
			formatAmount(rej.BillAmount),
			formatDate(rej.BillDate),
			string(rej.Reason),
			rej.HeadOfAccount,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeGroupMap(out io.Writer, groups []domain.MatchGroup) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{
		"MATCH_GROUP_ID", "BILLNO", "BILL_DATE", "MATCH_MODE", "INVOICE_NUMBERS", "TOTAL_AMOUNT", "HEAD_OF_ACCOUNT",
	}); err != nil {
		return err
	}
	for _, g := range groups {
		if err := cw.Write([]string{
			g.GroupID,
			g.BillNo,
			formatDate(g.BillDate),
			g.MatchMode(),
			strings.Join(g.InvoiceNumbers, ";"),
			formatAmount(g.TotalAmount),
			g.HeadOfAccount,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePayments(out io.Writer, payments []domain.Payment) error {
	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"BILLNO", "BILL_AMOUNT", "PAO_PASS_DATE", "HEAD_OF_ACCOUNT", "PAO_PAID_STATUS"}); err != nil {
		return err
	}
	for _, pay := range payments {
		if err := cw.Write([]string{
			pay.BillNo,
			formatAmount(pay.BillAmount),
			formatDate(pay.BillDate),
			pay.HeadOfAccount,
			string(pay.PaidStatus),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
