package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemrecon/internal/domain"
	"gemrecon/internal/engine"
)

func sampleResult() *engine.Result {
	may := func(day int) time.Time { return time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC) }
	june := func(day int) time.Time { return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC) }

	return &engine.Result{
		Invoices: []domain.Invoice{
			{
				InvoiceNumber: "INV2", CRACAmount: 400, InvoiceDate: may(2), PRCDate: may(4),
				EligibleDate: may(4), FinancialYear: 2024, Paid: true,
				MatchGroupID: "MG00002", MatchType: domain.MatchTypeCombination,
				Confidence: domain.ConfidenceMedium, PAOBillNo: "CB102", PAOPassDate: june(2),
			},
			{
				InvoiceNumber: "INV1", CRACAmount: 1000, InvoiceDate: may(1), PRCDate: may(3),
				EligibleDate: may(3), FinancialYear: 2024, Paid: true,
				MatchGroupID: "MG00001", MatchType: domain.MatchTypeSingle,
				Confidence: domain.ConfidenceHigh, PAOBillNo: "CB101", PAOPassDate: june(1),
			},
			{
				InvoiceNumber: "INV9", CRACAmount: 77.50, InvoiceDate: may(9),
				EligibleDate: may(9), FinancialYear: 2024,
			},
		},
		Groups: []domain.MatchGroup{
			{
				GroupID: "MG00001", BillNo: "CB101", BillDate: june(1),
				MatchType: domain.MatchTypeSingle, Confidence: domain.ConfidenceHigh,
				InvoiceNumbers: []string{"INV1"}, TotalAmount: 1000,
			},
			{
				GroupID: "MG00002", BillNo: "CB102", BillDate: june(2),
				MatchType: domain.MatchTypeCombination, Confidence: domain.ConfidenceMedium,
				InvoiceNumbers: []string{"INV2", "INV3"}, TotalAmount: 900,
			},
		},
		Rejections: []domain.Rejection{
			{BillNo: "CB999", BillAmount: 55, BillDate: june(3), Reason: domain.ReasonPartialMatch},
		},
		Payments: []domain.Payment{
			{BillNo: "CB101", BillAmount: 1000, BillDate: june(1), PaidStatus: domain.PaidStatusFullyPaid},
			{BillNo: "CB999", BillAmount: 55, BillDate: june(3), PaidStatus: domain.PaidStatusUnpaid},
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter()
	require.NoError(t, w.WriteDir(dir, sampleResult()))

	for _, name := range []string{
		MatchedInvoicesFile, UnpaidInvoicesFile, UnmatchedPaymentsFile,
		PaymentInvoiceMapFile, UpdatedPaymentsFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, MatchedInvoicesFile))
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 3)

	// Sorted by match group id, not input order.
	assert.Equal(t, "INV1", rows[1][0])
	assert.Equal(t, "MG00001", rows[1][6])
	assert.Equal(t, "AUTO_SINGLE", rows[1][7])
	assert.Equal(t, "CB101", rows[1][9])
	assert.Equal(t, "2024-06-01", rows[1][10])
	assert.Equal(t, "INV2", rows[2][0])
	assert.Equal(t, "400.00", rows[2][1])
}

func TestWriteDir_UnpaidInvoices(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter().WriteDir(dir, sampleResult()))

	data, err := os.ReadFile(filepath.Join(dir, UnpaidInvoicesFile))
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV9", rows[1][0])
	assert.Equal(t, "77.50", rows[1][1])
	// Invoice has no PRC date, so the column stays empty.
	assert.Equal(t, "", rows[1][3])
}

func TestWriteDir_GroupMap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter().WriteDir(dir, sampleResult()))

	data, err := os.ReadFile(filepath.Join(dir, PaymentInvoiceMapFile))
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 3)
	assert.Equal(t, "EXACT", rows[1][3])
	assert.Equal(t, "INV1", rows[1][4])
	assert.Equal(t, "COMBINATION", rows[2][3])
	assert.Equal(t, "INV2;INV3", rows[2][4])
	assert.Equal(t, "900.00", rows[2][5])
}

func TestWriteDir_Rejections(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter().WriteDir(dir, sampleResult()))

	data, err := os.ReadFile(filepath.Join(dir, UnmatchedPaymentsFile))
	require.NoError(t, err)
	rows := readCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "CB999", rows[1][0])
	assert.Equal(t, string(domain.ReasonPartialMatch), rows[1][3])
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter().WriteZip(&buf, sampleResult()))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 5)

	// Entry order is fixed.
	assert.Equal(t, MatchedInvoicesFile, zr.File[0].Name)
	assert.Equal(t, UpdatedPaymentsFile, zr.File[4].Name)

	f, err := zr.File[4].Open()
	require.NoError(t, err)
	defer f.Close()
	var content bytes.Buffer
	_, err = content.ReadFrom(f)
	require.NoError(t, err)
	assert.True(t, strings.Contains(content.String(), "FULLY_PAID"))
}

func TestWriteZip_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, NewWriter().WriteZip(&a, sampleResult()))
	require.NoError(t, NewWriter().WriteZip(&b, sampleResult()))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
