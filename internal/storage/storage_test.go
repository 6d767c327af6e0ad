package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemrecon/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "gemrecon_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun() (*domain.RunSummary, []domain.MatchGroup, []domain.Payment) {
	now := time.Now().UTC().Truncate(time.Second)
	run := &domain.RunSummary{
		RunID:            uuid.NewString(),
		StartedAt:        now.Add(-time.Minute),
		CompletedAt:      now,
		InvoiceCount:     10,
		PaymentCount:     4,
		MatchedGroups:    2,
		MatchedInvoices:  3,
		RejectedPayments: 1,
		SkippedPayments:  1,
	}
	groups := []domain.MatchGroup{
		{
			GroupID:        "MG00001",
			BillNo:         "CB101",
			BillDate:       now.AddDate(0, 0, -3),
			MatchType:      domain.MatchTypeSingle,
			Confidence:     domain.ConfidenceHigh,
			InvoiceNumbers: []string{"INV1"},
			TotalAmount:    1000.00,
		},
		{
			GroupID:        "MG00002",
			BillNo:         "CB102",
			BillDate:       now.AddDate(0, 0, -2),
			HeadOfAccount:  "2059-MAINT",
			MatchType:      domain.MatchTypeCombination,
			Confidence:     domain.ConfidenceMedium,
			InvoiceNumbers: []string{"INV2", "INV3"},
			TotalAmount:    750.50,
		},
	}
	payments := []domain.Payment{
		{BillNo: "CB101", PaidStatus: domain.PaidStatusFullyPaid},
		{BillNo: "CB102", PaidStatus: domain.PaidStatusFullyPaid},
		{BillNo: "CB103", PaidStatus: domain.PaidStatusUnpaid},
	}
	return run, groups, payments
}

func TestStore_SaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, groups, payments := sampleRun()
	require.NoError(t, store.SaveRun(ctx, run, groups, payments))

	got, err := store.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, 2, got.MatchedGroups)
	assert.Equal(t, 3, got.MatchedInvoices)
	assert.Equal(t, 1, got.RejectedPayments)
}

func TestStore_GetRunNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_LoadPaymentStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, groups, payments := sampleRun()
	require.NoError(t, store.SaveRun(ctx, run, groups, payments))

	status, err := store.LoadPaymentStatus(ctx)
	require.NoError(t, err)

	// Only FULLY_PAID bills are persisted.
	assert.Equal(t, domain.PaidStatusFullyPaid, status["CB101"])
	assert.Equal(t, domain.PaidStatusFullyPaid, status["CB102"])
	_, ok := status["CB103"]
	assert.False(t, ok)
}

func TestStore_PaymentStatusSurvivesSecondRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, groups, payments := sampleRun()
	require.NoError(t, store.SaveRun(ctx, run, groups, payments))

	// A later run re-reports CB101 as FULLY_PAID (skipped): the upsert must
	// not fail or lose the original match group id.
	second := &domain.RunSummary{
		RunID:       uuid.NewString(),
		StartedAt:   time.Now().UTC(),
		CompletedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveRun(ctx, second, nil,
		[]domain.Payment{{BillNo: "CB101", PaidStatus: domain.PaidStatusFullyPaid}}))

	status, err := store.LoadPaymentStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PaidStatusFullyPaid, status["CB101"])

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStore_ListGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, groups, payments := sampleRun()
	require.NoError(t, store.SaveRun(ctx, run, groups, payments))

	got, err := store.ListGroups(ctx, run.RunID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "MG00001", got[0].GroupID)
	assert.Equal(t, domain.MatchTypeSingle, got[0].MatchType)
	assert.Equal(t, []string{"INV1"}, got[0].InvoiceNumbers)

	assert.Equal(t, "MG00002", got[1].GroupID)
	assert.Equal(t, []string{"INV2", "INV3"}, got[1].InvoiceNumbers)
	assert.Equal(t, "2059-MAINT", got[1].HeadOfAccount)
	assert.InDelta(t, 750.50, got[1].TotalAmount, 0.001)
}

func TestStore_ListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := &domain.RunSummary{
		RunID:       "run-old",
		StartedAt:   time.Now().UTC().Add(-2 * time.Hour),
		CompletedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	newer := &domain.RunSummary{
		RunID:       "run-new",
		StartedAt:   time.Now().UTC(),
		CompletedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveRun(ctx, older, nil, nil))
	require.NoError(t, store.SaveRun(ctx, newer, nil, nil))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.Equal(t, "run-old", runs[1].RunID)
}
