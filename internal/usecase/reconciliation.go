package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gemrecon/internal/domain"
	"gemrecon/internal/engine"
)

// ReconcileUseCase orchestrates one reconciliation run: ingestion, persisted
// status merge, the matching engine, and persistence of the outcome.
type ReconcileUseCase struct {
	repo   LedgerRepository
	store  RunStore
	cfg    engine.Config
	logger *slog.Logger
}

// NewReconcileUseCase creates a new instance of the usecase. store may be nil
// to run without cross-run persistence.
func NewReconcileUseCase(repo LedgerRepository, store RunStore, cfg engine.Config, logger *slog.Logger) *ReconcileUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileUseCase{repo: repo, store: store, cfg: cfg, logger: logger}
}

// Reconcile performs a full run over the two ledger streams and returns the
// engine result together with the run summary.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, invoiceSrc, paymentSrc io.Reader) (*engine.Result, *domain.RunSummary, error) {
	startedAt := time.Now().UTC()

	invoices, err := uc.repo.ReadInvoices(ctx, invoiceSrc)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read invoice ledger: %w", err)
	}
	payments, err := uc.repo.ReadPayments(ctx, paymentSrc)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read payment ledger: %w", err)
	}

	if uc.store != nil && uc.cfg.TrackPaymentStatus {
		persisted, err := uc.store.LoadPaymentStatus(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("could not load persisted payment status: %w", err)
		}
		for i := range payments {
			if persisted[payments[i].BillNo] == domain.PaidStatusFullyPaid {
				payments[i].PaidStatus = domain.PaidStatusFullyPaid
			}
		}
	}
	skipped := 0
	for _, p := range payments {
		if p.PaidStatus == domain.PaidStatusFullyPaid {
			skipped++
		}
	}

	uc.logger.Info("starting reconciliation run",
		"invoices", len(invoices), "payments", len(payments), "skipped", skipped)

	result, err := engine.Run(invoices, payments, uc.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("matching engine failed: %w", err)
	}

	matchedInvoices := 0
	for _, inv := range result.Invoices {
		if inv.Paid {
			matchedInvoices++
		}
	}

	summary := &domain.RunSummary{
		RunID:            uuid.NewString(),
		StartedAt:        startedAt,
		CompletedAt:      time.Now().UTC(),
		InvoiceCount:     len(invoices),
		PaymentCount:     len(payments),
		MatchedGroups:    len(result.Groups),
		MatchedInvoices:  matchedInvoices,
		RejectedPayments: len(result.Rejections),
		SkippedPayments:  skipped,
	}

	if uc.store != nil {
		if err := uc.store.SaveRun(ctx, summary, result.Groups, result.Payments); err != nil {
			return nil, nil, fmt.Errorf("could not persist run: %w", err)
		}
	}

	uc.logger.Info("reconciliation run complete",
		"run_id", summary.RunID,
		"matched_groups", summary.MatchedGroups,
		"matched_invoices", summary.MatchedInvoices,
		"rejected", summary.RejectedPayments)

	return result, summary, nil
}
