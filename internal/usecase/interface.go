package usecase

import (
	"context"
	"io"

	"gemrecon/internal/domain"
)

// LedgerRepository defines the interface for reading ledger data.
// The usecase layer depends on this interface, not on a concrete
// implementation.
//
//go:generate mockgen -destination=mocks/mock_interfaces.go -source=interface.go -package=mock_usecase
type LedgerRepository interface {
	ReadInvoices(ctx context.Context, src io.Reader) ([]domain.Invoice, error)
	ReadPayments(ctx context.Context, src io.Reader) ([]domain.Payment, error)
}

// RunStore persists run history and the cross-run payment status that makes
// re-runs idempotent. A nil RunStore disables persistence.
type RunStore interface {
	LoadPaymentStatus(ctx context.Context) (map[string]domain.PaidStatus, error)
	SaveRun(ctx context.Context, run *domain.RunSummary, groups []domain.MatchGroup, payments []domain.Payment) error
}
