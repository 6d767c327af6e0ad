// Package storage persists run history and cross-run payment state in SQLite.
//
// The payment_status table is what makes re-runs idempotent: a bill recorded
// as FULLY_PAID is merged back into the next run's payment ledger and skipped
// by the engine.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gemrecon/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id            TEXT PRIMARY KEY,
	started_at        TIMESTAMP NOT NULL,
	completed_at      TIMESTAMP NOT NULL,
	invoice_count     INTEGER NOT NULL,
	payment_count     INTEGER NOT NULL,
	matched_groups    INTEGER NOT NULL,
	matched_invoices  INTEGER NOT NULL,
	rejected_payments INTEGER NOT NULL,
	skipped_payments  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS payment_status (
	bill_no        TEXT PRIMARY KEY,
	paid_status    TEXT NOT NULL,
	match_group_id TEXT NOT NULL DEFAULT '',
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS match_groups (
	run_id          TEXT NOT NULL,
	group_id        TEXT NOT NULL,
	bill_no         TEXT NOT NULL,
	bill_date       TIMESTAMP,
	head_of_account TEXT NOT NULL DEFAULT '',
	match_type      TEXT NOT NULL,
	confidence      TEXT NOT NULL,
	invoice_numbers TEXT NOT NULL,
	total_amount    REAL NOT NULL,
	PRIMARY KEY (run_id, group_id),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// Store provides SQLite database access for run history and payment state.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if necessary) the database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadPaymentStatus returns the persisted paid status per bill number.
func (s *Store) LoadPaymentStatus(ctx context.Context) (map[string]domain.PaidStatus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bill_no, paid_status FROM payment_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.PaidStatus)
	for rows.Next() {
		var billNo, status string
		if err := rows.Scan(&billNo, &status); err != nil {
			return nil, err
		}
		out[billNo] = domain.PaidStatus(status)
	}
	return out, rows.Err()
}

// SaveRun records a completed run, its match groups, and the updated payment
// statuses in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *domain.RunSummary, groups []domain.MatchGroup, payments []domain.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, started_at, completed_at, invoice_count, payment_count,
		 matched_groups, matched_invoices, rejected_payments, skipped_payments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.CompletedAt, run.InvoiceCount, run.PaymentCount,
		run.MatchedGroups, run.MatchedInvoices, run.RejectedPayments, run.SkippedPayments,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	groupByBill := make(map[string]string, len(groups))
	for _, g := range groups {
		invoicesJSON, err := json.Marshal(g.InvoiceNumbers)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_groups
			(run_id, group_id, bill_no, bill_date, head_of_account,
			 match_type, confidence, invoice_numbers, total_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, g.GroupID, g.BillNo, g.BillDate, g.HeadOfAccount,
			string(g.MatchType), string(g.Confidence), string(invoicesJSON), g.TotalAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match group %s: %w", g.GroupID, err)
		}
		groupByBill[g.BillNo] = g.GroupID
	}

	now := time.Now().UTC()
	for _, p := range payments {
		if p.PaidStatus != domain.PaidStatusFullyPaid {
			continue
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payment_status (bill_no, paid_status, match_group_id, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(bill_no) DO UPDATE SET
				paid_status = excluded.paid_status,
				match_group_id = CASE WHEN excluded.match_group_id != '' THEN excluded.match_group_id ELSE payment_status.match_group_id END,
				updated_at = excluded.updated_at`,
			p.BillNo, string(p.PaidStatus), groupByBill[p.BillNo], now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert payment status for %s: %w", p.BillNo, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, completed_at, invoice_count, payment_count,
		       matched_groups, matched_invoices, rejected_payments, skipped_payments
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.CompletedAt, &r.InvoiceCount, &r.PaymentCount,
			&r.MatchedGroups, &r.MatchedInvoices, &r.RejectedPayments, &r.SkippedPayments); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetRun(ctx context.Context, runID string) (*domain.RunSummary, error) {
	var r domain.RunSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, started_at, completed_at, invoice_count, payment_count,
		       matched_groups, matched_invoices, rejected_payments, skipped_payments
		FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.StartedAt, &r.CompletedAt, &r.InvoiceCount, &r.PaymentCount,
			&r.MatchedGroups, &r.MatchedInvoices, &r.RejectedPayments, &r.SkippedPayments)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListGroups returns the match groups recorded for a run, in group-id order.
func (s *Store) ListGroups(ctx context.Context, runID string) ([]domain.MatchGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT group_id, bill_no, bill_date, head_of_account, match_type, confidence, invoice_numbers, total_amount
		FROM match_groups WHERE run_id = ? ORDER BY group_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.MatchGroup
	for rows.Next() {
		var g domain.MatchGroup
		var billDate sql.NullTime
		var matchType, confidence, invoicesJSON string
		if err := rows.Scan(&g.GroupID, &g.BillNo, &billDate, &g.HeadOfAccount,
			&matchType, &confidence, &invoicesJSON, &g.TotalAmount); err != nil {
			return nil, err
		}
		if billDate.Valid {
			g.BillDate = billDate.Time
		}
		g.MatchType = domain.MatchType(matchType)
		g.Confidence = domain.Confidence(confidence)
		if err := json.Unmarshal([]byte(invoicesJSON), &g.InvoiceNumbers); err != nil {
			return nil, fmt.Errorf("corrupt invoice list for group %s: %w", g.GroupID, err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
