package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gemrecon/internal/engine"
	"gemrecon/internal/gateway"
	"gemrecon/internal/logging"
	"gemrecon/internal/report"
	"gemrecon/internal/storage"
	"gemrecon/internal/usecase"
)

var (
	invoicePath string
	paymentPath string
	outputDir   string
	noPersist   bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation pass and write the report tables",
	RunE:  runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&invoicePath, "invoices", "", "path to the GeM invoice ledger CSV (required)")
	reconcileCmd.Flags().StringVar(&paymentPath, "payments", "", "path to the PAO bill ledger CSV (required)")
	reconcileCmd.Flags().StringVar(&outputDir, "output", "output", "directory for the report tables")
	reconcileCmd.Flags().BoolVar(&noPersist, "no-persist", false, "skip the run-history database")
	_ = reconcileCmd.MarkFlagRequired("invoices")
	_ = reconcileCmd.MarkFlagRequired("payments")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := logging.NewComponentLogger(cfg.Logging, "cli")

	engineCfg := engine.Config{
		MaxCombinationSize: cfg.Matching.MaxCombinationSize,
		AmountTolerance:    cfg.Matching.AmountTolerance,
		BlacklistPrefixes:  cfg.Matching.BlacklistPrefixes,
		TrackPaymentStatus: cfg.Matching.TrackPaymentStatus,
	}

	// A typed nil *storage.Store must not end up inside the interface value,
	// so the assignment only happens when a store really exists.
	var runStore usecase.RunStore
	if !noPersist && cfg.Storage.DatabasePath != "" {
		store, err := storage.NewStore(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open run-history database: %w", err)
		}
		defer store.Close()
		runStore = store
	}

	repo := gateway.NewCSVLedgerRepository()
	uc := usecase.NewReconcileUseCase(repo, runStore, engineCfg, logger)

	invoiceFile, err := os.Open(invoicePath)
	if err != nil {
		return fmt.Errorf("failed to open invoice ledger: %w", err)
	}
	defer invoiceFile.Close()

	paymentFile, err := os.Open(paymentPath)
	if err != nil {
		return fmt.Errorf("failed to open payment ledger: %w", err)
	}
	defer paymentFile.Close()

	result, summary, err := uc.Reconcile(context.Background(), invoiceFile, paymentFile)
	if err != nil {
		return err
	}

	if err := report.NewWriter().WriteDir(outputDir, result); err != nil {
		return err
	}

	logger.Info("reports written",
		"dir", outputDir,
		"run_id", summary.RunID,
		"matched_groups", summary.MatchedGroups,
		"rejected_payments", summary.RejectedPayments,
		"skipped_payments", summary.SkippedPayments)
	return nil
}
