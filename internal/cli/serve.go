package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gemrecon/internal/api"
	"gemrecon/internal/engine"
	"gemrecon/internal/gateway"
	"gemrecon/internal/logging"
	"gemrecon/internal/storage"
	"gemrecon/internal/usecase"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP reconciliation service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := logging.NewComponentLogger(cfg.Logging, "api")

	engineCfg := engine.Config{
		MaxCombinationSize: cfg.Matching.MaxCombinationSize,
		AmountTolerance:    cfg.Matching.AmountTolerance,
		BlacklistPrefixes:  cfg.Matching.BlacklistPrefixes,
		TrackPaymentStatus: cfg.Matching.TrackPaymentStatus,
	}

	var store *storage.Store
	var runStore usecase.RunStore
	if cfg.Storage.DatabasePath != "" {
		var err error
		store, err = storage.NewStore(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open run-history database: %w", err)
		}
		defer store.Close()
		runStore = store
	}

	uc := usecase.NewReconcileUseCase(gateway.NewCSVLedgerRepository(), runStore, engineCfg, logger)

	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	server := api.NewServer(api.Config{
		Port:           port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, uc, store, logger)

	return server.ListenAndServe()
}
