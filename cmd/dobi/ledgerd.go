package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/ledgerd"
	"github.com/dobi-games/flappy-dobi/internal/wagerstore"
)

var (
	flagLedgerAddr string
	flagLedgerDB   string
)

var ledgerdCmd = &cobra.Command{
	Use:   "ledgerd",
	Short: "Run the development wager ledger",
	Long: `Run a local wager ledger over SQLite. It speaks the same HTTP API as
the production backend, so "dobi play --wager" can settle against it during
development.`,
	RunE: runLedgerd,
}

func init() {
	ledgerdCmd.Flags().StringVar(&flagLedgerAddr, "addr", ":8090", "Address to listen on")
	ledgerdCmd.Flags().StringVar(&flagLedgerDB, "wager-db", "~/.dobi/wagers.db", "Path to wager database")
}

func runLedgerd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := wagerstore.Open(flagLedgerDB)
	if err != nil {
		return fmt.Errorf("open wager database: %w", err)
	}
	defer store.Close()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ledgerd",
	})

	handler := ledgerd.New(store, ledgerd.Config{
		Stake:            cfg.Wager.Stake,
		RewardMultiplier: cfg.Wager.RewardMultiplier,
	}, logger)

	srv := &http.Server{
		Addr:              flagLedgerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ledger listening", "addr", flagLedgerAddr, "db", flagLedgerDB)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ledger server: %w", err)
	case <-done:
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
