package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/settle"
	"github.com/dobi-games/flappy-dobi/internal/wagerstore"
)

var flagReconcilePlayer string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Resync a player's wager state with the ledger",
	Long: `Query the ledger for the player's active wager and resolve any
discrepancy with local state. Run this after a crash or a failed settlement
to find out where a wager actually stands.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&flagReconcilePlayer, "player", "", "Player identifier (required)")
	reconcileCmd.MarkFlagRequired("player")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	coord, _ := buildCoordinator(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := coord.Reconcile(ctx, flagReconcilePlayer)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	switch res.Action {
	case settle.ReconcileNoop:
		fmt.Printf("Player %s: nothing to reconcile.\n", flagReconcilePlayer)
	case settle.ReconcileBackfilled:
		fmt.Printf("Player %s: active wager %s found on the ledger.\n", flagReconcilePlayer, res.GameID)
		fmt.Println("The wager is still pending. Resume it with: dobi play --wager --resume")
	case settle.ReconcileResubmitted:
		fmt.Printf("Player %s: resubmitted outcome for wager %s.\n", flagReconcilePlayer, res.GameID)
	case settle.ReconcileConfirmed:
		fmt.Printf("Player %s: wager %s already settled on the ledger (status %s).\n",
			flagReconcilePlayer, res.GameID, res.Status)
	case settle.ReconcileCleared:
		fmt.Printf("Player %s: stale local wager %s cleared.\n", flagReconcilePlayer, res.GameID)
	default:
		fmt.Printf("Player %s: %s (game %s)\n", flagReconcilePlayer, res.Action, res.GameID)
	}
	return nil
}

var flagSweepOlderThan int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire stale pending wagers in the ledger database",
	Long: `Mark pending wagers older than the cutoff as lost. This is the
ledger-side sweep for abandoned sessions; point it at the same database
ledgerd uses. Intended to run from cron or a systemd timer.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&flagLedgerDB, "wager-db", "~/.dobi/wagers.db", "Path to wager database")
	sweepCmd.Flags().IntVar(&flagSweepOlderThan, "older-than", 0, "Cutoff in seconds (default: config stale_after_secs)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	olderThan := flagSweepOlderThan
	if olderThan <= 0 {
		olderThan = cfg.Ledger.StaleAfterSecs
	}
	if olderThan <= 0 {
		return errors.New("sweep cutoff not set; pass --older-than or set ledger.stale_after_secs")
	}

	store, err := wagerstore.Open(flagLedgerDB)
	if err != nil {
		return fmt.Errorf("open wager database: %w", err)
	}
	defer store.Close()

	n, err := store.ExpireOlderThan(time.Duration(olderThan) * time.Second)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	fmt.Printf("Expired %d stale wager(s).\n", n)
	return nil
}
