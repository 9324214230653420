package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/core"
	"github.com/dobi-games/flappy-dobi/internal/ledger"
	"github.com/dobi-games/flappy-dobi/internal/platform/tui"
	"github.com/dobi-games/flappy-dobi/internal/session"
	"github.com/dobi-games/flappy-dobi/internal/settle"
	"github.com/dobi-games/flappy-dobi/internal/storage"
)

var (
	flagWager  bool
	flagPlayer string
	flagResume bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Flappy DOBI",
	Long: `Play a Flappy DOBI session in the terminal.

Practice mode is free and restartable. With --wager, the session is backed
by a wager on the ledger: one active wager per player, settled when the run
ends. Reach the win score and press C to claim the reward.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWager, "wager", false, "Play a wagered session (requires --player and a reachable ledger)")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player identifier (defaults to $USER)")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Resume an existing active wager instead of failing")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("dobi play needs an interactive terminal")
	}

	player := flagPlayer
	if player == "" {
		player = os.Getenv("USER")
	}
	if player == "" {
		player = "player"
	}

	rt := core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Score history is optional; play without it.
		fmt.Fprintf(os.Stderr, "warning: scores database unavailable: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var (
		coord     *settle.Coordinator
		wagerSess *session.Session
	)
	if flagWager {
		if flagPlayer == "" {
			return errors.New("--wager requires --player")
		}
		var sessions *session.Registry
		coord, sessions = buildCoordinator(cfg)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		wagerSess, err = coord.CreateSession(ctx, player)
		cancel()
		if err != nil {
			var active *settle.AlreadyActiveError
			if errors.As(err, &active) {
				if !flagResume {
					return fmt.Errorf("player %q already has active wager %s; finish it or pass --resume", player, active.GameID)
				}
				wagerSess = session.New(player, session.ModeWager, active.GameID)
				sessions.Put(wagerSess)
			} else {
				return fmt.Errorf("create wager: %w", err)
			}
		}
	}

	model := tui.NewModel(cfg, rt, player, store, coord, wagerSess)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

// buildCoordinator wires a settlement coordinator against the configured
// ledger endpoint. The registry is returned so callers can register
// resumed sessions.
func buildCoordinator(cfg config.Config) (*settle.Coordinator, *session.Registry) {
	client := ledger.NewHTTPClient(ledger.HTTPConfig{
		BaseURL:        cfg.Ledger.BaseURL,
		MaxRetries:     cfg.Ledger.MaxRetries,
		BaseRetryDelay: time.Duration(cfg.Ledger.RetryBaseMs) * time.Millisecond,
		MaxRetryDelay:  time.Duration(cfg.Ledger.RetryMaxMs) * time.Millisecond,
		Timeout:        time.Duration(cfg.Ledger.TimeoutSecs) * time.Second,
	})

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "settle"})
	sessions := session.NewRegistry()

	coord := settle.New(client, sessions, logger, settle.Config{
		WinScore:    cfg.Rules.WinScore,
		MaxAttempts: cfg.Ledger.SettleAttempts,
		CallTimeout: time.Duration(cfg.Ledger.TimeoutSecs) * time.Second,
	})
	return coord, sessions
}
