package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dobi-games/flappy-dobi/internal/config"
	"github.com/dobi-games/flappy-dobi/internal/platform/tui"
)

var (
	flagServeAddr    string
	flagServeHostKey string
	flagServeIdle    int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an SSH server for remote practice play",
	Long: `Serve Flappy DOBI over SSH. Anyone can connect and play a practice
session; their scores land in the shared leaderboard under their SSH user.
Wager mode is not available over SSH.

Connect with:
  ssh -p 23235 localhost`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "ssh", ":23235", "Address to listen on")
	serveCmd.Flags().StringVar(&flagServeHostKey, "host-key", "", "Path to host key (auto-generated if empty)")
	serveCmd.Flags().IntVar(&flagServeIdle, "idle-timeout", 30, "Idle timeout in minutes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	srv, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagServeAddr,
		HostKeyPath: flagServeHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagServeIdle) * time.Minute,
		Game:        cfg,
		TickRate:    flagFPS,
	})
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}
	return srv.ListenAndServe()
}
