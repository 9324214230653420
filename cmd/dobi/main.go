// dobi is the Flappy DOBI arcade: a terminal flappy game with an optional
// wagering mode settled against an external wager ledger.
//
// Usage:
//
//	dobi play                  - Play a practice session
//	dobi play --wager          - Play a wagered session
//	dobi scores                - Show the local leaderboard
//	dobi serve                 - Start SSH server for remote practice play
//	dobi ledgerd               - Run the development wager ledger
//	dobi reconcile --player p  - Resync a player's wager state to the ledger
//	dobi sweep                 - Expire stale pending wagers
//
// Global flags:
//
//	--fps <rate>     - Simulation tick rate (default: 60)
//	--seed <value>   - RNG seed for reproducible obstacle spawns
//	--db <path>      - Scores database path (default: ~/.dobi/scores.db)
//	--config <path>  - Custom game config YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dobi",
	Short: "Flappy DOBI - flap through pillars, wager on your skill",
	Long: `Flappy DOBI is a terminal arcade game. Guide the DOBI through gaps in
scrolling pillars; pass 50 to win. In wager mode each session is backed by a
wager on the ledger: win and claim your reward, lose and the stake is gone.

Examples:
  dobi play
  dobi play --wager --player alice
  dobi scores --interactive
  dobi serve --ssh :23235
  dobi ledgerd --addr :8090
  dobi reconcile --player alice`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dobi/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ledgerdCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(sweepCmd)
}
