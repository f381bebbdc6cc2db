// cashrun is a lane runner for the terminal where coins turn into cash.
//
// Usage:
//
//	cashrun register         - Create an account
//	cashrun login            - Sign in
//	cashrun play             - Play the runner and the rest of the menu
//	cashrun wallet           - Show balance, exchange coins, withdraw
//	cashrun ad               - Watch an ad for coins
//	cashrun trivia           - Answer an AI challenge question
//	cashrun history          - Show recent runs
//	cashrun serve            - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.cashrun/cashrun.db)
//	--config <path>       - Use a specific cashrun.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cashrun",
	Short: "Cash Run - dodge, collect coins, cash out",
	Long: `Cash Run is a three-lane runner for your terminal. Dodge walls and
cars, collect coins and powerups, then exchange coins for taka and
withdraw to bKash or Nagad.

Examples:
  cashrun register --email me@example.com --name Rahim
  cashrun play
  cashrun play --difficulty hard --watch
  cashrun wallet exchange
  cashrun serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.cashrun/cashrun.db", "Path to the local database")
	pf.StringVar(&flagConfig, "config", "", "Path to a custom cashrun.yaml")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(adCmd)
	rootCmd.AddCommand(triviaCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
