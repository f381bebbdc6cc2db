package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs and withdrawals",
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func runHistory(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	ctx := cmd.Context()
	p, err := e.currentUser(ctx)
	exitOn(e, err)

	stats, err := e.wallet.Stats(ctx, p.ID)
	exitOn(e, err)
	runs, err := e.wallet.History(ctx, p.ID, flagLimit)
	exitOn(e, err)

	fmt.Printf("Runs - %s\n\n", p.Name)
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'cashrun play' to set the first high score!")
	} else {
		fmt.Printf("  %-8s  %-6s  %-7s  %s\n", "Score", "Coins", "Revives", "Date")
		fmt.Printf("  %-8s  %-6s  %-7s  %s\n", "-----", "-----", "-------", "----")
		for _, r := range runs {
			fmt.Printf("  %-8d  %-6d  %-7d  %s\n", r.Score, r.Coins, r.Revives, r.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Println()
		fmt.Printf("Best: %d  Average: %.0f  Runs: %d  Coins collected: %d\n",
			stats.BestScore, stats.AvgScore, stats.RunsCount, stats.TotalCoins)
	}

	ws, err := e.wallet.Withdrawals(ctx, p.ID, flagLimit)
	exitOn(e, err)
	if len(ws) == 0 {
		return
	}
	fmt.Printf("\nWithdrawals\n\n")
	for _, w := range ws {
		fmt.Printf("  %-6s  %-14s  %-12s  %-8s  %s\n", w.Method, w.Number, w.Amount, w.Status, w.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
