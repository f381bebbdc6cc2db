package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cashrun/internal/ads"
)

var adCmd = &cobra.Command{
	Use:   "ad",
	Short: "Watch an ad for coins",
	Long: `Watch a short ad and earn coins. Interrupting the ad (Ctrl+C) gives
no reward.`,
	Run: runAd,
}

func runAd(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	ctx := cmd.Context()
	p, err := e.currentUser(ctx)
	exitOn(e, err)

	fmt.Printf("Watching ad (%s)... %s\n", e.ads.Delay(), e.ads.Link())
	g, err := e.ads.Watch(ctx, ads.PurposeEarn)
	exitOn(e, err)
	p, err = e.wallet.CreditCoins(ctx, p.ID, g.Coins)
	exitOn(e, err)
	fmt.Printf("+%d coins (total %d)\n", g.Coins, p.TotalCoins)
}
