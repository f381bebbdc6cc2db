package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cashrun/internal/wallet"
)

var (
	flagMethod string
	flagNumber string
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show balance and coins",
	Long: `Show the wallet. Use the subcommands to exchange coins for taka and to
withdraw the balance.

Examples:
  cashrun wallet
  cashrun wallet exchange          # convert every coin (minimum 100)
  cashrun wallet exchange 250      # convert 250 coins
  cashrun wallet withdraw --method bKash --number 01700000000`,
	Run: runWallet,
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange [coins]",
	Short: "Exchange coins for taka",
	Args:  cobra.MaximumNArgs(1),
	Run:   runExchange,
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw the full balance to bKash or Nagad",
	Run:   runWithdraw,
}

func init() {
	withdrawCmd.Flags().StringVar(&flagMethod, "method", "bKash", "Payment method: bKash or Nagad")
	withdrawCmd.Flags().StringVar(&flagNumber, "number", "", "Mobile account number")
	_ = withdrawCmd.MarkFlagRequired("number")

	walletCmd.AddCommand(exchangeCmd)
	walletCmd.AddCommand(withdrawCmd)
}

func runWallet(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	p, err := e.currentUser(cmd.Context())
	exitOn(e, err)

	minCoins := e.wallet.MinExchangeCoins()
	fmt.Printf("Balance  %s\n", p.Balance)
	fmt.Printf("Coins    %d (worth %s)\n", p.TotalCoins, e.wallet.Quote(p.TotalCoins))
	fmt.Printf("Rate     %d Coins = %s\n", minCoins, e.wallet.Quote(minCoins))
	fmt.Printf("Minimum withdrawal %s\n", e.wallet.MinWithdrawal())
}

func runExchange(cmd *cobra.Command, args []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	ctx := cmd.Context()
	p, err := e.currentUser(ctx)
	exitOn(e, err)

	if len(args) == 0 {
		coins, credit, err := e.wallet.ExchangeAll(ctx, p.ID)
		exitOn(e, err)
		fmt.Printf("Exchanged %d coins for %s\n", coins, credit)
		return
	}

	coins, err := strconv.Atoi(args[0])
	if err != nil {
		exitOn(e, fmt.Errorf("invalid coin count %q", args[0]))
	}
	credit, err := e.wallet.Exchange(ctx, p.ID, coins)
	exitOn(e, err)
	fmt.Printf("Exchanged %d coins for %s\n", coins, credit)
}

func runWithdraw(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	ctx := cmd.Context()
	p, err := e.currentUser(ctx)
	exitOn(e, err)

	method, err := wallet.ParseMethod(flagMethod)
	exitOn(e, err)
	w, err := e.wallet.Withdraw(ctx, p.ID, method, flagNumber)
	exitOn(e, err)
	fmt.Printf("Withdrawal of %s to %s %s is processing (request #%d)\n", w.Amount, w.Method, w.Number, w.ID)
}
