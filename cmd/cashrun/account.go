package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cashrun/internal/profile"
)

var (
	flagEmail    string
	flagName     string
	flagPassword string
	flagReferral string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account and sign in. A referral code from a friend gives you
both a bonus.

Examples:
  cashrun register --email me@example.com --name Rahim
  cashrun register --email me@example.com --name Rahim --referral AB12CD34`,
	Run: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Run:   runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Run:   runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Run:   runWhoami,
}

func init() {
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&flagName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVar(&flagReferral, "referral", "", "Referral code of the friend who invited you")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("name")

	loginCmd.Flags().StringVar(&flagEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
}

// readPassword returns --password or prompts for one with echo disabled.
func readPassword(prompt string) (string, error) {
	if flagPassword != "" {
		return flagPassword, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal for the password prompt, pass --password")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func runRegister(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	password, err := readPassword("Password: ")
	exitOn(e, err)
	if flagPassword == "" {
		again, err := readPassword("Repeat password: ")
		exitOn(e, err)
		if again != password {
			exitOn(e, errors.New("passwords do not match"))
		}
	}

	p, err := e.auth.Register(cmd.Context(), flagEmail, password, flagName, flagReferral)
	exitOn(e, err)

	fmt.Printf("Welcome, %s!\n", p.Name)
	if p.Balance > 0 {
		fmt.Printf("Referral bonus: %s\n", p.Balance)
	}
	fmt.Printf("Your referral code: %s\n", p.ReferralCode)
}

func runLogin(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	password, err := readPassword("Password: ")
	exitOn(e, err)
	p, err := e.auth.Login(cmd.Context(), flagEmail, password)
	exitOn(e, err)
	fmt.Printf("Signed in as %s (%s)\n", p.Name, p.Email)
}

func runLogout(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	exitOn(e, e.auth.Logout(cmd.Context()))
	fmt.Println("Signed out.")
}

func runWhoami(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	p, err := e.currentUser(cmd.Context())
	exitOn(e, err)
	printProfile(p)
}

func printProfile(p profile.Profile) {
	fmt.Printf("  %-10s %s\n", "Name", p.Name)
	fmt.Printf("  %-10s %s\n", "Email", p.Email)
	fmt.Printf("  %-10s %s\n", "Balance", p.Balance)
	fmt.Printf("  %-10s %d\n", "Coins", p.TotalCoins)
	fmt.Printf("  %-10s %d\n", "Best", p.HighScore)
	fmt.Printf("  %-10s %s\n", "Referral", p.ReferralCode)
}
