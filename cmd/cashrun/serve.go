package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cashrun/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Cash Run SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH username gets its own account on this server's database, created
on first connect. Logout is not offered over SSH; quitting disconnects.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cashrun/host_key

Examples:
  cashrun serve                           # Listen on :23234 with auto-generated key
  cashrun serve --ssh :2222               # Listen on port 2222
  cashrun serve --host-key ./my_host_key  # Use specific host key
  cashrun serve --db ./cashrun.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
	}

	server, err := tui.NewSSHServer(cfg, e.services(), e.logger.WithPrefix("cashrun-ssh"))
	exitOn(e, err)

	fmt.Printf("Starting Cash Run SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh <name>@localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	exitOn(e, server.ListenAndServe(cmd.Context()))
}
