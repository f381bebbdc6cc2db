package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/core"
	"github.com/vovakirdan/cashrun/internal/platform/tui"
)

var flagWatch bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Cash Run",
	Long: `Open the main menu and play. Logs are written to ~/.cashrun/cashrun.log.

Controls:
  Left/Right, A/D  - Change lane
  Enter            - Start the run
  P                - Pause
  V                - Watch an ad to revive (after game over)
  R                - Back to the start screen (after game over)
  Esc              - Back to the menu (paused or game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - base speed 4
  normal - base speed 6
  hard   - base speed 8
  fixed  - no speed ramp

Examples:
  cashrun play
  cashrun play --difficulty hard
  cashrun play --config ./cashrun.yaml --watch`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the config file when it changes")
}

func runPlay(cmd *cobra.Command, _ []string) {
	logFile, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	e := mustEnv(logFile)
	defer e.Close()

	ctx := cmd.Context()
	user, err := e.currentUser(ctx)
	exitOn(e, err)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	svc := e.services()
	if flagWatch {
		path := config.ResolvePath(flagConfig)
		if path == "" {
			fmt.Fprintln(os.Stderr, "Warning: no config file to watch, using built-in defaults")
		} else {
			w, werr := config.NewWatcher(path)
			exitOn(e, werr)
			defer w.Close()
			svc.ConfigUpdates = forwardReloads(e, w)
			e.logger.Info("watching config", "path", path)
		}
	}

	e.logger.Info("session started", "id", user.ID, "fps", rt.TickRate)
	app, err := tui.Run(ctx, svc, user, rt)
	exitOn(e, err)

	if app.LoggedOut() {
		fmt.Println("Signed out.")
		return
	}
	final := app.User()
	fmt.Printf("Balance %s  Coins %d  Best %d\n", final.Balance, final.TotalCoins, final.HighScore)
}

// forwardReloads re-applies environment secrets to reloaded configs and
// logs watcher errors.
func forwardReloads(e *env, w *config.Watcher) <-chan config.Config {
	out := make(chan config.Config)
	go func() {
		defer close(out)
		for {
			select {
			case cfg, ok := <-w.Updates:
				if !ok {
					return
				}
				config.ApplyEnv(&cfg)
				out <- cfg
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				e.logger.Warn("config reload failed", "error", err)
			}
		}
	}()
	return out
}
