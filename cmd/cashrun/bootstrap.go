package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/ads"
	"github.com/vovakirdan/cashrun/internal/auth"
	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/platform/tui"
	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/remote"
	"github.com/vovakirdan/cashrun/internal/storage"
	"github.com/vovakirdan/cashrun/internal/trivia"
	"github.com/vovakirdan/cashrun/internal/wallet"
)

// env is everything a command needs, built from the global flags.
type env struct {
	cfg      config.Config
	preset   config.DifficultyPreset
	logger   *log.Logger
	db       *storage.Store
	profiles *profile.Store
	auth     *auth.Service
	wallet   *wallet.Service
	ads      *ads.Watcher
	trivia   trivia.Source
	closers  []io.Closer
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cashrun",
		Level:           level,
	}), nil
}

// openLogFile opens ~/.cashrun/cashrun.log for commands that own the terminal.
func openLogFile() (*os.File, error) {
	dir := config.HomeDir()
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "cashrun.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// bootstrap loads .env and config, opens the database and wires services.
// Logs go to logOut.
func bootstrap(logOut io.Writer) (*env, error) {
	logger, err := newLogger(logOut)
	if err != nil {
		return nil, err
	}

	if err := config.LoadEnv(".env", filepath.Join(config.HomeDir(), ".env")); err != nil {
		logger.Warn("could not read .env", "error", err)
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(&cfg)

	var preset config.DifficultyPreset
	if flagDifficulty != "" {
		if preset, err = config.ParsePreset(flagDifficulty); err != nil {
			return nil, err
		}
	}

	db, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}

	var profiles *profile.Store
	if cfg.Remote.Enabled() {
		profiles = profile.NewStore(db, remote.New(cfg.Remote), cfg.Remote.QueueSize, logger)
	} else {
		profiles = profile.NewStore(db, nil, 0, logger)
	}

	e := &env{
		cfg:      cfg,
		preset:   preset,
		logger:   logger,
		db:       db,
		profiles: profiles,
		auth:     auth.NewService(db, profiles, cfg.Economy, cfg.Remote.Enabled(), logger),
		wallet:   wallet.New(profiles, db, cfg.Economy, logger),
		ads:      ads.NewWatcher(cfg.Ads, cfg.Economy, logger),
		trivia:   trivia.WithFallback(trivia.NewGeminiSource(cfg.Trivia), logger),
	}
	// Profiles first so queued syncs drain before the database closes.
	e.closers = []io.Closer{profiles, db}
	return e, nil
}

// Close releases everything bootstrap opened, in order.
func (e *env) Close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
}

// services adapts the env to the TUI bundle.
func (e *env) services() tui.Services {
	return tui.Services{
		Auth:     e.auth,
		Profiles: e.profiles,
		Wallet:   e.wallet,
		Ads:      e.ads,
		Trivia:   e.trivia,
		Config:   e.cfg,
		Preset:   e.preset,
		Logger:   e.logger,
	}
}

// currentUser returns the signed-in profile or a hint to sign in.
func (e *env) currentUser(ctx context.Context) (profile.Profile, error) {
	p, err := e.auth.Current(ctx)
	if err != nil {
		return p, fmt.Errorf("%w (run 'cashrun login' or 'cashrun register')", err)
	}
	return p, nil
}

// mustEnv runs bootstrap or exits.
func mustEnv(logOut io.Writer) *env {
	e, err := bootstrap(logOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return e
}

// exitOn prints err and exits after closing e.
func exitOn(e *env, err error) {
	if err == nil {
		return
	}
	if e != nil {
		e.Close()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
