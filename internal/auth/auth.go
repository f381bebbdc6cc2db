// Package auth handles registration, login and the persisted session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/money"
	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/storage"
)

// ErrAuthFailure is the parent of every auth error.
var ErrAuthFailure = errors.New("auth: authentication failed")

// Specific failures. All match ErrAuthFailure with errors.Is.
var (
	ErrEmailTaken   = fmt.Errorf("%w: email already registered", ErrAuthFailure)
	ErrInvalidEmail = fmt.Errorf("%w: invalid email", ErrAuthFailure)
	ErrNameRequired = fmt.Errorf("%w: name is required", ErrAuthFailure)
	ErrWeakPassword = fmt.Errorf("%w: password must be at least %d characters", ErrAuthFailure, MinPasswordLen)
	ErrNotLoggedIn  = fmt.Errorf("%w: not logged in", ErrAuthFailure)
	errBadLogin     = fmt.Errorf("%w: invalid email or password", ErrAuthFailure)
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// sshDomain is the email domain of accounts provisioned for SSH users.
const sshDomain = "ssh.cashrun"

// Service implements the auth operations over the SQLite store.
type Service struct {
	db       *storage.Store
	profiles *profile.Store
	bonus    money.Amount
	local    bool // No remote store: ids get the local prefix
	cost     int
	logger   *log.Logger
}

// NewService creates an auth service. remoteEnabled controls whether new
// ids are synced or local-only.
func NewService(db *storage.Store, profiles *profile.Store, econ config.EconomyConfig, remoteEnabled bool, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		db:       db,
		profiles: profiles,
		bonus:    money.Amount(econ.ReferralBonus),
		local:    !remoteEnabled,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

func (s *Service) newUserID() string {
	id := uuid.NewString()
	if s.local {
		return profile.LocalPrefix + id
	}
	return id
}

// NewReferralCode returns an 8 character uppercase code.
func NewReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account, applies a valid referral code and logs the
// new user in. Unknown referral codes are ignored.
func (s *Service) Register(ctx context.Context, email, password, name, referral string) (profile.Profile, error) {
	p, err := s.create(ctx, email, password, name, referral)
	if err != nil {
		return p, err
	}
	if err := s.db.SetSession(ctx, p.ID); err != nil {
		return p, fmt.Errorf("auth: cannot start session: %w", err)
	}
	return p, nil
}

func (s *Service) create(ctx context.Context, email, password, name, referral string) (profile.Profile, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	switch {
	case !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@"):
		return profile.Profile{}, ErrInvalidEmail
	case name == "":
		return profile.Profile{}, ErrNameRequired
	case len(password) < MinPasswordLen:
		return profile.Profile{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("auth: cannot hash password: %w", err)
	}

	p := profile.Profile{
		ID:           s.newUserID(),
		Email:        email,
		Name:         name,
		ReferralCode: NewReferralCode(),
	}

	var referrer profile.Profile
	code := strings.ToUpper(strings.TrimSpace(referral))
	if code != "" {
		r, err := s.db.ProfileByReferralCode(ctx, code)
		switch {
		case err == nil:
			referrer = r
			p.Balance = s.bonus
			p.ReferredBy = code
		case errors.Is(err, storage.ErrNotFound):
			s.logger.Info("ignoring unknown referral code", "code", code)
		default:
			return profile.Profile{}, fmt.Errorf("auth: cannot check referral: %w", err)
		}
	}

	acc := storage.Account{ID: p.ID, Email: email, PasswordHash: string(hash)}
	if err := s.db.CreateAccount(ctx, acc, p); err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			return profile.Profile{}, ErrEmailTaken
		}
		return profile.Profile{}, fmt.Errorf("auth: cannot create account: %w", err)
	}
	s.profiles.Publish(p)
	s.logger.Info("account created", "id", p.ID, "referred", referrer.ID != "")

	if referrer.ID != "" {
		if _, err := s.profiles.ApplyDelta(ctx, referrer.ID, profile.Delta{Balance: s.bonus}); err != nil {
			s.logger.Warn("referral bonus failed", "referrer", referrer.ID, "err", err)
		}
	}
	return p, nil
}

// Login checks credentials, refreshes the profile from the remote store and
// persists the session.
func (s *Service) Login(ctx context.Context, email, password string) (profile.Profile, error) {
	acc, err := s.db.AccountByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return profile.Profile{}, errBadLogin
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("auth: cannot look up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return profile.Profile{}, errBadLogin
	}

	p, err := s.profiles.Refresh(ctx, acc.ID)
	if err != nil {
		return p, err
	}
	if err := s.db.SetSession(ctx, p.ID); err != nil {
		return p, fmt.Errorf("auth: cannot start session: %w", err)
	}
	return p, nil
}

// Logout ends the persisted session.
func (s *Service) Logout(ctx context.Context) error {
	return s.db.ClearSession(ctx)
}

// Current returns the logged-in profile.
func (s *Service) Current(ctx context.Context) (profile.Profile, error) {
	id, err := s.db.Session(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return profile.Profile{}, ErrNotLoggedIn
	}
	if err != nil {
		return profile.Profile{}, err
	}
	p, err := s.profiles.Refresh(ctx, id)
	if errors.Is(err, profile.ErrNotFound) {
		// Stale session for a deleted profile.
		_ = s.db.ClearSession(ctx)
		return profile.Profile{}, ErrNotLoggedIn
	}
	return p, err
}

// Provision returns the profile for an SSH username, creating the account on
// first connect. SSH accounts have no usable password and do not touch the
// local session.
func (s *Service) Provision(ctx context.Context, username string) (profile.Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		username = "guest"
	}
	email := username + "@" + sshDomain

	acc, err := s.db.AccountByEmail(ctx, email)
	if err == nil {
		return s.profiles.Get(ctx, acc.ID)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return profile.Profile{}, fmt.Errorf("auth: cannot look up account: %w", err)
	}

	p, err := s.create(ctx, email, uuid.NewString(), username, "")
	if errors.Is(err, ErrEmailTaken) {
		// Lost a race with another session of the same user.
		acc, err := s.db.AccountByEmail(ctx, email)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("auth: cannot look up account: %w", err)
		}
		return s.profiles.Get(ctx, acc.ID)
	}
	return p, err
}
