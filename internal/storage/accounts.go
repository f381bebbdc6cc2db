package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/cashrun/internal/money"
)

// Account holds login credentials.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
}

// Profile is the per-user economy document.
type Profile struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Balance      money.Amount `json:"balance"`
	TotalCoins   int          `json:"totalCoins"`
	HighScore    int          `json:"highScore"`
	ReferralCode string       `json:"referralCode"`
	ReferredBy   string       `json:"referredBy,omitempty"`
}

// CreateAccount inserts the account and its profile in one transaction.
func (s *Store) CreateAccount(ctx context.Context, a Account, p Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE email = ?", a.Email).Scan(&exists)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("storage: cannot check email: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO accounts (id, email, password_hash) VALUES (?, ?, ?)",
		a.ID, a.Email, a.PasswordHash,
	); err != nil {
		return fmt.Errorf("storage: cannot create account: %w", err)
	}
	if err := upsertProfile(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit account: %w", err)
	}
	return nil
}

// AccountByEmail looks up credentials by email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM accounts WHERE email = ?", email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("storage: cannot query account: %w", err)
	}
	return a, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const profileColumns = `id, email, name, balance, total_coins, high_score, referral_code, referred_by`

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	var balance int64
	err := row.Scan(&p.ID, &p.Email, &p.Name, &balance, &p.TotalCoins, &p.HighScore, &p.ReferralCode, &p.ReferredBy)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("storage: cannot scan profile: %w", err)
	}
	p.Balance = money.Amount(balance)
	return p, nil
}

func upsertProfile(ctx context.Context, q querier, p Profile) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			balance = excluded.balance,
			total_coins = excluded.total_coins,
			high_score = excluded.high_score,
			referral_code = excluded.referral_code,
			referred_by = excluded.referred_by,
			updated_at = CURRENT_TIMESTAMP`,
		p.ID, p.Email, p.Name, int64(p.Balance), p.TotalCoins, p.HighScore, p.ReferralCode, p.ReferredBy,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save profile: %w", err)
	}
	return nil
}

// Profile returns the profile with the given id.
func (s *Store) Profile(ctx context.Context, id string) (Profile, error) {
	return scanProfile(s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ?", id))
}

// ProfileByReferralCode returns the profile owning a referral code.
func (s *Store) ProfileByReferralCode(ctx context.Context, code string) (Profile, error) {
	return scanProfile(s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE referral_code = ?", code))
}

// SaveProfile inserts or replaces a profile.
func (s *Store) SaveProfile(ctx context.Context, p Profile) error {
	return upsertProfile(ctx, s.db, p)
}

// UpdateProfile reads a profile, applies fn and writes the result in one
// transaction. If fn returns an error nothing is written.
func (s *Store) UpdateProfile(ctx context.Context, id string, fn func(*Profile) error) (Profile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := scanProfile(tx.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ?", id))
	if err != nil {
		return Profile{}, err
	}
	if err := fn(&p); err != nil {
		return Profile{}, err
	}
	p.ID = id
	if err := upsertProfile(ctx, tx, p); err != nil {
		return Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return Profile{}, fmt.Errorf("storage: cannot commit profile: %w", err)
	}
	return p, nil
}

// SetSession records the logged-in user, replacing any previous one.
func (s *Store) SetSession(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (slot, user_id) VALUES (1, ?)
		 ON CONFLICT(slot) DO UPDATE SET user_id = excluded.user_id, created_at = CURRENT_TIMESTAMP`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save session: %w", err)
	}
	return nil
}

// Session returns the logged-in user id, or ErrNotFound.
func (s *Store) Session(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM session WHERE slot = 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage: cannot query session: %w", err)
	}
	return id, nil
}

// ClearSession logs the current user out.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("storage: cannot clear session: %w", err)
	}
	return nil
}
