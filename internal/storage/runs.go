package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/cashrun/internal/money"
)

// RunEntry is one finished run.
type RunEntry struct {
	ID        int64
	UserID    string
	Score     int
	Coins     int
	Revives   int
	CreatedAt time.Time
}

// RunStats contains aggregated statistics for a user's runs.
type RunStats struct {
	UserID     string
	RunsCount  int
	BestScore  int
	AvgScore   float64
	TotalCoins int64
	LastPlayed time.Time
}

// Withdrawal is a cash-out request.
type Withdrawal struct {
	ID        int64
	UserID    string
	Method    string
	Number    string
	Amount    money.Amount
	Status    string
	CreatedAt time.Time
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(ctx context.Context, r RunEntry) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (user_id, score, coins, revives) VALUES (?, ?, ?, ?)",
		r.UserID, r.Score, r.Coins, r.Revives,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the user's latest runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, userID string, limit int) ([]RunEntry, error) {
	return s.queryRuns(ctx,
		`SELECT id, user_id, score, coins, revives, created_at
		 FROM runs WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, userID, limit)
}

// TopRuns retrieves the user's best runs by score.
func (s *Store) TopRuns(ctx context.Context, userID string, limit int) ([]RunEntry, error) {
	return s.queryRuns(ctx,
		`SELECT id, user_id, score, coins, revives, created_at
		 FROM runs WHERE user_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`, userID, limit)
}

func (s *Store) queryRuns(ctx context.Context, query, userID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.UserID, &e.Score, &e.Coins, &e.Revives, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = scanTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// GetRunStats retrieves aggregated statistics for a user's runs.
func (s *Store) GetRunStats(ctx context.Context, userID string) (*RunStats, error) {
	stats := &RunStats{UserID: userID}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(coins), 0)
		 FROM runs WHERE user_id = ?`,
		userID,
	).Scan(&stats.RunsCount, &stats.BestScore, &stats.AvgScore, &stats.TotalCoins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM runs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = scanTime(lastPlayed)
	}

	return stats, nil
}

// SaveWithdrawal records a withdrawal request. Returns the ID of the inserted record.
func (s *Store) SaveWithdrawal(ctx context.Context, w Withdrawal) (int64, error) {
	status := w.Status
	if status == "" {
		status = "pending"
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO withdrawals (user_id, method, number, amount, status) VALUES (?, ?, ?, ?, ?)",
		w.UserID, w.Method, w.Number, int64(w.Amount), status,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save withdrawal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Withdrawals lists a user's withdrawal requests, newest first.
func (s *Store) Withdrawals(ctx context.Context, userID string, limit int) ([]Withdrawal, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, method, number, amount, status, created_at
		 FROM withdrawals WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query withdrawals: %w", err)
	}
	defer rows.Close()

	var results []Withdrawal
	for rows.Next() {
		var w Withdrawal
		var amount int64
		var createdAt any
		if err := rows.Scan(&w.ID, &w.UserID, &w.Method, &w.Number, &amount, &w.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		w.Amount = money.Amount(amount)
		w.CreatedAt = scanTime(createdAt)
		results = append(results, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}
