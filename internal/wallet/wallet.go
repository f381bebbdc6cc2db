// Package wallet implements the coin exchange, withdrawals and run rewards.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/config"
	"github.com/vovakirdan/cashrun/internal/games/runner"
	"github.com/vovakirdan/cashrun/internal/money"
	"github.com/vovakirdan/cashrun/internal/profile"
	"github.com/vovakirdan/cashrun/internal/storage"
)

var (
	ErrInsufficientCoins = errors.New("wallet: not enough coins")
	ErrInvalidAmount     = errors.New("wallet: amount must be positive")
	ErrBelowMinimum      = errors.New("wallet: balance below withdrawal minimum")
	ErrInvalidMethod     = errors.New("wallet: unknown payment method")
	ErrMissingNumber     = errors.New("wallet: account number required")
)

// Method is a mobile payment provider.
type Method string

const (
	BKash Method = "bKash"
	Nagad Method = "Nagad"
)

// Methods lists the supported providers in display order.
var Methods = []Method{BKash, Nagad}

// ParseMethod matches a provider name case-insensitively.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want bKash or Nagad)", ErrInvalidMethod, s)
}

// Service applies economy rules to profiles.
type Service struct {
	profiles *profile.Store
	db       *storage.Store
	econ     config.EconomyConfig
	logger   *log.Logger
}

// New creates a wallet service.
func New(profiles *profile.Store, db *storage.Store, econ config.EconomyConfig, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{profiles: profiles, db: db, econ: econ, logger: logger}
}

// Profile returns the current profile.
func (s *Service) Profile(ctx context.Context, id string) (profile.Profile, error) {
	return s.profiles.Get(ctx, id)
}

// Quote returns the cash value of coins.
func (s *Service) Quote(coins int) money.Amount {
	return money.Amount(int64(coins) * s.econ.CoinValue)
}

// MinExchangeCoins is the smallest inventory the wallet screen converts.
func (s *Service) MinExchangeCoins() int {
	return s.econ.MinExchangeCoins
}

// MinWithdrawal is the smallest balance that can be cashed out.
func (s *Service) MinWithdrawal() money.Amount {
	return money.Amount(s.econ.MinWithdrawal)
}

// Exchange converts coins into balance. On failure it returns 0 and leaves
// the profile unchanged.
func (s *Service) Exchange(ctx context.Context, id string, coins int) (money.Amount, error) {
	if coins <= 0 {
		return 0, ErrInvalidAmount
	}
	credit := s.Quote(coins)
	_, err := s.profiles.Modify(ctx, id, func(p *profile.Profile) error {
		if p.TotalCoins < coins {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientCoins, p.TotalCoins, coins)
		}
		p.TotalCoins -= coins
		p.Balance += credit
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("coins exchanged", "id", id, "coins", coins, "credit", credit.String())
	return credit, nil
}

// ExchangeAll converts the whole inventory, which must hold at least the
// minimum exchange amount. It returns the coins converted and the credit.
func (s *Service) ExchangeAll(ctx context.Context, id string) (int, money.Amount, error) {
	p, err := s.profiles.Get(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	if p.TotalCoins < s.econ.MinExchangeCoins {
		return 0, 0, fmt.Errorf("%w: minimum %d coins to exchange", ErrInsufficientCoins, s.econ.MinExchangeCoins)
	}
	credit, err := s.Exchange(ctx, id, p.TotalCoins)
	if err != nil {
		return 0, 0, err
	}
	return p.TotalCoins, credit, nil
}

// Withdraw cashes out the full balance to a mobile account and records the
// request. The balance must be at least the minimum.
func (s *Service) Withdraw(ctx context.Context, id string, method Method, number string) (storage.Withdrawal, error) {
	if method != BKash && method != Nagad {
		return storage.Withdrawal{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return storage.Withdrawal{}, ErrMissingNumber
	}

	var amount money.Amount
	_, err := s.profiles.Modify(ctx, id, func(p *profile.Profile) error {
		if p.Balance < s.MinWithdrawal() {
			return fmt.Errorf("%w: have %s, need %s", ErrBelowMinimum, p.Balance, s.MinWithdrawal())
		}
		amount = p.Balance
		p.Balance = 0
		return nil
	})
	if err != nil {
		return storage.Withdrawal{}, err
	}

	w := storage.Withdrawal{UserID: id, Method: string(method), Number: number, Amount: amount, Status: "pending"}
	w.ID, err = s.db.SaveWithdrawal(ctx, w)
	if err != nil {
		if _, rerr := s.profiles.ApplyDelta(ctx, id, profile.Delta{Balance: amount}); rerr != nil {
			s.logger.Error("withdrawal refund failed", "id", id, "amount", amount.String(), "err", rerr)
		}
		return storage.Withdrawal{}, err
	}
	s.logger.Info("withdrawal requested", "id", id, "method", method, "amount", amount.String())
	return w, nil
}

// AddBalance credits cash to the profile.
func (s *Service) AddBalance(ctx context.Context, id string, amount money.Amount) (profile.Profile, error) {
	if amount <= 0 {
		return profile.Profile{}, ErrInvalidAmount
	}
	return s.profiles.ApplyDelta(ctx, id, profile.Delta{Balance: amount})
}

// CreditCoins adds coins to the inventory, used by ad rewards.
func (s *Service) CreditCoins(ctx context.Context, id string, coins int) (profile.Profile, error) {
	if coins <= 0 {
		return profile.Profile{}, ErrInvalidAmount
	}
	return s.profiles.ApplyDelta(ctx, id, profile.Delta{Coins: coins})
}

// SaveRun forwards a finished run: adds its coins, raises the high score
// and records it in history.
func (s *Service) SaveRun(ctx context.Context, id string, r runner.RunResult) (profile.Profile, error) {
	score := int(math.Floor(r.Score))
	p, err := s.profiles.ApplyDelta(ctx, id, profile.Delta{Coins: r.Coins, HighScore: score})
	if err != nil {
		return p, err
	}
	if _, err := s.db.SaveRun(ctx, storage.RunEntry{UserID: id, Score: score, Coins: r.Coins, Revives: r.Revives}); err != nil {
		return p, err
	}
	return p, nil
}

// History returns the user's most recent runs.
func (s *Service) History(ctx context.Context, id string, limit int) ([]storage.RunEntry, error) {
	return s.db.RecentRuns(ctx, id, limit)
}

// Stats returns aggregated run statistics.
func (s *Service) Stats(ctx context.Context, id string) (*storage.RunStats, error) {
	return s.db.GetRunStats(ctx, id)
}

// Withdrawals returns the user's withdrawal requests.
func (s *Service) Withdrawals(ctx context.Context, id string, limit int) ([]storage.Withdrawal, error) {
	return s.db.Withdrawals(ctx, id, limit)
}
