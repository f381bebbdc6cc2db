// Package profile is the profile store collaborator of the runner. Changes
// are written to SQLite first and then synced to the remote document store
// in the background on a best-effort basis.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cashrun/internal/money"
	"github.com/vovakirdan/cashrun/internal/storage"
)

// LocalPrefix marks profiles that only live on this machine.
const LocalPrefix = "local_"

// ErrNotFound is returned for unknown profile ids.
var ErrNotFound = errors.New("profile: not found")

// Profile is the per-user economy document.
type Profile = storage.Profile

// Delta is an additive change to a profile. HighScore is a candidate, kept
// only when it beats the stored one.
type Delta struct {
	Balance   money.Amount
	Coins     int
	HighScore int
}

// Remote receives profile snapshots after each change.
type Remote interface {
	PushProfile(ctx context.Context, p Profile) error
}

// Fetcher is a Remote that can also read documents back.
type Fetcher interface {
	FetchProfile(ctx context.Context, id string) (Profile, error)
}

// Store serializes profile read-modify-write cycles and feeds the syncer.
type Store struct {
	db     *storage.Store
	remote Remote
	logger *log.Logger

	pushTimeout time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan Profile
	done   chan struct{}
}

// NewStore creates a profile store. A nil remote disables syncing.
func NewStore(db *storage.Store, remote Remote, queueSize int, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	s := &Store{
		db:          db,
		remote:      remote,
		logger:      logger,
		pushTimeout: 5 * time.Second,
		done:        make(chan struct{}),
	}
	if remote == nil {
		close(s.done)
		return s
	}
	s.queue = make(chan Profile, queueSize)
	go s.syncLoop()
	return s
}

// Get returns the profile with the given id.
func (s *Store) Get(ctx context.Context, id string) (Profile, error) {
	p, err := s.db.Profile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return p, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

// Refresh pulls the remote document into the local row when the remote can
// be read, and returns the result. The remote owns the name and the economy
// fields. Local-only profiles and failed fetches keep the local copy.
func (s *Store) Refresh(ctx context.Context, id string) (Profile, error) {
	f, ok := s.remote.(Fetcher)
	if !ok || strings.HasPrefix(id, LocalPrefix) {
		return s.Get(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}

	fctx, cancel := context.WithTimeout(ctx, s.pushTimeout)
	r, err := f.FetchProfile(fctx, id)
	cancel()
	if err != nil {
		s.logger.Warn("remote profile unavailable, keeping local copy", "id", id, "err", err)
		return p, nil
	}

	if r.Name != "" {
		p.Name = r.Name
	}
	p.Balance = r.Balance
	p.TotalCoins = r.TotalCoins
	p.HighScore = r.HighScore
	if r.ReferredBy != "" {
		p.ReferredBy = r.ReferredBy
	}
	if err := s.db.SaveProfile(ctx, p); err != nil {
		return p, err
	}
	s.logger.Debug("profile refreshed from remote", "id", id)
	return p, nil
}

// Modify applies fn to the stored profile under the store lock. If fn fails
// nothing is written or synced.
func (s *Store) Modify(ctx context.Context, id string, fn func(*Profile) error) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.db.UpdateProfile(ctx, id, fn)
	if errors.Is(err, storage.ErrNotFound) {
		return p, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return p, err
	}
	s.enqueueLocked(p)
	return p, nil
}

// ApplyDelta adds d to the profile.
func (s *Store) ApplyDelta(ctx context.Context, id string, d Delta) (Profile, error) {
	return s.Modify(ctx, id, func(p *Profile) error {
		p.Balance += d.Balance
		p.TotalCoins += d.Coins
		if d.HighScore > p.HighScore {
			p.HighScore = d.HighScore
		}
		return nil
	})
}

// Publish queues an externally created profile for sync.
func (s *Store) Publish(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueueLocked(p)
}

func (s *Store) enqueueLocked(p Profile) {
	if s.queue == nil || s.closed || strings.HasPrefix(p.ID, LocalPrefix) {
		return
	}
	select {
	case s.queue <- p:
	default:
		s.logger.Warn("profile sync queue full, dropping update", "id", p.ID)
	}
}

func (s *Store) syncLoop() {
	defer close(s.done)
	for p := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
		err := s.remote.PushProfile(ctx, p)
		cancel()
		if err != nil {
			s.logger.Warn("profile sync failed", "id", p.ID, "err", err)
			continue
		}
		s.logger.Debug("profile synced", "id", p.ID)
	}
}

// Close drains pending syncs and stops the syncer. The database is left open.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if s.queue != nil {
			close(s.queue)
		}
	}
	s.mu.Unlock()
	<-s.done
	return nil
}
