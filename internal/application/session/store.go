// Package session owns the in-memory finance state of active users. Every
// mutation for a user runs to completion under that user's lock before the
// next one starts, and each successful mutation hands a snapshot to the Saver.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/budget"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

// loadTimeout bounds a document fetch shared by concurrent callers.
const loadTimeout = 10 * time.Second

// Store keeps one FinanceState per active user.
type Store struct {
	repo    adapter.FinanceRepository
	saver   *Saver
	idleTTL time.Duration
	now     func() time.Time

	loads singleflight.Group

	mu       sync.Mutex
	sessions map[uuid.UUID]*userSession
}

type userSession struct {
	mu       sync.Mutex
	state    *entity.FinanceState
	lastUsed time.Time
}

// NewStore creates a Store. Sessions idle for longer than idleTTL are dropped
// by Start; their state is reloaded from the repository on next access.
func NewStore(repo adapter.FinanceRepository, saver *Saver, idleTTL time.Duration) *Store {
	return &Store{
		repo:     repo,
		saver:    saver,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*userSession),
	}
}

// Load returns a snapshot of the user's state, fetching and bootstrapping it
// on first access.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) (*entity.FinanceState, error) {
	sess, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()
	return sess.state.Clone(), nil
}

// Mutate runs fn on the user's state. fn works on a copy: when it returns an
// error the session keeps its previous state and nothing is saved. On success
// the copy becomes the session state, a snapshot is queued for saving and
// another is returned to the caller.
func (s *Store) Mutate(ctx context.Context, userID uuid.UUID, fn func(state *entity.FinanceState) error) (*entity.FinanceState, error) {
	sess, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()

	working := sess.state.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	sess.state = working
	s.saver.Enqueue(userID, working.Clone())
	return working.Clone(), nil
}

// Replace swaps the user's whole state for state, as received from a client,
// and queues it for saving.
func (s *Store) Replace(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) (*entity.FinanceState, error) {
	return s.Mutate(ctx, userID, func(working *entity.FinanceState) error {
		*working = *state.Clone()
		bootstrap(working)
		return nil
	})
}

// Active returns the number of users with a session in memory.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Start drops idle sessions until ctx is cancelled.
func (s *Store) Start(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				slog.Debug("Evicted idle finance sessions", "count", n)
			}
		}
	}
}

// EvictIdle drops sessions unused for longer than the idle TTL and returns
// how many were dropped. Sessions with a save still pending are kept so a
// reload cannot read an older document.
func (s *Store) EvictIdle() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle && !s.saver.IsPending(userID) {
			delete(s.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// acquire returns the user's live session with its lock held. A session
// evicted between lookup and locking is discarded and the lookup retried.
func (s *Store) acquire(ctx context.Context, userID uuid.UUID) (*userSession, error) {
	for {
		sess, err := s.session(ctx, userID)
		if err != nil {
			return nil, err
		}
		if s.lockIfCurrent(userID, sess) {
			return sess, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// lockIfCurrent locks sess and reports whether it is still the session held
// for userID. On false sess is left unlocked.
func (s *Store) lockIfCurrent(userID uuid.UUID, sess *userSession) bool {
	sess.mu.Lock()
	s.mu.Lock()
	current := s.sessions[userID] == sess
	s.mu.Unlock()
	if !current {
		sess.mu.Unlock()
	}
	return current
}

func (s *Store) session(ctx context.Context, userID uuid.UUID) (*userSession, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	v, err, _ := s.loads.Do(userID.String(), func() (any, error) {
		s.mu.Lock()
		if sess, ok := s.sessions[userID]; ok {
			s.mu.Unlock()
			return sess, nil
		}
		s.mu.Unlock()

		// Shared by every waiting caller, so one caller going away must not
		// fail the others.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		state, err := s.repo.Get(loadCtx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load finance document: %w", err)
		}
		bootstrap(state)

		sess := &userSession{state: state, lastUsed: s.now()}
		s.mu.Lock()
		s.sessions[userID] = sess
		s.mu.Unlock()
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*userSession), nil
}

// bootstrap fills in what a fresh or partial document lacks: empty arrays
// instead of null, and the four default categories at zero allocation.
func bootstrap(state *entity.FinanceState) {
	state.EnsureSlices()
	if len(state.Categories) == 0 {
		state.Categories = budget.SeedCategories(0)
	}
}
