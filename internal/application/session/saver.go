package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nivi-finance/backend/internal/application/adapter"
	"github.com/nivi-finance/backend/internal/domain/entity"
)

const saveLockPrefix = "finance:save:"

// SaverConfig holds configuration for the background saver.
type SaverConfig struct {
	// Timeout bounds a single write to the repository.
	Timeout time.Duration
	// LockTTL is how long the cross-instance save lock is held at most.
	LockTTL time.Duration
}

// DefaultSaverConfig returns the default saver configuration.
func DefaultSaverConfig() SaverConfig {
	return SaverConfig{
		Timeout: 5 * time.Second,
		LockTTL: 10 * time.Second,
	}
}

// Saver writes finance documents in the background. Snapshots are coalesced
// per user: if several arrive before the worker gets to a user, only the
// newest is written. Enqueue never blocks and write failures are logged and
// dropped; the next snapshot of the same user is the retry.
type Saver struct {
	repo   adapter.FinanceRepository
	locker adapter.SaveLocker
	config SaverConfig

	mu      sync.Mutex
	pending map[uuid.UUID]*entity.FinanceState
	order   []uuid.UUID
	writing map[uuid.UUID]bool
	wake    chan struct{}
	done    chan struct{}
}

// NewSaver creates a saver. locker may be nil, in which case writes are not
// serialized across instances.
func NewSaver(repo adapter.FinanceRepository, locker adapter.SaveLocker, config SaverConfig) *Saver {
	return &Saver{
		repo:    repo,
		locker:  locker,
		config:  config,
		pending: make(map[uuid.UUID]*entity.FinanceState),
		writing: make(map[uuid.UUID]bool),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Enqueue schedules state to be written for userID. The saver takes
// ownership of state; callers must hand over a copy they no longer touch.
func (s *Saver) Enqueue(userID uuid.UUID, state *entity.FinanceState) {
	s.mu.Lock()
	if _, queued := s.pending[userID]; !queued {
		s.order = append(s.order, userID)
	}
	s.pending[userID] = state
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of users waiting to be written.
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// IsPending reports whether a snapshot of userID is waiting to be written
// or being written.
func (s *Saver) IsPending(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	return ok || s.writing[userID]
}

// Start runs the worker loop until ctx is cancelled, then writes whatever is
// still pending before returning.
func (s *Saver) Start(ctx context.Context) {
	defer close(s.done)
	slog.Info("Finance saver started", "timeout", s.config.Timeout)

	for {
		select {
		case <-ctx.Done():
			s.Flush(context.Background())
			slog.Info("Finance saver shutting down")
			return
		case <-s.wake:
			s.Flush(ctx)
		}
	}
}

// Done is closed once Start has returned.
func (s *Saver) Done() <-chan struct{} {
	return s.done
}

// Flush writes every pending snapshot now.
func (s *Saver) Flush(ctx context.Context) {
	for {
		userID, state, ok := s.next()
		if !ok {
			return
		}
		s.save(ctx, userID, state)

		s.mu.Lock()
		delete(s.writing, userID)
		s.mu.Unlock()
	}
}

func (s *Saver) next() (uuid.UUID, *entity.FinanceState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return uuid.Nil, nil, false
	}
	userID := s.order[0]
	s.order = s.order[1:]
	state := s.pending[userID]
	delete(s.pending, userID)
	s.writing[userID] = true
	return userID, state, true
}

func (s *Saver) save(ctx context.Context, userID uuid.UUID, state *entity.FinanceState) {
	logger := slog.With("user_id", userID)

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, saveLockPrefix+userID.String(), s.config.LockTTL)
		if err != nil {
			logger.Warn("Save lock not obtained, writing without it", "error", err)
		} else {
			defer func() {
				if err := release(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
					logger.Debug("Failed to release save lock", "error", err)
				}
			}()
		}
	}

	start := time.Now()
	if err := s.repo.Put(ctx, userID, state); err != nil {
		logger.Error("Failed to save finance document", "error", err)
		return
	}
	logger.Debug("Finance document saved", "duration", time.Since(start))
}
