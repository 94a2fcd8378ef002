// Package session provides the keyed session store backing the
// disambiguation protocol.
package session

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"hermes/internal/domain"
)

// Service is the session collaborator contract: a keyed store with
// serialized per-ID mutation.
type Service interface {
	// Create allocates a new session and returns its ID.
	Create(ctx context.Context) (string, error)
	// Get returns a copy of the session, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Update runs fn on the session under the session's per-ID lock.
	// Mutations by fn are committed when fn returns nil; an error from
	// fn discards them and is returned.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) error
	// Delete removes the session. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process Service. Distinct session IDs never block
// one another; operations on one ID are serialized by a per-key lock.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	locks    *locker
	maxIdle  time.Duration
	logger   *slog.Logger

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// DefaultMaxIdle is how long a session may sit untouched before the
// reaper times it out.
const DefaultMaxIdle = 30 * time.Minute

// NewMemoryStore creates an empty store. maxIdle <= 0 uses DefaultMaxIdle;
// a nil logger discards output.
func NewMemoryStore(maxIdle time.Duration, logger *slog.Logger) *MemoryStore {
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		locks:    newLocker(),
		maxIdle:  maxIdle,
		logger:   logger,
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (m *MemoryStore) newID(t time.Time) string {
	m.entropyMu.Lock()
	defer m.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), m.entropy).String()
}

func (m *MemoryStore) Create(_ context.Context) (string, error) {
	s := domain.NewSession(m.newID(time.Now()))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session_id", s.ID)
	return s.ID, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	// Clone while still holding the read lock: Update commits a new
	// snapshot under the write lock, so stored sessions must never be
	// read outside m.mu.
	m.mu.RLock()
	s, ok := m.sessions[id]
	var cp *domain.Session
	if ok {
		cp = s.Clone()
	}
	m.mu.RUnlock()
	if !ok {
		return nil, domain.NewDomainError("MemoryStore.Get", domain.ErrSessionNotFound, id)
	}
	return cp, nil
}

// Update runs fn on a clone of the session and commits the clone on
// success. The per-ID lock serializes the whole read-modify-write cycle,
// so concurrent updates on one ID never lose increments; readers keep
// seeing the previous snapshot until the commit.
func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*domain.Session) error) error {
	release, err := m.locks.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer release()

	m.mu.RLock()
	s, ok := m.sessions[id]
	if ok {
		s = s.Clone()
	}
	m.mu.RUnlock()
	if !ok {
		return domain.NewDomainError("MemoryStore.Update", domain.ErrSessionNotFound, id)
	}

	if err := fn(s); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()

	m.mu.Lock()
	// A concurrent Delete or Reap may have removed the session; do not
	// resurrect it.
	if _, ok := m.sessions[id]; ok {
		m.sessions[id] = s
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Reap times out and removes sessions idle past maxIdle, returning how
// many were removed. Terminal sessions past the idle window are removed
// as well; open ones transition to TIMED_OUT first.
func (m *MemoryStore) Reap() int {
	cutoff := time.Now().Add(-m.maxIdle)

	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	for _, id := range stale {
		if s, ok := m.sessions[id]; ok {
			if !s.Status.Terminal() {
				s.MarkTimedOut()
			}
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	m.logger.Info("stale sessions reaped", "count", len(stale))
	return len(stale)
}
