package service

import (
	"sync"
	"time"

	"spec-summarizer/internal/domain"

	"github.com/google/uuid"
)

// MemorySessionStore keeps sessions in process memory. Sessions idle for
// longer than idleTimeout are dropped the next time the store is touched,
// together with their scratch copy.
type MemorySessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*domain.Session
	idleTimeout time.Duration
	scratch     domain.ScratchStore
	logger      domain.Logger
	now         func() time.Time
}

// NewMemorySessionStore creates a session store. scratch may be nil.
func NewMemorySessionStore(idleTimeout time.Duration, scratch domain.ScratchStore, logger domain.Logger) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:    make(map[string]*domain.Session),
		idleTimeout: idleTimeout,
		scratch:     scratch,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *MemorySessionStore) Create() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess := domain.NewSession(uuid.New().String(), s.now())
	s.sessions[sess.ID] = sess
	return sess.Clone(), nil
}

// Get returns a copy of the session; changes take effect only through Save.
func (s *MemorySessionStore) Get(id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess.LastSeen = s.now()
	return sess.Clone(), nil
}

func (s *MemorySessionStore) Save(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	saved := session.Clone()
	saved.LastSeen = s.now()
	s.sessions[session.ID] = saved
	return nil
}

func (s *MemorySessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.removeScratch(id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) evictLocked() {
	if s.idleTimeout <= 0 {
		return
	}
	cutoff := s.now().Add(-s.idleTimeout)
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			s.removeScratch(id)
			s.logger.Debug("Session expired", "session_id", id)
		}
	}
}

func (s *MemorySessionStore) removeScratch(id string) {
	if s.scratch == nil {
		return
	}
	if err := s.scratch.Remove(id); err != nil {
		s.logger.Warn("Failed to remove scratch file", "session_id", id, "error", err)
	}
}
