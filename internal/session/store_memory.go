package session

import (
	"context"
	"sync"
	"time"

	"visitor-registration/internal/models"
)

type memoryEntry struct {
	identity *models.EmployeeIdentity
	draft    *models.WizardState
	pass     *models.Pass
	busy     map[string]bool
	session  models.Session
}

// MemoryStore is an in-process Store for single-instance deployments and tests.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryEntry
	swept    time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryEntry),
	}
}

// entry returns the live entry for sessionID, creating it when create is set,
// and slides its expiry. Callers hold mu.
func (s *MemoryStore) entry(sessionID string, create bool) *memoryEntry {
	now := s.now()
	e, ok := s.sessions[sessionID]
	if ok && e.session.IsExpired(now) {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		s.sweep(now)
		e = &memoryEntry{
			busy:    make(map[string]bool),
			session: models.NewSession(sessionID, now, s.ttl),
		}
		s.sessions[sessionID] = e
	}
	e.session.Touch(now, s.ttl)
	return e
}

// sweep drops every expired session, at most once per ttl. Callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.swept) < s.ttl {
		return
	}
	s.swept = now
	for id, e := range s.sessions {
		if e.session.IsExpired(now) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) SaveIdentity(_ context.Context, sessionID string, identity *models.EmployeeIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *identity
	s.entry(sessionID, true).identity = &copied
	return nil
}

func (s *MemoryStore) LoadIdentity(_ context.Context, sessionID string) (*models.EmployeeIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, false)
	if e == nil || e.identity == nil {
		return nil, nil
	}
	copied := *e.identity
	return &copied, nil
}

func (s *MemoryStore) SaveDraft(_ context.Context, sessionID string, draft *models.WizardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(sessionID, true).draft = draft.Clone()
	return nil
}

func (s *MemoryStore) LoadDraft(_ context.Context, sessionID string) (*models.WizardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, false)
	if e == nil || e.draft == nil {
		return nil, nil
	}
	return e.draft.Clone(), nil
}

func (s *MemoryStore) SavePass(_ context.Context, sessionID string, pass *models.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *pass
	s.entry(sessionID, true).pass = &copied
	return nil
}

func (s *MemoryStore) LoadPass(_ context.Context, sessionID string) (*models.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, false)
	if e == nil || e.pass == nil {
		return nil, nil
	}
	copied := *e.pass
	return &copied, nil
}

func (s *MemoryStore) Acquire(_ context.Context, sessionID, gate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, true)
	if e.busy[gate] {
		return false, nil
	}
	e.busy[gate] = true
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, sessionID, gate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.entry(sessionID, false); e != nil {
		delete(e.busy, gate)
	}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.entry(sessionID, false); e != nil {
		e.draft = nil
		e.pass = nil
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
