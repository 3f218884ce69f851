package session

import (
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore keeps sessions in process memory. Everything is lost on restart.
// Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu            sync.Mutex
	ttls          TTLs
	now           func() time.Time
	registrations map[int64]entry[Registration]
	chats         map[int64]entry[int64]
}

func NewMemoryStore(ttls TTLs) *MemoryStore {
	return &MemoryStore{
		ttls:          ttls,
		now:           time.Now,
		registrations: make(map[int64]entry[Registration]),
		chats:         make(map[int64]entry[int64]),
	}
}

func (s *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *MemoryStore) GetRegistration(_ context.Context, userID int64) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.registrations[userID]
	if !ok {
		return nil, nil
	}
	if e.expired(s.now()) {
		delete(s.registrations, userID)
		return nil, nil
	}
	reg := e.value
	return &reg, nil
}

func (s *MemoryStore) SaveRegistration(_ context.Context, reg *Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registrations[reg.UserID] = entry[Registration]{value: *reg, expiresAt: s.deadline(s.ttls.Registration)}
	return nil
}

func (s *MemoryStore) DeleteRegistration(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.registrations, userID)
	return nil
}

func (s *MemoryStore) GetChat(_ context.Context, userID int64) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.chats[userID]
	if !ok {
		return 0, false, nil
	}
	if e.expired(s.now()) {
		delete(s.chats, userID)
		return 0, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) SetChat(_ context.Context, userID, targetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chats[userID] = entry[int64]{value: targetID, expiresAt: s.deadline(s.ttls.Chat)}
	return nil
}

func (s *MemoryStore) DeleteChat(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.chats[userID]
	delete(s.chats, userID)
	return ok && !e.expired(s.now()), nil
}
