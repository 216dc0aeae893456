package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/reipand/TripGo-sub000/internal/shared/constants"
	"github.com/reipand/TripGo-sub000/pkg/cache"
)

// SessionStore persists booking session snapshots between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// redisSessionStore keeps sessions as JSON blobs in Redis so any instance can
// serve any request. The TTL renews on every save, mirroring the session's
// idle expiry.
type redisSessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewRedisSessionStore(cacheService cache.Service, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = constants.TTL_BOOKING_SESSION
	}
	return &redisSessionStore{cache: cacheService, ttl: ttl}
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	err := s.cache.Get(ctx, constants.BuildSessionKey(sessionID), &session)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	if err := s.cache.Set(ctx, constants.BuildSessionKey(session.ID), session, s.ttl); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, constants.BuildSessionKey(sessionID))
}

// memorySessionStore backs tests and local runs without Redis. Snapshots go
// through the same JSON round-trip as the Redis store, so stored and returned
// sessions never share maps or slices.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]json.RawMessage
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: map[string]json.RawMessage{}}
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *memorySessionStore) Save(_ context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = data
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
