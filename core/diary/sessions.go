package diary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"pm-backoffice/core/forms"
	"pm-backoffice/pkg/resources"
)

const (
	sessionPrefix = "forms:session:"
	lockPrefix    = "forms:lock:"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// memorySessionStore keeps sessions as JSON snapshots, so callers never share a *Session.
type memorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
	locks    map[string]time.Time
}

func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
		locks:    make(map[string]time.Time),
	}
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*forms.Session, error) {
	s.mu.Lock()
	entry, ok := s.sessions[id]

	if ok && s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	var session forms.Session

	err := json.Unmarshal(entry.raw, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to decode form session: %w", err)
	}

	return &session, nil
}

func (s *memorySessionStore) Put(_ context.Context, session *forms.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode form session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.sessions[session.ID] = memoryEntry{raw: raw, expiresAt: now.Add(s.ttl)}

	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	delete(s.locks, id)

	return nil
}

func (s *memorySessionStore) Lock(_ context.Context, id string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if _, ok := s.locks[id]; ok {
		return forms.ErrSubmitInFlight
	}

	s.locks[id] = now.Add(ttl)

	return nil
}

func (s *memorySessionStore) Unlock(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, id)

	return nil
}

// sweep drops expired sessions and locks. Callers hold mu.
func (s *memorySessionStore) sweep(now time.Time) {
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}

	for id, until := range s.locks {
		if !now.Before(until) {
			delete(s.locks, id)
		}
	}
}

type redisSessionStore struct {
	tracer  trace.Tracer
	metrics *resources.DBMetrics
	client  *redis.Client
	ttl     time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{
		tracer:  otel.GetTracerProvider().Tracer("pm-backoffice/core/diary"),
		metrics: resources.NewDBMetrics("pm-backoffice/db", "redis"),
		client:  client,
		ttl:     ttl,
	}
}

func (s *redisSessionStore) Get(ctx context.Context, id string) (*forms.Session, error) {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "get_session", start, err) }()

	ctx, span := s.tracer.Start(ctx, "redisSessionStore.Get")
	defer span.End()

	raw, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get form session: %w", err)
	}

	var session forms.Session

	err = json.Unmarshal(raw, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to decode form session: %w", err)
	}

	return &session, nil
}

func (s *redisSessionStore) Put(ctx context.Context, session *forms.Session) error {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "put_session", start, err) }()

	ctx, span := s.tracer.Start(ctx, "redisSessionStore.Put")
	defer span.End()

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode form session: %w", err)
	}

	err = s.client.Set(ctx, sessionPrefix+session.ID, string(raw), s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to put form session: %w", err)
	}

	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "delete_session", start, err) }()

	ctx, span := s.tracer.Start(ctx, "redisSessionStore.Delete")
	defer span.End()

	err = s.client.Del(ctx, sessionPrefix+id, lockPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to delete form session: %w", err)
	}

	return nil
}

func (s *redisSessionStore) Lock(ctx context.Context, id string, ttl time.Duration) error {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "lock_session", start, err) }()

	ctx, span := s.tracer.Start(ctx, "redisSessionStore.Lock")
	defer span.End()

	acquired, err := s.client.SetNX(ctx, lockPrefix+id, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to lock form session: %w", err)
	}

	if !acquired {
		return forms.ErrSubmitInFlight
	}

	return nil
}

func (s *redisSessionStore) Unlock(ctx context.Context, id string) error {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "unlock_session", start, err) }()

	ctx, span := s.tracer.Start(ctx, "redisSessionStore.Unlock")
	defer span.End()

	err = s.client.Del(ctx, lockPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to unlock form session: %w", err)
	}

	return nil
}
