package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"homefinder/internal/cache"
	"homefinder/internal/model"
)

const sessionKeyPrefix = "session:"

var errRedisDisabled = errors.New("session store: redis is not configured")

// Session is a server-side login record. Deleting it revokes the token that names it.
type Session struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	Role      model.Role `json:"role"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// SessionStore persists sessions. Get returns (nil, nil) for unknown or expired sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL matching their expiry.
// Unlike the read cache it reports Redis failures, since a lost session is a lost login.
type RedisSessionStore struct {
	rdb *redis.Client
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a session store on the cache's Redis connection.
func NewRedisSessionStore(client *cache.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: client.Redis()}
}

func (s *RedisSessionStore) Create(ctx context.Context, session Session) error {
	if s.rdb == nil {
		return errRedisDisabled
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+session.ID, payload, time.Until(session.ExpiresAt)).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	if s.rdb == nil {
		return nil, errRedisDisabled
	}
	payload, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if s.rdb == nil {
		return errRedisDisabled
	}
	if err := s.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// MemorySessionStore keeps sessions in process memory. Expired entries are dropped on access.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// Ensure MemorySessionStore implements SessionStore
var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-process session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, id)
		return nil, nil
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
