package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"voicebot/internal/cache"
)

const redisKeyPrefix = "voicebot:session:"

// RedisStore keeps sessions in Redis so several replicas can serve one caller.
type RedisStore struct {
	cache      *cache.Redis
	ttl        time.Duration
	maxRetries int
	logger     *slog.Logger
}

// NewRedisStore creates a store whose keys expire after ttl without a turn.
func NewRedisStore(c *cache.Redis, ttl time.Duration, maxRetries int, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		cache:      c,
		ttl:        ttl,
		maxRetries: maxRetries,
		logger:     logger.With("component", "session", "store", "redis"),
	}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	raw, err := r.cache.Client().GetEx(ctx, redisKey(id), r.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	s, err := r.load(ctx, id)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	s = New(id, r.maxRetries)
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	r.logger.Info("session created", "session_id", id)
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.load(ctx, id)
}

func (r *RedisStore) Reset(ctx context.Context, id string) (*Session, error) {
	s, err := r.load(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		s = New(id, r.maxRetries)
	case err != nil:
		return nil, err
	default:
		s.Reset()
	}
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()
	if err := r.cache.SetJSON(ctx, redisKey(s.ID), s, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}
