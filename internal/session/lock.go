package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TurnLocker serialises turns for one session id.
type TurnLocker interface {
	Lock(ctx context.Context, id string) (func(), error)
}

// Locker serialises turns per session id inside one process. Different ids
// never contend.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// NewLocker returns an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Lock blocks until id is free or ctx is done. The returned func releases it.
func (l *Locker) Lock(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[id]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[id] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(id, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.release(id, kl)
		})
	}, nil
}

func (l *Locker) release(id string, kl *keyLock) {
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()
}

// Held reports how many ids currently have a holder or waiter.
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// LockBackend is a shared lock service. *cache.Redis implements it.
type LockBackend interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

const redisLockPrefix = "voicebot:lock:"

// RedisLocker serialises turns across every replica sharing one Redis. Waiters
// in the same process queue on a local Locker first so only one of them polls.
type RedisLocker struct {
	local   *Locker
	backend LockBackend
	ttl     time.Duration
	poll    time.Duration
	logger  *slog.Logger
}

// NewRedisLocker returns a locker whose keys expire after ttl if a holder dies
// mid-turn. ttl should exceed the longest turn.
func NewRedisLocker(backend LockBackend, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisLocker{
		local:   NewLocker(),
		backend: backend,
		ttl:     ttl,
		poll:    50 * time.Millisecond,
		logger:  logger.With("component", "session", "locker", "redis"),
	}
}

// Lock blocks until this caller holds id in Redis or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, id string) (func(), error) {
	release, err := l.local.Lock(ctx, id)
	if err != nil {
		return nil, err
	}

	key := redisLockPrefix + id
	token := uuid.NewString()
	for {
		ok, err := l.backend.TryLock(ctx, key, token, l.ttl)
		if err != nil {
			release()
			return nil, fmt.Errorf("lock session %s: %w", id, err)
		}
		if ok {
			break
		}
		timer := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			release()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the turn's ctx may already be cancelled
			uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := l.backend.Unlock(uctx, key, token); err != nil {
				l.logger.Warn("failed releasing session lock", "session_id", id, "error", err)
			}
			release()
		})
	}, nil
}
