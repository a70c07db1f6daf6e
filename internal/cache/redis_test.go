package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r, err := New(context.Background(), Config{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRequiresAddr(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	key := "test:json:" + uuid.NewString()
	t.Cleanup(func() { r.Client().Del(ctx, key) })

	var missing map[string]string
	ok, err := r.GetJSON(ctx, key, &missing)
	if err != nil || ok {
		t.Fatalf("GetJSON on missing key = %v, %v", ok, err)
	}

	if err := r.SetJSON(ctx, key, map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got map[string]string
	ok, err = r.GetJSON(ctx, key, &got)
	if err != nil || !ok || got["a"] != "b" {
		t.Fatalf("GetJSON = %v, %v, %v", got, ok, err)
	}
}

func TestAllow(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	key := "test:rl:" + uuid.NewString()
	t.Cleanup(func() { r.Client().Del(ctx, key) })

	for i := 0; i < 3; i++ {
		ok, err := r.Allow(ctx, key, 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("hit %d: %v, %v", i, ok, err)
		}
	}
	if ok, _ := r.Allow(ctx, key, 3, time.Minute); ok {
		t.Fatal("fourth hit should be limited")
	}
}

func TestTryLock(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	key := "test:lock:" + uuid.NewString()
	t.Cleanup(func() { r.Client().Del(ctx, key) })

	ok, err := r.TryLock(ctx, key, "first", time.Minute)
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}
	if ok, _ := r.TryLock(ctx, key, "second", time.Minute); ok {
		t.Fatal("second holder took a held lock")
	}

	// a stale token must not release the current holder
	if err := r.Unlock(ctx, key, "second"); err != nil {
		t.Fatalf("Unlock stale: %v", err)
	}
	if ok, _ := r.TryLock(ctx, key, "second", time.Minute); ok {
		t.Fatal("stale unlock released the lock")
	}

	if err := r.Unlock(ctx, key, "first"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if ok, err := r.TryLock(ctx, key, "second", time.Minute); err != nil || !ok {
		t.Fatalf("TryLock after release = %v, %v", ok, err)
	}
}
