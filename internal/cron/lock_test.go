package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}
	ctx := context.Background()

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to succeed, ok=%v err=%v", ok, err)
	}

	other, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct second lock: %v", err)
	}
	ok, err = other.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second acquire must fail while the lock is held")
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = other.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to succeed, ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseSkipsForeignOwner(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "cron:lock", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}
	ctx := context.Background()
	if ok, err := lock.Acquire(ctx); err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}

	// Simulate the TTL lapsing and another worker taking over.
	store.values["cron:lock"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["cron:lock"] != "someone-else" {
		t.Fatal("release must not delete a lock owned by another worker")
	}
}
