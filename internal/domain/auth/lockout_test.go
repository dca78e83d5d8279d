package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLockout(t *testing.T, attempts int, window time.Duration) (*Lockout, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewLockout(client, attempts, window), mr
}

func TestLockoutEngagesAtThreshold(t *testing.T) {
	lockout, _ := newLockout(t, 3, time.Minute)
	ctx := context.Background()

	if lockout.Locked(ctx, "user@example.com") {
		t.Fatal("fresh account must not be locked")
	}
	if lockout.Fail(ctx, "user@example.com") {
		t.Fatal("locked after one failure")
	}
	if lockout.Fail(ctx, "user@example.com") {
		t.Fatal("locked after two failures")
	}
	if !lockout.Fail(ctx, "user@example.com") {
		t.Fatal("third failure should lock")
	}
	if !lockout.Locked(ctx, "user@example.com") {
		t.Fatal("account should report locked")
	}
}

func TestLockoutReleasesAfterWindow(t *testing.T) {
	lockout, mr := newLockout(t, 2, time.Minute)
	ctx := context.Background()

	lockout.Fail(ctx, "user@example.com")
	lockout.Fail(ctx, "user@example.com")
	if !lockout.Locked(ctx, "user@example.com") {
		t.Fatal("expected locked")
	}

	mr.FastForward(61 * time.Second)
	if lockout.Locked(ctx, "user@example.com") {
		t.Fatal("lock must release once the window lapses")
	}
}

func TestLockoutResetOnSuccess(t *testing.T) {
	lockout, _ := newLockout(t, 2, time.Minute)
	ctx := context.Background()

	lockout.Fail(ctx, "user@example.com")
	lockout.Reset(ctx, "user@example.com")
	if lockout.Fail(ctx, "user@example.com") {
		t.Fatal("counter should restart after reset")
	}
}

func TestLockoutKeysAreCaseInsensitive(t *testing.T) {
	lockout, _ := newLockout(t, 2, time.Minute)
	ctx := context.Background()

	lockout.Fail(ctx, "User@Example.com")
	lockout.Fail(ctx, "user@example.com ")
	if !lockout.Locked(ctx, "USER@EXAMPLE.COM") {
		t.Fatal("attempts against address variants must share one counter")
	}
}
