package auth

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lockout tracks failed login attempts per account in redis. The counter
// lives for exactly one window; reaching the threshold locks the account
// until the key expires. Counting is fail-open: if redis is unreachable
// the login path proceeds without lockout instead of locking everyone
// out.
type Lockout struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLockout(client *redis.Client, maxAttempts int, window time.Duration) *Lockout {
	return &Lockout{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *Lockout) key(email string) string {
	return "lockout:" + strings.ToLower(strings.TrimSpace(email))
}

// Locked reports whether the account sits above the attempt threshold.
func (l *Lockout) Locked(ctx context.Context, email string) bool {
	count, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		return false
	}
	return count >= l.maxAttempts
}

// Fail records a failed attempt and reports whether the account is now
// locked. The window starts at the first failure, not the last one.
func (l *Lockout) Fail(ctx context.Context, email string) bool {
	key := l.key(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}
	return count >= int64(l.maxAttempts)
}

// Reset clears the counter after a successful login.
func (l *Lockout) Reset(ctx context.Context, email string) {
	l.client.Del(ctx, l.key(email))
}
