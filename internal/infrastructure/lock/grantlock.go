// Package lock provides short-lived Redis advisory locks.
package lock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pinegate/pinegate/internal/shared/constants"
	"github.com/pinegate/pinegate/internal/shared/errors"
	"github.com/pinegate/pinegate/internal/shared/logger"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

const defaultTTL = 2 * time.Minute

// GrantLocker serialises attempts on the same access grant across processes.
type GrantLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logger.Interface
}

func NewGrantLocker(client redis.UniversalClient, ttl time.Duration, log logger.Interface) *GrantLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &GrantLocker{client: client, ttl: ttl, logger: log}
}

// Acquire takes the lock for grantID or fails fast with a conflict if another
// attempt holds it. The TTL bounds how long a crashed holder can block retries.
// The returned release func is safe to call more than once.
func (l *GrantLocker) Acquire(ctx context.Context, grantID uint) (func(), error) {
	key := grantKey(grantID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, errors.NewConflictError(
			"another attempt for this grant is in progress",
			fmt.Sprintf("lock for key %s is already held", key),
		)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The caller's context may already be cancelled; the unlock must still run.
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := l.unlock(unlockCtx, key, token); err != nil {
			l.logger.Warnw("failed to release grant lock", "grant_id", grantID, "error", err)
		}
	}, nil
}

func (l *GrantLocker) unlock(ctx context.Context, key, token string) error {
	res, err := l.client.Eval(ctx, unlockScript, []string{key}, token).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	if n, ok := res.(int64); ok && n == 0 {
		return fmt.Errorf("lock %s expired or is held by another owner", key)
	}
	return nil
}

func grantKey(grantID uint) string {
	return constants.LockKeyGrant + strconv.FormatUint(uint64(grantID), 10)
}
