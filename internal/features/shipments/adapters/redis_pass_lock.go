package adapters

import (
	"context"
	"errors"
	"time"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/shipments/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const passLockPrefix = "lock:pass:"

// RedisPassLock implements ports.PassLock with SET NX and a TTL, so a
// crashed holder cannot keep the lock forever.
type RedisPassLock struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisPassLock creates a new RedisPassLock.
func NewRedisPassLock(c cache.Cache, ttl time.Duration) *RedisPassLock {
	return &RedisPassLock{cache: c, ttl: ttl}
}

// Acquire takes the named lock or returns domain.ErrPassInProgress.
func (l *RedisPassLock) Acquire(ctx context.Context, name string) (func(), error) {
	key := passLockPrefix + name
	token := uuid.NewString()

	ok, err := l.cache.SetNX(ctx, key, []byte(token), l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPassInProgress
	}

	release := func() {
		// Only delete the key if it is still ours; it may have expired and
		// been taken by another pass.
		ctx := context.WithoutCancel(ctx)
		current, err := l.cache.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, cache.ErrCacheMiss) {
				logger.Named("passlock").Warn("Failed to read pass lock", zap.String("key", key), zap.Error(err))
			}
			return
		}
		if string(current) != token {
			return
		}
		if err := l.cache.Delete(ctx, key); err != nil {
			logger.Named("passlock").Warn("Failed to release pass lock", zap.String("key", key), zap.Error(err))
		}
	}
	return release, nil
}
