package adapters

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/core/logger"
	"shipdesk/internal/features/labels/domain"
	shipments "shipdesk/internal/features/shipments/domain"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"
)

const rateCachePrefix = "rates:"

// RedisRateCache implements ports.RateCache. Keys are a BLAKE3 digest of the
// quote request, namespaced by EasyPost mode so test and production quotes
// never mix.
type RedisRateCache struct {
	cache     cache.Cache
	ttl       time.Duration
	namespace string
}

// NewRedisRateCache creates a new RedisRateCache.
func NewRedisRateCache(c cache.Cache, ttl time.Duration, namespace string) *RedisRateCache {
	return &RedisRateCache{
		cache:     c,
		ttl:       ttl,
		namespace: namespace,
	}
}

type rateKey struct {
	Namespace string            `json:"ns"`
	From      shipments.Address `json:"from"`
	To        shipments.Address `json:"to"`
	Parcel    shipments.Parcel  `json:"parcel"`
}

// Key returns the cache key for a quote request.
func (r *RedisRateCache) Key(from, to shipments.Address, parcel shipments.Parcel) string {
	// Marshalling plain structs of strings and floats cannot fail.
	payload, _ := json.Marshal(rateKey{Namespace: r.namespace, From: from, To: to, Parcel: parcel})
	sum := blake3.Sum256(payload)
	return rateCachePrefix + hex.EncodeToString(sum[:])
}

// Get returns cached rates. Any cache failure is reported as a miss.
func (r *RedisRateCache) Get(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel) ([]domain.RateQuote, bool) {
	key := r.Key(from, to, parcel)

	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Named("ratecache").Warn("Rate cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var rates []domain.RateQuote
	if err := json.Unmarshal(data, &rates); err != nil {
		logger.Named("ratecache").Warn("Discarding corrupt rate cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return rates, true
}

// Set stores rates for the TTL. Failures are logged and ignored.
func (r *RedisRateCache) Set(ctx context.Context, from, to shipments.Address, parcel shipments.Parcel, rates []domain.RateQuote) {
	key := r.Key(from, to, parcel)

	data, err := json.Marshal(rates)
	if err != nil {
		logger.Named("ratecache").Warn("Failed to encode rates", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		logger.Named("ratecache").Warn("Rate cache write failed", zap.String("key", key), zap.Error(err))
	}
}
