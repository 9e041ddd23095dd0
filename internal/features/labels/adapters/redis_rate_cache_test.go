package adapters

import (
	"context"
	"testing"
	"time"

	"shipdesk/internal/core/cache"
	"shipdesk/internal/features/labels/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateCache(t *testing.T, namespace string) (*RedisRateCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return NewRedisRateCache(c, 10*time.Minute, namespace), mr
}

func TestRedisRateCache_RoundTrip(t *testing.T) {
	rc, mr := newTestRateCache(t, "test")
	ctx := context.Background()

	_, ok := rc.Get(ctx, from, to, card)
	assert.False(t, ok)

	rates := []domain.RateQuote{{Carrier: "USPS", Service: "First", Rate: 0.73}}
	rc.Set(ctx, from, to, card, rates)

	got, ok := rc.Get(ctx, from, to, card)
	require.True(t, ok)
	assert.Equal(t, rates, got)

	key := rc.Key(from, to, card)
	assert.Regexp(t, `^rates:[0-9a-f]{64}$`, key)
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	mr.FastForward(11 * time.Minute)
	_, ok = rc.Get(ctx, from, to, card)
	assert.False(t, ok)
}

func TestRedisRateCache_Key(t *testing.T) {
	prod, _ := newTestRateCache(t, "production")
	test, _ := newTestRateCache(t, "test")

	assert.Equal(t, prod.Key(from, to, card), prod.Key(from, to, card))
	assert.NotEqual(t, prod.Key(from, to, card), test.Key(from, to, card))

	other := to
	other.Zip = "10001"
	assert.NotEqual(t, prod.Key(from, to, card), prod.Key(from, other, card))
}

func TestRedisRateCache_Failures(t *testing.T) {
	rc, mr := newTestRateCache(t, "test")
	ctx := context.Background()

	require.NoError(t, mr.Set(rc.Key(from, to, card), "not json"))
	_, ok := rc.Get(ctx, from, to, card)
	assert.False(t, ok)

	mr.Close()
	rc.Set(ctx, from, to, card, []domain.RateQuote{{Carrier: "USPS", Rate: 1}})
	_, ok = rc.Get(ctx, from, to, card)
	assert.False(t, ok)
}
