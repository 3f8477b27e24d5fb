package rates

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	rate  float64
	err   error
	calls int
}

func (p *fakeProvider) FetchRate(ctx context.Context) (float64, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	return p.rate, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCache_FirstReadFetches(t *testing.T) {
	provider := &fakeProvider{rate: 11.2}
	cache := NewCache(provider, 11.5, 6*time.Hour, testLogger())

	rate := cache.Rate(context.Background())

	assert.InDelta(t, 11.2, rate, 1e-9)
	assert.Equal(t, 1, provider.calls)
}

func TestCache_FreshValueServedFromMemory(t *testing.T) {
	provider := &fakeProvider{rate: 11.2}
	cache := NewCache(provider, 11.5, 6*time.Hour, testLogger())
	ctx := context.Background()

	cache.Rate(ctx)
	cache.Rate(ctx)
	cache.Rate(ctx)

	assert.Equal(t, 1, provider.calls)
}

func TestCache_StaleValueTriggersRefetch(t *testing.T) {
	provider := &fakeProvider{rate: 11.2}
	cache := NewCache(provider, 11.5, 6*time.Hour, testLogger())
	ctx := context.Background()

	cache.Rate(ctx)

	provider.rate = 12.0
	cache.now = func() time.Time { return time.Now().Add(7 * time.Hour) }

	rate := cache.Rate(ctx)
	assert.InDelta(t, 12.0, rate, 1e-9)
	assert.Equal(t, 2, provider.calls)
}

func TestCache_FailedFetchKeepsPreviousRate(t *testing.T) {
	provider := &fakeProvider{rate: 11.2}
	cache := NewCache(provider, 11.5, 6*time.Hour, testLogger())
	ctx := context.Background()

	cache.Rate(ctx)
	_, fetchedAt := cache.Snapshot()

	provider.err = errors.New("provider down")
	cache.now = func() time.Time { return time.Now().Add(7 * time.Hour) }

	rate := cache.Rate(ctx)
	assert.InDelta(t, 11.2, rate, 1e-9)

	// fetchedAt did not advance, so the next read tries again.
	_, after := cache.Snapshot()
	assert.True(t, after.Equal(fetchedAt))

	rate = cache.Rate(ctx)
	assert.InDelta(t, 11.2, rate, 1e-9)
	assert.Equal(t, 3, provider.calls)
}

func TestCache_FallbackServedUntilFirstSuccess(t *testing.T) {
	provider := &fakeProvider{err: errors.New("provider down")}
	cache := NewCache(provider, 11.5, 6*time.Hour, testLogger())

	rate := cache.Rate(context.Background())
	assert.InDelta(t, 11.5, rate, 1e-9)
}

func TestCache_RefreshForcesFetchInsideFreshnessWindow(t *testing.T) {
	provider := &fakeProvider{rate: 11.2}
	cache := NewCache(provider, 11.5, 6*time.Hour, testLogger())
	ctx := context.Background()

	cache.Rate(ctx)

	provider.rate = 12.5
	require.NoError(t, cache.Refresh(ctx))

	rate, _ := cache.Snapshot()
	assert.InDelta(t, 12.5, rate, 1e-9)
	assert.Equal(t, 2, provider.calls)
}
