package segment

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccline/ccline/internal/config"
	"github.com/ccline/ccline/internal/logging"
	"github.com/ccline/ccline/internal/quota"
)

type stubFetcher struct {
	quotas []quota.ModelQuota
	calls  int
}

func (f *stubFetcher) FetchAll(ctx context.Context, typeFilter string) []quota.ModelQuota {
	f.calls++
	return f.quotas
}

type stubRecorder struct {
	renderID  string
	quotas    []quota.ModelQuota
	fetchedAt time.Time
	calls     int
	err       error
}

func (r *stubRecorder) Record(renderID string, quotas []quota.ModelQuota, fetchedAt time.Time) error {
	r.calls++
	r.renderID = renderID
	r.quotas = quotas
	r.fetchedAt = fetchedAt
	return r.err
}

func opusQuota(fraction float64) quota.ModelQuota {
	return quota.ModelQuota{
		ModelID:           "claude-opus-4",
		DisplayName:       "Claude Opus",
		RemainingFraction: fraction,
		AuthType:          quota.AuthTypeAntigravity,
	}
}

func testSegment(t *testing.T, fetcher *stubFetcher, now time.Time, extra ...Option) (*QuotaSegment, *quota.Cache) {
	t.Helper()
	cache := quota.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	options := append([]Option{
		WithCache(cache),
		WithFetcher(fetcher),
		WithClock(func() time.Time { return now }),
	}, extra...)
	seg, err := New(config.DefaultQuotaOptions(), logging.NewLogger(), options...)
	require.NoError(t, err)
	return seg, cache
}

func TestCollectFetchesWhenCacheEmpty(t *testing.T) {
	now := time.Now()
	fetcher := &stubFetcher{quotas: []quota.ModelQuota{opusQuota(0.8), opusQuota(0.6)}}
	seg, cache := testSegment(t, fetcher, now)

	text, ok := seg.Collect(context.Background())
	require.True(t, ok)
	assert.Contains(t, text, "opus:70%")
	assert.Equal(t, 1, fetcher.calls)

	// A fresh fetch must land in the cache.
	snap, found := cache.Load()
	require.True(t, found)
	assert.Len(t, snap.Quotas, 2)
	assert.Equal(t, now.Format(time.RFC3339), snap.CachedAt)
}

func TestCollectUsesValidCacheWithoutFetching(t *testing.T) {
	now := time.Now()
	cache := quota.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, cache.Save(&quota.Snapshot{
		Quotas:   []quota.ModelQuota{opusQuota(0.5)},
		CachedAt: now.Add(-30 * time.Second).Format(time.RFC3339),
	}))

	fetcher := &stubFetcher{quotas: []quota.ModelQuota{opusQuota(1.0)}}
	seg, err := New(config.DefaultQuotaOptions(), logging.NewLogger(),
		WithCache(cache), WithFetcher(fetcher), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	text, ok := seg.Collect(context.Background())
	require.True(t, ok)
	assert.Contains(t, text, "opus:50%")
	assert.Zero(t, fetcher.calls, "a valid cache must short-circuit the fetch")
}

func TestCollectFallsBackToStaleCacheOnEmptyFetch(t *testing.T) {
	now := time.Now()
	cache := quota.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, cache.Save(&quota.Snapshot{
		Quotas:   []quota.ModelQuota{opusQuota(0.4)},
		CachedAt: now.Add(-10 * time.Minute).Format(time.RFC3339),
	}))

	fetcher := &stubFetcher{}
	seg, err := New(config.DefaultQuotaOptions(), logging.NewLogger(),
		WithCache(cache), WithFetcher(fetcher), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	text, ok := seg.Collect(context.Background())
	require.True(t, ok)
	assert.Contains(t, text, "opus:40%")
	assert.Equal(t, 1, fetcher.calls)

	// The stale snapshot must not gain a new timestamp.
	snap, found := cache.Load()
	require.True(t, found)
	assert.Equal(t, now.Add(-10*time.Minute).Format(time.RFC3339), snap.CachedAt)
}

func TestCollectNoDataAnywhere(t *testing.T) {
	fetcher := &stubFetcher{}
	seg, _ := testSegment(t, fetcher, time.Now())

	text, ok := seg.Collect(context.Background())
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, 1, fetcher.calls)
}

func TestCollectStaleCacheReplacedByFreshFetch(t *testing.T) {
	now := time.Now()
	cache := quota.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, cache.Save(&quota.Snapshot{
		Quotas:   []quota.ModelQuota{opusQuota(0.1)},
		CachedAt: now.Add(-time.Hour).Format(time.RFC3339),
	}))

	fetcher := &stubFetcher{quotas: []quota.ModelQuota{opusQuota(0.9)}}
	seg, err := New(config.DefaultQuotaOptions(), logging.NewLogger(),
		WithCache(cache), WithFetcher(fetcher), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	text, ok := seg.Collect(context.Background())
	require.True(t, ok)
	assert.Contains(t, text, "opus:90%")

	snap, found := cache.Load()
	require.True(t, found)
	assert.Equal(t, now.Format(time.RFC3339), snap.CachedAt)
	assert.InDelta(t, 0.9, snap.Quotas[0].RemainingFraction, 1e-9)
}

func TestCollectRecordsFreshFetch(t *testing.T) {
	now := time.Now()
	recorder := &stubRecorder{}
	fetcher := &stubFetcher{quotas: []quota.ModelQuota{opusQuota(0.8)}}
	seg, _ := testSegment(t, fetcher, now, WithRecorder(recorder))

	ctx := logging.WithRenderID(context.Background(), "render-123")
	_, ok := seg.Collect(ctx)
	require.True(t, ok)

	require.Equal(t, 1, recorder.calls)
	assert.Equal(t, "render-123", recorder.renderID)
	assert.Len(t, recorder.quotas, 1)
	assert.Equal(t, now, recorder.fetchedAt)
}

func TestCollectRecorderSkippedOnCacheHit(t *testing.T) {
	now := time.Now()
	cache := quota.NewCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, cache.Save(&quota.Snapshot{
		Quotas:   []quota.ModelQuota{opusQuota(0.5)},
		CachedAt: now.Format(time.RFC3339),
	}))

	recorder := &stubRecorder{}
	seg, err := New(config.DefaultQuotaOptions(), logging.NewLogger(),
		WithCache(cache), WithFetcher(&stubFetcher{}), WithRecorder(recorder),
		WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	_, ok := seg.Collect(context.Background())
	require.True(t, ok)
	assert.Zero(t, recorder.calls)
}

func TestCollectRecorderErrorDoesNotBlockOutput(t *testing.T) {
	recorder := &stubRecorder{err: assert.AnError}
	fetcher := &stubFetcher{quotas: []quota.ModelQuota{opusQuota(0.8)}}
	seg, _ := testSegment(t, fetcher, time.Now(), WithRecorder(recorder))

	text, ok := seg.Collect(context.Background())
	assert.True(t, ok)
	assert.NotEmpty(t, text)
	assert.Equal(t, 1, recorder.calls)
}
