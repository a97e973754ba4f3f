// Package segment ties the quota pipeline together for one statusline
// render: cache-or-fetch decision, cache update, aggregation, and
// formatting. It has no state beyond the invocation; the cache file is
// the only thing that outlives it.
package segment

import (
	"context"
	"time"

	"github.com/ccline/ccline/internal/config"
	"github.com/ccline/ccline/internal/logging"
	"github.com/ccline/ccline/internal/quota"
	"github.com/ccline/ccline/internal/render"
)

// Fetcher collects fresh quota readings. Implementations never fail;
// they degrade to empty results.
type Fetcher interface {
	FetchAll(ctx context.Context, typeFilter string) []quota.ModelQuota
}

// Recorder receives successful fresh fetches for history keeping.
type Recorder interface {
	Record(renderID string, quotas []quota.ModelQuota, fetchedAt time.Time) error
}

// QuotaSegment renders the remote-quota segment of the statusline.
type QuotaSegment struct {
	opts     *config.QuotaOptions
	logger   *logging.Logger
	cache    *quota.Cache
	fetcher  Fetcher
	recorder Recorder
	now      func() time.Time
}

// Option configures a QuotaSegment.
type Option func(*QuotaSegment)

// WithCache overrides the cache location.
func WithCache(c *quota.Cache) Option {
	return func(s *QuotaSegment) { s.cache = c }
}

// WithFetcher overrides the fetcher.
func WithFetcher(f Fetcher) Option {
	return func(s *QuotaSegment) { s.fetcher = f }
}

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) Option {
	return func(s *QuotaSegment) { s.recorder = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *QuotaSegment) { s.now = now }
}

// New builds a segment from validated options.
func New(opts *config.QuotaOptions, logger *logging.Logger, options ...Option) (*QuotaSegment, error) {
	if logger == nil {
		logger = logging.NewLogger()
	}
	s := &QuotaSegment{
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.cache == nil {
		path, err := quota.DefaultCachePath()
		if err != nil {
			return nil, err
		}
		s.cache = quota.NewCache(path)
	}
	if s.fetcher == nil {
		s.fetcher = quota.NewFetcher(opts.Host, opts.Key, logger)
	}
	return s, nil
}

// Collect produces the formatted segment text. The second return is
// false when the segment contributes nothing: no quota data on any
// path, or an empty formatted string. Errors never escape; total
// failure degrades to omission.
func (s *QuotaSegment) Collect(ctx context.Context) (string, bool) {
	quotas := s.resolveQuotas(ctx)
	if len(quotas) == 0 {
		return "", false
	}

	text := render.FormatQuotas(quota.Aggregate(quotas), s.opts.Styles(), s.opts.Separator)
	if text == "" {
		return "", false
	}
	return text, true
}

// resolveQuotas walks the cache-or-fetch state machine: a valid cache
// wins outright; otherwise fetch, persist a non-empty result, and fall
// back to the stale cache when the fetch comes up empty.
func (s *QuotaSegment) resolveQuotas(ctx context.Context) []quota.ModelQuota {
	cached, haveCached := s.cache.Load()

	if haveCached && cached.IsValid(s.opts.CacheDuration, s.now()) {
		s.logger.DebugWithContext(ctx, "using cached quotas", "count", len(cached.Quotas))
		return cached.Quotas
	}

	fetched := s.fetcher.FetchAll(ctx, s.opts.AuthType)
	if len(fetched) == 0 {
		if haveCached {
			s.logger.DebugWithContext(ctx, "fetch empty, falling back to stale cache", "count", len(cached.Quotas))
			return cached.Quotas
		}
		return nil
	}

	fetchedAt := s.now()
	snap := &quota.Snapshot{
		Quotas:   fetched,
		CachedAt: fetchedAt.Format(time.RFC3339),
	}
	if err := s.cache.Save(snap); err != nil {
		s.logger.DebugWithContext(ctx, "cache save failed", "error", err.Error())
	}
	if s.recorder != nil {
		if err := s.recorder.Record(logging.GetRenderID(ctx), fetched, fetchedAt); err != nil {
			s.logger.DebugWithContext(ctx, "history record failed", "error", err.Error())
		}
	}
	return fetched
}
