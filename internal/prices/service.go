package prices

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/cache"
	"bbm-backend/internal/chrono"
	"bbm-backend/internal/telemetry"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

const DefaultSnapshotTTL = time.Hour

const (
	report_service_refresh = "service.refresh"
	report_service_cache   = "service.cache"
)

// ErrCorruptCache means the snapshot key holds something that isn't a Snapshot.
var ErrCorruptCache = errors.New("cached snapshot is corrupt")

// Service owns the current snapshot: it is computed on the first read after
// it expires or is invalidated, callers block until it's ready.
//
// note: concurrent misses each run their own aggregation, the last one to finish wins.
type Service struct {
	aggregator Aggregator
	adapters   map[ProviderKey]Adapter
	cache      *cache.Cache
	ttl        time.Duration
	tel        telemetry.API
}

type ServiceOptions struct {
	// SnapshotTTL defaults to DefaultSnapshotTTL.
	SnapshotTTL time.Duration
}

func NewService(
	aggregator Aggregator,
	adapters map[ProviderKey]Adapter,
	c *cache.Cache,
	tel telemetry.API,
	opts ServiceOptions,
) *Service {
	assert.NotNil(c, "cache")
	assert.NotNil(tel, "telemetry")

	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = DefaultSnapshotTTL
	}

	return &Service{
		aggregator: aggregator,
		adapters:   adapters,
		cache:      c,
		ttl:        opts.SnapshotTTL,
		tel:        telemetry.NewScopedAPI("prices", tel),
	}
}

// Providers returns the configured provider keys in sorted order.
func (s *Service) Providers() []ProviderKey {
	keys := make([]ProviderKey, 0, len(s.adapters))
	for key := range s.adapters {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Snapshot returns the cached snapshot, aggregating and caching a new one on a miss.
// The returned value is shared with the cache and must not be modified.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	cached, ok, err := cache.GetAs[Snapshot](s.cache, cache.KeySnapshot)
	if err != nil {
		s.tel.ReportBroken(report_service_cache, err)
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorruptCache, err)
	}
	if ok {
		return cached, nil
	}

	// a caller going away mid aggregation shouldn't get every provider cached as failed
	snapshot := s.aggregator.Aggregate(context.WithoutCancel(ctx), s.adapters)
	s.cache.Set(cache.KeySnapshot, snapshot, s.ttl)
	return snapshot, nil
}

// Refresh invalidates the cached snapshot and computes a new one.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.cache.Delete(cache.KeySnapshot)
	s.tel.ReportDebug("refreshing snapshot")
	return s.Snapshot(ctx)
}

// Schedule refreshes the snapshot on the given cron spec.
func (s *Service) Schedule(cron chrono.CronAPI, spec string) error {
	assert.NotNil(cron, "cron")

	return cron.Cron(spec, func() {
		_, err := s.Refresh(context.Background())
		if err != nil {
			s.tel.ReportBroken(report_service_refresh, err)
		}
	})
}
