package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonhee/gavel/internal/metrics"
	"github.com/wonhee/gavel/pkg/logger"
	"github.com/wonhee/gavel/pkg/redis"
)

// Service bundles the region index, the scorer and the reload path.
// ⭐ SSOT: 통계 조회와 인덱스 재적재는 이 서비스에서만
type Service struct {
	store   *IndexStore
	scorer  *Scorer
	cache   *redis.Cache
	dataDir string
	logger  *logger.Logger
}

// NewService creates the statistics service. cache may be nil.
func NewService(store *IndexStore, cache *redis.Cache, dataDir string, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		scorer:  NewScorer(),
		cache:   cache,
		dataDir: dataDir,
		logger:  log.Component("statistics_service"),
	}
}

// District resolves one district's statistics through the matching tiers
func (s *Service) District(ctx context.Context, region, district string) (DistrictStatistics, error) {
	if s.cache != nil {
		var cached DistrictStatistics
		if hit, err := s.cache.Get(ctx, redis.DistrictKey(region, district), &cached); err == nil && hit {
			metrics.StatisticsLookupsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
	}

	stats, err := s.store.Load().ResolveDistrict(region, district)
	if err != nil {
		metrics.StatisticsLookupsTotal.WithLabelValues("miss").Inc()
		return DistrictStatistics{}, err
	}
	metrics.StatisticsLookupsTotal.WithLabelValues("hit").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.DistrictKey(region, district), stats, redis.TTLStatistics); err != nil {
			s.logger.WithError(err).Warn("Failed to cache district statistics")
		}
	}

	return stats, nil
}

// Assess scores a district. An unresolvable district yields the neutral
// report, never an error.
func (s *Service) Assess(ctx context.Context, region, district string) ScoreReport {
	stats, err := s.District(ctx, region, district)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WithError(err).Warn("District lookup failed, using neutral report")
		}
		return NeutralReport()
	}
	return s.scorer.Score(stats)
}

// RegionSummary returns the roll-up for one region
func (s *Service) RegionSummary(region string) (RegionSummary, error) {
	return s.store.Load().ResolveRegionSummary(region)
}

// TopDistricts ranks a region's districts by the given metric
func (s *Service) TopDistricts(region string, metric Metric, limit int) ([]RankedDistrict, error) {
	return s.store.Load().TopDistricts(region, metric, limit)
}

// AllSummaries returns every region's roll-up in load order
func (s *Service) AllSummaries() []RegionSummary {
	return s.store.Load().AllSummaries()
}

// Regions returns the known region names in load order
func (s *Service) Regions() []string {
	return s.store.Load().Regions()
}

// DistrictCount reports the total number of indexed districts
func (s *Service) DistrictCount() int {
	return s.store.Load().DistrictCount()
}

// Reload rebuilds the index from the data directory and swaps it in
// atomically. Lookups in flight keep the old index.
func (s *Service) Reload(_ context.Context) (int, error) {
	rows, err := LoadDir(s.dataDir)
	if err != nil {
		return 0, fmt.Errorf("load statistics data: %w", err)
	}

	idx := BuildIndex(rows)
	s.store.Swap(idx)
	metrics.IndexReloadsTotal.Inc()

	s.logger.WithFields(map[string]interface{}{
		"regions":   len(idx.Regions()),
		"districts": idx.DistrictCount(),
	}).Info("Region index reloaded")

	return idx.DistrictCount(), nil
}
