package commands

import (
	"fmt"
	"time"

	"github.com/wonhee/gavel/internal/providers/courtapi"
	"github.com/wonhee/gavel/internal/providers/courtscrape"
	"github.com/wonhee/gavel/internal/providers/kbland"
	"github.com/wonhee/gavel/internal/providers/landagg"
	"github.com/wonhee/gavel/internal/providers/synthetic"
	"github.com/wonhee/gavel/internal/statistics"
	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/httputil"
	"github.com/wonhee/gavel/pkg/logger"
	"github.com/wonhee/gavel/pkg/redis"
)

// buildChain assembles the source fallback chain from enabled providers.
// ⭐ SSOT: 티어 구성(공식 API → 직접 수집 → 집계 포털 → 합성)은 여기서만
func buildChain(cfg *config.Config, log *logger.Logger, redisClient *redis.Client) (*valuation.FallbackChain, error) {
	sharedLimiter := redis.NewRateLimiter(redisClient, "gavel")

	newHTTP := func(origin string) *httputil.Client {
		client := httputil.New(log, 10*time.Second).WithLimit(cfg.Valuation.RatePerOrigin)
		if redisClient.Enabled() {
			// 다중 인스턴스가 같은 소스 쿼터를 공유
			client = client.WithSharedLimit(sharedLimiter, redis.RateLimitConfig{
				Key:    origin,
				Limit:  int(cfg.Valuation.RatePerOrigin * 60),
				Window: time.Minute,
			})
		}
		return client
	}

	var official []valuation.SourceProvider
	if cfg.CourtAPI.Enabled {
		official = append(official, courtapi.NewClient(cfg.CourtAPI, newHTTP("courtapi"), log))
	}
	if cfg.KBLand.Enabled {
		official = append(official, kbland.NewClient(cfg.KBLand, newHTTP("kbland"), log))
	}

	var tiers []valuation.Tier
	if len(official) > 0 {
		tiers = append(tiers, valuation.Tier{Name: "official", Providers: official})
	}
	// 직접 수집과 집계 포털은 신뢰 등급이 달라 같이 평균 내지 않는다
	if cfg.CourtScrape.Enabled {
		tiers = append(tiers, valuation.Tier{Name: "scraped", Providers: []valuation.SourceProvider{
			courtscrape.NewClient(cfg.CourtScrape, newHTTP("courtscrape"), log),
		}})
	}
	if cfg.LandAgg.Enabled {
		tiers = append(tiers, valuation.Tier{Name: "aggregated", Providers: []valuation.SourceProvider{
			landagg.NewClient(cfg.LandAgg, newHTTP("landagg"), log),
		}})
	}
	// 합성 소스는 항상 마지막 티어로 들어가 체인 소진을 막는다
	tiers = append(tiers, valuation.Tier{Name: "synthetic", Providers: []valuation.SourceProvider{synthetic.NewProvider()}})

	return valuation.NewFallbackChain(log, cfg.Valuation.ProviderTimeout, tiers...)
}

// buildValuationService wires cache, chain, aggregation and optional
// history persistence into the valuation service.
func buildValuationService(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, cache *redis.Cache, history valuation.HistoryStore) (*valuation.Service, error) {
	chain, err := buildChain(cfg, log, redisClient)
	if err != nil {
		return nil, fmt.Errorf("build fallback chain: %w", err)
	}

	agg := valuation.NewAggregator(valuation.Policy{
		HighValueThreshold: cfg.Valuation.HighValueThreshold,
		MidValueThreshold:  cfg.Valuation.MidValueThreshold,
	})

	return valuation.NewService(chain, agg, cache, history, cfg.Valuation.CacheTTL, log), nil
}

// buildStatisticsService loads the sale-statistics index from disk and
// wraps it in the lookup service. A missing data dir yields an empty
// index, not an error; lookups then fall back to the neutral report.
func buildStatisticsService(cfg *config.Config, log *logger.Logger, cache *redis.Cache) *statistics.Service {
	rows, err := statistics.LoadDir(cfg.Statistics.DataDir)
	if err != nil {
		log.WithError(err).WithField("dir", cfg.Statistics.DataDir).Warn("Failed to load statistics data, starting with empty index")
		rows = nil
	}

	store := statistics.NewIndexStore(statistics.BuildIndex(rows))
	return statistics.NewService(store, cache, cfg.Statistics.DataDir, log)
}
