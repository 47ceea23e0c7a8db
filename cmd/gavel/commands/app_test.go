package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/logger"
	"github.com/wonhee/gavel/pkg/redis"
)

func testWiring(t *testing.T) (*logger.Logger, *redis.Client) {
	t.Helper()
	cfg := &config.Config{Env: "test", LogLevel: "error"}
	client, err := redis.New(cfg)
	require.NoError(t, err)
	return logger.New(cfg), client
}

func chainConfig(courtAPI, kbLand, courtScrape, landAgg bool) *config.Config {
	cfg := &config.Config{Env: "test", LogLevel: "error"}
	cfg.CourtAPI.Enabled = courtAPI
	cfg.KBLand.Enabled = kbLand
	cfg.CourtScrape.Enabled = courtScrape
	cfg.LandAgg.Enabled = landAgg
	cfg.Valuation.ProviderTimeout = 5 * time.Second
	cfg.Valuation.RatePerOrigin = 5
	return cfg
}

// 직접 수집(scraped)과 집계 포털(aggregated)은 신뢰 등급이 달라
// 반드시 별도 티어로 들어가야 한다
func TestBuildChain_TierOrder(t *testing.T) {
	log, redisClient := testWiring(t)

	chain, err := buildChain(chainConfig(true, true, true, true), log, redisClient)
	require.NoError(t, err)

	assert.Equal(t, []string{"official", "scraped", "aggregated", "synthetic"}, chain.Tiers())
}

func TestBuildChain_DisabledProviders(t *testing.T) {
	log, redisClient := testWiring(t)

	tests := []struct {
		name                                   string
		courtAPI, kbLand, courtScrape, landAgg bool
		want                                   []string
	}{
		{"공식 API 비활성화", false, false, true, true, []string{"scraped", "aggregated", "synthetic"}},
		{"직접 수집만", false, false, true, false, []string{"scraped", "synthetic"}},
		{"집계 포털만", false, false, false, true, []string{"aggregated", "synthetic"}},
		{"전부 비활성화", false, false, false, false, []string{"synthetic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := buildChain(chainConfig(tt.courtAPI, tt.kbLand, tt.courtScrape, tt.landAgg), log, redisClient)
			require.NoError(t, err)
			assert.Equal(t, tt.want, chain.Tiers())
		})
	}
}
