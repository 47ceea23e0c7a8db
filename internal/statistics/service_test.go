package statistics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error"})
}

func TestService_Assess(t *testing.T) {
	store := NewIndexStore(BuildIndex(seoulRows()))
	svc := NewService(store, nil, t.TempDir(), testLogger())

	// 70*0.6 + 87.5*0.4 = 77.0 → 추천
	report := svc.Assess(context.Background(), "서울특별시", "강남구")
	assert.Equal(t, 77.0, report.MarketScore)
	assert.Equal(t, AdviceRecommend, report.Advice)

	// 모르는 구/군은 중립 리포트로 떨어진다
	report = svc.Assess(context.Background(), "서울특별시", "노원구")
	assert.Equal(t, 50.0, report.MarketScore)
	assert.Equal(t, "데이터 부족", report.Reason)
}

func TestService_Reload(t *testing.T) {
	dir := t.TempDir()
	csv := `region,district,auction_count,sale_count,appraisal_value_total,sale_value_total,sale_rate_pct,sale_price_rate_pct
서울특별시,강남구,120,42,96000000000,33600000000,35.0,87.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seoul.csv"), []byte(csv), 0o644))

	store := NewIndexStore(BuildIndex(nil))
	svc := NewService(store, nil, dir, testLogger())
	assert.Equal(t, 0, svc.DistrictCount())

	count, err := svc.Reload(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, svc.DistrictCount())

	stats, err := svc.District(context.Background(), "서울특별시", "강남구")
	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.AuctionCount)
}

func TestService_Reload_BadDir(t *testing.T) {
	store := NewIndexStore(BuildIndex(seoulRows()))
	svc := NewService(store, nil, t.TempDir(), testLogger())

	// 재적재 실패는 기존 인덱스를 건드리지 않는다
	_, err := svc.Reload(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 5, svc.DistrictCount())
}
