package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonhee/gavel/internal/statistics"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error"})
}

func newStatisticsHandler(t *testing.T) *StatisticsHandler {
	t.Helper()

	rows := []statistics.Row{
		{Region: "서울특별시", District: "강남구", AuctionCount: 120, SaleCount: 42, AppraisalValueTotal: 96_000_000_000, SaleValueTotal: 33_600_000_000, SaleRatePct: 35.0, SalePriceRatePct: 87.5},
		{Region: "서울특별시", District: "서초구", AuctionCount: 90, SaleCount: 30, AppraisalValueTotal: 81_000_000_000, SaleValueTotal: 27_000_000_000, SaleRatePct: 33.3, SalePriceRatePct: 85.0},
	}
	store := statistics.NewIndexStore(statistics.BuildIndex(rows))
	service := statistics.NewService(store, nil, t.TempDir(), testLogger())

	return NewStatisticsHandler(service, testLogger())
}

func TestStatisticsHandler_GetDistrict(t *testing.T) {
	h := newStatisticsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/district?region=서울특별시&district=강남구", nil)
	rec := httptest.NewRecorder()
	h.GetDistrict(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats statistics.DistrictStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "강남구", stats.District)
	assert.Equal(t, int64(120), stats.AuctionCount)
}

func TestStatisticsHandler_GetDistrict_Missing(t *testing.T) {
	h := newStatisticsHandler(t)

	// 필수 파라미터 누락
	req := httptest.NewRequest(http.MethodGet, "/api/statistics/district?region=서울특별시", nil)
	rec := httptest.NewRecorder()
	h.GetDistrict(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 없는 구/군
	req = httptest.NewRequest(http.MethodGet, "/api/statistics/district?region=서울특별시&district=해운대구", nil)
	rec = httptest.NewRecorder()
	h.GetDistrict(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatisticsHandler_GetRecommendation_NeutralFallback(t *testing.T) {
	h := newStatisticsHandler(t)

	// 데이터가 없는 구/군은 404가 아니라 중립 리포트
	req := httptest.NewRequest(http.MethodGet, "/api/statistics/investment-recommendation?region=서울특별시&district=노원구", nil)
	rec := httptest.NewRecorder()
	h.GetRecommendation(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Report statistics.ScoreReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 50.0, body.Report.MarketScore)
	assert.Equal(t, "데이터 부족", body.Report.Reason)
}

func TestStatisticsHandler_GetTopDistricts(t *testing.T) {
	h := newStatisticsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/top-districts?region=서울특별시&metric=sale_rate&limit=1", nil)
	rec := httptest.NewRecorder()
	h.GetTopDistricts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Districts []statistics.RankedDistrict `json:"districts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Districts, 1)
	assert.Equal(t, "강남구", body.Districts[0].District)
}

func TestStatisticsHandler_GetTopDistricts_BadMetric(t *testing.T) {
	h := newStatisticsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/top-districts?region=서울특별시&metric=profit", nil)
	rec := httptest.NewRecorder()
	h.GetTopDistricts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsHandler_GetAllRegions(t *testing.T) {
	h := newStatisticsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/all-regions", nil)
	rec := httptest.NewRecorder()
	h.GetAllRegions(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int                        `json:"count"`
		Regions []statistics.RegionSummary `json:"regions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Regions, 1)
	assert.Equal(t, int64(210), body.Regions[0].AuctionCount)
}
