package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/wonhee/gavel/internal/statistics"
	"github.com/wonhee/gavel/pkg/logger"
)

// StatisticsHandler handles regional sale-statistics API endpoints
// ⭐ SSOT: 통계 API 핸들러는 이 구조체에서만
type StatisticsHandler struct {
	service *statistics.Service
	logger  *logger.Logger
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(service *statistics.Service, log *logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		logger:  log,
	}
}

// GetDistrict returns one district's sale statistics
// GET /api/statistics/district?region=서울특별시&district=강남구
func (h *StatisticsHandler) GetDistrict(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	district := r.URL.Query().Get("district")
	if region == "" || district == "" {
		respondError(w, http.StatusBadRequest, "Parameters 'region' and 'district' are required")
		return
	}

	stats, err := h.service.District(r.Context(), region, district)
	if err != nil {
		if errors.Is(err, statistics.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No statistics for this district")
			return
		}
		h.logger.WithError(err).Error("District lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve district statistics")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetRegionSummary returns the roll-up for one region
// GET /api/statistics/region-summary?region=서울특별시
func (h *StatisticsHandler) GetRegionSummary(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		respondError(w, http.StatusBadRequest, "Parameter 'region' is required")
		return
	}

	summary, err := h.service.RegionSummary(region)
	if err != nil {
		if errors.Is(err, statistics.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Unknown region")
			return
		}
		h.logger.WithError(err).Error("Region summary lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve region summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetRecommendation returns the market assessment for a district.
// Districts without data get the neutral report, not an error.
// GET /api/statistics/investment-recommendation?region=서울특별시&district=강남구
func (h *StatisticsHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	district := r.URL.Query().Get("district")
	if region == "" || district == "" {
		respondError(w, http.StatusBadRequest, "Parameters 'region' and 'district' are required")
		return
	}

	report := h.service.Assess(r.Context(), region, district)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"region":   region,
		"district": district,
		"report":   report,
	})
}

// GetTopDistricts ranks a region's districts by a metric
// GET /api/statistics/top-districts?region=서울특별시&metric=sale_rate&limit=5
func (h *StatisticsHandler) GetTopDistricts(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		respondError(w, http.StatusBadRequest, "Parameter 'region' is required")
		return
	}

	metric := statistics.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = statistics.MetricSaleRate
	}
	if !metric.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid 'metric' (valid: sale_rate, sale_price_rate)")
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	ranked, err := h.service.TopDistricts(region, metric, limit)
	if err != nil {
		if errors.Is(err, statistics.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Unknown region")
			return
		}
		h.logger.WithError(err).Error("Top districts lookup failed")
		respondError(w, http.StatusInternalServerError, "Failed to rank districts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"region":    region,
		"metric":    metric,
		"districts": ranked,
	})
}

// GetAllRegions returns every region's roll-up
// GET /api/statistics/all-regions
func (h *StatisticsHandler) GetAllRegions(w http.ResponseWriter, r *http.Request) {
	summaries := h.service.AllSummaries()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(summaries),
		"regions": summaries,
	})
}

// Reload rebuilds the region index from the statistics data directory
// POST /api/statistics/reload
func (h *StatisticsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Reload(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Index reload failed")
		respondError(w, http.StatusInternalServerError, "Failed to reload statistics index")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "reloaded",
		"districts": count,
	})
}
