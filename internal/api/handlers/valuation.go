package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/logger"
)

// ValuationHandler handles valuation API endpoints
// ⭐ SSOT: 감정 API 핸들러는 이 구조체에서만
type ValuationHandler struct {
	service *valuation.Service
	logger  *logger.Logger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(service *valuation.Service, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{
		service: service,
		logger:  log,
	}
}

// ValuateRequest represents a valuation request body
type ValuateRequest struct {
	CaseNumber   string `json:"caseNumber"`
	Region       string `json:"region"`
	District     string `json:"district"`
	PropertyType string `json:"propertyType"`
}

// Valuate runs the full valuation flow for one property
// POST /api/valuation
func (h *ValuationHandler) Valuate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body ValuateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := valuation.Request{
		CaseNumber:   body.CaseNumber,
		Region:       body.Region,
		District:     body.District,
		PropertyType: body.PropertyType,
	}

	result, err := h.service.Valuate(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, valuation.ErrInvalidRequest):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, valuation.ErrChainExhausted):
			// 모든 소스가 실패한 경우. 합성 소스가 항상 응답하는 표준
			// 구성에서는 나오지 않지만, 구성에 따라 가능하다.
			respondError(w, http.StatusNotFound, "No data source could value this property")
		default:
			h.logger.WithError(err).Error("Valuation failed")
			respondError(w, http.StatusInternalServerError, "Valuation failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// History returns recent completed valuations
// GET /api/valuation/history?limit=20
func (h *ValuationHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	records, err := h.service.History(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load valuation history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}
	if records == nil {
		records = []valuation.HistoryRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}
