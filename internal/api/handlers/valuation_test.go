package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonhee/gavel/internal/valuation"
)

// fixedProvider always returns the same record
type fixedProvider struct {
	id     string
	record valuation.ValuationRecord
}

func (p *fixedProvider) ID() string { return p.id }

func (p *fixedProvider) Fetch(_ context.Context, _ valuation.Request) (*valuation.ValuationRecord, error) {
	rec := p.record
	return &rec, nil
}

func newValuationHandler(t *testing.T) *ValuationHandler {
	t.Helper()

	chain, err := valuation.NewFallbackChain(testLogger(), time.Second,
		valuation.Tier{Name: "official", Providers: []valuation.SourceProvider{
			&fixedProvider{id: "courtapi", record: valuation.ValuationRecord{MarketPrice: 250_000_000}},
		}},
	)
	require.NoError(t, err)

	service := valuation.NewService(chain, valuation.NewAggregator(valuation.DefaultPolicy()), nil, nil, time.Minute, testLogger())
	return NewValuationHandler(service, testLogger())
}

func TestValuationHandler_Valuate(t *testing.T) {
	h := newValuationHandler(t)

	body := `{"caseNumber":"2024타경12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/valuation", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Valuate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result valuation.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "official", result.TierName)
	assert.Equal(t, int64(250_000_000), result.Combined.MarketPrice)
	assert.Equal(t, valuation.RecommendationMidValueSuitable, result.Combined.Recommendation)
}

func TestValuationHandler_Valuate_BadRequests(t *testing.T) {
	h := newValuationHandler(t)

	// 깨진 JSON
	req := httptest.NewRequest(http.MethodPost, "/api/valuation", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Valuate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 식별자 없음
	req = httptest.NewRequest(http.MethodPost, "/api/valuation", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	h.Valuate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 사건번호 형식 오류
	req = httptest.NewRequest(http.MethodPost, "/api/valuation", strings.NewReader(`{"caseNumber":"오류"}`))
	rec = httptest.NewRecorder()
	h.Valuate(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValuationHandler_History_NoStore(t *testing.T) {
	h := newValuationHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/valuation/history", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int                       `json:"count"`
		Records []valuation.HistoryRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Records)
}

func TestValuationHandler_History_BadLimit(t *testing.T) {
	h := newValuationHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/valuation/history?limit=-3", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
