// Package courtapi is the official court-auction API source provider
// (최상위 티어).
package courtapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/httputil"
	"github.com/wonhee/gavel/pkg/logger"
)

// Client handles communication with the court-auction official API
// ⭐ SSOT: 법원경매 공식 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new court-auction API client
func NewClient(cfg config.CourtAPIConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("courtapi"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// ID identifies this source
func (c *Client) ID() string {
	return "courtapi"
}

// searchRequest is the API request payload
type searchRequest struct {
	CaseNumber     string `json:"caseNumber"`
	IncludeDetails bool   `json:"includeDetails"`
}

// searchResponse is the API response envelope
type searchResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		MarketPrice    int64  `json:"marketPrice"`
		AppraisalPrice int64  `json:"appraisalPrice"`
		MinimumBid     int64  `json:"minimumBid"`
		Location       string `json:"location"`
		PropertyType   string `json:"propertyType"`
		Court          string `json:"court"`
	} `json:"data"`
}

// Fetch queries the official API for a case. A case number is required;
// region-only requests are a miss for this source.
func (c *Client) Fetch(ctx context.Context, req valuation.Request) (*valuation.ValuationRecord, error) {
	if req.CaseNumber == "" {
		return nil, valuation.ErrMiss
	}
	if c.apiKey == "" {
		// Provider misconfiguration, not a data miss
		return nil, fmt.Errorf("courtapi: API key not configured")
	}

	url := c.baseURL + "/auction/search"
	payload := searchRequest{CaseNumber: req.CaseNumber, IncludeDetails: true}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("courtapi: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("courtapi: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: courtapi request failed: %v", valuation.ErrMiss, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: courtapi status %d", valuation.ErrMiss, resp.StatusCode)
	}

	var envelope searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: courtapi decode: %v", valuation.ErrMiss, err)
	}

	if !envelope.Success || envelope.Data == nil {
		return nil, valuation.ErrMiss
	}

	d := envelope.Data
	rec := &valuation.ValuationRecord{
		MarketPrice:    d.MarketPrice,
		AppraisalPrice: d.AppraisalPrice,
		MinimumBid:     d.MinimumBid,
		Location:       d.Location,
		PropertyType:   d.PropertyType,
		Court:          d.Court,
		ObservedAt:     time.Now(),
	}

	// 시세가 없으면 감정가 기반으로 추정
	if rec.MarketPrice == 0 && rec.AppraisalPrice > 0 {
		rec.MarketPrice = int64(float64(rec.AppraisalPrice) * 1.1)
	}

	if !rec.PriceBearing() {
		return nil, valuation.ErrMiss
	}

	c.logger.WithFields(map[string]interface{}{
		"case":   req.CaseNumber,
		"market": rec.MarketPrice,
	}).Debug("Court API hit")

	return rec, nil
}
