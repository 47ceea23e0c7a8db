// Package kbland is the KB Land official API source provider
// (최상위 티어, courtapi와 동급).
package kbland

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

// Client handles communication with the KB Land API
// ⭐ SSOT: KB부동산 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new KB Land client
func NewClient(cfg config.KBLandConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("kbland"),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// ID identifies this source
func (c *Client) ID() string {
	return "kbland"
}

// searchRequest queries recent auction listings around a location
type searchRequest struct {
	Location     string `json:"location"`
	PropertyType string `json:"propertyType"`
	DateFrom     string `json:"dateFrom"`
	DateTo       string `json:"dateTo"`
}

// searchResponse is the KB Land response envelope
type searchResponse struct {
	Data []struct {
		MarketPrice    int64 `json:"marketPrice"`
		AppraisalPrice int64 `json:"appraisalPrice"`
		MinimumBid     int64 `json:"minimumBid"`
	} `json:"data"`
}

// Fetch queries KB Land by location. Needs region+district; pure
// case-number requests are a miss for this source.
func (c *Client) Fetch(ctx context.Context, req valuation.Request) (*valuation.ValuationRecord, error) {
	location := req.Location()
	if location == "" {
		return nil, valuation.ErrMiss
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("kbland: API key not configured")
	}

	now := time.Now()
	payload := searchRequest{
		Location:     location,
		PropertyType: req.PropertyType,
		DateFrom:     now.AddDate(0, 0, -30).Format("2006-01-02"),
		DateTo:       now.Format("2006-01-02"),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("kbland: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auction/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kbland: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: kbland request failed: %v", valuation.ErrMiss, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: kbland status %d", valuation.ErrMiss, resp.StatusCode)
	}

	var envelope searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: kbland decode: %v", valuation.ErrMiss, err)
	}

	if len(envelope.Data) == 0 {
		return nil, valuation.ErrMiss
	}

	item := envelope.Data[0]
	rec := &valuation.ValuationRecord{
		MarketPrice:    item.MarketPrice,
		AppraisalPrice: item.AppraisalPrice,
		MinimumBid:     item.MinimumBid,
		Location:       location,
		PropertyType:   req.PropertyType,
		ObservedAt:     time.Now(),
	}

	if !rec.PriceBearing() {
		return nil, valuation.ErrMiss
	}

	c.logger.WithFields(map[string]interface{}{
		"location": location,
		"market":   rec.MarketPrice,
	}).Debug("KB Land hit")

	return rec, nil
}
