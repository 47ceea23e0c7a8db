// Package landagg queries an aggregated land-listing portal as a
// lower-tier price reference.
package landagg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/httputil"
	"github.com/wonhee/gavel/pkg/logger"
)

// Client handles communication with the land aggregation portal
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new land aggregation client
func NewClient(cfg config.LandAggConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("landagg"),
		baseURL:    cfg.BaseURL,
	}
}

// ID identifies this source
func (c *Client) ID() string {
	return "landagg"
}

type searchResponse struct {
	Items []struct {
		Price        int64  `json:"price"`
		Address      string `json:"address"`
		PropertyType string `json:"propertyType"`
	} `json:"items"`
}

// Fetch looks the location up on the portal and takes the first
// listing's price as the market price.
func (c *Client) Fetch(ctx context.Context, req valuation.Request) (*valuation.ValuationRecord, error) {
	location := req.Location()
	if location == "" {
		return nil, valuation.ErrMiss
	}

	query := url.Values{}
	query.Set("q", location)
	if req.PropertyType != "" {
		query.Set("type", req.PropertyType)
	}

	resp, err := c.httpClient.Get(ctx, c.baseURL+"/search?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: landagg request failed: %v", valuation.ErrMiss, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: landagg status %d", valuation.ErrMiss, resp.StatusCode)
	}

	var envelope searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: landagg decode: %v", valuation.ErrMiss, err)
	}

	if len(envelope.Items) == 0 || envelope.Items[0].Price <= 0 {
		return nil, valuation.ErrMiss
	}

	item := envelope.Items[0]
	rec := &valuation.ValuationRecord{
		MarketPrice:  item.Price,
		Location:     item.Address,
		PropertyType: item.PropertyType,
		ObservedAt:   time.Now(),
	}
	if rec.Location == "" {
		rec.Location = location
	}
	if rec.PropertyType == "" {
		rec.PropertyType = req.PropertyType
	}

	c.logger.WithFields(map[string]interface{}{
		"location": location,
		"price":    item.Price,
	}).Debug("land portal hit")

	return rec, nil
}
