// Package courtscrape retrieves auction pages from the court auction
// site and extracts prices out of the result tables.
package courtscrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonhee/gavel/internal/providers/casenum"
	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/httputil"
	"github.com/wonhee/gavel/pkg/logger"
)

// 테이블 헤더 키워드 (법원경매 사이트 표기가 페이지마다 다름)
var (
	appraisalKeywords = []string{"감정가", "감정액", "평가액"}
	minimumKeywords   = []string{"최저가", "최저입찰가", "시작가"}
	marketKeywords    = []string{"시세", "시장가", "거래가"}
	locationKeywords  = []string{"소재지", "주소", "위치"}
)

// Client scrapes the court auction search page
// ⭐ SSOT: 법원경매 사이트 파싱은 여기서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new court auction scraper
func NewClient(cfg config.CourtScrapeConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.Component("courtscrape"),
		baseURL:    cfg.BaseURL,
	}
}

// ID identifies this source
func (c *Client) ID() string {
	return "courtscrape"
}

// Fetch searches the court auction site for the case number and parses
// the result table. Any parse shortfall is a miss, never a hard error.
func (c *Client) Fetch(ctx context.Context, req valuation.Request) (*valuation.ValuationRecord, error) {
	cn, err := casenum.Parse(req.CaseNumber)
	if err != nil {
		return nil, valuation.ErrMiss
	}

	searchURL := fmt.Sprintf("%s/search?caseNo=%s", c.baseURL, url.QueryEscape(cn.Raw))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("courtscrape: create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: courtscrape request failed: %v", valuation.ErrMiss, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: courtscrape status %d", valuation.ErrMiss, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: courtscrape parse: %v", valuation.ErrMiss, err)
	}

	rec := c.extractRecord(doc, cn.Raw)
	if rec == nil {
		return nil, valuation.ErrMiss
	}

	rec.PropertyType = req.PropertyType
	rec.ObservedAt = time.Now()

	c.logger.WithFields(map[string]interface{}{
		"case_number": cn.Raw,
		"appraisal":   rec.AppraisalPrice,
	}).Debug("court auction page hit")

	return rec, nil
}

// extractRecord walks every table on the page, maps columns by header
// keyword and returns the first row that mentions the case number.
func (c *Client) extractRecord(doc *goquery.Document, caseNumber string) *valuation.ValuationRecord {
	var found *valuation.ValuationRecord

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := mapColumns(table)
		if cols.appraisal < 0 && cols.minimum < 0 && cols.market < 0 {
			return true // 가격 컬럼이 없는 테이블은 건너뜀
		}

		table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
			if i == 0 {
				return true // 헤더 행
			}
			if !strings.Contains(row.Text(), caseNumber) {
				return true
			}

			cells := row.Find("td")
			rec := &valuation.ValuationRecord{}
			if cols.appraisal >= 0 {
				rec.AppraisalPrice = ParseKoreanPrice(cellText(cells, cols.appraisal))
			}
			if cols.minimum >= 0 {
				rec.MinimumBid = ParseKoreanPrice(cellText(cells, cols.minimum))
			}
			if cols.market >= 0 {
				rec.MarketPrice = ParseKoreanPrice(cellText(cells, cols.market))
			}
			if cols.location >= 0 {
				rec.Location = strings.TrimSpace(cellText(cells, cols.location))
			}

			// 감정가 기준 보정: 시세는 통상 감정가의 110%, 최저가는 70%
			if rec.MarketPrice == 0 && rec.AppraisalPrice > 0 {
				rec.MarketPrice = int64(float64(rec.AppraisalPrice) * 1.1)
			}
			if rec.MinimumBid == 0 && rec.AppraisalPrice > 0 {
				rec.MinimumBid = int64(float64(rec.AppraisalPrice) * 0.7)
			}

			if rec.PriceBearing() {
				found = rec
				return false
			}
			return true
		})

		return found == nil
	})

	return found
}

type columnMap struct {
	appraisal int
	minimum   int
	market    int
	location  int
}

func mapColumns(table *goquery.Selection) columnMap {
	cols := columnMap{appraisal: -1, minimum: -1, market: -1, location: -1}
	table.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		switch {
		case cols.appraisal < 0 && containsAny(text, appraisalKeywords):
			cols.appraisal = i
		case cols.minimum < 0 && containsAny(text, minimumKeywords):
			cols.minimum = i
		case cols.market < 0 && containsAny(text, marketKeywords):
			cols.market = i
		case cols.location < 0 && containsAny(text, locationKeywords):
			cols.location = i
		}
	})
	return cols
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx >= cells.Length() {
		return ""
	}
	return cells.Eq(idx).Text()
}
