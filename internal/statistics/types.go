// Package statistics owns the regional sale-statistics index: lookup of
// district sale-rate records and the market scoring derived from them.
package statistics

import "errors"

// ErrNotFound means the region or district is not in the index.
// Recoverable; callers fall back to the neutral report.
var ErrNotFound = errors.New("statistics not found")

// Row is one ingested tabular record. Numeric fields arrive pre-cleaned:
// no thousands separators, no percent signs (loader contract).
type Row struct {
	Region              string
	District            string
	AuctionCount        int64
	SaleCount           int64
	AppraisalValueTotal int64
	SaleValueTotal      int64
	SaleRatePct         float64
	SalePriceRatePct    float64
}

// DistrictStatistics is the aggregate sale performance of one district.
// 매각율/매각가율은 원천 데이터가 제공한 값 그대로이며 건수로부터
// 재계산하지 않는다 (원천 산식이 다를 수 있음).
type DistrictStatistics struct {
	Region              string  `json:"region"`
	District            string  `json:"district"`
	AuctionCount        int64   `json:"auctionCount"`
	SaleCount           int64   `json:"saleCount"`
	AppraisalValueTotal int64   `json:"appraisalValueTotal"`
	SaleValueTotal      int64   `json:"saleValueTotal"`
	SaleRatePct         float64 `json:"saleRatePct"`
	SalePriceRatePct    float64 `json:"salePriceRatePct"`

	// Derived at load time, zero-guarded
	AvgAppraisalPerCase float64 `json:"avgAppraisalPerCase"`
	AvgSalePerCase      float64 `json:"avgSalePerCase"`
}

// RegionSummary is the per-region roll-up computed at load time
type RegionSummary struct {
	Region                  string  `json:"region"`
	AuctionCount            int64   `json:"auctionCount"`
	SaleCount               int64   `json:"saleCount"`
	AppraisalValueTotal     int64   `json:"appraisalValueTotal"`
	SaleValueTotal          int64   `json:"saleValueTotal"`
	OverallSaleRatePct      float64 `json:"overallSaleRatePct"`
	OverallSalePriceRatePct float64 `json:"overallSalePriceRatePct"`
}

// Metric selects the ranking metric for TopDistricts
type Metric string

const (
	MetricSaleRate      Metric = "sale_rate"
	MetricSalePriceRate Metric = "sale_price_rate"
)

// Valid reports whether the metric name is one the index can rank by
func (m Metric) Valid() bool {
	return m == MetricSaleRate || m == MetricSalePriceRate
}

// RankedDistrict is one entry of a TopDistricts result
type RankedDistrict struct {
	District string  `json:"district"`
	Value    float64 `json:"value"`
}
