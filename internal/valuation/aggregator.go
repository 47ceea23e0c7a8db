package valuation

import "math"

// confidenceStep is how much each independent corroborating source adds
const confidenceStep = 25

// Fixed ratios tying the derived figures to the consensus market price,
// so the three numbers stay internally consistent regardless of which
// sources contributed which field.
const (
	appraisalRatio  = 0.9
	minimumBidRatio = 0.7
)

// Policy holds the price thresholds behind the qualitative recommendation.
// 기준값은 정책 상수이며 도출값이 아니다.
type Policy struct {
	HighValueThreshold int64
	MidValueThreshold  int64
}

// DefaultPolicy returns the standard recommendation thresholds
func DefaultPolicy() Policy {
	return Policy{
		HighValueThreshold: 300_000_000,
		MidValueThreshold:  200_000_000,
	}
}

// Aggregator combines the records of the winning tier into one consensus
// valuation.
// ⭐ SSOT: 가격 통합 규칙은 여기서만
type Aggregator struct {
	policy Policy
}

// NewAggregator creates an aggregator with the given policy
func NewAggregator(policy Policy) *Aggregator {
	return &Aggregator{policy: policy}
}

// Combine produces one CombinedValuation from a set of source records.
// Pure and order-independent: permuting the input never changes the result.
// An empty or non-price-bearing input yields the zeroed valuation with
// confidence 0, which is a valid terminal state.
func (a *Aggregator) Combine(records []ValuationRecord) CombinedValuation {
	prices := make([]int64, 0, len(records))
	for _, rec := range records {
		// Prefer market price, fall back to appraisal
		switch {
		case rec.MarketPrice > 0:
			prices = append(prices, rec.MarketPrice)
		case rec.AppraisalPrice > 0:
			prices = append(prices, rec.AppraisalPrice)
		}
	}

	if len(prices) == 0 {
		return CombinedValuation{}
	}

	var sum int64
	low, high := prices[0], prices[0]
	for _, p := range prices {
		sum += p
		if p < low {
			low = p
		}
		if p > high {
			high = p
		}
	}

	market := int64(math.Round(float64(sum) / float64(len(prices))))

	confidence := confidenceStep * len(prices)
	if confidence > 100 {
		confidence = 100
	}

	variation := 0.0
	if low > 0 {
		variation = float64(high-low) / float64(low) * 100
	}

	return CombinedValuation{
		MarketPrice:       market,
		AppraisalPrice:    int64(math.Round(float64(market) * appraisalRatio)),
		MinimumBid:        int64(math.Round(float64(market) * minimumBidRatio)),
		Confidence:        confidence,
		SourceCount:       len(prices),
		PriceRangeLow:     low,
		PriceRangeHigh:    high,
		PriceVariationPct: variation,
		Recommendation:    a.recommend(market),
		RiskLevel:         riskLevel(confidence),
	}
}

// recommend maps the consensus price onto the recommendation bands
func (a *Aggregator) recommend(price int64) Recommendation {
	switch {
	case price > a.policy.HighValueThreshold:
		return RecommendationHighValueCaution
	case price > a.policy.MidValueThreshold:
		return RecommendationMidValueSuitable
	default:
		return RecommendationLowValueOpportunity
	}
}

// riskLevel maps confidence onto the risk bands
func riskLevel(confidence int) RiskLevel {
	switch {
	case confidence >= 75:
		return RiskLow
	case confidence >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}
