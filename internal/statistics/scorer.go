package statistics

import (
	"fmt"
	"math"
)

// Market score weights: sale rate is doubled before capping because its
// observed range sits well below the sale-price rate's, then weighted
// 60/40. Fixed design constants.
const (
	saleRateWeight      = 0.6
	salePriceRateWeight = 0.4
)

// CompetitionLevel classifies bidding competition from the sale rate
type CompetitionLevel string

const (
	CompetitionVeryHigh CompetitionLevel = "VERY_HIGH"
	CompetitionHigh     CompetitionLevel = "HIGH"
	CompetitionMedium   CompetitionLevel = "MEDIUM"
	CompetitionLow      CompetitionLevel = "LOW"
	CompetitionVeryLow  CompetitionLevel = "VERY_LOW"
)

// Label returns the human-readable competition text
func (c CompetitionLevel) Label() string {
	switch c {
	case CompetitionVeryHigh:
		return "매우 높음"
	case CompetitionHigh:
		return "높음"
	case CompetitionMedium:
		return "보통"
	case CompetitionLow:
		return "낮음"
	case CompetitionVeryLow:
		return "매우 낮음"
	default:
		return string(c)
	}
}

// Advice is the qualitative investment recommendation band
type Advice string

const (
	AdviceStronglyRecommend Advice = "STRONGLY_RECOMMEND"
	AdviceRecommend         Advice = "RECOMMEND"
	AdviceNeutral           Advice = "NEUTRAL"
	AdviceCaution           Advice = "CAUTION"
	AdviceNotRecommended    Advice = "NOT_RECOMMENDED"
)

// Label returns the human-readable advice text
func (a Advice) Label() string {
	switch a {
	case AdviceStronglyRecommend:
		return "매우 추천"
	case AdviceRecommend:
		return "추천"
	case AdviceNeutral:
		return "보통"
	case AdviceCaution:
		return "신중"
	case AdviceNotRecommended:
		return "비추천"
	default:
		return string(a)
	}
}

// ScoreReport is the full market assessment for one district
type ScoreReport struct {
	MarketScore      float64          `json:"marketScore"`
	Competition      CompetitionLevel `json:"competitionLevel"`
	Advice           Advice           `json:"recommendation"`
	Reason           string           `json:"reason"`
	SaleRatePct      float64          `json:"saleRatePct"`
	SalePriceRatePct float64          `json:"salePriceRatePct"`
}

// Scorer derives the market-condition assessment from district statistics
// ⭐ SSOT: 시장 점수 산식은 여기서만
type Scorer struct{}

// NewScorer creates a scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// MarketScore computes the 0-100 market-condition score
func (s *Scorer) MarketScore(stats DistrictStatistics) float64 {
	saleRateScore := math.Min(stats.SaleRatePct*2, 100)
	score := saleRateScore*saleRateWeight + stats.SalePriceRatePct*salePriceRateWeight
	return math.Round(score*10) / 10
}

// Competition classifies the bidding competition level
func (s *Scorer) Competition(stats DistrictStatistics) CompetitionLevel {
	switch rate := stats.SaleRatePct; {
	case rate >= 35:
		return CompetitionVeryHigh
	case rate >= 25:
		return CompetitionHigh
	case rate >= 15:
		return CompetitionMedium
	case rate >= 10:
		return CompetitionLow
	default:
		return CompetitionVeryLow
	}
}

// Score produces the full report for a resolved district
func (s *Scorer) Score(stats DistrictStatistics) ScoreReport {
	score := s.MarketScore(stats)

	var advice Advice
	var quality string
	switch {
	case score >= 80:
		advice, quality = AdviceStronglyRecommend, "우수한 성과"
	case score >= 65:
		advice, quality = AdviceRecommend, "양호한 성과"
	case score >= 50:
		advice, quality = AdviceNeutral, "평균적 성과"
	case score >= 35:
		advice, quality = AdviceCaution, "주의 필요"
	default:
		advice, quality = AdviceNotRecommended, "낮은 성과"
	}

	return ScoreReport{
		MarketScore:      score,
		Competition:      s.Competition(stats),
		Advice:           advice,
		Reason:           fmt.Sprintf("매각률 %.1f%%, 매각가율 %.1f%%로 %s", stats.SaleRatePct, stats.SalePriceRatePct, quality),
		SaleRatePct:      stats.SaleRatePct,
		SalePriceRatePct: stats.SalePriceRatePct,
	}
}

// NeutralReport is the defined fallback when the district cannot be
// resolved. Not an error.
func NeutralReport() ScoreReport {
	return ScoreReport{
		MarketScore: 50,
		Competition: CompetitionMedium,
		Advice:      AdviceNeutral,
		Reason:      "데이터 부족",
	}
}
