package valuation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Request identifies the property or legal case to value.
// 사건번호 또는 (지역, 구/군) 중 하나는 반드시 있어야 한다.
type Request struct {
	RequestID    string `json:"requestId,omitempty"`
	CaseNumber   string `json:"caseNumber,omitempty"`
	Region       string `json:"region,omitempty"`
	District     string `json:"district,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`
}

// caseNumberPattern matches court case identifiers like "2024타경12345"
var caseNumberPattern = regexp.MustCompile(`^(\d{4})타경(\d+)$`)

// Validate rejects structurally invalid requests before the chain runs
func (r Request) Validate() error {
	if r.CaseNumber == "" && (r.Region == "" || r.District == "") {
		return fmt.Errorf("%w: need caseNumber or region+district", ErrInvalidRequest)
	}

	if r.CaseNumber != "" && !caseNumberPattern.MatchString(r.CaseNumber) {
		return fmt.Errorf("%w: malformed case number %q", ErrInvalidRequest, r.CaseNumber)
	}

	return nil
}

// Location joins region and district into the location string providers expect
func (r Request) Location() string {
	return strings.TrimSpace(strings.TrimSpace(r.Region) + " " + strings.TrimSpace(r.District))
}

// ValuationRecord is one source's opinion about a single subject.
// 세 가격이 모두 0이면 무효 레코드로 폐기된다.
type ValuationRecord struct {
	SourceID       string    `json:"sourceId"`
	Tier           int       `json:"tier"`
	MarketPrice    int64     `json:"marketPrice"`
	AppraisalPrice int64     `json:"appraisalPrice"`
	MinimumBid     int64     `json:"minimumBid"`
	IsSynthetic    bool      `json:"isSynthetic"`
	ObservedAt     time.Time `json:"observedAt"`

	// Descriptive fields passed through from the source when available
	Court        string `json:"court,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`
	Location     string `json:"location,omitempty"`
}

// PriceBearing reports whether the record can contribute to aggregation
func (r ValuationRecord) PriceBearing() bool {
	return r.MarketPrice > 0 || r.AppraisalPrice > 0
}

// Recommendation is the qualitative investment recommendation band
type Recommendation string

const (
	RecommendationHighValueCaution    Recommendation = "HIGH_VALUE_CAUTION"
	RecommendationMidValueSuitable    Recommendation = "MID_VALUE_SUITABLE"
	RecommendationLowValueOpportunity Recommendation = "LOW_VALUE_OPPORTUNITY"
)

// Label returns the human-readable recommendation text
func (r Recommendation) Label() string {
	switch r {
	case RecommendationHighValueCaution:
		return "고가 매물 - 신중한 검토 필요"
	case RecommendationMidValueSuitable:
		return "중가 매물 - 투자 적합"
	case RecommendationLowValueOpportunity:
		return "저가 매물 - 투자 기회"
	default:
		return string(r)
	}
}

// RiskLevel classifies how much the consensus should be trusted
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Label returns the human-readable risk level text
func (l RiskLevel) Label() string {
	switch l {
	case RiskLow:
		return "낮음"
	case RiskMedium:
		return "중간"
	case RiskHigh:
		return "높음"
	default:
		return string(l)
	}
}

// CombinedValuation is the system's single answer for a request.
// SourceCount가 0이면 모든 수치는 0이고 Confidence도 0이다 (정상 종료 상태).
type CombinedValuation struct {
	MarketPrice       int64          `json:"marketPrice"`
	AppraisalPrice    int64          `json:"appraisalPrice"`
	MinimumBid        int64          `json:"minimumBid"`
	Confidence        int            `json:"confidence"`
	SourceCount       int            `json:"sourceCount"`
	PriceRangeLow     int64          `json:"priceRangeLow"`
	PriceRangeHigh    int64          `json:"priceRangeHigh"`
	PriceVariationPct float64        `json:"priceVariationPct"`
	Recommendation    Recommendation `json:"recommendation"`
	RiskLevel         RiskLevel      `json:"riskLevel"`
}

// Empty reports whether no source contributed to this valuation
func (v CombinedValuation) Empty() bool {
	return v.SourceCount == 0
}
