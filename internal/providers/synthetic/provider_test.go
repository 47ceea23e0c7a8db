package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonhee/gavel/internal/valuation"
)

func TestProvider_Deterministic(t *testing.T) {
	p := NewProvider()
	req := valuation.Request{CaseNumber: "2024타경12345"}

	first, err := p.Fetch(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.MarketPrice, second.MarketPrice)
	assert.Equal(t, first.AppraisalPrice, second.AppraisalPrice)
	assert.Equal(t, first.Court, second.Court)
}

func TestProvider_PriceDerivation(t *testing.T) {
	p := NewProvider()

	// serial 12345 → 12345%100 = 45 → 2억 + 4,500만
	rec, err := p.Fetch(context.Background(), valuation.Request{CaseNumber: "2024타경12345"})
	require.NoError(t, err)

	assert.Equal(t, int64(245_000_000), rec.MarketPrice)
	assert.Equal(t, int64(220_500_000), rec.AppraisalPrice, "appraisal is 90% of market")
	assert.Equal(t, int64(154_350_000), rec.MinimumBid, "minimum bid is 70% of appraisal")
	assert.True(t, rec.IsSynthetic)
	assert.True(t, rec.PriceBearing())
}

func TestProvider_LocationFallback(t *testing.T) {
	p := NewProvider()

	// 사건번호 없이 위치만 있어도 항상 성공하고, 같은 위치는 같은 결과
	req := valuation.Request{Region: "서울특별시", District: "강남구"}
	first, err := p.Fetch(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "서울특별시 강남구", first.Location)
	assert.Equal(t, first.MarketPrice, second.MarketPrice)
	assert.NotEmpty(t, first.Court)
	assert.NotEmpty(t, first.PropertyType)
}

func TestProvider_RequestFieldsPassThrough(t *testing.T) {
	p := NewProvider()

	rec, err := p.Fetch(context.Background(), valuation.Request{
		CaseNumber:   "2024타경7",
		Region:       "부산광역시",
		District:     "해운대구",
		PropertyType: "아파트",
	})
	require.NoError(t, err)

	assert.Equal(t, "부산광역시 해운대구", rec.Location)
	assert.Equal(t, "아파트", rec.PropertyType)
}
