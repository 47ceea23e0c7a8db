package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoulRows() []Row {
	return []Row{
		{Region: "서울특별시", District: "강남구", AuctionCount: 120, SaleCount: 42, AppraisalValueTotal: 96_000_000_000, SaleValueTotal: 33_600_000_000, SaleRatePct: 35.0, SalePriceRatePct: 87.5},
		{Region: "서울특별시", District: "남구", AuctionCount: 40, SaleCount: 8, AppraisalValueTotal: 12_000_000_000, SaleValueTotal: 2_400_000_000, SaleRatePct: 20.0, SalePriceRatePct: 70.0},
		{Region: "서울특별시", District: "서초구", AuctionCount: 90, SaleCount: 30, AppraisalValueTotal: 81_000_000_000, SaleValueTotal: 27_000_000_000, SaleRatePct: 33.3, SalePriceRatePct: 85.0},
		{Region: "경기도", District: "영통구", AuctionCount: 60, SaleCount: 15, AppraisalValueTotal: 18_000_000_000, SaleValueTotal: 5_400_000_000, SaleRatePct: 25.0, SalePriceRatePct: 75.0},
		{Region: "경기도", District: "분당구", AuctionCount: 80, SaleCount: 20, AppraisalValueTotal: 40_000_000_000, SaleValueTotal: 13_000_000_000, SaleRatePct: 25.0, SalePriceRatePct: 81.0},
	}
}

func TestResolveDistrict_Exact(t *testing.T) {
	idx := BuildIndex(seoulRows())

	// "남구"는 "강남구"의 부분 문자열이지만 정확 일치가 항상 이긴다
	stats, err := idx.ResolveDistrict("서울특별시", "남구")
	require.NoError(t, err)
	assert.Equal(t, "남구", stats.District)
	assert.Equal(t, int64(40), stats.AuctionCount)
}

func TestResolveDistrict_CompoundName(t *testing.T) {
	idx := BuildIndex(seoulRows())

	// 복합 표기는 마지막 토큰으로 재시도한다
	stats, err := idx.ResolveDistrict("경기도", "수원시 영통구")
	require.NoError(t, err)
	assert.Equal(t, "영통구", stats.District)
}

func TestResolveDistrict_Substring(t *testing.T) {
	idx := BuildIndex(seoulRows())

	// 질의가 저장된 이름을 포함하는 경우
	stats, err := idx.ResolveDistrict("서울특별시", "강남구청앞")
	require.NoError(t, err)
	assert.Equal(t, "강남구", stats.District)

	// 저장된 이름이 질의를 포함하는 경우
	stats, err = idx.ResolveDistrict("서울특별시", "서초")
	require.NoError(t, err)
	assert.Equal(t, "서초구", stats.District)
}

func TestResolveDistrict_SubstringLongestWins(t *testing.T) {
	// "강남구청앞" 질의는 "강남구"와 "남구" 모두에 걸리지만
	// 더 긴 저장 이름이 결정적으로 선택된다
	idx := BuildIndex(seoulRows())

	stats, err := idx.ResolveDistrict("서울특별시", "강남구청앞")
	require.NoError(t, err)
	assert.Equal(t, "강남구", stats.District)
}

func TestResolveDistrict_NotFound(t *testing.T) {
	idx := BuildIndex(seoulRows())

	_, err := idx.ResolveDistrict("서울특별시", "해운대구")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = idx.ResolveDistrict("제주특별자치도", "강남구")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveRegionSummary(t *testing.T) {
	idx := BuildIndex(seoulRows())

	summary, err := idx.ResolveRegionSummary("서울특별시")
	require.NoError(t, err)

	assert.Equal(t, int64(250), summary.AuctionCount)
	assert.Equal(t, int64(80), summary.SaleCount)
	assert.InDelta(t, 32.0, summary.OverallSaleRatePct, 0.01)

	// 요약은 퍼지 매칭을 하지 않는다
	_, err = idx.ResolveRegionSummary("서울")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopDistricts(t *testing.T) {
	idx := BuildIndex(seoulRows())

	ranked, err := idx.TopDistricts("서울특별시", MetricSaleRate, 2)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "강남구", ranked[0].District)
	assert.Equal(t, 35.0, ranked[0].Value)
	assert.Equal(t, "서초구", ranked[1].District)
}

func TestTopDistricts_StableOnTies(t *testing.T) {
	idx := BuildIndex(seoulRows())

	// 영통구와 분당구는 매각률이 같다. 적재 순서가 유지되어야 한다.
	ranked, err := idx.TopDistricts("경기도", MetricSaleRate, 0)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "영통구", ranked[0].District)
	assert.Equal(t, "분당구", ranked[1].District)
}

func TestTopDistricts_InvalidMetric(t *testing.T) {
	idx := BuildIndex(seoulRows())

	_, err := idx.TopDistricts("서울특별시", Metric("profit"), 5)
	assert.Error(t, err)
}

func TestBuildIndex_DuplicateOverwrites(t *testing.T) {
	rows := []Row{
		{Region: "서울특별시", District: "강남구", AuctionCount: 10, SaleRatePct: 10},
		{Region: "서울특별시", District: "강남구", AuctionCount: 99, SaleRatePct: 50},
	}
	idx := BuildIndex(rows)

	stats, err := idx.ResolveDistrict("서울특별시", "강남구")
	require.NoError(t, err)
	assert.Equal(t, int64(99), stats.AuctionCount, "later rows overwrite earlier ones")
	assert.Equal(t, 1, idx.DistrictCount())
}

func TestBuildIndex_DerivedAverages(t *testing.T) {
	idx := BuildIndex(seoulRows())

	stats, err := idx.ResolveDistrict("서울특별시", "강남구")
	require.NoError(t, err)

	assert.InDelta(t, 800_000_000, stats.AvgAppraisalPerCase, 0.1)
	assert.InDelta(t, 800_000_000, stats.AvgSalePerCase, 0.1)

	// 건수가 0이면 평균도 0 (0으로 나누지 않음)
	empty := BuildIndex([]Row{{Region: "서울특별시", District: "중구"}})
	stats, err = empty.ResolveDistrict("서울특별시", "중구")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AvgAppraisalPerCase)
}

func TestIndexStore_Swap(t *testing.T) {
	store := NewIndexStore(BuildIndex(nil))
	assert.Equal(t, 0, store.Load().DistrictCount())

	store.Swap(BuildIndex(seoulRows()))
	assert.Equal(t, 5, store.Load().DistrictCount())

	regions := store.Load().Regions()
	assert.Equal(t, []string{"서울특별시", "경기도"}, regions)
}
