package statistics

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// RegionIndex is the immutable lookup table over district statistics.
// 적재 후 변경 금지: 갱신은 새 인덱스를 만들어 IndexStore로 교체한다.
// ⭐ SSOT: 구/군 통계 조회는 이 인덱스에서만
type RegionIndex struct {
	regions     map[string]*regionTable
	regionOrder []string
}

// regionTable keeps one region's districts in load order
type regionTable struct {
	byName  map[string]DistrictStatistics
	order   []string
	summary RegionSummary
}

// BuildIndex constructs an index from ingested rows. Per-region load order
// is preserved; it is the tie-break order for ranking. Rows for the same
// (region, district) overwrite earlier ones.
func BuildIndex(rows []Row) *RegionIndex {
	idx := &RegionIndex{regions: make(map[string]*regionTable)}

	for _, row := range rows {
		tbl, ok := idx.regions[row.Region]
		if !ok {
			tbl = &regionTable{byName: make(map[string]DistrictStatistics)}
			idx.regions[row.Region] = tbl
			idx.regionOrder = append(idx.regionOrder, row.Region)
		}

		stats := DistrictStatistics{
			Region:              row.Region,
			District:            row.District,
			AuctionCount:        row.AuctionCount,
			SaleCount:           row.SaleCount,
			AppraisalValueTotal: row.AppraisalValueTotal,
			SaleValueTotal:      row.SaleValueTotal,
			SaleRatePct:         row.SaleRatePct,
			SalePriceRatePct:    row.SalePriceRatePct,
		}
		if row.AuctionCount > 0 {
			stats.AvgAppraisalPerCase = float64(row.AppraisalValueTotal) / float64(row.AuctionCount)
		}
		if row.SaleCount > 0 {
			stats.AvgSalePerCase = float64(row.SaleValueTotal) / float64(row.SaleCount)
		}

		if _, exists := tbl.byName[row.District]; !exists {
			tbl.order = append(tbl.order, row.District)
		}
		tbl.byName[row.District] = stats
	}

	// Region roll-ups, divide-by-zero guarded to 0.0
	for region, tbl := range idx.regions {
		sum := RegionSummary{Region: region}
		for _, name := range tbl.order {
			d := tbl.byName[name]
			sum.AuctionCount += d.AuctionCount
			sum.SaleCount += d.SaleCount
			sum.AppraisalValueTotal += d.AppraisalValueTotal
			sum.SaleValueTotal += d.SaleValueTotal
		}
		if sum.AuctionCount > 0 {
			sum.OverallSaleRatePct = float64(sum.SaleCount) / float64(sum.AuctionCount) * 100
		}
		if sum.AppraisalValueTotal > 0 {
			sum.OverallSalePriceRatePct = float64(sum.SaleValueTotal) / float64(sum.AppraisalValueTotal) * 100
		}
		tbl.summary = sum
	}

	return idx
}

// ResolveDistrict finds the district record for a query that may be
// spelled with varying granularity. Matching tiers, first match wins:
//
//  1. exact name within the region
//  2. last token of a multi-token query, exact ("수원시 영통구" → "영통구")
//  3. substring either way, longest stored name wins (deterministic;
//     ties fall back to load order)
func (idx *RegionIndex) ResolveDistrict(region, districtQuery string) (DistrictStatistics, error) {
	tbl, ok := idx.regions[region]
	if !ok {
		return DistrictStatistics{}, fmt.Errorf("%w: region %q", ErrNotFound, region)
	}

	// 1. exact
	if stats, ok := tbl.byName[districtQuery]; ok {
		return stats, nil
	}

	// 2. simplified compound name
	if tokens := strings.Fields(districtQuery); len(tokens) > 1 {
		if stats, ok := tbl.byName[tokens[len(tokens)-1]]; ok {
			return stats, nil
		}
	}

	// 3. substring scan, longest-match-wins
	best := ""
	for _, name := range tbl.order {
		if strings.Contains(districtQuery, name) || strings.Contains(name, districtQuery) {
			if len(name) > len(best) {
				best = name
			}
		}
	}
	if best != "" {
		return tbl.byName[best], nil
	}

	return DistrictStatistics{}, fmt.Errorf("%w: district %q in %q", ErrNotFound, districtQuery, region)
}

// ResolveRegionSummary returns the region roll-up. No fuzzy matching.
func (idx *RegionIndex) ResolveRegionSummary(region string) (RegionSummary, error) {
	tbl, ok := idx.regions[region]
	if !ok {
		return RegionSummary{}, fmt.Errorf("%w: region %q", ErrNotFound, region)
	}
	return tbl.summary, nil
}

// TopDistricts ranks a region's districts by the given metric, descending.
// Stable sort: equal values keep load order. Truncated to limit.
func (idx *RegionIndex) TopDistricts(region string, metric Metric, limit int) ([]RankedDistrict, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	tbl, ok := idx.regions[region]
	if !ok {
		return nil, fmt.Errorf("%w: region %q", ErrNotFound, region)
	}

	ranked := make([]RankedDistrict, 0, len(tbl.order))
	for _, name := range tbl.order {
		d := tbl.byName[name]
		value := d.SaleRatePct
		if metric == MetricSalePriceRate {
			value = d.SalePriceRatePct
		}
		ranked = append(ranked, RankedDistrict{District: name, Value: value})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Regions returns region names in load order
func (idx *RegionIndex) Regions() []string {
	out := make([]string, len(idx.regionOrder))
	copy(out, idx.regionOrder)
	return out
}

// AllSummaries returns every region roll-up in load order
func (idx *RegionIndex) AllSummaries() []RegionSummary {
	out := make([]RegionSummary, 0, len(idx.regionOrder))
	for _, region := range idx.regionOrder {
		out = append(out, idx.regions[region].summary)
	}
	return out
}

// DistrictCount returns the total number of indexed districts
func (idx *RegionIndex) DistrictCount() int {
	n := 0
	for _, tbl := range idx.regions {
		n += len(tbl.order)
	}
	return n
}

// IndexStore publishes the active index. Reload builds a whole new
// RegionIndex and swaps it atomically, so readers never observe a
// partially loaded table.
type IndexStore struct {
	current atomic.Pointer[RegionIndex]
}

// NewIndexStore creates a store holding the given index
func NewIndexStore(idx *RegionIndex) *IndexStore {
	s := &IndexStore{}
	s.current.Store(idx)
	return s
}

// Load returns the active index
func (s *IndexStore) Load() *RegionIndex {
	return s.current.Load()
}

// Swap publishes a new index
func (s *IndexStore) Swap(idx *RegionIndex) {
	s.current.Store(idx)
}
