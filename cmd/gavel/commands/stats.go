package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonhee/gavel/internal/statistics"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/logger"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "지역별 매각통계 조회",
	Long: `매각통계 인덱스에서 지역/구/군 통계와 투자 판단을 조회합니다.

--district를 주면 해당 구/군의 상세 통계와 시장 평가를,
주지 않으면 지역 요약과 상위 구/군 랭킹을 출력합니다.

Example:
  go run ./cmd/gavel stats --region 서울특별시
  go run ./cmd/gavel stats --region 서울특별시 --district 강남구
  go run ./cmd/gavel stats --region 서울특별시 --top 10 --metric sale_price_rate`,
	RunE: runStats,
}

var (
	statsRegion   string
	statsDistrict string
	statsTop      int
	statsMetric   string
)

func init() {
	rootCmd.AddCommand(statsCmd)

	// Flags
	statsCmd.Flags().StringVar(&statsRegion, "region", "", "지역 (예: 서울특별시)")
	statsCmd.Flags().StringVar(&statsDistrict, "district", "", "구/군 (예: 강남구)")
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "상위 구/군 출력 개수")
	statsCmd.Flags().StringVar(&statsMetric, "metric", "sale_rate", "랭킹 기준 (sale_rate|sale_price_rate)")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsRegion == "" {
		return fmt.Errorf("--region is required")
	}

	metric := statistics.Metric(statsMetric)
	if !metric.Valid() {
		return fmt.Errorf("invalid --metric %q (valid: sale_rate, sale_price_rate)", statsMetric)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	service := buildStatisticsService(cfg, log, nil)

	if statsDistrict != "" {
		return printDistrictStats(cmd, service)
	}
	return printRegionStats(service, metric)
}

func printDistrictStats(cmd *cobra.Command, service *statistics.Service) error {
	stats, err := service.District(cmd.Context(), statsRegion, statsDistrict)
	if err != nil {
		return fmt.Errorf("lookup %s %s: %w", statsRegion, statsDistrict, err)
	}

	report := service.Assess(cmd.Context(), statsRegion, statsDistrict)

	PrintDoubleSeparator()
	fmt.Printf("  %s %s 매각통계\n", stats.Region, stats.District)
	PrintSeparator()
	fmt.Printf("  경매 건수    : %d건\n", stats.AuctionCount)
	fmt.Printf("  매각 건수    : %d건\n", stats.SaleCount)
	fmt.Printf("  매각률       : %.1f%%\n", stats.SaleRatePct)
	fmt.Printf("  매각가율     : %.1f%%\n", stats.SalePriceRatePct)
	fmt.Printf("  평균 감정가  : %s\n", FormatWon(int64(stats.AvgAppraisalPerCase)))
	fmt.Printf("  평균 매각가  : %s\n", FormatWon(int64(stats.AvgSalePerCase)))
	PrintSeparator()
	fmt.Printf("  시장 점수    : %.1f\n", report.MarketScore)
	fmt.Printf("  경쟁 수준    : %s\n", report.Competition.Label())
	fmt.Printf("  투자 판단    : %s\n", report.Advice.Label())
	fmt.Printf("  근거         : %s\n", report.Reason)
	PrintDoubleSeparator()

	return nil
}

func printRegionStats(service *statistics.Service, metric statistics.Metric) error {
	summary, err := service.RegionSummary(statsRegion)
	if err != nil {
		return fmt.Errorf("lookup region %s: %w", statsRegion, err)
	}

	ranked, err := service.TopDistricts(statsRegion, metric, statsTop)
	if err != nil {
		return fmt.Errorf("rank districts of %s: %w", statsRegion, err)
	}

	PrintDoubleSeparator()
	fmt.Printf("  %s 매각통계 요약\n", summary.Region)
	PrintSeparator()
	fmt.Printf("  경매 건수    : %d건\n", summary.AuctionCount)
	fmt.Printf("  매각 건수    : %d건\n", summary.SaleCount)
	fmt.Printf("  전체 매각률  : %.1f%%\n", summary.OverallSaleRatePct)
	fmt.Printf("  전체 매각가율: %.1f%%\n", summary.OverallSalePriceRatePct)
	PrintSeparator()
	fmt.Printf("  상위 구/군 (%s 기준)\n", metric)
	for i, d := range ranked {
		fmt.Printf("  %2d. %-12s %6.1f%%\n", i+1, d.District, d.Value)
	}
	PrintDoubleSeparator()

	return nil
}
