package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/logger"
	"github.com/wonhee/gavel/pkg/redis"
)

// valuateCmd represents the valuate command
var valuateCmd = &cobra.Command{
	Use:   "valuate",
	Short: "물건 1건 가치평가 실행",
	Long: `폴백 체인을 한 번 실행해서 물건의 종합 가치평가를 출력합니다.

사건번호 또는 지역+구/군 중 하나는 반드시 지정해야 합니다.

Example:
  go run ./cmd/gavel valuate --case 2024타경12345
  go run ./cmd/gavel valuate --region 서울특별시 --district 강남구 --type 아파트`,
	RunE: runValuate,
}

var (
	valuateCase     string
	valuateRegion   string
	valuateDistrict string
	valuateType     string
)

func init() {
	rootCmd.AddCommand(valuateCmd)

	// Flags
	valuateCmd.Flags().StringVar(&valuateCase, "case", "", "사건번호 (예: 2024타경12345)")
	valuateCmd.Flags().StringVar(&valuateRegion, "region", "", "지역 (예: 서울특별시)")
	valuateCmd.Flags().StringVar(&valuateDistrict, "district", "", "구/군 (예: 강남구)")
	valuateCmd.Flags().StringVar(&valuateType, "type", "", "물건 종류 (예: 아파트)")
}

func runValuate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "gavel", redis.TTLValuation)

	service, err := buildValuationService(cfg, log, redisClient, cache, nil)
	if err != nil {
		return err
	}

	req := valuation.Request{
		CaseNumber:   valuateCase,
		Region:       valuateRegion,
		District:     valuateDistrict,
		PropertyType: valuateType,
	}

	PrintDoubleSeparator()
	fmt.Println("  물건 가치평가")
	PrintSeparator()
	if req.CaseNumber != "" {
		fmt.Printf("  사건번호  : %s\n", req.CaseNumber)
	}
	if loc := req.Location(); loc != "" {
		fmt.Printf("  소재지    : %s\n", loc)
	}
	PrintSeparator()

	start := time.Now()
	result, err := service.ValuateObserved(cmd.Context(), req, printProgress)
	if err != nil {
		return fmt.Errorf("valuation failed: %w", err)
	}

	combined := result.Combined

	fmt.Println()
	fmt.Printf("  사용 티어    : %s (tier %d)\n", result.TierName, result.TierUsed)
	fmt.Printf("  응답 소스    : %d개\n", combined.SourceCount)
	if result.Cached {
		fmt.Println("  (캐시된 결과)")
	}
	PrintSeparator()
	fmt.Printf("  시세         : %s\n", FormatWon(combined.MarketPrice))
	fmt.Printf("  감정가       : %s\n", FormatWon(combined.AppraisalPrice))
	fmt.Printf("  최저입찰가   : %s\n", FormatWon(combined.MinimumBid))
	fmt.Printf("  가격 범위    : %s ~ %s (편차 %.1f%%)\n",
		FormatWon(combined.PriceRangeLow), FormatWon(combined.PriceRangeHigh), combined.PriceVariationPct)
	PrintSeparator()
	fmt.Printf("  신뢰도       : %d%%\n", combined.Confidence)
	fmt.Printf("  리스크       : %s\n", combined.RiskLevel.Label())
	fmt.Printf("  투자 판단    : %s\n", combined.Recommendation.Label())
	PrintDoubleSeparator()
	fmt.Printf("\n✅ 완료 (%.2fs)\n", time.Since(start).Seconds())

	return nil
}

// printProgress renders chain progress events as they happen
func printProgress(ev valuation.ProgressEvent) {
	switch ev.Kind {
	case "tier_start":
		fmt.Printf("  [%d] %s 티어 조회 중...\n", ev.Tier, ev.TierName)
	case "provider_hit":
		fmt.Printf("      ✓ %s 응답\n", ev.SourceID)
	case "provider_miss":
		fmt.Printf("      ✗ %s 실패\n", ev.SourceID)
	case "tier_done":
		if ev.Hits == 0 {
			fmt.Printf("  [%d] %s 티어 응답 없음, 다음 티어로\n", ev.Tier, ev.TierName)
		}
	}
}
