package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gavel",
	Short: "Gavel - 법원경매 물건 가치평가 시스템",
	Long: `Gavel Unified CLI

법원경매 물건의 시세/감정가/최저입찰가를 다중 소스 폴백 체인으로
평가하고, 지역별 매각통계 기반 투자 판단을 제공합니다.

Usage:
  go run ./cmd/gavel [command]

Examples:
  go run ./cmd/gavel api
  go run ./cmd/gavel valuate --case 2024타경12345
  go run ./cmd/gavel stats --region 서울특별시 --district 강남구`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
