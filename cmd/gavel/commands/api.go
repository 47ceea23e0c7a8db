package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonhee/gavel/internal/api"
	"github.com/wonhee/gavel/internal/api/handlers"
	"github.com/wonhee/gavel/internal/metrics"
	"github.com/wonhee/gavel/internal/scheduler"
	"github.com/wonhee/gavel/internal/scheduler/jobs"
	"github.com/wonhee/gavel/internal/storage"
	"github.com/wonhee/gavel/internal/valuation"
	"github.com/wonhee/gavel/pkg/config"
	"github.com/wonhee/gavel/pkg/database"
	"github.com/wonhee/gavel/pkg/logger"
	"github.com/wonhee/gavel/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 가치평가 및 매각통계 엔드포인트 제공
- 통계 인덱스 주기 재적재 스케줄러 시작

Endpoints:
  GET  /health                                      - Health check
  POST /api/valuation                               - 물건 가치평가
  GET  /api/valuation/history                       - 최근 평가 이력
  GET  /api/valuation/stream                        - 평가 진행 웹소켓
  GET  /api/statistics/district                     - 구/군 매각통계
  GET  /api/statistics/region-summary               - 지역 요약
  GET  /api/statistics/investment-recommendation    - 투자 판단
  GET  /api/statistics/top-districts                - 상위 구/군 랭킹
  GET  /api/statistics/all-regions                  - 전체 지역 요약
  POST /api/statistics/reload                       - 인덱스 재적재

Example:
  go run ./cmd/gavel api
  go run ./cmd/gavel api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Gavel API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect cache (비활성화 시 로컬 LRU로 대체)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "gavel", redis.TTLValuation)

	// 4. Connect database for history persistence (optional)
	var history valuation.HistoryStore
	if cfg.HistoryEnabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := storage.NewRepository(db, log)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		history = repo

		log.Info("Connected to database, history persistence enabled")
	} else {
		log.Info("No database configured, history persistence disabled")
	}

	// 5. Build services
	valuationService, err := buildValuationService(cfg, log, redisClient, cache, history)
	if err != nil {
		return err
	}
	statisticsService := buildStatisticsService(cfg, log, cache)

	// 6. Create handlers
	valuationHandler := handlers.NewValuationHandler(valuationService, log)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService, log)
	streamHandler := handlers.NewStreamHandler(valuationService, log)

	// 7. Create router and server
	router := api.NewRouter(valuationHandler, statisticsHandler, streamHandler, log)
	server := api.New(cfg, log, router)

	// 8. Start statistics reload scheduler
	sched := scheduler.New(log)
	reloadJob := jobs.NewStatisticsReloadJob(statisticsService, cfg.Statistics.ReloadSchedule, log)
	if err := sched.AddJob(reloadJob); err != nil {
		return fmt.Errorf("schedule statistics reload: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 9. Optional standalone metrics listener
	if cfg.MetricsEnabled && cfg.MetricsPort != "" && cfg.MetricsPort != cfg.Port {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			log.WithField("port", cfg.MetricsPort).Info("Metrics listener started")
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				log.WithError(err).Error("Metrics listener stopped")
			}
		}()
	}

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/valuation")
	fmt.Println("  GET  /api/valuation/history")
	fmt.Println("  GET  /api/valuation/stream")
	fmt.Println("  GET  /api/statistics/district")
	fmt.Println("  GET  /api/statistics/investment-recommendation")
	fmt.Println("  GET  /api/statistics/top-districts")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
