package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Source providers
	CourtAPI    CourtAPIConfig
	KBLand      KBLandConfig
	CourtScrape CourtScrapeConfig
	LandAgg     LandAggConfig

	// Valuation
	Valuation ValuationConfig

	// Statistics
	Statistics StatisticsConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// DatabaseConfig holds PostgreSQL configuration.
// 이력 저장은 선택 사항: URL이 비어 있으면 저장 비활성화.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// CourtAPIConfig holds the official court-auction API configuration
type CourtAPIConfig struct {
	BaseURL string
	APIKey  string
	Enabled bool
}

// KBLandConfig holds the KB Land official API configuration
type KBLandConfig struct {
	BaseURL string
	APIKey  string
	Enabled bool
}

// CourtScrapeConfig holds the court-auction site direct retrieval configuration
type CourtScrapeConfig struct {
	BaseURL string
	Enabled bool
}

// LandAggConfig holds the aggregated land-portal search configuration
type LandAggConfig struct {
	BaseURL string
	Enabled bool
}

// ValuationConfig holds fallback-chain and aggregation policy
type ValuationConfig struct {
	ProviderTimeout time.Duration // 개별 소스 호출 타임아웃
	RatePerOrigin   float64       // 소스별 초당 요청 한도

	// 투자 추천 가격 기준 (원)
	HighValueThreshold int64
	MidValueThreshold  int64

	CacheTTL time.Duration
}

// StatisticsConfig holds the regional sale-statistics configuration
type StatisticsConfig struct {
	DataDir        string // 매각통계 CSV 디렉터리
	ReloadSchedule string // cron spec (초 단위 포함)
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Source providers
		CourtAPI: CourtAPIConfig{
			BaseURL: getEnv("COURT_API_BASE_URL", "https://api.courtauction.go.kr/v1"),
			APIKey:  getEnv("COURT_API_KEY", ""),
			Enabled: getEnvAsBool("COURT_API_ENABLED", true),
		},
		KBLand: KBLandConfig{
			BaseURL: getEnv("KBLAND_BASE_URL", "https://api.kbland.kr/api"),
			APIKey:  getEnv("KBLAND_API_KEY", ""),
			Enabled: getEnvAsBool("KBLAND_ENABLED", true),
		},
		CourtScrape: CourtScrapeConfig{
			BaseURL: getEnv("COURT_SCRAPE_BASE_URL", "https://www.courtauction.go.kr"),
			Enabled: getEnvAsBool("COURT_SCRAPE_ENABLED", true),
		},
		LandAgg: LandAggConfig{
			BaseURL: getEnv("LAND_AGG_BASE_URL", "https://land.naver.com/api"),
			Enabled: getEnvAsBool("LAND_AGG_ENABLED", true),
		},

		// Valuation
		Valuation: ValuationConfig{
			ProviderTimeout:    getEnvAsDuration("PROVIDER_TIMEOUT", "10s"),
			RatePerOrigin:      getEnvAsFloat("PROVIDER_RATE_PER_SEC", 5),
			HighValueThreshold: getEnvAsInt64("HIGH_VALUE_THRESHOLD", 300_000_000),
			MidValueThreshold:  getEnvAsInt64("MID_VALUE_THRESHOLD", 200_000_000),
			CacheTTL:           getEnvAsDuration("VALUATION_CACHE_TTL", "10m"),
		},

		// Statistics
		Statistics: StatisticsConfig{
			DataDir:        getEnv("STATS_DATA_DIR", "data/statistics"),
			ReloadSchedule: getEnv("STATS_RELOAD_SCHEDULE", "0 0 5 * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Valuation.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	if c.Valuation.MidValueThreshold >= c.Valuation.HighValueThreshold {
		return fmt.Errorf("MID_VALUE_THRESHOLD must be below HIGH_VALUE_THRESHOLD")
	}

	return nil
}

// HistoryEnabled reports whether valuation history persistence is configured
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
