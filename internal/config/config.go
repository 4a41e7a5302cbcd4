package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"gte=0,lte=65535"`
	LogLevel    string `validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogFormat   string `validate:"oneof=text json"`
	LogDir      string
	Environment string
	ServiceName string
	Version     string
	APIKey      string `validate:"required"` // API key for authentication

	// Database
	StorageBackend    string `validate:"oneof=postgres memory"`
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int           `validate:"gt=0"`
	DBMaxConnIdleTime time.Duration `validate:"gt=0"`
	DBMaxConnLifetime time.Duration `validate:"gt=0"`

	// Crash game
	HouseEdge            float64       `validate:"gt=0,lt=1"`
	MaxMultiplier        float64       `validate:"gt=1"`
	MinBet               int64         `validate:"gt=0"`
	MaxBet               int64         `validate:"gte=0"` // 0 = bounded only by the max multiplier
	WaitingDuration      time.Duration `validate:"gt=0"`
	DisplayDuration      time.Duration `validate:"gte=0"`
	TickInterval         time.Duration `validate:"gt=0"`
	MinCashoutMultiplier float64       `validate:"gte=1"`
	GrowthRatePerMs      float64       `validate:"gt=0"`
	SeedBalances         map[string]int64

	// Settlement
	SettlementWorkers        int           `validate:"gt=0"`
	SettlementQueueSize      int           `validate:"gt=0"`
	RetryInitialInterval     time.Duration `validate:"gt=0"`
	RetryMaxInterval         time.Duration `validate:"gtefield=RetryInitialInterval"`
	RetryMaxAttempts         int           `validate:"gt=0"`
	DeadLetterPath           string        `validate:"required"`
	DeadLetterReplayInterval time.Duration `validate:"gt=0"`

	// Streaming and reads
	StreamClientBuffer int `validate:"gt=0"`
	AllowedOrigins     []string
	TrustedProxies     []string
	HistoryCacheSize   int           `validate:"gt=0"`
	HistoryCacheTTL    time.Duration `validate:"gt=0"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		APIKey:      getEnv("API_KEY", ""),

		StorageBackend:    getEnv("STORAGE_BACKEND", StorageBackendPostgres),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "crashround"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		HouseEdge:            getEnvAsFloat("CRASH_HOUSE_EDGE", DefaultHouseEdge),
		MaxMultiplier:        getEnvAsFloat("CRASH_MAX_MULTIPLIER", DefaultMaxMultiplier),
		MinBet:               int64(getEnvAsInt("CRASH_MIN_BET", DefaultMinBet)),
		MaxBet:               int64(getEnvAsInt("CRASH_MAX_BET", DefaultMaxBet)),
		WaitingDuration:      getEnvAsMillis("CRASH_WAITING_DURATION_MS", DefaultWaitingDurationMs),
		DisplayDuration:      getEnvAsMillis("CRASH_DISPLAY_DURATION_MS", DefaultDisplayDurationMs),
		TickInterval:         getEnvAsMillis("CRASH_TICK_INTERVAL_MS", DefaultTickIntervalMs),
		MinCashoutMultiplier: getEnvAsFloat("CRASH_MIN_CASHOUT_MULTIPLIER", DefaultMinCashoutMultiplier),
		GrowthRatePerMs:      getEnvAsFloat("CRASH_GROWTH_RATE_PER_MS", DefaultGrowthRatePerMs),

		SettlementWorkers:        getEnvAsInt("SETTLEMENT_WORKERS", DefaultSettlementWorkers),
		SettlementQueueSize:      getEnvAsInt("SETTLEMENT_QUEUE_SIZE", DefaultSettlementQueueSize),
		RetryInitialInterval:     getEnvAsDuration("SETTLEMENT_RETRY_INITIAL", DefaultRetryInitialInterval),
		RetryMaxInterval:         getEnvAsDuration("SETTLEMENT_RETRY_MAX", DefaultRetryMaxInterval),
		RetryMaxAttempts:         getEnvAsInt("SETTLEMENT_RETRY_ATTEMPTS", DefaultRetryMaxAttempts),
		DeadLetterPath:           getEnv("DEADLETTER_PATH", DefaultDeadLetterPath),
		DeadLetterReplayInterval: getEnvAsDuration("DEADLETTER_REPLAY_INTERVAL", DefaultDeadLetterReplayInterval),

		StreamClientBuffer: getEnvAsInt("STREAM_CLIENT_BUFFER", DefaultStreamClientBuffer),
		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvAsList("TRUSTED_PROXIES", nil),
		HistoryCacheSize:   getEnvAsInt("HISTORY_CACHE_SIZE", DefaultHistoryCacheSize),
		HistoryCacheTTL:    getEnvAsDuration("HISTORY_CACHE_TTL", DefaultHistoryCacheTTL),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidPort, err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s", ErrMsgAPIKeyRequired)
	}

	seeds, err := parseSeedBalances(getEnv("CRASH_SEED_BALANCES", ""))
	if err != nil {
		return nil, err
	}
	cfg.SeedBalances = seeds

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	return nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsMillis reads an integer millisecond count
func getEnvAsMillis(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultMs)) * time.Millisecond
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// parseSeedBalances parses "alice:1000,bob:500"
func parseSeedBalances(raw string) (map[string]int64, error) {
	seeds := make(map[string]int64)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, amountStr, ok := strings.Cut(item, ":")
		id = strings.TrimSpace(id)
		amount, err := strconv.ParseInt(strings.TrimSpace(amountStr), 10, 64)
		if !ok || id == "" || err != nil || amount < 0 {
			return nil, fmt.Errorf("%s: %q", ErrMsgInvalidSeedBalances, item)
		}
		seeds[id] = amount
	}
	return seeds, nil
}
