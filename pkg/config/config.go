package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Failure policies for wagers that exhaust their retries without a fatal classification.
const (
	FailurePolicyContinue = "continue"
	FailurePolicyHalt     = "halt"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Stake API
	BetURL     string
	GraphQLURL string
	Referrer   string

	// Credentials (optional seeds; usually entered through the API)
	AccessToken   string
	LockdownToken string

	// Betting
	Currency string
	Amount   int64
	MaxBets  int

	// Request execution
	RequestTimeout time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	BackoffJitter  time.Duration

	// Notifications
	ShowBigWinNotification bool
	BigWinThreshold        float64

	// Auto-stop
	AutoStopEnabled    bool
	AutoStopMultiplier float64

	// Display
	ShowTopMultipliers  bool
	TopMultipliersCount int

	// Exhausted-retry failure handling
	FailurePolicy         string // "continue" or "halt"
	FailureMaxConsecutive int

	// Lookup
	LookupCacheTTL time.Duration
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Stake API defaults
		BetURL:     getEnvOrDefault("PACKS_BET_URL", "https://stake.us/_api/casino/packs/bet"),
		GraphQLURL: getEnvOrDefault("PACKS_GRAPHQL_URL", "https://stake.us/_api/graphql"),
		Referrer:   getEnvOrDefault("PACKS_REFERRER", "https://stake.us/casino/games/packs"),

		AccessToken:   os.Getenv("STAKE_ACCESS_TOKEN"),
		LockdownToken: os.Getenv("STAKE_LOCKDOWN_TOKEN"),

		// Betting defaults
		Currency: getEnvOrDefault("PACKS_CURRENCY", "gold"),
		Amount:   int64(getIntOrDefault("PACKS_AMOUNT", 1000)),
		MaxBets:  getIntOrDefault("PACKS_MAX_BETS", 1000000),

		// Execution defaults
		RequestTimeout: getDurationOrDefault("PACKS_REQUEST_TIMEOUT", 12*time.Second),
		MaxAttempts:    getIntOrDefault("PACKS_MAX_ATTEMPTS", 8),
		BackoffBase:    getDurationOrDefault("PACKS_BACKOFF_BASE", 1*time.Second),
		BackoffMax:     getDurationOrDefault("PACKS_BACKOFF_MAX", 8*time.Second),
		BackoffJitter:  getDurationOrDefault("PACKS_BACKOFF_JITTER", 400*time.Millisecond),

		// Notification defaults
		ShowBigWinNotification: getBoolOrDefault("SHOW_BIG_WIN_NOTIFICATION", true),
		BigWinThreshold:        getFloat64OrDefault("BIG_WIN_THRESHOLD", 100),

		// Auto-stop defaults
		AutoStopEnabled:    getBoolOrDefault("AUTO_STOP_ENABLED", false),
		AutoStopMultiplier: getFloat64OrDefault("AUTO_STOP_MULTIPLIER", 10000),

		// Display defaults
		ShowTopMultipliers:  getBoolOrDefault("SHOW_TOP_MULTIPLIERS", true),
		TopMultipliersCount: getIntOrDefault("TOP_MULTIPLIERS_COUNT", 10),

		FailurePolicy:         getEnvOrDefault("FAILURE_POLICY", FailurePolicyContinue),
		FailureMaxConsecutive: getIntOrDefault("FAILURE_MAX_CONSECUTIVE", 5),

		LookupCacheTTL: getDurationOrDefault("LOOKUP_CACHE_TTL", 10*time.Minute),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.BetURL == "" {
		return fmt.Errorf("PACKS_BET_URL cannot be empty")
	}

	if c.GraphQLURL == "" {
		return fmt.Errorf("PACKS_GRAPHQL_URL cannot be empty")
	}

	if c.Currency == "" {
		return fmt.Errorf("PACKS_CURRENCY cannot be empty")
	}

	if c.Amount <= 0 {
		return fmt.Errorf("PACKS_AMOUNT must be positive, got %d", c.Amount)
	}

	if c.MaxBets <= 0 {
		return fmt.Errorf("PACKS_MAX_BETS must be positive, got %d", c.MaxBets)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("PACKS_REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("PACKS_MAX_ATTEMPTS must be at least 1, got %d", c.MaxAttempts)
	}

	if c.BackoffBase <= 0 || c.BackoffMax < c.BackoffBase {
		return fmt.Errorf("PACKS_BACKOFF_BASE must be positive and not above PACKS_BACKOFF_MAX, got %v/%v", c.BackoffBase, c.BackoffMax)
	}

	if c.BackoffJitter < 0 {
		return fmt.Errorf("PACKS_BACKOFF_JITTER cannot be negative, got %v", c.BackoffJitter)
	}

	if c.BigWinThreshold <= 0 {
		return fmt.Errorf("BIG_WIN_THRESHOLD must be positive, got %f", c.BigWinThreshold)
	}

	if c.AutoStopMultiplier <= 0 {
		return fmt.Errorf("AUTO_STOP_MULTIPLIER must be positive, got %f", c.AutoStopMultiplier)
	}

	if c.TopMultipliersCount < 1 || c.TopMultipliersCount > 100 {
		return fmt.Errorf("TOP_MULTIPLIERS_COUNT must be between 1 and 100, got %d", c.TopMultipliersCount)
	}

	if c.FailurePolicy != FailurePolicyContinue && c.FailurePolicy != FailurePolicyHalt {
		return fmt.Errorf("FAILURE_POLICY must be 'continue' or 'halt', got %q", c.FailurePolicy)
	}

	if c.FailurePolicy == FailurePolicyHalt && c.FailureMaxConsecutive < 1 {
		return fmt.Errorf("FAILURE_MAX_CONSECUTIVE must be at least 1, got %d", c.FailureMaxConsecutive)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
