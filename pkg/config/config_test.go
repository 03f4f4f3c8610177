package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		HTTPPort:              "8080",
		BetURL:                "https://stake.test/_api/casino/packs/bet",
		GraphQLURL:            "https://stake.test/_api/graphql",
		Currency:              "gold",
		Amount:                1000,
		MaxBets:               10,
		RequestTimeout:        12 * time.Second,
		MaxAttempts:           8,
		BackoffBase:           time.Second,
		BackoffMax:            8 * time.Second,
		BackoffJitter:         400 * time.Millisecond,
		BigWinThreshold:       100,
		AutoStopMultiplier:    10000,
		TopMultipliersCount:   10,
		FailurePolicy:         FailurePolicyContinue,
		FailureMaxConsecutive: 5,
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gold", cfg.Currency)
	assert.Equal(t, int64(1000), cfg.Amount)
	assert.Equal(t, 1000000, cfg.MaxBets)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 8, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.BackoffBase)
	assert.Equal(t, 8*time.Second, cfg.BackoffMax)
	assert.Equal(t, 400*time.Millisecond, cfg.BackoffJitter)
	assert.True(t, cfg.ShowBigWinNotification)
	assert.Equal(t, 100.0, cfg.BigWinThreshold)
	assert.False(t, cfg.AutoStopEnabled)
	assert.Equal(t, 10000.0, cfg.AutoStopMultiplier)
	assert.True(t, cfg.ShowTopMultipliers)
	assert.Equal(t, 10, cfg.TopMultipliersCount)
	assert.Equal(t, FailurePolicyContinue, cfg.FailurePolicy)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PACKS_AMOUNT", "250")
	t.Setenv("PACKS_MAX_BETS", "3")
	t.Setenv("AUTO_STOP_ENABLED", "true")
	t.Setenv("AUTO_STOP_MULTIPLIER", "500")
	t.Setenv("TOP_MULTIPLIERS_COUNT", "25")
	t.Setenv("PACKS_REQUEST_TIMEOUT", "3s")
	t.Setenv("STAKE_ACCESS_TOKEN", "access")
	t.Setenv("STAKE_LOCKDOWN_TOKEN", "lockdown")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, int64(250), cfg.Amount)
	assert.Equal(t, 3, cfg.MaxBets)
	assert.True(t, cfg.AutoStopEnabled)
	assert.Equal(t, 500.0, cfg.AutoStopMultiplier)
	assert.Equal(t, 25, cfg.TopMultipliersCount)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "access", cfg.AccessToken)
	assert.Equal(t, "lockdown", cfg.LockdownToken)
}

func TestLoadFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PACKS_AMOUNT", "lots")
	t.Setenv("AUTO_STOP_ENABLED", "maybe")
	t.Setenv("PACKS_BACKOFF_MAX", "forever")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, int64(1000), cfg.Amount)
	assert.False(t, cfg.AutoStopEnabled)
	assert.Equal(t, 8*time.Second, cfg.BackoffMax)
}

func TestLoadFromEnv_InvalidFails(t *testing.T) {
	t.Setenv("TOP_MULTIPLIERS_COUNT", "101")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOP_MULTIPLIERS_COUNT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:   "zero-amount",
			mutate: func(c *Config) { c.Amount = 0 },
			errMsg: "PACKS_AMOUNT must be positive, got 0",
		},
		{
			name:   "negative-max-bets",
			mutate: func(c *Config) { c.MaxBets = -1 },
			errMsg: "PACKS_MAX_BETS must be positive, got -1",
		},
		{
			name:   "zero-attempts",
			mutate: func(c *Config) { c.MaxAttempts = 0 },
			errMsg: "PACKS_MAX_ATTEMPTS must be at least 1, got 0",
		},
		{
			name:   "backoff-max-below-base",
			mutate: func(c *Config) { c.BackoffMax = 500 * time.Millisecond },
			errMsg: "PACKS_BACKOFF_BASE must be positive and not above PACKS_BACKOFF_MAX, got 1s/500ms",
		},
		{
			name:   "zero-big-win-threshold",
			mutate: func(c *Config) { c.BigWinThreshold = 0 },
			errMsg: "BIG_WIN_THRESHOLD must be positive, got 0.000000",
		},
		{
			name:   "top-count-zero",
			mutate: func(c *Config) { c.TopMultipliersCount = 0 },
			errMsg: "TOP_MULTIPLIERS_COUNT must be between 1 and 100, got 0",
		},
		{
			name:   "unknown-policy",
			mutate: func(c *Config) { c.FailurePolicy = "ignore" },
			errMsg: `FAILURE_POLICY must be 'continue' or 'halt', got "ignore"`,
		},
		{
			name: "halt-without-limit",
			mutate: func(c *Config) {
				c.FailurePolicy = FailurePolicyHalt
				c.FailureMaxConsecutive = 0
			},
			errMsg: "FAILURE_MAX_CONSECUTIVE must be at least 1, got 0",
		},
		{
			name:   "empty-currency",
			mutate: func(c *Config) { c.Currency = "" },
			errMsg: "PACKS_CURRENCY cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = NewLogger("")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
