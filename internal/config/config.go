package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	DatabasePath string
	LogLevel     string

	// Upstream data providers
	AvalancheRPCURL string
	CoinGeckoURL    string
	TraderJoeURL    string
	YieldYakURL     string
	YieldYakFarm    string // farm address to read APY for; empty picks the best AVAX farm

	// Background jobs
	YieldSyncSchedule string // cron spec for the yield snapshot job

	// Gas estimation
	RebalanceGasUnits uint64 // fixed gas estimate for a full rebalance
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/snowfolio.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AvalancheRPCURL:   getEnv("AVALANCHE_RPC_URL", "https://api.avax.network/ext/bc/C/rpc"),
		CoinGeckoURL:      getEnv("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		TraderJoeURL:      getEnv("TRADERJOE_URL", "https://api.traderjoexyz.com"),
		YieldYakURL:       getEnv("YIELDYAK_URL", "https://staging-api.yieldyak.com"),
		YieldYakFarm:      getEnv("YIELDYAK_FARM", ""),
		YieldSyncSchedule: getEnv("YIELD_SYNC_SCHEDULE", "@every 10m"),
		RebalanceGasUnits: uint64(getEnvAsInt("REBALANCE_GAS_UNITS", 850000)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.AvalancheRPCURL == "" {
		return fmt.Errorf("AVALANCHE_RPC_URL is required")
	}
	if c.RebalanceGasUnits == 0 {
		return fmt.Errorf("REBALANCE_GAS_UNITS must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
