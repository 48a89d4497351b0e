package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL           string
	Port                  string
	IsProduction          bool
	BaseCurrency          string
	EntityID              string
	StrictUnknownAccounts bool
	RateLimit             string // ulule/limiter format, e.g. "100-M"
	DBMaxConns            int32
	DBMinConns            int32
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("ENTITY_ID", "default")
	viper.SetDefault("STRICT_UNKNOWN_ACCOUNTS", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIN_CONNS", 2)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:           viper.GetString("PGSQL_URL"),
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		BaseCurrency:          viper.GetString("BASE_CURRENCY"),
		EntityID:              viper.GetString("ENTITY_ID"),
		StrictUnknownAccounts: viper.GetBool("STRICT_UNKNOWN_ACCOUNTS"),
		RateLimit:             viper.GetString("RATE_LIMIT"),
		DBMaxConns:            viper.GetInt32("DB_MAX_CONNS"),
		DBMinConns:            viper.GetInt32("DB_MIN_CONNS"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if len(cfg.BaseCurrency) != 3 {
		log.Printf("Warning: Invalid BASE_CURRENCY %q. Defaulting to USD.\n", cfg.BaseCurrency)
		cfg.BaseCurrency = "USD"
	}
	if cfg.DBMaxConns <= 0 || cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		log.Printf("Warning: Invalid pool sizing DB_MAX_CONNS=%d DB_MIN_CONNS=%d. Defaulting to 10/2.\n", cfg.DBMaxConns, cfg.DBMinConns)
		cfg.DBMaxConns = 10
		cfg.DBMinConns = 2
	}

	return cfg, nil
}
