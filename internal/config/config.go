package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/polysignal/engine/internal/secrets"
)

// AuthMode represents the authentication mode for the Data API
type AuthMode string

const (
	AuthModeNone   AuthMode = "none"
	AuthModeBearer AuthMode = "bearer"
	AuthModeAPIKey AuthMode = "api_key"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string

	// Gamma API (market metadata)
	GammaAPIBaseURL string

	// Data API (trades + positions)
	DataAPIBaseURL      string
	DataAPIAuthMode     AuthMode
	DataAPIBearerToken  string
	DataAPIAPIKey       string
	DataAPIExtraHeaders map[string]string

	// Wallet qualification thresholds
	MinTotalPnL    float64 // Minimum lifetime profit to qualify
	MinRealizedPnL float64 // Minimum effective realized profit
	MinMarkets     int     // Minimum distinct markets traded
	MinClosedWins  int     // Minimum winning closed positions

	// Trade pagination
	TradePageLimit int
	TradeMaxPages  int

	// Rate limits (requests per second)
	DataAPITradesRPS    float64
	DataAPIPositionsRPS float64
	GammaAPIEventsRPS   float64

	// Worker pool
	StatsWorkers int

	// Database (optional run history; empty DSN disables it)
	DatabaseDSN         string
	DatabaseMaxConns    int
	DatabaseMaxIdleTime time.Duration

	// Alerts
	AlertMode         string // log, discord, smtp (comma-separated for multi)
	DiscordWebhookURL string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	SMTPFrom          string
	SMTPTo            []string

	// Metrics/Health (0 disables the HTTP server)
	MetricsPort int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:         getEnv("ENVIRONMENT", "production"),
		GammaAPIBaseURL:     getEnv("GAMMA_API_BASE_URL", "https://gamma-api.polymarket.com"),
		DataAPIBaseURL:      getEnv("DATA_API_BASE_URL", "https://data-api.polymarket.com"),
		DataAPIAuthMode:     AuthMode(getEnv("DATA_API_AUTH_MODE", "none")),
		DataAPIBearerToken:  secrets.GetOptionalSecret("DATA_API_BEARER_TOKEN", ""),
		DataAPIAPIKey:       secrets.GetOptionalSecret("DATA_API_API_KEY", ""),
		MinTotalPnL:         getEnvFloat("MIN_TOTAL_PNL", 5000.0),
		MinRealizedPnL:      getEnvFloat("MIN_REALIZED_PNL", 500.0),
		MinMarkets:          getEnvInt("MIN_MARKETS", 5),
		MinClosedWins:       getEnvInt("MIN_CLOSED_WINS", 3),
		TradePageLimit:      getEnvInt("TRADE_PAGE_LIMIT", 500),
		TradeMaxPages:       getEnvInt("TRADE_MAX_PAGES", 6),
		DataAPITradesRPS:    getEnvFloat("DATA_API_TRADES_RPS", 2.0),
		DataAPIPositionsRPS: getEnvFloat("DATA_API_POSITIONS_RPS", 10.0),
		GammaAPIEventsRPS:   getEnvFloat("GAMMA_API_EVENTS_RPS", 5.0),
		StatsWorkers:        getEnvInt("STATS_WORKERS", 10),
		DatabaseDSN:         getEnv("DATABASE_DSN", ""),
		DatabaseMaxConns:    getEnvInt("DATABASE_MAX_CONNS", 10),
		DatabaseMaxIdleTime: time.Duration(getEnvInt("DATABASE_MAX_IDLE_TIME_MINS", 5)) * time.Minute,
		AlertMode:           getEnv("ALERT_MODE", "log"),
		DiscordWebhookURL:   secrets.GetOptionalSecret("DISCORD_WEBHOOK_URL", ""),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnvInt("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPassword:        secrets.GetOptionalSecret("SMTP_PASSWORD", ""),
		SMTPFrom:            getEnv("SMTP_FROM", "polysignal@example.com"),
		MetricsPort:         getEnvInt("METRICS_PORT", 0),
	}

	// Parse SMTP_TO (comma-separated)
	if smtpTo := getEnv("SMTP_TO", ""); smtpTo != "" {
		for _, addr := range strings.Split(smtpTo, ",") {
			if trimmed := strings.TrimSpace(addr); trimmed != "" {
				cfg.SMTPTo = append(cfg.SMTPTo, trimmed)
			}
		}
	}

	// Parse extra headers JSON
	extraHeadersJSON := getEnv("DATA_API_EXTRA_HEADERS", "{}")
	if err := json.Unmarshal([]byte(extraHeadersJSON), &cfg.DataAPIExtraHeaders); err != nil {
		return nil, fmt.Errorf("invalid DATA_API_EXTRA_HEADERS JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	// Validate auth mode
	switch c.DataAPIAuthMode {
	case AuthModeNone:
		// No validation needed
	case AuthModeBearer:
		if c.DataAPIBearerToken == "" {
			return fmt.Errorf("DATA_API_BEARER_TOKEN is required when AUTH_MODE is bearer")
		}
	case AuthModeAPIKey:
		if c.DataAPIAPIKey == "" {
			return fmt.Errorf("DATA_API_API_KEY is required when AUTH_MODE is api_key")
		}
	default:
		return fmt.Errorf("invalid DATA_API_AUTH_MODE: %s (must be none, bearer, or api_key)", c.DataAPIAuthMode)
	}

	if c.MinTotalPnL < 0 {
		return fmt.Errorf("MIN_TOTAL_PNL must be >= 0")
	}
	if c.MinRealizedPnL < 0 {
		return fmt.Errorf("MIN_REALIZED_PNL must be >= 0")
	}
	if c.StatsWorkers < 1 {
		return fmt.Errorf("STATS_WORKERS must be >= 1")
	}
	if c.TradePageLimit < 1 {
		return fmt.Errorf("TRADE_PAGE_LIMIT must be >= 1")
	}
	if c.TradeMaxPages < 1 {
		return fmt.Errorf("TRADE_MAX_PAGES must be >= 1")
	}

	// Validate alert mode (comma-separated list)
	hasDiscord := false
	hasSMTP := false
	for _, mode := range strings.Split(c.AlertMode, ",") {
		switch strings.TrimSpace(mode) {
		case "log":
		case "discord":
			hasDiscord = true
		case "smtp":
			hasSMTP = true
		default:
			return fmt.Errorf("invalid ALERT_MODE value: %s (valid values: log, discord, smtp)", mode)
		}
	}

	if hasDiscord && c.DiscordWebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required when discord is in ALERT_MODE")
	}

	if hasSMTP && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when smtp is in ALERT_MODE")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
