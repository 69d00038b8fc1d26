package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		DataAPIAuthMode: AuthModeNone,
		MinTotalPnL:     5000,
		MinRealizedPnL:  500,
		MinMarkets:      5,
		MinClosedWins:   3,
		TradePageLimit:  500,
		TradeMaxPages:   6,
		StatsWorkers:    10,
		AlertMode:       "log",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name: "bearer mode requires token",
			mutate: func(c *Config) {
				c.DataAPIAuthMode = AuthModeBearer
			},
			wantErr: "DATA_API_BEARER_TOKEN",
		},
		{
			name: "bearer mode with token",
			mutate: func(c *Config) {
				c.DataAPIAuthMode = AuthModeBearer
				c.DataAPIBearerToken = "tok"
			},
		},
		{
			name: "api key mode requires key",
			mutate: func(c *Config) {
				c.DataAPIAuthMode = AuthModeAPIKey
			},
			wantErr: "DATA_API_API_KEY",
		},
		{
			name: "unknown auth mode",
			mutate: func(c *Config) {
				c.DataAPIAuthMode = "oauth"
			},
			wantErr: "invalid DATA_API_AUTH_MODE",
		},
		{
			name: "negative pnl threshold",
			mutate: func(c *Config) {
				c.MinTotalPnL = -1
			},
			wantErr: "MIN_TOTAL_PNL",
		},
		{
			name: "zero workers",
			mutate: func(c *Config) {
				c.StatsWorkers = 0
			},
			wantErr: "STATS_WORKERS",
		},
		{
			name: "zero page limit",
			mutate: func(c *Config) {
				c.TradePageLimit = 0
			},
			wantErr: "TRADE_PAGE_LIMIT",
		},
		{
			name: "discord without webhook",
			mutate: func(c *Config) {
				c.AlertMode = "log,discord"
			},
			wantErr: "DISCORD_WEBHOOK_URL",
		},
		{
			name: "discord with webhook",
			mutate: func(c *Config) {
				c.AlertMode = "log,discord"
				c.DiscordWebhookURL = "https://discord.com/api/webhooks/x"
			},
		},
		{
			name: "smtp without host",
			mutate: func(c *Config) {
				c.AlertMode = "smtp"
			},
			wantErr: "SMTP_HOST",
		},
		{
			name: "unknown alert mode",
			mutate: func(c *Config) {
				c.AlertMode = "pager"
			},
			wantErr: "invalid ALERT_MODE",
		},
		{
			name: "spaces in alert list tolerated",
			mutate: func(c *Config) {
				c.AlertMode = "log, smtp"
				c.SMTPHost = "mail.example.com"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "hello")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_BAD_INT", "abc")

	if got := getEnv("TEST_STR", "fallback"); got != "hello" {
		t.Errorf("getEnv = %q, want hello", got)
	}
	if got := getEnv("TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want fallback", got)
	}
	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt on garbage = %d, want default 7", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 1.0); got != 2.5 {
		t.Errorf("getEnvFloat = %v, want 2.5", got)
	}
}
