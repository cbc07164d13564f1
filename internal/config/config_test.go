package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/model"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "FRED_API_KEY",
		"AMBERDATA_API_KEY", "REDIS_ADDR", "SQLITE_PATH", "HTTP_ADDRESS", "WORKER_BASE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Coins, 5)
	assert.Equal(t, "BTC", cfg.Coins[0].Symbol)
	assert.Equal(t, "0 1 0 * * *", cfg.Schedule[model.PageMacro])
	assert.Equal(t, "@every 60s", cfg.Schedule[model.PageMarket])
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
	assert.Equal(t, "wilder", cfg.Indicators.BiasRSI)
	assert.Equal(t, 48, cfg.Indicators.Signal.Window)
	assert.Equal(t, 30*time.Second, cfg.Relay.CacheTTL)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.False(t, cfg.NotifierEnabled())
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
coins:
  - {id: solana, name: Solana, symbol: SOL, binance: SOLUSDT, okx: SOL-USDT-SWAP, bybit: SOLUSDT}
schedule:
  ratios: "@every 5m"
indicators:
  market_rsi: wilder
relay:
  cache_ttl: 45s
server:
  address: ":9000"
`)
	t.Setenv("HTTP_ADDRESS", ":7000")
	t.Setenv("WORKER_BASE", "https://relay.example.workers.dev")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "SOL", cfg.Coins[0].Symbol)
	assert.Equal(t, "@every 5m", cfg.Schedule[model.PageRatios])
	assert.Equal(t, "@hourly", cfg.Schedule[model.PageSignal])
	assert.Equal(t, "wilder", cfg.Indicators.MarketRSI)
	assert.Equal(t, 45*time.Second, cfg.Relay.CacheTTL)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "https://relay.example.workers.dev", cfg.Relay.BaseURL)
	assert.True(t, cfg.NotifierEnabled())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "coins: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cron", func(c *Config) { c.Schedule[model.PageBias] = "every ten minutes" }},
		{"unknown page", func(c *Config) { c.Schedule["charts"] = "@hourly" }},
		{"rsi period", func(c *Config) { c.Indicators.RSIPeriod = -1 }},
		{"rsi method", func(c *Config) { c.Indicators.MarketRSI = "cutler" }},
		{"funding policy", func(c *Config) { c.Indicators.FundingPolicy = "median" }},
		{"no coins", func(c *Config) { c.Coins = nil }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "tok" }},
		{"relay scheme", func(c *Config) { c.Relay.BaseURL = "relay.example" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
