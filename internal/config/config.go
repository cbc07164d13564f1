package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
)

// CronParser accepts six-field specs with seconds and descriptors such as
// @every 60s.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Coins   []model.Coin `yaml:"coins"`
	Address string       `yaml:"address"`
	// Schedule holds one cron spec per page.
	Schedule map[model.Page]string `yaml:"schedule"`
	Indicators struct {
		RSIPeriod     int                   `yaml:"rsi_period"`
		MarketRSI     string                `yaml:"market_rsi"`
		BiasRSI       string                `yaml:"bias_rsi"`
		FundingPolicy string                `yaml:"funding_policy"`
		Signal        strategy.SignalParams `yaml:"signal"`
	} `yaml:"indicators"`
	Sources struct {
		CoinGecko      string        `yaml:"coingecko"`
		Binance        string        `yaml:"binance"`
		OKX            string        `yaml:"okx"`
		Bybit          string        `yaml:"bybit"`
		FearGreed      string        `yaml:"fear_greed"`
		BlockchainInfo string        `yaml:"blockchain_info"`
		BlockCypher    string        `yaml:"blockcypher"`
		Blockchair     string        `yaml:"blockchair"`
		FRED           string        `yaml:"fred"`
		FREDAPIKey     string        `yaml:"fred_api_key"`
		Amberdata      string        `yaml:"amberdata"`
		AmberdataKey   string        `yaml:"amberdata_api_key"`
		Timeout        time.Duration `yaml:"timeout"`
	} `yaml:"sources"`
	Relay struct {
		BaseURL  string        `yaml:"base_url"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"relay"`
	Cache struct {
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		Prefix        string `yaml:"prefix"`
	} `yaml:"cache"`
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Prefs struct {
		Path string `yaml:"path"`
	} `yaml:"prefs"`
	Calibration struct {
		Path string `yaml:"path"`
	} `yaml:"calibration"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
		MaxAge int    `yaml:"max_age"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultSchedule is the polling cadence of every page.
var DefaultSchedule = map[model.Page]string{
	model.PageMarket:    "@every 60s",
	model.PageRatios:    "@every 10m",
	model.PageSentiment: "@every 60s",
	model.PageBias:      "@every 10m",
	model.PageComposite: "@hourly",
	model.PageMacro:     "0 1 0 * * *",
	model.PageSignal:    "@hourly",
}

// DefaultCoins are tracked when the config lists none.
var DefaultCoins = []model.Coin{
	{ID: "bitcoin", Name: "比特幣", Symbol: "BTC", Binance: "BTCUSDT", OKX: "BTC-USDT-SWAP", Bybit: "BTCUSDT"},
	{ID: "ethereum", Name: "以太幣", Symbol: "ETH", Binance: "ETHUSDT", OKX: "ETH-USDT-SWAP", Bybit: "ETHUSDT"},
	{ID: "ripple", Name: "XRP", Symbol: "XRP", Binance: "XRPUSDT", OKX: "XRP-USDT-SWAP", Bybit: "XRPUSDT"},
	{ID: "dogecoin", Name: "狗狗幣", Symbol: "DOGE", Binance: "DOGEUSDT", OKX: "DOGE-USDT-SWAP", Bybit: "DOGEUSDT"},
	{ID: "cardano", Name: "ADA", Symbol: "ADA", Binance: "ADAUSDT", OKX: "ADA-USDT-SWAP", Bybit: "ADAUSDT"},
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"HTTPS_PROXY":        &c.Proxy,
		"FRED_API_KEY":       &c.Sources.FREDAPIKey,
		"AMBERDATA_API_KEY":  &c.Sources.AmberdataKey,
		"REDIS_ADDR":         &c.Cache.RedisAddr,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"HTTP_ADDRESS":       &c.Server.Address,
		"WORKER_BASE":        &c.Relay.BaseURL,
		"LOG_LEVEL":          &c.Log.Level,
	}
	for env, field := range overrides {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

func (c *Config) applyDefaults() {
	if len(c.Coins) == 0 {
		c.Coins = append([]model.Coin(nil), DefaultCoins...)
	}
	if c.Address == "" {
		c.Address = "1Ay8vMC7R1UbyCCZRVULMV7iQpHSAbguJP"
	}
	if c.Schedule == nil {
		c.Schedule = make(map[model.Page]string)
	}
	for page, spec := range DefaultSchedule {
		if c.Schedule[page] == "" {
			c.Schedule[page] = spec
		}
	}

	ind := &c.Indicators
	if ind.RSIPeriod == 0 {
		ind.RSIPeriod = 14
	}
	if ind.MarketRSI == "" {
		ind.MarketRSI = string(calculator.RSISimple)
	}
	if ind.BiasRSI == "" {
		ind.BiasRSI = string(calculator.RSIWilder)
	}
	if ind.FundingPolicy == "" {
		ind.FundingPolicy = string(strategy.ExcludeMissing)
	}
	if ind.Signal.Window == 0 {
		ind.Signal = strategy.DefaultSignalParams()
	}

	src := &c.Sources
	setDefault(&src.CoinGecko, "https://api.coingecko.com")
	setDefault(&src.Binance, "https://fapi.binance.com")
	setDefault(&src.OKX, "https://www.okx.com")
	setDefault(&src.Bybit, "https://api.bybit.com")
	setDefault(&src.FearGreed, "https://api.alternative.me")
	setDefault(&src.BlockchainInfo, "https://blockchain.info")
	setDefault(&src.BlockCypher, "https://api.blockcypher.com")
	setDefault(&src.Blockchair, "https://api.blockchair.com")
	setDefault(&src.FRED, "https://api.stlouisfed.org")
	setDefault(&src.Amberdata, "https://api.amberdata.com")
	if src.Timeout == 0 {
		src.Timeout = 15 * time.Second
	}

	if c.Relay.CacheTTL == 0 {
		c.Relay.CacheTTL = 30 * time.Second
	}
	if c.Relay.Timeout == 0 {
		c.Relay.Timeout = 10 * time.Second
	}
	setDefault(&c.Cache.Prefix, "pulse:relay:")
	setDefault(&c.Server.Address, ":8080")
	setDefault(&c.Database.SQLitePath, "data/market_pulse.db")
	setDefault(&c.Prefs.Path, "data/prefs.json")
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "json")
	setDefault(&c.Log.Output, "stdout")
}

func setDefault(field *string, v string) {
	if *field == "" {
		*field = v
	}
}

// Validate checks schedules, indicator settings and coins.
func (c *Config) Validate() error {
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if len(c.Coins) == 0 {
		return fmt.Errorf("at least one coin is required")
	}
	for i, coin := range c.Coins {
		if coin.Symbol == "" || coin.ID == "" {
			return fmt.Errorf("coins[%d]: symbol and id are required", i)
		}
	}
	for _, page := range model.AllPages {
		spec := c.Schedule[page]
		if _, err := CronParser.Parse(spec); err != nil {
			return fmt.Errorf("schedule.%s: %w", page, err)
		}
	}
	for page := range c.Schedule {
		if !knownPage(page) {
			return fmt.Errorf("schedule: unknown page %q", page)
		}
	}
	if c.Indicators.RSIPeriod <= 0 {
		return fmt.Errorf("indicators.rsi_period must be positive")
	}
	if _, err := calculator.ParseRSIMethod(c.Indicators.MarketRSI); err != nil {
		return fmt.Errorf("indicators.market_rsi: %w", err)
	}
	if _, err := calculator.ParseRSIMethod(c.Indicators.BiasRSI); err != nil {
		return fmt.Errorf("indicators.bias_rsi: %w", err)
	}
	if _, err := strategy.ParseFundingPolicy(c.Indicators.FundingPolicy); err != nil {
		return fmt.Errorf("indicators.funding_policy: %w", err)
	}
	if c.Relay.BaseURL != "" && !strings.HasPrefix(c.Relay.BaseURL, "http") {
		return fmt.Errorf("relay.base_url must be an http(s) URL")
	}
	if c.Relay.CacheTTL < 0 {
		return fmt.Errorf("relay.cache_ttl must not be negative")
	}
	return nil
}

func knownPage(p model.Page) bool {
	for _, q := range model.AllPages {
		if p == q {
			return true
		}
	}
	return false
}

// NotifierEnabled reports whether Telegram credentials are present.
func (c *Config) NotifierEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
