package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/calibration"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/prefs"
	"MarketPulse/internal/strategy"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "MarketPulse crypto indicator boards",
	Long: `MarketPulse polls exchange, on-chain and macro sources on a schedule,
computes the indicator boards and serves them over HTTP and Telegram.`,
	SilenceUsage: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to the YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the YAML config and applies the log settings.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if err := logger.GetLogger().Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.MaxAge); err != nil {
		return nil, fmt.Errorf("configure logger: %w", err)
	}
	return cfg, nil
}

// resolveRelay lets a worker base saved in prefs win over the configured one.
func resolveRelay(cfg *config.Config) {
	log := logger.GetLogger().WithComponent("main")
	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		log.WithError(err).Warn("prefs unreadable, using configured relay base")
		return
	}
	cfg.Relay.BaseURL = store.Resolve(cfg.Relay.BaseURL)
}

func newCollector(cfg *config.Config, m *metrics.Registry) (*collector.Collector, *calibration.Calibration, error) {
	cal, err := calibration.Load(cfg.Calibration.Path)
	if err != nil {
		return nil, nil, err
	}
	// Validate already checked these.
	marketRSI, _ := calculator.ParseRSIMethod(cfg.Indicators.MarketRSI)
	biasRSI, _ := calculator.ParseRSIMethod(cfg.Indicators.BiasRSI)
	policy, _ := strategy.ParseFundingPolicy(cfg.Indicators.FundingPolicy)

	col := collector.New(collector.Options{
		Sources:       collector.NewSources(cfg),
		Coins:         cfg.Coins,
		Address:       cfg.Address,
		Calibration:   cal,
		RSIPeriod:     cfg.Indicators.RSIPeriod,
		MarketRSI:     marketRSI,
		BiasRSI:       biasRSI,
		FundingPolicy: policy,
		Signal:        cfg.Indicators.Signal,
		Metrics:       m,
	})
	return col, cal, nil
}
