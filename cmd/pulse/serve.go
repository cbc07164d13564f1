package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"MarketPulse/internal/board"
	"MarketPulse/internal/cache"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/notifier"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/relay"
	"MarketPulse/internal/scheduler"
	"MarketPulse/internal/server"
)

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the schedulers, the HTTP API and the Telegram bot",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Tick every page once at startup")
}

// newCache returns Redis when configured and reachable, memory otherwise.
func newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	c := cache.New(cache.RedisOptions{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		Prefix:   cfg.Cache.Prefix,
	})
	r, ok := c.(*cache.Redis)
	if !ok {
		return c
	}
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.Ping(pctx); err != nil {
		logger.GetLogger().WithComponent("main").WithError(err).Warn("redis unreachable, relay cache falls back to memory")
		_ = r.Close()
		return cache.NewMemory()
	}
	return r
}

func newRelay(ctx context.Context, cfg *config.Config, m *metrics.Registry) (*relay.Relay, cache.Cache) {
	c := newCache(ctx, cfg)
	return relay.New(relay.Options{
		Client:  collector.NewHTTPClient(cfg.Proxy, cfg.Relay.Timeout),
		Cache:   c,
		TTL:     cfg.Relay.CacheTTL,
		Metrics: m,
	}), c
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		logger.GetLogger().WithComponent("main").WithError(err).Warn("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.GetLogger().WithComponent("main")
	log.Info("MarketPulse starting")
	resolveRelay(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.NewRegistry()
	col, cal, err := newCollector(cfg, m)
	if err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"calibration": cal.Version,
		"relay":       cfg.Relay.BaseURL,
		"coins":       len(cfg.Coins),
	}).Info("collector ready")

	rec := newRecorder(cfg)
	defer rec.Close()

	b := board.New()
	sched := scheduler.NewScheduler(ctx, col, b, rec, m)
	if err := sched.RegisterAll(cfg.Schedule); err != nil {
		return err
	}

	rl, rc := newRelay(ctx, cfg, m)
	defer rc.Close()

	srv := server.New(server.Options{
		Addr:        cfg.Server.Address,
		Board:       b,
		Relay:       rl,
		Metrics:     m,
		Calibration: cal.Version,
	})
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	if cfg.NotifierEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		tn.Metrics = m
		cmds := &notifier.Commands{Boards: b}
		go tn.StartPolling(ctx, cmds.Handle)

		snaps, unsubscribe := b.Subscribe(8)
		defer unsubscribe()
		go notifier.NewBiasAlerter(tn.WithRetry(2)).Run(ctx, snaps)
		log.Info("telegram polling started")
	} else {
		log.Info("telegram not configured, notifier disabled")
	}

	sched.Start()
	if runOnStart {
		log.Info("run-on-start enabled, ticking every page now")
		go sched.RunAllNow()
	}
	log.Info("MarketPulse is running. Press Ctrl+C to stop.")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("http server stopped")
		}
		cancel()
	}

	sched.Stop()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	log.Info("MarketPulse stopped")
	return nil
}
