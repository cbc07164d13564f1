// Package collector fetches upstream market data and turns one polling tick
// into a page snapshot.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/calibration"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/strategy"
	"MarketPulse/internal/tracker"
)

// Options configures a Collector.
type Options struct {
	Sources       *Sources
	Coins         []model.Coin
	Address       string
	Calibration   *calibration.Calibration
	RSIPeriod     int
	MarketRSI     calculator.RSIMethod
	BiasRSI       calculator.RSIMethod
	FundingPolicy strategy.FundingPolicy
	Signal        strategy.SignalParams
	Metrics       *metrics.Registry
	Tracker       *tracker.Tracker
	Now           func() time.Time
}

// Collector runs page ticks. Upstream failures never fail a tick; the
// affected row carries an error string and neutral values instead.
type Collector struct {
	opts Options
	log  *logger.Entry
}

// New returns a Collector with defaults filled in.
func New(opts Options) *Collector {
	if opts.Calibration == nil {
		opts.Calibration = calibration.MustDefault()
	}
	if opts.RSIPeriod <= 0 {
		opts.RSIPeriod = 14
	}
	if opts.MarketRSI == "" {
		opts.MarketRSI = calculator.RSISimple
	}
	if opts.BiasRSI == "" {
		opts.BiasRSI = calculator.RSIWilder
	}
	if opts.FundingPolicy == "" {
		opts.FundingPolicy = strategy.ExcludeMissing
	}
	if opts.Signal.Window == 0 {
		opts.Signal = strategy.DefaultSignalParams()
	}
	if opts.Tracker == nil {
		opts.Tracker = tracker.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Collector{opts: opts, log: logger.GetLogger().WithComponent("collector")}
}

// Collect runs one tick of page and stamps the result with seq.
func (c *Collector) Collect(ctx context.Context, page model.Page, seq uint64) (model.Snapshot, error) {
	h := model.Header{Page: page, Seq: seq, GeneratedAt: c.opts.Now().UTC()}
	switch page {
	case model.PageMarket:
		return c.market(ctx, h), nil
	case model.PageRatios:
		return c.ratios(ctx, h), nil
	case model.PageSentiment:
		return c.sentiment(ctx, h), nil
	case model.PageBias:
		return c.bias(ctx, h), nil
	case model.PageComposite:
		return c.composite(h), nil
	case model.PageMacro:
		return c.macro(ctx, h), nil
	case model.PageSignal:
		return c.signal(ctx, h), nil
	default:
		return nil, fmt.Errorf("unknown page %q", page)
	}
}

// warn logs a failed fetch and counts it against source.
func (c *Collector) warn(source, symbol string, err error) {
	c.opts.Metrics.FetchFailed(source)
	entry := c.log.WithField("source", source).WithError(err)
	if symbol != "" {
		entry = entry.WithField("symbol", symbol)
	}
	if errors.Is(err, ErrDisabled) {
		entry.Debug("source disabled, using placeholder")
		return
	}
	entry.Warn("fetch failed, using placeholder")
}

// perCoin runs fn for every coin concurrently and waits for all of them.
func (c *Collector) perCoin(fn func(i int, coin model.Coin)) {
	var wg sync.WaitGroup
	for i, coin := range c.opts.Coins {
		wg.Add(1)
		go func(i int, coin model.Coin) {
			defer wg.Done()
			fn(i, coin)
		}(i, coin)
	}
	wg.Wait()
}

// all runs every fn concurrently and waits for all of them.
func all(fns ...func()) {
	var wg sync.WaitGroup
	for _, fn := range fns {
		wg.Add(1)
		go func(fn func()) {
			defer wg.Done()
			fn()
		}(fn)
	}
	wg.Wait()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
