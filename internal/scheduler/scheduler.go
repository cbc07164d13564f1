package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"MarketPulse/internal/board"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
	"MarketPulse/internal/recorder"
)

// Collector produces the snapshot of one page tick.
type Collector interface {
	Collect(ctx context.Context, page model.Page, seq uint64) (model.Snapshot, error)
}

// Scheduler runs one cron job per page. Ticks of the same page may overlap;
// every tick takes the next sequence number and the board keeps the newest.
type Scheduler struct {
	Cron      *cron.Cron
	Collector Collector
	Board     *board.Board
	Recorder  recorder.Recorder
	Metrics   *metrics.Registry
	Ctx       context.Context

	seqs map[model.Page]*atomic.Uint64
	log  *logger.Entry
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col Collector, b *board.Board, rec recorder.Recorder, m *metrics.Registry) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	seqs := make(map[model.Page]*atomic.Uint64, len(model.AllPages))
	for _, p := range model.AllPages {
		seqs[p] = new(atomic.Uint64)
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		Collector: col,
		Board:     b,
		Recorder:  rec,
		Metrics:   m,
		Ctx:       ctx,
		seqs:      seqs,
		log:       logger.GetLogger().WithComponent("scheduler"),
	}
}

// RegisterAll registers one job per page of schedule.
func (s *Scheduler) RegisterAll(schedule map[model.Page]string) error {
	for _, page := range model.AllPages {
		spec, ok := schedule[page]
		if !ok || spec == "" {
			continue
		}
		page := page
		if _, err := s.Cron.AddFunc(spec, func() { s.tick(page) }); err != nil {
			return fmt.Errorf("register %s task: %w", page, err)
		}
		s.log.WithFields(logger.Fields{"page": page, "spec": spec}).Info("page registered")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running ticks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow runs one tick of page synchronously and reports whether its
// snapshot was published.
func (s *Scheduler) RunNow(page model.Page) (model.Snapshot, bool, error) {
	return s.run(page)
}

// RunAllNow ticks every page concurrently and waits for all of them.
func (s *Scheduler) RunAllNow() {
	var wg sync.WaitGroup
	for _, page := range model.AllPages {
		wg.Add(1)
		go func(page model.Page) {
			defer wg.Done()
			s.tick(page)
		}(page)
	}
	wg.Wait()
}

func (s *Scheduler) next(page model.Page) uint64 {
	c, ok := s.seqs[page]
	if !ok {
		return 0
	}
	return c.Add(1)
}

func (s *Scheduler) tick(page model.Page) {
	if _, _, err := s.run(page); err != nil {
		s.log.WithField("page", page).WithError(err).Error("tick failed")
	}
}

func (s *Scheduler) run(page model.Page) (model.Snapshot, bool, error) {
	seq := s.next(page)
	if seq == 0 {
		return nil, false, fmt.Errorf("unknown page %q", page)
	}
	start := time.Now()
	snap, err := s.Collector.Collect(s.Ctx, page, seq)
	took := time.Since(start)
	s.Metrics.ObserveTick(string(page), took)
	if err != nil {
		return nil, false, fmt.Errorf("collect %s: %w", page, err)
	}

	entry := s.log.WithFields(logger.Fields{"page": page, "seq": seq})
	if !s.Board.Publish(snap) {
		entry.Debug("newer tick already published, dropping")
		return snap, false, nil
	}
	s.Metrics.Published(string(page), seq)
	logger.Duration(entry, "tick", took, nil)

	if err := s.Recorder.Record(snap, took); err != nil {
		entry.WithError(err).Error("record tick")
	}
	return snap, true, nil
}
