package notifier

import (
	"context"
	"sync"

	"MarketPulse/internal/logger"
	"MarketPulse/internal/model"
)

// BiasAlerter sends a message whenever the direction of an asset changes
// between bias ticks. The first reading of an asset never alerts.
type BiasAlerter struct {
	Sender Sender

	mu   sync.Mutex
	last map[string]model.Direction
	seq  uint64
}

// NewBiasAlerter returns an alerter delivering through s.
func NewBiasAlerter(s Sender) *BiasAlerter {
	return &BiasAlerter{Sender: s, last: make(map[string]model.Direction)}
}

// Changes records b and returns the alert texts for every flipped asset.
// Boards older than the last one seen are ignored. Rows with an error keep
// the previous direction.
func (a *BiasAlerter) Changes(b *model.BiasBoard) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seq != 0 && b.Seq <= a.seq {
		return nil
	}
	a.seq = b.Seq

	var out []string
	for _, r := range b.Rows {
		if r.Err != "" {
			continue
		}
		prev, seen := a.last[r.Symbol]
		a.last[r.Symbol] = r.Bias.Direction
		if seen && prev != r.Bias.Direction {
			out = append(out, FormatBiasChange(r, prev))
		}
	}
	return out
}

// Run consumes published snapshots until ctx ends or snaps closes.
func (a *BiasAlerter) Run(ctx context.Context, snaps <-chan model.Snapshot) {
	log := logger.GetLogger().WithComponent("alerts")
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			b, isBias := snap.(*model.BiasBoard)
			if !isBias {
				continue
			}
			for _, msg := range a.Changes(b) {
				if err := a.Sender.Send(ctx, msg); err != nil {
					log.WithError(err).Error("send bias alert")
				}
			}
		}
	}
}
