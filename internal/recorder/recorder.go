package recorder

import (
	"time"

	"MarketPulse/internal/model"
)

// Recorder persists published boards for later analysis.
type Recorder interface {
	// Record stores one tick of a page. Pages with per-asset scores also
	// get one detail row per asset.
	Record(snap model.Snapshot, took time.Duration) error
	Close() error
}
