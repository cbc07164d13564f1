// Package board holds the latest snapshot of every page. A snapshot is only
// accepted when its sequence number is newer than the published one, so a
// slow tick never overwrites a later one.
package board

import (
	"sync"

	"MarketPulse/internal/model"
)

// Board is a latest-wins snapshot store with subscriber fan-out.
type Board struct {
	mu     sync.RWMutex
	latest map[model.Page]model.Snapshot
	subs   map[int]chan model.Snapshot
	nextID int
}

// New returns an empty board.
func New() *Board {
	return &Board{
		latest: make(map[model.Page]model.Snapshot),
		subs:   make(map[int]chan model.Snapshot),
	}
}

// Publish stores snap if its sequence is newer than the current one for its
// page and reports whether it was accepted. Subscribers that are not keeping
// up miss the update rather than blocking the publisher.
func (b *Board) Publish(snap model.Snapshot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	page := snap.PageName()
	if cur, ok := b.latest[page]; ok && cur.Sequence() >= snap.Sequence() {
		return false
	}
	b.latest[page] = snap
	for _, ch := range b.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	return true
}

// Get returns the latest snapshot of page.
func (b *Board) Get(page model.Page) (model.Snapshot, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.latest[page]
	return s, ok
}

// All returns every published snapshot keyed by page.
func (b *Board) All() map[model.Page]model.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[model.Page]model.Snapshot, len(b.latest))
	for k, v := range b.latest {
		out[k] = v
	}
	return out
}

// Subscribe returns a channel receiving every accepted snapshot and a cancel
// func that closes it.
func (b *Board) Subscribe(buffer int) (<-chan model.Snapshot, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan model.Snapshot, buffer)
	b.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}
