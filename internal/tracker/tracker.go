// Package tracker keeps the previous reading of each key between ticks.
package tracker

import "sync"

// Observation is the result of recording one value.
type Observation struct {
	Prev    float64
	Curr    float64
	Diff    float64
	HasPrev bool
	// Stale is set when a newer tick already recorded the key; the value
	// was not stored.
	Stale bool
}

type reading struct {
	seq uint64
	v   float64
}

// Tracker maps a key such as "oi:BTC" to its last value and the tick that
// recorded it.
type Tracker struct {
	mu   sync.Mutex
	last map[string]reading
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{last: make(map[string]reading)}
}

// Observe records v from tick seq under key and returns it against the
// previous value. The first observation of a key has no prior and a zero
// diff. Ticks finish out of order when they overlap, so a reading from a
// tick not newer than the recorded one is returned as Stale and dropped.
func (t *Tracker) Observe(key string, seq uint64, v float64) Observation {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.last[key]
	if ok && seq <= prev.seq {
		return Observation{Curr: v, Stale: true}
	}
	t.last[key] = reading{seq: seq, v: v}
	if !ok {
		return Observation{Curr: v}
	}
	return Observation{Prev: prev.v, Curr: v, Diff: v - prev.v, HasPrev: true}
}

// Peek returns the last value of key without recording anything.
func (t *Tracker) Peek(key string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.last[key]
	return r.v, ok
}

// Forget drops key so that its next observation starts fresh.
func (t *Tracker) Forget(key string) {
	t.mu.Lock()
	delete(t.last, key)
	t.mu.Unlock()
}
