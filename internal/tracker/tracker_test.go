package tracker

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	tr := New()

	first := tr.Observe("oi:BTC", 1, 100)
	assert.Equal(t, Observation{Curr: 100}, first)

	second := tr.Observe("oi:BTC", 2, 130)
	assert.Equal(t, Observation{Prev: 100, Curr: 130, Diff: 30, HasPrev: true}, second)

	other := tr.Observe("oi:ETH", 1, 5)
	assert.False(t, other.HasPrev)

	v, ok := tr.Peek("oi:BTC")
	assert.True(t, ok)
	assert.Equal(t, 130.0, v)

	tr.Forget("oi:BTC")
	assert.False(t, tr.Observe("oi:BTC", 3, 1).HasPrev)
}

func TestObserve_OlderTickDoesNotOverwrite(t *testing.T) {
	tr := New()
	tr.Observe("oi:BTC", 1, 100)

	// tick 3 finishes before tick 2
	assert.Equal(t, 50.0, tr.Observe("oi:BTC", 3, 150).Diff)
	late := tr.Observe("oi:BTC", 2, 120)
	assert.True(t, late.Stale)
	assert.False(t, late.HasPrev)

	v, _ := tr.Peek("oi:BTC")
	assert.Equal(t, 150.0, v)
	next := tr.Observe("oi:BTC", 4, 160)
	assert.Equal(t, Observation{Prev: 150, Curr: 160, Diff: 10, HasPrev: true}, next)

	assert.True(t, tr.Observe("oi:BTC", 4, 999).Stale, "same tick twice")
}

func TestObserve_Concurrent(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Observe("k", uint64(i), float64(i))
		}(i)
	}
	wg.Wait()
	v, ok := tr.Peek("k")
	assert.True(t, ok)
	assert.Equal(t, 50.0, v, "highest tick wins regardless of finish order")
}
