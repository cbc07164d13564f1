package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), 30*time.Second)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(30 * time.Second)
	_, ok = c.Get(ctx, "k")
	assert.True(t, ok, "expiry is exclusive at the boundary")

	now = now.Add(time.Millisecond)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	buf := []byte("abc")
	c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewMemory()
	c.now = func() time.Time { return now }
	for i := 0; i < 1100; i++ {
		c.Set(ctx, string(rune('a'+i%26))+time.Duration(i).String(), []byte("x"), time.Second)
	}
	now = now.Add(2 * time.Second)
	c.Set(ctx, "fresh", []byte("y"), time.Second)
	assert.Equal(t, 1, c.Len())
}

func TestNew_PicksBackend(t *testing.T) {
	_, isMem := New(RedisOptions{}).(*Memory)
	assert.True(t, isMem)

	r := New(RedisOptions{Addr: "127.0.0.1:1", Prefix: "t:"})
	defer r.Close()
	_, isRedis := r.(*Redis)
	require.True(t, isRedis)

	// an unreachable server is a miss, never an error
	r.Set(context.Background(), "k", []byte("v"), time.Second)
	_, ok := r.Get(context.Background(), "k")
	assert.False(t, ok)
}
