package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()
	r.RelayRequest("okx", 200)
	r.RelayRequest("okx", 200)
	r.RelayCacheResult(true)
	r.RelayCacheResult(false)
	r.FetchFailed("coingecko")
	r.Published("bias", 7)
	r.ObserveTick("bias", 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.RelayRequests.WithLabelValues("okx", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.RelayCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.FetchFailures.WithLabelValues("coingecko")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.PublishedSeq.WithLabelValues("bias")))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.RelayRequest("binance", 400)
		r.FetchFailed("fred")
		r.WSConnected(1)
	})
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.FetchFailed("okx")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pulse_fetch_failures_total{source="okx"} 1`)
}
