package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/board"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/model"
)

func ratioBoard(seq uint64) *model.RatioBoard {
	return &model.RatioBoard{Header: model.Header{Page: model.PageRatios, Seq: seq}}
}

func newTestServer(t *testing.T) (*Server, *board.Board, *metrics.Registry) {
	t.Helper()
	b := board.New()
	m := metrics.NewRegistry()
	relay := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Relayed", r.URL.Query().Get("target"))
		w.WriteHeader(http.StatusTeapot)
	})
	return New(Options{Board: b, Relay: relay, Metrics: m, Calibration: "2024.06.1"}), b, m
}

func do(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, b, _ := newTestServer(t)
	b.Publish(ratioBoard(3))

	rec := do(s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "2024.06.1", body.Calibration)
	assert.Equal(t, map[string]int{"ratios": 3}, body.Pages)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get("X-Request-ID"))
}

func TestBoards(t *testing.T) {
	s, b, _ := newTestServer(t)
	b.Publish(&model.MacroBoard{Header: model.Header{Page: model.PageMacro, Seq: 1}})
	b.Publish(ratioBoard(2))

	rec := do(s, http.MethodGet, "/api/boards")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "ratios", out[0]["page"])
	assert.Equal(t, "macro", out[1]["page"])
}

func TestBoardByPage(t *testing.T) {
	s, b, _ := newTestServer(t)

	rec := do(s, http.MethodGet, "/api/boards/ratios")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not published")

	b.Publish(ratioBoard(5))
	rec = do(s, http.MethodGet, "/api/boards/ratios")
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.EqualValues(t, 5, out["seq"])

	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/api/boards/nope").Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/nowhere").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(s, http.MethodPost, "/health").Code)
}

func TestRelayAndMetricsMounted(t *testing.T) {
	s, b, _ := newTestServer(t)
	rec := do(s, http.MethodGet, "/relay?target=okx&path=/api/v5/public/open-interest")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "okx", rec.Header().Get("X-Relayed"))

	b.Publish(ratioBoard(1))
	rec = do(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestStream(t *testing.T) {
	s, b, m := newTestServer(t)
	b.Publish(ratioBoard(1))

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var first map[string]interface{}
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "ratios", first["page"])
	assert.EqualValues(t, 1, first["seq"])
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.WSClients) == 1
	}, 2*time.Second, 20*time.Millisecond)

	b.Publish(ratioBoard(2))
	var next map[string]interface{}
	require.NoError(t, conn.ReadJSON(&next))
	assert.EqualValues(t, 2, next["seq"])

	conn.Close()
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(m.WSClients) == 0
	}, 2*time.Second, 20*time.Millisecond)
}
