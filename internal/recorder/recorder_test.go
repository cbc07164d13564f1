package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketPulse/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "nested", "pulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func count(t *testing.T, r *SQLiteRecorder, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestRecordSentimentBoard(t *testing.T) {
	r := openTemp(t)
	b := &model.SentimentBoard{
		Header: model.Header{Page: model.PageSentiment, Seq: 4, GeneratedAt: time.Now()},
		Rows: []model.SentimentRow{
			{Symbol: "BTC", Ratio: 1.2, PrevRatio: 1.1, Score: 0.3, ScoreOK: true, ScoreZeroFill: 0.3},
			{Symbol: "ETH", Err: "binance: status 500"},
		},
	}
	require.NoError(t, r.Record(b, 120*time.Millisecond))

	assert.Equal(t, 1, count(t, r, "board_ticks"))
	assert.Equal(t, 2, count(t, r, "sentiment_scores"))

	var page string
	var seq uint64
	var ms float64
	require.NoError(t, r.db.QueryRow("SELECT page, seq, duration_ms FROM board_ticks").Scan(&page, &seq, &ms))
	assert.Equal(t, "sentiment", page)
	assert.Equal(t, uint64(4), seq)
	assert.InDelta(t, 120, ms, 1e-9)

	var errText string
	require.NoError(t, r.db.QueryRow("SELECT error FROM sentiment_scores WHERE symbol = 'ETH'").Scan(&errText))
	assert.Equal(t, "binance: status 500", errText)
}

func TestRecordBiasBoardWithAndWithoutPlan(t *testing.T) {
	r := openTemp(t)
	b := &model.BiasBoard{
		Header: model.Header{Page: model.PageBias, Seq: 1},
		Rows: []model.BiasRow{
			{Symbol: "BTC", Price: 100, Bias: model.BiasResult{Score: 2, Direction: model.DirectionLong,
				Plan: &model.TradePlan{Entry: 101, Stop: 99, Take: 104}}},
			{Symbol: "ETH", Bias: model.BiasResult{Direction: model.DirectionNeutral}},
		},
	}
	require.NoError(t, r.Record(b, time.Second))

	var dir string
	var entry float64
	require.NoError(t, r.db.QueryRow("SELECT direction, entry FROM bias_signals WHERE symbol = 'BTC'").Scan(&dir, &entry))
	assert.Equal(t, "LONG", dir)
	assert.Equal(t, 101.0, entry)

	require.NoError(t, r.db.QueryRow("SELECT direction, entry FROM bias_signals WHERE symbol = 'ETH'").Scan(&dir, &entry))
	assert.Equal(t, "NEUTRAL", dir)
	assert.Zero(t, entry)
}

func TestRecordCompositeAndMacro(t *testing.T) {
	r := openTemp(t)
	cat := model.Category{Code: "high", Label: "高勝率進場區"}
	require.NoError(t, r.Record(&model.CompositeBoard{
		Header:  model.Header{Page: model.PageComposite, Seq: 1},
		Version: "v1",
		CETS:    []model.CompositeResult{{Name: "CETS", Asset: "BTC", Score: 0.7625, Category: cat}},
		TS:      []model.CompositeResult{{Name: "TS", Asset: "BTC", Score: 0.7, Category: cat}},
	}, 0))
	require.NoError(t, r.Record(&model.MacroBoard{
		Header:  model.Header{Page: model.PageMacro, Seq: 1},
		Version: "v1",
		GIRG:    model.CompositeResult{Name: "GIRG", Asset: "US", Score: 0.4, Category: model.Category{Code: "low"}},
	}, 0))

	assert.Equal(t, 3, count(t, r, "composite_scores"))
	assert.Equal(t, 2, count(t, r, "board_ticks"))

	var version string
	require.NoError(t, r.db.QueryRow("SELECT calibration FROM composite_scores WHERE name = 'GIRG'").Scan(&version))
	assert.Equal(t, "v1", version)
}

func TestRecordPlainBoardOnlyWritesTick(t *testing.T) {
	r := openTemp(t)
	require.NoError(t, r.Record(&model.RatioBoard{Header: model.Header{Page: model.PageRatios, Seq: 9}}, 0))
	assert.Equal(t, 1, count(t, r, "board_ticks"))
	assert.Zero(t, count(t, r, "sentiment_scores"))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.Record(&model.RatioBoard{}, 0))
	assert.NoError(t, r.Close())
}
