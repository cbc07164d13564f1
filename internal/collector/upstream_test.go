package collector

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"MarketPulse/internal/config"
	"MarketPulse/internal/model"
)

const (
	testAddress = "1TestAddr"
	hourMs      = int64(3600 * 1000)
	baseMs      = int64(1700000000000)
)

var testCoin = model.Coin{ID: "bitcoin", Name: "比特幣", Symbol: "BTC", Binance: "BTCUSDT", OKX: "BTC-USDT-SWAP", Bybit: "BTCUSDT"}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func limitOf(r *http.Request, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		return n
	}
	return def
}

func fakeClose(i int) float64 {
	return 100 + 10*math.Sin(float64(i)/6) + float64(i)*0.1
}

func fakeRatio(i int) float64 {
	return 1 + 0.2*math.Sin(float64(i)/5)
}

// newUpstream serves every endpoint the collectors read.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/fng/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"data": []map[string]string{
			{"value": "42", "value_classification": "Fear", "timestamp": "1700000000"},
		}})
	})
	mux.HandleFunc("/q/addressbalance/"+testAddress, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "150000000")
	})
	mux.HandleFunc("/rawaddr/"+testAddress, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"txs": []map[string]int64{
			{"time": 1700086400, "result": 50000000},
			{"time": 1700000000, "result": 100000000},
		}})
	})
	mux.HandleFunc("/api/v3/simple/price", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]map[string]float64{"bitcoin": {"usd": 50000}})
	})
	mux.HandleFunc("/api/v3/coins/bitcoin/market_chart", func(w http.ResponseWriter, r *http.Request) {
		prices := make([][2]float64, 31)
		for i := range prices {
			prices[i] = [2]float64{float64(baseMs + int64(i)*24*hourMs), 40000 + float64(i)*100}
		}
		writeJSON(w, map[string]interface{}{"prices": prices})
	})

	mux.HandleFunc("/futures/data/topLongShortPositionRatio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]interface{}{
			{"symbol": "BTCUSDT", "longShortRatio": "1.2", "longAccount": "0.5454", "shortAccount": "0.4546", "timestamp": baseMs + hourMs},
			{"symbol": "BTCUSDT", "longShortRatio": "1.5", "longAccount": "0.6", "shortAccount": "0.4", "timestamp": baseMs},
		})
	})
	mux.HandleFunc("/futures/data/globalLongShortAccountRatio", func(w http.ResponseWriter, r *http.Request) {
		n := limitOf(r, 30)
		rows := make([]map[string]interface{}, n)
		for i := 0; i < n; i++ {
			ratio := fakeRatio(i)
			rows[i] = map[string]interface{}{
				"symbol":         "BTCUSDT",
				"longShortRatio": strconv.FormatFloat(ratio, 'f', 6, 64),
				"longAccount":    strconv.FormatFloat(ratio/(1+ratio), 'f', 6, 64),
				"shortAccount":   strconv.FormatFloat(1/(1+ratio), 'f', 6, 64),
				"timestamp":      baseMs + int64(i)*hourMs,
			}
		}
		writeJSON(w, rows)
	})
	mux.HandleFunc("/futures/data/openInterestHist", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]interface{}{
			{"symbol": "BTCUSDT", "sumOpenInterest": "950", "sumOpenInterestValue": "1", "timestamp": baseMs + hourMs},
			{"symbol": "BTCUSDT", "sumOpenInterest": "900", "sumOpenInterestValue": "1", "timestamp": baseMs},
		})
	})
	mux.HandleFunc("/fapi/v1/fundingRate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]interface{}{
			{"symbol": "BTCUSDT", "fundingRate": "0.0001", "fundingTime": baseMs, "markPrice": "50000"},
		})
	})
	mux.HandleFunc("/fapi/v1/openInterest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"openInterest": "1000", "symbol": "BTCUSDT", "time": baseMs})
	})
	mux.HandleFunc("/fapi/v1/klines", func(w http.ResponseWriter, r *http.Request) {
		n := limitOf(r, 30)
		step := hourMs
		if r.URL.Query().Get("interval") == "1d" {
			step = 24 * hourMs
		}
		rows := make([][]interface{}, n)
		for i := 0; i < n; i++ {
			c := fakeClose(i)
			open := baseMs + int64(i)*step
			rows[i] = []interface{}{
				open, ff(c - 0.5), ff(c + 1), ff(c - 1), ff(c), ff(1000 + float64(i%7)*50),
				open + step - 1, "0", 10, "0", "0", "0",
			}
		}
		writeJSON(w, rows)
	})

	mux.HandleFunc("/api/v5/rubik/stat/contracts/long-short-account-ratio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"code": "0", "msg": "", "data": [][]string{
			{strconv.FormatInt(baseMs+300000, 10), "1.1"},
			{strconv.FormatInt(baseMs, 10), "1.0"},
		}})
	})
	mux.HandleFunc("/api/v5/public/funding-rate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"code": "0", "msg": "", "data": []map[string]string{
			{"instId": r.URL.Query().Get("instId"), "fundingRate": "0.0002"},
		}})
	})
	mux.HandleFunc("/api/v5/public/open-interest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"code": "0", "msg": "", "data": []map[string]string{
			{"instId": r.URL.Query().Get("instId"), "oi": "12345.5"},
		}})
	})

	mux.HandleFunc("/v5/market/funding/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"retCode": 0, "retMsg": "OK", "result": map[string]interface{}{
			"category": "linear",
			"list": []map[string]string{
				{"symbol": "BTCUSDT", "fundingRate": "0.0003", "fundingRateTimestamp": strconv.FormatInt(baseMs, 10)},
			},
		}, "retExtInfo": map[string]interface{}{}, "time": baseMs})
	})
	mux.HandleFunc("/v5/market/account-ratio", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"retCode": 0, "retMsg": "OK", "result": map[string]interface{}{
			"list": []map[string]string{
				{"symbol": "BTCUSDT", "buyRatio": "0.55", "sellRatio": "0.45", "timestamp": strconv.FormatInt(baseMs+hourMs, 10)},
				{"symbol": "BTCUSDT", "buyRatio": "0.5", "sellRatio": "0.5", "timestamp": strconv.FormatInt(baseMs, 10)},
			},
		}, "retExtInfo": map[string]interface{}{}, "time": baseMs})
	})

	mux.HandleFunc("/fred/series/observations", func(w http.ResponseWriter, r *http.Request) {
		v := "0.43"
		if r.URL.Query().Get("series_id") == SeriesCurve {
			v = "-0.25"
		}
		writeJSON(w, map[string]interface{}{"observations": []map[string]string{{"date": "2024-05-01", "value": v}}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// testConfig points every source at base.
func testConfig(base string) *config.Config {
	cfg := &config.Config{}
	src := &cfg.Sources
	for _, p := range []*string{
		&src.CoinGecko, &src.Binance, &src.OKX, &src.Bybit, &src.FearGreed,
		&src.BlockchainInfo, &src.BlockCypher, &src.Blockchair, &src.FRED, &src.Amberdata,
	} {
		*p = base
	}
	src.Timeout = 5 * time.Second
	return cfg
}

func newTestCollector(t *testing.T, cfg *config.Config) *Collector {
	t.Helper()
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return New(Options{
		Sources: NewSources(cfg),
		Coins:   []model.Coin{testCoin},
		Address: testAddress,
		Now:     func() time.Time { return fixed },
	})
}
