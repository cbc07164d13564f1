// Package relay is a path-whitelisted pass-through to a few exchange APIs,
// with CORS headers and a short response cache.
package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/metrics"
)

const maxBody = 8 << 20

// Options configures a Relay. Zero values fall back to defaults.
type Options struct {
	Targets map[string]Target
	Client  *http.Client
	Cache   cache.Cache
	TTL     time.Duration
	Metrics *metrics.Registry
}

// Relay serves GET /?target=&path=&qs= by forwarding to the target.
type Relay struct {
	targets map[string]Target
	client  *http.Client
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Registry
	log     *logger.Entry
}

// cachedResponse is what the cache stores per key.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// New returns a relay.
func New(opts Options) *Relay {
	r := &Relay{
		targets: opts.Targets,
		client:  opts.Client,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		metrics: opts.Metrics,
		log:     logger.GetLogger().WithComponent("relay"),
	}
	if r.targets == nil {
		r.targets = DefaultTargets()
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: 10 * time.Second}
	}
	if r.cache == nil {
		r.cache = cache.NewMemory()
	}
	if r.ttl == 0 {
		r.ttl = 30 * time.Second
	}
	return r
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (rl *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	setCORS(w.Header())
	switch req.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		w.Header().Set("Allow", "GET, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := req.URL.Query()
	target := q.Get("target")
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	qs := strings.TrimPrefix(q.Get("qs"), "?")

	if err := check(rl.targets, target, path); err != nil {
		rl.metrics.RelayRequest(label(target, rl.targets), http.StatusBadRequest)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := target + "|" + path + "|" + qs
	if b, ok := rl.cache.Get(req.Context(), key); ok {
		var cr cachedResponse
		if err := json.Unmarshal(b, &cr); err == nil {
			rl.metrics.RelayCacheResult(true)
			rl.write(w, target, "HIT", cr)
			return
		}
	}
	rl.metrics.RelayCacheResult(false)

	upstream := rl.targets[target].Base + path
	if qs != "" {
		upstream += "?" + qs
	}
	cr, err := rl.fetch(req, target, upstream)
	if err != nil {
		rl.log.WithError(err).WithField("upstream", upstream).Warn("relay upstream failed")
		rl.metrics.RelayRequest(target, http.StatusBadGateway)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if cr.Status >= 200 && cr.Status < 300 {
		if b, err := json.Marshal(cr); err == nil {
			rl.cache.Set(req.Context(), key, b, rl.ttl)
		}
	}
	rl.write(w, target, "MISS", cr)
}

func (rl *Relay) fetch(req *http.Request, target, upstream string) (cachedResponse, error) {
	out, err := http.NewRequestWithContext(req.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		return cachedResponse{}, err
	}
	out.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := rl.client.Do(out)
	rl.metrics.ObserveUpstream(target, time.Since(start))
	if err != nil {
		return cachedResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return cachedResponse{}, err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return cachedResponse{Status: resp.StatusCode, ContentType: ct, Body: body}, nil
}

func (rl *Relay) write(w http.ResponseWriter, target, cacheState string, cr cachedResponse) {
	h := w.Header()
	h.Set("Content-Type", cr.ContentType)
	h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(rl.ttl/time.Second)))
	h.Set("X-Cache", cacheState)
	w.WriteHeader(cr.Status)
	_, _ = w.Write(cr.Body)
	rl.metrics.RelayRequest(target, cr.Status)
}

// label keeps unknown targets out of the metric label space.
func label(target string, targets map[string]Target) string {
	if _, ok := targets[target]; ok {
		return target
	}
	return "invalid"
}
