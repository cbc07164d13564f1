package collector

import (
	"net/url"

	"MarketPulse/internal/relay"
)

// Router sends relay-eligible requests through the relay when a base URL is
// configured and straight to the upstream otherwise.
type Router struct {
	RelayBase string
}

// URL returns the request URL for path on target.
func (r Router) URL(target, base, path string, q url.Values) string {
	qs := q.Encode()
	if r.RelayBase != "" && relay.Check(target, path) == nil {
		return relay.URL(r.RelayBase, target, path, qs)
	}
	if qs == "" {
		return base + path
	}
	return base + path + "?" + qs
}
