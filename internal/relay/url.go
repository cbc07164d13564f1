package relay

import "net/url"

// URL builds the relay request for target, path and a raw query string.
func URL(base, target, path, qs string) string {
	v := url.Values{}
	v.Set("target", target)
	v.Set("path", path)
	if qs != "" {
		v.Set("qs", qs)
	}
	return base + "?" + v.Encode()
}
