// Client-side interception with the same cache-first semantics as the proxy
package intercept

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/homegrid/assetcache/internal/cache/httpcache"
	"github.com/homegrid/assetcache/internal/metrics"
)

// CacheTransport is an http.RoundTripper that answers requests from the
// store when possible and forwards the rest to Next. Misses are never
// written back to the store.
type CacheTransport struct {
	Cache *httpcache.HTTPCache
	// Next handles cache misses; http.DefaultTransport when nil
	Next http.RoundTripper
}

func (t *CacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.Cache.Get(req.Context(), req)
	if err != nil {
		metrics.LookupErrors.Inc()
		logrus.Errorf("Failed to look up %s: %v", req.URL, err)
	}
	if resp != nil {
		metrics.CacheHits.Inc()
		resp.Header.Set("X-Cache", "HIT")
		return resp, nil
	}

	metrics.CacheMisses.Inc()
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}
