// Prometheus instrumentation for the asset cache
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SeededAssets counts assets stored during seeding
	SeededAssets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetcache_seeded_assets_total",
		Help: "Number of assets stored during seed initialization.",
	})

	// SeedErrors counts failed seed fetches
	SeedErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetcache_seed_errors_total",
		Help: "Number of seed asset fetches that failed.",
	})

	// CacheHits counts requests served from the store
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetcache_hits_total",
		Help: "Number of requests served from the cache store.",
	})

	// CacheMisses counts requests forwarded to the network
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetcache_misses_total",
		Help: "Number of requests forwarded to the network.",
	})

	// Passthrough counts requests observed before seeding completed
	Passthrough = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetcache_passthrough_total",
		Help: "Number of requests passed through before the cache was ready.",
	})

	// LookupErrors counts failed store lookups
	LookupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetcache_lookup_errors_total",
		Help: "Number of cache store lookups that failed.",
	})
)

// Handler returns the /metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
