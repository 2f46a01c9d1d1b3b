// Cache-first forward proxy in front of the dashboard origin
package proxy

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/elazarl/goproxy"
	"github.com/sirupsen/logrus"

	"github.com/homegrid/assetcache/internal/cache"
	"github.com/homegrid/assetcache/internal/cache/httpcache"
	"github.com/homegrid/assetcache/internal/config"
	"github.com/homegrid/assetcache/internal/metrics"
)

// Server intercepts HTTP requests and serves seeded assets from the store.
// Lookups are read-through: a miss is forwarded to the network and the
// response is returned as-is, never written back to the store.
type Server struct {
	config *config.Config
	cache  *httpcache.HTTPCache
	proxy  *goproxy.ProxyHttpServer

	// ready flips once seeding has completed. Until then every request is
	// passed through to the network, so a cache hit can never be served
	// from a store that is still being written.
	ready atomic.Bool
}

// New creates a new proxy server around the given store
func New(cfg *config.Config, store cache.Store) *Server {
	s := &Server{
		config: cfg,
		cache:  httpcache.New(store),
	}

	p := goproxy.NewProxyHttpServer()
	p.OnRequest().DoFunc(s.handleRequest)
	p.OnResponse().DoFunc(s.handleResponse)
	s.proxy = p

	return s
}

// Cache returns the HTTP cache used by the server
func (s *Server) Cache() *httpcache.HTTPCache {
	return s.cache
}

// GetProxy exposes the underlying handler for embedding and tests
func (s *Server) GetProxy() http.Handler {
	return s.proxy
}

// MarkReady transitions the server from uninitialized to ready. Must be
// called after seeding has completed.
func (s *Server) MarkReady() {
	s.ready.Store(true)
	logrus.Infof("Store version %s ready, serving cached assets", s.cache.Store().Version())
}

// Ready reports whether seeding has completed
func (s *Server) Ready() bool {
	return s.ready.Load()
}

// Start starts the proxy listener
func (s *Server) Start() error {
	logrus.Infof("Starting offline asset cache on port %d", s.config.Server.Port)
	logrus.Infof("Origin: %s", s.config.Origin.URL)
	logrus.Infof("Store: %s (version %s)", s.config.Store.Backend, s.config.Store.Version)

	return http.ListenAndServe(fmt.Sprintf(":%d", s.config.Server.Port), s.proxy)
}

func (s *Server) handleRequest(requ *http.Request, ctx *goproxy.ProxyCtx) (*http.Request, *http.Response) {
	if !s.ready.Load() {
		metrics.Passthrough.Inc()
		logrus.Debugf("Not ready, passing through: %s %s", requ.Method, requ.URL)
		return requ, nil
	}

	resp, err := s.cache.Get(requ.Context(), requ)
	if err != nil {
		metrics.LookupErrors.Inc()
		logrus.Errorf("Failed to look up %s: %v", requ.URL, err)
		return requ, nil
	}
	if resp == nil {
		metrics.CacheMisses.Inc()
		logrus.Debugf("Cache miss, forwarding: %s %s", requ.Method, requ.URL)
		return requ, nil
	}

	metrics.CacheHits.Inc()
	logrus.Infof("Serving from cache: %s", requ.URL.String())
	resp.Header.Set("X-Cache", "HIT")
	return requ, resp
}

func (s *Server) handleResponse(resp *http.Response, ctx *goproxy.ProxyCtx) *http.Response {
	// Cache hits already carry X-Cache from handleRequest
	if resp != nil && resp.Header.Get("X-Cache") == "" {
		resp.Header.Set("X-Cache", "MISS")
	}
	return resp
}
