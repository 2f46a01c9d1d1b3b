package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/homegrid/assetcache/internal/cache"
	"github.com/homegrid/assetcache/internal/config"
	"github.com/homegrid/assetcache/internal/proxy"
	"github.com/homegrid/assetcache/internal/seed"
)

// assets the fixture origin serves; mirrors a dashboard dev server
var originAssets = map[string]string{
	"/":            "<html><body>listings dashboard</body></html>",
	"/service.js":  "console.log('service worker');",
	"/styles.css":  "body { font-family: sans-serif; }",
	"/unknown.png": "PNGDATA",
}

// countingOrigin is an upstream test server that counts every request
type countingOrigin struct {
	*httptest.Server
	calls int64
}

func (o *countingOrigin) Calls() int64 {
	return atomic.LoadInt64(&o.calls)
}

func (o *countingOrigin) ResetCalls() {
	atomic.StoreInt64(&o.calls, 0)
}

// fixture_origin creates a counting upstream server
func fixture_origin() *countingOrigin {
	origin := &countingOrigin{}
	origin.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, requ *http.Request) {
		atomic.AddInt64(&origin.calls, 1)
		body, ok := originAssets[requ.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}))
	return origin
}

// fixture_config creates a test config pointing at the given origin
func fixture_config(originURL, version string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 0},
		Origin: config.OriginConfig{URL: originURL},
		Store: config.StoreConfig{
			Backend: "memory",
			Version: version,
		},
		Seed: config.SeedConfig{
			Paths:   []string{"/", "/service.js", "/styles.css"},
			OnError: "abort",
			Timeout: "10s",
		},
	}
}

// fixture_seed populates the store from the origin, like startup does
func fixture_seed(cfg *config.Config, store cache.Store) (*proxy.Server, error) {
	server := proxy.New(cfg, store)

	origin, err := cfg.GetOriginURL()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.GetSeedTimeout()
	if err != nil {
		return nil, err
	}

	seeder := seed.New(origin, server.Cache(), timeout)
	seeder.AbortOnError = cfg.Seed.OnError == "abort"
	if err := seeder.Seed(context.Background(), cfg.Seed.Paths); err != nil {
		return nil, err
	}
	server.MarkReady()

	return server, nil
}

// fixture_proxy creates a seeded proxy server and a client routed through it
func fixture_proxy(cfg *config.Config, store cache.Store) (*proxy.Server, *httptest.Server, *http.Client, error) {
	server, err := fixture_seed(cfg, store)
	if err != nil {
		return nil, nil, nil, err
	}

	proxyTestServer := httptest.NewServer(server.GetProxy())

	proxyURL, _ := url.Parse(proxyTestServer.URL)
	client := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		},
		Timeout: 10 * time.Second,
	}

	return server, proxyTestServer, client, nil
}
