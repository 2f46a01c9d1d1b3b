package proxy

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elazarl/goproxy"

	"github.com/homegrid/assetcache/internal/cache"
	"github.com/homegrid/assetcache/internal/config"
)

func fixture_config() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Origin: config.OriginConfig{URL: "http://localhost:3000"},
		Store: config.StoreConfig{
			Backend: "memory",
			Version: "real-estate-v1",
		},
	}
}

func fixture_cachedResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{"Content-Type": []string{"text/css"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNew(t *testing.T) {
	server := New(fixture_config(), cache.NewMemory("real-estate-v1"))
	if server == nil {
		t.Fatal("New() returned nil")
	}
	if server.Ready() {
		t.Error("New server must start uninitialized")
	}
	if server.GetProxy() == nil {
		t.Error("GetProxy() returned nil")
	}
}

func TestHandleRequestBeforeReady(t *testing.T) {
	store := cache.NewMemory("real-estate-v1")
	server := New(fixture_config(), store)

	req, err := http.NewRequest(http.MethodGet, "http://dashboard.local/styles.css", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if err := server.Cache().Set(context.Background(), req, fixture_cachedResponse("cached")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Even with the entry present, an uninitialized server passes through
	_, resp := server.handleRequest(req, &goproxy.ProxyCtx{})
	if resp != nil {
		t.Error("Expected passthrough before MarkReady(), got cached response")
	}
}

func TestHandleRequestHitAndMiss(t *testing.T) {
	store := cache.NewMemory("real-estate-v1")
	server := New(fixture_config(), store)

	req, err := http.NewRequest(http.MethodGet, "http://dashboard.local/styles.css", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if err := server.Cache().Set(context.Background(), req, fixture_cachedResponse("cached css")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	server.MarkReady()
	if !server.Ready() {
		t.Fatal("Ready() = false after MarkReady()")
	}

	// Hit: the stored response is returned without forwarding
	_, resp := server.handleRequest(req, &goproxy.ProxyCtx{})
	if resp == nil {
		t.Fatal("Expected cached response, got passthrough")
	}
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("Expected X-Cache: HIT, got %s", resp.Header.Get("X-Cache"))
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "cached css" {
		t.Errorf("Unexpected cached body: %s", string(body))
	}

	// Miss: unknown path is forwarded
	missReq, err := http.NewRequest(http.MethodGet, "http://dashboard.local/unknown.png", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	_, resp = server.handleRequest(missReq, &goproxy.ProxyCtx{})
	if resp != nil {
		t.Error("Expected passthrough for unknown path, got response")
	}

	// A miss never mutates the store
	if store.Len() != 1 {
		t.Errorf("Store membership changed on miss: len = %d, want 1", store.Len())
	}
}

func TestHandleResponseSetsMissHeader(t *testing.T) {
	server := New(fixture_config(), cache.NewMemory("real-estate-v1"))

	resp := fixture_cachedResponse("forwarded")
	got := server.handleResponse(resp, &goproxy.ProxyCtx{})
	if got.Header.Get("X-Cache") != "MISS" {
		t.Errorf("Expected X-Cache: MISS on forwarded response, got %s", got.Header.Get("X-Cache"))
	}

	// An existing X-Cache header is left alone
	hit := fixture_cachedResponse("cached")
	hit.Header.Set("X-Cache", "HIT")
	got = server.handleResponse(hit, &goproxy.ProxyCtx{})
	if got.Header.Get("X-Cache") != "HIT" {
		t.Errorf("Expected X-Cache: HIT preserved, got %s", got.Header.Get("X-Cache"))
	}
}
