// Maps HTTP requests and responses onto a cache.Store
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/homegrid/assetcache/internal/cache"
)

type HTTPCache struct {
	store cache.Store
}

func New(store cache.Store) *HTTPCache {
	return &HTTPCache{
		store: store,
	}
}

// Key derives the store key from the request identity (method + URL).
// The key doubles as a relative file path for the disk backend:
// host/path/METHOD[_qhash].bin
func Key(request *http.Request) string {
	// Hash query parameters to handle complex URLs
	var queryHash string
	if request.URL.RawQuery != "" {
		hash := sha256.Sum256([]byte(request.URL.RawQuery))
		queryHash = hex.EncodeToString(hash[:])[:8]
	}

	host := strings.TrimSuffix(strings.TrimSuffix(request.URL.Host, ":80"), ":443")
	parts := []string{host}

	if request.URL.Path != "" && request.URL.Path != "/" {
		parts = append(parts, strings.Trim(request.URL.Path, "/"))
	}

	filename := request.Method
	if queryHash != "" {
		filename += "_" + queryHash
	}
	filename += ".bin"

	parts = append(parts, filename)

	return path.Join(parts...)
}

// Set captures a response and stores it under the request's identity
func (c *HTTPCache) Set(ctx context.Context, request *http.Request, resp *http.Response) error {
	data, err := Serialize(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize response: %w", err)
	}

	if err := c.store.Set(ctx, Key(request), data); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Get returns the stored response for a request's identity, or nil on miss
func (c *HTTPCache) Get(ctx context.Context, request *http.Request) (*http.Response, error) {
	data, err := c.store.Get(ctx, Key(request))
	if err != nil {
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	resp, err := Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}
	// Associate the original request with the response
	resp.Request = request

	logrus.Debugf("Cache hit for %s %s", request.Method, request.URL.String())
	return resp, nil
}

// Store returns the underlying store
func (c *HTTPCache) Store() cache.Store {
	return c.store
}
