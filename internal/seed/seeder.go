// One-time population of the cache store from the origin server
package seed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/homegrid/assetcache/internal/cache/httpcache"
	"github.com/homegrid/assetcache/internal/metrics"
)

// Seeder fetches a fixed, ordered list of asset paths from the origin and
// stores the captured responses. It runs exactly once, before the
// interceptor starts serving; the store is never written again afterwards.
type Seeder struct {
	origin *url.URL
	cache  *httpcache.HTTPCache
	client *http.Client

	// AbortOnError makes seeding all-or-nothing: the first failed fetch
	// fails the whole seed. When false, failures are logged and the
	// remaining paths are still seeded.
	AbortOnError bool
}

// New creates a seeder fetching from the given origin base URL
func New(origin *url.URL, cache *httpcache.HTTPCache, timeout time.Duration) *Seeder {
	return &Seeder{
		origin: origin,
		cache:  cache,
		client: &http.Client{
			Timeout: timeout,
		},
		AbortOnError: true,
	}
}

// Seed fetches and stores every path in order. Paths are resolved against
// the origin base URL.
func (s *Seeder) Seed(ctx context.Context, paths []string) error {
	seeded := 0
	for _, p := range paths {
		if err := s.seedOne(ctx, p); err != nil {
			metrics.SeedErrors.Inc()
			if s.AbortOnError {
				return fmt.Errorf("seeding %s: %w", p, err)
			}
			logrus.Errorf("Failed to seed %s, continuing: %v", p, err)
			continue
		}
		seeded++
		metrics.SeededAssets.Inc()
	}

	logrus.Infof("Seeded %d/%d assets into store version %s", seeded, len(paths), s.cache.Store().Version())
	return nil
}

func (s *Seeder) seedOne(ctx context.Context, path string) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid seed path: %w", err)
	}
	target := s.origin.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A 404 for a listed asset is as fatal as a transport error
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := s.cache.Set(ctx, req, resp); err != nil {
		return err
	}

	logrus.Debugf("Seeded %s -> %d", target.String(), resp.StatusCode)
	return nil
}
