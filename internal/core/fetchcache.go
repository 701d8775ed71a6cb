package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	DefaultFileCacheTTL  = 7 * 24 * time.Hour
	DefaultFileCacheSize = 256
)

// FileCache retrieves remote binary resources (PDFs, images) by URL and
// caches the base64-encoded payload. Entries expire by TTL and the cache is
// size-bounded, so repeated generation calls against the same workspace do
// not refetch unchanged sources and cannot grow memory without limit.
//
// Concurrent requests may race to populate the same key; last writer wins,
// which is benign because values are idempotent per URL.
type FileCache struct {
	cache  *expirable.LRU[string, string]
	client *http.Client
	log    *zap.Logger
}

func NewFileCache(size int, ttl time.Duration, log *zap.Logger) *FileCache {
	if size <= 0 {
		size = DefaultFileCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultFileCacheTTL
	}
	return &FileCache{
		cache:  expirable.NewLRU[string, string](size, nil, ttl),
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log,
	}
}

// FetchEncoded returns the base64-encoded bytes at url. A cache hit performs
// no network call. A miss fetches once, stores the result, and returns it;
// fetch failures surface as ErrUpstreamFetch with no retry.
func (c *FileCache) FetchEncoded(ctx context.Context, url string) (string, error) {
	if data, ok := c.cache.Get(url); ok {
		c.log.Debug("file cache hit", zap.String("url", url))
		return data, nil
	}
	c.log.Debug("file cache miss", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %s: %v", ErrUpstreamFetch, url, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", ErrUpstreamFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetching %s: unexpected status %d", ErrUpstreamFetch, url, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body of %s: %v", ErrUpstreamFetch, url, err)
	}

	data := base64.StdEncoding.EncodeToString(raw)
	c.cache.Add(url, data)
	return data, nil
}

// Len reports the number of live entries, mainly for tests and diagnostics.
func (c *FileCache) Len() int {
	return c.cache.Len()
}
