package core

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchEncodedCachesByURL(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("pdf-bytes"))
	}))
	defer srv.Close()

	cache := NewFileCache(8, time.Minute, zap.NewNop())

	first, err := cache.FetchEncoded(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pdf-bytes")), first)

	second, err := cache.FetchEncoded(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int32(1), calls.Load(), "second fetch should be served from cache")
	assert.Equal(t, 1, cache.Len())
}

func TestFetchEncodedExpiry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("content"))
	}))
	defer srv.Close()

	cache := NewFileCache(8, 50*time.Millisecond, zap.NewNop())

	_, err := cache.FetchEncoded(context.Background(), srv.URL)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	_, err = cache.FetchEncoded(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "expired entry should be refetched")
}

func TestFetchEncodedUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := NewFileCache(8, time.Minute, zap.NewNop())

	_, err := cache.FetchEncoded(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrUpstreamFetch)
	assert.Equal(t, 0, cache.Len(), "failures must not be cached")
}
