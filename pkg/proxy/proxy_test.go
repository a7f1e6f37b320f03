package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens-ai/revlens/pkg/cache"
	"github.com/revlens-ai/revlens/pkg/config"
	"github.com/revlens-ai/revlens/pkg/models"
)

func newTestProxy(upstreamURL string, store *cache.Cache) *Server {
	cfg := config.Default()
	cfg.API.BaseURL = upstreamURL
	cfg.API.Timeout = 2 * time.Second
	return New(cfg, store, "test")
}

func TestReadThroughCamelizesAndCaches(t *testing.T) {
	var calls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/overall", r.URL.Path)
		w.Write([]byte(`{"conversation_count": 77, "quality_dimensions": []}`))
	}))
	defer upstream.Close()

	srv := newTestProxy(upstream.URL, cache.New(time.Minute))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overall", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "miss", rec.Header().Get("X-Revlens-Cache"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(77), body["conversationCount"], "payload must be camelized")
	_, hasSnake := body["conversation_count"]
	assert.False(t, hasSnake)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overall", nil))
	assert.Equal(t, "hit", rec.Header().Get("X-Revlens-Cache"))
	assert.Equal(t, int64(1), calls.Load(), "second request must not reach upstream")
}

func TestQueryCanonicalizationSharesCacheKey(t *testing.T) {
	var calls atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	srv := newTestProxy(upstream.URL, cache.New(time.Minute))

	for _, target := range []string{
		"/api/v1/by-domain?domain=Electronics&reviewer=",
		"/api/v1/by-domain?domain=Electronics",
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, int64(1), calls.Load(), "equivalent queries must share a cache entry")
}

func TestUpstreamErrorPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail": "warehouse offline"}`))
	}))
	defer upstream.Close()

	srv := newTestProxy(upstream.URL, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overall", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "warehouse offline", apiErr.Detail)
}

func TestUpstreamErrorFallbackDetail(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	srv := newTestProxy(upstream.URL, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overall", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "Internal Server Error", apiErr.Detail)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestProxy("http://localhost:0", nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/overall", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestProxy("http://localhost:0", nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestCacheAdminEndpoints(t *testing.T) {
	store := cache.New(time.Minute)
	store.Set("/overall", []byte(`{}`))
	srv := newTestProxy("http://localhost:0", store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Entries)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/internal/cache/clear", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestCacheAdminDisabled(t *testing.T) {
	srv := newTestProxy("http://localhost:0", nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/cache/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
