// Package proxy implements a local read-through caching proxy in front of
// the stats backend. A browser dashboard points at it instead of the backend
// and gets camelCase payloads, cached responses, and uniform error bodies.
package proxy

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/revlens-ai/revlens/pkg/cache"
	"github.com/revlens-ai/revlens/pkg/config"
	"github.com/revlens-ai/revlens/pkg/models"
	"github.com/revlens-ai/revlens/pkg/transform"
)

// apiPrefix is the path prefix the dashboard requests under; everything
// below it is forwarded to the backend relative to the configured base URL.
const apiPrefix = "/api/v1"

// Server is the Revlens read-through proxy.
type Server struct {
	cfg     *config.Config
	cache   *cache.Cache
	client  *http.Client
	mux     *http.ServeMux
	version string
}

// New creates a proxy Server. A nil cache disables response caching.
func New(cfg *config.Config, store *cache.Cache, version string) *Server {
	timeout := cfg.API.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		cache:   store,
		client:  &http.Client{Timeout: timeout},
		mux:     http.NewServeMux(),
		version: version,
	}
	s.mux.HandleFunc(apiPrefix+"/", s.handleStats)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/internal/cache/stats", s.handleCacheStats)
	s.mux.HandleFunc("/internal/cache/clear", s.handleCacheClear)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the proxy server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("revlens proxy listening on %s (upstream %s)", s.cfg.Listen, s.cfg.API.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	endpoint := strings.TrimPrefix(r.URL.Path, apiPrefix)
	if endpoint == "" || endpoint == "/" {
		writeError(w, http.StatusNotFound, "unknown endpoint")
		return
	}

	filters := filtersFromQuery(r.URL.Query())
	key := cache.Key(endpoint, filters)

	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if body, ok := v.([]byte); ok {
				serveJSON(w, body, "hit")
				return
			}
		}
	}

	upstream := s.cfg.API.BaseURL + endpoint
	if qs := filters.Encode(); qs != "" {
		upstream += "?" + qs
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		writeError(w, resp.StatusCode, upstreamDetail(resp.StatusCode, body))
		return
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadGateway, "malformed upstream payload")
		return
	}
	normalized, err := json.Marshal(transform.CamelizeKeys(raw))
	if err != nil {
		writeError(w, http.StatusBadGateway, "malformed upstream payload")
		return
	}

	if s.cache != nil {
		s.cache.Set(key, normalized)
	}
	serveJSON(w, normalized, "miss")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"name":      s.cfg.AppName,
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "cache disabled")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.cache.Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "cache disabled")
		return
	}
	s.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// filtersFromQuery canonicalizes request query parameters so equivalent
// requests share a cache key.
func filtersFromQuery(q map[string][]string) models.Filters {
	f := models.Filters{}
	for k, vs := range q {
		if len(vs) > 0 && vs[0] != "" {
			f[k] = vs[0]
		}
	}
	return f
}

// upstreamDetail pulls the backend's detail message out of an error body,
// falling back to a status-based message.
func upstreamDetail(status int, body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return http.StatusText(status)
}

func serveJSON(w http.ResponseWriter, body []byte, cacheState string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Revlens-Cache", cacheState)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIError{Detail: detail})
}
