// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "seoul-estate-search/internal/common/errors"
	"seoul-estate-search/internal/common/logger"
	"seoul-estate-search/internal/common/metrics"
	"seoul-estate-search/internal/estate"
)

// Searcher is the search pipeline as seen by the facade.
type Searcher interface {
	Search(ctx context.Context, term string, includeAgents bool) (*estate.SearchResult, error)
}

// Proxy forwards raw dataset paths to the upstream API.
type Proxy interface {
	Passthrough(ctx context.Context, apiPath, rawQuery string) ([]byte, error)
}

// Server is the thin HTTP facade: validate, orchestrate, serialize.
type Server struct {
	searcher Searcher
	proxy    Proxy
	logger   logger.Logger
	errors   *apperrors.HTTPWriter
}

func New(searcher Searcher, proxy Proxy, log logger.Logger) *Server {
	return &Server{
		searcher: searcher,
		proxy:    proxy,
		logger:   log.WithFields(map[string]interface{}{"component": "server"}),
		errors:   apperrors.NewHTTPWriter(log),
	}
}

// Handler builds the route table wrapped in request-ID and access-log
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/seoul-proxy/", s.handleProxy)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return withRequestID(withAccessLog(s.logger, mux))
}

// handleSearch serves GET /search?address=<term>[&agents=true].
// 200 on success including an empty result set; 400 when address is
// missing or blank; 500/504 on configuration or upstream failures.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	began := time.Now()
	term := r.URL.Query().Get("address")
	if strings.TrimSpace(term) == "" {
		s.respondSearchError(w, r, apperrors.NewValidationFailed("주소를 입력해주세요."))
		return
	}
	includeAgents := r.URL.Query().Get("agents") == "true"

	result, err := s.searcher.Search(r.Context(), term, includeAgents)
	if err != nil {
		s.respondSearchError(w, r, err)
		return
	}

	metrics.SearchRequests.WithLabelValues("200").Inc()
	metrics.SearchDuration.Observe(time.Since(began).Seconds())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) respondSearchError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(apperrors.AsStandard(err).Code)
	metrics.SearchRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	s.errors.Write(w, r, err)
}

// handleProxy serves GET /seoul-proxy/<datasetPath> as a raw passthrough of
// the upstream JSON.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	apiPath := strings.TrimPrefix(r.URL.Path, "/seoul-proxy/")
	if apiPath == "" {
		s.errors.Write(w, r, apperrors.NewValidationFailed("Invalid path"))
		return
	}

	body, err := s.proxy.Passthrough(r.Context(), apiPath, r.URL.RawQuery)
	if err != nil {
		s.errors.Write(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
