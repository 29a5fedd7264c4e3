package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
)

// DefaultMetricsAddr is the default listen address for the metrics server.
const DefaultMetricsAddr = ":9090"

// MetricsServerConfig configures the standalone metrics HTTP server.
type MetricsServerConfig struct {
	// Addr is the listen address. Defaults to DefaultMetricsAddr when empty.
	Addr string

	// InstrumentationProvider supplies the Prometheus handler for /metrics.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves Prometheus metrics and a liveness endpoint on a
// dedicated port, separate from the MCP transport. This keeps operational
// endpoints reachable even when the main transport is stdio.
type MetricsServer struct {
	addr     string
	provider *instrumentation.Provider

	mu         sync.Mutex
	httpServer *http.Server
}

// NewMetricsServer creates a metrics server from the given config.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	return &MetricsServer{
		addr:     addr,
		provider: config.InstrumentationProvider,
	}, nil
}

// Addr returns the address the server listens on.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Start begins serving metrics. It blocks until the server stops, returning
// http.ErrServerClosed after a graceful Shutdown.
func (s *MetricsServer) Start() error {
	mux := http.NewServeMux()

	if handler := s.provider.PrometheusHandler(); handler != nil {
		mux.Handle("/metrics", handler)
	} else {
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "metrics collection disabled", http.StatusNotImplemented)
		})
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	return httpServer.ListenAndServe()
}

// Shutdown gracefully stops the metrics server. Calling Shutdown before
// Start is a no-op.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}
