// Package server implements the optional debug HTTP listener.
//
// The MCP transport owns stdin/stdout, so operational surfaces (health,
// metrics) live on a separate listener that is only started when an address
// is configured.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Debug is the debug HTTP server. It exposes a health check and the
// Prometheus metrics endpoint.
type Debug struct {
	router     chi.Router
	httpServer *http.Server
}

// NewDebug creates a debug server with its routes registered.
func NewDebug() *Debug {
	router := chi.NewMux()

	d := &Debug{router: router}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	return d
}

// Handler returns the underlying router. Exposed for tests.
func (d *Debug) Handler() http.Handler {
	return d.router
}

// ListenAndServe starts the debug server on the given address and blocks
// until it stops.
func (d *Debug) ListenAndServe(addr string) error {
	d.httpServer = &http.Server{
		Addr:              addr,
		Handler:           d.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return d.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the debug server.
func (d *Debug) Shutdown(ctx context.Context) error {
	if d.httpServer == nil {
		return nil
	}
	return d.httpServer.Shutdown(ctx)
}
