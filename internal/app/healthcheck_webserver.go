package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/qgraph/internal/ctxlog"
)

// httpServer wraps the healthcheck/metrics HTTP server so App can shut it
// down gracefully when the run finishes.
type httpServer struct {
	server *http.Server
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("health check endpoint hit", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// startHealthcheckServer starts the /health and /metrics HTTP endpoints
// in the background, exposing the Prometheus handler promhttp.Handler
// provides for internal/metrics alongside the liveness check.
func (a *App) startHealthcheckServer(ctx context.Context) {
	if a.cfg.HealthcheckPort <= 0 {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", a.cfg.HealthcheckPort)
	a.httpServer = &httpServer{server: &http.Server{Addr: addr, Handler: mux}}

	go func() {
		a.logger.Info("healthcheck server starting", "address", "http://localhost"+addr+"/health")
		if err := a.httpServer.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("healthcheck server failed", "error", err)
		}
	}()
}

func (a *App) stopHealthcheckServer(ctx context.Context) {
	if a.httpServer == nil {
		return
	}
	logger := ctxlog.FromContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.httpServer.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("healthcheck server shutdown failed", "error", err)
	}
}
