package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dejobratic/restoadmin/internal/database"
)

// RegisterOps adds liveness, readiness and Prometheus endpoints. pinger may
// be nil when the snapshot lives in memory.
func RegisterOps(mux *http.ServeMux, pinger database.Pinger, registry *prometheus.Registry, metricsPath string) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := database.CheckHealth(r.Context(), pinger); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Handle("GET "+metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
}
