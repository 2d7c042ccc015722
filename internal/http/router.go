// Package httpapi assembles the public HTTP router.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agora/internal/platform/metrics"
	"agora/internal/platform/middleware"
	"agora/internal/registration/handler"
)

// Deps are the collaborators the router needs. Gatherer may be nil to skip /metrics.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Registration *handler.Handler
}

// NewRouter wires the shared middleware chain, the registration endpoints,
// a liveness probe and the Prometheus scrape endpoint.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Observe(d.Logger, d.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	d.Registration.Register(r)
	return r
}
