package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/feed-harvester/internal/delivery/http/handler"
	"github.com/user/feed-harvester/internal/delivery/http/middleware"
	"github.com/user/feed-harvester/pkg/metrics"
)

func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/harvests", h.HandleSubmitHarvest)
		r.Get("/harvests/{id}", h.HandleGetHarvest)
		r.Get("/harvests/{id}/records.csv", h.HandleGetRecordsCSV)
		r.Post("/insomnia/export", h.HandleExportInsomnia)
	})

	return r
}
