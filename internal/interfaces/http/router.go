package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/molcraft/molcraft/internal/config"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/prometheus"
)

// NewRouter assembles the full HTTP surface: middleware stack, health
// probes, metrics exposition, and the versioned API routes.
func NewRouter(h *Handlers, cfg *config.Config, log logging.Logger, metrics *prometheus.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Recoverer(log))
	r.Use(RequestLogger(log))
	if metrics != nil && cfg.Metrics.Enabled {
		r.Use(RequestMetrics(metrics))
	}
	r.Use(CORS)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	if metrics != nil && cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/molecules", func(r chi.Router) {
			r.Post("/parse", h.Parse)
			r.Post("/render", h.Render)
			r.Post("/fingerprint", h.Fingerprint)
			r.Post("/similarity", h.Similarity)
			r.Post("/mcs", h.MCS)
			r.Post("/match", h.Match)
			r.Post("/conformers", h.Conformers)
			r.Post("/stereo", h.Stereo)
			r.Post("/lipinski", h.Lipinski)
		})
		r.Route("/reactions", func(r chi.Router) {
			r.Post("/apply", h.React)
			r.Post("/retro", h.Retro)
		})
	})

	return r
}
