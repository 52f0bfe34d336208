// Package router wires routes, middleware and static file serving.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/startdash-dev/startdash/internal/config"
	"github.com/startdash-dev/startdash/internal/handler"
	mw "github.com/startdash-dev/startdash/internal/middleware"
	"github.com/startdash-dev/startdash/internal/middleware/metrics"
	rl "github.com/startdash-dev/startdash/internal/middleware/ratelimiter"
)

// New builds the chi router. uploadsDir is served read-only under the public
// upload prefix; stored filenames never come verbatim from client input.
func New(h *handler.Handler, cfg *config.Config, uploadsDir string) chi.Router {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(mw.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	csp := "default-src 'self'; img-src 'self' data: https:; style-src 'self' 'unsafe-inline'; " +
		"script-src 'self'; connect-src 'self'; object-src 'none'; base-uri 'self'; " +
		"form-action 'self'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(cfg.HTTP.SecureCookies, csp))

	mutations := mw.RateLimit(rl.PerMinute(cfg.RateLimit.MutationsPerMinute), mw.GetIP)
	uploads := mw.RateLimit(rl.PerMinute(cfg.RateLimit.UploadsPerMinute), mw.GetIP)

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Get("/settings", h.GetSettings)

		r.Group(func(r chi.Router) {
			r.Use(mutations)

			r.Put("/settings", h.UpdateSettings)
			r.Delete("/settings/bg", h.DeleteBackground)

			r.Post("/card", h.CreateCard)
			r.Put("/card/{id}", h.UpdateCard)
			r.Delete("/card/{id}", h.DeleteCard)

			r.Post("/column", h.CreateColumn)
			r.Post("/column/reorder", h.ReorderColumns)
			r.Put("/column/{id}", h.UpdateColumn)
			r.Delete("/column/{id}", h.DeleteColumn)
			r.Post("/column/{id}/reorder-cards", h.ReorderCards)
		})

		r.Group(func(r chi.Router) {
			r.Use(uploads)
			r.Post("/upload-bg", h.UploadBackground)
		})
	})

	fileServer := http.StripPrefix(cfg.Upload.PublicPrefix, http.FileServer(http.Dir(uploadsDir)))
	r.Get(cfg.Upload.PublicPrefix+"*", fileServer.ServeHTTP)

	return r
}
