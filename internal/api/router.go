package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(svc Service, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	assets := NewAssetsHandler(svc)
	scores := NewScoresHandler(svc)
	weights := NewWeightsHandler(svc)
	admin := NewAdminHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(CallerIDMiddleware)

		r.Post("/assets", assets.Register)
		r.Get("/assets/total", assets.Total)
		r.Get("/assets/{id}", assets.Get)

		r.Post("/scores/batch", scores.Batch)
		r.Post("/scores/{id}", scores.Compute)
		r.Get("/scores/{id}", scores.Get)

		r.Post("/weights/init", weights.Initialize)
		r.Get("/weights", weights.List)
		r.Put("/weights/{trait}", weights.Update)
		r.Get("/weights/{trait}", weights.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
