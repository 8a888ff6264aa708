package launcher

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pysugar/launcher-accounts/internal/middleware"
)

// Router exposes the launcher state and account operations.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", StateHandler(s))
		r.Get("/accounts", AccountsHandler(s))
		r.Get("/version", VersionHandler())
		if s.monitor != nil {
			r.Get("/passes", PassesHandler(s.monitor))
			r.Get("/passes/stats", PassStatsHandler(s.monitor))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(s.apiKey))
			r.Post("/accounts", CreateAccountHandler(s))
			r.Post("/reconcile", ReconcileHandler(s))
			if s.monitor != nil {
				r.Delete("/passes", ClearPassesHandler(s.monitor))
			}
		})
	})
	return r
}
