package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, withGZip)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.getServerVersion)

		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Post("/user/register", h.register)
			r.Post("/user/login", h.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/sync", h.sync)
			r.Get("/sync/initial", h.initialSync)
		})
	})

	router.MethodNotAllowed(methodNotFound)

	return router
}
