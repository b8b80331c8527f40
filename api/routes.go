package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint under /api.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.health())

		r.Post("/auth/login", handlers.authHandler.login())
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/auth/session", handlers.authHandler.session())
		})

		// Generic query endpoint: reads are open (row-filtered for public
		// tables), writes demand a token. The handler enforces the split.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.optional)
			r.Post("/db/{table}/query", handlers.queryHandler.query())
		})

		r.Get("/storage/public/{bucket}/{key}", handlers.storageHandler.publicFetch())
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Post("/storage/upload", handlers.storageHandler.upload())
		})

		r.Get("/comments/{slug}", handlers.commentHandler.listApproved())
		r.Post("/comments/{slug}", handlers.commentHandler.create())
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)
			r.Get("/comments", handlers.commentHandler.listAll())
			r.Patch("/comments/{commentID}/approve", handlers.commentHandler.approve())
			r.Delete("/comments/{commentID}", handlers.commentHandler.delete())
		})
	})
}
