package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers every endpoint. Handlers read the caller's session
// from the context; authorization is decided by the blog manager.
func setupRoutes(r chi.Router, handlers *routeHandlers, sessions sessionMiddleware) {
	r.Get("/healthz", handlers.healthHandler.getHealth())

	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(sessions.loadSession)

		r.Get("/auth/me", handlers.authHandler.getCurrentUser())

		// Public blog endpoints
		r.Get("/blog/posts", handlers.blogPostHandler.listPublished())
		r.Get("/blog/tags", handlers.blogPostHandler.listTags())
		r.Get("/blog/posts/slug/{slug}", handlers.blogPostHandler.getBySlug())
		r.Get("/blog/posts/{postID}", handlers.blogPostHandler.getByID())

		// Admin editor endpoints
		r.Get("/admin/posts", handlers.blogPostHandler.listAll())
		r.Post("/admin/posts", handlers.blogPostHandler.createBlogPost())
		r.Patch("/admin/posts/{postID}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/admin/posts/{postID}", handlers.blogPostHandler.deleteBlogPost())

		r.Get("/feed.xml", handlers.feedHandler.getRSS())
		r.Get("/sitemap.xml", handlers.feedHandler.getSitemap())
	})
}
