package api

import (
	"time"

	"github.com/rpupo63/portfolio-blog-backend/auth"
	"github.com/rpupo63/portfolio-blog-backend/blog"
	"github.com/rpupo63/portfolio-blog-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(manager *blog.Manager, authz auth.Authorizer, c map[string]string, startupTime time.Time) *routeHandlers {
	site := siteInfo{
		Name:        config.GetString(c, "SITE_NAME", "Blog"),
		BaseURL:     config.GetString(c, "BASE_URL", "http://localhost:3000"),
		Description: config.GetString(c, "SITE_DESCRIPTION", ""),
	}

	return &routeHandlers{
		blogPostHandler: newBlogPostHandler(manager),
		authHandler:     newAuthHandler(authz),
		feedHandler:     newFeedHandler(manager, site),
		healthHandler:   newHealthHandler(startupTime),
	}
}
