package api

import "github.com/rpupo63/portfolio-blog-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler blogPostHandler
	authHandler     authHandler
	feedHandler     feedHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// BlogPostCollection represents a list of blog posts
type BlogPostCollection struct {
	BlogPosts []*models.BlogPost `json:"blogPosts"`
	Total     int                `json:"total"`
}

// IDResponse is returned by mutations
type IDResponse struct {
	ID string `json:"id"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}

type CurrentUserResponse struct {
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"isAdmin"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	StartedAt     string `json:"startedAt"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}
