package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/blog"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxPostBodySize bounds create and update payloads.
const maxPostBodySize = 5 << 20

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	manager   *blog.Manager
}

func newBlogPostHandler(manager *blog.Manager) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		manager:   manager,
	}
}

// listPublished retrieves published blog posts
// @Summary List published blog posts
// @Description Published posts, newest first, optionally filtered by tag or a title/excerpt search
// @Tags Blog Posts
// @Produce json
// @Param tag query string false "Only posts carrying this tag"
// @Param q query string false "Case-insensitive search in title and excerpt"
// @Success 200 {object} BlogPostCollection
// @Failure 500 {object} ErrorResponse
// @Router /blog/posts [get]
func (h blogPostHandler) listPublished() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := blog.PublishedFilter{
			Tag:   r.URL.Query().Get("tag"),
			Query: r.URL.Query().Get("q"),
		}

		posts, err := h.manager.ListPublished(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, BlogPostCollection{BlogPosts: posts, Total: len(posts)})
	}
}

// @Summary List tags
// @Router /blog/tags [get]
func (h blogPostHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.manager.ListTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, TagsResponse{Tags: tags})
	}
}

// getBySlug retrieves a published post by its slug
// @Summary Get published blog post by slug
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} ErrorResponse "Not Found - no published post with this slug"
// @Router /blog/posts/slug/{slug} [get]
func (h blogPostHandler) getBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.manager.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// getByID retrieves a post by id. Drafts are only visible to the admin.
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param postID path string true "Blog Post ID" format(uuid)
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/posts/{postID} [get]
func (h blogPostHandler) getByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.manager.GetByID(r.Context(), ctxGetSession(r.Context()), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post not found"))
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// listAll retrieves every post for the admin editor. Everyone else gets an
// empty list.
// @Summary List all blog posts (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} BlogPostCollection
// @Router /admin/posts [get]
func (h blogPostHandler) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.manager.ListAll(r.Context(), ctxGetSession(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, BlogPostCollection{BlogPosts: posts, Total: len(posts)})
	}
}

// createBlogPost creates a new blog post
// @Summary Create blog post (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param blogPost body blog.CreateInput true "Blog post data"
// @Success 201 {object} IDResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Conflict - no free slug"
// @Router /admin/posts [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input blog.CreateInput
		if err := h.decode(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := h.manager.Create(r.Context(), ctxGetSession(r.Context()), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, IDResponse{ID: id.String()})
	}
}

// updateBlogPost applies a partial update
// @Summary Update blog post (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param postID path string true "Blog Post ID" format(uuid)
// @Param patch body blog.UpdateInput true "Fields to change"
// @Success 200 {object} IDResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/posts/{postID} [patch]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input blog.UpdateInput
		if err := h.decode(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := h.manager.Update(r.Context(), ctxGetSession(r.Context()), postID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, IDResponse{ID: id.String()})
	}
}

// deleteBlogPost removes a blog post; deleting a missing post also succeeds
// @Summary Delete blog post (admin)
// @Tags Admin
// @Param postID path string true "Blog Post ID" format(uuid)
// @Success 204
// @Router /admin/posts/{postID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := parsePostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.manager.Remove(r.Context(), ctxGetSession(r.Context()), postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h blogPostHandler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPostBodySize)).Decode(dst); err != nil {
		h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to decode blog post request body")
		return errs.NewMalformedPayloadError("blog post", err)
	}
	return nil
}

func parsePostID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "postID")
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError("postID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("postID", "must be a UUID")
	}
	return id, nil
}
