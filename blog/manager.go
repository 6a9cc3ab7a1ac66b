// Package blog owns the blog post lifecycle and the rule for who may read
// which posts.
package blog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/auth"
	"github.com/rpupo63/portfolio-blog-backend/database"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rpupo63/portfolio-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// maxWriteAttempts bounds how often a write is retried after losing a slug
// race against a concurrent writer.
const maxWriteAttempts = 3

const DefaultCacheTTL = 60 * time.Second

// PublishedFilter narrows ListPublished. The zero value keeps every post.
type PublishedFilter struct {
	Tag   string
	Query string
}

func (f PublishedFilter) matches(p *models.BlogPost) bool {
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Excerpt), q)
	}
	return true
}

type CreateInput struct {
	Title      string            `json:"title"`
	Excerpt    string            `json:"excerpt"`
	Content    string            `json:"content"`
	CoverImage *string           `json:"coverImage,omitempty"`
	Tags       []string          `json:"tags"`
	Status     models.PostStatus `json:"status"`
}

// UpdateInput carries only the fields the caller wants to change.
type UpdateInput struct {
	Title      *string            `json:"title,omitempty"`
	Excerpt    *string            `json:"excerpt,omitempty"`
	Content    *string            `json:"content,omitempty"`
	CoverImage *string            `json:"coverImage,omitempty"`
	Tags       *[]string          `json:"tags,omitempty"`
	Status     *models.PostStatus `json:"status,omitempty"`
}

type Manager struct {
	store    database.BlogPostStore
	authz    auth.Authorizer
	notifier services.Notifier
	now      func() time.Time
	cacheTTL time.Duration
	cache    *publishedCache
	logger   zerolog.Logger
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithNotifier(n services.Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithCacheTTL sets how long the published list is served from memory.
// Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.cacheTTL = ttl
	}
}

func NewManager(store database.BlogPostStore, authz auth.Authorizer, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		authz:    authz,
		now:      time.Now,
		cacheTTL: DefaultCacheTTL,
		logger:   log.With().Str("component", "blogManager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cache = newPublishedCache(store, m.cacheTTL, m.now)
	return m
}

// ListPublished returns published posts, newest publication first.
func (m *Manager) ListPublished(ctx context.Context, filter PublishedFilter) ([]*models.BlogPost, error) {
	posts, err := m.cache.Published(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.BlogPost, 0, len(posts))
	for _, p := range posts {
		if filter.matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// ListTags returns the distinct tags of published posts in alphabetical
// order. Tags differing only in case are reported once, in the first form seen.
func (m *Manager) ListTags(ctx context.Context) ([]string, error) {
	posts, err := m.cache.Published(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range posts {
		for _, t := range p.Tags {
			key := models.NormalizeTag(t)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			tags = append(tags, strings.TrimSpace(t))
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		return models.NormalizeTag(tags[i]) < models.NormalizeTag(tags[j])
	})
	return tags, nil
}

// ListAll returns every post, most recently updated first. Callers that are
// not the admin get an empty list rather than an error.
func (m *Manager) ListAll(ctx context.Context, sess auth.Session) ([]*models.BlogPost, error) {
	if _, err := m.authz.RequireAdmin(sess); err != nil {
		m.logger.Debug().Err(err).Msg("listAll requested without admin rights")
		return []*models.BlogPost{}, nil
	}

	posts, err := m.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].UpdatedAt.After(posts[j].UpdatedAt)
	})
	return posts, nil
}

// GetByID returns nil, nil when the post does not exist or is a draft the
// caller may not see.
func (m *Manager) GetByID(ctx context.Context, sess auth.Session, id uuid.UUID) (*models.BlogPost, error) {
	post, err := m.store.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if post.IsPublished() || m.authz.IsAdmin(sess) {
		return post, nil
	}
	return nil, nil
}

// GetBySlug only ever returns published posts, admin or not.
func (m *Manager) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := m.store.FindBySlug(ctx, slug)
	if errs.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, nil
	}
	return post, nil
}

func (m *Manager) Create(ctx context.Context, sess auth.Session, in CreateInput) (uuid.UUID, error) {
	user, err := m.authz.RequireAdmin(sess)
	if err != nil {
		return uuid.Nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError("title")
	}
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return uuid.Nil, errs.NewInvalidFieldError("status", fmt.Sprintf("must be %q or %q", models.StatusDraft, models.StatusPublished))
	}
	excerpt := in.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = DeriveExcerpt(title)
	}

	now := m.now()
	authorID := user.ID
	post := &models.BlogPost{
		Title:       title,
		Excerpt:     excerpt,
		Content:     in.Content,
		CoverImage:  in.CoverImage,
		Tags:        datatypes.NewJSONSlice(models.CleanTags(in.Tags)),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
		ReadingTime: ReadingTime(in.Content),
		AuthorID:    &authorID,
	}
	if status == models.StatusPublished {
		publishedAt := now
		post.PublishedAt = &publishedAt
	}

	base := baseSlug(title)
	var id uuid.UUID
	for attempt := 1; ; attempt++ {
		slug, err := m.uniqueSlug(ctx, base, uuid.Nil)
		if err != nil {
			return uuid.Nil, err
		}
		post.Slug = slug

		id, err = m.store.Insert(ctx, post)
		if err == nil {
			break
		}
		if errs.IsUniqueConstraintViolation(err) && attempt < maxWriteAttempts {
			m.logger.Warn().Str("slug", slug).Int("attempt", attempt).Msg("Slug taken by a concurrent write, retrying")
			continue
		}
		return uuid.Nil, err
	}

	m.cache.Invalidate()
	m.logger.Info().Str("id", id.String()).Str("slug", post.Slug).Str("status", string(status)).Msg("Blog post created")

	if post.PublishedAt != nil {
		m.notifyPublished(ctx, *post)
	}
	return id, nil
}

// Update applies the supplied fields to the post. A new title re-derives the
// slug, new content re-derives the reading time and a status change moves
// publishedAt: publishing an unpublished post stamps it, drafting clears it.
func (m *Manager) Update(ctx context.Context, sess auth.Session, id uuid.UUID, in UpdateInput) (uuid.UUID, error) {
	if _, err := m.authz.RequireAdmin(sess); err != nil {
		return uuid.Nil, err
	}

	existing, err := m.store.FindByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	now := m.now()
	patch := models.PostPatch{UpdatedAt: now}

	effectiveTitle := existing.Title
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return uuid.Nil, errs.NewInvalidFieldError("title", "must not be blank")
		}
		patch.Title = &title
		effectiveTitle = title
	}
	if in.Excerpt != nil {
		excerpt := *in.Excerpt
		if strings.TrimSpace(excerpt) == "" {
			excerpt = DeriveExcerpt(effectiveTitle)
		}
		patch.Excerpt = &excerpt
	}
	if in.Content != nil {
		content := *in.Content
		readingTime := ReadingTime(content)
		patch.Content = &content
		patch.ReadingTime = &readingTime
	}
	if in.CoverImage != nil {
		cover := *in.CoverImage
		patch.CoverImage = &cover
	}
	if in.Tags != nil {
		tags := models.CleanTags(*in.Tags)
		patch.Tags = &tags
	}

	newlyPublished := false
	if in.Status != nil {
		status := *in.Status
		if !status.Valid() {
			return uuid.Nil, errs.NewInvalidFieldError("status", fmt.Sprintf("must be %q or %q", models.StatusDraft, models.StatusPublished))
		}
		patch.Status = &status
		switch status {
		case models.StatusPublished:
			if existing.PublishedAt == nil {
				publishedAt := now
				patch.PublishedAt = &publishedAt
				newlyPublished = true
			}
		case models.StatusDraft:
			patch.ClearPublishedAt = true
		}
	}

	for attempt := 1; ; attempt++ {
		if patch.Title != nil {
			slug, err := m.uniqueSlug(ctx, baseSlug(*patch.Title), id)
			if err != nil {
				return uuid.Nil, err
			}
			patch.Slug = &slug
		}

		err := m.store.Patch(ctx, id, patch)
		if err == nil {
			break
		}
		if patch.Title != nil && errs.IsUniqueConstraintViolation(err) && attempt < maxWriteAttempts {
			m.logger.Warn().Str("slug", *patch.Slug).Int("attempt", attempt).Msg("Slug taken by a concurrent write, retrying")
			continue
		}
		return uuid.Nil, err
	}

	m.cache.Invalidate()
	m.logger.Info().Str("id", id.String()).Msg("Blog post updated")

	if newlyPublished {
		updated := *existing
		patch.Apply(&updated)
		m.notifyPublished(ctx, updated)
	}
	return id, nil
}

// Remove deletes the post permanently. Removing a missing post succeeds.
func (m *Manager) Remove(ctx context.Context, sess auth.Session, id uuid.UUID) error {
	if _, err := m.authz.RequireAdmin(sess); err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.cache.Invalidate()
	m.logger.Info().Str("id", id.String()).Msg("Blog post removed")
	return nil
}

func (m *Manager) notifyPublished(ctx context.Context, post models.BlogPost) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.PostPublished(ctx, post); err != nil {
		m.logger.Error().Err(err).Str("slug", post.Slug).Msg("Publish notification failed")
	}
}
