package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/models"
)

// BlogPostStore is keyed storage for blog posts.
//
// Lookups of a missing post fail with an error matching errs.ErrNotFound, and
// writes that would duplicate a slug fail with one matching
// errs.ErrUniqueConstraintViolation. Result order is not guaranteed.
type BlogPostStore interface {
	Insert(ctx context.Context, post *models.BlogPost) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	FindByStatus(ctx context.Context, status models.PostStatus) ([]*models.BlogPost, error)
	FindAll(ctx context.Context) ([]*models.BlogPost, error)
	Patch(ctx context.Context, id uuid.UUID, patch models.PostPatch) error
	// Delete is a no-op for an id that is not stored.
	Delete(ctx context.Context, id uuid.UUID) error
}
