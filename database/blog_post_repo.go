package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

const blogPostEntity = "blog_post"

// BlogPostRepo stores blog posts in PostgreSQL through gorm.
type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// conn binds ctx and routes the query to the primary when ctx asks for it.
func (r *BlogPostRepo) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if usePrimary(ctx) {
		db = db.Clauses(dbresolver.Write)
	}
	return db
}

// Insert stores a new post and returns its id.
func (r *BlogPostRepo) Insert(ctx context.Context, post *models.BlogPost) (uuid.UUID, error) {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if err := r.conn(ctx).Create(post).Error; err != nil {
		return uuid.Nil, translateError("create", err)
	}
	return post.ID, nil
}

func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.conn(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translateError("find", err)
	}
	return &post, nil
}

func (r *BlogPostRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.conn(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translateError("find", err)
	}
	return &post, nil
}

// FindByStatus uses idx_blog_posts_status.
func (r *BlogPostRepo) FindByStatus(ctx context.Context, status models.PostStatus) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	if err := r.conn(ctx).Where("status = ?", status).Find(&posts).Error; err != nil {
		return nil, translateError("list", err)
	}
	return posts, nil
}

func (r *BlogPostRepo) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	if err := r.conn(ctx).Find(&posts).Error; err != nil {
		return nil, translateError("list", err)
	}
	return posts, nil
}

// Patch writes only the columns present in patch.
func (r *BlogPostRepo) Patch(ctx context.Context, id uuid.UUID, patch models.PostPatch) error {
	res := r.conn(ctx).
		Model(&models.BlogPost{}).
		Where("id = ?", id).
		Updates(patch.Columns())
	if res.Error != nil {
		return translateError("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(blogPostEntity)
	}
	return nil
}

func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.conn(ctx).Where("id = ?", id).Delete(&models.BlogPost{}).Error; err != nil {
		return translateError("delete", err)
	}
	return nil
}

func translateError(operation string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewNotFound(blogPostEntity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.NewUniqueConstraintViolationError(blogPostEntity, "slug", err)
	default:
		return errs.NewDatabaseError(operation, blogPostEntity, err)
	}
}
