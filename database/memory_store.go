package database

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"gorm.io/datatypes"
)

// MemoryStore keeps blog posts in process memory. It enforces the same slug
// uniqueness as the unique index of the blog_posts table and hands out copies
// so callers can never mutate stored posts.
type MemoryStore struct {
	mu     sync.RWMutex
	posts  map[uuid.UUID]*models.BlogPost
	bySlug map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:  make(map[uuid.UUID]*models.BlogPost),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, post *models.BlogPost) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bySlug[post.Slug]; taken {
		return uuid.Nil, errs.NewUniqueConstraintViolationError(blogPostEntity, "slug", nil)
	}

	stored := clonePost(post)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if _, exists := s.posts[stored.ID]; exists {
		return uuid.Nil, errs.NewAlreadyExists(blogPostEntity)
	}
	post.ID = stored.ID

	s.posts[stored.ID] = stored
	s.bySlug[stored.Slug] = stored.ID
	return stored.ID, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, errs.NewNotFound(blogPostEntity)
	}
	return clonePost(post), nil
}

func (s *MemoryStore) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return nil, errs.NewNotFound(blogPostEntity)
	}
	return clonePost(s.posts[id]), nil
}

func (s *MemoryStore) FindByStatus(ctx context.Context, status models.PostStatus) ([]*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		if p.Status == status {
			posts = append(posts, clonePost(p))
		}
	}
	return posts, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]*models.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.BlogPost, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, clonePost(p))
	}
	return posts, nil
}

func (s *MemoryStore) Patch(ctx context.Context, id uuid.UUID, patch models.PostPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return errs.NewNotFound(blogPostEntity)
	}
	if patch.Slug != nil && *patch.Slug != post.Slug {
		if _, taken := s.bySlug[*patch.Slug]; taken {
			return errs.NewUniqueConstraintViolationError(blogPostEntity, "slug", nil)
		}
		delete(s.bySlug, post.Slug)
		s.bySlug[*patch.Slug] = id
	}
	patch.Apply(post)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post, ok := s.posts[id]; ok {
		delete(s.bySlug, post.Slug)
		delete(s.posts, id)
	}
	return nil
}

func clonePost(p *models.BlogPost) *models.BlogPost {
	c := *p
	c.Tags = datatypes.NewJSONSlice(append([]string{}, p.Tags...))
	if p.CoverImage != nil {
		cover := *p.CoverImage
		c.CoverImage = &cover
	}
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		c.PublishedAt = &at
	}
	if p.AuthorID != nil {
		author := *p.AuthorID
		c.AuthorID = &author
	}
	return &c
}
