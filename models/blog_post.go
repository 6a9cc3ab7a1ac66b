package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PostStatus governs who can read a post
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known statuses
func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID          uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Slug        string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex:idx_blog_posts_slug"`
	Excerpt     string                      `json:"excerpt" db:"excerpt" gorm:"type:text;not null;default:''"`
	Content     string                      `json:"content" db:"content" gorm:"type:text;not null"`
	CoverImage  *string                     `json:"coverImage,omitempty" db:"cover_image" gorm:"type:text"`
	Tags        datatypes.JSONSlice[string] `json:"tags" db:"tags" gorm:"not null"`
	Status      PostStatus                  `json:"status" db:"status" gorm:"type:text;not null;default:'draft';index:idx_blog_posts_status"`
	PublishedAt *time.Time                  `json:"publishedAt,omitempty" db:"published_at" gorm:"type:timestamptz;index:idx_blog_posts_published_at"`
	CreatedAt   time.Time                   `json:"createdAt" db:"created_at" gorm:"type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt   time.Time                   `json:"updatedAt" db:"updated_at" gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	ReadingTime int                         `json:"readingTime" db:"reading_time" gorm:"type:integer;not null;default:1"`
	AuthorID    *string                     `json:"authorId,omitempty" db:"author_id" gorm:"type:text"`
}

// IsPublished returns true if the post is visible to public readers.
func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// HasTag reports whether the post carries tag, ignoring case and surrounding space.
func (p *BlogPost) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if NormalizeTag(t) == NormalizeTag(tag) {
			return true
		}
	}
	return false
}

// PostPatch is a partial update of a stored post. Nil fields are left untouched.
// PublishedAt and ClearPublishedAt are mutually exclusive.
type PostPatch struct {
	Title            *string
	Slug             *string
	Excerpt          *string
	Content          *string
	ReadingTime      *int
	CoverImage       *string
	Tags             *[]string
	Status           *PostStatus
	PublishedAt      *time.Time
	ClearPublishedAt bool
	UpdatedAt        time.Time
}

// Apply copies the patch onto post.
func (p PostPatch) Apply(post *BlogPost) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Slug != nil {
		post.Slug = *p.Slug
	}
	if p.Excerpt != nil {
		post.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.ReadingTime != nil {
		post.ReadingTime = *p.ReadingTime
	}
	if p.CoverImage != nil {
		cover := *p.CoverImage
		post.CoverImage = &cover
	}
	if p.Tags != nil {
		post.Tags = datatypes.NewJSONSlice(append([]string(nil), (*p.Tags)...))
	}
	if p.Status != nil {
		post.Status = *p.Status
	}
	if p.PublishedAt != nil {
		at := *p.PublishedAt
		post.PublishedAt = &at
	}
	if p.ClearPublishedAt {
		post.PublishedAt = nil
	}
	post.UpdatedAt = p.UpdatedAt
}

// Columns returns the patch as a column map suitable for gorm's Updates.
// A map is used instead of a struct so that published_at can be set to NULL.
func (p PostPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"updated_at": p.UpdatedAt,
	}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Slug != nil {
		cols["slug"] = *p.Slug
	}
	if p.Excerpt != nil {
		cols["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.ReadingTime != nil {
		cols["reading_time"] = *p.ReadingTime
	}
	if p.CoverImage != nil {
		cols["cover_image"] = *p.CoverImage
	}
	if p.Tags != nil {
		cols["tags"] = datatypes.NewJSONSlice(*p.Tags)
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.PublishedAt != nil {
		cols["published_at"] = *p.PublishedAt
	}
	if p.ClearPublishedAt {
		cols["published_at"] = nil
	}
	return cols
}

// NormalizeTag is the comparison form of a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// CleanTags trims every tag and drops the empty ones, keeping order.
// The result is never nil.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
