package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/errs"
)

const (
	maxSlugAttempts = 50
	fallbackSlug    = "post"
)

// Slugify lower-cases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// baseSlug is the slug a title asks for before collisions are resolved.
func baseSlug(title string) string {
	if s := Slugify(title); s != "" {
		return s
	}
	return fallbackSlug
}

// uniqueSlug returns base, or base-2, base-3 and so on, whichever is free
// first. A slug held by exclude counts as free.
func (m *Manager) uniqueSlug(ctx context.Context, base string, exclude uuid.UUID) (string, error) {
	candidate := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt+1)
		}

		existing, err := m.store.FindBySlug(ctx, candidate)
		if errs.IsNotFound(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if exclude != uuid.Nil && existing.ID == exclude {
			return candidate, nil
		}
	}
	return "", errs.NewSlugGenerationError(base, maxSlugAttempts)
}
