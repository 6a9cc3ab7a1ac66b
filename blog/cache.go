package blog

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/database"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
)

// publishedCache holds the published posts, newest first, for a fixed TTL.
// Concurrent misses within one generation share one store read; a caller that
// starts after an invalidation never joins a load from an older generation.
// Loads following an invalidation read from the primary.
type publishedCache struct {
	mu         sync.RWMutex
	posts      []models.BlogPost
	fetched    time.Time
	generation uint64
	dirty      bool
	ttl        time.Duration
	now        func() time.Time
	group      singleflight.Group
	store      database.BlogPostStore
}

func newPublishedCache(store database.BlogPostStore, ttl time.Duration, now func() time.Time) *publishedCache {
	return &publishedCache{store: store, ttl: ttl, now: now}
}

func (c *publishedCache) valid() bool {
	return c.posts != nil && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *publishedCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.generation++
	c.dirty = true
	c.mu.Unlock()
}

// Published returns copies of the published posts ordered by publishedAt
// descending.
func (c *publishedCache) Published(ctx context.Context) ([]*models.BlogPost, error) {
	if c.ttl <= 0 {
		posts, err := loadPublished(ctx, c.store)
		if err != nil {
			return nil, err
		}
		return copyPosts(posts), nil
	}

	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return copyPosts(posts), nil
	}
	generation, dirty := c.generation, c.dirty
	c.mu.RUnlock()

	key := "published-" + strconv.FormatUint(generation, 10)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		if dirty {
			loadCtx = database.WithPrimary(loadCtx)
		}
		posts, err := loadPublished(loadCtx, c.store)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == generation {
			c.posts = posts
			c.fetched = c.now()
			c.dirty = false
		}
		c.mu.Unlock()
		return posts, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyPosts(res.Val.([]models.BlogPost)), nil
	}
}

func loadPublished(ctx context.Context, store database.BlogPostStore) ([]models.BlogPost, error) {
	found, err := store.FindByStatus(ctx, models.StatusPublished)
	if err != nil {
		return nil, err
	}

	posts := make([]models.BlogPost, 0, len(found))
	for _, p := range found {
		posts = append(posts, *p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return publishedUnix(&posts[i]) > publishedUnix(&posts[j])
	})
	return posts, nil
}

// publishedUnix sorts a missing publishedAt as the epoch.
func publishedUnix(p *models.BlogPost) int64 {
	if p.PublishedAt == nil {
		return 0
	}
	return p.PublishedAt.UnixNano()
}

func copyPosts(posts []models.BlogPost) []*models.BlogPost {
	out := make([]*models.BlogPost, len(posts))
	for i := range posts {
		p := posts[i]
		p.Tags = datatypes.NewJSONSlice(append([]string{}, p.Tags...))
		out[i] = &p
	}
	return out
}
