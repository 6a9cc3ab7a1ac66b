package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/auth"
	"github.com/rpupo63/portfolio-blog-backend/database"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminEmail = "admin@example.com"

var (
	adminSession  = auth.Session{User: &models.User{ID: "admin-1", Email: " Admin@Example.com"}}
	readerSession = auth.Session{User: &models.User{ID: "reader-1", Email: "reader@example.com"}}
	anonymous     = auth.Session{}
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu    sync.Mutex
	posts []models.BlogPost
	err   error
}

func (n *recordingNotifier) PostPublished(_ context.Context, post models.BlogPost) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.posts = append(n.posts, post)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.posts)
}

type testEnv struct {
	manager  *Manager
	store    *database.MemoryStore
	clock    *fakeClock
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, opts ...Option) testEnv {
	t.Helper()
	env := testEnv{
		store:    database.NewMemoryStore(),
		clock:    newFakeClock(),
		notifier: &recordingNotifier{},
	}
	opts = append([]Option{WithClock(env.clock.Now), WithNotifier(env.notifier)}, opts...)
	env.manager = NewManager(env.store, auth.NewAuthorizer(testAdminEmail), opts...)
	return env
}

func (e testEnv) create(t *testing.T, title string, status models.PostStatus) *models.BlogPost {
	t.Helper()
	id, err := e.manager.Create(context.Background(), adminSession, CreateInput{
		Title:   title,
		Content: "some words here",
		Status:  status,
	})
	require.NoError(t, err)

	post, err := e.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return post
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateDraftIsHiddenFromPublicList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post := env.create(t, "Hello, World!", models.StatusDraft)

	assert.Equal(t, "hello-world", post.Slug)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, env.clock.Now(), post.CreatedAt)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, "admin-1", *post.AuthorID)
	assert.Equal(t, 1, post.ReadingTime)

	all, err := env.manager.ListAll(ctx, adminSession)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, post.ID, all[0].ID)

	published, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Empty(t, published)
}

func TestPublishingDraftAddsItToPublicList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	older := env.create(t, "Older post", models.StatusPublished)
	env.clock.Advance(time.Hour)
	draft := env.create(t, "Hello, World!", models.StatusDraft)
	env.clock.Advance(time.Hour)

	_, err := env.manager.Update(ctx, adminSession, draft.ID, UpdateInput{Status: ptr(models.StatusPublished)})
	require.NoError(t, err)

	updated, err := env.store.FindByID(ctx, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, env.clock.Now(), *updated.PublishedAt)
	assert.Equal(t, env.clock.Now(), updated.UpdatedAt)

	published, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, draft.ID, published[0].ID)
	assert.Equal(t, older.ID, published[1].ID)
}

func TestListAllIsEmptyForNonAdmins(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "First", models.StatusDraft)
	env.create(t, "Second", models.StatusPublished)

	for name, sess := range map[string]auth.Session{"reader": readerSession, "anonymous": anonymous} {
		t.Run(name, func(t *testing.T) {
			posts, err := env.manager.ListAll(context.Background(), sess)
			require.NoError(t, err)
			assert.NotNil(t, posts)
			assert.Empty(t, posts)
		})
	}

	t.Run("admin email not configured", func(t *testing.T) {
		m := NewManager(env.store, auth.NewAuthorizer(""))
		posts, err := m.ListAll(context.Background(), adminSession)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestCreateByNonAdminPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	input := CreateInput{Title: "Sneaky", Content: "x", Status: models.StatusPublished}

	_, err := env.manager.Create(ctx, anonymous, input)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthenticated(err))

	_, err = env.manager.Create(ctx, readerSession, input)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))

	all, err := env.store.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, env.notifier.count())
}

func TestCreateWithoutAdminConfig(t *testing.T) {
	m := NewManager(database.NewMemoryStore(), auth.NewAuthorizer("   "))

	_, err := m.Create(context.Background(), adminSession, CreateInput{Title: "x"})
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))

	_, err = m.Create(context.Background(), anonymous, CreateInput{Title: "x"})
	assert.True(t, errs.IsUnauthenticated(err), "authentication is checked before configuration")
}

func TestCreateDuplicateTitlesGetSuffixedSlugs(t *testing.T) {
	env := newTestEnv(t)

	first := env.create(t, "Hello, World!", models.StatusDraft)
	second := env.create(t, "Hello World", models.StatusDraft)
	third := env.create(t, "hello world", models.StatusPublished)

	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "hello-world-2", second.Slug)
	assert.Equal(t, "hello-world-3", third.Slug)
}

func TestCreateFailsWhenSlugsAreExhausted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 1; i <= maxSlugAttempts; i++ {
		slug := "busy"
		if i > 1 {
			slug = fmt.Sprintf("busy-%d", i)
		}
		_, err := env.store.Insert(ctx, &models.BlogPost{Title: "Busy", Slug: slug, Status: models.StatusDraft})
		require.NoError(t, err)
	}

	_, err := env.manager.Create(ctx, adminSession, CreateInput{Title: "Busy", Content: "x"})
	require.Error(t, err)
	assert.True(t, errs.IsSlugGenerationError(err))
}

func TestCreateValidatesAndNormalizesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.Create(ctx, adminSession, CreateInput{Title: "   "})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = env.manager.Create(ctx, adminSession, CreateInput{Title: "x", Status: "archived"})
	assert.True(t, errs.IsInvalidInput(err))

	id, err := env.manager.Create(ctx, adminSession, CreateInput{
		Title:   "Tagged",
		Content: "body",
		Tags:    []string{" go ", "", "  ", "testing"},
	})
	require.NoError(t, err)

	post, err := env.store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, []string(post.Tags))
	assert.Equal(t, "Tagged...", post.Excerpt)
	assert.Equal(t, models.StatusDraft, post.Status)
}

func TestCreatePublishedSetsPublishedAtAndNotifies(t *testing.T) {
	env := newTestEnv(t)

	post := env.create(t, "Launch", models.StatusPublished)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, post.CreatedAt, *post.PublishedAt)
	require.Equal(t, 1, env.notifier.count())
	assert.Equal(t, "launch", env.notifier.posts[0].Slug)

	env.create(t, "Quiet draft", models.StatusDraft)
	assert.Equal(t, 1, env.notifier.count())
}

func TestNotificationFailureDoesNotFailCreate(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("smtp down")

	post := env.create(t, "Still saved", models.StatusPublished)
	assert.Equal(t, "still-saved", post.Slug)
}

type racingStore struct {
	*database.MemoryStore
	failures int
}

func (s *racingStore) Insert(ctx context.Context, post *models.BlogPost) (uuid.UUID, error) {
	if s.failures > 0 {
		s.failures--
		return uuid.Nil, errs.NewUniqueConstraintViolationError("blog_post", "slug", nil)
	}
	return s.MemoryStore.Insert(ctx, post)
}

func TestCreateRetriesLostSlugRace(t *testing.T) {
	store := &racingStore{MemoryStore: database.NewMemoryStore(), failures: 1}
	m := NewManager(store, auth.NewAuthorizer(testAdminEmail))

	id, err := m.Create(context.Background(), adminSession, CreateInput{Title: "Race"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	store.failures = maxWriteAttempts
	_, err = m.Create(context.Background(), adminSession, CreateInput{Title: "Race"})
	require.Error(t, err)
	assert.True(t, errs.IsUniqueConstraintViolation(err))
}

func TestUpdateTitleReslugsExcludingSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post := env.create(t, "My Post", models.StatusDraft)
	other := env.create(t, "Other", models.StatusDraft)

	_, err := env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Title: ptr("My post!")})
	require.NoError(t, err)
	same, err := env.store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "my-post", same.Slug)
	assert.Equal(t, "My post!", same.Title)

	_, err = env.manager.Update(ctx, adminSession, other.ID, UpdateInput{Title: ptr("My Post")})
	require.NoError(t, err)
	renamed, err := env.store.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "my-post-2", renamed.Slug)
}

func TestUpdateIsPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post := env.create(t, "Partial", models.StatusDraft)
	env.clock.Advance(time.Minute)

	long := ""
	for i := 0; i < 450; i++ {
		long += "word "
	}
	_, err := env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Content: ptr(long)})
	require.NoError(t, err)

	updated, err := env.store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.ReadingTime)
	assert.Equal(t, post.Title, updated.Title)
	assert.Equal(t, post.Slug, updated.Slug)
	assert.Equal(t, post.Excerpt, updated.Excerpt)
	assert.Equal(t, post.CreatedAt, updated.CreatedAt)
	assert.Equal(t, env.clock.Now(), updated.UpdatedAt)
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	post := env.create(t, "Cycle", models.StatusPublished)
	firstPublishedAt := *post.PublishedAt

	env.clock.Advance(time.Hour)
	_, err := env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Status: ptr(models.StatusPublished)})
	require.NoError(t, err)
	stillPublished, err := env.store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, firstPublishedAt, *stillPublished.PublishedAt, "republishing a published post keeps publishedAt")

	env.clock.Advance(time.Hour)
	_, err = env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Status: ptr(models.StatusDraft)})
	require.NoError(t, err)
	drafted, err := env.store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, drafted.PublishedAt)

	env.clock.Advance(time.Hour)
	_, err = env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Status: ptr(models.StatusPublished)})
	require.NoError(t, err)
	republished, err := env.store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.Equal(t, env.clock.Now(), *republished.PublishedAt)
	assert.True(t, republished.PublishedAt.After(firstPublishedAt))

	assert.Equal(t, 2, env.notifier.count(), "create and the republish after drafting notify")
}

func TestUpdateErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post := env.create(t, "Target", models.StatusDraft)

	_, err := env.manager.Update(ctx, adminSession, uuid.New(), UpdateInput{Title: ptr("x")})
	assert.True(t, errs.IsNotFound(err))

	_, err = env.manager.Update(ctx, readerSession, post.ID, UpdateInput{Title: ptr("x")})
	assert.True(t, errs.IsUnauthorized(err))

	_, err = env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Title: ptr("  ")})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Status: ptr(models.PostStatus("gone"))})
	assert.True(t, errs.IsInvalidInput(err))
}

func TestUpdateBlankExcerptIsDerivedFromTitle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post := env.create(t, "Original", models.StatusDraft)

	_, err := env.manager.Update(ctx, adminSession, post.ID, UpdateInput{Title: ptr("Renamed"), Excerpt: ptr("")})
	require.NoError(t, err)

	updated, err := env.store.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed...", updated.Excerpt)
}

func TestGetByIDVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	draft := env.create(t, "Draft", models.StatusDraft)
	published := env.create(t, "Live", models.StatusPublished)

	got, err := env.manager.GetByID(ctx, adminSession, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.ID, got.ID)

	for _, sess := range []auth.Session{readerSession, anonymous} {
		got, err := env.manager.GetByID(ctx, sess, draft.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = env.manager.GetByID(ctx, sess, published.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	}

	got, err = env.manager.GetByID(ctx, adminSession, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetBySlugHasNoAdminBypass(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.create(t, "Secret", models.StatusDraft)
	env.create(t, "Public", models.StatusPublished)

	got, err := env.manager.GetBySlug(ctx, "secret")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = env.manager.GetBySlug(ctx, "public")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Public", got.Title)

	got, err = env.manager.GetBySlug(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRemoveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	post := env.create(t, "Doomed", models.StatusPublished)

	require.NoError(t, env.manager.Remove(ctx, adminSession, post.ID))
	require.NoError(t, env.manager.Remove(ctx, adminSession, post.ID))
	require.NoError(t, env.manager.Remove(ctx, adminSession, uuid.New()))

	_, err := env.store.FindByID(ctx, post.ID)
	assert.True(t, errs.IsNotFound(err))

	published, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Empty(t, published)

	err = env.manager.Remove(ctx, anonymous, post.ID)
	assert.True(t, errs.IsUnauthenticated(err))
}

func TestListPublishedNeverIncludesDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		status := models.StatusDraft
		if i%2 == 0 {
			status = models.StatusPublished
		}
		env.create(t, fmt.Sprintf("Post %d", i), status)
		env.clock.Advance(time.Minute)
	}

	published, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	require.Len(t, published, 3)
	for i, p := range published {
		assert.Equal(t, models.StatusPublished, p.Status)
		if i > 0 {
			assert.True(t, p.PublishedAt.Before(*published[i-1].PublishedAt))
		}
	}
}

func TestListAllOrdersByUpdatedAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.create(t, "First", models.StatusDraft)
	env.clock.Advance(time.Minute)
	second := env.create(t, "Second", models.StatusDraft)
	env.clock.Advance(time.Minute)

	_, err := env.manager.Update(ctx, adminSession, first.ID, UpdateInput{Content: ptr("touched")})
	require.NoError(t, err)

	all, err := env.manager.ListAll(ctx, adminSession)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestListPublishedFilterAndTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	create := func(title, excerpt string, tags []string, status models.PostStatus) {
		_, err := env.manager.Create(ctx, adminSession, CreateInput{
			Title: title, Excerpt: excerpt, Content: "c", Tags: tags, Status: status,
		})
		require.NoError(t, err)
		env.clock.Advance(time.Minute)
	}
	create("Concurrency in Go", "channels and goroutines", []string{"Go", "concurrency"}, models.StatusPublished)
	create("Testing tips", "table tests", []string{"go", "testing"}, models.StatusPublished)
	create("Rust notes", "ownership", []string{"rust"}, models.StatusPublished)
	create("Hidden", "draft about go", []string{"go", "secret"}, models.StatusDraft)

	byTag, err := env.manager.ListPublished(ctx, PublishedFilter{Tag: " GO "})
	require.NoError(t, err)
	require.Len(t, byTag, 2)
	assert.Equal(t, "Testing tips", byTag[0].Title)

	byQuery, err := env.manager.ListPublished(ctx, PublishedFilter{Query: "GOROUTINES"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Concurrency in Go", byQuery[0].Title)

	both, err := env.manager.ListPublished(ctx, PublishedFilter{Tag: "rust", Query: "go"})
	require.NoError(t, err)
	assert.Empty(t, both)

	tags, err := env.manager.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"concurrency", "go", "rust", "testing"}, tags)
}

func TestListPublishedIsCachedUntilMutationOrExpiry(t *testing.T) {
	env := newTestEnv(t, WithCacheTTL(time.Minute))
	ctx := context.Background()
	env.create(t, "Cached", models.StatusPublished)

	first, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	publishedAt := env.clock.Now()
	_, err = env.store.Insert(ctx, &models.BlogPost{
		Title: "Behind the manager's back", Slug: "sneaky", Status: models.StatusPublished, PublishedAt: &publishedAt,
	})
	require.NoError(t, err)

	cached, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	env.clock.Advance(2 * time.Minute)
	expired, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Len(t, expired, 2)

	env.create(t, "Fresh", models.StatusPublished)
	afterCreate, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Len(t, afterCreate, 3)
}

func TestListPublishedReturnsCopies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.create(t, "Original", models.StatusPublished)

	posts, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	posts[0].Title = "mutated"

	again, err := env.manager.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Original", again[0].Title)
}

// gatedStore holds the first FindByStatus call until release is closed. The
// result of that call is read before blocking.
type gatedStore struct {
	*database.MemoryStore
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		MemoryStore: database.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (s *gatedStore) FindByStatus(ctx context.Context, status models.PostStatus) ([]*models.BlogPost, error) {
	posts, err := s.MemoryStore.FindByStatus(ctx, status)
	if s.calls.Add(1) != 1 {
		return posts, err
	}
	close(s.entered)
	select {
	case <-s.release:
		return posts, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type listResult struct {
	posts []*models.BlogPost
	err   error
}

func listAsync(ctx context.Context, m *Manager) <-chan listResult {
	ch := make(chan listResult, 1)
	go func() {
		posts, err := m.ListPublished(ctx, PublishedFilter{})
		ch <- listResult{posts, err}
	}()
	return ch
}

func TestListPublishedAfterCreateSkipsOlderInFlightLoad(t *testing.T) {
	store := newGatedStore()
	m := NewManager(store, auth.NewAuthorizer(testAdminEmail), WithCacheTTL(time.Minute))
	ctx := context.Background()

	before := listAsync(ctx, m)
	<-store.entered

	_, err := m.Create(ctx, adminSession, CreateInput{Title: "Fresh", Content: "x", Status: models.StatusPublished})
	require.NoError(t, err)

	after := listAsync(ctx, m)
	var res listResult
	select {
	case res = <-after:
	case <-time.After(2 * time.Second):
		close(store.release)
		t.Fatal("ListPublished after Create waited on a load started before it")
	}
	require.NoError(t, res.err)
	require.Len(t, res.posts, 1)
	assert.Equal(t, "Fresh", res.posts[0].Title)

	close(store.release)
	old := <-before
	require.NoError(t, old.err)

	cached, err := m.ListPublished(ctx, PublishedFilter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1, "the older load must not overwrite the cache")
}

func TestListPublishedSharedLoadSurvivesCallerCancel(t *testing.T) {
	store := newGatedStore()
	m := NewManager(store, auth.NewAuthorizer(testAdminEmail), WithCacheTTL(time.Minute))
	publishedAt := time.Now()
	_, err := store.Insert(context.Background(), &models.BlogPost{
		Title: "Live", Slug: "live", Status: models.StatusPublished, PublishedAt: &publishedAt,
	})
	require.NoError(t, err)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leader := listAsync(leaderCtx, m)
	<-store.entered

	follower := listAsync(context.Background(), m)
	cancel()

	res := <-leader
	assert.ErrorIs(t, res.err, context.Canceled)

	close(store.release)
	res = <-follower
	require.NoError(t, res.err)
	require.Len(t, res.posts, 1)
	assert.Equal(t, "Live", res.posts[0].Title)
}
