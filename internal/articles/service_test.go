package articles

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/shared"
	_ "github.com/folio-cms/folio/testing"
)

type mockRepository struct {
	articles map[int64]*Article
	nextID   int64

	countError error
	countCalls int
}

func newMockRepository() *mockRepository {
	return &mockRepository{articles: make(map[int64]*Article), nextID: 1}
}

func (m *mockRepository) Create(ctx context.Context, title, slug, content string, authorID int64) (*Article, error) {
	a := &Article{ID: m.nextID, Title: title, Slug: slug, Content: content, AuthorID: authorID}
	m.articles[a.ID] = a
	m.nextID++
	return a, nil
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Article, error) {
	all := make([]Article, 0, len(m.articles))
	for _, a := range m.articles {
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*Article, error) {
	a, ok := m.articles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, title, slug, content *string) (*Article, error) {
	a, ok := m.articles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if title != nil {
		a.Title = *title
	}
	if slug != nil {
		a.Slug = *slug
	}
	if content != nil {
		a.Content = *content
	}
	return a, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.articles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *mockRepository) Count(ctx context.Context) (int64, error) {
	m.countCalls++
	if m.countError != nil {
		return 0, m.countError
	}
	return int64(len(m.articles)), nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
}

func TestCreateDerivesSlug(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)

	article, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:   "Ten Go Tips & Tricks",
		Content: "body",
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, "ten-go-tips-tricks", article.Slug)
	assert.Equal(t, int64(5), article.AuthorID)
}

func TestUpdateReslugsOnTitleChange(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateArticleRequest{Title: "Old Title", Content: "x"}, 1)
	require.NoError(t, err)

	newTitle := "Brand New Title"
	updated, err := svc.Update(context.Background(), 1, created.ID, UpdateArticleRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)
}

func TestUpdateContentKeepsSlug(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateArticleRequest{Title: "Stable Title", Content: "x"}, 1)
	require.NoError(t, err)

	newContent := "rewritten"
	updated, err := svc.Update(context.Background(), 1, created.ID, UpdateArticleRequest{Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, "stable-title", updated.Slug)
	assert.Equal(t, "rewritten", updated.Content)
}

func TestUpdateMissingArticle(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)

	title := "x"
	_, err := svc.Update(context.Background(), 1, 99, UpdateArticleRequest{Title: &title})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemoveMissingArticle(t *testing.T) {
	svc := NewService(newMockRepository(), nil, nil)
	assert.ErrorIs(t, svc.Remove(context.Background(), 1, 99), shared.ErrNotFound)
}

func TestListPaginates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)

	titles := []string{"One", "Two", "Three", "Four", "Five"}
	for _, title := range titles {
		_, err := svc.Create(context.Background(), CreateArticleRequest{Title: title, Content: "x"}, 1)
		require.NoError(t, err)
	}

	items, pagination, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Three", items[0].Title)
	assert.Equal(t, 5, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)

	// Defaults kick in for zero values.
	items, pagination, err = svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PerPage)
}

func TestStatsColdAndWarm(t *testing.T) {
	repo := newMockRepository()
	cache := newTestCache(t)
	svc := NewService(repo, nil, cache)

	_, err := svc.Create(context.Background(), CreateArticleRequest{Title: "One", Content: "x"}, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateArticleRequest{Title: "Two", Content: "x"}, 1)
	require.NoError(t, err)

	count, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 1, repo.countCalls)

	// Warm cache: the repository is not consulted again.
	count, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 1, repo.countCalls)
}

func TestStatsWithoutCacheFallsThrough(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, nil)

	count, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStatsRepositoryFailure(t *testing.T) {
	repo := newMockRepository()
	repo.countError = errors.New("db down")
	svc := NewService(repo, nil, newTestCache(t))

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	_, err := cache.GetCount(context.Background())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, cache.SetCount(context.Background(), 7))

	count, err := cache.GetCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
