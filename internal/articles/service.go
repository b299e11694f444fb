package articles

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/folio-cms/folio/internal/shared"
)

// RepositoryPort defines data access methods for articles.
type RepositoryPort interface {
	Create(ctx context.Context, title, slug, content string, authorID int64) (*Article, error)
	List(ctx context.Context, limit, offset int) ([]Article, error)
	FindByID(ctx context.Context, id int64) (*Article, error)
	Update(ctx context.Context, id int64, title, slug, content *string) (*Article, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// CreateArticleRequest carries the fields for a new article.
type CreateArticleRequest struct {
	Title   string
	Content string
}

// UpdateArticleRequest carries optional field updates.
type UpdateArticleRequest struct {
	Title   *string
	Content *string
}

// Service handles article business logic.
type Service struct {
	repo  RepositoryPort
	audit *shared.AuditLogger
	cache *Cache
	stats singleflight.Group
}

// NewService builds a Service instance. The cache is optional; stats fall
// back to the repository when it is absent.
func NewService(repo RepositoryPort, audit *shared.AuditLogger, cache *Cache) *Service {
	return &Service{repo: repo, audit: audit, cache: cache}
}

// Create stores a new article authored by the caller.
func (s *Service) Create(ctx context.Context, req CreateArticleRequest, authorID int64) (*Article, error) {
	article, err := s.repo.Create(ctx, req.Title, Slugify(req.Title), req.Content, authorID)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  authorID,
			Action:   "article.create",
			Entity:   "article",
			EntityID: fmt.Sprintf("%d", article.ID),
		})
	}
	return article, nil
}

// maxPerPage caps the page size a caller can request.
const maxPerPage = 100

// List returns one page of articles with author summaries plus paging
// metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Article, shared.Pagination, error) {
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pagination := shared.NewPagination(page, perPage, int(total))
	items, err := s.repo.List(ctx, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, pagination, nil
}

// Get fetches one article by id.
func (s *Service) Get(ctx context.Context, id int64) (*Article, error) {
	return s.repo.FindByID(ctx, id)
}

// Stats reports the total article count, served from cache when warm.
// Concurrent cache misses collapse into a single repository query.
func (s *Service) Stats(ctx context.Context) (int64, error) {
	if count, err := s.cache.GetCount(ctx); err == nil {
		return count, nil
	}
	value, err, _ := s.stats.Do("articles:count", func() (interface{}, error) {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetCount(ctx, count)
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int64), nil
}

// Update applies optional changes; the slug follows the title.
func (s *Service) Update(ctx context.Context, actorID, id int64, req UpdateArticleRequest) (*Article, error) {
	var slug *string
	if req.Title != nil {
		derived := Slugify(*req.Title)
		slug = &derived
	}
	article, err := s.repo.Update(ctx, id, req.Title, slug, req.Content)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "article.update",
			Entity:   "article",
			EntityID: fmt.Sprintf("%d", id),
		})
	}
	return article, nil
}

// Remove deletes one article by id.
func (s *Service) Remove(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "article.delete",
			Entity:   "article",
			EntityID: fmt.Sprintf("%d", id),
		})
	}
	return nil
}
