package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/folio-cms/folio/internal/articles"
)

// ArticleCounter reports the number of stored articles.
type ArticleCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ArticleStats refreshes the cached article counters used by the stats
// endpoint.
type ArticleStats struct {
	counter ArticleCounter
	cache   *articles.Cache
	logger  *slog.Logger
}

// NewArticleStats constructs the job.
func NewArticleStats(counter ArticleCounter, cache *articles.Cache, logger *slog.Logger) *ArticleStats {
	return &ArticleStats{counter: counter, cache: cache, logger: logger}
}

// Handle processes TaskArticleStats tasks.
func (j *ArticleStats) Handle(ctx context.Context, t *asynq.Task) error {
	count, err := j.counter.Count(ctx)
	if err != nil {
		return err
	}
	if err := j.cache.SetCount(ctx, count); err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("article stats refreshed", slog.Int64("count", count))
	}
	return nil
}
