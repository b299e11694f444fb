package jobs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/articles"
	_ "github.com/folio-cms/folio/testing"
)

type stubCounter struct {
	count int64
	err   error
}

func (s *stubCounter) Count(ctx context.Context) (int64, error) {
	return s.count, s.err
}

func TestAuditRetentionTaskPayload(t *testing.T) {
	task, err := NewAuditRetentionTask(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, TaskAuditRetention, task.Type())

	var payload AuditRetentionPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 90*24*time.Hour, payload.Retention)
}

func TestArticleStatsHandle(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := articles.NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	job := NewArticleStats(&stubCounter{count: 12}, cache, nil)
	require.NoError(t, job.Handle(context.Background(), NewArticleStatsTask()))

	count, err := cache.GetCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestArticleStatsHandleCountFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := articles.NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)

	job := NewArticleStats(&stubCounter{err: assert.AnError}, cache, nil)
	assert.Error(t, job.Handle(context.Background(), NewArticleStatsTask()))
}
