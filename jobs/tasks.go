package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditRetention prunes audit_logs rows past the retention window.
	TaskAuditRetention = "audit:retention"
	// TaskArticleStats refreshes the cached article counters.
	TaskArticleStats = "articles:stats"
)

// AuditRetentionPayload bounds the prune run.
type AuditRetentionPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewAuditRetentionTask constructs an Asynq task.
func NewAuditRetentionTask(retention time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(AuditRetentionPayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditRetention, data), nil
}

// NewArticleStatsTask constructs an Asynq task with an empty payload.
func NewArticleStatsTask() *asynq.Task {
	return asynq.NewTask(TaskArticleStats, nil)
}
