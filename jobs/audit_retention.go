package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRetention prunes audit_logs rows older than the retention window.
type AuditRetention struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuditRetention constructs the job.
func NewAuditRetention(pool *pgxpool.Pool, logger *slog.Logger) *AuditRetention {
	return &AuditRetention{pool: pool, logger: logger}
}

// Handle processes TaskAuditRetention tasks.
func (j *AuditRetention) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AuditRetentionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Retention <= 0 {
		return asynq.SkipRetry
	}
	cutoff := time.Now().Add(-payload.Retention)
	tag, err := j.pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("audit retention sweep",
			slog.Int64("pruned", tag.RowsAffected()),
			slog.Time("cutoff", cutoff),
		)
	}
	return nil
}
