package repository

import (
	"context"
	"time"

	"slotlink/internal/infra"
	"slotlink/internal/infra/db"
	"slotlink/internal/pkg/pgconv"
)

// NotificationRepository writes outbox rows. Jobs are committed in the same
// transaction as the state change that caused them; delivery happens
// asynchronously in the notifier worker.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, dbx db.Executor, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := dbx.Exec(ctx, query, kind, topic, payload, pgconv.TimeToPgtype(runAt)); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
