package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slotlink/internal/pkg/clock"
	"slotlink/internal/pkg/errs"
	"slotlink/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultBatchSize    = 20
	defaultMaxAttempts  = 5
	retryBackoff        = 2 * time.Minute
)

// Worker drains the notification_jobs outbox. Jobs are claimed with
// SKIP LOCKED so multiple instances never double-send, and a failed send
// is retried with a fixed backoff until maxAttempts is reached.
type Worker struct {
	pool        *pgxpool.Pool
	mailer      Mailer
	clock       clock.Clock
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

func NewWorker(pool *pgxpool.Pool, mailer Mailer, clk clock.Clock) *Worker {
	return &Worker{
		pool:        pool,
		mailer:      mailer,
		clock:       clk,
		interval:    defaultPollInterval,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.processBatch(ctx); err != nil {
				slog.Error("notification batch failed", "error", err.Error())
			}
		}
	}
}

type job struct {
	ID       uuid.UUID
	Topic    string
	Payload  []byte
	Attempts int
}

func (w *Worker) processBatch(ctx context.Context) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to begin outbox transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback outbox transaction", "error", rollbackErr.Error())
		}
	}()

	jobs, err := w.claim(ctx, tx)
	if err != nil {
		return err
	}

	for _, j := range jobs {
		if sendErr := w.dispatch(ctx, tx, j); sendErr != nil {
			w.markFailure(ctx, tx, j, sendErr)
			continue
		}
		w.markSent(ctx, tx, j)
	}

	return errs.Wrap(tx.Commit(ctx), "failed to commit outbox transaction")
}

func (w *Worker) claim(ctx context.Context, tx pgx.Tx) ([]job, error) {
	const query = `
		SELECT id, topic, payload, attempts
		FROM notification_jobs
		WHERE status = 'pending' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, pgconv.TimeToPgtype(w.clock.Now()), int32(w.batchSize))
	if err != nil {
		return nil, errs.Wrap(err, "failed to claim notification jobs")
	}
	defer rows.Close()

	var out []job
	for rows.Next() {
		var j job
		if err := rows.Scan(&j.ID, &j.Topic, &j.Payload, &j.Attempts); err != nil {
			return nil, errs.Wrap(err, "failed to scan notification job")
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

type bookingPayload struct {
	BookingID     uuid.UUID `json:"booking_id"`
	TechnicianID  uuid.UUID `json:"technician_id"`
	ScheduledDate string    `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
}

func (w *Worker) dispatch(ctx context.Context, tx pgx.Tx, j job) error {
	var p bookingPayload
	if err := json.Unmarshal(j.Payload, &p); err != nil {
		return errs.Wrap(err, "failed to decode job payload")
	}

	email, name, err := w.technicianContact(ctx, tx, p.TechnicianID)
	if err != nil {
		return err
	}

	switch j.Topic {
	case "booking_confirmed":
		subject := fmt.Sprintf("Booking confirmed: %s %s", p.ScheduledDate, p.ScheduledTime)
		body := fmt.Sprintf(
			"Hi %s,\n\n%s confirmed an appointment on %s at %s.\nPhone: %s\n",
			name, orUnknown(p.CustomerName), p.ScheduledDate, p.ScheduledTime, orUnknown(p.CustomerPhone),
		)
		return w.mailer.Send(email, subject, body)
	case "booking_reminder":
		subject := fmt.Sprintf("Reminder: appointment tomorrow at %s", p.ScheduledTime)
		body := fmt.Sprintf(
			"Hi %s,\n\nReminder: %s has an appointment on %s at %s.\n",
			name, orUnknown(p.CustomerName), p.ScheduledDate, p.ScheduledTime,
		)
		return w.mailer.Send(email, subject, body)
	default:
		return errs.New("unknown notification topic: " + j.Topic)
	}
}

func (w *Worker) technicianContact(ctx context.Context, tx pgx.Tx, technicianID uuid.UUID) (string, string, error) {
	const query = `SELECT email, name FROM users WHERE id = $1`

	var email, name string
	if err := tx.QueryRow(ctx, query, pgconv.UUIDToPgtype(technicianID)).Scan(&email, &name); err != nil {
		return "", "", errs.Wrap(err, "failed to look up technician contact")
	}
	return email, name, nil
}

func (w *Worker) markSent(ctx context.Context, tx pgx.Tx, j job) {
	const query = `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, updated_at = now()
		WHERE id = $1`

	if _, err := tx.Exec(ctx, query, pgconv.UUIDToPgtype(j.ID)); err != nil {
		slog.Error("failed to mark notification sent", "job_id", j.ID, "error", err.Error())
	}
}

func (w *Worker) markFailure(ctx context.Context, tx pgx.Tx, j job, sendErr error) {
	slog.Warn("notification delivery failed",
		"job_id", j.ID, "topic", j.Topic, "attempt", j.Attempts+1, "error", sendErr.Error())

	status := "pending"
	if j.Attempts+1 >= w.maxAttempts {
		status = "failed"
	}

	const query = `
		UPDATE notification_jobs
		SET status = $2, attempts = attempts + 1, last_error = $3,
		    run_at = $4, updated_at = now()
		WHERE id = $1`

	retryAt := w.clock.Now().Add(retryBackoff)
	if _, err := tx.Exec(ctx, query,
		pgconv.UUIDToPgtype(j.ID), status, sendErr.Error(), pgconv.TimeToPgtype(retryAt),
	); err != nil {
		slog.Error("failed to record notification failure", "job_id", j.ID, "error", err.Error())
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "the customer"
	}
	return s
}
