package notifier

import (
	"context"
	"log/slog"
	"time"

	"slotlink/internal/pkg/clock"
	"slotlink/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// reminderSpec fires once per evening, after the working day ends.
const reminderSpec = "0 18 * * *"

// Reminder enqueues a next-day reminder job for every confirmed booking
// scheduled tomorrow. Delivery itself goes through the outbox worker, so a
// missed cron tick only delays reminders, never drops confirmations.
type Reminder struct {
	pool  *pgxpool.Pool
	clock clock.Clock
	loc   *time.Location
	cron  *cron.Cron
}

func NewReminder(pool *pgxpool.Pool, clk clock.Clock, loc *time.Location) *Reminder {
	return &Reminder{
		pool:  pool,
		clock: clk,
		loc:   loc,
		cron:  cron.New(cron.WithLocation(loc)),
	}
}

func (r *Reminder) Start() error {
	_, err := r.cron.AddFunc(reminderSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := r.EnqueueTomorrow(ctx)
		if err != nil {
			slog.Error("failed to enqueue booking reminders", "error", err.Error())
			return
		}
		slog.Info("booking reminders enqueued", "count", n)
	})
	if err != nil {
		return errs.Wrap(err, "failed to register reminder job")
	}
	r.cron.Start()
	return nil
}

func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
}

// EnqueueTomorrow inserts one reminder job per confirmed booking scheduled
// for tomorrow. The insert is idempotent per day through the dedup check on
// existing jobs for the same booking and topic.
func (r *Reminder) EnqueueTomorrow(ctx context.Context) (int64, error) {
	const query = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at)
		SELECT 'email', 'booking_reminder',
		       jsonb_build_object(
		           'booking_id', b.id,
		           'technician_id', b.technician_id,
		           'scheduled_date', to_char(b.scheduled_date, 'YYYY-MM-DD'),
		           'scheduled_time', b.scheduled_time,
		           'customer_name', b.customer_name,
		           'customer_phone', b.customer_phone
		       ),
		       now()
		FROM bookings b
		WHERE b.status = 'confirmed'
		  AND b.scheduled_date = $1::date
		  AND NOT EXISTS (
		      SELECT 1 FROM notification_jobs nj
		      WHERE nj.topic = 'booking_reminder'
		        AND nj.payload->>'booking_id' = b.id::text
		  )`

	tomorrow := r.clock.Now().In(r.loc).AddDate(0, 0, 1).Format("2006-01-02")
	tag, err := r.pool.Exec(ctx, query, tomorrow)
	if err != nil {
		return 0, errs.Wrap(err, "failed to insert reminder jobs")
	}
	return tag.RowsAffected(), nil
}
