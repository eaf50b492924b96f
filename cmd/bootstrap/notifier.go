package bootstrap

import (
	"context"
	"time"

	"slotlink/internal/notifier"
	"slotlink/internal/pkg/clock"
	"slotlink/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		NewMailer,
		notifier.NewWorker,
		NewReminder,
	),
	fx.Invoke(
		startWorker,
		startReminder,
	),
)

func NewMailer(cfg config.Config) notifier.Mailer {
	if cfg.SMTP.Host == "" {
		return notifier.NewLogMailer()
	}
	return notifier.NewSMTPMailer(cfg.SMTP)
}

func NewReminder(cfg config.Config, pool *pgxpool.Pool, clk clock.Clock) (*notifier.Reminder, error) {
	loc, err := cfg.Schedule.Location()
	if err != nil {
		return nil, err
	}
	return notifier.NewReminder(pool, clk, loc), nil
}

func startWorker(lc fx.Lifecycle, worker *notifier.Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				worker.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	})
}

func startReminder(lc fx.Lifecycle, reminder *notifier.Reminder) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return reminder.Start()
		},
		OnStop: func(_ context.Context) error {
			reminder.Stop()
			return nil
		},
	})
}
