package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"slotlink/internal/domain/booking"
	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/infra/db"
	"slotlink/internal/pkg/clock"
	"slotlink/internal/pkg/config"
	"slotlink/internal/pkg/errs"
	"slotlink/internal/pkg/token"
	"slotlink/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrLinkNotFound            = errs.New("booking link not found")
	ErrLinkExpired             = errs.New("booking link has expired")
	ErrAlreadyConfirmed        = errs.New("booking is already confirmed")
	ErrLinkCanceled            = errs.New("booking link has been canceled")
	ErrSlotTaken               = errs.New("slot is already taken")
	ErrSlotNotOffered          = errs.New("slot is outside the technician's schedule")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrNotBookingOwner         = errs.New("booking belongs to another technician")
	ErrTokenGenerationFailed   = errs.New("token generation failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type BookingRepository interface {
	Create(ctx context.Context, dbx db.Executor, b *booking.Booking) (uuid.UUID, error)
	FindByTokenForUpdate(ctx context.Context, dbx db.Executor, linkToken string) (*booking.Booking, error)
	FindByID(ctx context.Context, dbx db.Executor, id uuid.UUID) (*booking.Booking, error)
	CountConfirmedSlot(ctx context.Context, dbx db.Executor, technicianID uuid.UUID, date schedule.Date, at schedule.TimeOfDay, excludeID uuid.UUID) (int64, error)
	Update(ctx context.Context, dbx db.Executor, b *booking.Booking) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbx db.Executor, kind, topic string, payload []byte, runAt time.Time) error
}

type IssueLinkParams struct {
	CustomerID    *uuid.UUID
	OrderID       *uuid.UUID
	CustomerName  string
	CustomerPhone string
	Notes         string
}

type IssueLinkResult struct {
	BookingID uuid.UUID
	Token     string
	URL       string
	ExpiresAt time.Time
}

type ConfirmParams struct {
	Token         string
	Date          schedule.Date
	Time          schedule.TimeOfDay
	CustomerName  string
	CustomerPhone string
}

type BookingCommands interface {
	// IssueLink creates a pending booking bound to the technician and
	// returns the single-use public URL.
	IssueLink(ctx context.Context, technicianID uuid.UUID, params IssueLinkParams) (*IssueLinkResult, error)
	// Confirm resolves a link to a confirmed slot, re-checking availability
	// at commit time.
	Confirm(ctx context.Context, params ConfirmParams) (*queries.BookingView, error)
	// Cancel voids a pending link.
	Cancel(ctx context.Context, technicianID, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	bookings      BookingRepository
	notifications NotificationRepository
	settings      queries.SettingsReadStore
	bookingViews  queries.BookingQueries
	pool          *pgxpool.Pool
	clock         clock.Clock
	cfg           config.BookingConfig
}

func NewBookingCommands(
	bookings BookingRepository,
	notifications NotificationRepository,
	settings queries.SettingsReadStore,
	bookingViews queries.BookingQueries,
	pool *pgxpool.Pool,
	clk clock.Clock,
	cfg config.BookingConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		bookings:      bookings,
		notifications: notifications,
		settings:      settings,
		bookingViews:  bookingViews,
		pool:          pool,
		clock:         clk,
		cfg:           cfg,
	}
}

func (c *bookingCommandsImpl) IssueLink(ctx context.Context, technicianID uuid.UUID, params IssueLinkParams) (*IssueLinkResult, error) {
	settings, _, err := c.settings.SettingsFor(ctx, technicianID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	linkToken, err := token.New()
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGenerationFailed)
	}

	expiresAt := c.clock.Now().Add(settings.LinkLifetime())
	entity, err := booking.NewBooking(technicianID, linkToken, expiresAt, booking.Prefill{
		CustomerID:    params.CustomerID,
		OrderID:       params.OrderID,
		CustomerName:  params.CustomerName,
		CustomerPhone: params.CustomerPhone,
		Notes:         params.Notes,
	})
	if err != nil {
		return nil, err
	}

	id, err := c.bookings.Create(ctx, c.pool, entity)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &IssueLinkResult{
		BookingID: id,
		Token:     linkToken,
		URL:       c.cfg.PublicBaseURL + "/" + c.cfg.PublicPath + "/" + linkToken,
		ExpiresAt: expiresAt,
	}, nil
}

// Confirm runs the whole state-machine transition in one transaction. The
// row lock on the booking serializes double submissions of the same link;
// the conflict pre-check plus the partial unique index close the race
// between viewing availability and committing a choice.
func (c *bookingCommandsImpl) Confirm(ctx context.Context, params ConfirmParams) (*queries.BookingView, error) {
	now := c.clock.Now()

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback confirmation transaction", "error", rollbackErr.Error())
		}
	}()

	entity, err := c.bookings.FindByTokenForUpdate(ctx, tx, params.Token)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Link state answers first: a dead link reports its own condition even
	// when the requested slot would also fail validation.
	if err := entity.CanConfirm(now); err != nil {
		return nil, mapBookingStateErr(err)
	}

	settings, _, err := c.settings.SettingsFor(ctx, entity.TechnicianID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !settings.IsOffered(params.Date, params.Time, now) {
		return nil, ErrSlotNotOffered
	}

	// Availability shown to the customer may be stale by now; re-check
	// against other confirmed bookings before committing.
	count, err := c.bookings.CountConfirmedSlot(ctx, tx, entity.TechnicianID(), params.Date, params.Time, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if count > 0 {
		return nil, ErrSlotTaken
	}

	if err := entity.Confirm(now, params.Date, params.Time, params.CustomerName, params.CustomerPhone); err != nil {
		return nil, mapBookingStateErr(err)
	}

	if err := c.bookings.Update(ctx, tx, entity); err != nil {
		// Two commits can pass the pre-check before either writes; the
		// partial unique index is the hard guarantee.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrSlotTaken
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := c.enqueueConfirmationNotice(ctx, tx, entity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := c.bookingViews.GetByIDSystem(ctx, entity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, technicianID, bookingID uuid.UUID) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback cancellation transaction", "error", rollbackErr.Error())
		}
	}()

	entity, err := c.bookings.FindByID(ctx, tx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if entity.TechnicianID() != technicianID {
		return ErrNotBookingOwner
	}

	if err := entity.Cancel(); err != nil {
		return mapBookingStateErr(err)
	}

	if err := c.bookings.Update(ctx, tx, entity); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return errs.Wrap(tx.Commit(ctx), "failed to commit cancellation")
}

func (c *bookingCommandsImpl) enqueueConfirmationNotice(ctx context.Context, dbx db.Executor, entity *booking.Booking) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":     entity.ID(),
		"technician_id":  entity.TechnicianID(),
		"scheduled_date": entity.ScheduledDate().String(),
		"scheduled_time": entity.ScheduledTime().String(),
		"customer_name":  entity.CustomerName(),
		"customer_phone": entity.CustomerPhone(),
	})
	if err != nil {
		return err
	}
	return c.notifications.CreateJob(ctx, dbx, "email", "booking_confirmed", payload, c.clock.Now())
}

func mapBookingStateErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrLinkExpired):
		return ErrLinkExpired
	case errors.Is(err, booking.ErrAlreadyConfirmed):
		return ErrAlreadyConfirmed
	case errors.Is(err, booking.ErrCanceled):
		return ErrLinkCanceled
	default:
		return err
	}
}
