package repository

import (
	"context"
	"time"

	"slotlink/internal/domain/booking"
	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/infra/db"
	"slotlink/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ConfirmedSlotConstraint is the partial unique index guarding one confirmed
// booking per (technician, date, time).
const ConfirmedSlotConstraint = "bookings_confirmed_slot_key"

const bookingColumns = `
	id, technician_id, customer_id, order_id, token, status,
	scheduled_date, scheduled_time, customer_name, customer_phone, notes,
	expires_at, confirmed_at, created_at, updated_at`

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, dbx db.Executor, b *booking.Booking) (uuid.UUID, error) {
	const query = `
		INSERT INTO bookings (
			id, technician_id, customer_id, order_id, token, status,
			customer_name, customer_phone, notes, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id uuid.UUID
	err := dbx.QueryRow(ctx, query,
		b.ID(),
		b.TechnicianID(),
		pgconv.UUIDPtrToPgtype(b.CustomerID()),
		pgconv.UUIDPtrToPgtype(b.OrderID()),
		b.Token(),
		b.Status().String(),
		b.CustomerName(),
		b.CustomerPhone(),
		b.Notes(),
		pgconv.TimeToPgtype(b.ExpiresAt()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

// FindByTokenForUpdate locks the booking row for the duration of the
// confirmation transaction so two submissions of the same link serialize.
func (r *BookingRepository) FindByTokenForUpdate(ctx context.Context, dbx db.Executor, linkToken string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE token = $1 FOR UPDATE`
	return r.scanBooking(ctx, dbx, query, linkToken)
}

func (r *BookingRepository) FindByID(ctx context.Context, dbx db.Executor, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.scanBooking(ctx, dbx, query, id)
}

// CountConfirmedSlot is the commit-time conflict re-check: any other
// confirmed booking already holding (technician, date, time).
func (r *BookingRepository) CountConfirmedSlot(ctx context.Context, dbx db.Executor, technicianID uuid.UUID, date schedule.Date, at schedule.TimeOfDay, excludeID uuid.UUID) (int64, error) {
	const query = `
		SELECT count(*) FROM bookings
		WHERE technician_id = $1
		  AND scheduled_date = $2
		  AND scheduled_time = $3
		  AND status = 'confirmed'
		  AND id <> $4`

	var count int64
	err := dbx.QueryRow(ctx, query, technicianID, dateToPg(date), at.String(), excludeID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count confirmed slot", err)
	}
	return count, nil
}

func (r *BookingRepository) Update(ctx context.Context, dbx db.Executor, b *booking.Booking) error {
	const query = `
		UPDATE bookings SET
			status = $2,
			scheduled_date = $3,
			scheduled_time = $4,
			customer_name = $5,
			customer_phone = $6,
			notes = $7,
			confirmed_at = $8,
			updated_at = now()
		WHERE id = $1`

	var schedDate pgtype.Date
	if d := b.ScheduledDate(); d != nil {
		schedDate = dateToPg(*d)
	}
	var schedTime pgtype.Text
	if t := b.ScheduledTime(); t != nil {
		schedTime = pgconv.StringToPgtype(t.String())
	}

	tag, err := dbx.Exec(ctx, query,
		b.ID(),
		b.Status().String(),
		schedDate,
		schedTime,
		b.CustomerName(),
		b.CustomerPhone(),
		b.Notes(),
		pgconv.TimePtrToPgtype(b.ConfirmedAt()),
	)
	if err != nil {
		if infra.IsUniqueViolation(err, ConfirmedSlotConstraint) {
			return infra.WrapRepoErr("confirmed slot already taken", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) scanBooking(ctx context.Context, dbx db.Executor, query string, arg any) (*booking.Booking, error) {
	var (
		id, technicianID       uuid.UUID
		customerID, orderID    pgtype.UUID
		linkToken, status      string
		schedDate              pgtype.Date
		schedTime              pgtype.Text
		name, phone, notes     string
		expiresAt              pgtype.Timestamptz
		confirmedAt            pgtype.Timestamptz
		createdAt, updatedAt   pgtype.Timestamptz
	)

	err := dbx.QueryRow(ctx, query, arg).Scan(
		&id, &technicianID, &customerID, &orderID, &linkToken, &status,
		&schedDate, &schedTime, &name, &phone, &notes,
		&expiresAt, &confirmedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	st, err := booking.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt booking status", err)
	}

	var date *schedule.Date
	if schedDate.Valid {
		d := schedule.DateOf(schedDate.Time)
		date = &d
	}
	var at *schedule.TimeOfDay
	if schedTime.Valid {
		t, parseErr := schedule.ParseTimeOfDay(schedTime.String)
		if parseErr != nil {
			return nil, infra.WrapRepoErr("corrupt booking time", parseErr)
		}
		at = &t
	}

	return booking.Reconstruct(
		id, technicianID,
		pgconv.UUIDPtrFromPgtype(customerID),
		pgconv.UUIDPtrFromPgtype(orderID),
		linkToken, st, date, at,
		name, phone, notes,
		pgconv.TimeFromPgtype(expiresAt),
		pgconv.TimePtrFromPgtype(confirmedAt),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func dateToPg(d schedule.Date) pgtype.Date {
	return pgtype.Date{Time: d.At(schedule.TimeOfDay{}, time.UTC), Valid: true}
}
