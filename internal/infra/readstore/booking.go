package readstore

import (
	"context"
	"time"

	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/pkg/pgconv"
	"slotlink/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingReadStore struct {
	db *pgxpool.Pool
}

func NewBookingReadStore(pool *pgxpool.Pool) *BookingReadStore {
	return &BookingReadStore{db: pool}
}

const bookingViewQuery = `
	SELECT
		b.id, b.technician_id, u.name, b.customer_id, b.order_id,
		b.token, b.status, b.scheduled_date, b.scheduled_time,
		b.customer_name, b.customer_phone, b.notes,
		b.expires_at, b.confirmed_at, b.created_at, b.updated_at
	FROM bookings b
	JOIN users u ON u.id = b.technician_id`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return r.scanView(ctx, bookingViewQuery+` WHERE b.id = $1`, id)
}

func (r *BookingReadStore) FindByToken(ctx context.Context, linkToken string) (*queries.BookingView, error) {
	return r.scanView(ctx, bookingViewQuery+` WHERE b.token = $1`, linkToken)
}

func (r *BookingReadStore) ListByTechnician(ctx context.Context, technicianID uuid.UUID, limit, offset int32) ([]*queries.BookingListItem, error) {
	const query = `
		SELECT id, status, scheduled_date, scheduled_time, customer_name, expires_at, created_at
		FROM bookings
		WHERE technician_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, technicianID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			schedDate pgtype.Date
			schedTime pgtype.Text
			expiresAt pgtype.Timestamptz
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.Status, &schedDate, &schedTime, &item.CustomerName, &expiresAt, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		item.ScheduledDate = dateStringPtr(schedDate)
		item.ScheduledTime = pgconv.StringPtrFromPgtype(schedTime)
		item.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list", err)
	}
	return out, nil
}

// ConfirmedTimes feeds the availability calculator: the set of start times
// already confirmed for a technician on one date.
func (r *BookingReadStore) ConfirmedTimes(ctx context.Context, technicianID uuid.UUID, date schedule.Date) ([]schedule.TimeOfDay, error) {
	const query = `
		SELECT scheduled_time FROM bookings
		WHERE technician_id = $1 AND scheduled_date = $2 AND status = 'confirmed'
		ORDER BY scheduled_time`

	pgDate := pgtype.Date{Time: date.At(schedule.TimeOfDay{}, time.UTC), Valid: true}
	rows, err := r.db.Query(ctx, query, technicianID, pgDate)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query confirmed times", err)
	}
	defer rows.Close()

	var out []schedule.TimeOfDay
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, infra.WrapRepoErr("failed to scan confirmed time", err)
		}
		t, parseErr := schedule.ParseTimeOfDay(raw)
		if parseErr != nil {
			return nil, infra.WrapRepoErr("corrupt confirmed time", parseErr)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate confirmed times", err)
	}
	return out, nil
}

func (r *BookingReadStore) scanView(ctx context.Context, query string, arg any) (*queries.BookingView, error) {
	var (
		view                 queries.BookingView
		customerID, orderID  pgtype.UUID
		schedDate            pgtype.Date
		schedTime            pgtype.Text
		expiresAt            pgtype.Timestamptz
		confirmedAt          pgtype.Timestamptz
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&view.ID, &view.TechnicianID, &view.TechnicianName, &customerID, &orderID,
		&view.Token, &view.Status, &schedDate, &schedTime,
		&view.CustomerName, &view.CustomerPhone, &view.Notes,
		&expiresAt, &confirmedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	view.CustomerID = pgconv.UUIDPtrFromPgtype(customerID)
	view.OrderID = pgconv.UUIDPtrFromPgtype(orderID)
	view.ScheduledDate = dateStringPtr(schedDate)
	view.ScheduledTime = pgconv.StringPtrFromPgtype(schedTime)
	view.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)
	view.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func dateStringPtr(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := schedule.DateOf(d.Time).String()
	return &s
}
