package queries

import (
	"context"

	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrNotBookingOwner = errs.New("booking belongs to another technician")
)

// BookingReadStore is the read-side port implemented by infra/readstore.
type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByToken(ctx context.Context, linkToken string) (*BookingView, error)
	ListByTechnician(ctx context.Context, technicianID uuid.UUID, limit, offset int32) ([]*BookingListItem, error)
	ConfirmedTimes(ctx context.Context, technicianID uuid.UUID, date schedule.Date) ([]schedule.TimeOfDay, error)
}

type BookingQueries interface {
	// GetByID enforces ownership: technicians only see their own bookings.
	GetByID(ctx context.Context, technicianID, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem bypasses the ownership check for internal read-after-write.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByTechnician(ctx context.Context, technicianID uuid.UUID, limit int) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, technicianID, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.TechnicianID != technicianID {
		return nil, ErrNotBookingOwner
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByTechnician(ctx context.Context, technicianID uuid.UUID, limit int) ([]*BookingListItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.store.ListByTechnician(ctx, technicianID, int32(limit), 0)
}
