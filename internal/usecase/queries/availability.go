package queries

import (
	"context"

	"slotlink/internal/domain/booking"
	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/pkg/clock"
	"slotlink/internal/pkg/errs"
)

var (
	ErrLinkNotFound     = errs.New("booking link not found")
	ErrLinkExpired      = errs.New("booking link has expired")
	ErrLinkConfirmed    = errs.New("booking link is already confirmed")
	ErrLinkCanceled     = errs.New("booking link has been canceled")
)

// AvailabilityQueries serves the unauthenticated link view: validates the
// token's state, then projects the availability calculator over the
// technician's settings and confirmed bookings.
type AvailabilityQueries interface {
	LinkAvailability(ctx context.Context, linkToken string, date *schedule.Date) (*LinkAvailability, error)
}

type availabilityQueriesImpl struct {
	bookings BookingReadStore
	settings SettingsReadStore
	clock    clock.Clock
}

func NewAvailabilityQueries(bookings BookingReadStore, settings SettingsReadStore, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{
		bookings: bookings,
		settings: settings,
		clock:    clk,
	}
}

func (q *availabilityQueriesImpl) LinkAvailability(ctx context.Context, linkToken string, date *schedule.Date) (*LinkAvailability, error) {
	view, err := q.bookings.FindByToken(ctx, linkToken)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	now := q.clock.Now()

	// Expiry is evaluated lazily at read time; nothing sweeps pending rows.
	if now.After(view.ExpiresAt) {
		return nil, ErrLinkExpired
	}
	switch booking.Status(view.Status) {
	case booking.StatusConfirmed:
		return nil, ErrLinkConfirmed
	case booking.StatusCanceled:
		return nil, ErrLinkCanceled
	}

	settings, _, err := q.settings.SettingsFor(ctx, view.TechnicianID)
	if err != nil {
		return nil, err
	}

	dates := settings.AvailableDates(now)
	dateStrings := make([]string, len(dates))
	for i, d := range dates {
		dateStrings[i] = d.String()
	}

	result := &LinkAvailability{
		Token:          view.Token,
		TechnicianName: view.TechnicianName,
		SlotMinutes:    settings.SlotMinutes(),
		ExpiresAt:      view.ExpiresAt,
		CustomerName:   view.CustomerName,
		Notes:          view.Notes,
		AvailableDates: dateStrings,
	}

	if date != nil {
		taken, err := q.bookings.ConfirmedTimes(ctx, view.TechnicianID, *date)
		if err != nil {
			return nil, err
		}

		slots := settings.Slots(*date, taken, now)
		slotStrings := make([]string, len(slots))
		for i, s := range slots {
			slotStrings[i] = s.String()
		}

		selected := date.String()
		result.SelectedDate = &selected
		result.Slots = slotStrings
	}

	return result, nil
}
