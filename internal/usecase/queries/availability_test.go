//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/pkg/clock"
	"slotlink/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubBookingStore struct {
	view      *queries.BookingView
	findErr   error
	confirmed []schedule.TimeOfDay
}

func (s *stubBookingStore) FindByID(context.Context, uuid.UUID) (*queries.BookingView, error) {
	return s.view, s.findErr
}

func (s *stubBookingStore) FindByToken(context.Context, string) (*queries.BookingView, error) {
	return s.view, s.findErr
}

func (s *stubBookingStore) ListByTechnician(context.Context, uuid.UUID, int32, int32) ([]*queries.BookingListItem, error) {
	return nil, nil
}

func (s *stubBookingStore) ConfirmedTimes(context.Context, uuid.UUID, schedule.Date) ([]schedule.TimeOfDay, error) {
	return s.confirmed, nil
}

type stubSettingsStore struct {
	settings schedule.Settings
}

func (s *stubSettingsStore) SettingsFor(context.Context, uuid.UUID) (schedule.Settings, bool, error) {
	return s.settings, true, nil
}

func pendingView(expiresAt time.Time) *queries.BookingView {
	return &queries.BookingView{
		ID:             uuid.New(),
		TechnicianID:   uuid.New(),
		TechnicianName: "Dana Technician",
		Token:          "tok",
		Status:         "pending",
		CustomerName:   "Alex",
		ExpiresAt:      expiresAt,
	}
}

func TestLinkAvailability(t *testing.T) {
	// Monday morning; the link expires two days out.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(now)

	t.Run("valid link lists workdays only", func(t *testing.T) {
		store := &stubBookingStore{view: pendingView(now.Add(48 * time.Hour))}
		q := queries.NewAvailabilityQueries(store, &stubSettingsStore{settings: schedule.DefaultSettings()}, clk)

		result, err := q.LinkAvailability(context.Background(), "tok", nil)
		require.NoError(t, err)
		require.Equal(t, "Dana Technician", result.TechnicianName)
		require.Equal(t, 60, result.SlotMinutes)
		require.Nil(t, result.SelectedDate)
		require.Nil(t, result.Slots)

		// 30-day horizon from Monday 2026-03-02: 22 weekdays, none today.
		require.Len(t, result.AvailableDates, 22)
		require.Equal(t, "2026-03-03", result.AvailableDates[0])
		require.NotContains(t, result.AvailableDates, "2026-03-02")
		require.NotContains(t, result.AvailableDates, "2026-03-07")
	})

	t.Run("selected date projects slots net of confirmed bookings", func(t *testing.T) {
		store := &stubBookingStore{
			view: pendingView(now.Add(48 * time.Hour)),
			confirmed: []schedule.TimeOfDay{
				mustParseTime(t, "10:00"),
				mustParseTime(t, "15:00"),
			},
		}
		q := queries.NewAvailabilityQueries(store, &stubSettingsStore{settings: schedule.DefaultSettings()}, clk)

		date := mustParseDate(t, "2026-03-03")
		result, err := q.LinkAvailability(context.Background(), "tok", &date)
		require.NoError(t, err)
		require.Equal(t, "2026-03-03", *result.SelectedDate)

		want := []string{"09:00", "11:00", "13:00", "14:00", "16:00", "17:00"}
		if diff := cmp.Diff(want, result.Slots); diff != "" {
			t.Errorf("Slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown token maps to not found", func(t *testing.T) {
		store := &stubBookingStore{findErr: infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)}
		q := queries.NewAvailabilityQueries(store, &stubSettingsStore{settings: schedule.DefaultSettings()}, clk)

		_, err := q.LinkAvailability(context.Background(), "tok", nil)
		require.ErrorIs(t, err, queries.ErrLinkNotFound)
	})

	t.Run("expired link is rejected before status checks", func(t *testing.T) {
		view := pendingView(now.Add(-time.Minute))
		view.Status = "confirmed"
		store := &stubBookingStore{view: view}
		q := queries.NewAvailabilityQueries(store, &stubSettingsStore{settings: schedule.DefaultSettings()}, clk)

		_, err := q.LinkAvailability(context.Background(), "tok", nil)
		require.ErrorIs(t, err, queries.ErrLinkExpired)
	})

	t.Run("confirmed link is rejected", func(t *testing.T) {
		view := pendingView(now.Add(48 * time.Hour))
		view.Status = "confirmed"
		store := &stubBookingStore{view: view}
		q := queries.NewAvailabilityQueries(store, &stubSettingsStore{settings: schedule.DefaultSettings()}, clk)

		_, err := q.LinkAvailability(context.Background(), "tok", nil)
		require.ErrorIs(t, err, queries.ErrLinkConfirmed)
	})

	t.Run("canceled link is rejected", func(t *testing.T) {
		view := pendingView(now.Add(48 * time.Hour))
		view.Status = "canceled"
		store := &stubBookingStore{view: view}
		q := queries.NewAvailabilityQueries(store, &stubSettingsStore{settings: schedule.DefaultSettings()}, clk)

		_, err := q.LinkAvailability(context.Background(), "tok", nil)
		require.ErrorIs(t, err, queries.ErrLinkCanceled)
	})
}

func mustParseTime(t *testing.T, s string) schedule.TimeOfDay {
	t.Helper()
	v, err := schedule.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func mustParseDate(t *testing.T, s string) schedule.Date {
	t.Helper()
	v, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return v
}
