//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"slotlink/internal/domain/schedule"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) schedule.TimeOfDay {
	t.Helper()
	v, err := schedule.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func mustDate(t *testing.T, s string) schedule.Date {
	t.Helper()
	v, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return v
}

func slotStrings(slots []schedule.TimeOfDay) []string {
	if slots == nil {
		return nil
	}
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func customSettings(t *testing.T, slotMinutes int, withLunch bool) schedule.Settings {
	t.Helper()
	var lunch *schedule.LunchWindow
	if withLunch {
		w, err := schedule.NewLunchWindow(mustTime(t, "12:00"), mustTime(t, "13:00"))
		require.NoError(t, err)
		lunch = &w
	}
	s, err := schedule.NewSettings(
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		mustTime(t, "09:00"), mustTime(t, "18:00"),
		lunch, slotMinutes, 7, 48*time.Hour,
	)
	require.NoError(t, err)
	return s
}

func TestSettingsSlots(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := mustDate(t, "2026-03-02")
	dayBefore := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		settings schedule.Settings
		date     schedule.Date
		taken    []schedule.TimeOfDay
		now      time.Time
		want     []string
	}{
		{
			name:     "free workday skips the lunch hour",
			settings: schedule.DefaultSettings(),
			date:     monday,
			now:      dayBefore,
			want:     []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"},
		},
		{
			name:     "taken times are removed",
			settings: schedule.DefaultSettings(),
			date:     monday,
			taken:    []schedule.TimeOfDay{mustTime(t, "10:00"), mustTime(t, "14:00")},
			now:      dayBefore,
			want:     []string{"09:00", "11:00", "13:00", "15:00", "16:00", "17:00"},
		},
		{
			name:     "same day keeps only future slots",
			settings: schedule.DefaultSettings(),
			date:     monday,
			now:      time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
			want:     []string{"13:00", "14:00", "15:00", "16:00", "17:00"},
		},
		{
			name:     "slot starting exactly now is excluded",
			settings: schedule.DefaultSettings(),
			date:     monday,
			now:      time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
			want:     []string{"14:00", "15:00", "16:00", "17:00"},
		},
		{
			name:     "non-working day yields nothing",
			settings: schedule.DefaultSettings(),
			date:     mustDate(t, "2026-03-01"), // Sunday
			now:      dayBefore,
			want:     nil,
		},
		{
			name:     "90 minute slots without lunch fill the window",
			settings: customSettings(t, 90, false),
			date:     monday,
			now:      dayBefore,
			want:     []string{"09:00", "10:30", "12:00", "13:30", "15:00", "16:30"},
		},
		{
			name:     "90 minute slots jump over lunch",
			settings: customSettings(t, 90, true),
			date:     monday,
			now:      dayBefore,
			want:     []string{"09:00", "10:30", "13:00", "14:30", "16:00"},
		},
		{
			name:     "fully booked day yields nothing",
			settings: schedule.DefaultSettings(),
			date:     monday,
			taken: []schedule.TimeOfDay{
				mustTime(t, "09:00"), mustTime(t, "10:00"), mustTime(t, "11:00"),
				mustTime(t, "13:00"), mustTime(t, "14:00"), mustTime(t, "15:00"),
				mustTime(t, "16:00"), mustTime(t, "17:00"),
			},
			now:  dayBefore,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slotStrings(tt.settings.Slots(tt.date, tt.taken, tt.now))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Slots() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSettingsAvailableDates(t *testing.T) {
	// 2026-03-06 is a Friday; a 7-day horizon crosses one weekend.
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	settings := customSettings(t, 60, true)

	dates := settings.AvailableDates(now)

	got := make([]string, len(dates))
	for i, d := range dates {
		got[i] = d.String()
	}
	want := []string{"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AvailableDates() mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsAvailableDatesIgnoresOccupancy(t *testing.T) {
	// Fully booked days still appear; the calculator never consults bookings.
	now := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	settings := customSettings(t, 60, true)

	require.Len(t, settings.AvailableDates(now), 5)
}

func TestSettingsIsOffered(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // Monday
	settings := schedule.DefaultSettings()

	tests := []struct {
		name string
		date string
		at   string
		want bool
	}{
		{name: "grid slot inside window", date: "2026-03-03", at: "10:00", want: true},
		{name: "last slot of the day", date: "2026-03-03", at: "17:00", want: true},
		{name: "today is never offered", date: "2026-03-02", at: "10:00", want: false},
		{name: "lunch time", date: "2026-03-03", at: "12:00", want: false},
		{name: "off grid minute", date: "2026-03-03", at: "10:30", want: false},
		{name: "after day end", date: "2026-03-03", at: "18:00", want: false},
		{name: "weekend", date: "2026-03-07", at: "10:00", want: false},
		{name: "beyond advance horizon", date: "2026-05-01", at: "10:00", want: false},
		{name: "past date", date: "2026-03-01", at: "10:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := settings.IsOffered(mustDate(t, tt.date), mustTime(t, tt.at), now)
			require.Equal(t, tt.want, got)
		})
	}
}
