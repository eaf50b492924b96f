//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"slotlink/internal/domain/schedule"

	"github.com/stretchr/testify/require"
)

func TestNewSettingsValidation(t *testing.T) {
	weekdays := []time.Weekday{time.Monday}
	nine := mustTime(t, "09:00")
	eighteen := mustTime(t, "18:00")

	t.Run("rejects start after end", func(t *testing.T) {
		_, err := schedule.NewSettings(weekdays, eighteen, nine, nil, 60, 30, 48*time.Hour)
		require.ErrorIs(t, err, schedule.ErrInvalidWorkingWindow)
	})

	t.Run("rejects lunch outside the working day", func(t *testing.T) {
		lunch, err := schedule.NewLunchWindow(mustTime(t, "08:00"), mustTime(t, "09:30"))
		require.NoError(t, err)
		_, err = schedule.NewSettings(weekdays, nine, eighteen, &lunch, 60, 30, 48*time.Hour)
		require.ErrorIs(t, err, schedule.ErrLunchOutsideWindow)
	})

	t.Run("rejects non-positive slot duration", func(t *testing.T) {
		_, err := schedule.NewSettings(weekdays, nine, eighteen, nil, 0, 30, 48*time.Hour)
		require.ErrorIs(t, err, schedule.ErrInvalidSlotDuration)
	})

	t.Run("rejects non-positive advance days", func(t *testing.T) {
		_, err := schedule.NewSettings(weekdays, nine, eighteen, nil, 60, 0, 48*time.Hour)
		require.ErrorIs(t, err, schedule.ErrInvalidAdvanceDays)
	})

	t.Run("rejects non-positive link lifetime", func(t *testing.T) {
		_, err := schedule.NewSettings(weekdays, nine, eighteen, nil, 60, 30, 0)
		require.ErrorIs(t, err, schedule.ErrInvalidLinkLifetime)
	})
}

func TestDefaultSettings(t *testing.T) {
	s := schedule.DefaultSettings()

	require.Equal(t, []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}, s.WorkDays())
	require.Equal(t, "09:00", s.DayStart().String())
	require.Equal(t, "18:00", s.DayEnd().String())
	require.NotNil(t, s.Lunch())
	require.Equal(t, "12:00", s.Lunch().Start().String())
	require.Equal(t, "13:00", s.Lunch().End().String())
	require.Equal(t, 60, s.SlotMinutes())
	require.Equal(t, 30, s.AdvanceDays())
	require.Equal(t, 48*time.Hour, s.LinkLifetime())
}

func TestLunchWindowOverlaps(t *testing.T) {
	lunch, err := schedule.NewLunchWindow(mustTime(t, "12:00"), mustTime(t, "13:00"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{name: "slot ending at lunch start", start: "11:00", end: "12:00", want: false},
		{name: "slot starting at lunch end", start: "13:00", end: "14:00", want: false},
		{name: "slot inside lunch", start: "12:00", end: "12:30", want: true},
		{name: "slot straddling lunch start", start: "11:30", end: "12:30", want: true},
		{name: "slot covering lunch entirely", start: "11:00", end: "14:00", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lunch.Overlaps(mustTime(t, tt.start), mustTime(t, tt.end))
			require.Equal(t, tt.want, got)
		})
	}
}
