package queries

import (
	"context"

	"slotlink/internal/domain/schedule"

	"github.com/google/uuid"
)

// SettingsReadStore returns a technician's stored settings, or the domain
// defaults when no row exists. The booking flow never writes through it.
type SettingsReadStore interface {
	SettingsFor(ctx context.Context, technicianID uuid.UUID) (schedule.Settings, bool, error)
}

type SettingsQueries interface {
	For(ctx context.Context, technicianID uuid.UUID) (*ScheduleSettingsView, error)
}

type settingsQueriesImpl struct {
	store SettingsReadStore
}

func NewSettingsQueries(store SettingsReadStore) SettingsQueries {
	return &settingsQueriesImpl{store: store}
}

func (q *settingsQueriesImpl) For(ctx context.Context, technicianID uuid.UUID) (*ScheduleSettingsView, error) {
	settings, stored, err := q.store.SettingsFor(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return SettingsViewFrom(settings, !stored), nil
}

func SettingsViewFrom(s schedule.Settings, isDefault bool) *ScheduleSettingsView {
	days := make([]int, 0, 7)
	for _, d := range s.WorkDays() {
		days = append(days, int(d))
	}

	view := &ScheduleSettingsView{
		WorkDays:          days,
		DayStart:          s.DayStart().String(),
		DayEnd:            s.DayEnd().String(),
		SlotMinutes:       s.SlotMinutes(),
		AdvanceDays:       s.AdvanceDays(),
		LinkLifetimeHours: int(s.LinkLifetime().Hours()),
		IsDefault:         isDefault,
	}
	if lunch := s.Lunch(); lunch != nil {
		ls := lunch.Start().String()
		le := lunch.End().String()
		view.LunchStart = &ls
		view.LunchEnd = &le
	}
	return view
}
