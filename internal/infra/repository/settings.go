package repository

import (
	"context"
	"time"

	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/infra/db"
	"slotlink/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SettingsRepository struct{}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Upsert stores the single settings row a technician owns.
func (r *SettingsRepository) Upsert(ctx context.Context, dbx db.Executor, technicianID uuid.UUID, s schedule.Settings) error {
	const query = `
		INSERT INTO schedule_settings (
			technician_id, work_days, day_start, day_end,
			lunch_start, lunch_end, slot_minutes, advance_days, link_lifetime_hours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (technician_id) DO UPDATE SET
			work_days = EXCLUDED.work_days,
			day_start = EXCLUDED.day_start,
			day_end = EXCLUDED.day_end,
			lunch_start = EXCLUDED.lunch_start,
			lunch_end = EXCLUDED.lunch_end,
			slot_minutes = EXCLUDED.slot_minutes,
			advance_days = EXCLUDED.advance_days,
			link_lifetime_hours = EXCLUDED.link_lifetime_hours,
			updated_at = now()`

	workDays := make([]int16, 0, 7)
	for _, d := range s.WorkDays() {
		workDays = append(workDays, int16(d))
	}

	var lunchStart, lunchEnd *string
	if lunch := s.Lunch(); lunch != nil {
		ls := lunch.Start().String()
		le := lunch.End().String()
		lunchStart = &ls
		lunchEnd = &le
	}

	_, err := dbx.Exec(ctx, query,
		technicianID,
		workDays,
		s.DayStart().String(),
		s.DayEnd().String(),
		pgconv.StringPtrToPgtype(lunchStart),
		pgconv.StringPtrToPgtype(lunchEnd),
		int32(s.SlotMinutes()),
		int32(s.AdvanceDays()),
		int32(s.LinkLifetime()/time.Hour),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert schedule settings", err)
	}
	return nil
}
