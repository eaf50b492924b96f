package request

import (
	"slotlink/internal/usecase/commands"
)

type UpdateSettingsRequest struct {
	WorkDays          []int   `json:"work_days" binding:"required"`
	DayStart          string  `json:"day_start" binding:"required"`
	DayEnd            string  `json:"day_end" binding:"required"`
	LunchStart        *string `json:"lunch_start,omitempty"`
	LunchEnd          *string `json:"lunch_end,omitempty"`
	SlotMinutes       int     `json:"slot_minutes" binding:"required,min=1"`
	AdvanceDays       int     `json:"advance_days" binding:"required,min=1"`
	LinkLifetimeHours int     `json:"link_lifetime_hours" binding:"required,min=1"`
}

func (r UpdateSettingsRequest) ToParams() commands.UpdateSettingsParams {
	return commands.UpdateSettingsParams{
		WorkDays:          r.WorkDays,
		DayStart:          r.DayStart,
		DayEnd:            r.DayEnd,
		LunchStart:        r.LunchStart,
		LunchEnd:          r.LunchEnd,
		SlotMinutes:       r.SlotMinutes,
		AdvanceDays:       r.AdvanceDays,
		LinkLifetimeHours: r.LinkLifetimeHours,
	}
}
