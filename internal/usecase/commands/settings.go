package commands

import (
	"context"
	"time"

	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra/db"
	"slotlink/internal/pkg/errs"
	"slotlink/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidSettings = errs.New("invalid schedule settings")

type SettingsRepository interface {
	Upsert(ctx context.Context, dbx db.Executor, technicianID uuid.UUID, s schedule.Settings) error
}

// SettingsCacheInvalidator drops the cached settings entry after a write so
// readers pick up the new row.
type SettingsCacheInvalidator interface {
	Invalidate(ctx context.Context, technicianID uuid.UUID)
}

type UpdateSettingsParams struct {
	WorkDays          []int
	DayStart          string
	DayEnd            string
	LunchStart        *string
	LunchEnd          *string
	SlotMinutes       int
	AdvanceDays       int
	LinkLifetimeHours int
}

type SettingsCommands interface {
	Update(ctx context.Context, technicianID uuid.UUID, params UpdateSettingsParams) (*queries.ScheduleSettingsView, error)
}

type settingsCommandsImpl struct {
	repo        SettingsRepository
	invalidator SettingsCacheInvalidator
	pool        *pgxpool.Pool
}

func NewSettingsCommands(repo SettingsRepository, invalidator SettingsCacheInvalidator, pool *pgxpool.Pool) SettingsCommands {
	return &settingsCommandsImpl{repo: repo, invalidator: invalidator, pool: pool}
}

func (c *settingsCommandsImpl) Update(ctx context.Context, technicianID uuid.UUID, params UpdateSettingsParams) (*queries.ScheduleSettingsView, error) {
	settings, err := settingsFromParams(params)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSettings)
	}

	if err := c.repo.Upsert(ctx, c.pool, technicianID, settings); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	c.invalidator.Invalidate(ctx, technicianID)

	return queries.SettingsViewFrom(settings, false), nil
}

func settingsFromParams(params UpdateSettingsParams) (schedule.Settings, error) {
	dayStart, err := schedule.ParseTimeOfDay(params.DayStart)
	if err != nil {
		return schedule.Settings{}, err
	}
	dayEnd, err := schedule.ParseTimeOfDay(params.DayEnd)
	if err != nil {
		return schedule.Settings{}, err
	}

	if (params.LunchStart == nil) != (params.LunchEnd == nil) {
		return schedule.Settings{}, errs.New("lunch start and end must be provided together")
	}

	var lunch *schedule.LunchWindow
	if params.LunchStart != nil && params.LunchEnd != nil {
		start, err := schedule.ParseTimeOfDay(*params.LunchStart)
		if err != nil {
			return schedule.Settings{}, err
		}
		end, err := schedule.ParseTimeOfDay(*params.LunchEnd)
		if err != nil {
			return schedule.Settings{}, err
		}
		w, err := schedule.NewLunchWindow(start, end)
		if err != nil {
			return schedule.Settings{}, err
		}
		lunch = &w
	}

	days := make([]time.Weekday, 0, len(params.WorkDays))
	for _, d := range params.WorkDays {
		days = append(days, time.Weekday(d))
	}

	return schedule.NewSettings(
		days,
		dayStart, dayEnd,
		lunch,
		params.SlotMinutes,
		params.AdvanceDays,
		time.Duration(params.LinkLifetimeHours)*time.Hour,
	)
}
