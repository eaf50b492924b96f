package readstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"slotlink/internal/domain/schedule"
	"slotlink/internal/infra"
	"slotlink/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const settingsCachePrefix = "schedule_settings:"

// settingsRow is the cached/persisted shape; the domain value object is
// rebuilt from it on every read so invariants cannot be bypassed.
type settingsRow struct {
	WorkDays          []int16 `json:"work_days"`
	DayStart          string  `json:"day_start"`
	DayEnd            string  `json:"day_end"`
	LunchStart        *string `json:"lunch_start,omitempty"`
	LunchEnd          *string `json:"lunch_end,omitempty"`
	SlotMinutes       int32   `json:"slot_minutes"`
	AdvanceDays       int32   `json:"advance_days"`
	LinkLifetimeHours int32   `json:"link_lifetime_hours"`
	Stored            bool    `json:"stored"`
}

// SettingsReadStore serves schedule settings with a Redis read-through
// cache; the public availability endpoint hits this on every request.
type SettingsReadStore struct {
	db    *pgxpool.Pool
	cache *redis.Client
	ttl   time.Duration
}

func NewSettingsReadStore(pool *pgxpool.Pool, cache *redis.Client, ttl time.Duration) *SettingsReadStore {
	return &SettingsReadStore{db: pool, cache: cache, ttl: ttl}
}

func (r *SettingsReadStore) SettingsFor(ctx context.Context, technicianID uuid.UUID) (schedule.Settings, bool, error) {
	if row, ok := r.fromCache(ctx, technicianID); ok {
		settings, err := row.toDomain()
		if err == nil {
			return settings, row.Stored, nil
		}
		// Corrupt cache entries fall through to the database.
		slog.Warn("discarding corrupt settings cache entry", "technician_id", technicianID, "error", err.Error())
	}

	row, err := r.fromDB(ctx, technicianID)
	if err != nil {
		return schedule.Settings{}, false, err
	}

	r.toCache(ctx, technicianID, row)

	if !row.Stored {
		return schedule.DefaultSettings(), false, nil
	}
	settings, err := row.toDomain()
	if err != nil {
		return schedule.Settings{}, false, infra.WrapRepoErr("corrupt schedule settings row", err)
	}
	return settings, true, nil
}

// Invalidate drops the cached entry; called after a settings upsert.
func (r *SettingsReadStore) Invalidate(ctx context.Context, technicianID uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, settingsCachePrefix+technicianID.String()).Err(); err != nil {
		slog.Warn("failed to invalidate settings cache", "technician_id", technicianID, "error", err.Error())
	}
}

func (r *SettingsReadStore) fromDB(ctx context.Context, technicianID uuid.UUID) (*settingsRow, error) {
	const query = `
		SELECT work_days, day_start, day_end, lunch_start, lunch_end,
		       slot_minutes, advance_days, link_lifetime_hours
		FROM schedule_settings
		WHERE technician_id = $1`

	var (
		row        settingsRow
		lunchStart pgtype.Text
		lunchEnd   pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, technicianID).Scan(
		&row.WorkDays, &row.DayStart, &row.DayEnd, &lunchStart, &lunchEnd,
		&row.SlotMinutes, &row.AdvanceDays, &row.LinkLifetimeHours,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			// No row means defaults; cache that fact too.
			return &settingsRow{Stored: false}, nil
		}
		return nil, infra.WrapRepoErr("failed to find schedule settings", err)
	}

	row.LunchStart = pgconv.StringPtrFromPgtype(lunchStart)
	row.LunchEnd = pgconv.StringPtrFromPgtype(lunchEnd)
	row.Stored = true
	return &row, nil
}

func (r *SettingsReadStore) fromCache(ctx context.Context, technicianID uuid.UUID) (*settingsRow, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, settingsCachePrefix+technicianID.String()).Bytes()
	if err != nil {
		return nil, false
	}
	var row settingsRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, false
	}
	return &row, true
}

func (r *SettingsReadStore) toCache(ctx context.Context, technicianID uuid.UUID, row *settingsRow) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, settingsCachePrefix+technicianID.String(), raw, r.ttl).Err(); err != nil {
		slog.Warn("failed to cache schedule settings", "technician_id", technicianID, "error", err.Error())
	}
}

func (row *settingsRow) toDomain() (schedule.Settings, error) {
	if !row.Stored {
		return schedule.DefaultSettings(), nil
	}

	days := make([]time.Weekday, 0, len(row.WorkDays))
	for _, d := range row.WorkDays {
		days = append(days, time.Weekday(d))
	}

	dayStart, err := schedule.ParseTimeOfDay(row.DayStart)
	if err != nil {
		return schedule.Settings{}, err
	}
	dayEnd, err := schedule.ParseTimeOfDay(row.DayEnd)
	if err != nil {
		return schedule.Settings{}, err
	}

	var lunch *schedule.LunchWindow
	if row.LunchStart != nil && row.LunchEnd != nil {
		ls, err := schedule.ParseTimeOfDay(*row.LunchStart)
		if err != nil {
			return schedule.Settings{}, err
		}
		le, err := schedule.ParseTimeOfDay(*row.LunchEnd)
		if err != nil {
			return schedule.Settings{}, err
		}
		w, err := schedule.NewLunchWindow(ls, le)
		if err != nil {
			return schedule.Settings{}, err
		}
		lunch = &w
	}

	return schedule.NewSettings(
		days, dayStart, dayEnd, lunch,
		int(row.SlotMinutes), int(row.AdvanceDays),
		time.Duration(row.LinkLifetimeHours)*time.Hour,
	)
}
