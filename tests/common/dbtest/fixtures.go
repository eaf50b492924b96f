//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestTechnician(t *testing.T, db DBLike, email, name string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, name, role, is_active) VALUES ($1, $2, $3, $4, 'technician', true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, name)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestSettings(t *testing.T, db DBLike, technicianID uuid.UUID,
	workDays []int16, dayStart, dayEnd string, lunchStart, lunchEnd *string,
	slotMinutes, advanceDays, linkLifetimeHours int,
) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO schedule_settings
			(technician_id, work_days, day_start, day_end, lunch_start, lunch_end,
			 slot_minutes, advance_days, link_lifetime_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (technician_id) DO UPDATE SET
			work_days = EXCLUDED.work_days,
			day_start = EXCLUDED.day_start,
			day_end = EXCLUDED.day_end,
			lunch_start = EXCLUDED.lunch_start,
			lunch_end = EXCLUDED.lunch_end,
			slot_minutes = EXCLUDED.slot_minutes,
			advance_days = EXCLUDED.advance_days,
			link_lifetime_hours = EXCLUDED.link_lifetime_hours,
			updated_at = now()`,
		technicianID, workDays, dayStart, dayEnd, lunchStart, lunchEnd,
		slotMinutes, advanceDays, linkLifetimeHours)
	require.NoError(t, err)
}

// CreateTestBookingLink inserts a pending link row directly, bypassing the
// issue-link endpoint, so tests can control the token and expiry.
func CreateTestBookingLink(t *testing.T, db DBLike, technicianID uuid.UUID, token string, expiresAt time.Time) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO bookings (id, technician_id, token, status, expires_at) VALUES ($1, $2, $3, 'pending', $4)",
		bookingID, technicianID, token, expiresAt)
	require.NoError(t, err)

	return bookingID
}

func CountNotificationJobs(t *testing.T, db DBLike, topic string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1", topic).Scan(&n)
	require.NoError(t, err)
	return n
}

// ResetDB truncates all mutable tables between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx,
		"TRUNCATE notification_jobs, bookings, schedule_settings, users RESTART IDENTITY CASCADE")
	return err
}
