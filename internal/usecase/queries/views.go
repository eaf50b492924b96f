package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID             uuid.UUID  `json:"id"`
	TechnicianID   uuid.UUID  `json:"technician_id"`
	TechnicianName string     `json:"technician_name"`
	CustomerID     *uuid.UUID `json:"customer_id,omitempty"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	Token          string     `json:"token"`
	Status         string     `json:"status"`
	ScheduledDate  *string    `json:"scheduled_date,omitempty"`
	ScheduledTime  *string    `json:"scheduled_time,omitempty"`
	CustomerName   string     `json:"customer_name"`
	CustomerPhone  string     `json:"customer_phone"`
	Notes          string     `json:"notes"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	ScheduledDate *string   `json:"scheduled_date,omitempty"`
	ScheduledTime *string   `json:"scheduled_time,omitempty"`
	CustomerName  string    `json:"customer_name"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type ScheduleSettingsView struct {
	WorkDays          []int   `json:"work_days"`
	DayStart          string  `json:"day_start"`
	DayEnd            string  `json:"day_end"`
	LunchStart        *string `json:"lunch_start,omitempty"`
	LunchEnd          *string `json:"lunch_end,omitempty"`
	SlotMinutes       int     `json:"slot_minutes"`
	AdvanceDays       int     `json:"advance_days"`
	LinkLifetimeHours int     `json:"link_lifetime_hours"`
	IsDefault         bool    `json:"is_default"`
}

// LinkAvailability is the public payload behind a booking link: what the
// customer sees before picking a slot.
type LinkAvailability struct {
	Token          string    `json:"token"`
	TechnicianName string    `json:"technician_name"`
	SlotMinutes    int       `json:"slot_minutes"`
	ExpiresAt      time.Time `json:"expires_at"`
	CustomerName   string    `json:"customer_name,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	AvailableDates []string  `json:"available_dates"`
	SelectedDate   *string   `json:"selected_date,omitempty"`
	Slots          []string  `json:"slots,omitempty"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
