package response

import (
	"time"

	"slotlink/internal/usecase/queries"
)

// LinkAvailabilityResponse is the public payload: no technician or customer
// identifiers beyond the display name, the link token is the only handle.
type LinkAvailabilityResponse struct {
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

func FromLinkAvailability(view *queries.LinkAvailability) *LinkAvailabilityResponse {
	return &LinkAvailabilityResponse{
		Token:          view.Token,
		TechnicianName: view.TechnicianName,
		SlotMinutes:    view.SlotMinutes,
		ExpiresAt:      view.ExpiresAt,
		CustomerName:   view.CustomerName,
		Notes:          view.Notes,
		AvailableDates: view.AvailableDates,
		SelectedDate:   view.SelectedDate,
		Slots:          view.Slots,
	}
}
