package response

import (
	"time"

	"slotlink/internal/usecase/commands"
	"slotlink/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type IssueLinkResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func FromIssueLinkResult(r *commands.IssueLinkResult) *IssueLinkResponse {
	return &IssueLinkResponse{
		BookingID: r.BookingID,
		Token:     r.Token,
		URL:       r.URL,
		ExpiresAt: r.ExpiresAt,
	}
}

type BookingResponse struct {
	ID             uuid.UUID  `json:"id"`
	TechnicianID   uuid.UUID  `json:"technician_id"`
	TechnicianName string     `json:"technician_name"`
	CustomerID     *uuid.UUID `json:"customer_id,omitempty"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	Status         string     `json:"status"`
	ScheduledDate  *string    `json:"scheduled_date,omitempty"`
	ScheduledTime  *string    `json:"scheduled_time,omitempty"`
	CustomerName   string     `json:"customer_name"`
	CustomerPhone  string     `json:"customer_phone"`
	Notes          string     `json:"notes"`
	ExpiresAt      time.Time  `json:"expires_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	// Field names line up with the read model; copier keeps the mapping
	// from drifting as columns are added.
	_ = copier.Copy(&resp, view)
	return &resp
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	ScheduledDate *string   `json:"scheduled_date,omitempty"`
	ScheduledTime *string   `json:"scheduled_time,omitempty"`
	CustomerName  string    `json:"customer_name"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}
