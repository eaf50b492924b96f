package request

import (
	"strings"

	"slotlink/internal/usecase/commands"

	"github.com/google/uuid"
)

type IssueLinkRequest struct {
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

func (r IssueLinkRequest) ToParams() commands.IssueLinkParams {
	return commands.IssueLinkParams{
		CustomerID:    r.CustomerID,
		OrderID:       r.OrderID,
		CustomerName:  strings.TrimSpace(r.CustomerName),
		CustomerPhone: strings.TrimSpace(r.CustomerPhone),
		Notes:         strings.TrimSpace(r.Notes),
	}
}

type ConfirmBookingRequest struct {
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
}
