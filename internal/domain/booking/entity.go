package booking

import (
	"errors"
	"time"

	"slotlink/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus    = errors.New("invalid booking status")
	ErrEmptyToken       = errors.New("booking token must not be empty")
	ErrLinkExpired      = errors.New("booking link has expired")
	ErrAlreadyConfirmed = errors.New("booking is already confirmed")
	ErrCanceled         = errors.New("booking has been canceled")
	ErrNotPending       = errors.New("booking is not pending")
)

// Booking is one scheduling attempt: a single-use link issued by a
// technician, later resolved by exactly one customer confirmation.
type Booking struct {
	id            uuid.UUID
	technicianID  uuid.UUID
	customerID    *uuid.UUID
	orderID       *uuid.UUID
	token         string
	status        Status
	scheduledDate *schedule.Date
	scheduledTime *schedule.TimeOfDay
	customerName  string
	customerPhone string
	notes         string
	expiresAt     time.Time
	confirmedAt   *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// Prefill carries optional metadata known at issue time. Confirm-time
// values take precedence when non-empty.
type Prefill struct {
	CustomerID    *uuid.UUID
	OrderID       *uuid.UUID
	CustomerName  string
	CustomerPhone string
	Notes         string
}

func NewBooking(technicianID uuid.UUID, linkToken string, expiresAt time.Time, prefill Prefill) (*Booking, error) {
	if linkToken == "" {
		return nil, ErrEmptyToken
	}

	return &Booking{
		id:            uuid.New(),
		technicianID:  technicianID,
		customerID:    prefill.CustomerID,
		orderID:       prefill.OrderID,
		token:         linkToken,
		status:        StatusPending,
		customerName:  prefill.CustomerName,
		customerPhone: prefill.CustomerPhone,
		notes:         prefill.Notes,
		expiresAt:     expiresAt,
	}, nil
}

func Reconstruct(
	id, technicianID uuid.UUID,
	customerID, orderID *uuid.UUID,
	linkToken string,
	status Status,
	scheduledDate *schedule.Date,
	scheduledTime *schedule.TimeOfDay,
	customerName, customerPhone, notes string,
	expiresAt time.Time,
	confirmedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		technicianID:  technicianID,
		customerID:    customerID,
		orderID:       orderID,
		token:         linkToken,
		status:        status,
		scheduledDate: scheduledDate,
		scheduledTime: scheduledTime,
		customerName:  customerName,
		customerPhone: customerPhone,
		notes:         notes,
		expiresAt:     expiresAt,
		confirmedAt:   confirmedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (b *Booking) HasExpired(now time.Time) bool {
	return now.After(b.expiresAt)
}

// CanConfirm reports whether the link can still be resolved. Failure
// conditions follow the order the public flow reports them: expiry first,
// then the resolved states.
func (b *Booking) CanConfirm(now time.Time) error {
	if b.HasExpired(now) {
		return ErrLinkExpired
	}
	switch b.status {
	case StatusConfirmed:
		return ErrAlreadyConfirmed
	case StatusCanceled:
		return ErrCanceled
	}
	return nil
}

// Confirm applies the pending→confirmed transition. Customer fields
// submitted at confirm time overwrite prefilled ones only when non-empty.
func (b *Booking) Confirm(now time.Time, date schedule.Date, at schedule.TimeOfDay, customerName, customerPhone string) error {
	if err := b.CanConfirm(now); err != nil {
		return err
	}

	b.scheduledDate = &date
	b.scheduledTime = &at
	if customerName != "" {
		b.customerName = customerName
	}
	if customerPhone != "" {
		b.customerPhone = customerPhone
	}
	b.status = StatusConfirmed
	confirmedAt := now
	b.confirmedAt = &confirmedAt
	return nil
}

// Cancel moves a pending booking to canceled. Confirmed bookings are
// terminal and cannot be canceled through this path.
func (b *Booking) Cancel() error {
	switch b.status {
	case StatusConfirmed:
		return ErrAlreadyConfirmed
	case StatusCanceled:
		return ErrCanceled
	}
	b.status = StatusCanceled
	return nil
}

func (b *Booking) IsPending() bool { return b.status == StatusPending }

func (b *Booking) ID() uuid.UUID                      { return b.id }
func (b *Booking) TechnicianID() uuid.UUID            { return b.technicianID }
func (b *Booking) CustomerID() *uuid.UUID             { return b.customerID }
func (b *Booking) OrderID() *uuid.UUID                { return b.orderID }
func (b *Booking) Token() string                      { return b.token }
func (b *Booking) Status() Status                     { return b.status }
func (b *Booking) ScheduledDate() *schedule.Date      { return b.scheduledDate }
func (b *Booking) ScheduledTime() *schedule.TimeOfDay { return b.scheduledTime }
func (b *Booking) CustomerName() string               { return b.customerName }
func (b *Booking) CustomerPhone() string              { return b.customerPhone }
func (b *Booking) Notes() string                      { return b.notes }
func (b *Booking) ExpiresAt() time.Time               { return b.expiresAt }
func (b *Booking) ConfirmedAt() *time.Time            { return b.confirmedAt }
func (b *Booking) CreatedAt() time.Time               { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time               { return b.updatedAt }
