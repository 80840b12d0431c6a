package entity

import (
	"errors"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "PENDING"
	BookingStatusAwaitingPayment BookingStatus = "AWAITING_PAYMENT"
	BookingStatusConfirmed       BookingStatus = "CONFIRMED"
	BookingStatusRejected        BookingStatus = "REJECTED"
	BookingStatusCancelled       BookingStatus = "CANCELLED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAwaitingPayment, BookingStatusConfirmed,
		BookingStatusRejected, BookingStatusCancelled:
		return true
	}
	return false
}

// ActiveBookingStatuses are the statuses that block a listing's dates.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAwaitingPayment,
	BookingStatusConfirmed,
}

// ActorRole is the actor's relation to a booking, resolved at decision time.
type ActorRole string

const (
	RoleOwner  ActorRole = "OWNER"
	RoleRenter ActorRole = "RENTER"
)

type Booking struct {
	ID         string        `bson:"_id,omitempty"`
	ListingID  string        `bson:"listing_id"`
	RenterID   string        `bson:"renter_id"`
	StartDate  time.Time     `bson:"start_date"`
	EndDate    time.Time     `bson:"end_date"`
	TotalPrice float64       `bson:"total_price"`
	Status     BookingStatus `bson:"status"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
	Version    int           `bson:"version"`
}

func NewBooking(listingID, renterID string, startDate, endDate time.Time, totalPrice float64) (*Booking, error) {
	if listingID == "" {
		return nil, errors.New("listing ID cannot be empty")
	}
	if renterID == "" {
		return nil, errors.New("renter ID cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, errors.New("end date must be after start date")
	}
	if totalPrice < 0 {
		return nil, errors.New("total price cannot be negative")
	}
	now := time.Now().UTC()
	return &Booking{
		ListingID:  listingID,
		RenterID:   renterID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalPrice: totalPrice,
		Status:     BookingStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}, nil
}

// ownerStatuses are the statuses an owner may set, from any current status.
// There is intentionally no precondition on the current status: an owner can
// pull a rejected booking back to AWAITING_PAYMENT. Kept as observed product
// behavior, not tightened here.
var ownerStatuses = map[BookingStatus]bool{
	BookingStatusAwaitingPayment: true,
	BookingStatusRejected:        true,
	BookingStatusCancelled:       true,
}

// CheckTransition validates the requested status against the role-scoped
// transition rules without mutating the booking.
//
// Owner: AWAITING_PAYMENT, REJECTED, CANCELLED — always legal.
// Renter: CONFIRMED — only while AWAITING_PAYMENT; CANCELLED — always legal.
func (b *Booking) CheckTransition(role ActorRole, requested BookingStatus) error {
	if !requested.IsValid() {
		return ErrInvalidStatus
	}
	switch role {
	case RoleOwner:
		if !ownerStatuses[requested] {
			return ErrInvalidTransition
		}
		return nil
	case RoleRenter:
		switch requested {
		case BookingStatusConfirmed:
			if b.Status != BookingStatusAwaitingPayment {
				return ErrPreconditionFailed
			}
			return nil
		case BookingStatusCancelled:
			return nil
		default:
			return ErrInvalidTransition
		}
	}
	return ErrForbidden
}

// SetStatus applies an already-validated transition to the entity.
func (b *Booking) SetStatus(status BookingStatus) {
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}
