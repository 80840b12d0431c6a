package repository

import (
	"context"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type UpdateBookingStatusParams struct {
	BookingID string
	Status    entity.BookingStatus
	Version   int
}

type ListBookingsParams struct {
	RenterID   string
	ListingID  string
	ListingIDs []string
	Statuses   []entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) (string, error)
	GetByID(ctx context.Context, bookingID string) (*entity.Booking, error)
	// UpdateStatus applies a version-conditioned status update. A vanished
	// record yields ErrNotFound, a version mismatch ErrOptimisticLock.
	UpdateStatus(ctx context.Context, params UpdateBookingStatusParams) error
	List(ctx context.Context, params ListBookingsParams) ([]entity.Booking, error)
	// HasConfirmed reports whether the renter has a CONFIRMED booking on the listing.
	HasConfirmed(ctx context.Context, listingID, renterID string) (bool, error)
	DeleteByListing(ctx context.Context, listingID string) error
	DeleteByRenter(ctx context.Context, renterID string) error
	// ConfirmedTotals returns every confirmed booking's price and creation time
	// for revenue aggregation.
	ConfirmedTotals(ctx context.Context) ([]entity.Booking, error)
}
