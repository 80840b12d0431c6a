package repository

import (
	"context"
	"time"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type UpsertCalendarDayParams struct {
	ListingID string
	Date      time.Time
	Price     *float64
	IsBlocked bool
}

type CalendarRepository interface {
	Upsert(ctx context.Context, params UpsertCalendarDayParams) (*entity.CalendarDay, error)
	ListByListing(ctx context.Context, listingID string) ([]entity.CalendarDay, error)
	// ListPricedFrom returns unblocked days with an explicit price on or after
	// the given date, earliest first.
	ListPricedFrom(ctx context.Context, from time.Time) ([]entity.CalendarDay, error)
	DeleteByListing(ctx context.Context, listingID string) error
}
