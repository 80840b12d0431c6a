package repository

import (
	"context"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type ReviewRepository interface {
	// Create inserts the review; a duplicate (user, listing) pair yields
	// ErrAlreadyExists.
	Create(ctx context.Context, review *entity.Review) (string, error)
	ExistsByUserAndListing(ctx context.Context, userID, listingID string) (bool, error)
	ListByListing(ctx context.Context, listingID string) ([]entity.Review, error)
	// AverageRating returns the mean rating and review count for a listing;
	// zero values when there are no reviews.
	AverageRating(ctx context.Context, listingID string) (float64, int64, error)
}

type FavoriteRepository interface {
	// Toggle adds the pair if absent and removes it if present; it reports
	// whether the listing is a favorite after the call.
	Toggle(ctx context.Context, userID, listingID string) (bool, error)
	ListingIDsByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByListing(ctx context.Context, listingID string) error
	DeleteByUser(ctx context.Context, userID string) error
}
