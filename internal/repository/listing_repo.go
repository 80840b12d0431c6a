package repository

import (
	"context"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type ListListingsParams struct {
	Status    entity.ListingStatus
	AuthorID  string
	MinPrice  *float64
	MaxPrice  *float64
	RentType  entity.RentType
	Amenities []string
	Sort      string // "price_asc", "price_desc", default newest first
	// ExcludedAuthorIDs drops listings from these authors (banned accounts).
	ExcludedAuthorIDs []string
}

type UpdateListingParams struct {
	ListingID string
	Fields    map[string]interface{}
	Version   int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	Update(ctx context.Context, params UpdateListingParams) (*entity.Listing, error)
	SetStatus(ctx context.Context, listingID string, status entity.ListingStatus) (*entity.Listing, error)
	Delete(ctx context.Context, listingID string) error
	List(ctx context.Context, params ListListingsParams) ([]entity.Listing, error)
	IDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}
