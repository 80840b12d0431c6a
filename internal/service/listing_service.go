package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/staynest/booking-service/internal/adapter/storage"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
)

type CreateListingParams struct {
	Title        string
	Description  string
	Price        float64
	RentType     entity.RentType
	PropertyType string
	Country      string
	City         string
	District     string
	Bedrooms     int
	Bathrooms    int
	Guests       int
	Area         *float64
	Amenities    []string
	Latitude     *float64
	Longitude    *float64
}

type SearchListingsParams struct {
	MinPrice  *float64
	MaxPrice  *float64
	RentType  entity.RentType
	Amenities []string
	Sort      string
}

type SetCalendarDayParams struct {
	Date      time.Time
	Price     *float64
	IsBlocked bool
}

// ListingCache is the read-through cache for listing details, implemented
// by the Redis adapter.
type ListingCache interface {
	GetListing(ctx context.Context, listingID string) (*entity.Listing, error)
	SetListing(ctx context.Context, listing *entity.Listing) error
	DeleteListing(ctx context.Context, listingID string) error
}

type ListingService interface {
	Create(ctx context.Context, authorID string, params CreateListingParams) (*entity.Listing, error)
	GetByID(ctx context.Context, listingID string) (*entity.Listing, error)
	// Update applies the given fields if the actor owns the listing.
	Update(ctx context.Context, listingID, actorID string, fields map[string]interface{}) (*entity.Listing, error)
	Delete(ctx context.Context, listingID, actorID string, isAdmin bool) error
	// Search returns approved listings from non-banned authors.
	Search(ctx context.Context, params SearchListingsParams) ([]entity.Listing, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entity.Listing, error)
	UploadPhoto(ctx context.Context, listingID, actorID, fileName string, data []byte) (string, error)
	SetCalendarDay(ctx context.Context, listingID, actorID string, params SetCalendarDayParams) (*entity.CalendarDay, error)
	GetCalendar(ctx context.Context, listingID string) ([]entity.CalendarDay, error)
	// Discounts groups upcoming calendar days priced below their listing's
	// base price.
	Discounts(ctx context.Context) ([]entity.Discount, error)
}

type listingService struct {
	listingRepo  repository.ListingRepository
	bookingRepo  repository.BookingRepository
	calendarRepo repository.CalendarRepository
	favoriteRepo repository.FavoriteRepository
	messageRepo  repository.MessageRepository
	userRepo     repository.UserRepository
	cache        ListingCache
	photoStorage storage.PhotoStorage
	log          logger.Logger
}

func NewListingService(
	listingRepo repository.ListingRepository,
	bookingRepo repository.BookingRepository,
	calendarRepo repository.CalendarRepository,
	favoriteRepo repository.FavoriteRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	cache ListingCache,
	photoStorage storage.PhotoStorage,
	log logger.Logger,
) ListingService {
	return &listingService{
		listingRepo:  listingRepo,
		bookingRepo:  bookingRepo,
		calendarRepo: calendarRepo,
		favoriteRepo: favoriteRepo,
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		cache:        cache,
		photoStorage: photoStorage,
		log:          log,
	}
}

func (s *listingService) Create(ctx context.Context, authorID string, params CreateListingParams) (*entity.Listing, error) {
	listing, err := entity.NewListing(authorID, params.Title, params.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	listing.Description = params.Description
	if params.RentType != "" {
		listing.RentType = params.RentType
	}
	if params.PropertyType != "" {
		listing.PropertyType = params.PropertyType
	}
	listing.Country = params.Country
	listing.City = params.City
	listing.District = params.District
	if params.Bedrooms > 0 {
		listing.Bedrooms = params.Bedrooms
	}
	if params.Bathrooms > 0 {
		listing.Bathrooms = params.Bathrooms
	}
	if params.Guests > 0 {
		listing.Guests = params.Guests
	}
	listing.Area = params.Area
	if params.Amenities != nil {
		listing.Amenities = params.Amenities
	}
	listing.Latitude = params.Latitude
	listing.Longitude = params.Longitude

	listingID, err := s.listingRepo.Create(ctx, listing)
	if err != nil {
		s.log.Errorf("Failed to create listing for author %s: %v", authorID, err)
		return nil, err
	}
	listing.ID = listingID

	s.log.Infof("Listing %s created by author %s", listingID, authorID)
	return listing, nil
}

func (s *listingService) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	if cached, err := s.cache.GetListing(ctx, listingID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.Warnf("Listing cache read failed for %s: %v", listingID, err)
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetListing(ctx, listing); err != nil {
		s.log.Warnf("Listing cache write failed for %s: %v", listingID, err)
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, listingID, actorID string, fields map[string]interface{}) (*entity.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.AuthorID != actorID {
		return nil, entity.ErrForbidden
	}

	updated, err := s.listingRepo.Update(ctx, repository.UpdateListingParams{
		ListingID: listingID,
		Fields:    fields,
		Version:   listing.Version,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return nil, entity.ErrConflict
		}
		s.log.Errorf("Failed to update listing %s: %v", listingID, err)
		return nil, err
	}

	if err := s.cache.DeleteListing(ctx, listingID); err != nil {
		s.log.Warnf("Listing cache invalidation failed for %s: %v", listingID, err)
	}
	return updated, nil
}

func (s *listingService) Delete(ctx context.Context, listingID, actorID string, isAdmin bool) error {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if !isAdmin && listing.AuthorID != actorID {
		return entity.ErrForbidden
	}

	if err := s.listingRepo.Delete(ctx, listingID); err != nil {
		s.log.Errorf("Failed to delete listing %s: %v", listingID, err)
		return err
	}

	// Related records are cleaned up best-effort; the listing itself is gone.
	if err := s.bookingRepo.DeleteByListing(ctx, listingID); err != nil {
		s.log.Warnf("Failed to delete bookings for listing %s: %v", listingID, err)
	}
	if err := s.favoriteRepo.DeleteByListing(ctx, listingID); err != nil {
		s.log.Warnf("Failed to delete favorites for listing %s: %v", listingID, err)
	}
	if err := s.messageRepo.DeleteByListing(ctx, listingID); err != nil {
		s.log.Warnf("Failed to delete messages for listing %s: %v", listingID, err)
	}
	if err := s.calendarRepo.DeleteByListing(ctx, listingID); err != nil {
		s.log.Warnf("Failed to delete calendar days for listing %s: %v", listingID, err)
	}
	if err := s.cache.DeleteListing(ctx, listingID); err != nil {
		s.log.Warnf("Listing cache invalidation failed for %s: %v", listingID, err)
	}

	s.log.Infof("Listing %s deleted by %s", listingID, actorID)
	return nil
}

func (s *listingService) Search(ctx context.Context, params SearchListingsParams) ([]entity.Listing, error) {
	bannedIDs, err := s.userRepo.BannedIDs(ctx)
	if err != nil {
		s.log.Errorf("Failed to resolve banned authors: %v", err)
		return nil, err
	}

	return s.listingRepo.List(ctx, repository.ListListingsParams{
		Status:            entity.ListingStatusApproved,
		MinPrice:          params.MinPrice,
		MaxPrice:          params.MaxPrice,
		RentType:          params.RentType,
		Amenities:         params.Amenities,
		Sort:              params.Sort,
		ExcludedAuthorIDs: bannedIDs,
	})
}

func (s *listingService) ListByAuthor(ctx context.Context, authorID string) ([]entity.Listing, error) {
	return s.listingRepo.List(ctx, repository.ListListingsParams{AuthorID: authorID})
}

func (s *listingService) UploadPhoto(ctx context.Context, listingID, actorID, fileName string, data []byte) (string, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.AuthorID != actorID {
		return "", entity.ErrForbidden
	}
	if len(data) == 0 {
		return "", entity.ErrInvalidInput
	}

	url, err := s.photoStorage.Upload(ctx, fileName, data)
	if err != nil {
		s.log.Errorf("Failed to upload photo for listing %s: %v", listingID, err)
		return "", err
	}

	_, err = s.listingRepo.Update(ctx, repository.UpdateListingParams{
		ListingID: listingID,
		Fields:    map[string]interface{}{"image_urls": append(listing.ImageURLs, url)},
		Version:   listing.Version,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			return "", entity.ErrConflict
		}
		return "", err
	}

	if err := s.cache.DeleteListing(ctx, listingID); err != nil {
		s.log.Warnf("Listing cache invalidation failed for %s: %v", listingID, err)
	}
	return url, nil
}

func (s *listingService) SetCalendarDay(ctx context.Context, listingID, actorID string, params SetCalendarDayParams) (*entity.CalendarDay, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.AuthorID != actorID {
		return nil, entity.ErrForbidden
	}
	if params.Price != nil && *params.Price < 0 {
		return nil, entity.ErrInvalidInput
	}

	return s.calendarRepo.Upsert(ctx, repository.UpsertCalendarDayParams{
		ListingID: listingID,
		Date:      params.Date,
		Price:     params.Price,
		IsBlocked: params.IsBlocked,
	})
}

func (s *listingService) GetCalendar(ctx context.Context, listingID string) ([]entity.CalendarDay, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.calendarRepo.ListByListing(ctx, listingID)
}

func (s *listingService) Discounts(ctx context.Context) ([]entity.Discount, error) {
	days, err := s.calendarRepo.ListPricedFrom(ctx, time.Now().UTC())
	if err != nil {
		s.log.Errorf("Failed to list priced calendar days: %v", err)
		return nil, err
	}

	type group struct {
		listing *entity.Listing
		price   float64
		dates   []time.Time
	}
	groups := map[string]*group{}
	listings := map[string]*entity.Listing{}

	for _, day := range days {
		if day.Price == nil {
			continue
		}
		listing, ok := listings[day.ListingID]
		if !ok {
			listing, err = s.listingRepo.GetByID(ctx, day.ListingID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return nil, err
			}
			listings[day.ListingID] = listing
		}
		if *day.Price >= listing.Price || listing.Status != entity.ListingStatusApproved {
			continue
		}

		key := day.ListingID
		g, ok := groups[key]
		if !ok {
			g = &group{listing: listing, price: *day.Price}
			groups[key] = g
		}
		if *day.Price < g.price {
			g.price = *day.Price
		}
		g.dates = append(g.dates, day.Date)
	}

	discounts := make([]entity.Discount, 0, len(groups))
	for _, g := range groups {
		discounts = append(discounts, entity.Discount{
			Listing: g.listing,
			Price:   g.price,
			Dates:   g.dates,
		})
	}
	sort.Slice(discounts, func(i, j int) bool {
		return discounts[i].Listing.ID < discounts[j].Listing.ID
	})
	return discounts, nil
}
