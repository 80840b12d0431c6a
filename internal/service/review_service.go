package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
)

type ListingRating struct {
	Average float64
	Count   int64
}

type ReviewService interface {
	// Create accepts a review only from a renter with a CONFIRMED booking on
	// the listing, once per (user, listing) pair.
	Create(ctx context.Context, userID, listingID string, rating int, comment string, photoURLs []string) (*entity.Review, error)
	ListByListing(ctx context.Context, listingID string) ([]entity.Review, error)
	Rating(ctx context.Context, listingID string) (*ListingRating, error)
}

type FavoriteService interface {
	// Toggle flips the favorite flag and reports the resulting state.
	Toggle(ctx context.Context, userID, listingID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]entity.Listing, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	notifier    Notifier
	log         logger.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	notifier Notifier,
	log logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		log:         log,
	}
}

func (s *reviewService) Create(ctx context.Context, userID, listingID string, rating int, comment string, photoURLs []string) (*entity.Review, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.bookingRepo.HasConfirmed(ctx, listingID, userID)
	if err != nil {
		s.log.Errorf("Failed to check confirmed booking for user %s on listing %s: %v", userID, listingID, err)
		return nil, err
	}
	if !confirmed {
		return nil, entity.ErrReviewNotAllowed
	}

	reviewed, err := s.reviewRepo.ExistsByUserAndListing(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, entity.ErrAlreadyReviewed
	}

	review, err := entity.NewReview(userID, listingID, rating, comment, photoURLs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	reviewID, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, entity.ErrAlreadyReviewed
		}
		s.log.Errorf("Failed to save review for listing %s by user %s: %v", listingID, userID, err)
		return nil, err
	}
	review.ID = reviewID

	s.notifier.Notify(listing.AuthorID,
		fmt.Sprintf("New review on \"%s\".", listing.Title),
		entity.CategorySystem)

	s.log.Infof("Review %s created for listing %s by user %s", reviewID, listingID, userID)
	return review, nil
}

func (s *reviewService) ListByListing(ctx context.Context, listingID string) ([]entity.Review, error) {
	return s.reviewRepo.ListByListing(ctx, listingID)
}

func (s *reviewService) Rating(ctx context.Context, listingID string) (*ListingRating, error) {
	average, count, err := s.reviewRepo.AverageRating(ctx, listingID)
	if err != nil {
		return nil, err
	}
	return &ListingRating{Average: average, Count: count}, nil
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	listingRepo  repository.ListingRepository
	log          logger.Logger
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	listingRepo repository.ListingRepository,
	log logger.Logger,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		listingRepo:  listingRepo,
		log:          log,
	}
}

func (s *favoriteService) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return false, err
	}
	return s.favoriteRepo.Toggle(ctx, userID, listingID)
}

func (s *favoriteService) ListForUser(ctx context.Context, userID string) ([]entity.Listing, error) {
	listingIDs, err := s.favoriteRepo.ListingIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	listings := make([]entity.Listing, 0, len(listingIDs))
	for _, listingID := range listingIDs {
		listing, err := s.listingRepo.GetByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, nil
}
