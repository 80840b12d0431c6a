package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/staynest/booking-service/internal/adapter/nats"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/platform/metrics"
	"github.com/staynest/booking-service/internal/repository"
)

const (
	natsSubjectBookingCreated       = "booking.created"
	natsSubjectBookingStatusUpdated = "booking.status.updated"
)

type CreateBookingParams struct {
	ListingID string
	RenterID  string
	StartDate time.Time
	EndDate   time.Time
}

type BookingService interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*entity.Booking, error)
	// RequestTransition moves a booking to the requested status on behalf of
	// the actor, enforcing the role-scoped transition rules and notifying the
	// counterparty on success.
	RequestTransition(ctx context.Context, bookingID, actorID string, requested entity.BookingStatus) (*entity.Booking, error)
	GetByID(ctx context.Context, bookingID, actorID string, isAdmin bool) (*entity.Booking, error)
	ListForRenter(ctx context.Context, renterID string) ([]entity.Booking, error)
	ListForOwner(ctx context.Context, ownerID string) ([]entity.Booking, error)
	// ListActiveForListing returns the bookings that block the listing's dates.
	ListActiveForListing(ctx context.Context, listingID string) ([]entity.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	listingRepo  repository.ListingRepository
	calendarRepo repository.CalendarRepository
	notifier     Notifier
	msgPublisher nats.MessagePublisher
	metrics      *metrics.Manager
	log          logger.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	listingRepo repository.ListingRepository,
	calendarRepo repository.CalendarRepository,
	notifier Notifier,
	msgPublisher nats.MessagePublisher,
	metricsManager *metrics.Manager,
	log logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		listingRepo:  listingRepo,
		calendarRepo: calendarRepo,
		notifier:     notifier,
		msgPublisher: msgPublisher,
		metrics:      metricsManager,
		log:          log,
	}
}

// statusNotificationText maps an accepted target status to the phrase sent
// to the counterparty.
func statusNotificationText(status entity.BookingStatus) string {
	switch status {
	case entity.BookingStatusAwaitingPayment:
		return "approved, awaiting payment"
	case entity.BookingStatusRejected:
		return "rejected"
	case entity.BookingStatusConfirmed:
		return "paid and confirmed"
	case entity.BookingStatusCancelled:
		return "cancelled"
	default:
		return "updated"
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (*entity.Booking, error) {
	s.log.Infof("Creating booking for listing %s by renter %s", params.ListingID, params.RenterID)

	listing, err := s.listingRepo.GetByID(ctx, params.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", params.ListingID, repository.ErrNotFound)
		}
		s.log.Errorf("Failed to get listing %s for booking: %v", params.ListingID, err)
		return nil, err
	}
	if listing.AuthorID == params.RenterID {
		return nil, entity.ErrSelfAction
	}
	if listing.Status != entity.ListingStatusApproved {
		return nil, entity.ErrInvalidInput
	}

	totalPrice, err := s.quote(ctx, listing, params.StartDate, params.EndDate)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.bookingRepo.List(ctx, repository.ListBookingsParams{
		ListingID: params.ListingID,
		Statuses:  entity.ActiveBookingStatuses,
	})
	if err != nil {
		s.log.Errorf("Failed to check active bookings for listing %s: %v", params.ListingID, err)
		return nil, err
	}
	for _, other := range overlapping {
		if params.StartDate.Before(other.EndDate) && other.StartDate.Before(params.EndDate) {
			return nil, entity.ErrConflict
		}
	}

	booking, err := entity.NewBooking(params.ListingID, params.RenterID, params.StartDate, params.EndDate, totalPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	bookingID, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		s.log.Errorf("Failed to save booking for renter %s: %v", params.RenterID, err)
		return nil, err
	}
	booking.ID = bookingID
	s.metrics.BookingsCreatedTotal.Inc()

	s.notifier.Notify(listing.AuthorID,
		fmt.Sprintf("New booking request for \"%s\".", listing.Title),
		entity.CategoryBooking)

	if err := s.msgPublisher.Publish(ctx, natsSubjectBookingCreated, booking); err != nil {
		s.log.Warnf("Failed to publish booking created event for booking %s: %v", bookingID, err)
	}

	s.log.Infof("Booking %s created for listing %s", bookingID, params.ListingID)
	return booking, nil
}

// quote prices the stay from the listing's base price with per-day
// calendar overrides; a blocked day rejects the request.
func (s *bookingService) quote(ctx context.Context, listing *entity.Listing, startDate, endDate time.Time) (float64, error) {
	if !endDate.After(startDate) {
		return 0, entity.ErrInvalidInput
	}

	if listing.RentType == entity.RentTypeMonthly {
		days := endDate.Sub(startDate).Hours() / 24
		months := int(days) / 30
		if int(days)%30 != 0 {
			months++
		}
		return listing.Price * float64(months), nil
	}

	days, err := s.calendarRepo.ListByListing(ctx, listing.ID)
	if err != nil {
		s.log.Errorf("Failed to load calendar for listing %s: %v", listing.ID, err)
		return 0, err
	}
	overrides := make(map[string]entity.CalendarDay, len(days))
	for _, day := range days {
		overrides[day.Date.UTC().Format("2006-01-02")] = day
	}

	var total float64
	for day := startDate.UTC().Truncate(24 * time.Hour); day.Before(endDate.UTC().Truncate(24 * time.Hour)); day = day.AddDate(0, 0, 1) {
		price := listing.Price
		if override, ok := overrides[day.Format("2006-01-02")]; ok {
			if override.IsBlocked {
				return 0, entity.ErrConflict
			}
			if override.Price != nil {
				price = *override.Price
			}
		}
		total += price
	}
	return total, nil
}

func (s *bookingService) RequestTransition(ctx context.Context, bookingID, actorID string, requested entity.BookingStatus) (*entity.Booking, error) {
	s.log.Infof("Actor %s requesting transition of booking %s to %s", actorID, bookingID, requested)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Errorf("Failed to get booking %s: %v", bookingID, err)
		}
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		s.log.Errorf("Failed to get listing %s for booking %s: %v", booking.ListingID, bookingID, err)
		return nil, err
	}

	// Owner takes precedence when the actor matches both sides.
	var role entity.ActorRole
	switch {
	case actorID == listing.AuthorID:
		role = entity.RoleOwner
	case actorID == booking.RenterID:
		role = entity.RoleRenter
	default:
		s.log.Warnf("Actor %s has no role on booking %s", actorID, bookingID)
		return nil, entity.ErrForbidden
	}

	if err := booking.CheckTransition(role, requested); err != nil {
		s.log.Warnf("Transition of booking %s to %s denied for %s %s: %v", bookingID, requested, role, actorID, err)
		return nil, err
	}

	previousVersion := booking.Version
	booking.SetStatus(requested)

	err = s.bookingRepo.UpdateStatus(ctx, repository.UpdateBookingStatusParams{
		BookingID: bookingID,
		Status:    requested,
		Version:   previousVersion,
	})
	if err != nil {
		if errors.Is(err, repository.ErrOptimisticLock) {
			s.log.Warnf("Booking %s was modified concurrently, transition to %s lost the race", bookingID, requested)
			return nil, entity.ErrConflict
		}
		s.log.Errorf("Failed to save status %s for booking %s: %v", requested, bookingID, err)
		return nil, err
	}
	s.metrics.BookingTransitionsTotal.WithLabelValues(string(requested)).Inc()

	counterparty := booking.RenterID
	if role == entity.RoleRenter {
		counterparty = listing.AuthorID
	}
	s.notifier.Notify(counterparty,
		fmt.Sprintf("Booking for \"%s\" was %s.", listing.Title, statusNotificationText(requested)),
		entity.CategoryBooking)

	if err := s.msgPublisher.Publish(ctx, natsSubjectBookingStatusUpdated, booking); err != nil {
		s.log.Warnf("Failed to publish booking status updated event for booking %s: %v", bookingID, err)
	}

	s.log.Infof("Booking %s transitioned to %s by %s %s", bookingID, requested, role, actorID)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID, actorID string, isAdmin bool) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if isAdmin || booking.RenterID == actorID {
		return booking, nil
	}
	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.AuthorID != actorID {
		return nil, entity.ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) ListForRenter(ctx context.Context, renterID string) ([]entity.Booking, error) {
	return s.bookingRepo.List(ctx, repository.ListBookingsParams{RenterID: renterID})
}

func (s *bookingService) ListActiveForListing(ctx context.Context, listingID string) ([]entity.Booking, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.bookingRepo.List(ctx, repository.ListBookingsParams{
		ListingID: listingID,
		Statuses:  entity.ActiveBookingStatuses,
	})
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID string) ([]entity.Booking, error) {
	listingIDs, err := s.listingRepo.IDsByAuthor(ctx, ownerID)
	if err != nil {
		s.log.Errorf("Failed to resolve listings for owner %s: %v", ownerID, err)
		return nil, err
	}
	if len(listingIDs) == 0 {
		return []entity.Booking{}, nil
	}
	return s.bookingRepo.List(ctx, repository.ListBookingsParams{ListingIDs: listingIDs})
}
