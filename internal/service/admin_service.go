package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
)

// PlatformStats is the admin dashboard aggregate.
type PlatformStats struct {
	Users          int64
	Listings       int64
	Revenue        float64
	RevenueByMonth map[string]float64
	PendingReports int64
}

type AdminService interface {
	Stats(ctx context.Context) (*PlatformStats, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	ListBookings(ctx context.Context) ([]entity.Booking, error)
	ListListings(ctx context.Context) ([]entity.Listing, error)
	SetBanned(ctx context.Context, adminID, userID string, banned bool) (*entity.User, error)
	UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*entity.User, error)
	DeleteUser(ctx context.Context, adminID, userID string) error
	UpdateListing(ctx context.Context, listingID string, fields map[string]interface{}) (*entity.Listing, error)
	// ModerateListing sets a listing's moderation status and notifies the author.
	ModerateListing(ctx context.Context, listingID string, status entity.ListingStatus) (*entity.Listing, error)
	CreateReport(ctx context.Context, reporterID, listingID, userID, reason, details string) (*entity.Report, error)
	ListReports(ctx context.Context) ([]entity.Report, error)
	ResolveReport(ctx context.Context, reportID string) (*entity.Report, error)
}

type adminService struct {
	userRepo     repository.UserRepository
	listingRepo  repository.ListingRepository
	bookingRepo  repository.BookingRepository
	reportRepo   repository.ReportRepository
	favoriteRepo repository.FavoriteRepository
	notifier     Notifier
	log          logger.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	bookingRepo repository.BookingRepository,
	reportRepo repository.ReportRepository,
	favoriteRepo repository.FavoriteRepository,
	notifier Notifier,
	log logger.Logger,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		listingRepo:  listingRepo,
		bookingRepo:  bookingRepo,
		reportRepo:   reportRepo,
		favoriteRepo: favoriteRepo,
		notifier:     notifier,
		log:          log,
	}
}

func (s *adminService) Stats(ctx context.Context) (*PlatformStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := s.listingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.bookingRepo.ConfirmedTotals(ctx)
	if err != nil {
		return nil, err
	}
	pendingReports, err := s.reportRepo.CountByStatus(ctx, entity.ReportStatusPending)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		Users:          users,
		Listings:       listings,
		RevenueByMonth: map[string]float64{},
		PendingReports: pendingReports,
	}
	for _, booking := range confirmed {
		stats.Revenue += booking.TotalPrice
		stats.RevenueByMonth[booking.CreatedAt.UTC().Format("2006-01")] += booking.TotalPrice
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.List(ctx)
}

func (s *adminService) ListBookings(ctx context.Context) ([]entity.Booking, error) {
	return s.bookingRepo.List(ctx, repository.ListBookingsParams{})
}

func (s *adminService) ListListings(ctx context.Context) ([]entity.Listing, error) {
	return s.listingRepo.List(ctx, repository.ListListingsParams{})
}

func (s *adminService) SetBanned(ctx context.Context, adminID, userID string, banned bool) (*entity.User, error) {
	if adminID == userID {
		return nil, entity.ErrSelfAction
	}

	user, err := s.userRepo.Update(ctx, repository.UpdateUserParams{
		UserID: userID,
		Fields: map[string]interface{}{"is_banned": banned},
	})
	if err != nil {
		s.log.Errorf("Failed to set banned=%t for user %s: %v", banned, userID, err)
		return nil, err
	}

	if banned {
		s.log.Infof("Admin %s banned user %s", adminID, userID)
	} else {
		s.log.Infof("Admin %s unbanned user %s", adminID, userID)
		s.notifier.Notify(userID, "Your account has been restored.", entity.CategorySystem)
	}
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*entity.User, error) {
	if len(fields) == 0 {
		return nil, entity.ErrInvalidInput
	}
	return s.userRepo.Update(ctx, repository.UpdateUserParams{UserID: userID, Fields: fields})
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return entity.ErrSelfAction
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.log.Errorf("Failed to delete user %s: %v", userID, err)
		return err
	}

	if err := s.bookingRepo.DeleteByRenter(ctx, userID); err != nil {
		s.log.Warnf("Failed to delete bookings of user %s: %v", userID, err)
	}
	if err := s.favoriteRepo.DeleteByUser(ctx, userID); err != nil {
		s.log.Warnf("Failed to delete favorites of user %s: %v", userID, err)
	}
	if err := s.reportRepo.DeleteByUser(ctx, userID); err != nil {
		s.log.Warnf("Failed to delete reports of user %s: %v", userID, err)
	}

	s.log.Infof("Admin %s deleted user %s", adminID, userID)
	return nil
}

func (s *adminService) ModerateListing(ctx context.Context, listingID string, status entity.ListingStatus) (*entity.Listing, error) {
	if !status.IsValid() {
		return nil, entity.ErrInvalidStatus
	}

	listing, err := s.listingRepo.SetStatus(ctx, listingID, status)
	if err != nil {
		s.log.Errorf("Failed to set listing %s status to %s: %v", listingID, status, err)
		return nil, err
	}

	var text string
	switch status {
	case entity.ListingStatusApproved:
		text = fmt.Sprintf("Your listing \"%s\" was approved.", listing.Title)
	case entity.ListingStatusRejected:
		text = fmt.Sprintf("Your listing \"%s\" was rejected by moderation.", listing.Title)
	default:
		text = fmt.Sprintf("Your listing \"%s\" is pending moderation.", listing.Title)
	}
	s.notifier.Notify(listing.AuthorID, text, entity.CategorySystem)

	return listing, nil
}

func (s *adminService) UpdateListing(ctx context.Context, listingID string, fields map[string]interface{}) (*entity.Listing, error) {
	if len(fields) == 0 {
		return nil, entity.ErrInvalidInput
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
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
	return updated, nil
}

func (s *adminService) CreateReport(ctx context.Context, reporterID, listingID, userID, reason, details string) (*entity.Report, error) {
	if listingID != "" {
		if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
			return nil, err
		}
	}
	if userID != "" {
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			return nil, err
		}
	}

	report, err := entity.NewReport(reporterID, listingID, userID, reason, details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	reportID, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		s.log.Errorf("Failed to create report by user %s: %v", reporterID, err)
		return nil, err
	}
	report.ID = reportID

	s.log.Infof("Report %s filed by user %s", reportID, reporterID)
	return report, nil
}

func (s *adminService) ListReports(ctx context.Context) ([]entity.Report, error) {
	return s.reportRepo.List(ctx)
}

func (s *adminService) ResolveReport(ctx context.Context, reportID string) (*entity.Report, error) {
	report, err := s.reportRepo.SetStatus(ctx, reportID, entity.ReportStatusResolved)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(report.ReporterID, "Your report has been reviewed.", entity.CategorySystem)
	return report, nil
}
