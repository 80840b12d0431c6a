package service

import (
	"context"
	"testing"
	"time"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type adminServiceMocks struct {
	userRepo     *MockUserRepository
	listingRepo  *MockListingRepository
	bookingRepo  *MockBookingRepository
	reportRepo   *MockReportRepository
	favoriteRepo *MockFavoriteRepository
	notifier     *recordingNotifier
}

func newAdminServiceForTest(t *testing.T) (AdminService, *adminServiceMocks) {
	t.Helper()
	m := &adminServiceMocks{
		userRepo:     new(MockUserRepository),
		listingRepo:  new(MockListingRepository),
		bookingRepo:  new(MockBookingRepository),
		reportRepo:   new(MockReportRepository),
		favoriteRepo: new(MockFavoriteRepository),
		notifier:     &recordingNotifier{},
	}
	svc := NewAdminService(m.userRepo, m.listingRepo, m.bookingRepo, m.reportRepo,
		m.favoriteRepo, m.notifier, NewNoOpLogger())
	return svc, m
}

func TestAdminService_Stats(t *testing.T) {
	svc, m := newAdminServiceForTest(t)
	ctx := context.Background()

	m.userRepo.On("Count", mock.Anything).Return(int64(10), nil).Once()
	m.listingRepo.On("Count", mock.Anything).Return(int64(4), nil).Once()
	m.bookingRepo.On("ConfirmedTotals", mock.Anything).Return([]entity.Booking{
		{TotalPrice: 300, CreatedAt: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)},
		{TotalPrice: 200, CreatedAt: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)},
		{TotalPrice: 500, CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}, nil).Once()
	m.reportRepo.On("CountByStatus", mock.Anything, entity.ReportStatusPending).Return(int64(2), nil).Once()

	stats, err := svc.Stats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.Users)
	assert.Equal(t, int64(4), stats.Listings)
	assert.Equal(t, 1000.0, stats.Revenue)
	assert.Equal(t, 500.0, stats.RevenueByMonth["2026-07"])
	assert.Equal(t, 500.0, stats.RevenueByMonth["2026-08"])
	assert.Equal(t, int64(2), stats.PendingReports)
}

func TestAdminService_SetBanned_Self(t *testing.T) {
	svc, m := newAdminServiceForTest(t)

	_, err := svc.SetBanned(context.Background(), "admin1", "admin1", true)

	assert.ErrorIs(t, err, entity.ErrSelfAction)
	m.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminService_SetBanned_UnbanNotifies(t *testing.T) {
	svc, m := newAdminServiceForTest(t)
	ctx := context.Background()

	m.userRepo.On("Update", mock.Anything, mock.Anything).Return(verifiedUser(t), nil).Twice()

	_, err := svc.SetBanned(ctx, "admin1", "user1", true)
	assert.NoError(t, err)
	assert.Empty(t, m.notifier.all())

	_, err = svc.SetBanned(ctx, "admin1", "user1", false)
	assert.NoError(t, err)

	sent := m.notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, "user1", sent[0].UserID)
	assert.Equal(t, "Your account has been restored.", sent[0].Content)
}

func TestAdminService_DeleteUser_Cascades(t *testing.T) {
	svc, m := newAdminServiceForTest(t)
	ctx := context.Background()

	m.userRepo.On("Delete", mock.Anything, "user1").Return(nil).Once()
	m.bookingRepo.On("DeleteByRenter", mock.Anything, "user1").Return(nil).Once()
	m.favoriteRepo.On("DeleteByUser", mock.Anything, "user1").Return(nil).Once()
	m.reportRepo.On("DeleteByUser", mock.Anything, "user1").Return(nil).Once()

	assert.NoError(t, svc.DeleteUser(ctx, "admin1", "user1"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "admin1", "admin1"), entity.ErrSelfAction)

	m.bookingRepo.AssertExpectations(t)
	m.favoriteRepo.AssertExpectations(t)
	m.reportRepo.AssertExpectations(t)
}

func TestAdminService_ModerateListing(t *testing.T) {
	svc, m := newAdminServiceForTest(t)
	ctx := context.Background()

	approved := testListing()
	m.listingRepo.On("SetStatus", mock.Anything, "listing1", entity.ListingStatusApproved).
		Return(approved, nil).Once()

	listing, err := svc.ModerateListing(ctx, "listing1", entity.ListingStatusApproved)

	assert.NoError(t, err)
	assert.Equal(t, entity.ListingStatusApproved, listing.Status)

	sent := m.notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, "owner1", sent[0].UserID)
	assert.Equal(t, `Your listing "Cozy flat" was approved.`, sent[0].Content)
}

func TestAdminService_ModerateListing_InvalidStatus(t *testing.T) {
	svc, m := newAdminServiceForTest(t)

	_, err := svc.ModerateListing(context.Background(), "listing1", entity.ListingStatus("LIVE"))

	assert.ErrorIs(t, err, entity.ErrInvalidStatus)
	m.listingRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_CreateReport_TargetMustExist(t *testing.T) {
	svc, m := newAdminServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()
	m.reportRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *entity.Report) bool {
		return r.ReporterID == "renter1" && r.Status == entity.ReportStatusPending
	})).Return("report1", nil).Once()

	report, err := svc.CreateReport(ctx, "renter1", "listing1", "", "spam", "fake listing")

	assert.NoError(t, err)
	assert.Equal(t, "report1", report.ID)

	_, err = svc.CreateReport(ctx, "renter1", "", "", "spam", "no target")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestAdminService_ResolveReport_NotifiesReporter(t *testing.T) {
	svc, m := newAdminServiceForTest(t)
	ctx := context.Background()

	resolved := &entity.Report{ID: "report1", ReporterID: "renter1", Status: entity.ReportStatusResolved}
	m.reportRepo.On("SetStatus", mock.Anything, "report1", entity.ReportStatusResolved).
		Return(resolved, nil).Once()

	report, err := svc.ResolveReport(ctx, "report1")

	assert.NoError(t, err)
	assert.Equal(t, entity.ReportStatusResolved, report.Status)

	sent := m.notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, "renter1", sent[0].UserID)
}
