package service

import (
	"context"
	"sync"
	"time"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/platform/logger"
	"github.com/staynest/booking-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entity.Booking) (string, error) {
	args := m.Called(ctx, booking)
	return args.String(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, params repository.UpdateBookingStatusParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context, params repository.ListBookingsParams) ([]entity.Booking, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) HasConfirmed(ctx context.Context, listingID, renterID string) (bool, error) {
	args := m.Called(ctx, listingID, renterID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) DeleteByListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *MockBookingRepository) DeleteByRenter(ctx context.Context, renterID string) error {
	args := m.Called(ctx, renterID)
	return args.Error(0)
}

func (m *MockBookingRepository) ConfirmedTotals(ctx context.Context) ([]entity.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Booking), args.Error(1)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

func (m *MockListingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Update(ctx context.Context, params repository.UpdateListingParams) (*entity.Listing, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) SetStatus(ctx context.Context, listingID string, status entity.ListingStatus) (*entity.Listing, error) {
	args := m.Called(ctx, listingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *MockListingRepository) List(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Listing), args.Error(1)
}

func (m *MockListingRepository) IDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockListingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCalendarRepository struct {
	mock.Mock
}

func (m *MockCalendarRepository) Upsert(ctx context.Context, params repository.UpsertCalendarDayParams) (*entity.CalendarDay, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CalendarDay), args.Error(1)
}

func (m *MockCalendarRepository) ListByListing(ctx context.Context, listingID string) ([]entity.CalendarDay, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CalendarDay), args.Error(1)
}

func (m *MockCalendarRepository) ListPricedFrom(ctx context.Context, from time.Time) ([]entity.CalendarDay, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CalendarDay), args.Error(1)
}

func (m *MockCalendarRepository) DeleteByListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, params repository.UpdateUserParams) (*entity.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) BannedIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) TouchLastSeen(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) (string, error) {
	args := m.Called(ctx, review)
	return args.String(0), args.Error(1)
}

func (m *MockReviewRepository) ExistsByUserAndListing(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ListByListing(ctx context.Context, listingID string) ([]entity.Review, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, listingID string) (float64, int64, error) {
	args := m.Called(ctx, listingID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ListingIDsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteRepository) DeleteByListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *entity.Notification) (string, error) {
	args := m.Called(ctx, notification)
	return args.String(0), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *entity.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func (m *MockMessageRepository) ListDialog(ctx context.Context, userID, otherUserID string) ([]entity.Message, error) {
	args := m.Called(ctx, userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByUser(ctx context.Context, userID string) ([]entity.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkDialogRead(ctx context.Context, senderID, receiverID string) error {
	args := m.Called(ctx, senderID, receiverID)
	return args.Error(0)
}

func (m *MockMessageRepository) DeleteByListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *entity.Report) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}

func (m *MockReportRepository) List(ctx context.Context) ([]entity.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Report), args.Error(1)
}

func (m *MockReportRepository) SetStatus(ctx context.Context, reportID string, status entity.ReportStatus) (*entity.Report, error) {
	args := m.Called(ctx, reportID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Report), args.Error(1)
}

func (m *MockReportRepository) CountByStatus(ctx context.Context, status entity.ReportStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func (m *MockMessagePublisher) PublishRaw(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

// recordedNotification captures a Notifier call for assertions.
type recordedNotification struct {
	UserID   string
	Content  string
	Category entity.NotificationCategory
}

// recordingNotifier collects notifications synchronously.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (n *recordingNotifier) Notify(userID, content string, category entity.NotificationCategory) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, recordedNotification{UserID: userID, Content: content, Category: category})
}

func (n *recordingNotifier) all() []recordedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedNotification(nil), n.sent...)
}

type NoOpLogger struct{}

func (l *NoOpLogger) Debug(args ...interface{})                   {}
func (l *NoOpLogger) Debugf(template string, args ...interface{}) {}
func (l *NoOpLogger) Info(args ...interface{})                    {}
func (l *NoOpLogger) Infof(template string, args ...interface{})  {}
func (l *NoOpLogger) Warn(args ...interface{})                    {}
func (l *NoOpLogger) Warnf(template string, args ...interface{})  {}
func (l *NoOpLogger) Error(args ...interface{})                   {}
func (l *NoOpLogger) Errorf(template string, args ...interface{}) {}
func (l *NoOpLogger) Fatal(args ...interface{})                   {}
func (l *NoOpLogger) Fatalf(template string, args ...interface{}) {}
func (l *NoOpLogger) With(args ...interface{}) logger.Logger      { return l }

func NewNoOpLogger() logger.Logger {
	return &NoOpLogger{}
}
