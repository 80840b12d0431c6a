package service

import (
	"context"
	"testing"
	"time"

	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockListingCache struct {
	mock.Mock
}

func (m *MockListingCache) GetListing(ctx context.Context, listingID string) (*entity.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingCache) SetListing(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingCache) DeleteListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

type listingServiceMocks struct {
	listingRepo  *MockListingRepository
	bookingRepo  *MockBookingRepository
	calendarRepo *MockCalendarRepository
	favoriteRepo *MockFavoriteRepository
	messageRepo  *MockMessageRepository
	userRepo     *MockUserRepository
	cache        *MockListingCache
	photoStorage *MockPhotoStorage
}

func newListingServiceForTest(t *testing.T) (ListingService, *listingServiceMocks) {
	t.Helper()
	m := &listingServiceMocks{
		listingRepo:  new(MockListingRepository),
		bookingRepo:  new(MockBookingRepository),
		calendarRepo: new(MockCalendarRepository),
		favoriteRepo: new(MockFavoriteRepository),
		messageRepo:  new(MockMessageRepository),
		userRepo:     new(MockUserRepository),
		cache:        new(MockListingCache),
		photoStorage: new(MockPhotoStorage),
	}
	svc := NewListingService(m.listingRepo, m.bookingRepo, m.calendarRepo, m.favoriteRepo,
		m.messageRepo, m.userRepo, m.cache, m.photoStorage, NewNoOpLogger())
	return svc, m
}

func TestListingService_Create(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Listing) bool {
		return l.AuthorID == "owner1" && l.Status == entity.ListingStatusApproved && l.Version == 1
	})).Return("listing1", nil).Once()

	listing, err := svc.Create(ctx, "owner1", CreateListingParams{
		Title:    "Cozy flat",
		Price:    100,
		RentType: entity.RentTypeDaily,
		Country:  "Kazakhstan",
		City:     "Almaty",
	})

	assert.NoError(t, err)
	assert.Equal(t, "listing1", listing.ID)
	m.listingRepo.AssertExpectations(t)
}

func TestListingService_GetByID_CacheHit(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.cache.On("GetListing", mock.Anything, "listing1").Return(testListing(), nil).Once()

	listing, err := svc.GetByID(ctx, "listing1")

	assert.NoError(t, err)
	assert.Equal(t, "listing1", listing.ID)
	m.listingRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestListingService_GetByID_CacheMiss(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.cache.On("GetListing", mock.Anything, "listing1").Return(nil, nil).Once()
	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()
	m.cache.On("SetListing", mock.Anything, mock.Anything).Return(nil).Once()

	listing, err := svc.GetByID(ctx, "listing1")

	assert.NoError(t, err)
	assert.Equal(t, "listing1", listing.ID)
	m.cache.AssertExpectations(t)
}

func TestListingService_Update_OnlyOwner(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()

	_, err := svc.Update(ctx, "listing1", "stranger", map[string]interface{}{"title": "Hijacked"})

	assert.ErrorIs(t, err, entity.ErrForbidden)
	m.listingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListingService_Update_LostRace(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()
	m.listingRepo.On("Update", mock.Anything, mock.Anything).Return(nil, repository.ErrOptimisticLock).Once()

	_, err := svc.Update(ctx, "listing1", "owner1", map[string]interface{}{"title": "New title"})

	assert.ErrorIs(t, err, entity.ErrConflict)
}

func TestListingService_Delete_CascadesRelatedRecords(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()
	m.listingRepo.On("Delete", mock.Anything, "listing1").Return(nil).Once()
	m.bookingRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.favoriteRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.messageRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.calendarRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.cache.On("DeleteListing", mock.Anything, "listing1").Return(nil).Once()

	err := svc.Delete(ctx, "listing1", "owner1", false)

	assert.NoError(t, err)
	m.bookingRepo.AssertExpectations(t)
	m.favoriteRepo.AssertExpectations(t)
	m.messageRepo.AssertExpectations(t)
	m.calendarRepo.AssertExpectations(t)
}

func TestListingService_Delete_AdminOverride(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()
	m.listingRepo.On("Delete", mock.Anything, "listing1").Return(nil).Once()
	m.bookingRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.favoriteRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.messageRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.calendarRepo.On("DeleteByListing", mock.Anything, "listing1").Return(nil).Once()
	m.cache.On("DeleteListing", mock.Anything, "listing1").Return(nil).Once()

	assert.NoError(t, svc.Delete(ctx, "listing1", "admin1", true))
}

func TestListingService_Search_ExcludesBannedAuthors(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	minPrice := 50.0
	m.userRepo.On("BannedIDs", mock.Anything).Return([]string{"banned1"}, nil).Once()
	m.listingRepo.On("List", mock.Anything, repository.ListListingsParams{
		Status:            entity.ListingStatusApproved,
		MinPrice:          &minPrice,
		ExcludedAuthorIDs: []string{"banned1"},
	}).Return([]entity.Listing{*testListing()}, nil).Once()

	listings, err := svc.Search(ctx, SearchListingsParams{MinPrice: &minPrice})

	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	m.listingRepo.AssertExpectations(t)
}

func TestListingService_UploadPhoto(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()
	m.photoStorage.On("Upload", mock.Anything, "room.jpg", []byte("jpegdata")).
		Return("http://storage/photos/room.jpg", nil).Once()
	m.listingRepo.On("Update", mock.Anything, mock.MatchedBy(func(p repository.UpdateListingParams) bool {
		urls, ok := p.Fields["image_urls"].([]string)
		return ok && len(urls) == 1 && urls[0] == "http://storage/photos/room.jpg"
	})).Return(testListing(), nil).Once()
	m.cache.On("DeleteListing", mock.Anything, "listing1").Return(nil).Once()

	url, err := svc.UploadPhoto(ctx, "listing1", "owner1", "room.jpg", []byte("jpegdata"))

	assert.NoError(t, err)
	assert.Equal(t, "http://storage/photos/room.jpg", url)
}

func TestListingService_UploadPhoto_EmptyFile(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()

	_, err := svc.UploadPhoto(ctx, "listing1", "owner1", "room.jpg", nil)

	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	m.photoStorage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestListingService_SetCalendarDay_NegativePrice(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	negative := -10.0
	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()

	_, err := svc.SetCalendarDay(ctx, "listing1", "owner1", SetCalendarDayParams{
		Date:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Price: &negative,
	})

	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestListingService_Discounts(t *testing.T) {
	svc, m := newListingServiceForTest(t)
	ctx := context.Background()

	discounted := 60.0
	full := 120.0
	m.calendarRepo.On("ListPricedFrom", mock.Anything, mock.Anything).Return([]entity.CalendarDay{
		{ListingID: "listing1", Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), Price: &discounted},
		{ListingID: "listing1", Date: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), Price: &full},
	}, nil).Once()
	m.listingRepo.On("GetByID", mock.Anything, "listing1").Return(testListing(), nil).Once()

	discounts, err := svc.Discounts(ctx)

	assert.NoError(t, err)
	assert.Len(t, discounts, 1)
	assert.Equal(t, 60.0, discounts[0].Price)
	assert.Len(t, discounts[0].Dates, 1)
}
