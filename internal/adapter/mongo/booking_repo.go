package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingCollectionName = "bookings"

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.BookingRepository {
	return &bookingRepository{
		collection: client.Database(cfg.Database).Collection(bookingCollectionName),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (string, error) {
	res, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *bookingRepository) GetByID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	objID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format: %w", repository.ErrNotFound)
	}

	var booking entity.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking by ID %s: %w", bookingID, err)
	}
	booking.ID = bookingID
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, params repository.UpdateBookingStatusParams) error {
	objID, err := primitive.ObjectIDFromHex(params.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking ID format for update status: %w", repository.ErrUpdateFailed)
	}

	filter := bson.M{
		"_id":     objID,
		"version": params.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     params.Status,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status for ID %s: %w", params.BookingID, err)
	}

	if result.MatchedCount == 0 {
		var existing entity.Booking
		errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
		if errors.Is(errFind, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		if errFind == nil && existing.Version != params.Version {
			return repository.ErrOptimisticLock
		}
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *bookingRepository) List(ctx context.Context, params repository.ListBookingsParams) ([]entity.Booking, error) {
	filter := bson.M{}
	if params.RenterID != "" {
		filter["renter_id"] = params.RenterID
	}
	if params.ListingID != "" {
		filter["listing_id"] = params.ListingID
	}
	if len(params.ListingIDs) > 0 {
		filter["listing_id"] = bson.M{"$in": params.ListingIDs}
	}
	if len(params.Statuses) > 0 {
		filter["status"] = bson.M{"$in": params.Statuses}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []entity.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode listed bookings: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) HasConfirmed(ctx context.Context, listingID, renterID string) (bool, error) {
	filter := bson.M{
		"listing_id": listingID,
		"renter_id":  renterID,
		"status":     entity.BookingStatusConfirmed,
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check confirmed booking: %w", err)
	}
	return count > 0, nil
}

func (r *bookingRepository) DeleteByListing(ctx context.Context, listingID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID}); err != nil {
		return fmt.Errorf("failed to delete bookings for listing %s: %w", listingID, err)
	}
	return nil
}

func (r *bookingRepository) DeleteByRenter(ctx context.Context, renterID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"renter_id": renterID}); err != nil {
		return fmt.Errorf("failed to delete bookings for renter %s: %w", renterID, err)
	}
	return nil
}

func (r *bookingRepository) ConfirmedTotals(ctx context.Context) ([]entity.Booking, error) {
	filter := bson.M{"status": entity.BookingStatusConfirmed}
	projection := options.Find().SetProjection(bson.M{"total_price": 1, "created_at": 1})

	cursor, err := r.collection.Find(ctx, filter, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []entity.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode confirmed bookings: %w", err)
	}
	return bookings, nil
}
