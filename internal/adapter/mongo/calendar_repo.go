package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const calendarCollectionName = "calendar_days"

type calendarRepository struct {
	collection *mongo.Collection
}

func NewCalendarRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.CalendarRepository {
	return &calendarRepository{
		collection: client.Database(cfg.Database).Collection(calendarCollectionName),
	}
}

func (r *calendarRepository) Upsert(ctx context.Context, params repository.UpsertCalendarDayParams) (*entity.CalendarDay, error) {
	day := params.Date.UTC().Truncate(24 * time.Hour)
	filter := bson.M{"listing_id": params.ListingID, "date": day}

	setFields := bson.M{
		"is_blocked": params.IsBlocked,
		"updated_at": time.Now().UTC(),
	}
	update := bson.M{"$set": setFields}
	if params.Price != nil {
		setFields["price"] = *params.Price
	} else {
		update["$unset"] = bson.M{"price": ""}
	}

	var updated entity.CalendarDay
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert calendar day for listing %s: %w", params.ListingID, err)
	}
	return &updated, nil
}

func (r *calendarRepository) ListByListing(ctx context.Context, listingID string) ([]entity.CalendarDay, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar days for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var days []entity.CalendarDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode listed calendar days: %w", err)
	}
	return days, nil
}

func (r *calendarRepository) ListPricedFrom(ctx context.Context, from time.Time) ([]entity.CalendarDay, error) {
	filter := bson.M{
		"date":       bson.M{"$gte": from.UTC().Truncate(24 * time.Hour)},
		"is_blocked": false,
		"price":      bson.M{"$exists": true},
	}
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list priced calendar days: %w", err)
	}
	defer cursor.Close(ctx)

	var days []entity.CalendarDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode priced calendar days: %w", err)
	}
	return days, nil
}

func (r *calendarRepository) DeleteByListing(ctx context.Context, listingID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete calendar days for listing %s: %w", listingID, err)
	}
	return nil
}
