package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const favoriteCollectionName = "favorites"

type favoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.FavoriteRepository {
	return &favoriteRepository{
		collection: client.Database(cfg.Database).Collection(favoriteCollectionName),
	}
}

func (r *favoriteRepository) Toggle(ctx context.Context, userID, listingID string) (bool, error) {
	filter := bson.M{"user_id": userID, "listing_id": listingID}

	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = r.collection.InsertOne(ctx, bson.M{
		"user_id":    userID,
		"listing_id": listingID,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return true, nil
}

func (r *favoriteRepository) ListingIDsByUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"listing_id": 1}).SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ListingID string `bson:"listing_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		ids = append(ids, doc.ListingID)
	}
	return ids, cursor.Err()
}

func (r *favoriteRepository) DeleteByListing(ctx context.Context, listingID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete favorites for listing %s: %w", listingID, err)
	}
	return nil
}

func (r *favoriteRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete favorites for user %s: %w", userID, err)
	}
	return nil
}
