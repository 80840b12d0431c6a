package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/domain/entity"
	"github.com/staynest/booking-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reviewCollectionName = "reviews"

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ReviewRepository {
	return &reviewRepository{
		collection: client.Database(cfg.Database).Collection(reviewCollectionName),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (string, error) {
	exists, err := r.ExistsByUserAndListing(ctx, review.UserID, review.ListingID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", repository.ErrAlreadyExists
	}

	res, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create review: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *reviewRepository) ExistsByUserAndListing(ctx context.Context, userID, listingID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"user_id": userID, "listing_id": listingID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID string) ([]entity.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"listing_id": listingID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode listed reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) AverageRating(ctx context.Context, listingID string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"listing_id": listingID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate review rating for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, fmt.Errorf("failed to decode review rating aggregate: %w", err)
		}
	}
	if err := cursor.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, 0, fmt.Errorf("failed to read review rating aggregate: %w", err)
	}
	return result.Avg, result.Count, nil
}
