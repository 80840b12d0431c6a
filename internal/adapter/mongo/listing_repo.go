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

const listingCollectionName = "listings"

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ListingRepository {
	return &listingRepository{
		collection: client.Database(cfg.Database).Collection(listingCollectionName),
	}
}

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	res, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *listingRepository) GetByID(ctx context.Context, listingID string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	var listing entity.Listing
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID %s: %w", listingID, err)
	}
	listing.ID = listingID
	return &listing, nil
}

func (r *listingRepository) Update(ctx context.Context, params repository.UpdateListingParams) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(params.ListingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	setFields := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range params.Fields {
		setFields[k] = v
	}

	filter := bson.M{"_id": objID, "version": params.Version}
	update := bson.M{
		"$set": setFields,
		"$inc": bson.M{"version": 1},
	}

	var updated entity.Listing
	err = r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			var existing entity.Listing
			errFind := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&existing)
			if errors.Is(errFind, mongo.ErrNoDocuments) {
				return nil, repository.ErrNotFound
			}
			if errFind == nil && existing.Version != params.Version {
				return nil, repository.ErrOptimisticLock
			}
			return nil, repository.ErrUpdateFailed
		}
		return nil, fmt.Errorf("failed to update listing %s: %w", params.ListingID, err)
	}
	updated.ID = params.ListingID
	return &updated, nil
}

func (r *listingRepository) SetStatus(ctx context.Context, listingID string, status entity.ListingStatus) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return nil, fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}

	update := bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}

	var updated entity.Listing
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set listing status for %s: %w", listingID, err)
	}
	updated.ID = listingID
	return &updated, nil
}

func (r *listingRepository) Delete(ctx context.Context, listingID string) error {
	objID, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return fmt.Errorf("invalid listing ID format: %w", repository.ErrNotFound)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *listingRepository) List(ctx context.Context, params repository.ListListingsParams) ([]entity.Listing, error) {
	filter := bson.M{}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.AuthorID != "" {
		filter["author_id"] = params.AuthorID
	}
	if len(params.ExcludedAuthorIDs) > 0 {
		filter["author_id"] = bson.M{"$nin": params.ExcludedAuthorIDs}
	}
	priceFilter := bson.M{}
	if params.MinPrice != nil {
		priceFilter["$gte"] = *params.MinPrice
	}
	if params.MaxPrice != nil {
		priceFilter["$lte"] = *params.MaxPrice
	}
	if len(priceFilter) > 0 {
		filter["price"] = priceFilter
	}
	if params.RentType != "" {
		filter["rent_type"] = params.RentType
	}
	if len(params.Amenities) > 0 {
		filter["amenities"] = bson.M{"$all": params.Amenities}
	}

	findOptions := options.Find()
	switch params.Sort {
	case "price_asc":
		findOptions.SetSort(bson.D{{Key: "price", Value: 1}})
	case "price_desc":
		findOptions.SetSort(bson.D{{Key: "price", Value: -1}})
	default:
		findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []entity.Listing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listed listings: %w", err)
	}
	return listings, nil
}

func (r *listingRepository) IDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list listing IDs for author %s: %w", authorID, err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing ID: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	return ids, cursor.Err()
}

func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}
