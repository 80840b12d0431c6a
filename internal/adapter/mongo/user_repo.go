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

const userCollectionName = "users"

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.UserRepository {
	return &userRepository{
		collection: client.Database(cfg.Database).Collection(userCollectionName),
	}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (string, error) {
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}

	var user entity.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", userID, err)
	}
	user.ID = userID
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, params repository.UpdateUserParams) (*entity.User, error) {
	objID, err := primitive.ObjectIDFromHex(params.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}

	setFields := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range params.Fields {
		setFields[k] = v
	}

	var updated entity.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": setFields},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user %s: %w", params.UserID, err)
	}
	updated.ID = params.UserID
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, userID string) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []entity.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode listed users: %w", err)
	}
	return users, nil
}

func (r *userRepository) BannedIDs(ctx context.Context) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"is_banned": true},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list banned user IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode banned user ID: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	return ids, cursor.Err()
}

func (r *userRepository) TouchLastSeen(ctx context.Context, userID string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", repository.ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$set": bson.M{"last_seen": at.UTC()}})
	if err != nil {
		return fmt.Errorf("failed to touch last seen for user %s: %w", userID, err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
