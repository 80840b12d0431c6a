package mongo

import (
	"context"
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

const notificationCollectionName = "notifications"

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.NotificationRepository {
	return &notificationRepository{
		collection: client.Database(cfg.Database).Collection(notificationCollectionName),
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) (string, error) {
	res, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var notifications []entity.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode listed notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to mark notifications read for user %s: %w", userID, err)
	}
	return nil
}
