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

const messageCollectionName = "messages"

type messageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.MessageRepository {
	return &messageRepository{
		collection: client.Database(cfg.Database).Collection(messageCollectionName),
	}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) (string, error) {
	res, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *messageRepository) ListDialog(ctx context.Context, userID, otherUserID string) ([]entity.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "receiver_id": otherUserID},
		bson.M{"sender_id": otherUserID, "receiver_id": userID},
	}}
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list dialog messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []entity.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode dialog messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID string) ([]entity.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var messages []entity.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode listed messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) MarkDialogRead(ctx context.Context, senderID, receiverID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to mark dialog read: %w", err)
	}
	return nil
}

func (r *messageRepository) DeleteByListing(ctx context.Context, listingID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete messages for listing %s: %w", listingID, err)
	}
	return nil
}
