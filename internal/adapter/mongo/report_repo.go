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

const reportCollectionName = "reports"

type reportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository(client *mongo.Client, cfg config.MongoDBConfig) repository.ReportRepository {
	return &reportRepository{
		collection: client.Database(cfg.Database).Collection(reportCollectionName),
	}
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) (string, error) {
	res, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *reportRepository) List(ctx context.Context) ([]entity.Report, error) {
	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []entity.Report
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode listed reports: %w", err)
	}
	return reports, nil
}

func (r *reportRepository) SetStatus(ctx context.Context, reportID string, status entity.ReportStatus) (*entity.Report, error) {
	objID, err := primitive.ObjectIDFromHex(reportID)
	if err != nil {
		return nil, fmt.Errorf("invalid report ID format: %w", repository.ErrNotFound)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}

	var updated entity.Report
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set report status for %s: %w", reportID, err)
	}
	updated.ID = reportID
	return &updated, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context, status entity.ReportStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

func (r *reportRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"reporter_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete reports for user %s: %w", userID, err)
	}
	return nil
}
