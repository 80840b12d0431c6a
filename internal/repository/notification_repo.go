package repository

import (
	"context"

	"github.com/staynest/booking-service/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) (string, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) (string, error)
	// ListDialog returns the two-sided conversation between two users,
	// oldest first.
	ListDialog(ctx context.Context, userID, otherUserID string) ([]entity.Message, error)
	// ListByUser returns every message the user sent or received, newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Message, error)
	MarkDialogRead(ctx context.Context, senderID, receiverID string) error
	DeleteByListing(ctx context.Context, listingID string) error
}
