package entity

import "time"

type NotificationCategory string

const (
	CategoryBooking NotificationCategory = "BOOKING"
	CategoryMessage NotificationCategory = "MESSAGE"
	CategorySystem  NotificationCategory = "SYSTEM"
)

// Notification is a one-way system-to-user message describing a lifecycle
// event. It is written exactly once; only the recipient's read flag mutates.
type Notification struct {
	ID        string               `bson:"_id,omitempty" json:"id"`
	UserID    string               `bson:"user_id" json:"user_id"`
	Content   string               `bson:"content" json:"content"`
	Category  NotificationCategory `bson:"category" json:"category"`
	IsRead    bool                 `bson:"is_read" json:"is_read"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

func NewNotification(userID, content string, category NotificationCategory) *Notification {
	if category == "" {
		category = CategorySystem
	}
	return &Notification{
		UserID:    userID,
		Content:   content,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}
