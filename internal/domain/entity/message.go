package entity

import (
	"errors"
	"time"
)

type Message struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	SenderID   string    `bson:"sender_id" json:"sender_id"`
	ReceiverID string    `bson:"receiver_id" json:"receiver_id"`
	ListingID  string    `bson:"listing_id,omitempty" json:"listing_id,omitempty"`
	Content    string    `bson:"content" json:"content"`
	IsRead     bool      `bson:"is_read" json:"is_read"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

func NewMessage(senderID, receiverID, listingID, content string) (*Message, error) {
	if senderID == "" || receiverID == "" {
		return nil, errors.New("sender and receiver IDs cannot be empty")
	}
	if content == "" {
		return nil, errors.New("message content cannot be empty")
	}
	return &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		ListingID:  listingID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Chat is a conversation summary grouped by counterparty.
type Chat struct {
	User         *User
	LastMessage  string
	LastAt       time.Time
	ListingTitle string
	UnreadCount  int
}
