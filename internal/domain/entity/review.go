package entity

import (
	"errors"
	"time"
)

type Review struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	Rating    int       `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	PhotoURLs []string  `bson:"photo_urls,omitempty" json:"photo_urls,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func NewReview(userID, listingID string, rating int, comment string, photoURLs []string) (*Review, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if listingID == "" {
		return nil, errors.New("listing ID cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	return &Review{
		UserID:    userID,
		ListingID: listingID,
		Rating:    rating,
		Comment:   comment,
		PhotoURLs: photoURLs,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Favorite marks a listing saved by a user; the (UserID, ListingID) pair is unique.
type Favorite struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
