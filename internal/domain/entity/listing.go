package entity

import (
	"errors"
	"time"
)

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "PENDING"
	ListingStatusApproved ListingStatus = "APPROVED"
	ListingStatusRejected ListingStatus = "REJECTED"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusPending, ListingStatusApproved, ListingStatusRejected:
		return true
	}
	return false
}

type RentType string

const (
	RentTypeDaily   RentType = "DAILY"
	RentTypeMonthly RentType = "MONTHLY"
)

type Listing struct {
	ID           string        `bson:"_id,omitempty" json:"id"`
	AuthorID     string        `bson:"author_id" json:"author_id"`
	Title        string        `bson:"title" json:"title"`
	Description  string        `bson:"description" json:"description"`
	Price        float64       `bson:"price" json:"price"`
	RentType     RentType      `bson:"rent_type" json:"rent_type"`
	PropertyType string        `bson:"property_type" json:"property_type"`
	Country      string        `bson:"country" json:"country"`
	City         string        `bson:"city" json:"city"`
	District     string        `bson:"district,omitempty" json:"district,omitempty"`
	Bedrooms     int           `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int           `bson:"bathrooms" json:"bathrooms"`
	Guests       int           `bson:"guests" json:"guests"`
	Area         *float64      `bson:"area,omitempty" json:"area,omitempty"`
	Amenities    []string      `bson:"amenities" json:"amenities"`
	ImageURLs    []string      `bson:"image_urls" json:"image_urls"`
	Latitude     *float64      `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude    *float64      `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Status       ListingStatus `bson:"status" json:"status"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
	Version      int           `bson:"version" json:"version"`
}

func NewListing(authorID, title string, price float64) (*Listing, error) {
	if authorID == "" {
		return nil, errors.New("author ID cannot be empty")
	}
	if title == "" {
		return nil, errors.New("title cannot be empty")
	}
	if price < 0 {
		return nil, errors.New("price cannot be negative")
	}
	now := time.Now().UTC()
	return &Listing{
		AuthorID:     authorID,
		Title:        title,
		Price:        price,
		RentType:     RentTypeDaily,
		PropertyType: "Apartment",
		Bedrooms:     1,
		Bathrooms:    1,
		Guests:       2,
		Amenities:    []string{},
		ImageURLs:    []string{},
		// New listings go live immediately; admins can pull them back to
		// PENDING or REJECTED through moderation.
		Status:    ListingStatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}
