package entity

import "time"

// CalendarDay overrides availability or price for one listing day.
// A nil Price means the listing's base price applies.
type CalendarDay struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	Date      time.Time `bson:"date" json:"date"`
	Price     *float64  `bson:"price,omitempty" json:"price,omitempty"`
	IsBlocked bool      `bson:"is_blocked" json:"is_blocked"`
}

// Discount groups future calendar days priced below a listing's base price.
type Discount struct {
	Listing *Listing
	Price   float64
	Dates   []time.Time
}
