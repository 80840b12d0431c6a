package entity

import (
	"errors"
	"time"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusResolved ReportStatus = "RESOLVED"
)

// Report is a complaint filed against a listing or a user.
type Report struct {
	ID         string       `bson:"_id,omitempty" json:"id"`
	ReporterID string       `bson:"reporter_id" json:"reporter_id"`
	ListingID  string       `bson:"listing_id,omitempty" json:"listing_id,omitempty"`
	UserID     string       `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Reason     string       `bson:"reason" json:"reason"`
	Details    string       `bson:"details,omitempty" json:"details,omitempty"`
	Status     ReportStatus `bson:"status" json:"status"`
	CreatedAt  time.Time    `bson:"created_at" json:"created_at"`
}

func NewReport(reporterID, listingID, userID, reason, details string) (*Report, error) {
	if reporterID == "" {
		return nil, errors.New("reporter ID cannot be empty")
	}
	if listingID == "" && userID == "" {
		return nil, errors.New("report target must be a listing or a user")
	}
	return &Report{
		ReporterID: reporterID,
		ListingID:  listingID,
		UserID:     userID,
		Reason:     reason,
		Details:    details,
		Status:     ReportStatusPending,
		CreatedAt:  time.Now().UTC(),
	}, nil
}
