package models

import (
	"strconv"
	"time"

	"stayhub-backend/utils"
)

const (
	ReviewTypeProperty = "property"
	ReviewTypeGuest    = "guest"
)

// Review rates either the property of a completed stay (written by the
// guest, reviewee is the listing) or the guest (written by the host,
// reviewee is the guest user).
type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	BookingID  uint   `gorm:"index;column:booking_id" json:"booking_id"`
	ReviewerID uint   `gorm:"index;column:reviewer_id" json:"reviewer_id"`
	RevieweeID uint   `gorm:"index;column:reviewee_id" json:"reviewee_id"`
	Rating     int    `gorm:"column:rating" json:"rating"`
	Comment    string `gorm:"column:comment;type:text" json:"comment"`
	Type       string `gorm:"column:type;size:16" json:"type"`
}

const reviewRecordFields = 8

// ToRecord encodes the review as one flat-file line.
func (r *Review) ToRecord() string {
	return utils.JoinFields(
		strconv.FormatUint(uint64(r.ID), 10),
		strconv.FormatUint(uint64(r.BookingID), 10),
		strconv.FormatUint(uint64(r.ReviewerID), 10),
		strconv.FormatUint(uint64(r.RevieweeID), 10),
		strconv.Itoa(r.Rating),
		r.Comment,
		r.Type,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
}

// ReviewFromRecord decodes one flat-file line back into a review.
func ReviewFromRecord(line string) (Review, error) {
	parts, err := utils.SplitFields(line, reviewRecordFields)
	if err != nil {
		return Review{}, err
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Review{}, err
	}
	bookingID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Review{}, err
	}
	reviewerID, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return Review{}, err
	}
	revieweeID, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return Review{}, err
	}
	rating, err := strconv.Atoi(parts[4])
	if err != nil {
		return Review{}, err
	}
	createdAt, err := time.Parse(time.RFC3339, parts[7])
	if err != nil {
		return Review{}, err
	}
	return Review{
		ID:         uint(id),
		BookingID:  uint(bookingID),
		ReviewerID: uint(reviewerID),
		RevieweeID: uint(revieweeID),
		Rating:     rating,
		Comment:    parts[5],
		Type:       parts[6],
		CreatedAt:  createdAt,
	}, nil
}
