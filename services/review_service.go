// services/review_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stayhub-backend/models"
	"stayhub-backend/utils"
)

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

// Add records a review for a completed stay. Property reviews are written
// by the booking's guest against the listing; guest reviews by the
// listing's host against the guest.
func (s *ReviewService) Add(reviewerID, bookingID uint, rating int, comment, reviewType string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("invalid_rating")
	}
	if reviewType != models.ReviewTypeProperty && reviewType != models.ReviewTypeGuest {
		return nil, errors.New("invalid_review_type")
	}

	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("booking_not_found")
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if !booking.CanBeReviewed(utils.Today()) {
		return nil, errors.New("booking_not_reviewable")
	}

	var listing models.Listing
	if err := s.DB.First(&listing, booking.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing_not_found")
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}

	var revieweeID uint
	switch reviewType {
	case models.ReviewTypeProperty:
		if booking.GuestID != reviewerID {
			return nil, errors.New("not_authorized")
		}
		revieweeID = listing.ID
	case models.ReviewTypeGuest:
		if listing.HostID != reviewerID {
			return nil, errors.New("not_authorized")
		}
		revieweeID = booking.GuestID
	}

	review := models.Review{
		BookingID:  bookingID,
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     rating,
		Comment:    comment,
		Type:       reviewType,
	}
	if err := s.DB.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// ForProperty lists the property reviews of a listing, newest first.
func (s *ReviewService) ForProperty(listingID uint) ([]models.Review, error) {
	var list []models.Review
	if err := s.DB.
		Where("type = ? AND reviewee_id = ?", models.ReviewTypeProperty, listingID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return list, nil
}

// ForUser lists reviews written about a user, newest first.
func (s *ReviewService) ForUser(userID uint) ([]models.Review, error) {
	var list []models.Review
	if err := s.DB.
		Where("type = ? AND reviewee_id = ?", models.ReviewTypeGuest, userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return list, nil
}

// AverageForProperty returns the mean property rating, 0 when unreviewed.
func (s *ReviewService) AverageForProperty(listingID uint) (float64, error) {
	return s.average(models.ReviewTypeProperty, listingID)
}

// AverageForUser returns the mean guest rating, 0 when unreviewed.
func (s *ReviewService) AverageForUser(userID uint) (float64, error) {
	return s.average(models.ReviewTypeGuest, userID)
}

func (s *ReviewService) average(reviewType string, revieweeID uint) (float64, error) {
	var avg float64
	if err := s.DB.Model(&models.Review{}).
		Where("type = ? AND reviewee_id = ?", reviewType, revieweeID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error; err != nil {
		return 0, fmt.Errorf("failed to compute rating: %w", err)
	}
	return avg, nil
}

// All lists every review, newest first.
func (s *ReviewService) All() ([]models.Review, error) {
	var list []models.Review
	if err := s.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return list, nil
}
