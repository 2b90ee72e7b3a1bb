// services/listing_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"stayhub-backend/models"
	"stayhub-backend/utils"
)

type ListingService struct {
	DB *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{DB: db}
}

// ListingInput carries the host-editable fields of a listing.
type ListingInput struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Location      string   `json:"location" binding:"required"`
	PricePerNight float64  `json:"price_per_night" binding:"required,gt=0"`
	MaxGuests     int      `json:"max_guests" binding:"required,gte=1"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	Amenities     []string `json:"amenities"`
}

// Create registers a new active listing for the host.
func (s *ListingService) Create(hostID uint, in ListingInput) (*models.Listing, error) {
	listing := models.Listing{
		HostID:        hostID,
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		PricePerNight: in.PricePerNight,
		MaxGuests:     in.MaxGuests,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		Active:        true,
	}
	listing.SetAmenityList(in.Amenities)
	listing.SetBookedDateSet(map[string]bool{})
	if err := s.DB.Create(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

// Update replaces the host-editable fields. Only the owning host may edit;
// the booked-date set is never touched here.
func (s *ListingService) Update(listingID, hostID uint, in ListingInput) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing_not_found")
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	if listing.HostID != hostID {
		return nil, errors.New("not_listing_owner")
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.Location = in.Location
	listing.PricePerNight = in.PricePerNight
	listing.MaxGuests = in.MaxGuests
	listing.Bedrooms = in.Bedrooms
	listing.Bathrooms = in.Bathrooms
	listing.SetAmenityList(in.Amenities)
	if err := s.DB.Save(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return &listing, nil
}

// Deactivate soft-deletes the listing. Listings are never hard-deleted
// while bookings reference them.
func (s *ListingService) Deactivate(listingID, hostID uint) error {
	var listing models.Listing
	if err := s.DB.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("listing_not_found")
		}
		return fmt.Errorf("failed to load listing: %w", err)
	}
	if listing.HostID != hostID {
		return errors.New("not_listing_owner")
	}
	if err := s.DB.Model(&listing).Update("active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate listing: %w", err)
	}
	return nil
}

// GetByID returns a listing whether active or not.
func (s *ListingService) GetByID(listingID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing_not_found")
		}
		return nil, fmt.Errorf("failed to load listing: %w", err)
	}
	return &listing, nil
}

// ByHost lists the host's active listings.
func (s *ListingService) ByHost(hostID uint) ([]models.Listing, error) {
	var list []models.Listing
	if err := s.DB.Where("host_id = ? AND active = ?", hostID, true).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return list, nil
}

// All returns every listing, active or not.
func (s *ListingService) All() ([]models.Listing, error) {
	var list []models.Listing
	if err := s.DB.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return list, nil
}

// Search filters active listings by location substring, guest capacity and,
// when both dates are given, booked-date availability. Empty criteria match
// everything.
func (s *ListingService) Search(location string, checkIn, checkOut *time.Time, guests int) ([]models.Listing, error) {
	q := s.DB.Where("active = ?", true)
	if strings.TrimSpace(location) != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(location))+"%")
	}
	if guests > 0 {
		q = q.Where("max_guests >= ?", guests)
	}

	var candidates []models.Listing
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	if checkIn == nil || checkOut == nil {
		return candidates, nil
	}

	matched := make([]models.Listing, 0, len(candidates))
	for _, listing := range candidates {
		if listing.IsAvailable(utils.DateOnly(*checkIn), utils.DateOnly(*checkOut)) {
			matched = append(matched, listing)
		}
	}
	return matched, nil
}

// reserveListingDates marks every day of [start, end) as booked on the
// listing. Re-adding a day already in the set is a no-op.
func reserveListingDates(tx *gorm.DB, listing *models.Listing, start, end time.Time) error {
	set := listing.BookedDateSet()
	for _, day := range utils.DaysInRange(start, end) {
		set[utils.FormatDate(day)] = true
	}
	listing.SetBookedDateSet(set)
	if err := tx.Model(listing).Update("booked_dates", listing.BookedDates).Error; err != nil {
		return fmt.Errorf("failed to reserve dates: %w", err)
	}
	return nil
}

// releaseListingDates removes every day of [start, end) from the listing's
// booked-date set.
func releaseListingDates(tx *gorm.DB, listing *models.Listing, start, end time.Time) error {
	set := listing.BookedDateSet()
	for _, day := range utils.DaysInRange(start, end) {
		delete(set, utils.FormatDate(day))
	}
	listing.SetBookedDateSet(set)
	if err := tx.Model(listing).Update("booked_dates", listing.BookedDates).Error; err != nil {
		return fmt.Errorf("failed to release dates: %w", err)
	}
	return nil
}
