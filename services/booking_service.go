// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stayhub-backend/models"
	"stayhub-backend/utils"
)

// BookingService owns the booking collection and is the only writer of the
// listings' booked-date sets. Business failures are reported through Result;
// the error return carries infrastructure failures only.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Result is the uniform outcome of every mutating booking operation.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Booking *models.Booking `json:"booking,omitempty"`
	Refund  float64         `json:"refund,omitempty"`
}

func failure(message string) Result {
	return Result{Message: message}
}

// BookingStatistics summarizes a host's bookings.
type BookingStatistics struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Confirmed int     `json:"confirmed"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

// isListingAvailable is the single availability predicate used by both
// Create and Edit: every day of [start, end) must be absent from the
// listing's booked-date set AND no other pending/confirmed booking of the
// listing may overlap the range. excludeBookingID skips the booking being
// edited.
func (s *BookingService) isListingAvailable(tx *gorm.DB, listing *models.Listing, start, end time.Time, excludeBookingID uint) (bool, error) {
	if !listing.IsAvailable(start, end) {
		return false, nil
	}

	var siblings []models.Booking
	if err := tx.
		Where("listing_id = ? AND id <> ? AND status IN ?", listing.ID, excludeBookingID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Find(&siblings).Error; err != nil {
		return false, fmt.Errorf("failed to check conflicting bookings: %w", err)
	}
	for _, other := range siblings {
		if utils.Overlaps(other.CheckIn, other.CheckOut, start, end) {
			return false, nil
		}
	}
	return true, nil
}

// Create validates the request and, on success, creates a pending booking
// and reserves its dates on the listing in the same transaction.
func (s *BookingService) Create(listingID, guestID uint, checkIn, checkOut time.Time, guests int) (Result, error) {
	checkIn = utils.DateOnly(checkIn)
	checkOut = utils.DateOnly(checkOut)

	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := lockForUpdate(tx).First(&listing, listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res = failure("Property not found")
				return nil
			}
			return fmt.Errorf("failed to load listing: %w", err)
		}
		if !listing.Active {
			res = failure("Property is no longer active")
			return nil
		}

		if checkIn.Before(utils.Today()) {
			res = failure("Check-in date cannot be in the past")
			return nil
		}
		if !checkOut.After(checkIn) {
			res = failure("Check-out date must be after check-in date")
			return nil
		}

		available, err := s.isListingAvailable(tx, &listing, checkIn, checkOut, 0)
		if err != nil {
			return err
		}
		if !available {
			res = failure("Selected dates are not available")
			return nil
		}

		if guests < 1 {
			res = failure("Number of guests must be at least 1")
			return nil
		}
		if guests > listing.MaxGuests {
			res = failure("Number of guests exceeds property capacity")
			return nil
		}

		nights := utils.NightsBetween(checkIn, checkOut)
		booking := models.Booking{
			ReferenceCode:  uuid.NewString(),
			ListingID:      listing.ID,
			GuestID:        guestID,
			CheckIn:        checkIn,
			CheckOut:       checkOut,
			NumberOfGuests: guests,
			TotalPrice:     float64(nights) * listing.PricePerNight,
			Status:         models.BookingStatusPending,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		// Reserve immediately; confirmation does not change the calendar.
		if err := reserveListingDates(tx, &listing, checkIn, checkOut); err != nil {
			return err
		}

		res = Result{Success: true, Message: "Booking request submitted successfully!", Booking: &booking}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Confirm lets the listing's host accept a pending booking. The reserved
// dates stay on the calendar.
func (s *BookingService) Confirm(bookingID, hostID uint) (Result, error) {
	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, listing, fail, err := s.loadBookingWithListing(tx, bookingID)
		if err != nil {
			return err
		}
		if fail != "" {
			res = failure(fail)
			return nil
		}
		if listing.HostID != hostID {
			res = failure("You are not authorized to confirm this booking")
			return nil
		}
		if !booking.TransitionTo(models.BookingStatusConfirmed) {
			res = failure("Only pending bookings can be confirmed")
			return nil
		}
		if err := tx.Model(booking).Update("status", booking.Status).Error; err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		res = Result{Success: true, Message: "Booking confirmed successfully!", Booking: booking}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Reject lets the listing's host decline a pending booking and releases the
// reserved dates. A rejected request never held the calendar; this is
// intentionally asymmetric with Confirm.
func (s *BookingService) Reject(bookingID, hostID uint, reason string) (Result, error) {
	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, listing, fail, err := s.loadBookingWithListing(tx, bookingID)
		if err != nil {
			return err
		}
		if fail != "" {
			res = failure(fail)
			return nil
		}
		if listing.HostID != hostID {
			res = failure("You are not authorized to reject this booking")
			return nil
		}
		if !booking.TransitionTo(models.BookingStatusRejected) {
			res = failure("Only pending bookings can be rejected")
			return nil
		}
		if err := tx.Model(booking).Update("status", booking.Status).Error; err != nil {
			return fmt.Errorf("failed to reject booking: %w", err)
		}
		if err := releaseListingDates(tx, listing, booking.CheckIn, booking.CheckOut); err != nil {
			return err
		}
		message := "Booking rejected."
		if reason != "" {
			message += " Reason: " + reason
		}
		res = Result{Success: true, Message: message, Booking: booking}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Cancel lets the booking's guest or the listing's host cancel a pending or
// confirmed booking. The refund is computed at cancellation time and the
// reserved dates are released.
func (s *BookingService) Cancel(bookingID, userID uint) (Result, error) {
	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, listing, fail, err := s.loadBookingWithListing(tx, bookingID)
		if err != nil {
			return err
		}
		if fail != "" {
			res = failure(fail)
			return nil
		}
		isGuest := booking.GuestID == userID
		isHost := listing.HostID == userID
		if !isGuest && !isHost {
			res = failure("You are not authorized to cancel this booking")
			return nil
		}
		if !booking.CanBeCancelled() {
			res = failure("This booking cannot be cancelled")
			return nil
		}

		refund := booking.RefundAmount(utils.Today())
		booking.TransitionTo(models.BookingStatusCancelled)
		if err := tx.Model(booking).Update("status", booking.Status).Error; err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		if err := releaseListingDates(tx, listing, booking.CheckIn, booking.CheckOut); err != nil {
			return err
		}

		message := "Booking cancelled successfully"
		if isGuest && refund > 0 {
			message = fmt.Sprintf("Booking cancelled. Refund amount: $%.2f", refund)
		}
		res = Result{Success: true, Message: message, Booking: booking, Refund: refund}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Complete lets the listing's host close out a confirmed stay once the
// check-out day has passed. Historical dates are not re-released.
func (s *BookingService) Complete(bookingID, hostID uint) (Result, error) {
	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, listing, fail, err := s.loadBookingWithListing(tx, bookingID)
		if err != nil {
			return err
		}
		if fail != "" {
			res = failure(fail)
			return nil
		}
		if listing.HostID != hostID {
			res = failure("You are not authorized to complete this booking")
			return nil
		}
		if booking.Status != models.BookingStatusConfirmed {
			res = failure("Only confirmed bookings can be marked as completed")
			return nil
		}
		if utils.DateOnly(booking.CheckOut).After(utils.Today()) {
			res = failure("Cannot complete booking before check-out date")
			return nil
		}
		booking.TransitionTo(models.BookingStatusCompleted)
		if err := tx.Model(booking).Update("status", booking.Status).Error; err != nil {
			return fmt.Errorf("failed to complete booking: %w", err)
		}
		res = Result{Success: true, Message: "Booking marked as completed", Booking: booking}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Edit lets the original guest change dates and guest count while the
// booking is still pending. Availability is rechecked with the same
// predicate Create uses, and the reserved range moves atomically: the old
// days are released and the new days reserved in one transaction.
func (s *BookingService) Edit(bookingID, guestID uint, newCheckIn, newCheckOut time.Time, newGuests int) (Result, error) {
	newCheckIn = utils.DateOnly(newCheckIn)
	newCheckOut = utils.DateOnly(newCheckOut)

	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		booking, listing, fail, err := s.loadBookingWithListing(tx, bookingID)
		if err != nil {
			return err
		}
		if fail != "" {
			res = failure(fail)
			return nil
		}
		if booking.GuestID != guestID {
			res = failure("You are not authorized to edit this booking")
			return nil
		}
		if booking.Status != models.BookingStatusPending {
			res = failure("Only pending bookings can be edited")
			return nil
		}
		if newCheckIn.Before(utils.Today()) {
			res = failure("Check-in date cannot be in the past")
			return nil
		}
		if !newCheckOut.After(newCheckIn) {
			res = failure("Check-out date must be after check-in date")
			return nil
		}
		if newGuests < 1 || newGuests > listing.MaxGuests {
			res = failure("Invalid number of guests")
			return nil
		}

		// Free the current range before probing the new one so a move that
		// overlaps the old range is not blocked by the booking itself.
		if err := releaseListingDates(tx, listing, booking.CheckIn, booking.CheckOut); err != nil {
			return err
		}
		available, err := s.isListingAvailable(tx, listing, newCheckIn, newCheckOut, booking.ID)
		if err != nil {
			return err
		}
		if !available {
			// Put the original reservation back; the rollback restores the
			// row but the in-memory listing must match too.
			if err := reserveListingDates(tx, listing, booking.CheckIn, booking.CheckOut); err != nil {
				return err
			}
			res = failure("New dates are not available")
			return nil
		}
		if err := reserveListingDates(tx, listing, newCheckIn, newCheckOut); err != nil {
			return err
		}

		nights := utils.NightsBetween(newCheckIn, newCheckOut)
		booking.CheckIn = newCheckIn
		booking.CheckOut = newCheckOut
		booking.NumberOfGuests = newGuests
		booking.TotalPrice = float64(nights) * listing.PricePerNight
		if err := tx.Model(booking).Updates(map[string]interface{}{
			"check_in":         booking.CheckIn,
			"check_out":        booking.CheckOut,
			"number_of_guests": booking.NumberOfGuests,
			"total_price":      booking.TotalPrice,
		}).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		res = Result{Success: true, Message: "Booking updated successfully", Booking: booking}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Delete removes a pending or cancelled booking entirely. Reserved dates
// are untouched; a pending booking should be cancelled or rejected first if
// the calendar must be freed.
func (s *BookingService) Delete(bookingID, guestID uint) (Result, error) {
	var res Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res = failure("Booking not found")
				return nil
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if booking.GuestID != guestID {
			res = failure("You are not authorized to delete this booking")
			return nil
		}
		if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusCancelled {
			res = failure("Only pending or cancelled bookings can be deleted")
			return nil
		}
		if err := tx.Delete(&booking).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}
		res = Result{Success: true, Message: "Booking deleted successfully"}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// loadBookingWithListing fetches and row-locks a booking and its listing.
// The string return is a business-failure message, empty on success.
func (s *BookingService) loadBookingWithListing(tx *gorm.DB, bookingID uint) (*models.Booking, *models.Listing, string, error) {
	var booking models.Booking
	if err := lockForUpdate(tx).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "Booking not found", nil
		}
		return nil, nil, "", fmt.Errorf("failed to load booking: %w", err)
	}
	var listing models.Listing
	if err := lockForUpdate(tx).First(&listing, booking.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, "Property not found", nil
		}
		return nil, nil, "", fmt.Errorf("failed to load listing: %w", err)
	}
	return &booking, &listing, "", nil
}

// GetByID returns a single booking.
func (s *BookingService) GetByID(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("booking_not_found")
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return &booking, nil
}

// ByGuest lists a guest's bookings, newest first.
func (s *BookingService) ByGuest(guestID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.Where("guest_id = ?", guestID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, nil
}

func (s *BookingService) hostScope(hostID uint) *gorm.DB {
	return s.DB.
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.host_id = ?", hostID)
}

// ForHost lists every booking against the host's listings, newest first.
func (s *BookingService) ForHost(hostID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.hostScope(hostID).Order("bookings.created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list host bookings: %w", err)
	}
	return list, nil
}

// PendingForHost lists the host's pending requests, oldest first so the
// queue is worked in arrival order.
func (s *BookingService) PendingForHost(hostID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.hostScope(hostID).
		Where("bookings.status = ?", models.BookingStatusPending).
		Order("bookings.created_at ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	return list, nil
}

// UpcomingForHost lists the host's confirmed stays that have not started
// yet, by check-in date.
func (s *BookingService) UpcomingForHost(hostID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.hostScope(hostID).
		Where("bookings.status = ? AND bookings.check_in > ?", models.BookingStatusConfirmed, utils.Today()).
		Order("bookings.check_in ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}
	return list, nil
}

// ActiveForHost lists the host's in-stay bookings.
func (s *BookingService) ActiveForHost(hostID uint) ([]models.Booking, error) {
	candidates, err := s.ForHost(hostID)
	if err != nil {
		return nil, err
	}
	today := utils.Today()
	active := make([]models.Booking, 0)
	for _, b := range candidates {
		if b.IsCurrentStay(today) {
			active = append(active, b)
		}
	}
	return active, nil
}

// All lists every booking, newest first.
func (s *BookingService) All() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, nil
}

// ByRole scopes the booking collection to what the caller may see: admins
// see everything, hosts their listings' bookings, guests their own.
func (s *BookingService) ByRole(userID uint, role string) ([]models.Booking, error) {
	switch role {
	case models.RoleAdmin:
		return s.All()
	case models.RoleHost:
		return s.ForHost(userID)
	case models.RoleGuest:
		return s.ByGuest(userID)
	default:
		return []models.Booking{}, nil
	}
}

// Statistics summarizes the host's bookings; revenue counts completed
// stays only.
func (s *BookingService) Statistics(hostID uint) (BookingStatistics, error) {
	list, err := s.ForHost(hostID)
	if err != nil {
		return BookingStatistics{}, err
	}
	stats := BookingStatistics{Total: len(list)}
	for _, b := range list {
		switch b.Status {
		case models.BookingStatusPending:
			stats.Pending++
		case models.BookingStatusConfirmed:
			stats.Confirmed++
		case models.BookingStatusCompleted:
			stats.Completed++
			stats.Revenue += b.TotalPrice
		case models.BookingStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

// CanUserReview reports whether the user is the booking's guest and the
// stay is over.
func (s *BookingService) CanUserReview(bookingID, userID uint) (bool, error) {
	booking, err := s.GetByID(bookingID)
	if err != nil {
		if err.Error() == "booking_not_found" {
			return false, nil
		}
		return false, err
	}
	return booking.GuestID == userID && booking.CanBeReviewed(utils.Today()), nil
}
