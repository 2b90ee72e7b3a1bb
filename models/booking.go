package models

import (
	"strconv"
	"time"

	"stayhub-backend/utils"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Refund tiers applied when a cancellable booking is cancelled, keyed on
// whole days remaining until check-in.
const (
	refundFullWindowDays = 7
	refundHalfWindowDays = 3
	refundFullRate       = 0.8
	refundHalfRate       = 0.5
)

// Booking is a guest's reservation against a listing for a half-open
// [CheckIn, CheckOut) date range. TotalPrice is fixed at booking (or edit)
// time and never recomputed when the listing price changes.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	ReferenceCode  string    `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	ListingID      uint      `gorm:"index;column:listing_id" json:"listing_id"`
	GuestID        uint      `gorm:"index;column:guest_id" json:"guest_id"`
	CheckIn        time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut       time.Time `gorm:"column:check_out" json:"check_out"`
	NumberOfGuests int       `gorm:"column:number_of_guests" json:"number_of_guests"`
	TotalPrice     float64   `gorm:"column:total_price" json:"total_price"`
	Status         string    `gorm:"column:status;size:32" json:"status"`
}

func validStatusTransition(from, to string) bool {
	switch from {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusRejected || to == BookingStatusCancelled
	case BookingStatusConfirmed:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	default:
		// completed, rejected and cancelled are terminal
		return false
	}
}

// TransitionTo applies a status change when the state machine allows it.
// Invalid transitions leave the status unchanged and return false.
func (b *Booking) TransitionTo(status string) bool {
	if !validStatusTransition(b.Status, status) {
		return false
	}
	b.Status = status
	return true
}

// CanBeCancelled reports whether the booking is still cancellable.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CanBeReviewed reports whether the stay is over: completed with the
// check-out day strictly in the past.
func (b *Booking) CanBeReviewed(today time.Time) bool {
	return b.Status == BookingStatusCompleted && utils.DateOnly(b.CheckOut).Before(utils.DateOnly(today))
}

// IsUpcoming reports whether the stay has not started yet.
func (b *Booking) IsUpcoming(today time.Time) bool {
	if b.Status != BookingStatusPending && b.Status != BookingStatusConfirmed {
		return false
	}
	return utils.DateOnly(b.CheckIn).After(utils.DateOnly(today))
}

// IsCurrentStay reports whether the guest is staying right now: confirmed
// with today inside [CheckIn, CheckOut] inclusive.
func (b *Booking) IsCurrentStay(today time.Time) bool {
	if b.Status != BookingStatusConfirmed {
		return false
	}
	day := utils.DateOnly(today)
	return !utils.DateOnly(b.CheckIn).After(day) && !utils.DateOnly(b.CheckOut).Before(day)
}

// Nights returns the length of the stay in whole days.
func (b *Booking) Nights() int {
	return utils.NightsBetween(b.CheckIn, b.CheckOut)
}

// RefundAmount computes the refund due if the booking were cancelled today.
// The policy is evaluated at cancellation time, not frozen at booking time.
func (b *Booking) RefundAmount(today time.Time) float64 {
	if !b.CanBeCancelled() {
		return 0
	}
	days := utils.DaysUntil(today, b.CheckIn)
	switch {
	case days >= refundFullWindowDays:
		return b.TotalPrice * refundFullRate
	case days >= refundHalfWindowDays:
		return b.TotalPrice * refundHalfRate
	default:
		return 0
	}
}

const bookingRecordFields = 10

// ToRecord encodes the booking as one flat-file line.
func (b *Booking) ToRecord() string {
	return utils.JoinFields(
		strconv.FormatUint(uint64(b.ID), 10),
		b.ReferenceCode,
		strconv.FormatUint(uint64(b.ListingID), 10),
		strconv.FormatUint(uint64(b.GuestID), 10),
		utils.FormatDate(b.CheckIn),
		utils.FormatDate(b.CheckOut),
		strconv.Itoa(b.NumberOfGuests),
		strconv.FormatFloat(b.TotalPrice, 'f', -1, 64),
		b.Status,
		b.CreatedAt.UTC().Format(time.RFC3339),
	)
}

// BookingFromRecord decodes one flat-file line back into a booking.
func BookingFromRecord(line string) (Booking, error) {
	parts, err := utils.SplitFields(line, bookingRecordFields)
	if err != nil {
		return Booking{}, err
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Booking{}, err
	}
	listingID, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return Booking{}, err
	}
	guestID, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return Booking{}, err
	}
	checkIn, err := utils.ParseDate(parts[4])
	if err != nil {
		return Booking{}, err
	}
	checkOut, err := utils.ParseDate(parts[5])
	if err != nil {
		return Booking{}, err
	}
	guests, err := strconv.Atoi(parts[6])
	if err != nil {
		return Booking{}, err
	}
	price, err := strconv.ParseFloat(parts[7], 64)
	if err != nil {
		return Booking{}, err
	}
	createdAt, err := time.Parse(time.RFC3339, parts[9])
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		ID:             uint(id),
		ReferenceCode:  parts[1],
		ListingID:      uint(listingID),
		GuestID:        uint(guestID),
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		NumberOfGuests: guests,
		TotalPrice:     price,
		Status:         parts[8],
		CreatedAt:      createdAt,
	}, nil
}
