package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub-backend/models"
	"stayhub-backend/utils"
)

func TestBookingLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	checkIn := daysFromNow(10)
	checkOut := daysFromNow(13)

	res, err := svc.Create(listing.ID, guest.ID, checkIn, checkOut, 2)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Booking)
	assert.Equal(t, models.BookingStatusPending, res.Booking.Status)
	assert.Equal(t, 300.0, res.Booking.TotalPrice)
	assert.NotEmpty(t, res.Booking.ReferenceCode)

	// Three nights reserved on the listing, checkout day excluded.
	listing = reloadListing(t, db, listing.ID)
	set := listing.BookedDateSet()
	assert.Len(t, set, 3)
	assert.True(t, set[utils.FormatDate(checkIn)])
	assert.False(t, set[utils.FormatDate(checkOut)])

	res, err = svc.Confirm(res.Booking.ID, host.ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, models.BookingStatusConfirmed, res.Booking.Status)

	// Cancelled 10 days before check-in: 80% refund.
	res, err = svc.Cancel(res.Booking.ID, guest.ID)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 240.0, res.Refund)
	assert.Contains(t, res.Message, "$240.00")

	// Calendar freed again.
	listing = reloadListing(t, db, listing.ID)
	assert.Empty(t, listing.BookedDateSet())
}

func TestCreateValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 50, 2)

	t.Run("past check-in", func(t *testing.T) {
		res, err := svc.Create(listing.ID, guest.ID, daysFromNow(-1), daysFromNow(2), 1)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Check-in date cannot be in the past", res.Message)
	})

	t.Run("check-out not after check-in", func(t *testing.T) {
		res, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(5), 1)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Check-out date must be after check-in date", res.Message)
	})

	t.Run("unknown listing", func(t *testing.T) {
		res, err := svc.Create(9999, guest.ID, daysFromNow(5), daysFromNow(7), 1)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Property not found", res.Message)
	})

	t.Run("unknown listing wins over bad dates", func(t *testing.T) {
		res, err := svc.Create(9999, guest.ID, daysFromNow(-1), daysFromNow(1), 1)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Property not found", res.Message)
	})

	t.Run("inactive listing", func(t *testing.T) {
		inactive := createListing(t, db, host.ID, 50, 2)
		require.NoError(t, db.Model(inactive).Update("active", false).Error)
		res, err := svc.Create(inactive.ID, guest.ID, daysFromNow(5), daysFromNow(7), 1)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Property is no longer active", res.Message)
	})

	t.Run("too many guests", func(t *testing.T) {
		res, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 3)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Number of guests exceeds property capacity", res.Message)
	})

	t.Run("zero guests", func(t *testing.T) {
		res, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 0)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Number of guests must be at least 1", res.Message)
	})
}

func TestCreateConflictingDates(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guestA := createUser(t, db, "guestA", models.RoleGuest)
	guestB := createUser(t, db, "guestB", models.RoleGuest)
	listing := createListing(t, db, host.ID, 80, 4)

	res, err := svc.Create(listing.ID, guestA.ID, daysFromNow(5), daysFromNow(8), 2)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	// Overlapping request is refused even while the first is only pending.
	res, err = svc.Create(listing.ID, guestB.ID, daysFromNow(7), daysFromNow(9), 2)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Selected dates are not available", res.Message)

	// Back-to-back is fine: checkout day is not reserved.
	res, err = svc.Create(listing.ID, guestB.ID, daysFromNow(8), daysFromNow(10), 2)
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)
}

func TestRejectReleasesDates(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	other := createUser(t, db, "guest2", models.RoleGuest)
	listing := createListing(t, db, host.ID, 60, 2)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(4), daysFromNow(6), 1)
	require.NoError(t, err)
	require.True(t, res.Success)
	bookingID := res.Booking.ID

	res, err = svc.Reject(bookingID, host.ID, "maintenance work")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "Booking rejected. Reason: maintenance work", res.Message)
	assert.Equal(t, models.BookingStatusRejected, res.Booking.Status)

	// The freed range can be booked again right away.
	res, err = svc.Create(listing.ID, other.ID, daysFromNow(4), daysFromNow(6), 1)
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)
}

func TestConfirmedBookingCannotBeRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 60, 2)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(4), daysFromNow(6), 1)
	require.NoError(t, err)
	bookingID := res.Booking.ID

	res, err = svc.Confirm(bookingID, host.ID)
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = svc.Reject(bookingID, host.ID, "")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Only pending bookings can be rejected", res.Message)

	// Status untouched, dates still held.
	assert.Equal(t, models.BookingStatusConfirmed, reloadBooking(t, db, bookingID).Status)
	assert.Len(t, reloadListing(t, db, listing.ID).BookedDateSet(), 2)
}

func TestHostAuthorization(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	stranger := createUser(t, db, "host2", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 60, 2)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(4), daysFromNow(6), 1)
	require.NoError(t, err)
	bookingID := res.Booking.ID

	res, err = svc.Confirm(bookingID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "You are not authorized to confirm this booking", res.Message)

	res, err = svc.Cancel(bookingID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "You are not authorized to cancel this booking", res.Message)
}

func TestCompleteRequiresPastCheckout(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 60, 2)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(4), daysFromNow(6), 1)
	require.NoError(t, err)
	bookingID := res.Booking.ID
	_, err = svc.Confirm(bookingID, host.ID)
	require.NoError(t, err)

	res, err = svc.Complete(bookingID, host.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Cannot complete booking before check-out date", res.Message)

	// Move the stay into the past; completion then succeeds.
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", bookingID).Updates(map[string]interface{}{
		"check_in":  daysFromNow(-5),
		"check_out": daysFromNow(-2),
	}).Error)
	res, err = svc.Complete(bookingID, host.ID)
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)
	assert.Equal(t, models.BookingStatusCompleted, reloadBooking(t, db, bookingID).Status)
}

func TestCancelRefundTiers(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)

	cases := []struct {
		name       string
		daysAhead  int
		wantRefund float64
	}{
		{"full window", 7, 160},
		{"half window", 3, 100},
		{"late cancellation", 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := createListing(t, db, host.ID, 100, 2)
			res, err := svc.Create(listing.ID, guest.ID, daysFromNow(tc.daysAhead), daysFromNow(tc.daysAhead+2), 1)
			require.NoError(t, err)
			require.True(t, res.Success, res.Message)

			res, err = svc.Cancel(res.Booking.ID, guest.ID)
			require.NoError(t, err)
			require.True(t, res.Success, res.Message)
			assert.Equal(t, tc.wantRefund, res.Refund)
			if tc.wantRefund == 0 {
				assert.Equal(t, "Booking cancelled successfully", res.Message)
			}
		})
	}
}

func TestHostCancelMessageHasNoRefundFraming(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 2)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(10), daysFromNow(12), 1)
	require.NoError(t, err)

	res, err = svc.Cancel(res.Booking.ID, host.ID)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "Booking cancelled successfully", res.Message)
	assert.Equal(t, 160.0, res.Refund)
}

func TestEditMovesReservation(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 2)
	require.NoError(t, err)
	require.True(t, res.Success)
	bookingID := res.Booking.ID

	// Move to a range overlapping the old one; must not self-conflict.
	res, err = svc.Edit(bookingID, guest.ID, daysFromNow(6), daysFromNow(9), 3)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 300.0, res.Booking.TotalPrice)
	assert.Equal(t, 3, res.Booking.NumberOfGuests)

	listing = reloadListing(t, db, listing.ID)
	set := listing.BookedDateSet()
	assert.Len(t, set, 3)
	assert.False(t, set[utils.FormatDate(daysFromNow(5))])
	assert.True(t, set[utils.FormatDate(daysFromNow(6))])
	assert.True(t, set[utils.FormatDate(daysFromNow(8))])
}

func TestEditBlockedBySibling(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guestA := createUser(t, db, "guestA", models.RoleGuest)
	guestB := createUser(t, db, "guestB", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	resA, err := svc.Create(listing.ID, guestA.ID, daysFromNow(5), daysFromNow(7), 2)
	require.NoError(t, err)
	resB, err := svc.Create(listing.ID, guestB.ID, daysFromNow(10), daysFromNow(12), 2)
	require.NoError(t, err)
	require.True(t, resB.Success)

	// A tries to move onto B's range.
	res, err := svc.Edit(resA.Booking.ID, guestA.ID, daysFromNow(11), daysFromNow(13), 2)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "New dates are not available", res.Message)

	// Original reservation survives the failed edit.
	booking := reloadBooking(t, db, resA.Booking.ID)
	assert.Equal(t, utils.FormatDate(daysFromNow(5)), utils.FormatDate(booking.CheckIn))
	set := reloadListing(t, db, listing.ID).BookedDateSet()
	assert.True(t, set[utils.FormatDate(daysFromNow(5))])
	assert.True(t, set[utils.FormatDate(daysFromNow(6))])
}

func TestEditOnlyPending(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 2)
	require.NoError(t, err)
	bookingID := res.Booking.ID
	_, err = svc.Confirm(bookingID, host.ID)
	require.NoError(t, err)

	res, err = svc.Edit(bookingID, guest.ID, daysFromNow(8), daysFromNow(10), 2)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Only pending bookings can be edited", res.Message)
}

func TestDeleteBooking(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 2)
	require.NoError(t, err)
	bookingID := res.Booking.ID
	_, err = svc.Confirm(bookingID, host.ID)
	require.NoError(t, err)

	// Confirmed bookings are not deletable.
	res, err = svc.Delete(bookingID, guest.ID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Only pending or cancelled bookings can be deleted", res.Message)

	_, err = svc.Cancel(bookingID, guest.ID)
	require.NoError(t, err)

	res, err = svc.Delete(bookingID, guest.ID)
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)

	_, err = svc.GetByID(bookingID)
	require.Error(t, err)
	assert.Equal(t, "booking_not_found", err.Error())
}

func TestQueriesAndStatistics(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	otherHost := createUser(t, db, "host2", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	admin := createUser(t, db, "admin", models.RoleAdmin)
	listing := createListing(t, db, host.ID, 100, 4)
	otherListing := createListing(t, db, otherHost.ID, 100, 4)

	res1, err := svc.Create(listing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 2)
	require.NoError(t, err)
	res2, err := svc.Create(listing.ID, guest.ID, daysFromNow(10), daysFromNow(12), 2)
	require.NoError(t, err)
	res3, err := svc.Create(otherListing.ID, guest.ID, daysFromNow(5), daysFromNow(7), 2)
	require.NoError(t, err)
	require.True(t, res3.Success)

	_, err = svc.Confirm(res2.Booking.ID, host.ID)
	require.NoError(t, err)

	// Complete a past stay, bypassing the calendar for setup.
	_, err = svc.Confirm(res1.Booking.ID, host.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", res1.Booking.ID).Updates(map[string]interface{}{
		"check_in":  daysFromNow(-6),
		"check_out": daysFromNow(-4),
	}).Error)
	compRes, err := svc.Complete(res1.Booking.ID, host.ID)
	require.NoError(t, err)
	require.True(t, compRes.Success, compRes.Message)

	hostBookings, err := svc.ForHost(host.ID)
	require.NoError(t, err)
	assert.Len(t, hostBookings, 2)

	guestBookings, err := svc.ByGuest(guest.ID)
	require.NoError(t, err)
	assert.Len(t, guestBookings, 3)

	upcoming, err := svc.UpcomingForHost(host.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, res2.Booking.ID, upcoming[0].ID)

	pending, err := svc.PendingForHost(host.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	adminView, err := svc.ByRole(admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, adminView, 3)

	unknownView, err := svc.ByRole(guest.ID, "visitor")
	require.NoError(t, err)
	assert.Empty(t, unknownView)

	stats, err := svc.Statistics(host.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 200.0, stats.Revenue)
}

func TestActiveForHost(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(3), daysFromNow(6), 2)
	require.NoError(t, err)
	_, err = svc.Confirm(res.Booking.ID, host.ID)
	require.NoError(t, err)

	active, err := svc.ActiveForHost(host.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Shift the stay so today falls inside it.
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", res.Booking.ID).Updates(map[string]interface{}{
		"check_in":  daysFromNow(-1),
		"check_out": daysFromNow(2),
	}).Error)
	active, err = svc.ActiveForHost(host.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, res.Booking.ID, active[0].ID)
}

func TestCanUserReview(t *testing.T) {
	db := openTestDB(t)
	svc := NewBookingService(db)

	host := createUser(t, db, "host1", models.RoleHost)
	guest := createUser(t, db, "guest1", models.RoleGuest)
	listing := createListing(t, db, host.ID, 100, 4)

	res, err := svc.Create(listing.ID, guest.ID, daysFromNow(3), daysFromNow(5), 2)
	require.NoError(t, err)
	bookingID := res.Booking.ID

	ok, err := svc.CanUserReview(bookingID, guest.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Confirm(bookingID, host.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", bookingID).Updates(map[string]interface{}{
		"check_in":  daysFromNow(-5),
		"check_out": daysFromNow(-2),
	}).Error)
	_, err = svc.Complete(bookingID, host.ID)
	require.NoError(t, err)

	ok, err = svc.CanUserReview(bookingID, guest.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanUserReview(bookingID, host.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanUserReview(9999, guest.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
