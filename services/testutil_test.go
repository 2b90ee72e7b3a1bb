package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stayhub-backend/models"
	"stayhub-backend/utils"
)

var testDBSeq atomic.Int64

// openTestDB gives each call its own in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Message{},
		&models.Review{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createListing(t *testing.T, db *gorm.DB, hostID uint, rate float64, maxGuests int) *models.Listing {
	t.Helper()
	listing := models.Listing{
		HostID:        hostID,
		Title:         "Test Property",
		Location:      "Porto",
		PricePerNight: rate,
		MaxGuests:     maxGuests,
		Bedrooms:      1,
		Bathrooms:     1,
		Active:        true,
	}
	listing.SetAmenityList([]string{"wifi"})
	listing.SetBookedDateSet(map[string]bool{})
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

// daysFromNow returns today+n as a calendar day.
func daysFromNow(n int) time.Time {
	return utils.Today().AddDate(0, 0, n)
}

func reloadListing(t *testing.T, db *gorm.DB, id uint) *models.Listing {
	t.Helper()
	var listing models.Listing
	require.NoError(t, db.First(&listing, id).Error)
	return &listing
}

func reloadBooking(t *testing.T, db *gorm.DB, id uint) *models.Booking {
	t.Helper()
	var booking models.Booking
	require.NoError(t, db.First(&booking, id).Error)
	return &booking
}
