// services/export_service.go
package services

import (
	"fmt"
	"log"
	"path/filepath"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stayhub-backend/models"
	"stayhub-backend/utils"
)

// ExportService dumps and restores the entity collections as flat text
// files: one file per collection, one record per line, comma-separated
// fields with semicolon-separated lists inside a field.
type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

const (
	usersFile    = "users.txt"
	listingsFile = "listings.txt"
	bookingsFile = "bookings.txt"
	messagesFile = "messages.txt"
	reviewsFile  = "reviews.txt"
)

// ExportAll writes every collection into dir, overwriting existing files.
func (s *ExportService) ExportAll(dir string) error {
	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	lines := make([]string, 0, len(users))
	for i := range users {
		lines = append(lines, users[i].ToRecord())
	}
	if err := utils.WriteLines(filepath.Join(dir, usersFile), lines); err != nil {
		return err
	}

	var listings []models.Listing
	if err := s.DB.Find(&listings).Error; err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}
	lines = lines[:0]
	for i := range listings {
		lines = append(lines, listings[i].ToRecord())
	}
	if err := utils.WriteLines(filepath.Join(dir, listingsFile), lines); err != nil {
		return err
	}

	var bookings []models.Booking
	if err := s.DB.Find(&bookings).Error; err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	lines = lines[:0]
	for i := range bookings {
		lines = append(lines, bookings[i].ToRecord())
	}
	if err := utils.WriteLines(filepath.Join(dir, bookingsFile), lines); err != nil {
		return err
	}

	var messages []models.Message
	if err := s.DB.Find(&messages).Error; err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	lines = lines[:0]
	for i := range messages {
		lines = append(lines, messages[i].ToRecord())
	}
	if err := utils.WriteLines(filepath.Join(dir, messagesFile), lines); err != nil {
		return err
	}

	var reviews []models.Review
	if err := s.DB.Find(&reviews).Error; err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}
	lines = lines[:0]
	for i := range reviews {
		lines = append(lines, reviews[i].ToRecord())
	}
	return utils.WriteLines(filepath.Join(dir, reviewsFile), lines)
}

// ImportAll loads every collection file found in dir and upserts the
// records by primary key. Malformed lines are logged and skipped; a
// missing file is an empty collection.
func (s *ExportService) ImportAll(dir string) error {
	if err := importCollection(dir, usersFile, models.UserFromRecord, s.upsertUser); err != nil {
		return err
	}
	if err := importCollection(dir, listingsFile, models.ListingFromRecord, s.upsertListing); err != nil {
		return err
	}
	if err := importCollection(dir, bookingsFile, models.BookingFromRecord, s.upsertBooking); err != nil {
		return err
	}
	if err := importCollection(dir, messagesFile, models.MessageFromRecord, s.upsertMessage); err != nil {
		return err
	}
	return importCollection(dir, reviewsFile, models.ReviewFromRecord, s.upsertReview)
}

func importCollection[T any](dir, name string, decode func(string) (T, error), store func(*T) error) error {
	lines, err := utils.ReadLines(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	for _, line := range lines {
		record, err := decode(line)
		if err != nil {
			log.Printf("skipping malformed %s record: %v", name, err)
			continue
		}
		if err := store(&record); err != nil {
			return fmt.Errorf("failed to import %s record: %w", name, err)
		}
	}
	return nil
}

func upsert[T any](db *gorm.DB, record *T) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

func (s *ExportService) upsertUser(u *models.User) error       { return upsert(s.DB, u) }
func (s *ExportService) upsertListing(l *models.Listing) error { return upsert(s.DB, l) }
func (s *ExportService) upsertBooking(b *models.Booking) error { return upsert(s.DB, b) }
func (s *ExportService) upsertMessage(m *models.Message) error { return upsert(s.DB, m) }
func (s *ExportService) upsertReview(r *models.Review) error   { return upsert(s.DB, r) }
