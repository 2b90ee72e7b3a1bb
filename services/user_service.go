// services/user_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stayhub-backend/models"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Register creates a host or guest account. Usernames are unique
// case-insensitively; admin accounts are only ever seeded.
func (s *UserService) Register(username, password, email, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("missing_credentials")
	}
	if role != models.RoleHost && role != models.RoleGuest {
		return nil, errors.New("invalid_role")
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, errors.New("username_taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(email),
		Role:         role,
		Active:       true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks the password of an active account.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ? AND active = ?", strings.TrimSpace(username), true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid_credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.New("invalid_credentials")
	}
	return &user, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user_not_found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// All lists every account.
func (s *UserService) All() ([]models.User, error) {
	var list []models.User
	if err := s.DB.Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return list, nil
}

// UpdateRole changes an account's role. Admin-only at the route level.
func (s *UserService) UpdateRole(userID uint, role string) error {
	if role != models.RoleAdmin && role != models.RoleHost && role != models.RoleGuest {
		return errors.New("invalid_role")
	}
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to update role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("user_not_found")
	}
	return nil
}

// Deactivate blocks an account from logging in. Records are kept because
// bookings, messages and reviews reference them.
func (s *UserService) Deactivate(userID uint) error {
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.New("user_not_found")
	}
	return nil
}
