package models

import (
	"strconv"
	"time"

	"stayhub-backend/utils"
)

const (
	RoleAdmin = "admin"
	RoleHost  = "host"
	RoleGuest = "guest"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Username     string `gorm:"column:username;size:64;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"column:password_hash;size:128" json:"-"`
	Email        string `gorm:"column:email;size:128" json:"email"`
	Role         string `gorm:"column:role;size:16" json:"role"`
	Active       bool   `gorm:"column:active;default:true" json:"active"`
}

const userRecordFields = 7

// ToRecord encodes the user as one flat-file line.
func (u *User) ToRecord() string {
	return utils.JoinFields(
		strconv.FormatUint(uint64(u.ID), 10),
		u.Username,
		u.PasswordHash,
		u.Email,
		u.Role,
		u.CreatedAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(u.Active),
	)
}

// UserFromRecord decodes one flat-file line back into a user.
func UserFromRecord(line string) (User, error) {
	parts, err := utils.SplitFields(line, userRecordFields)
	if err != nil {
		return User{}, err
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return User{}, err
	}
	createdAt, err := time.Parse(time.RFC3339, parts[5])
	if err != nil {
		return User{}, err
	}
	active, err := strconv.ParseBool(parts[6])
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           uint(id),
		Username:     parts[1],
		PasswordHash: parts[2],
		Email:        parts[3],
		Role:         parts[4],
		CreatedAt:    createdAt,
		Active:       active,
	}, nil
}
