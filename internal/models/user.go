// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// User identity. The ID is the external auth provider's subject for
// provider sign-ins, or a generated uuid for local (admin console) accounts.
// Users are upserted on every authentication and never deleted here.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:255"`
	FirstName       string    `json:"first_name" gorm:"size:100"`
	LastName        string    `json:"last_name" gorm:"size:100"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"size:512"`
	PasswordHash    string    `json:"-" gorm:"size:255"`
	IsAdmin         bool      `json:"is_admin" gorm:"default:false"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
