package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum for clinic staff
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
)

// User represents a staff member (admin, doctor or receptionist)
type User struct {
	BaseModel
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName   string     `gorm:"size:100" json:"firstName"`
	LastName    string     `gorm:"size:100" json:"lastName"`
	Role        Role       `gorm:"size:20;default:'receptionist'" json:"role"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Specialty   string     `gorm:"size:100" json:"specialty,omitempty"` // Doctors only
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt *time.Time `json:"-"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Appointments  []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	WorkSchedules []WorkSchedule `gorm:"foreignKey:DoctorID" json:"-"`
	BlockedTimes  []BlockedTime  `gorm:"foreignKey:DoctorID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        Role      `json:"role"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Specialty   string    `json:"specialty,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		PhoneNumber: u.PhoneNumber,
		Specialty:   u.Specialty,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
