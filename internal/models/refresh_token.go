package models

import (
	"time"
)

// RefreshToken is a stored refresh token for a staff account. Tokens are
// rotated on every refresh: the used row is revoked and a new row inserted,
// so a replayed token is rejected.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
