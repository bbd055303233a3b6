package model

import (
	"time"
)

// User represents a registered account. Permissions is a bitmask computed
// from the named permission table in the auth service.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"type:varchar(64);not null" json:"-"` // bcrypt hash, never serialized
	Email        string    `gorm:"type:varchar(127);not null" json:"email"`
	FullName     string    `gorm:"type:varchar(32);not null" json:"full_name"`
	Disabled     bool      `gorm:"not null;default:false" json:"disabled"`
	Permissions  int64     `gorm:"not null;default:0" json:"-"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
}

// UserRef is the public reference to an author embedded in recipe and
// book responses.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Ref returns the public reference of the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

// RefreshToken is the persisted half of a refresh credential. ID is the
// token's jti claim; the signed JWT itself is never stored.
type RefreshToken struct {
	ID        string    `gorm:"type:varchar(32);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
