package models

import (
	"time"
)

// User represents a registered player.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Avatar       *string   `gorm:"size:500" json:"avatar,omitempty"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	Role         string    `gorm:"size:20;not null;default:user" json:"role"`
	State        *string   `gorm:"size:100" json:"state,omitempty"`
	District     *string   `gorm:"size:100" json:"district,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// PublicProfile returns the fields safe to expose on leaderboards and
// public prediction listings.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"username":  u.Username,
		"full_name": u.FullName,
		"avatar":    u.Avatar,
		"points":    u.Points,
	}
}
