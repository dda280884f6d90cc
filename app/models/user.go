package models

import "gorm.io/gorm"

// Roles assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the primary user model. PointsBalance is denormalized from the
// points ledger: every mutation happens in the same transaction as the
// matching PointsTransaction insert.
type User struct {
	gorm.Model
	FullName      string `gorm:"size:255;not null"             json:"full_name"`
	Email         string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	AvatarURL     string `gorm:"size:512"                      json:"avatar_url,omitempty"`
	Role          string `gorm:"size:50;default:user"          json:"role"`
	PointsBalance int    `gorm:"not null;default:0"            json:"points_balance"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
