package models

import (
	"time"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string    `gorm:"size:100" json:"first_name"`
	LastName       string    `gorm:"size:100" json:"last_name"`
	Password       string    `gorm:"not null" json:"-"` // Hash
	// Role holds the role name, not a foreign key into the roles table.
	// Access checks compare against the literal name ("admin"); the roles
	// table is the admin-managed catalog those names come from.
	Role           string    `gorm:"size:20;default:'user';not null" json:"role"`
	EmailConfirmed bool      `gorm:"default:false" json:"email_confirmed"`
	ConfirmToken   string    `gorm:"size:64" json:"-"` // current confirmation token, replaced on re-issue
	Ideas          []Idea    `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayName is used in views and outgoing mail.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
