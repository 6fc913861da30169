package models

import (
	"time"
)

type Idea struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	DateWritten time.Time `gorm:"not null" json:"date_written"` // set at creation, never updated
	AuthorID    *uint     `gorm:"index" json:"author_id"`
	Author      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author,omitempty"`
	VoteCount   int       `gorm:"not null;default:0" json:"vote_count"`
	Voters      *string   `json:"-"` // comma separated user IDs, NULL when nobody voted
	Version     uint      `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether userID may edit or delete the idea. An idea whose
// author account was deleted keeps existing but belongs to nobody.
func (i *Idea) OwnedBy(userID uint) bool {
	return i.AuthorID != nil && *i.AuthorID == userID
}
