// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
)

const (
	// DefaultImageURL is used when a user signs up without a profile image.
	DefaultImageURL = "/static/images/default-pic.png"
	// DefaultHeaderImageURL is the banner shown on profiles without one.
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a registered Warbler account.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Username       string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	ImageURL       string    `gorm:"type:text;default:'/static/images/default-pic.png'" json:"image_url"`
	HeaderImageURL string    `gorm:"type:text;default:'/static/images/warbler-hero.jpg'" json:"header_image_url"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Location       string    `gorm:"type:text" json:"location"`
	Password       string    `gorm:"type:text;not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Messages []Message `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`

	// Edge sets are loaded by the repository layer, never persisted through this struct.
	Following []User    `gorm:"-" json:"following,omitempty"`
	Followers []User    `gorm:"-" json:"followers,omitempty"`
	Likes     []Message `gorm:"-" json:"likes,omitempty"`
}

// IsFollowing reports whether u follows other, according to the loaded Following set.
func (u *User) IsFollowing(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	for i := range u.Following {
		if u.Following[i].ID == other.ID {
			return true
		}
	}
	return false
}

// IsFollowedBy reports whether other follows u, according to the loaded Followers set.
func (u *User) IsFollowedBy(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	for i := range u.Followers {
		if u.Followers[i].ID == other.ID {
			return true
		}
	}
	return false
}

// HasLiked reports whether msg is in the loaded Likes set.
func (u *User) HasLiked(msg *Message) bool {
	if u == nil || msg == nil {
		return false
	}
	for i := range u.Likes {
		if u.Likes[i].ID == msg.ID {
			return true
		}
	}
	return false
}

func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
