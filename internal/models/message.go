package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength is the maximum number of characters in a message.
const MaxMessageLength = 140

// Message is a short post owned by exactly one user.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	CreatedAt time.Time `gorm:"not null;index" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// LikedByMe is set only when the request has a known viewer.
	LikedByMe *bool `gorm:"-" json:"liked_by_me,omitempty"`
}

// NewMessage builds an unsaved message for userID and validates it.
func NewMessage(userID uint, text string) (*Message, error) {
	m := &Message{UserID: userID, Text: text}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the text length and owner.
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return NewValidationError("Message text is required")
	}
	if utf8.RuneCountInString(m.Text) > MaxMessageLength {
		return NewValidationError(fmt.Sprintf("Message too long (max %d characters)", MaxMessageLength))
	}
	if m.UserID == 0 {
		return NewValidationError("Message must belong to a user")
	}
	return nil
}

// OwnedBy reports whether userID authored the message.
func (m *Message) OwnedBy(userID uint) bool {
	return m != nil && userID != 0 && m.UserID == userID
}

func (m Message) String() string {
	return fmt.Sprintf("<Message #%d: User ID- %d, %s>", m.ID, m.UserID, m.Text)
}
