package models

import (
	"time"

	"gorm.io/gorm"
)

// Urgency levels for messages and notifications. The level affects display
// order and the icon/label used when composing notification text.
const (
	UrgencyLow    = "low"
	UrgencyNormal = "normal"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// ValidUrgencies lists the accepted urgency values in ascending order
var ValidUrgencies = []string{UrgencyLow, UrgencyNormal, UrgencyMedium, UrgencyHigh}

// IsValidUrgency reports whether u is one of the enumerated urgency levels
func IsValidUrgency(u string) bool {
	for _, v := range ValidUrgencies {
		if u == v {
			return true
		}
	}
	return false
}

// Message represents a message sent inside a lot conversation.
// Messages are immutable once created.
type Message struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	LotID       uint           `gorm:"not null;index" json:"lot_id"` // foreign key to lots table
	Lot         Lot            `gorm:"foreignKey:LotID" json:"-"`    // don't include full lot in JSON
	SenderID    uint           `gorm:"not null;index" json:"sender_id"`
	Sender      User           `gorm:"foreignKey:SenderID" json:"sender"`
	RecipientID *uint          `gorm:"index" json:"recipient_id"` // nullable, schema allows broadcast later
	Recipient   *User          `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Subject     string         `gorm:"not null" json:"subject"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Urgency     string         `gorm:"not null;default:'normal'" json:"urgency"` // low, normal, medium, high
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
