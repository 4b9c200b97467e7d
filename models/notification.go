package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification represents an internal notification shown to a user.
// Exactly one notification is created per dispatched message with a
// resolvable recipient; RelatedMessageID is a back-reference, not ownership.
type Notification struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	LotID            uint           `gorm:"not null;index" json:"lot_id"`
	Lot              Lot            `gorm:"foreignKey:LotID" json:"-"`
	UserID           uint           `gorm:"not null;index" json:"user_id"` // target user
	User             User           `gorm:"foreignKey:UserID" json:"-"`
	Type             string         `gorm:"not null" json:"type"` // e.g. "message"
	Text             string         `gorm:"type:text;not null" json:"text"`
	Urgency          string         `gorm:"not null;default:'normal'" json:"urgency"` // copied from the message
	RelatedMessageID *uint          `gorm:"index" json:"related_message_id"`
	Read             bool           `gorm:"not null;default:false" json:"read"`
	ReadAt           *time.Time     `json:"read_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
