package models

import (
	"time"
)

// SMS delivery statuses recorded in the audit log. These three values are
// the durable audit contract; new values require a migration note.
const (
	SMSStatusSent      = "sent"
	SMSStatusFailed    = "failed"
	SMSStatusSimulated = "simulated"
)

// SMSLog is the durable audit record for one attempted SMS delivery.
// A row exists iff the recipient opted in and their phone number passed
// validation at dispatch time.
type SMSLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"` // recipient
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	MessageID   uint      `gorm:"not null;index" json:"message_id"`
	Message     Message   `gorm:"foreignKey:MessageID" json:"-"`
	PhoneNumber string    `gorm:"not null" json:"phone_number"` // as stored on the recipient, pre-normalization
	Text        string    `gorm:"type:text;not null" json:"text"`
	Status      string    `gorm:"not null" json:"status"` // sent, failed, simulated
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the SMSLog model
func (SMSLog) TableName() string {
	return "sms_logs"
}
