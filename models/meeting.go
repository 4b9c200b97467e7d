package models

import (
	"time"

	"gorm.io/gorm"
)

// Meeting represents a scheduled site meeting on a lot
type Meeting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	LotID     uint           `gorm:"not null;index" json:"lot_id"`
	Lot       Lot            `gorm:"foreignKey:LotID" json:"-"`
	Title     string         `gorm:"not null" json:"title"`
	Date      time.Time      `gorm:"not null" json:"date"`
	Location  string         `json:"location"`
	Agenda    string         `gorm:"type:text" json:"agenda"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Meeting model
func (Meeting) TableName() string {
	return "meetings"
}
