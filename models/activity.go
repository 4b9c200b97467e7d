package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity represents a tracked work item on a lot
type Activity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	LotID       uint           `gorm:"not null;index" json:"lot_id"`
	Lot         Lot            `gorm:"foreignKey:LotID" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"not null;default:'pending'" json:"status"` // pending, in_progress, completed
	DueDate     *time.Time     `json:"due_date"`
	CreatedByID uint           `gorm:"not null;index" json:"created_by_id"`
	CreatedBy   User           `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Activity model
func (Activity) TableName() string {
	return "activities"
}
