package models

import (
	"time"

	"gorm.io/gorm"
)

// Lot represents a project lot (a subdivision of the construction project)
// that scopes messages, activities and meetings
type Lot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Number      int            `gorm:"not null;index" json:"number"` // display/sort order on the project
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"not null;default:'active'" json:"status"` // active, on_hold, completed
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Lot model
func (Lot) TableName() string {
	return "lots"
}
