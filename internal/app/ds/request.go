package ds

import (
	"time"

	"github.com/google/uuid"
)

// Request is a customer's automation request and its workflow status.
// Status values: in_review, approved, in_progress, completed, denied.
type Request struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:text;not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'in_review'"`
	EstimatedCost *float64  `gorm:"type:decimal(12,2)"` // null until an admin prices it
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	Owner User `gorm:"foreignKey:UserID"`
}
