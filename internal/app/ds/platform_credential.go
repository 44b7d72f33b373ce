package ds

import (
	"time"

	"github.com/google/uuid"
)

// PlatformCredential stores access details a customer hands over so admins can
// build the automation. The payload shape varies per platform (username/password,
// API key, free text), so it is kept as a JSON document.
type PlatformCredential struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;index"`
	PlatformName string    `gorm:"type:varchar(100);not null"`
	Credentials  string    `gorm:"type:text;not null"` // JSON payload
	CreatedAt    time.Time `gorm:"not null"`
}
