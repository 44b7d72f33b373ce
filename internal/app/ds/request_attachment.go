package ds

import (
	"time"

	"github.com/google/uuid"
)

// RequestAttachment is supporting material uploaded with a request. The file
// body lives in object storage; this row carries the object key.
type RequestAttachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ObjectKey   string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	Size        int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
