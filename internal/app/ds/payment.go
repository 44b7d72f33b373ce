package ds

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// Payment methods.
const (
	PaymentMethodCard    = "card"
	PaymentMethodInvoice = "invoice"
)

// Payment is an append-only record of money owed or received for a request.
// A request counts as paid when it has at least one completed payment.
type Payment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null"`
	Amount         float64   `gorm:"type:decimal(12,2);not null"`
	Status         string    `gorm:"type:varchar(20);not null"`
	PaymentMethod  string    `gorm:"type:varchar(50);not null"`
	PaymentRef     string    `gorm:"type:varchar(100)"` // Stripe intent or invoice id
	IdempotencyKey *string   `gorm:"type:varchar(100);uniqueIndex"`
	CreatedAt      time.Time `gorm:"not null"`
}
