package repository

import (
	"errors"
	"time"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment methods. Payments are append-only: rows are never updated.

// CreatePayment appends a payment row. A non-nil idempotency key is enforced
// with a unique index; a duplicate insert reports ErrDuplicateInvoice so
// re-running invoice creation cannot bill a customer twice.
func (r *Repository) CreatePayment(requestID, userID uuid.UUID, amount float64, status, method, paymentRef string, idempotencyKey *string) (*ds.Payment, error) {
	payment := ds.Payment{
		ID:             uuid.New(),
		RequestID:      requestID,
		UserID:         userID,
		Amount:         amount,
		Status:         status,
		PaymentMethod:  method,
		PaymentRef:     paymentRef,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}

	if err := r.db.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, lifecycle.ErrDuplicateInvoice
		}
		return nil, err
	}
	return &payment, nil
}

// HasCompletedPayment reports whether the request is paid.
func (r *Repository) HasCompletedPayment(requestID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Payment{}).
		Where("request_id = ? AND status = ?", requestID, ds.PaymentCompleted).
		Count(&count).Error
	return count > 0, err
}

// CompletedPaymentRequestIDs reports which of the given requests are paid,
// with a single query for the whole listing.
func (r *Repository) CompletedPaymentRequestIDs(requestIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	paid := make(map[uuid.UUID]bool, len(requestIDs))
	if len(requestIDs) == 0 {
		return paid, nil
	}

	var ids []uuid.UUID
	err := r.db.Model(&ds.Payment{}).
		Where("request_id IN ? AND status = ?", requestIDs, ds.PaymentCompleted).
		Distinct().
		Pluck("request_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		paid[id] = true
	}
	return paid, nil
}

// HasInvoicePayment reports whether an invoice was already issued for the
// request, regardless of whether it has been paid yet.
func (r *Repository) HasInvoicePayment(requestID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Payment{}).
		Where("request_id = ? AND payment_method = ?", requestID, ds.PaymentMethodInvoice).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetPaymentsByRequest(requestID uuid.UUID) ([]ds.Payment, error) {
	var payments []ds.Payment
	err := r.db.Where("request_id = ?", requestID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
