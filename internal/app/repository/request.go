package repository

import (
	"errors"
	"time"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request methods.

func (r *Repository) CreateRequest(ownerID uuid.UUID, title, description string) (*ds.Request, error) {
	now := time.Now()
	request := ds.Request{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      string(lifecycle.StatusInReview),
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *Repository) GetRequestByID(id uuid.UUID) (*ds.Request, error) {
	var request ds.Request
	err := r.db.Preload("Owner").Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// GetRequests lists requests newest first. ownerID narrows the listing to one
// owner; nil returns everything (admin view). status optionally filters.
func (r *Repository) GetRequests(ownerID *uuid.UUID, status string) ([]ds.Request, error) {
	query := r.db.Preload("Owner").Order("created_at DESC")
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []ds.Request
	err := query.Find(&requests).Error
	return requests, err
}

// UpdateRequestStatus commits a planned transition with a conditional update:
// the row changes only while it still holds the expected previous status. Two
// admins racing on the same request get exactly one winner; the loser sees
// ErrStatusConflict.
func (r *Repository) UpdateRequestStatus(id uuid.UUID, from, to lifecycle.Status) error {
	result := r.db.Model(&ds.Request{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&ds.Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return lifecycle.ErrNotFound
		}
		return lifecycle.ErrStatusConflict
	}
	return nil
}

// UpdateEstimatedCost sets or clears the admin's price estimate.
func (r *Repository) UpdateEstimatedCost(id uuid.UUID, amount *float64) error {
	result := r.db.Model(&ds.Request{}).
		Where("id = ?", id).
		Update("estimated_cost", amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}
