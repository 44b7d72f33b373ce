package repository

import (
	"errors"
	"time"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment metadata methods. File bodies live in MinIO.

func (r *Repository) CreateAttachment(requestID uuid.UUID, fileName, objectKey, contentType string, size int64) (*ds.RequestAttachment, error) {
	attachment := ds.RequestAttachment{
		ID:          uuid.New(),
		RequestID:   requestID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
		CreatedAt:   time.Now(),
	}

	if err := r.db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *Repository) GetAttachmentsByRequest(requestID uuid.UUID) ([]ds.RequestAttachment, error) {
	var attachments []ds.RequestAttachment
	err := r.db.Where("request_id = ?", requestID).Order("created_at DESC").Find(&attachments).Error
	return attachments, err
}

func (r *Repository) GetAttachmentByID(id uuid.UUID) (*ds.RequestAttachment, error) {
	var attachment ds.RequestAttachment
	err := r.db.Where("id = ?", id).First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lifecycle.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}
