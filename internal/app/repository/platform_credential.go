package repository

import (
	"time"

	"processpilot/internal/app/ds"

	"github.com/google/uuid"
)

// Platform credential methods. Written by the request owner, read by admins.

func (r *Repository) CreateCredential(requestID uuid.UUID, platformName, credentialsJSON string) (*ds.PlatformCredential, error) {
	credential := ds.PlatformCredential{
		ID:           uuid.New(),
		RequestID:    requestID,
		PlatformName: platformName,
		Credentials:  credentialsJSON,
		CreatedAt:    time.Now(),
	}

	if err := r.db.Create(&credential).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *Repository) GetCredentialsByRequest(requestID uuid.UUID) ([]ds.PlatformCredential, error) {
	var credentials []ds.PlatformCredential
	err := r.db.Where("request_id = ?", requestID).Order("created_at DESC").Find(&credentials).Error
	return credentials, err
}
