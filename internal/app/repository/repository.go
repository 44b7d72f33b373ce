package repository

import (
	"fmt"

	"processpilot/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// New connects to Postgres and migrates the schema.
func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm connection. Tests use this with an
// in-memory sqlite database.
func NewWithDB(db *gorm.DB) (*Repository, error) {
	err := db.AutoMigrate(
		&ds.User{},
		&ds.UserRole{},
		&ds.Request{},
		&ds.Payment{},
		&ds.PlatformCredential{},
		&ds.RequestAttachment{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}
