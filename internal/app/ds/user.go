package ds

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account. Profile fields live here too; the service
// owns auth, so there is no separate profiles table.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(100);unique;not null"`
	Password  string    `gorm:"type:varchar(255);not null"` // sha-1 hex
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	Company   string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"not null"`
}

// FullName joins first and last name, handling either being empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// UserRole grants a named role to a user. Presence of an "admin" row is the
// single source of truth for admin access.
type UserRole struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_role"`
	Role   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_role"`
}
