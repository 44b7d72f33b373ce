package repository

import (
	"errors"
	"strings"
	"time"

	"processpilot/internal/app/ds"
	"processpilot/internal/app/role"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User and role methods.

func (r *Repository) CreateUser(email, hashedPassword, firstName, lastName, company string) (*ds.User, error) {
	user := ds.User{
		ID:        uuid.New(),
		Email:     strings.ToLower(email),
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		Company:   company,
		CreatedAt: time.Now(),
	}

	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(id uuid.UUID) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByEmail(email string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

// GetUserRole resolves the user's role from the user_roles table.
func (r *Repository) GetUserRole(userID uuid.UUID) (role.Role, error) {
	var userRole ds.UserRole
	err := r.db.Where("user_id = ? AND role = ?", userID, role.AdminRoleName).First(&userRole).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return role.Customer, nil
		}
		return role.Customer, err
	}
	return role.Admin, nil
}

// GrantAdminRole inserts the admin row for a user. Granting twice is not an
// error; the existing grant stands.
func (r *Repository) GrantAdminRole(userID uuid.UUID) error {
	err := r.db.Create(&ds.UserRole{UserID: userID, Role: role.AdminRoleName}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}
