package models

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/code-100-precent/LingSync/pkg/apperr"
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

var errEmailExists = apperr.NewConflictError("Email already exists")

type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Email     string     `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Role      string     `json:"role" gorm:"size:64;default:'user';index"`
	Status    string     `json:"status" gorm:"size:32;default:'active';index"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"-" gorm:"index"`
}

// UserFilter narrows the users view. Search matches name or email as a substring.
type UserFilter struct {
	Search string
	Role   string
	Status string
}

func ListUsers(db *gorm.DB, filter UserFilter, p Pagination) ([]User, int64, error) {
	query := db.Model(&User{}).Scopes(notDeleted)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR email LIKE ?)", like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]User, 0, p.Limit)
	err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Scopes(paginate(p)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetUserByID loads a non-deleted user
func GetUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	err := db.Scopes(notDeleted).Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NewNotFoundError("User", strconv.FormatUint(uint64(id), 10))
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func IsExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&User{}).Where("email = ?", strings.TrimSpace(email)).Count(&count).Error
	return count > 0, err
}

// CreateUser inserts a user; role and status fall back to "user" and "active".
// An email already taken, even by a deleted user, is a conflict.
func CreateUser(db *gorm.DB, name, email, role, status string) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	if status == "" {
		status = StatusActive
	}

	exists, err := IsExistsByEmail(db, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailExists
	}

	user := User{Name: name, Email: strings.TrimSpace(email), Role: role, Status: status}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailExists
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies vals (name, email, role, status) to a non-deleted user
func UpdateUser(db *gorm.DB, id uint, vals map[string]any) (*User, error) {
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil, err
	}

	if email, ok := vals["email"].(string); ok && email != user.Email {
		exists, err := IsExistsByEmail(db, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errEmailExists
		}
	}

	if err := db.Model(user).Updates(vals).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailExists
		}
		return nil, err
	}
	return GetUserByID(db, id)
}

// SoftDeleteUser stamps deleted_at and sets status to "deleted"
func SoftDeleteUser(db *gorm.DB, id uint) error {
	result := db.Model(&User{}).
		Scopes(notDeleted).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted_at": time.Now().UTC(),
			"status":     StatusDeleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("User", strconv.FormatUint(uint64(id), 10))
	}
	return nil
}
