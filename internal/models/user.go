package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// ValidRoles lists the roles an admin may assign.
var ValidRoles = []UserRole{RoleStudent, RoleInstructor, RoleAdmin}

type User struct {
	ID          string   `json:"id" gorm:"primaryKey;size:255"`
	Email       string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	DisplayName string   `json:"display_name" gorm:"not null;size:100"`
	Role        UserRole `json:"role" gorm:"not null;default:student;size:20;index"`

	// Profile info
	Bio      *string `json:"bio" gorm:"type:text"`
	Location *string `json:"location" gorm:"size:200"`
	Website  *string `json:"website" gorm:"size:500"`

	// Per-user settings blob, shape owned by clients
	Preferences datatypes.JSON `json:"preferences" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func IsValidRole(role UserRole) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
