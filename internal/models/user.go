package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleTutor  UserRole = "tutor"
	RoleClient UserRole = "client"
)

// User is the application-owned profile record. Authentication credentials
// live in a separate store (local credentials table or the identity provider).
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20"`

	// Required for clients, always empty for tutors.
	ChildName *string `json:"child_name" gorm:"size:100"`

	// Ordered list of selected subjects, non-empty at registration.
	Subjects datatypes.JSONSlice[string] `json:"subjects"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
