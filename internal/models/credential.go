package models

import "time"

// Credential is the local password credential record, used only when the
// service runs with the "local" auth provider. The ID doubles as the profile
// row ID so that credential and profile always form a pair.
type Credential struct {
	ID           string `json:"id" gorm:"primaryKey;size:255"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Credential) TableName() string {
	return "credentials"
}
