package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
)

// bcryptCost matches what the original registration flow used.
const bcryptCost = 10

// CredentialPostgreSQL is the local CredentialStore: bcrypt-hashed passwords
// in the credentials table, account ids minted here.
type CredentialPostgreSQL struct {
	db *gorm.DB
}

func NewCredentialPostgreSQL(db *gorm.DB) repositories.CredentialStore {
	return &CredentialPostgreSQL{db: db}
}

func (s *CredentialPostgreSQL) FindByEmail(ctx context.Context, email string) (string, error) {
	var cred models.Credential
	err := s.db.WithContext(ctx).First(&cred, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repositories.ErrCredentialNotFound
		}
		return "", fmt.Errorf("failed to look up credential: %w", err)
	}
	return cred.ID, nil
}

func (s *CredentialPostgreSQL) Create(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	cred := &models.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.db.WithContext(ctx).Create(cred).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", repositories.ErrCredentialExists
		}
		return "", fmt.Errorf("failed to create credential: %w", err)
	}
	return cred.ID, nil
}

func (s *CredentialPostgreSQL) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Credential{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrCredentialNotFound
	}
	return nil
}

func (s *CredentialPostgreSQL) Verify(ctx context.Context, email, password string) (string, error) {
	var cred models.Credential
	err := s.db.WithContext(ctx).First(&cred, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", repositories.ErrCredentialNotFound
		}
		return "", fmt.Errorf("failed to look up credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", repositories.ErrPasswordMismatch
	}
	return cred.ID, nil
}
