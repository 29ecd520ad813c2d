package repositories

import (
	"context"
	"errors"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository owns the profile rows. Emails are stored normalized
// (trimmed, lowercased); lookups expect the normalized form.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
