package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tiksliukai-lt/tutoring-service/internal/events"
	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

type registrationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewRegistrationService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
) RegistrationService {
	return &registrationService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// NormalizeEmail produces the canonical form used for uniqueness checks and
// storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register runs the provisioning flow: validate, duplicate-check, create
// credential, create profile, compensate on partial failure. The caller never
// observes a half-created account.
func (s *registrationService) Register(ctx context.Context, req *RegisterRequest) (*RegistrationResult, error) {
	if verr := s.validator.ValidateRegistration(req); verr != nil {
		return nil, verr
	}

	email := NormalizeEmail(req.Email)
	store := s.repo.Credentials()

	// Pre-check is an optimization; the store's own uniqueness guarantee is
	// the backstop for concurrent registrations.
	if _, err := store.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repositories.ErrCredentialNotFound) {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	accountID, err := store.Create(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, repositories.ErrCredentialExists) {
			return nil, ErrDuplicateAccount
		}
		s.logger.Error("credential creation failed", "email", email, "error", err)
		if errors.Is(err, repositories.ErrCredentialRejected) {
			return nil, fmt.Errorf("%w: %v", ErrCredentialCreationFailed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialStoreFailed, err)
	}

	role := models.UserRole(req.Role)
	user := &models.User{
		ID:       accountID,
		FullName: strings.TrimSpace(req.FirstName + " " + req.LastName),
		Email:    email,
		Role:     role,
		Subjects: datatypes.NewJSONSlice(req.Subjects),
	}
	if role == models.RoleClient {
		childName := strings.TrimSpace(req.ChildName)
		user.ChildName = &childName
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		s.rollbackCredential(ctx, accountID, email)

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAccount
		}
		s.logger.Error("profile creation failed", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrProfileCreationFailed, err)
	}

	s.logger.Info("account registered", "account_id", accountID, "role", role)

	if s.publisher != nil {
		event := events.UserRegisteredEvent{
			AccountID:    accountID,
			Email:        email,
			Role:         string(role),
			Subjects:     req.Subjects,
			RegisteredAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("failed to publish user.registered event", "account_id", accountID, "error", err)
		}
	}

	return &RegistrationResult{AccountID: accountID, Role: role}, nil
}

// rollbackCredential removes the credential created before the profile insert
// failed. Best-effort: a failed compensation is logged, not surfaced.
func (s *registrationService) rollbackCredential(ctx context.Context, accountID, email string) {
	if err := s.repo.Credentials().Delete(ctx, accountID); err != nil {
		s.logger.Error("failed to roll back orphaned credential",
			"account_id", accountID,
			"email", email,
			"error", err)
	}
}
