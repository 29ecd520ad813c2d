package services

import (
	"context"
	"time"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use request validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type CreateSlotRequest = validator.CreateSlotRequest

type RegistrationResult struct {
	AccountID string          `json:"account_id"`
	Role      models.UserRole `json:"role"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	AccountID string          `json:"account_id"`
	Role      models.UserRole `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type LessonListResponse struct {
	Lessons []*models.Lesson `json:"lessons"`
	Total   int64            `json:"total"`
}

// ===== SERVICE INTERFACES =====

// RegistrationService provisions accounts: credential plus profile as one
// logical unit of work, with compensation when the second half fails.
type RegistrationService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegistrationResult, error)
}

// AuthService verifies credentials and issues/parses session tokens.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	ParseToken(token string) (*SessionClaims, error)
}

// AvailabilityService manages a tutor's calendar of availability slots.
type AvailabilityService interface {
	CreateSlot(ctx context.Context, req *CreateSlotRequest, tutorID string) (*models.AvailabilitySlot, error)
	ListByDay(ctx context.Context, tutorID string, day time.Time) ([]*models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, id uint, tutorID string) error

	// BookSlot books a free slot for a client and creates the lesson.
	BookSlot(ctx context.Context, id uint, studentID string) (*models.Lesson, error)
}

// LessonService lists lessons and renders the tutor's invoice report.
type LessonService interface {
	ListByTutor(ctx context.Context, tutorID string, from, to *time.Time) (*LessonListResponse, error)
	ListByStudent(ctx context.Context, studentID string, from, to *time.Time) (*LessonListResponse, error)
	ExportReport(ctx context.Context, tutorID string, from, to time.Time) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Registration() RegistrationService
	Auth() AuthService
	Availability() AvailabilityService
	Lesson() LessonService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
