package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
)

var (
	ErrSlotNotFound      = errors.New("availability slot not found")
	ErrSlotAlreadyBooked = errors.New("availability slot already booked")
)

// ===== SHARED FILTER STRUCTS =====

type AvailabilityFilters struct {
	TutorID  string    `json:"tutor_id"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	OnlyFree bool      `json:"only_free"`
}

type LessonFilters struct {
	TutorID   *string    `json:"tutor_id"`
	StudentID *string    `json:"student_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// AvailabilityRepository owns the tutor availability calendar.
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id uint) (*models.AvailabilitySlot, error)
	List(ctx context.Context, filters AvailabilityFilters) ([]*models.AvailabilitySlot, error)
	Delete(ctx context.Context, id uint) error

	// MarkBooked flips a free slot to booked for the given student.
	// Returns ErrSlotAlreadyBooked when the slot was taken concurrently.
	MarkBooked(ctx context.Context, id uint, studentID string) error
}

// LessonRepository owns booked lessons.
type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	List(ctx context.Context, filters LessonFilters) ([]*models.Lesson, int64, error)
}
