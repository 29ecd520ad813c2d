package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/tiksliukai-lt/tutoring-service/internal/events"
	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

type availabilityService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAvailabilityService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *availabilityService) CreateSlot(ctx context.Context, req *CreateSlotRequest, tutorID string) (*models.AvailabilitySlot, error) {
	if verr := s.validator.ValidateSlot(req); verr != nil {
		return nil, verr
	}

	slot := &models.AvailabilitySlot{
		TutorID:   tutorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repo.Availability().Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("availability slot created", "slot_id", slot.ID, "tutor_id", tutorID)
	return slot, nil
}

// ListByDay returns a tutor's slots whose start falls on the given calendar
// day, ordered by start time.
func (s *availabilityService) ListByDay(ctx context.Context, tutorID string, day time.Time) ([]*models.AvailabilitySlot, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	return s.repo.Availability().List(ctx, repositories.AvailabilityFilters{
		TutorID: tutorID,
		From:    startOfDay,
		To:      endOfDay,
	})
}

func (s *availabilityService) DeleteSlot(ctx context.Context, id uint, tutorID string) error {
	slot, err := s.repo.Availability().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.TutorID != tutorID {
		return ErrNotSlotOwner
	}
	if slot.IsBooked {
		return ErrSlotBooked
	}
	return s.repo.Availability().Delete(ctx, id)
}

// BookSlot books a free slot for a client and records the lesson in the same
// transaction, so a slot is never booked without its lesson.
func (s *availabilityService) BookSlot(ctx context.Context, id uint, studentID string) (*models.Lesson, error) {
	slot, err := s.repo.Availability().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.IsBooked {
		return nil, ErrSlotAlreadyBooked
	}

	subject := ""
	if tutor, err := s.repo.User().GetByID(ctx, slot.TutorID); err == nil && len(tutor.Subjects) > 0 {
		subject = tutor.Subjects[0]
	}

	var lesson *models.Lesson
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Availability().MarkBooked(ctx, id, studentID); err != nil {
			return err
		}

		lesson = &models.Lesson{
			TutorID:   slot.TutorID,
			StudentID: studentID,
			SlotID:    &slot.ID,
			Subject:   subject,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		}
		return txRepo.Lesson().Create(ctx, lesson)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("slot booked", "slot_id", id, "student_id", studentID)

	if s.publisher != nil {
		event := events.LessonBookedEvent{
			LessonID:  lesson.ID,
			SlotID:    slot.ID,
			TutorID:   slot.TutorID,
			StudentID: studentID,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			BookedAt:  time.Now().UTC(),
		}
		if err := s.publisher.PublishLessonBooked(ctx, event); err != nil {
			s.logger.Warn("failed to publish lesson.booked event", "lesson_id", lesson.ID, "error", err)
		}
	}

	return lesson, nil
}
