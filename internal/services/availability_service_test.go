package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tiksliukai-lt/tutoring-service/internal/events"
	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

func registerTestTutor(t *testing.T, repo *fakeRepository) string {
	t.Helper()
	svc := NewRegistrationService(repo, testLogger(), validator.New(), nil)
	req := testRegisterRequest()
	req.Email = "mokytoja@example.com"
	req.Role = "tutor"
	req.ChildName = ""
	req.Subjects = []string{"Matematika", "Fizika"}
	result, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("failed to register test tutor: %v", err)
	}
	return result.AccountID
}

func createTestSlot(t *testing.T, svc AvailabilityService, tutorID string, start time.Time) *models.AvailabilitySlot {
	t.Helper()
	slot, err := svc.CreateSlot(context.Background(), &CreateSlotRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}, tutorID)
	if err != nil {
		t.Fatalf("CreateSlot failed: %v", err)
	}
	return slot
}

func TestCreateSlot_InvalidRange(t *testing.T) {
	repo := newFakeRepository()
	svc := NewAvailabilityService(repo, testLogger(), validator.New(), nil)

	now := time.Now()
	_, err := svc.CreateSlot(context.Background(), &CreateSlotRequest{
		StartTime: now,
		EndTime:   now.Add(-time.Hour),
	}, "tutor-1")

	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validator.ValidationError", err)
	}
}

func TestListByDay(t *testing.T) {
	repo := newFakeRepository()
	svc := NewAvailabilityService(repo, testLogger(), validator.New(), nil)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	createTestSlot(t, svc, "tutor-1", day.Add(9*time.Hour))
	createTestSlot(t, svc, "tutor-1", day.Add(14*time.Hour))
	createTestSlot(t, svc, "tutor-1", day.AddDate(0, 0, 1).Add(9*time.Hour)) // next day
	createTestSlot(t, svc, "tutor-2", day.Add(9*time.Hour))                  // other tutor

	slots, err := svc.ListByDay(context.Background(), "tutor-1", day.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("ListByDay failed: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("len(slots) = %d, want 2", len(slots))
	}
}

func TestDeleteSlot_OwnershipAndBooking(t *testing.T) {
	repo := newFakeRepository()
	svc := NewAvailabilityService(repo, testLogger(), validator.New(), nil)

	slot := createTestSlot(t, svc, "tutor-1", time.Now().Add(24*time.Hour))

	t.Run("not the owner", func(t *testing.T) {
		if err := svc.DeleteSlot(context.Background(), slot.ID, "tutor-2"); !errors.Is(err, ErrNotSlotOwner) {
			t.Errorf("err = %v, want ErrNotSlotOwner", err)
		}
	})

	t.Run("booked slot", func(t *testing.T) {
		if err := repo.availability.MarkBooked(context.Background(), slot.ID, "client-1"); err != nil {
			t.Fatalf("MarkBooked failed: %v", err)
		}
		if err := svc.DeleteSlot(context.Background(), slot.ID, "tutor-1"); !errors.Is(err, ErrSlotBooked) {
			t.Errorf("err = %v, want ErrSlotBooked", err)
		}
	})

	t.Run("unknown slot", func(t *testing.T) {
		if err := svc.DeleteSlot(context.Background(), 9999, "tutor-1"); !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("err = %v, want ErrSlotNotFound", err)
		}
	})

	t.Run("owner deletes free slot", func(t *testing.T) {
		free := createTestSlot(t, svc, "tutor-1", time.Now().Add(48*time.Hour))
		if err := svc.DeleteSlot(context.Background(), free.ID, "tutor-1"); err != nil {
			t.Errorf("DeleteSlot failed: %v", err)
		}
	})
}

func TestBookSlot(t *testing.T) {
	repo := newFakeRepository()
	tutorID := registerTestTutor(t, repo)
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewAvailabilityService(repo, testLogger(), validator.New(), publisher)

	slot := createTestSlot(t, svc, tutorID, time.Now().Add(24*time.Hour))

	lesson, err := svc.BookSlot(context.Background(), slot.ID, "client-1")
	if err != nil {
		t.Fatalf("BookSlot failed: %v", err)
	}
	if lesson.TutorID != tutorID {
		t.Errorf("TutorID = %q, want %q", lesson.TutorID, tutorID)
	}
	if lesson.StudentID != "client-1" {
		t.Errorf("StudentID = %q, want client-1", lesson.StudentID)
	}
	// Subject defaults to the tutor's first listed subject.
	if lesson.Subject != "Matematika" {
		t.Errorf("Subject = %q, want Matematika", lesson.Subject)
	}

	booked, err := repo.availability.GetByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !booked.IsBooked {
		t.Error("slot not marked booked")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Topic != events.TopicLessonBooked {
		t.Errorf("published = %v, want one lesson.booked event", published)
	}

	t.Run("booking twice fails", func(t *testing.T) {
		if _, err := svc.BookSlot(context.Background(), slot.ID, "client-2"); !errors.Is(err, ErrSlotAlreadyBooked) {
			t.Errorf("err = %v, want ErrSlotAlreadyBooked", err)
		}
	})

	t.Run("unknown slot", func(t *testing.T) {
		if _, err := svc.BookSlot(context.Background(), 9999, "client-1"); !errors.Is(err, ErrSlotNotFound) {
			t.Errorf("err = %v, want ErrSlotNotFound", err)
		}
	})
}
