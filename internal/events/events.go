package events

import "time"

// Topics consumed by the notification and analytics services.
const (
	TopicUserRegistered = "tiksliukai.user.registered"
	TopicLessonBooked   = "tiksliukai.lesson.booked"
)

// UserRegisteredEvent is published after a registration fully completes
// (credential and profile both exist).
type UserRegisteredEvent struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Subjects     []string  `json:"subjects"`
	RegisteredAt time.Time `json:"registered_at"`
}

// LessonBookedEvent is published when a client books a tutor's slot.
type LessonBookedEvent struct {
	LessonID  uint      `json:"lesson_id"`
	SlotID    uint      `json:"slot_id"`
	TutorID   string    `json:"tutor_id"`
	StudentID string    `json:"student_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	BookedAt  time.Time `json:"booked_at"`
}
