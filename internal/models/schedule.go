package models

import (
	"time"

	"gorm.io/gorm"
)

// AvailabilitySlot is a window of time a tutor offers for lessons. Slots are
// created by the tutor and read back filtered by day on the dashboard.
type AvailabilitySlot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TutorID   string    `json:"tutor_id" gorm:"index;not null;size:255"`
	StartTime time.Time `json:"start_time" gorm:"index;not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	IsBooked  bool      `json:"is_booked" gorm:"not null;default:false"`
	BookedBy  *string   `json:"booked_by" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}

// Lesson is a booked slot between a tutor and a client's child.
type Lesson struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	TutorID    string `json:"tutor_id" gorm:"index;not null;size:255"`
	StudentID  string `json:"student_id" gorm:"index;not null;size:255"`
	SlotID     *uint  `json:"slot_id" gorm:"index"`
	Subject    string `json:"subject" gorm:"size:100"`
	Topic      string `json:"topic" gorm:"size:200"`
	PriceCents int    `json:"price_cents" gorm:"not null;default:0"`

	StartTime time.Time `json:"start_time" gorm:"index;not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Lesson) TableName() string {
	return "lessons"
}
