package validator

import "time"

// RegisterRequest is the registration payload submitted by the signup form.
// Field-order validation is done by ValidateRegistration, not struct tags,
// because only the first violated rule is surfaced to the form.
type RegisterRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      string   `json:"role"`
	ChildName string   `json:"childName"`
	Subjects  []string `json:"subjects"`
}

// LoginRequest is the credentials payload for session issue.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateSlotRequest adds an availability window to a tutor's calendar.
type CreateSlotRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}
