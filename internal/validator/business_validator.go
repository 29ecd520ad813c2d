package validator

import (
	"strings"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
)

// Registration rules are checked in a fixed order and only the first violated
// rule is surfaced, so the form can show a single field-appropriate message.
// Messages are the Lithuanian strings the UI displays verbatim.
const (
	MsgInvalidEmail      = "Neteisingas el. pašto formatas."
	MsgPasswordTooShort  = "Slaptažodis per trumpas (min 6)"
	MsgFirstNameRequired = "Vardas yra privalomas."
	MsgLastNameRequired  = "Pavardė yra privaloma."
	MsgInvalidRole       = "Neteisinga rolė."
	MsgChildNameRequired = "Vaiko vardas yra privalomas klientui."
	MsgSubjectsRequired  = "Reikia pasirinkti bent vieną pamoką"
)

const minPasswordLength = 6

// ValidateRegistration checks the registration payload rule by rule and
// returns the first violation, or nil when the payload is acceptable.
// No side effects: the account provisioner is never reached on failure.
func (v *Validator) ValidateRegistration(req *RegisterRequest) *ValidationError {
	// The provisioner stores the trimmed, lowercased form; padding around an
	// otherwise valid address must not fail the format check.
	if err := v.Var(strings.TrimSpace(req.Email), "required,email"); err != nil {
		return &ValidationError{Field: "email", Message: MsgInvalidEmail, Rule: "email"}
	}

	if len(req.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: MsgPasswordTooShort, Rule: "min"}
	}

	if strings.TrimSpace(req.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: MsgFirstNameRequired, Rule: "required"}
	}

	if strings.TrimSpace(req.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: MsgLastNameRequired, Rule: "required"}
	}

	role := models.UserRole(req.Role)
	if role != models.RoleTutor && role != models.RoleClient {
		return &ValidationError{Field: "role", Message: MsgInvalidRole, Rule: "user_role", Value: req.Role}
	}

	if role == models.RoleClient && strings.TrimSpace(req.ChildName) == "" {
		return &ValidationError{Field: "childName", Message: MsgChildNameRequired, Rule: "required"}
	}

	if len(req.Subjects) == 0 {
		return &ValidationError{Field: "subjects", Message: MsgSubjectsRequired, Rule: "min"}
	}

	return nil
}

// ValidateSlot checks an availability window beyond struct tags.
func (v *Validator) ValidateSlot(req *CreateSlotRequest) *ValidationError {
	if errs := v.Validate(req); errs != nil {
		return errs.First()
	}
	if !req.EndTime.After(req.StartTime) {
		return &ValidationError{
			Field:   "end_time",
			Message: "Pabaigos laikas turi būti vėlesnis nei pradžios.",
			Rule:    "slot_range",
		}
	}
	return nil
}
