package services

import (
	"errors"

	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
)

var (
	// Registration failures, mapped to 409/400/500 at the boundary.
	// ErrCredentialCreationFailed is the provider declining the account data
	// (a client error); ErrCredentialStoreFailed is an infrastructure failure
	// in the store itself (database, hashing, provider unreachable).
	ErrDuplicateAccount         = errors.New("account with this email already exists")
	ErrCredentialCreationFailed = errors.New("failed to create credential")
	ErrCredentialStoreFailed    = errors.New("credential store failure")
	ErrProfileCreationFailed    = errors.New("failed to create profile")

	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Calendar failures.
	ErrSlotNotFound      = repositories.ErrSlotNotFound
	ErrSlotAlreadyBooked = repositories.ErrSlotAlreadyBooked
	ErrSlotBooked        = errors.New("booked slot cannot be removed")
	ErrNotSlotOwner      = errors.New("slot belongs to another tutor")
)
