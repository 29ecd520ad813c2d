package repositories

import (
	"context"
	"errors"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrCredentialExists is returned when the store's own uniqueness
	// guarantee rejects a create; the DB constraint (or the provider's email
	// check) is the race-safety backstop, not the caller's pre-check.
	ErrCredentialExists = errors.New("credential already exists")

	// ErrCredentialRejected means the identity provider declined the account
	// data itself. Infrastructure failures (database, hashing) are returned
	// as plain wrapped errors instead.
	ErrCredentialRejected = errors.New("credential rejected by provider")

	// ErrPasswordMismatch is deliberately indistinguishable from
	// ErrCredentialNotFound at the API boundary.
	ErrPasswordMismatch = errors.New("password mismatch")
)

// CredentialStore abstracts where authentication credentials live. Two
// implementations exist: a local bcrypt-hashed credentials table and the
// Casdoor identity provider. The account provisioner and session issuer only
// ever talk to this interface.
type CredentialStore interface {
	// FindByEmail returns the credential's account id, or ErrCredentialNotFound.
	FindByEmail(ctx context.Context, email string) (string, error)

	// Create provisions a credential for the email and returns the new
	// account id. The id keys the profile row created afterwards.
	Create(ctx context.Context, email, password string) (string, error)

	// Delete removes a credential; used as the compensating action when
	// profile creation fails after the credential was already created.
	Delete(ctx context.Context, id string) error

	// Verify checks submitted credentials and returns the account id.
	// Misses return ErrCredentialNotFound or ErrPasswordMismatch.
	Verify(ctx context.Context, email, password string) (string, error)
}
