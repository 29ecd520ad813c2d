package repositories

import "context"

// Repository aggregates the per-domain repositories behind one handle so
// services depend on a single injected collaborator.
type Repository interface {
	// User domain (profile rows)
	User() UserRepository

	// Authentication credentials (local table or hosted identity provider,
	// selected at configuration time)
	Credentials() CredentialStore

	// Tutor dashboard domain
	Availability() AvailabilityRepository
	Lesson() LessonRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
