package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories/casdoor"
)

// Auth provider selectors, chosen in configuration.
const (
	AuthProviderLocal   = "local"
	AuthProviderCasdoor = "casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      RepositoryConfig

	user         repositories.UserRepository
	credentials  repositories.CredentialStore
	availability repositories.AvailabilityRepository
	lesson       repositories.LessonRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	AuthProvider  string // "local" or "casdoor"
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates a new repository aggregate with all
// sub-repositories wired to the same database handle.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:          config.DB,
		redisClient: config.RedisClient,
		config:      config,
	}

	repo.user = NewUserPostgreSQL(config.DB)
	repo.availability = NewAvailabilityPostgreSQL(config.DB, config.RedisClient)
	repo.lesson = NewLessonPostgreSQL(config.DB)

	// Credential store is polymorphic: local table or hosted provider
	if config.AuthProvider == AuthProviderCasdoor {
		repo.credentials = casdoor.NewCredentialCasdoor(config.CasdoorConfig, config.RedisClient)
	} else {
		repo.credentials = NewCredentialPostgreSQL(config.DB)
	}

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Credentials() repositories.CredentialStore {
	return r.credentials
}

func (r *PostgreSQLRepository) Availability() repositories.AvailabilityRepository {
	return r.availability
}

func (r *PostgreSQLRepository) Lesson() repositories.LessonRepository {
	return r.lesson
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txConfig := r.config
		txConfig.DB = tx
		return fn(NewPostgreSQLRepository(txConfig))
	})
}

// Ping checks database connectivity
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// ===== REPOSITORY MANAGER =====

type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a manager for repository lifecycle.
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database handle is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
