package casdoor

import (
	"context"
	"fmt"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tiksliukai-lt/tutoring-service/internal/cache"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// CredentialCasdoor is the hosted-identity CredentialStore. Account ids are
// minted locally and handed to the provider so the profile row can be keyed
// before the provider round trip completes.
type CredentialCasdoor struct {
	client *casdoorsdk.Client
	cache  *cache.CacheManager
	config CasdoorConfig
}

func NewCredentialCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.CredentialStore {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &CredentialCasdoor{
		client: client,
		cache:  cache.NewCacheManager(redisClient),
		config: config,
	}
}

// FindByEmail resolves an email to the provider's account id.
func (s *CredentialCasdoor) FindByEmail(ctx context.Context, email string) (string, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	if id, err := s.cache.Identity.GetString(ctx, cacheKey); err == nil && id != "" {
		return id, nil
	}

	user, err := s.client.GetUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user in Casdoor: %w", err)
	}
	if user == nil {
		return "", repositories.ErrCredentialNotFound
	}

	s.cache.Identity.SetString(ctx, cacheKey, user.Id, cache.IdentityCacheConfig.TTL)
	return user.Id, nil
}

// Create signs the email up with the provider and returns the account id.
func (s *CredentialCasdoor) Create(ctx context.Context, email, password string) (string, error) {
	id := uuid.NewString()

	user := &casdoorsdk.User{
		Owner:             s.config.OrganizationName,
		Name:              email,
		Id:                id,
		Email:             email,
		Password:          password,
		DisplayName:       email,
		SignupApplication: s.config.ApplicationName,
		CreatedTime:       time.Now().UTC().Format(time.RFC3339),
	}

	ok, err := s.client.AddUser(user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repositories.ErrCredentialRejected, err)
	}
	if !ok {
		return "", repositories.ErrCredentialExists
	}

	s.cache.Identity.SetString(ctx, fmt.Sprintf("email:%s", email), id, cache.IdentityCacheConfig.TTL)
	return id, nil
}

// Delete removes the provider account; the compensating action when profile
// creation fails after signup succeeded.
func (s *CredentialCasdoor) Delete(ctx context.Context, id string) error {
	user, err := s.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to look up user in Casdoor: %w", err)
	}
	if user == nil {
		return repositories.ErrCredentialNotFound
	}

	ok, err := s.client.DeleteUser(user)
	if err != nil {
		return fmt.Errorf("failed to delete user in Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("casdoor rejected user deletion for %s", id)
	}

	cache.InvalidateIdentityCache(ctx, s.cache, id, user.Email)
	return nil
}

// Verify checks the password with the provider's check-user-password API.
func (s *CredentialCasdoor) Verify(ctx context.Context, email, password string) (string, error) {
	user, err := s.client.GetUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("failed to look up user in Casdoor: %w", err)
	}
	if user == nil {
		return "", repositories.ErrCredentialNotFound
	}

	check := &casdoorsdk.User{
		Owner:    s.config.OrganizationName,
		Name:     user.Name,
		Password: password,
	}
	ok, err := s.client.CheckUserPassword(check)
	if err != nil || !ok {
		return "", repositories.ErrPasswordMismatch
	}

	return user.Id, nil
}
