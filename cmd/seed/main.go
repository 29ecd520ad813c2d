package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"

	"github.com/tiksliukai-lt/tutoring-service/internal/config"
	"github.com/tiksliukai-lt/tutoring-service/internal/events"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories/casdoor"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories/postgres"
	"github.com/tiksliukai-lt/tutoring-service/internal/services"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
	"github.com/tiksliukai-lt/tutoring-service/pkg"
)

// Seeds the demo client account. Safe to rerun: an existing account is left
// untouched.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:           db,
		AuthProvider: cfg.AuthProvider,
		CasdoorConfig: casdoor.CasdoorConfig{
			Endpoint:         cfg.Casdoor.Endpoint,
			ClientID:         cfg.Casdoor.ClientID,
			ClientSecret:     cfg.Casdoor.ClientSecret,
			Certificate:      cfg.Casdoor.Cert,
			OrganizationName: cfg.Casdoor.Organization,
			ApplicationName:  cfg.Casdoor.Application,
		},
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	registration := services.NewRegistrationService(
		repoManager.GetRepository(),
		logger,
		validator.New(),
		events.NewMockEventPublisher(logger),
	)

	req := &services.RegisterRequest{
		Email:     "test@example.com",
		Password:  "password",
		FirstName: "Dovydas",
		LastName:  "Šilinskas",
		Role:      "client",
		ChildName: "Vaiko Vardas",
		Subjects:  []string{"Matematika"},
	}

	result, err := registration.Register(context.Background(), req)
	switch {
	case err == nil:
		logger.Info("demo account created", "account_id", result.AccountID)
	case errors.Is(err, services.ErrDuplicateAccount):
		logger.Info("demo account already exists", "email", req.Email)
	default:
		log.Fatalf("Failed to seed demo account: %v", err)
	}
}
