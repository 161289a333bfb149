package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-service/config"
	appuser "github.com/oksasatya/go-user-service/internal/application"
	"github.com/oksasatya/go-user-service/internal/domain/apperror"
	pginfra "github.com/oksasatya/go-user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-service/pkg/helpers"
)

// seed creates a demo user through the regular create use case so the
// password is hashed exactly like API-created users. Re-running is a no-op.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	uc := appuser.NewUseCases(appuser.Deps{
		Repo:   pginfra.NewUserRepository(pool),
		Hasher: helpers.NewBcryptHasher(cfg.BcryptCost),
		Logger: logger,
	})

	email := "demo@example.com"
	password := "password123"
	u, err := uc.Create.Execute(ctx, appuser.CreateUserInput{Name: "Demo User", Email: email, Password: password})
	switch {
	case apperror.IsKind(err, apperror.KindConflict):
		fmt.Printf("user %s already seeded\n", email)
	case err != nil:
		logger.WithError(err).Fatal("failed to seed user")
	default:
		fmt.Printf("seeded user: id=%d email=%s name=%s password=%s\n", u.ID, u.Email, u.Name, password)
	}
}
