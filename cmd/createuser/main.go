// Command createuser provisions an account for the token endpoint.
//
//	createuser -username admin -password secret
//
// The password may also be passed through CREATEUSER_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookshelf-backend/internal/config"
	"bookshelf-backend/internal/domains/user/model"
	"bookshelf-backend/internal/domains/user/repository"
	"bookshelf-backend/internal/domains/user/service"
	"bookshelf-backend/internal/infrastructure/database"
	"bookshelf-backend/internal/shared/apperr"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/jwt"
	"bookshelf-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	username := flag.String("username", "", "login name")
	password := flag.String("password", os.Getenv("CREATEUSER_PASSWORD"), "password (min 8 characters)")
	flag.Parse()

	if err := run(model.NewUser{Username: *username, Password: *password}); err != nil {
		if fields, ok := apperr.FieldsOf(err); ok {
			for field, msgs := range fields {
				for _, msg := range msgs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
			}
			os.Exit(2)
		}
		logger.Error("Failed to create user", err)
		os.Exit(1)
	}
}

func run(in model.NewUser) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("load database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	svc := service.NewService(
		repository.NewPostgresRepository(db.Pool),
		jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL()),
		cache.NewNoop(),
		service.LockoutPolicy{},
	)

	u, err := svc.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("created user %q (id %d)\n", u.Username, u.ID)
	return nil
}
