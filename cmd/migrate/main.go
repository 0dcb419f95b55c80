// Command migrate applies the embedded database migrations.
//
//	migrate [up|down|status|reset]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookshelf-backend/internal/config"
	"bookshelf-backend/internal/infrastructure/database"
	"bookshelf-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|status|reset]")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	if err := run(command); err != nil {
		logger.Error("Migration failed", err)
		os.Exit(1)
	}
	logger.Info("Migration finished", map[string]interface{}{"command": command})
}

func run(command string) error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("load database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	return database.Migrate(ctx, db.Pool, command)
}
