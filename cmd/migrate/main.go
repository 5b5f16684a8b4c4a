package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	loadEnvFiles()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := run(db, *command, *name, migrationsDir()); err != nil {
		logger.Error("migration failed", slog.String("command", *command), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(db *sql.DB, command, name, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		fmt.Println("Migration rolled back successfully")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("migration status: %w", err)
		}
	case "create":
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, name, "sql"); err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Printf("Migration created: %s\n", name)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
	return nil
}
