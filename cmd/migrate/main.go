package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"catalogclean/adapters/db/postgres/migrations"
	"catalogclean/internal/config"
	"catalogclean/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <up|status>")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := container.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db)

	switch os.Args[1] {
	case "up":
		applied, err := migrator.Up(ctx)
		for _, version := range applied {
			fmt.Printf("Applied migration: %s\n", version)
		}
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if len(applied) == 0 {
			fmt.Println("Schema is up to date")
		}

	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}

		fmt.Println("Migration Status:")
		fmt.Println("=================")
		appliedCount := 0
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
				appliedCount++
			}
			if s.Modified {
				state += " (modified)"
			}
			fmt.Printf("  %s_%s: %s\n", s.Version, s.Name, state)
		}
		fmt.Printf("\nSummary: %d/%d migrations applied\n", appliedCount, len(statuses))

	default:
		log.Fatalf("Unknown command %q, use up or status", os.Args[1])
	}
}
