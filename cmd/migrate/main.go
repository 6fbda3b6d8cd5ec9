package main

import (
	"fmt"
	"log"
	"os"

	"github.com/socialsimple/backend/internal/config"
	"github.com/socialsimple/backend/internal/database"
)

func main() {
	// Parse command
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		runMigrationsUp()
	default:
		fmt.Println("Usage: migrate [up]")
		fmt.Println("  up     - Create or update the user, credential and post tables")
		os.Exit(1)
	}
}

func runMigrationsUp() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Println("🔄 Connecting to database...")
	db, err := database.Open(cfg.DatabaseURL, database.DefaultOptions())
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	log.Println("✅ Database connected")
	log.Println("📈 Running migrations...")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ All migrations completed successfully!")
}
