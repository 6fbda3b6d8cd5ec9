package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/socialsimple/backend/internal/config"
	"github.com/socialsimple/backend/internal/database"
	"github.com/socialsimple/backend/internal/logger"
	"github.com/socialsimple/backend/internal/seed"
	"gorm.io/gorm"
)

func main() {
	// Parse command
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev":
		withSeeder("🌱 Seeding development database...", func(ctx context.Context, s *seed.Seeder) error {
			return s.SeedDev(ctx)
		})
		log.Printf("✅ Development database seeded! Every account's password is %q", seed.DefaultPassword)
	case "test":
		withSeeder("🧪 Seeding test database...", func(ctx context.Context, s *seed.Seeder) error {
			return s.SeedTest(ctx)
		})
		log.Println("✅ Test database seeded successfully!")
	case "clean":
		withSeeder("🧹 Cleaning seed data...", func(ctx context.Context, s *seed.Seeder) error {
			return s.Clean(ctx)
		})
		log.Println("✅ Seed data cleaned successfully!")
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with fake users and posts")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all seeded users and their posts")
		os.Exit(1)
	}
}

func withSeeder(banner string, fn func(ctx context.Context, s *seed.Seeder) error) {
	log.Println(banner)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	db, err := openMigrated(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	log.Println("✅ Database connected")

	ctx := context.Background()
	s := seed.NewSeeder(db)
	if err := fn(ctx, s); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to read totals: %v", err)
	}
	log.Printf("📊 Database now holds %d users and %d posts", stats.Users, stats.Posts)
}

func openMigrated(url string) (*gorm.DB, error) {
	db, err := database.Open(url, database.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}
