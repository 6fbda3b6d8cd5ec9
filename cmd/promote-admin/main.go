package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/socialsimple/backend/internal/config"
	"github.com/socialsimple/backend/internal/database"
	"github.com/socialsimple/backend/internal/repository"
)

func main() {
	// Parse command-line flags
	email := flag.String("email", "", "Email address of user to promote to superuser")
	revoke := flag.Bool("revoke", false, "Revoke superuser privileges instead of granting")
	flag.Parse()

	if *email == "" {
		fmt.Println("Usage: go run ./cmd/promote-admin -email=user@example.com")
		fmt.Println("       go run ./cmd/promote-admin -email=user@example.com -revoke")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.DatabaseURL, database.DefaultOptions())
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	account, err := users.GetAccountByEmail(ctx, *email)
	if errors.Is(err, repository.ErrUserNotFound) {
		fmt.Printf("❌ User not found: %s\n", *email)
		return
	}
	if err != nil {
		log.Fatalf("❌ Failed to look up user: %v", err)
	}

	grant := !*revoke
	if account.Credential.IsSuperuser == grant {
		if grant {
			fmt.Printf("⚠️  User %s is already a superuser\n", account.Email)
		} else {
			fmt.Printf("⚠️  User %s is not a superuser\n", account.Email)
		}
		return
	}

	if err := users.UpdateCredential(ctx, account.ID, map[string]interface{}{"is_superuser": grant}); err != nil {
		fmt.Printf("❌ Failed to update superuser flag: %v\n", err)
		return
	}

	if grant {
		fmt.Printf("✓ Superuser privileges granted to %s\n", account.Email)
		fmt.Printf("  User ID: %s\n", account.ID)
	} else {
		fmt.Printf("✓ Superuser privileges revoked for %s\n", account.Email)
	}
}
