// seed registers a demo user and a handful of items in the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ErlanBelekov/item-tracker/config"
	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/ErlanBelekov/item-tracker/internal/email"
	"github.com/ErlanBelekov/item-tracker/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/item-tracker/internal/token"
	"github.com/ErlanBelekov/item-tracker/internal/usecase"
	"github.com/lmittmann/tint"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
	seedName     = "Seed User"
)

type itemSpec struct {
	name        string
	description string
}

var items = []itemSpec{
	{"Passport", "Top drawer, blue folder"},
	{"Camping stove", "Garage shelf, needs a new gas canister"},
	{"Laptop charger", ""},
	{"Spare keys", "With the neighbour at number 12"},
	{"Winter jacket", "Lent to Sam in November"},
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}))

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
	// Seeding never sends real mail.
	sender := email.NewSender("local", "", "", logger)
	authUsecase := usecase.NewAuthUsecase(users, issuer, sender, logger, cfg.BcryptCost)
	itemUsecase := usecase.NewItemUsecase(postgres.NewItemRepository(pool))

	// Register, or log in on re-runs.
	res, err := authUsecase.Register(ctx, usecase.RegisterInput{
		Email:    seedEmail,
		Password: seedPassword,
		FullName: seedName,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		res, err = authUsecase.Login(ctx, seedEmail, seedPassword)
	}
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	identity, err := authUsecase.Authenticate(ctx, res.Token)
	if err != nil {
		log.Fatalf("validate seed token: %v", err)
	}

	existing, err := itemUsecase.ListItems(ctx, identity.UserID)
	if err != nil {
		log.Fatalf("list items: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, it := range existing {
		have[it.Name] = true
	}

	// Skip items that already exist (idempotent re-runs)
	var inserted, skipped int
	var itemIDs []int64

	for _, spec := range items {
		if have[spec.name] {
			skipped++
			continue
		}
		it, err := itemUsecase.CreateItem(ctx, usecase.CreateItemInput{
			UserID:      identity.UserID,
			Name:        spec.name,
			Description: spec.description,
		})
		if err != nil {
			log.Fatalf("create item %q: %v", spec.name, err)
		}
		itemIDs = append(itemIDs, it.ID)
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:       %d\n", identity.UserID)
	fmt.Printf("  Items created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Printf("  Token expires: %s\n", res.ExpiresAt.Format(time.RFC3339))
	fmt.Println()

	if len(itemIDs) > 0 {
		fmt.Println("  New item IDs:")
		for _, id := range itemIDs {
			fmt.Printf("    %d\n", id)
		}
		fmt.Println()
	}

	fmt.Println("How to test:")
	fmt.Println()
	fmt.Printf("    export JWT=%s\n", res.Token)
	fmt.Println("    curl -s http://localhost:8080/items -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Or log in again:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
}
