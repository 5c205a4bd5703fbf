// migrate applies or rolls back the embedded schema migrations.
// Run: go run ./cmd/migrate [-direction up|down]
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/item-tracker/internal/infrastructure/postgres"
)

func main() {
	direction := flag.String("direction", "up", "up applies all pending migrations, down rolls back the latest one")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, postgres.PoolOptions{MaxConns: 1, MinConns: 1})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, *direction); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("migrate %s: done", *direction)
}
