// seed creates a demo user in the local dev database, applying migrations
// first, and prints curl commands to exercise the API.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/auth"
	"github.com/ErlanBelekov/data-drive/internal/domain"
	"github.com/ErlanBelekov/data-drive/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/data-drive/internal/usecase"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
	marketsURL   = "https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&per_page=50"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL, 2)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	cfg := auth.Config{Secret: []byte(secret)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	issuer, err := auth.NewIssuer(cfg)
	if err != nil {
		pool.Close()
		log.Fatalf("issuer: %v", err)
	}
	verifier, err := auth.NewVerifier(cfg, logger)
	if err != nil {
		pool.Close()
		log.Fatalf("verifier: %v", err)
	}

	uc := usecase.NewAuthUsecase(postgres.NewUserRepository(pool), auth.NewBcryptHasher(0), issuer, verifier, cfg.AccessTTL())

	created := true
	if err := uc.Signup(ctx, seedEmail, seedPassword); err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			pool.Close()
			log.Fatalf("signup: %v", err)
		}
		created = false
	}

	token, err := uc.Login(ctx, seedEmail, seedPassword)
	if err != nil {
		pool.Close()
		log.Fatalf("login: %v (was the seed user created with another password?)", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:       %s\n", seedEmail)
	fmt.Printf("  Password:   %s\n", seedPassword)
	fmt.Printf("  Created:    %t\n", created)
	fmt.Printf("  Expires at: %s\n", token.ExpiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in (or use the token below)")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	fmt.Printf("    export JWT=%s\n", token.AccessToken)
	fmt.Println()
	fmt.Println("  Step 2: ingest a market listing")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/ingest \\\n")
	fmt.Printf("      -H \"Authorization: Bearer $JWT\" -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"url\":\"%s\"}'\n", marketsURL)
	fmt.Println()
	fmt.Println("  Step 3: read the reports")
	fmt.Println()
	fmt.Println("    curl -s 'http://localhost:8080/report/latest?limit=10'")
	fmt.Println("    curl -s http://localhost:8080/report/coin/bitcoin")
}
