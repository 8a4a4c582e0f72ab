package main

import (
	"fmt"
	"os"

	auction "auction-marketplace/internal/auctionService"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	user "auction-marketplace/internal/userService"
	"auction-marketplace/utils"
)

func main() {

	cfg := config.Load()
	utils.SetLogLevel(cfg.Logging.Level)

	auctionStore, userStore := setupStores(cfg)

	tokens := auth.NewTokenManager(jwtSecret(cfg))

	auctionSvc := auction.NewAuctionService(auctionStore, cfg.Bidding.MaxRetries)
	userSvc := user.NewUserService(userStore, tokens)

	router := server.SetupRouter(auctionSvc, userSvc, tokens)

	port := fmt.Sprintf(":%s", cfg.Server.Port)
	fmt.Printf("Starting auction marketplace server on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// setupStores selects the storage backend: Postgres when DB_URL is set,
// the in-memory store otherwise
func setupStores(cfg *config.Config) (repository.AuctionStore, repository.UserStore) {
	if cfg.Database.URL == "" {
		utils.Info("using in-memory store", nil)
		store := repository.NewMemoryStore()
		return store, store
	}

	store, err := repository.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		utils.Fatal("failed to connect to database", map[string]any{"error": err.Error()})
	}
	utils.Info("connected to postgres store", nil)
	return store, store
}

// jwtSecret returns the configured signing secret, falling back to a dev
// default that must never reach production
func jwtSecret(cfg *config.Config) string {
	if cfg.Auth.JWTSecret != "" {
		return cfg.Auth.JWTSecret
	}
	utils.Warn("JWT_SECRET not set, using insecure development secret", nil)
	return "dev-secret-change-me"
}
