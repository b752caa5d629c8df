package main

import (
	"context"
	"log"
	"time"

	"go-jobtrack/internal/api"
	"go-jobtrack/internal/config"
	"go-jobtrack/internal/database"
	"go-jobtrack/internal/identity"
	"go-jobtrack/internal/tracker"
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Driver: %s", cfg.Driver)

	//provision identity (registers an ephemeral one on first run)
	userID, err := identity.NewProvisioner(cfg.StateDir).Provision()
	if err != nil {
		log.Fatalf("❌ Failed to provision identity: %v", err)
	}
	log.Printf("👤 Tracking records for user %s", userID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg.Driver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer store.Close()

	//warm the list controller so the first request serves data
	t := tracker.New(store, userID)
	if err := t.Applications.Load(ctx); err != nil {
		log.Printf("⚠️ Initial load failed: %v", err)
	} else {
		log.Printf("📋 Loaded %d application(s)", len(t.Applications.Records()))
	}

	server := api.New(t)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
