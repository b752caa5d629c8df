package main

import (
	"context"
	"log"
	"time"

	"go-jobtrack/internal/config"
	"go-jobtrack/internal/database"
	"go-jobtrack/internal/identity"
	"go-jobtrack/internal/models"
	"go-jobtrack/internal/reporter"
)

// One-shot reminder digest: collect every due, incomplete reminder for the
// provisioned user and push it to Telegram. Meant to run from cron.
func main() {
	cfg := config.Load()
	if !cfg.TelegramEnabled() {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required for the reminder digest")
	}

	userID, err := identity.NewProvisioner(cfg.StateDir).Provision()
	if err != nil {
		log.Fatalf("❌ Failed to provision identity: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := database.Open(ctx, cfg.Driver, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer store.Close()

	rep, err := reporter.NewTelegramReporter(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init Telegram reporter: %v", err)
	}

	due, err := store.DueReminders(ctx, userID, time.Now().UTC())
	if err != nil {
		log.Fatalf("❌ Failed to collect due reminders: %v", err)
	}
	log.Printf("⏰ %d reminder(s) due", len(due))

	// application context for scoped reminders
	apps, err := store.ListApplications(ctx, userID)
	if err != nil {
		log.Fatalf("❌ Failed to list applications: %v", err)
	}
	byID := make(map[string]models.JobApplication, len(apps))
	for _, app := range apps {
		byID[app.ID] = app
	}

	if err := rep.SendReminderDigest(due, byID); err != nil {
		log.Fatalf("❌ Failed to send digest: %v", err)
	}
	log.Println("✅ Digest sent.")
}
