package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/copperkettle/backhouse/internal/ai"
	"github.com/copperkettle/backhouse/internal/api"
	"github.com/copperkettle/backhouse/internal/config"
	"github.com/copperkettle/backhouse/internal/crosspost"
	"github.com/copperkettle/backhouse/internal/database"
	"github.com/copperkettle/backhouse/internal/ics"
	"github.com/copperkettle/backhouse/internal/repository"
	"github.com/copperkettle/backhouse/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	eventRepo := repository.NewEventRepository(db)
	specialRepo := repository.NewSpecialRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	displayRepo := repository.NewDisplayRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)

	// Channel cross-posting (optional)
	var poster scheduler.Poster
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		p, err := crosspost.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to create cross-poster: %v", err)
		}
		poster = p
		log.Println("Channel cross-posting enabled")
	} else {
		log.Println("Channel cross-posting not configured")
	}

	// AI copy suggestions (optional)
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, copy suggestions disabled")
	}

	// Create and start scheduler
	sched := scheduler.New(announcementRepo, specialRepo, eventRepo, displayRepo, poster, loc)
	go sched.Start(ctx)
	go func() {
		if err := sched.StartMaintenance(ctx, cfg.MaintenanceCron); err != nil {
			log.Printf("Maintenance schedule error: %v", err)
		}
	}()

	server := api.NewServer(&api.Options{
		Addr:          cfg.HTTPAddr,
		Loc:           loc,
		Events:        eventRepo,
		Specials:      specialRepo,
		Announcements: announcementRepo,
		Menu:          menuRepo,
		Displays:      displayRepo,
		Campaigns:     campaignRepo,
		Feed:          ics.NewFeed(loc),
		AI:            aiClient,
		Notifier:      sched,
	})

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Stop(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.HTTPAddr)
	if err := server.Start(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
