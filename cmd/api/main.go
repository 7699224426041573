package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/cajurona/backend/docs"
	"github.com/cajurona/backend/internal/bot"
	"github.com/cajurona/backend/internal/config"
	"github.com/cajurona/backend/internal/database"
	"github.com/cajurona/backend/internal/group"
	"github.com/cajurona/backend/internal/ledger"
	"github.com/cajurona/backend/internal/presence"
	"github.com/cajurona/backend/internal/trip"
	"github.com/cajurona/backend/internal/user"
	"github.com/cajurona/backend/internal/whatsapp"
	mw "github.com/cajurona/backend/pkg/middleware"
)

// @title        Cajurona API
// @version      1.0
// @description  Carpool presence and billing bot
// @BasePath     /
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	// WhatsApp gateway client
	gateway := whatsapp.NewClient(cfg.EvolutionURL, cfg.EvolutionAPIKey, cfg.EvolutionInstance)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Trip feature
	tripRepo := trip.NewRepository(db)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo, tripRepo, gateway)
	groupHandler := group.NewHandler(groupService)

	// Ledger feature
	ledgerRepo := ledger.NewRepository(db)
	ledgerService := ledger.NewService(ledgerRepo, groupRepo)
	ledgerHandler := ledger.NewHandler(ledgerService)

	// Presence feature
	presenceRepo := presence.NewRepository(db)
	presenceService := presence.NewService(presenceRepo, tripRepo, ledgerRepo)
	presenceHandler := presence.NewHandler(presenceService, groupService)

	// Bot feature
	botRepo := bot.NewRepository(db)
	botService := bot.NewService(groupService, userService, presenceService, ledgerService, gateway, botRepo)
	botHandler := bot.NewHandler(botService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", botHandler.Health)
	r.Post("/test", botHandler.Test)

	r.Group(func(r chi.Router) {
		r.Use(mw.WebhookSecret(cfg.WebhookSecret))
		r.Post("/webhook", botHandler.Webhook)
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/ledger", ledgerHandler.Routes())
		r.Mount("/presence", presenceHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
