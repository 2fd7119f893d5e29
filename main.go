package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealstash/recipe-api-be/internal/api"
	"github.com/mealstash/recipe-api-be/internal/config"
	"github.com/mealstash/recipe-api-be/internal/database"
	"github.com/mealstash/recipe-api-be/internal/logger"
	"github.com/mealstash/recipe-api-be/internal/maintenance"
	"github.com/mealstash/recipe-api-be/internal/services"
	"github.com/mealstash/recipe-api-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the media directory exists
	if err := os.MkdirAll(cfg.MediaPath, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create media directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub for the live activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, hub)
	tagService := services.NewTagService(db)
	ingredientService := services.NewIngredientService(db)
	recipeService := services.NewRecipeService(db, eventService, cfg.MediaPath)

	// Set up and run the background janitor
	janitor, err := maintenance.NewJanitor(db, eventService, cfg.MediaPath, cfg.CleanupSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid cleanup schedule")
	}
	go janitor.Run()

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		Hub:         hub,
		Users:       userService,
		Tags:        tagService,
		Ingredients: ingredientService,
		Recipes:     recipeService,
		Events:      eventService,
		JWTSecret:   []byte(cfg.JWTSecret),
		TokenTTL:    cfg.TokenTTL,
		MediaPath:   cfg.MediaPath,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
