package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/tumblrfeed/internal/api"
	"github.com/bilgisen/tumblrfeed/internal/config"
	"github.com/bilgisen/tumblrfeed/internal/feed"
	"github.com/bilgisen/tumblrfeed/internal/images"
	"github.com/bilgisen/tumblrfeed/internal/logger"
	"github.com/bilgisen/tumblrfeed/internal/middleware"
	"github.com/bilgisen/tumblrfeed/internal/ui"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	output := "stdout"
	if cfg.LogFile != "" {
		output = cfg.LogFile
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.IsDevelopment(),
	}); err != nil {
		logger.Get().Warn().Err(err).Msg("Falling back to stdout logging")
	}

	log := logger.Get()
	log.Info().
		Str("blog", cfg.BlogIdentifier).
		Msg("Starting application...")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// The main queue owns all screen state
	queue := ui.NewMainQueue()

	fetcher := feed.NewFetcher(feed.Source{
		APIBaseURL:     cfg.APIBaseURL,
		BlogIdentifier: cfg.BlogIdentifier,
		APIKey:         cfg.APIKey,
	}, cfg.HTTPTimeout)
	loader := images.NewLoader(cfg.ImageTimeout, cfg.MaxImageBytes)

	screen := ui.NewScreen(ctx, queue, fetcher, loader, cfg.VisibleRows, logger.Component("screen"))
	screen.Start()

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.HTTPTimeout,
		WriteTimeout:          cfg.HTTPTimeout,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, api.NewHandlers(screen, cfg.BlogIdentifier))

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// In-flight fetches are abandoned; their completions are dropped once the queue closes.
	stop()
	queue.Close()

	log.Info().Msg("Server exited properly")
}
