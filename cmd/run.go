package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"collector/api"
	"collector/config"
	"collector/database"
	"collector/events"
	"collector/repository"
	"collector/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting collector...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	collectionService := service.NewCollectionService(uowFactory, cfg)

	// A successful commit refreshes the roster so committed payments show
	// up as registered rows.
	eventBus.Subscribe(events.EventTypeDayCommitted, func(ctx context.Context, event events.Event) {
		if err := collectionService.RefreshRoster(ctx); err != nil {
			log.WithError(err).Warn("Failed to refresh roster after commit")
		}
	})

	// Initialize HTTP server
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(collectionService, cfg.AllowedOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Infof("Serving in %s mode", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		db.Close()
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}
