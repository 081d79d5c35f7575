package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/yukikurage/folio-api/internal/config"
	"github.com/yukikurage/folio-api/internal/database"
	"github.com/yukikurage/folio-api/internal/logger"
	"github.com/yukikurage/folio-api/internal/server"
)

func main() {
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("", "info")
		log.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)
	if envErr != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}

// run connects to the database before listening and blocks until a
// shutdown signal arrives or the listener fails.
func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().Str("env", cfg.Env).Msg("Starting folio API server")

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(database.GetDB(), cfg.Database.Driver, log); err != nil {
		return err
	}

	router := server.NewRouter(cfg, database.GetDB(), log, nil)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
