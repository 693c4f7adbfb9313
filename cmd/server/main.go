package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daneth-messenger/api"
	"daneth-messenger/auth"
	"daneth-messenger/relay"
	"daneth-messenger/repositories"
	"daneth-messenger/runtime/workers"
	"daneth-messenger/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper: it calls run() and
	// handles the OS exit code, so every defer in run() executes before
	// the process terminates.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Core wiring: presence registry, repositories, delivery router
	registry := relay.NewRegistry()
	messageRepository := repositories.NewMessageRepository(db, logger)
	userRepository := repositories.NewUserRepository(db)
	router := relay.NewRouter(logger, registry, messageRepository, userRepository)

	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, issuer)
	messengerService := services.NewMessengerService(router, messageRepository, userRepository)

	// 4. Context & signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Error (HTTP & supervisor)
	errChan := make(chan error, 2)

	// 5. Supervised background workers
	supervisor := workers.NewSupervisor(logger)
	supervisor.Add(workers.NewHeartbeatWorker(logger, registry, config.HeartbeatInterval))
	go supervisor.Run(ctx)

	// 6. HTTP server (REST + websocket)
	server := api.NewServer(logger, authService, messengerService, registry,
		issuer, config.AdminKey, config.ConnectionBufferSize, config.HistoryLimit)

	address := fmt.Sprintf("0.0.0.0:%d", config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Routes()}

	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for stop or error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Graceful shutdown: let in-flight requests finish, stop workers
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	supervisor.Stop()
	logger.Info("Server stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}
