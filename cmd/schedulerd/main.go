package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-scheduler-backend/config"
	"booking-scheduler-backend/internal/api"
	"booking-scheduler-backend/internal/auth"
	"booking-scheduler-backend/internal/db"
	"booking-scheduler-backend/internal/mw"
	"booking-scheduler-backend/internal/notification"
	"booking-scheduler-backend/internal/scheduling"
	"booking-scheduler-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "schedulerd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	opts := []scheduling.Option{scheduling.WithGranularity(cfg.Scheduling.Granularity)}
	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = notification.Options(cfg.Push)
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, webpushOptions)
		pool.Start(ctx)
		opts = append(opts, scheduling.WithNotifier(pool))
		logger.Printf("push notifications enabled with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured, push notifications disabled")
	}

	authService := auth.NewService(appStore, auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), cfg.Auth.BcryptCost)
	handler := api.NewHandler(api.Deps{
		Store:         appStore,
		Auth:          authService,
		Scheduling:    scheduling.NewService(appStore, opts...),
		Cache:         mw.NewResponseCache(cfg.Server.CacheTTL),
		Webpush:       webpushOptions,
		PublicBaseURL: cfg.Server.PublicBaseURL,
	})

	router := api.NewRouter(handler, authService.Tokens(), cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}
	cancel()

	logger.Println("Server gracefully stopped")
}
