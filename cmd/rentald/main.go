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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"car-rental-backend/config"
	"car-rental-backend/internal/api"
	"car-rental-backend/internal/calendar"
	"car-rental-backend/internal/db"
	"car-rental-backend/internal/feed"
	"car-rental-backend/internal/logging"
	"car-rental-backend/internal/notification"
	"car-rental-backend/internal/seed"
	"car-rental-backend/internal/store"
)

func main() {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Configuration loaded", zap.String("path", configPath))

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB, logger.Named("store"))
	cal := calendar.NewService(appStore, cfg.Calendar.Location, cfg.Calendar.MaxRangeDays, logger.Named("calendar"))

	if cfg.Seed.Enabled {
		fleet, err := seed.Load(cal.Today())
		if err != nil {
			logger.Fatal("Failed to load demo fleet", zap.Error(err))
		}
		if err := seed.Apply(ctx, appStore, fleet); err != nil {
			logger.Fatal("Failed to seed demo fleet", zap.Error(err))
		}
		logger.Info("Demo fleet seeded",
			zap.Int("vehicles", len(fleet.Vehicles)), zap.Int("bookings", len(fleet.Bookings)))
	}

	responses := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)

	var webpushOptions *webpush.Options
	var dispatcher feed.Dispatcher
	var workers *notification.WorkerPool
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Warn("VAPID keys are not configured, push notifications are disabled")
	} else {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workers = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions, logger.Named("notification"))
		workers.Start(ctx)
		dispatcher = workers
	}

	var rdb *redis.Client
	if cfg.Server.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Server.RedisAddr,
			Password: cfg.Server.RedisPassword,
			DB:       cfg.Server.RedisDB,
		})
		defer rdb.Close()
		logger.Info("Using redis rate limiter", zap.String("addr", cfg.Server.RedisAddr))
	}

	feedSvc, err := feed.NewService(cfg.Feed, appStore, dispatcher, responses, logger.Named("feed"))
	if err != nil {
		logger.Fatal("Failed to create booking feed", zap.Error(err))
	}
	feedSvc.Start(ctx)

	handler := api.NewHandler(appStore, cal, webpushOptions, logger.Named("api"))
	opts := api.RouterOptions{
		Server:    cfg.Server,
		Responses: responses,
		Logger:    logger.Named("http"),
	}
	if rdb != nil {
		opts.Redis = rdb
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, opts),
	}

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
	}

	cancel()
	feedSvc.Stop()
	if workers != nil {
		workers.Wait()
	}
	logger.Info("Server gracefully stopped")
}
