// Package main is the entry point for the blog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogd/internal/cache"
	"blogd/internal/config"
	"blogd/internal/database"
	"blogd/internal/handlers"
	"blogd/internal/router"
	"blogd/internal/storage"
	"blogd/internal/store"
	"blogd/internal/token"
)

func main() {
	// Structured logger.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Bearer token service.
	tokens, err := token.NewService(cfg.TokenKey)
	if err != nil {
		slog.Error("failed to initialize token service", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (Redis-compatible listing cache). Optional: the
	// API serves everything from PostgreSQL when the cache is down.
	var listings *cache.ListingCache
	valkeyClient, err := cache.ConnectValkey(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		slog.Warn("valkey unavailable, listing cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		listings = cache.NewListingCache(valkeyClient, cache.DefaultListingTTL)
	}

	// Connect to S3-compatible object storage (optional; uploads are
	// rejected when not configured).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketProfile, cfg.S3BucketMedia, cfg.S3BucketCareers, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"profile_bucket", cfg.S3BucketProfile,
			"media_bucket", cfg.S3BucketMedia,
			"careers_bucket", cfg.S3BucketCareers,
		)
	} else {
		slog.Warn("s3 storage not configured, file uploads disabled")
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	engagementStore := store.NewEngagementStore(db)
	careerStore := store.NewCareerStore(db)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, tokens, storageClient)
	blogHandlers := handlers.NewBlog(postStore, engagementStore, storageClient, listings)
	categoryHandlers := handlers.NewCategory(categoryStore, listings)
	careerHandlers := handlers.NewCareer(careerStore, storageClient)

	// Set up the Chi router with all middleware and routes.
	r := router.New(tokens, authHandlers, blogHandlers, categoryHandlers, careerHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate multipart uploads streaming to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
