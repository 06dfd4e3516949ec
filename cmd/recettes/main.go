// Package main is the entry point for the recipe catalog server.
// It loads configuration, wires the selected storage, auth and upload
// backends, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recettes/internal/auth"
	"recettes/internal/catalog"
	"recettes/internal/config"
	"recettes/internal/database"
	"recettes/internal/handlers"
	"recettes/internal/router"
	"recettes/internal/taxonomy"
	"recettes/internal/uploader"
)

func main() {
	// Structured logger — text output, debug level everywhere for now.
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
		"catalog", cfg.CatalogBackend,
		"auth", cfg.AuthMode,
		"uploads", cfg.UploadBackend,
	)

	if len(cfg.Admins) == 0 {
		slog.Warn("no admin accounts configured — login is impossible until ADMIN_PASSWORD is set")
	}

	// Storage backends: either everything lives in the data directory as
	// JSON files, or everything lives in PostgreSQL.
	var (
		catalogStore  catalog.Store
		taxonomyStore taxonomy.Store
	)
	switch cfg.CatalogBackend {
	case config.CatalogPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		catalogStore = catalog.NewPGStore(db)
		taxonomyStore = taxonomy.NewPGStore(db)

	default: // config.CatalogFile
		fileCatalog, err := catalog.NewFileStore(cfg.DataDir)
		if err != nil {
			slog.Error("failed to open the catalog data directory", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		fileTaxonomy, err := taxonomy.NewFileStore(cfg.DataDir)
		if err != nil {
			slog.Error("failed to open the taxonomy data directory", "error", err, "dir", cfg.DataDir)
			os.Exit(1)
		}
		catalogStore = fileCatalog
		taxonomyStore = fileTaxonomy
	}

	// Token store backing the admin session.
	var tokens auth.TokenStore
	switch cfg.AuthMode {
	case config.AuthJWT:
		tokens = auth.NewJWTStore(cfg.JWTSecret, cfg.TokenTTL)

	case config.AuthRedis:
		valkeyClient, err := auth.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		tokens = auth.NewRedisStore(valkeyClient, cfg.TokenTTL)

	default: // config.AuthMemory
		tokens = auth.NewMemoryStore(cfg.TokenTTL)
	}

	// Upload backend (optional — the app works without one, uploads just
	// return 503).
	var assets uploader.Uploader
	switch cfg.UploadBackend {
	case config.UploadS3:
		s3, err := uploader.NewS3(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		assets = s3
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)

	case config.UploadCloudinary:
		cld, err := uploader.NewCloudinary(
			cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret, cfg.CloudinaryFolder,
		)
		if err != nil {
			slog.Error("failed to initialize cloudinary", "error", err)
			os.Exit(1)
		}
		assets = cld
		slog.Info("cloudinary connected", "cloud", cfg.CloudinaryCloud, "folder", cfg.CloudinaryFolder)

	default:
		slog.Warn("no upload backend configured — image uploads disabled")
	}

	// Create handler groups with their dependencies.
	checker := auth.NewChecker(cfg.Admins)
	authHandlers := handlers.NewAuth(checker, tokens)
	recipeHandlers := handlers.NewRecipes(catalogStore, assets)
	categoryHandlers := handlers.NewCategories(taxonomyStore, catalogStore)
	uploadHandlers := handlers.NewUpload(assets)

	// Set up the Chi router with all middleware and routes.
	r := router.New(tokens, authHandlers, recipeHandlers, categoryHandlers, uploadHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout leaves
	// room for image uploads to slow object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
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
