package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"treelink/internal/app"
	"treelink/internal/auth"
	"treelink/internal/config"
	"treelink/internal/handler"
	"treelink/internal/middleware"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, "server", cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"database_driver", cfg.DatabaseDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open backend: %v", err)
	}
	defer application.Close()

	if err := application.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("database schema up to date")

	// Actor attribution is optional; without JWKS_URL every request is anonymous
	var verifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
	}

	services := application.Services
	maxUpload := cfg.Limits.MaxUploadBytes

	handlers := &handler.Handlers{
		Structures: handler.NewStructureHandler(services.Import, services.Structures, maxUpload, logger),
		Trees:      handler.NewTreeHandler(services.Trees, services.Consistency, logger),
		Documents:  handler.NewDocumentHandler(services.Documents, maxUpload, logger),
		Search:     handler.NewSearchHandler(services.Search, logger),
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLogger → Actor → Routes
	h = middleware.Actor(verifier, logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
