package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "learnjournal/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"learnjournal/internal/auth"
	"learnjournal/internal/cache"
	"learnjournal/internal/config"
	"learnjournal/internal/db"
	"learnjournal/internal/handler"
	"learnjournal/internal/repository"
	"learnjournal/internal/router"
	"learnjournal/internal/service"
	"learnjournal/internal/view"
)

// @title Learning Journal API
// @version 1.0
// @description Read-only access to a user's learning journal.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		Debug:           strings.EqualFold(cfg.LogLevel, "debug"),
	})
	if err != nil {
		logger.Error("database init", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close(gormDB)

	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	// A nil client disables caching and session revocation lookups.
	var cacheClient *cache.Client
	if cfg.RedisEnabled {
		cacheClient, err = cache.Connect(context.Background(), cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unreachable, continuing without cache", "addr", cfg.RedisAddr, "error", err)
		}
		defer cacheClient.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	entryRepo := repository.NewEntryRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	guard := auth.NewGuard(jwtService, tokenStore, cfg.CookieSecure)

	// Initialize services
	userService := service.NewUserService(userRepo, entryRepo, cfg.BcryptCost)
	entryService := service.NewEntryService(entryRepo, cacheClient)
	authService := service.NewAuthService(userService, jwtService, tokenStore)

	if cfg.HasBootstrapAdmin() {
		admin, err := userService.Bootstrap(context.Background(),
			cfg.BootstrapAdminUsername, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			logger.Error("bootstrap admin", "error", err)
			os.Exit(1)
		}
		if admin != nil {
			logger.Info("created admin account", "username", admin.Username)
		}
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Error("templates", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	router.Register(e, cfg, logger, renderer, guard, router.Handlers{
		Journal: handler.NewJournalHandler(userService, entryService),
		Auth:    handler.NewAuthHandler(authService, guard),
		API:     handler.NewAPIHandler(authService, userService, entryService),
		Health:  handler.NewHealthHandler(gormDB, cacheClient),
	})

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		swaggerURL = strings.TrimSuffix(cfg.SwaggerHost, "/") + "/swagger/index.html"
		if !strings.HasPrefix(swaggerURL, "http://") && !strings.HasPrefix(swaggerURL, "https://") {
			swaggerURL = "http://" + swaggerURL
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort, "env", cfg.AppEnv, "swagger", swaggerURL)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
