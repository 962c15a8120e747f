package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"garage/docs" // swagger docs
	"garage/internal/auth"
	"garage/internal/cache"
	"garage/internal/config"
	"garage/internal/db"
	"garage/internal/handler"
	"garage/internal/repository"
	"garage/internal/router"
	"garage/internal/service"
	"garage/internal/storage"
)

// @title Garage API
// @version 1.0
// @description User accounts with bearer tokens and a catalogue of car parts and tools.
// @host localhost:8100
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	log.SetLevel(parseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.UsingDefaultSecret() {
		log.Warn("SECRET_KEY not set, signing tokens with the public default secret")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, db.Options{Debug: parseLevel(cfg.LogLevel) == log.DEBUG})
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient.Enabled() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			log.Warnf("redis %s unreachable, running without cache and token revocation: %v", cfg.RedisAddr, err)
		}
		cancel()
	}

	photos, err := storage.NewPhotoStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("photo storage: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	itemRepo := repository.NewItemRepository(gormDB)
	authEventRepo := repository.NewAuthEventRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.SecretKey, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	audit := service.NewAuditLog(authEventRepo)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, tokenStore, audit)
	userService := service.NewUserService(userRepo, tokenStore, photos, audit)
	itemService := service.NewItemService(itemRepo, cacheClient)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Logger.SetLevel(parseLevel(cfg.LogLevel))
	router.Register(e,
		router.Options{CORSOrigins: cfg.CORSOrigins},
		jwtService,
		authService,
		router.Handlers{
			Auth: handler.NewAuthHandler(authService, photos),
			User: handler.NewUserHandler(userService),
			Item: handler.NewItemHandler(itemService),
		},
	)

	go func() {
		log.Infof("server starting on :%s (env %s, store %s)", cfg.ServerPort, cfg.Env, cfg.DBDriver)
		log.Infof("swagger documentation available at http://%s/swagger/index.html", docs.SwaggerInfo.Host)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}
	if err := audit.Close(ctx); err != nil {
		log.Errorf("flush auth events: %v", err)
	}
	if err := cacheClient.Close(); err != nil {
		log.Errorf("close redis: %v", err)
	}
	if err := db.Close(gormDB); err != nil {
		log.Errorf("close database: %v", err)
	}
	log.Info("server stopped")
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
