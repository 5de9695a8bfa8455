package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "homefinder/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"homefinder/internal/auth"
	"homefinder/internal/cache"
	"homefinder/internal/config"
	"homefinder/internal/db"
	"homefinder/internal/handler"
	"homefinder/internal/repository"
	"homefinder/internal/router"
	"homefinder/internal/service"
	"homefinder/internal/upload"
)

// @title HomeFinder API
// @version 1.0
// @description Real-estate listings: properties, inquiries, favorites and session authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	cfg, err := config.Load()
	if err != nil {
		e.Logger.Fatalf("config: %v", err)
	}

	store, gormDB, err := openStorage(cfg)
	if err != nil {
		e.Logger.Fatalf("storage: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	var sessions auth.SessionStore = auth.NewMemorySessionStore()
	if cacheClient.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			e.Logger.Warnf("redis at %s unreachable, using in-process sessions: %v", cfg.RedisAddr, err)
		} else {
			sessions = auth.NewRedisSessionStore(cacheClient)
		}
		cancel()
	}

	uploads, err := openUploads(cfg)
	if err != nil {
		e.Logger.Fatalf("uploads: %v", err)
	}

	// Initialize auth components
	tokens := auth.NewTokenService(cfg.SessionSecret, cfg.SessionTTL)
	guard := auth.NewMiddleware(tokens, sessions, store)

	// Initialize services
	authService := service.NewAuthService(store, tokens, sessions)
	userService := service.NewUserService(store, store, cacheClient)
	propertyService := service.NewPropertyService(store, cacheClient, uploads, cfg.FeaturedLimit)
	inquiryService := service.NewInquiryService(store, store)
	favoriteService := service.NewFavoriteService(store, store)

	// Register routes
	router.Register(
		e,
		cfg,
		guard,
		handler.NewAuthHandler(authService, cfg.CookieSecure),
		handler.NewUserHandler(userService),
		handler.NewPropertyHandler(propertyService),
		handler.NewInquiryHandler(inquiryService),
		handler.NewFavoriteHandler(favoriteService),
	)

	srv := &http.Server{
		Addr: ":" + cfg.ServerPort,
		Handler: cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{echo.HeaderAuthorization, echo.HeaderContentType},
			ExposedHeaders:   []string{"X-Total-Count"},
			AllowCredentials: true,
		}).Handler(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		e.Logger.Infof("storage=%s uploads=%s, listening on %s", cfg.StorageDriver, cfg.UploadDriver, srv.Addr)
		e.Logger.Infof("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	e.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
	if err := cacheClient.Close(); err != nil {
		e.Logger.Warnf("close redis: %v", err)
	}
	if gormDB != nil {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// openStorage returns the configured storage. The *gorm.DB is nil for the memory driver.
func openStorage(cfg *config.Config) (repository.Storage, *gorm.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return repository.NewMemoryStorage(), nil, nil
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ResetDB {
		log.Warn("RESET_DB set, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return nil, nil, err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}
	return repository.NewGormStorage(gormDB), gormDB, nil
}

func openUploads(cfg *config.Config) (upload.Store, error) {
	if cfg.UploadDriver == config.UploadS3 {
		return upload.NewS3Store(cfg.S3)
	}
	return upload.NewLocalStore(cfg.UploadDir, router.UploadsPath)
}
