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

	"github.com/gin-gonic/gin"

	"flyhigh/database"
	"flyhigh/internal/cache"
	"flyhigh/internal/config"
	"flyhigh/internal/handler"
	"flyhigh/internal/i18n"
	"flyhigh/internal/middleware"
	"flyhigh/internal/repository"
	"flyhigh/internal/service"
	"flyhigh/internal/validation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database setup failed", "error", err)
		os.Exit(1)
	}

	translator, err := i18n.New()
	if err != nil {
		logger.Error("loading message catalogs failed", "error", err)
		os.Exit(1)
	}

	var userCache service.UserCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewUserCache(cfg.RedisURL, cfg.UserCacheTTL, logger)
		if err != nil {
			logger.Error("redis setup failed", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		userCache = redisCache
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	emailService := service.NewSMTPEmailService(cfg)
	tokenService := service.NewTokenService(tokenRepo, cfg, logger)
	userService := service.NewUserService(userRepo, emailService, userCache, cfg, logger)

	userValidator := validation.NewUserValidator(func(email string) bool {
		_, err := userRepo.FindByEmail(email)
		return err == nil
	})

	authHandler := handler.NewAuthHandler(userService, tokenService, userValidator, logger)
	userHandler := handler.NewUserHandler(userService, userValidator, translator)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokenService.ScheduleCleanup(ctx)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorResponder(translator, logger))
	r.Use(middleware.TokenAuthentication(tokenService, userRepo, logger))

	api := r.Group("/api/1.0")
	{
		api.POST("/auth",
			middleware.RateLimitPerIP(cfg.LoginRateLimit, cfg.LoginRateBurst, 10_000, 10*time.Minute),
			authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.POST("/users", userHandler.Register)
		api.POST("/users/token/:token", userHandler.Activate)
		api.GET("/users", middleware.Pagination(), userHandler.List)
		api.GET("/users/:id", userHandler.Get)
		api.PUT("/users/:id", userHandler.Update)
		api.DELETE("/users/:id", userHandler.Delete)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("server is running", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
