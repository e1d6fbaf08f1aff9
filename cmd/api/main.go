package main

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/organic-api/internal/handler"
	"github.com/noah-isme/organic-api/internal/migrations"
	"github.com/noah-isme/organic-api/internal/repository"
	"github.com/noah-isme/organic-api/internal/server"
	"github.com/noah-isme/organic-api/internal/service"
	"github.com/noah-isme/organic-api/pkg/cache"
	"github.com/noah-isme/organic-api/pkg/config"
	"github.com/noah-isme/organic-api/pkg/database"
	"github.com/noah-isme/organic-api/pkg/jobs"
	"github.com/noah-isme/organic-api/pkg/logger"
)

// @title Organic API
// @version 0.1.0
// @description Course staff administration and current-user information
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := migrations.NewMigrator(db, logr).Up(ctx)
		if err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
		logr.Info("migrations applied", zap.Int("count", applied))
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, staff cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Staff.CacheTTL, logr, cfg.Staff.CacheEnabled && redisClient != nil)

	staffRepo := repository.NewStaffRepository(db)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, logr, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
		MaxRetries: 3,
	})
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		Secret:      cfg.JWT.Secret,
		Expiry:      cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
		AdminEmails: cfg.AdminEmails,
	})
	staffSvc := service.NewStaffService(staffRepo, userRepo, courseRepo, auditSvc, cacheSvc, metrics, validate, logr, service.StaffServiceConfig{CacheTTL: cfg.Staff.CacheTTL})
	currentUserSvc := service.NewCurrentUserService(userRepo, logr)

	router := server.NewRouter(cfg, logr, server.Dependencies{
		Auth:        authSvc,
		Metrics:     metrics,
		Staff:       handler.NewStaffHandler(staffSvc),
		CurrentUser: handler.NewCurrentUserHandler(currentUserSvc),
		Probes:      handler.NewMetricsHandler(metrics, db),
	})

	if err := server.New(cfg.Port, router, logr).Run(); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
