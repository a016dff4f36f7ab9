package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/student-crm-api/api/swagger"
	"github.com/noah-isme/student-crm-api/internal/handler"
	"github.com/noah-isme/student-crm-api/internal/middleware"
	"github.com/noah-isme/student-crm-api/internal/repository"
	"github.com/noah-isme/student-crm-api/internal/service"
	"github.com/noah-isme/student-crm-api/pkg/cache"
	"github.com/noah-isme/student-crm-api/pkg/config"
	"github.com/noah-isme/student-crm-api/pkg/database"
	"github.com/noah-isme/student-crm-api/pkg/export"
	"github.com/noah-isme/student-crm-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-crm-api/pkg/middleware/requestid"
	"github.com/noah-isme/student-crm-api/pkg/storage"
)

// @title Student CRM API
// @version 1.0.0
// @description Single-tenant student record and fee ledger service
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	if err := repository.RunMigrations(db, logr); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	studentRepo := repository.NewStudentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	catalogRepo := repository.NewCatalogRepository(cfg.Catalog.Path)

	backupStore, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare backup directory", "error", err)
	}

	validate := validator.New()

	ledgerSvc := service.NewLedgerService(studentRepo, auditRepo, cacheSvc, metricsSvc, validate, logr)
	auditSvc := service.NewAuditService(auditRepo, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, logr)
	backupSvc := service.NewBackupService(studentRepo, auditRepo, backupStore, export.NewCSVExporter(), metricsSvc, logr)
	receiptRenderer := export.NewReceiptPDF(export.Letterhead{
		Name:    cfg.Receipt.InstituteName,
		Address: cfg.Receipt.InstituteAddress,
		Phone:   cfg.Receipt.InstitutePhone,
	})
	receiptSvc := service.NewReceiptService(studentRepo, receiptRenderer, logr)
	authSvc := service.NewAuthService(cfg.Admin, logr)

	if cfg.Backup.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		backupSvc.Run(ctx, time.Now())
		cancel()
	}

	studentHandler := handler.NewStudentHandler(ledgerSvc)
	receiptHandler := handler.NewReceiptHandler(receiptSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	backupHandler := handler.NewBackupHandler(backupSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)
		api.GET("/students/:id/receipt", receiptHandler.Download)

		api.GET("/courses", catalogHandler.List)
		api.POST("/admin/login", authHandler.Login)

		admin := api.Group("/admin", middleware.AdminJWT(authSvc))
		{
			admin.GET("/audit-logs", auditHandler.List)
			admin.PUT("/courses", catalogHandler.Save)
			admin.POST("/backups", backupHandler.Run)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
