package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/acompanamiento-api/api/swagger"
	"github.com/noah-isme/acompanamiento-api/internal/handler"
	"github.com/noah-isme/acompanamiento-api/internal/middleware"
	"github.com/noah-isme/acompanamiento-api/internal/repository"
	"github.com/noah-isme/acompanamiento-api/internal/service"
	"github.com/noah-isme/acompanamiento-api/pkg/cache"
	"github.com/noah-isme/acompanamiento-api/pkg/config"
	"github.com/noah-isme/acompanamiento-api/pkg/database"
	"github.com/noah-isme/acompanamiento-api/pkg/jobs"
	"github.com/noah-isme/acompanamiento-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/acompanamiento-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/acompanamiento-api/pkg/middleware/requestid"
	"github.com/noah-isme/acompanamiento-api/pkg/storage"
)

// @title Acompañamiento API
// @version 1.0.0
// @description Backend de acompañamiento docente: match, asignaciones, historial y notificaciones
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
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The cache repository degrades gracefully without a client, so a
		// missing Redis downgrades caching and run locking instead of
		// refusing to start.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	teacherRepo := repository.NewTeacherTermRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	metricsSvc := service.NewMetricsService()

	assignmentSvc := service.NewAssignmentService(assignmentRepo, cacheRepo, metricsSvc, cfg.Cache.AsignacionesTTL, logr)
	matchSvc := service.NewMatchService(teacherRepo, availabilityRepo, assignmentRepo, historyRepo, notificationRepo, cacheRepo, assignmentSvc, metricsSvc, cfg.Match, logr)
	historySvc := service.NewHistoryService(historyRepo, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, cfg.Notifications, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, nil, logr)
	teacherSvc := service.NewTeacherTermService(teacherRepo, nil, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}

		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(assignmentSvc, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, nil, nil)

		exportQueue := jobs.NewQueue("exports", exportSvc.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportSvc.SetQueue(exportQueue)
		exportQueue.Start(ctx)
		defer exportQueue.Stop()
	}

	if cfg.Notifications.CleanupEnabled {
		go runNotificationCleanup(ctx, notificationSvc, cfg.Notifications.CleanupInterval, logr)
	}

	matchHandler := handler.NewMatchHandler(matchSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, exportSvc)
	historyHandler := handler.NewHistoryHandler(historySvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	teacherHandler := handler.NewTeacherTermHandler(teacherSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	guarded := api.Group("", middleware.Guard(cfg.JWT))

	guarded.POST("/periodos/:periodo/match", matchHandler.Run)

	api.GET("/asignaciones", assignmentHandler.List)
	guarded.POST("/asignaciones/export", assignmentHandler.Export)
	api.GET("/asignaciones/export/:id", assignmentHandler.ExportStatus)
	api.GET("/asignaciones/export/download/:token", assignmentHandler.Download)

	api.GET("/historial", historyHandler.List)

	api.GET("/notificaciones", notificationHandler.List)
	guarded.PATCH("/notificaciones/:id/vista", notificationHandler.MarkVista)
	guarded.PATCH("/notificaciones/:id/leida", notificationHandler.MarkLeida)
	guarded.PATCH("/notificaciones/:id/archivar", notificationHandler.Archive)
	guarded.POST("/notificaciones/leidas", notificationHandler.MarkAllRead)

	api.GET("/disponibilidad", availabilityHandler.List)
	guarded.PUT("/disponibilidad", availabilityHandler.Replace)

	api.GET("/docentes", teacherHandler.List)
	guarded.PUT("/docentes", teacherHandler.BulkLoad)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// runNotificationCleanup prunes read and archived notifications past their
// retention age on a fixed interval until the context is cancelled.
func runNotificationCleanup(ctx context.Context, svc *service.NotificationService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.Cleanup(ctx)
			if err != nil {
				logr.Sugar().Errorw("notification cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				logr.Sugar().Infow("notification cleanup completed", "removed", removed)
			}
		}
	}
}
