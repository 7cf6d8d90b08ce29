package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/inteduweb-admin/api/swagger"
	"github.com/noah-isme/inteduweb-admin/internal/handler"
	"github.com/noah-isme/inteduweb-admin/internal/middleware"
	"github.com/noah-isme/inteduweb-admin/internal/models"
	"github.com/noah-isme/inteduweb-admin/internal/repository"
	"github.com/noah-isme/inteduweb-admin/internal/service"
	"github.com/noah-isme/inteduweb-admin/internal/ws"
	"github.com/noah-isme/inteduweb-admin/pkg/cache"
	"github.com/noah-isme/inteduweb-admin/pkg/config"
	"github.com/noah-isme/inteduweb-admin/pkg/database"
	"github.com/noah-isme/inteduweb-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/inteduweb-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/inteduweb-admin/pkg/middleware/requestid"
	"github.com/noah-isme/inteduweb-admin/web"
)

// @title inteduweb admin
// @version 0.1.0
// @description Server-rendered administration of classrooms and schools
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	client, err := repository.NewRESTClient(cfg.Upstream, metricsSvc, logr)
	if err != nil {
		logr.Fatal("invalid upstream configuration", zap.Error(err))
	}
	classroomRepo := repository.NewResourceRepository[models.Classroom, models.ClassroomPayload](client, "classrooms")
	schoolRepo := repository.NewResourceRepository[models.School, models.SchoolPayload](client, "schools")
	userRepo := repository.NewResourceRepository[models.User, models.User](client, "users")

	var redisClient *redis.Client
	if cfg.References.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, reference cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, "inteduweb:"), metricsSvc, cfg.References.CacheTTL, logr, redisClient != nil)
	refs := service.NewReferenceService(userRepo, schoolRepo, cacheSvc, cfg.References.CacheTTL, logr)

	var auditSvc *service.AuditService
	if cfg.Audit.Enabled {
		auditSvc = startAudit(ctx, cfg, metricsSvc, logr, checks)
		if auditSvc != nil {
			defer auditSvc.Stop()
		}
	}

	hub := ws.NewHub(metricsSvc, logr)
	go hub.Run(ctx)

	sessions := service.NewSessionManager(func(sessionID string) *service.Workspace {
		entityCfg := service.EntityServiceConfig{SessionID: sessionID, Publisher: hub, Logger: logr}
		if auditSvc != nil {
			entityCfg.Audit = auditSvc
		}
		return &service.Workspace{
			Classrooms: service.NewClassroomService(classroomRepo, entityCfg),
			Schools:    service.NewSchoolService(schoolRepo, entityCfg),
		}
	}, service.SessionManagerConfig{IdleTTL: cfg.Sessions.IdleTTL, SweepInterval: cfg.Sessions.SweepInterval}, metricsSvc, logr)
	sessions.Start(ctx)

	tmpl, err := web.Templates()
	if err != nil {
		logr.Fatal("failed to parse templates", zap.Error(err))
	}

	validate := validator.New()
	exportSvc := service.NewExportService(nil, logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	auditHandler := handler.NewAuditHandler(auditSvc)
	referenceHandler := handler.NewReferenceHandler(refs)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(corsmiddleware.Policy{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		PathPrefixes:   []string{"/state/", "/metrics", "/health", "/ready", "/audit"},
	}))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)
	r.GET("/audit", auditHandler.List)
	r.POST("/references/users/refresh", referenceHandler.RefreshUsers)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	views := r.Group("/")
	views.Use(middleware.Session(sessions, cfg.Sessions))
	handler.NewClassroomHandler(refs, validate, exportSvc, hub, logr).Register(views)
	handler.NewSchoolHandler(validate, exportSvc, hub, logr).Register(views)
	views.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/classroom")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func startAudit(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger, checks map[string]handler.ReadinessCheck) *service.AuditService {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, audit journal disabled", zap.Error(err))
		return nil
	}
	repo := repository.NewAuditRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logr.Warn("audit schema unavailable, audit journal disabled", zap.Error(err))
		_ = db.Close()
		return nil
	}
	checks["postgres"] = db.PingContext

	svc := service.NewAuditService(repo, metrics, service.AuditServiceConfig{Workers: cfg.Audit.Workers, Retries: cfg.Audit.Retries}, logr)
	svc.Start(ctx)
	return svc
}
