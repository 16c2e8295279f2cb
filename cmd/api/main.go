package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edushare/edushare-api/api/swagger"
	"github.com/edushare/edushare-api/internal/handler"
	"github.com/edushare/edushare-api/internal/middleware"
	"github.com/edushare/edushare-api/internal/repository"
	"github.com/edushare/edushare-api/internal/service"
	"github.com/edushare/edushare-api/pkg/cache"
	"github.com/edushare/edushare-api/pkg/config"
	"github.com/edushare/edushare-api/pkg/database"
	"github.com/edushare/edushare-api/pkg/logger"
	corsmiddleware "github.com/edushare/edushare-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edushare/edushare-api/pkg/middleware/requestid"
	"github.com/edushare/edushare-api/pkg/retry"
	"github.com/edushare/edushare-api/pkg/storage"
)

// @title EduShare API
// @version 1.0.0
// @description Educational content sharing backend for a single lecturer and anonymous students
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and cross-instance feed disabled", "error", err)
		redisClient = nil
	}

	blobStore, err := storage.NewBlobStore(cfg.Storage.BaseDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logr.Sugar().Fatalw("failed to init blob store", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contentRepo := repository.NewContentRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	downloadRepo := repository.NewDownloadRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	retryOpts := retry.Options{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		Logger:      logr,
	}

	verifier := service.NewStaticVerifier(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash, "edushare@123")
	authSvc := service.NewAuthService(verifier, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, cfg.Auth.Issuer, logr)

	var broker service.FeedBroker
	if redisClient != nil {
		broker = cacheRepo
	}

	feedSvc := service.NewFeedService(nil, broker, cfg.Feed.Channel, cfg.Feed.BufferSize, cfg.Feed.ResyncTimeout, logr)
	contentSvc := service.NewContentService(contentRepo, studentRepo, blobStore, cacheRepo, feedSvc, validate, retryOpts, cfg.Stats.CacheTTL, logr)
	feedSvc.SetLister(contentSvc)
	feedSvc.Start(ctx)
	defer feedSvc.Stop()

	profileSvc := service.NewProfileService(lecturerRepo, validate, retryOpts, logr)
	downloadSvc := service.NewDownloadService(downloadRepo, studentRepo, contentRepo, feedSvc, validate, retryOpts, logr)
	metricsSvc := service.NewMetricsService(feedSvc.SubscriberCount)

	authHandler := handler.NewAuthHandler(authSvc)
	contentHandler := handler.NewContentHandler(contentSvc, feedSvc, metricsSvc, cfg.Storage.MaxFileSize)
	downloadHandler := handler.NewDownloadHandler(downloadSvc, metricsSvc)
	lecturerHandler := handler.NewLecturerHandler(profileSvc)
	fileHandler := handler.NewFileHandler(blobStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET(storage.FileRoute+"*path", fileHandler.Serve)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		content := api.Group("/content")
		{
			content.GET("", middleware.OptionalJWT(authSvc), contentHandler.List)
			content.GET("/stream", middleware.OptionalJWT(authSvc), contentHandler.Stream)
			content.GET("/stats", middleware.JWT(authSvc), contentHandler.Statistics)
			content.GET("/:id", middleware.OptionalJWT(authSvc), contentHandler.Get)
			content.POST("", middleware.JWT(authSvc), contentHandler.Upload)
			content.DELETE("/:id", middleware.JWT(authSvc), contentHandler.Delete)
			content.POST("/:id/views", contentHandler.RecordView)
			content.POST("/:id/downloads", downloadHandler.Record)
		}

		downloads := api.Group("/downloads", middleware.JWT(authSvc))
		{
			downloads.GET("", downloadHandler.List)
			downloads.GET("/export", downloadHandler.Export)
		}

		api.GET("/students/:email", middleware.JWT(authSvc), downloadHandler.GetStudent)

		lecturer := api.Group("/lecturer")
		{
			lecturer.GET("", lecturerHandler.Get)
			lecturer.PUT("", middleware.JWT(authSvc), lecturerHandler.Upsert)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
