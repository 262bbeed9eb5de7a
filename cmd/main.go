package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-concierge-platform/internal/config"
	"hotel-concierge-platform/internal/logger"
	"hotel-concierge-platform/internal/queue"
	"hotel-concierge-platform/internal/telemetry"
	"hotel-concierge-platform/middleware"
	"hotel-concierge-platform/routes"
	"hotel-concierge-platform/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	shutdownTracer, err := telemetry.InitTracer("hotel-concierge-platform")
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracer()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	redisOpt, err := queue.RedisConnOpt(cfg)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	mailer := services.NewMailer(cfg)
	cron := services.NewCronService(cfg, db, mailer)
	if err := cron.Start(); err != nil {
		log.Fatal("Failed to start cron scheduler:", err)
	}
	defer cron.Stop()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("hotel-concierge-platform"))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	router.Use(middleware.AuditMiddleware(db.Collection("audit_events")))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	authMW := middleware.NewAuthMiddleware(cfg, rdb)
	roleMW := middleware.NewRoleMiddleware()
	featureMW := middleware.NewFeatureCheckMiddleware(db.Collection("tenants"))
	domainMW := middleware.NewDomainAuthMiddleware(
		db.Collection("tenants"), db.Collection("audit_events"))

	routes.SetupAuthRoutes(router, cfg, db, rdb, authMW)
	routes.SetupMasterRoutes(router, cfg, db, rdb, asynqClient, authMW, roleMW)
	routes.SetupAuditRoutes(router, cfg, db, rdb, authMW, roleMW)
	routes.SetupSettingsRoutes(router, db, asynqClient, authMW, roleMW, featureMW)
	routes.SetupDocumentRoutes(router, cfg, db, asynqClient, authMW, roleMW, featureMW)
	routes.SetupWidgetRoutes(router, cfg, db, domainMW)
	routes.SetupChatRoutes(router, cfg, db, metrics, domainMW)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("server exited")
}
