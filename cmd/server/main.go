package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pokerpath/backend/internal/common/database"
	commonhandlers "github.com/pokerpath/backend/internal/common/handlers"
	"github.com/pokerpath/backend/internal/common/health"
	"github.com/pokerpath/backend/internal/common/middleware"
	progressionhandlers "github.com/pokerpath/backend/internal/progression/handlers"
	"github.com/pokerpath/backend/internal/progression/services"
	"github.com/pokerpath/backend/pkg/config"
	"github.com/pokerpath/backend/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.Connect(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	achievementService := services.NewAchievementService(db, zapLogger)
	achievementService.Start()
	defer achievementService.Stop()

	answerService := services.NewAnswerService(db, zapLogger, achievementService)
	sessionService := services.NewSessionService(db, zapLogger, achievementService)
	placementService := services.NewPlacementService(db, zapLogger, achievementService)
	statsService := services.NewStatsService(db)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.ErrorHandler(zapLogger))

	healthHandler := commonhandlers.NewHealthHandler(health.NewChecker(db, version))
	router.GET("/health", healthHandler.Health)
	router.GET("/health/liveness", healthHandler.Liveness)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	progressionHandler := progressionhandlers.NewHandler(
		answerService, sessionService, placementService, statsService)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthRequired())
	progressionHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
