package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	rediscache "github.com/yungbote/cyberdrill-backend/internal/clients/redis"
	"github.com/yungbote/cyberdrill-backend/internal/content"
	"github.com/yungbote/cyberdrill-backend/internal/db"
	"github.com/yungbote/cyberdrill-backend/internal/handlers"
	"github.com/yungbote/cyberdrill-backend/internal/logger"
	"github.com/yungbote/cyberdrill-backend/internal/middleware"
	"github.com/yungbote/cyberdrill-backend/internal/observability"
	"github.com/yungbote/cyberdrill-backend/internal/repos"
	"github.com/yungbote/cyberdrill-backend/internal/server"
	"github.com/yungbote/cyberdrill-backend/internal/services"
	"github.com/yungbote/cyberdrill-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	serviceName := utils.GetEnv("SERVICE_NAME", "cyberdrill", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(ctx)
		}()
	}

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := databaseService.DB()

	// Content library
	library, err := content.Load()
	if err != nil {
		log.Error("Failed to load simulation content library", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	behaviorEventRepo := repos.NewBehaviorEventRepo(theDB, log)
	behaviorProfileRepo := repos.NewBehaviorProfileRepo(theDB, log)
	scenarioRepo := repos.NewTrainingScenarioRepo(theDB, log)
	scenarioProgressRepo := repos.NewScenarioProgressRepo(theDB, log)
	decisionOutcomeRepo := repos.NewDecisionOutcomeRepo(theDB, log)
	simulationRunRepo := repos.NewSimulationRunRepo(theDB, log)
	phishingEmailRepo := repos.NewPhishingEmailRepo(theDB, log)

	// Redis (optional)
	var insightCache services.InsightCache
	redisClient, err := rediscache.NewClient(log)
	if err != nil {
		log.Warn("Redis init failed, insight caching disabled", "error", err)
	} else if redisClient != nil {
		insightCache = rediscache.NewInsightCache(log, redisClient)
	}

	// Services
	log.Info("Setting up Services from main...")
	var aiClient services.AIClient
	if client, err := services.NewAIClient(log); err != nil {
		log.Warn("AI client unavailable, using static content only", "error", err)
	} else {
		aiClient = client
	}
	behaviorService := services.NewBehaviorService(theDB, log, behaviorEventRepo, behaviorProfileRepo, insightCache)
	adaptationService := services.NewAdaptationService(log, behaviorService)
	contentService := services.NewContentService(log, aiClient, library)
	scenarioService := services.NewScenarioService(theDB, log, library, scenarioRepo, scenarioProgressRepo, decisionOutcomeRepo, behaviorService)
	ransomwareService := services.NewRansomwareService(theDB, log, simulationRunRepo, contentService, behaviorService)
	phishingService := services.NewPhishingService(theDB, log, userRepo, phishingEmailRepo, adaptationService, contentService, behaviorService)
	authService := services.NewAuthService(theDB, log, userRepo, userTokenRepo, behaviorService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(theDB, log, userRepo)
	analyticsService := services.NewAnalyticsService(log, userRepo, behaviorService)

	if err := scenarioService.SeedLibrary(context.Background()); err != nil {
		log.Error("Failed to seed scenario library", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	behaviorHandler := handlers.NewBehaviorHandler(behaviorService, adaptationService)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService)
	ransomwareHandler := handlers.NewRansomwareHandler(ransomwareService)
	phishingHandler := handlers.NewPhishingHandler(phishingService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		AllowOrigins:      origins,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		BehaviorHandler:   behaviorHandler,
		ScenarioHandler:   scenarioHandler,
		RansomwareHandler: ransomwareHandler,
		PhishingHandler:   phishingHandler,
		AnalyticsHandler:  analyticsHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
