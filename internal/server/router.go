package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/cyberdrill-backend/internal/handlers"
	"github.com/yungbote/cyberdrill-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AllowOrigins      []string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	BehaviorHandler   *handlers.BehaviorHandler
	ScenarioHandler   *handlers.ScenarioHandler
	RansomwareHandler *handlers.RansomwareHandler
	PhishingHandler   *handlers.PhishingHandler
	AnalyticsHandler  *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "cyberdrill"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PATCH("/user", cfg.UserHandler.UpdateMe)
	// Behavior
	protected.POST("/behavior/events", cfg.BehaviorHandler.RecordEvent)
	protected.GET("/behavior/events", cfg.BehaviorHandler.ListEvents)
	protected.GET("/behavior/profile", cfg.BehaviorHandler.GetProfile)
	protected.GET("/behavior/insights", cfg.BehaviorHandler.GetInsights)
	protected.GET("/behavior/plan", cfg.BehaviorHandler.GetTrainingPlan)
	// Scenarios
	protected.GET("/scenarios", cfg.ScenarioHandler.List)
	protected.GET("/scenarios/:id", cfg.ScenarioHandler.Get)
	protected.POST("/scenarios/:id/start", cfg.ScenarioHandler.Start)
	protected.GET("/progress", cfg.ScenarioHandler.ListProgress)
	protected.POST("/progress/:id/decide", cfg.ScenarioHandler.Decide)
	protected.GET("/progress/:id/outcomes", cfg.ScenarioHandler.ListOutcomes)
	// Ransomware drills
	protected.POST("/ransomware/simulations", cfg.RansomwareHandler.Create)
	protected.GET("/ransomware/simulations", cfg.RansomwareHandler.ListRuns)
	protected.GET("/ransomware/simulations/:id", cfg.RansomwareHandler.GetRun)
	protected.POST("/ransomware/simulations/:id/actions", cfg.RansomwareHandler.ExecuteAction)
	// Phishing
	protected.POST("/phishing/generate", cfg.PhishingHandler.Generate)
	protected.POST("/phishing/:id/react", cfg.PhishingHandler.React)
	protected.GET("/phishing", cfg.PhishingHandler.List)
	// Analytics
	protected.GET("/analytics/summary", cfg.AnalyticsHandler.Summary)

	return router
}
