package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/prepmate/prepmate-backend/internal/handlers"
	"github.com/prepmate/prepmate-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AllowedOrigins   []string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	UserHandler      *handlers.UserHandler
	QuestionHandler  *handlers.QuestionHandler
	InterviewHandler *handlers.InterviewHandler
	AnalyticsHandler *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "prepmate-backend"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Refresh-Token"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/user", cfg.UserHandler.GetMe)

	api := protected.Group("/api")
	// Question catalog
	api.GET("/questions", cfg.QuestionHandler.ListQuestions)
	// Interview session lifecycle
	api.POST("/interviews", cfg.InterviewHandler.StartSession)
	api.GET("/interviews", cfg.InterviewHandler.ListSessions)
	api.POST("/interviews/:id/responses", cfg.InterviewHandler.SubmitAnswer)
	api.POST("/interviews/:id/complete", cfg.InterviewHandler.CompleteSession)
	// Progress & analytics
	api.GET("/progress", cfg.AnalyticsHandler.GetProgress)
	api.PUT("/progress/goals", cfg.AnalyticsHandler.UpdateGoals)
	api.GET("/analytics/performance", cfg.AnalyticsHandler.GetPerformanceAnalytics)
	api.GET("/analytics/skills", cfg.AnalyticsHandler.GetSkillAnalysis)

	return router
}
