package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prepmate/prepmate-backend/internal/db"
	"github.com/prepmate/prepmate-backend/internal/handlers"
	"github.com/prepmate/prepmate-backend/internal/logger"
	"github.com/prepmate/prepmate-backend/internal/middleware"
	"github.com/prepmate/prepmate-backend/internal/observability"
	"github.com/prepmate/prepmate-backend/internal/repos"
	"github.com/prepmate/prepmate-backend/internal/server"
	"github.com/prepmate/prepmate-backend/internal/services"
	"github.com/prepmate/prepmate-backend/internal/utils"
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

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "prepmate-backend",
		Environment: logMode,
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(ctx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	sessionRepo := repos.NewSessionRepo(thePG, log)
	responseRepo := repos.NewResponseRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)
	progressRepo := repos.NewProgressRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	analyticsCache, err := services.NewAnalyticsCache(log)
	if err != nil {
		log.Error("Could not init AnalyticsCache", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	questionService := services.NewQuestionService(thePG, log, questionRepo)
	interviewService := services.NewInterviewService(thePG, log, sessionRepo, responseRepo, questionRepo, feedbackRepo)
	analyticsService := services.NewAnalyticsService(thePG, log, analyticsCache, sessionRepo, responseRepo, feedbackRepo, progressRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	interviewHandler := handlers.NewInterviewHandler(log, interviewService)
	analyticsHandler := handlers.NewAnalyticsHandler(log, analyticsService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		ServiceName:      "prepmate-backend",
		AllowedOrigins:   origins,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		UserHandler:      userHandler,
		QuestionHandler:  questionHandler,
		InterviewHandler: interviewHandler,
		AnalyticsHandler: analyticsHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
