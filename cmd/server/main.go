package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moonarraa/survey-chat-ai/internal/cache"
	"github.com/moonarraa/survey-chat-ai/internal/config"
	"github.com/moonarraa/survey-chat-ai/internal/database"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
	"github.com/moonarraa/survey-chat-ai/internal/service"
	"github.com/moonarraa/survey-chat-ai/internal/transport/rest"
	"github.com/moonarraa/survey-chat-ai/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Log AI model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Questions: %s", aiConfig.Models.Questions)
	log.Printf("  Chat:      %s", aiConfig.Models.Chat)
	log.Printf("  Summary:   %s", aiConfig.Models.Summary)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:   configured ✓")
	} else {
		log.Println("  API Key:   NOT SET (using canned questions)")
	}

	// SQLite connection (runs migrations)
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()
	log.Printf("Database ready at %s", cfg.DBPath)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	surveyRepo := repository.NewSurveyRepo(db)
	answerRepo := repository.NewAnswerRepo(db)

	// Initialize caches
	chatCache := cache.NewChatCache(rdb)
	leaderboardCache := cache.NewLeaderboardCache(rdb)

	// Initialize services
	assistantSvc := service.NewAssistantService()
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	surveySvc := service.NewSurveyService(surveyRepo, assistantSvc)
	leaderboardSvc := service.NewLeaderboardService(surveyRepo, answerRepo, leaderboardCache)
	answerSvc := service.NewAnswerService(surveyRepo, answerRepo, leaderboardSvc)
	analyticsSvc := service.NewAnalyticsService(surveyRepo, answerRepo)
	chatSvc := service.NewChatService(chatCache, assistantSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	leaderboardSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:        authSvc,
		SurveyService:      surveySvc,
		AnswerService:      answerSvc,
		AnalyticsService:   analyticsSvc,
		LeaderboardService: leaderboardSvc,
		ChatService:        chatSvc,
		AssistantService:   assistantSvc,
		WSHub:              wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/token")
		log.Println("  GET/PUT /v1/auth/me")
		log.Println("  POST/GET /v1/surveys")
		log.Println("  POST /v1/surveys/from-template")
		log.Println("  GET  /v1/surveys/{id}/analytics")
		log.Println("  GET  /v1/surveys/s/{publicId}")
		log.Println("  POST /v1/surveys/s/{publicId}/answers")
		log.Println("  GET  /v1/leaderboard")
		log.Println("  POST /v1/chat/start")
		log.Println("  WS  /v1/ws/leaderboard")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
