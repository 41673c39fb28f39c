package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/moonarraa/survey-chat-ai/internal/service"
	"github.com/moonarraa/survey-chat-ai/internal/transport/rest/handler"
	"github.com/moonarraa/survey-chat-ai/internal/transport/rest/middleware"
	"github.com/moonarraa/survey-chat-ai/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	SurveyService      *service.SurveyService
	AnswerService      *service.AnswerService
	AnalyticsService   *service.AnalyticsService
	LeaderboardService *service.LeaderboardService
	ChatService        *service.ChatService
	AssistantService   *service.AssistantService
	WSHub              *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService, c.AnalyticsService, c.AssistantService)
	publicHandler := handler.NewPublicHandler(c.AnswerService)
	leaderboardHandler := handler.NewLeaderboardHandler(c.LeaderboardService)
	chatHandler := handler.NewChatHandler(c.ChatService)
	botHandler := handler.NewBotHandler(c.AuthService, c.SurveyService)
	wsHandler := ws.NewHandler(c.WSHub, c.LeaderboardService.Snapshot)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/token", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/link", authHandler.Link).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys/s/{publicId}", publicHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/s/{publicId}/answers", publicHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/chat/start", chatHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/answer", chatHandler.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/bot/surveys", botHandler.CreateSurvey).Methods("POST", "OPTIONS")

	// WebSocket route (public)
	v1.HandleFunc("/ws/leaderboard", wsHandler.LeaderboardWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	authed.HandleFunc("/auth/me", authHandler.UpdateMe).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/auth/link-code", authHandler.LinkCode).Methods("POST", "OPTIONS")

	authed.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/surveys/from-template", surveyHandler.FromTemplate).Methods("POST", "OPTIONS")
	authed.HandleFunc("/surveys/generate", surveyHandler.Generate).Methods("POST", "OPTIONS")
	authed.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/surveys/{surveyId}/archive", surveyHandler.Archive).Methods("POST", "OPTIONS")
	authed.HandleFunc("/surveys/{surveyId}/restore", surveyHandler.Restore).Methods("POST", "OPTIONS")
	authed.HandleFunc("/surveys/{surveyId}/analytics", surveyHandler.Analytics).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
