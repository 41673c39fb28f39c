package handler

import (
	"encoding/json"
	"net/http"

	"github.com/moonarraa/survey-chat-ai/internal/service"
)

// BotHandler is the HTTP surface the chat bot calls. The bot addresses
// users by their external chat id; an unknown id gets a stub account.
type BotHandler struct {
	authSvc   *service.AuthService
	surveySvc *service.SurveyService
}

// NewBotHandler creates a new bot handler
func NewBotHandler(authSvc *service.AuthService, surveySvc *service.SurveyService) *BotHandler {
	return &BotHandler{
		authSvc:   authSvc,
		surveySvc: surveySvc,
	}
}

// BotCreateSurveyRequest is the request body for bot survey creation
type BotCreateSurveyRequest struct {
	TelegramID string `json:"telegram_id"`
	Topic      string `json:"topic"`
}

// CreateSurvey handles POST /v1/bot/surveys
func (h *BotHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req BotCreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TelegramID == "" || req.Topic == "" {
		writeError(w, http.StatusBadRequest, "telegram_id and topic are required")
		return
	}

	user, err := h.authSvc.UserByTelegramID(r.Context(), req.TelegramID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	survey, err := h.surveySvc.CreateFromTopic(r.Context(), user.ID, req.Topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, survey)
}
