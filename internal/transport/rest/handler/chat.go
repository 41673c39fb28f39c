package handler

import (
	"encoding/json"
	"net/http"

	"github.com/moonarraa/survey-chat-ai/internal/service"
)

// ChatHandler handles the interactive chat-survey endpoints
type ChatHandler struct {
	chatSvc *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// StartRequest opens a chat survey
type StartRequest struct {
	Topic string `json:"topic"`
}

// AnswerRequest continues a chat survey
type AnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

// Start handles POST /v1/chat/start
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	sessionID, question, err := h.chatSvc.Start(r.Context(), req.Topic)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"question":  question,
	})
}

// Answer handles POST /v1/chat/answer
func (h *ChatHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.chatSvc.Answer(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
