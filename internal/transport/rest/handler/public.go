package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/moonarraa/survey-chat-ai/internal/service"
)

// PublicHandler handles the anonymous response-intake endpoints
type PublicHandler struct {
	answerSvc *service.AnswerService
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(answerSvc *service.AnswerService) *PublicHandler {
	return &PublicHandler{answerSvc: answerSvc}
}

// SubmitAnswerRequest is the request body for a public response
type SubmitAnswerRequest struct {
	Answers      []json.RawMessage `json:"answers"`
	RespondentID string            `json:"respondent_id"`
}

// Get handles GET /v1/surveys/s/{publicId}
func (h *PublicHandler) Get(w http.ResponseWriter, r *http.Request) {
	survey, err := h.answerSvc.GetPublic(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// SubmitAnswer handles POST /v1/surveys/s/{publicId}/answers
func (h *PublicHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers must not be empty")
		return
	}

	_, err := h.answerSvc.Submit(r.Context(), mux.Vars(r)["publicId"],
		req.Answers, req.RespondentID, clientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// clientIP derives the respondent's address, preferring proxy headers
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
