package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/service"
	"github.com/moonarraa/survey-chat-ai/internal/transport/rest/middleware"
)

// SurveyHandler handles owner-facing survey endpoints
type SurveyHandler struct {
	surveySvc    *service.SurveyService
	analyticsSvc *service.AnalyticsService
	assistantSvc *service.AssistantService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService, analyticsSvc *service.AnalyticsService, assistantSvc *service.AssistantService) *SurveyHandler {
	return &SurveyHandler{
		surveySvc:    surveySvc,
		analyticsSvc: analyticsSvc,
		assistantSvc: assistantSvc,
	}
}

// CreateSurveyRequest is the request body for creating a survey
type CreateSurveyRequest struct {
	Topic     string           `json:"topic"`
	Questions []model.Question `json:"questions"`
}

// TemplateSurveyRequest is the request body for template creation
type TemplateSurveyRequest struct {
	AppName          string `json:"app_name"`
	AppPurpose       string `json:"app_purpose"`
	AppFunctionality string `json:"app_functionality"`
}

// GenerateQuestionsRequest is the request body for question generation
type GenerateQuestionsRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Create handles POST /v1/surveys
func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveySvc.Create(r.Context(), middleware.GetUserID(r.Context()), req.Topic, req.Questions)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, survey)
}

// FromTemplate handles POST /v1/surveys/from-template
func (h *SurveyHandler) FromTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	survey, err := h.surveySvc.CreateFromTemplate(r.Context(), middleware.GetUserID(r.Context()),
		req.AppName, req.AppPurpose, req.AppFunctionality)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, survey)
}

// Generate handles POST /v1/surveys/generate. AI failures come back as
// an empty question list, never as an upstream error.
func (h *SurveyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	questions := h.assistantSvc.GenerateQuestions(r.Context(), req.Topic, req.Count)
	if questions == nil {
		questions = []model.Question{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// List handles GET /v1/surveys
func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.surveySvc.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if surveys == nil {
		surveys = []*model.Survey{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"surveys": surveys})
}

// Get handles GET /v1/surveys/{surveyId}
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDVar(w, r)
	if !ok {
		return
	}

	survey, err := h.surveySvc.Get(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// Delete handles DELETE /v1/surveys/{surveyId}
func (h *SurveyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDVar(w, r)
	if !ok {
		return
	}

	if err := h.surveySvc.Delete(r.Context(), middleware.GetUserID(r.Context()), surveyID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Archive handles POST /v1/surveys/{surveyId}/archive
func (h *SurveyHandler) Archive(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDVar(w, r)
	if !ok {
		return
	}

	survey, err := h.surveySvc.Archive(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// Restore handles POST /v1/surveys/{surveyId}/restore
func (h *SurveyHandler) Restore(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDVar(w, r)
	if !ok {
		return
	}

	survey, err := h.surveySvc.Restore(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// Analytics handles GET /v1/surveys/{surveyId}/analytics
func (h *SurveyHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDVar(w, r)
	if !ok {
		return
	}

	report, err := h.analyticsSvc.ForSurvey(r.Context(), middleware.GetUserID(r.Context()), surveyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func surveyIDVar(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["surveyId"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return 0, false
	}
	return id, true
}
