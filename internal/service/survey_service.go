package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

var (
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrActiveSurveyExists = errors.New("user already has an active survey")
	ErrEmptyTopic         = errors.New("survey topic must not be empty")
)

// SurveyService handles survey CRUD and lifecycle (archive/restore)
type SurveyService struct {
	surveyRepo repository.SurveyRepo
	assistant  *AssistantService
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, assistant *AssistantService) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
		assistant:  assistant,
	}
}

// Create creates a survey for the user. A user may hold at most one
// non-archived survey; the partial unique index backs up the pre-check
// so concurrent creates cannot both succeed.
func (s *SurveyService) Create(ctx context.Context, userID int64, topic string, questions []model.Question) (*model.Survey, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyTopic
	}

	if err := s.checkNoActiveSurvey(ctx, userID); err != nil {
		return nil, err
	}

	survey := &model.Survey{
		UserID:    userID,
		Topic:     topic,
		Questions: questions,
		PublicID:  uuid.New().String(),
	}
	if _, err := s.surveyRepo.Create(ctx, survey); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActiveSurveyExists
		}
		return nil, err
	}
	return survey, nil
}

// CreateFromTemplate builds an app-feedback template survey: three
// AI-generated open questions plus the fixed rating and helpful
// questions the leaderboard reads.
func (s *SurveyService) CreateFromTemplate(ctx context.Context, userID int64, appName, appPurpose, appFunctionality string) (*model.Survey, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, ErrEmptyTopic
	}

	if err := s.checkNoActiveSurvey(ctx, userID); err != nil {
		return nil, err
	}

	questions := s.assistant.TemplateQuestions(ctx, appName, appPurpose, appFunctionality)
	questions = append(questions,
		model.Question{
			ID:    model.RatingQuestionID,
			Type:  model.QuestionRating,
			Text:  "On a scale of 1 to 10, how would you rate this app?",
			Scale: 10,
		},
		model.Question{
			ID:      model.HelpfulQuestionID,
			Type:    model.QuestionMultipleChoice,
			Text:    "Do you find this app helpful?",
			Options: []string{"Yes", "No"},
		},
	)

	survey := &model.Survey{
		UserID:           userID,
		Topic:            "Feedback for " + appName,
		Questions:        questions,
		PublicID:         uuid.New().String(),
		IsTemplate:       true,
		AppName:          appName,
		AppPurpose:       appPurpose,
		AppFunctionality: appFunctionality,
	}
	if _, err := s.surveyRepo.Create(ctx, survey); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActiveSurveyExists
		}
		return nil, err
	}
	return survey, nil
}

// CreateFromTopic creates a survey with AI-generated questions about a
// free-form topic. Used by the bot surface; falls back to a generic
// question set so the bot always gets a usable survey link.
func (s *SurveyService) CreateFromTopic(ctx context.Context, userID int64, topic string) (*model.Survey, error) {
	questions := s.assistant.GenerateQuestions(ctx, topic, 3)
	if len(questions) == 0 {
		questions = []model.Question{
			{ID: "q1", Type: model.QuestionOpenEnded, Text: "What do you think about " + topic + "?"},
			{ID: "q2", Type: model.QuestionOpenEnded, Text: "What would you improve?"},
			{ID: "q3", Type: model.QuestionOpenEnded, Text: "Anything else you would like to share?"},
		}
	}
	return s.Create(ctx, userID, topic, questions)
}

// List returns the user's surveys, newest first
func (s *SurveyService) List(ctx context.Context, userID int64) ([]*model.Survey, error) {
	return s.surveyRepo.ListByUser(ctx, userID)
}

// Get returns one survey. Ownership mismatch reads as not-found so the
// endpoint does not leak which ids exist.
func (s *SurveyService) Get(ctx context.Context, userID, surveyID int64) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil || survey.UserID != userID {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// Delete removes a survey and, via the FK cascade, all its answers
func (s *SurveyService) Delete(ctx context.Context, userID, surveyID int64) error {
	if _, err := s.Get(ctx, userID, surveyID); err != nil {
		return err
	}
	return s.surveyRepo.Delete(ctx, surveyID)
}

// Archive closes a survey to new responses
func (s *SurveyService) Archive(ctx context.Context, userID, surveyID int64) (*model.Survey, error) {
	survey, err := s.Get(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.Archived {
		return survey, nil
	}

	if err := s.surveyRepo.SetArchived(ctx, surveyID, true); err != nil {
		return nil, err
	}
	survey.Archived = true
	return survey, nil
}

// Restore reopens an archived survey, unless that would give the user
// a second active survey.
func (s *SurveyService) Restore(ctx context.Context, userID, surveyID int64) (*model.Survey, error) {
	survey, err := s.Get(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.Archived {
		return survey, nil
	}

	if err := s.checkNoActiveSurvey(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.surveyRepo.SetArchived(ctx, surveyID, false); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrActiveSurveyExists
		}
		return nil, err
	}
	survey.Archived = false
	return survey, nil
}

func (s *SurveyService) checkNoActiveSurvey(ctx context.Context, userID int64) error {
	active, err := s.surveyRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	if active != nil {
		return ErrActiveSurveyExists
	}
	return nil
}
