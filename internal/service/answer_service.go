package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

var (
	ErrSurveyClosed    = errors.New("survey is archived and no longer accepts responses")
	ErrAlreadyAnswered = errors.New("a response from this address was already recorded")
)

// AnswerService is the public response intake: anonymous respondents
// submit ordered answer values against a survey's public id.
type AnswerService struct {
	surveyRepo     repository.SurveyRepo
	answerRepo     repository.AnswerRepo
	leaderboardSvc *LeaderboardService
}

// NewAnswerService creates a new answer service
func NewAnswerService(surveyRepo repository.SurveyRepo, answerRepo repository.AnswerRepo, leaderboardSvc *LeaderboardService) *AnswerService {
	return &AnswerService{
		surveyRepo:     surveyRepo,
		answerRepo:     answerRepo,
		leaderboardSvc: leaderboardSvc,
	}
}

// GetPublic returns the respondent-facing view of a survey
func (s *AnswerService) GetPublic(ctx context.Context, publicID string) (*model.PublicSurvey, error) {
	survey, err := s.surveyRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	return survey.PublicView(), nil
}

// Submit records one response. Archived surveys reject all writes; a
// source IP may answer each survey once. The duplicate check is a
// friendly pre-read, with the partial unique index as the authoritative
// arbiter under concurrency.
func (s *AnswerService) Submit(ctx context.Context, publicID string, values []json.RawMessage, respondentID, sourceIP string) (*model.SurveyAnswer, error) {
	survey, err := s.surveyRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.Archived {
		return nil, ErrSurveyClosed
	}

	if sourceIP != "" {
		answered, err := s.answerRepo.ExistsBySurveyAndIP(ctx, survey.ID, sourceIP)
		if err != nil {
			return nil, err
		}
		if answered {
			return nil, ErrAlreadyAnswered
		}
	}

	answer := &model.SurveyAnswer{
		SurveyID:     survey.ID,
		PublicID:     survey.PublicID,
		Values:       values,
		RespondentID: respondentID,
		SourceIP:     sourceIP,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyAnswered
		}
		return nil, err
	}

	if survey.IsTemplate && s.leaderboardSvc != nil {
		// Live subscribers get a fresh snapshot; a broadcast failure
		// must not fail the accepted response.
		if err := s.leaderboardSvc.RefreshAndBroadcast(ctx); err != nil {
			log.Printf("leaderboard refresh after response failed: %v", err)
		}
	}

	return answer, nil
}
