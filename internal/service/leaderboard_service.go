package service

import (
	"context"
	"sort"

	"github.com/moonarraa/survey-chat-ai/internal/cache"
	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

// LeaderboardService ranks template surveys by average rating and
// helpful percentage. Snapshots are cached in Redis and recomputed
// whenever a template survey receives a new response.
type LeaderboardService struct {
	surveyRepo  repository.SurveyRepo
	answerRepo  repository.AnswerRepo
	cache       cache.LeaderboardCache
	broadcaster Broadcaster
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(surveyRepo repository.SurveyRepo, answerRepo repository.AnswerRepo, lbCache cache.LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{
		surveyRepo: surveyRepo,
		answerRepo: answerRepo,
		cache:      lbCache,
	}
}

// SetBroadcaster sets the broadcaster for live snapshot pushes
func (s *LeaderboardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Snapshot returns the current ranking, serving from cache when fresh
func (s *LeaderboardService) Snapshot(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if s.cache != nil {
		if entries, err := s.cache.Get(ctx); err == nil && entries != nil {
			return entries, nil
		}
	}

	entries, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, entries)
	}
	return entries, nil
}

// RefreshAndBroadcast recomputes the ranking and pushes the full
// replacement snapshot to every connected subscriber.
func (s *LeaderboardService) RefreshAndBroadcast(ctx context.Context) error {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}

	entries, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeaderboard(entries)
	}
	return nil
}

func (s *LeaderboardService) compute(ctx context.Context) ([]model.LeaderboardEntry, error) {
	surveys, err := s.surveyRepo.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(surveys))
	for _, survey := range surveys {
		answers, err := s.answerRepo.ListBySurvey(ctx, survey.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, scoreTemplateSurvey(survey, answers))
	}

	return RankEntries(entries), nil
}

// scoreTemplateSurvey reduces one survey's responses to its leaderboard
// row. The rating and helpful answers sit at the positions of the
// questions carrying the well-known ids; responses too short to reach
// those positions, or with unparseable values, contribute nothing.
func scoreTemplateSurvey(survey *model.Survey, answers []*model.SurveyAnswer) model.LeaderboardEntry {
	ratingIdx, helpfulIdx := -1, -1
	for i, q := range survey.Questions {
		switch q.ID {
		case model.RatingQuestionID:
			ratingIdx = i
		case model.HelpfulQuestionID:
			helpfulIdx = i
		}
	}

	var ratingSum, ratingCount, helpfulCount int
	for _, answer := range answers {
		if ratingIdx >= 0 && ratingIdx < len(answer.Values) {
			if v, ok := model.AnswerInt(answer.Values[ratingIdx]); ok {
				ratingSum += v
				ratingCount++
			}
		}
		if helpfulIdx >= 0 && helpfulIdx < len(answer.Values) {
			if v, ok := model.AnswerString(answer.Values[helpfulIdx]); ok && v == model.HelpfulYes {
				helpfulCount++
			}
		}
	}

	entry := model.LeaderboardEntry{AppName: survey.AppName}
	if ratingCount > 0 {
		entry.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	if len(answers) > 0 {
		entry.HelpfulPercentage = float64(helpfulCount) / float64(len(answers)) * 100
	}
	return entry
}

// RankEntries sorts descending by (average rating, helpful percentage)
// and assigns 1-based ranks. Exact ties keep their original relative
// order and still get distinct consecutive ranks.
func RankEntries(entries []model.LeaderboardEntry) []model.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AverageRating != entries[j].AverageRating {
			return entries[i].AverageRating > entries[j].AverageRating
		}
		return entries[i].HelpfulPercentage > entries[j].HelpfulPercentage
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
