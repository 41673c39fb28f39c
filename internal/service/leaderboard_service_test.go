package service

import (
	"context"
	"testing"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

func TestScoreTemplateSurvey(t *testing.T) {
	survey := &model.Survey{
		AppName: "Notq",
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionOpenEnded, Text: "What do you like?"},
			{ID: model.RatingQuestionID, Type: model.QuestionRating, Scale: 10},
			{ID: model.HelpfulQuestionID, Type: model.QuestionMultipleChoice, Options: []string{"Yes", "No"}},
		},
	}
	answers := []*model.SurveyAnswer{
		{Values: rawValues("nice", 8, "Yes")},
		{Values: rawValues("meh", 6, "No")},
		{Values: rawValues("short")}, // never reached rating or helpful
		{Values: rawValues("ok", "not a number", "Yes")},
	}

	entry := scoreTemplateSurvey(survey, answers)

	if entry.AppName != "Notq" {
		t.Errorf("AppName = %q, want Notq", entry.AppName)
	}
	if entry.AverageRating != 7 {
		t.Errorf("AverageRating = %v, want 7", entry.AverageRating)
	}
	if entry.HelpfulPercentage != 50 {
		t.Errorf("HelpfulPercentage = %v, want 50", entry.HelpfulPercentage)
	}
}

func TestScoreTemplateSurveyNoAnswers(t *testing.T) {
	survey := &model.Survey{
		AppName: "Empty",
		Questions: []model.Question{
			{ID: model.RatingQuestionID, Type: model.QuestionRating},
			{ID: model.HelpfulQuestionID, Type: model.QuestionMultipleChoice},
		},
	}

	entry := scoreTemplateSurvey(survey, nil)

	if entry.AverageRating != 0 || entry.HelpfulPercentage != 0 {
		t.Errorf("entry = %+v, want zero scores", entry)
	}
}

func TestRankEntries(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{AppName: "low", AverageRating: 3},
		{AppName: "tie-b", AverageRating: 4, HelpfulPercentage: 80},
		{AppName: "top", AverageRating: 5},
		{AppName: "tie-a", AverageRating: 4, HelpfulPercentage: 90},
	}

	ranked := RankEntries(entries)

	want := []string{"top", "tie-a", "tie-b", "low"}
	for i, name := range want {
		if ranked[i].AppName != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].AppName, name)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("ranked[%d].Rank = %d, want %d", i, ranked[i].Rank, i+1)
		}
	}
}

type recordingBroadcaster struct {
	snapshots [][]model.LeaderboardEntry
}

func (b *recordingBroadcaster) BroadcastLeaderboard(entries []model.LeaderboardEntry) {
	b.snapshots = append(b.snapshots, entries)
}

func TestRefreshAndBroadcast(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	answerRepo := newFakeAnswerRepo()

	surveyID, err := surveyRepo.Create(ctx, &model.Survey{
		UserID:     1,
		PublicID:   "pub-1",
		IsTemplate: true,
		AppName:    "Notq",
		Questions: []model.Question{
			{ID: model.RatingQuestionID, Type: model.QuestionRating},
			{ID: model.HelpfulQuestionID, Type: model.QuestionMultipleChoice, Options: []string{"Yes", "No"}},
		},
	})
	if err != nil {
		t.Fatalf("create survey: %v", err)
	}
	if err := answerRepo.Create(ctx, &model.SurveyAnswer{
		SurveyID: surveyID,
		Values:   rawValues(9, "Yes"),
	}); err != nil {
		t.Fatalf("create answer: %v", err)
	}

	svc := NewLeaderboardService(surveyRepo, answerRepo, nil)
	broadcaster := &recordingBroadcaster{}
	svc.SetBroadcaster(broadcaster)

	if err := svc.RefreshAndBroadcast(ctx); err != nil {
		t.Fatalf("RefreshAndBroadcast: %v", err)
	}

	if len(broadcaster.snapshots) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(broadcaster.snapshots))
	}
	snapshot := broadcaster.snapshots[0]
	if len(snapshot) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snapshot))
	}
	if snapshot[0].AppName != "Notq" || snapshot[0].AverageRating != 9 || snapshot[0].Rank != 1 {
		t.Errorf("snapshot[0] = %+v", snapshot[0])
	}
}
