package service

import (
	"context"
	"errors"
	"testing"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

func seedSurvey(t *testing.T, repo *fakeSurveyRepo, survey *model.Survey) *model.Survey {
	t.Helper()
	if _, err := repo.Create(context.Background(), survey); err != nil {
		t.Fatalf("seed survey: %v", err)
	}
	return survey
}

func TestSubmitRecordsAnswer(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	answerRepo := newFakeAnswerRepo()
	svc := NewAnswerService(surveyRepo, answerRepo, nil)

	seedSurvey(t, surveyRepo, &model.Survey{UserID: 1, PublicID: "pub-1", Topic: "t"})

	answer, err := svc.Submit(ctx, "pub-1", rawValues("hello"), "resp-1", "1.2.3.4")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if answer.ID == 0 {
		t.Error("submitted answer should get an id")
	}

	stored, err := answerRepo.ListBySurvey(ctx, answer.SurveyID)
	if err != nil {
		t.Fatalf("ListBySurvey: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored answers = %d, want 1", len(stored))
	}
}

func TestSubmitUnknownSurvey(t *testing.T) {
	svc := NewAnswerService(newFakeSurveyRepo(), newFakeAnswerRepo(), nil)
	if _, err := svc.Submit(context.Background(), "missing", rawValues("x"), "", ""); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("err = %v, want ErrSurveyNotFound", err)
	}
}

func TestSubmitArchivedSurveyRejected(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	svc := NewAnswerService(surveyRepo, newFakeAnswerRepo(), nil)

	seedSurvey(t, surveyRepo, &model.Survey{UserID: 1, PublicID: "pub-1", Archived: true})

	if _, err := svc.Submit(ctx, "pub-1", rawValues("x"), "", ""); !errors.Is(err, ErrSurveyClosed) {
		t.Fatalf("err = %v, want ErrSurveyClosed", err)
	}
}

func TestSubmitDuplicateIPRejected(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	svc := NewAnswerService(surveyRepo, newFakeAnswerRepo(), nil)

	seedSurvey(t, surveyRepo, &model.Survey{UserID: 1, PublicID: "pub-1"})

	if _, err := svc.Submit(ctx, "pub-1", rawValues("first"), "", "9.9.9.9"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, "pub-1", rawValues("second"), "", "9.9.9.9"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("duplicate submit err = %v, want ErrAlreadyAnswered", err)
	}

	// A different address is still welcome
	if _, err := svc.Submit(ctx, "pub-1", rawValues("third"), "", "8.8.8.8"); err != nil {
		t.Fatalf("distinct address submit: %v", err)
	}
}

func TestSubmitWithoutIPNeverDeduped(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	svc := NewAnswerService(surveyRepo, newFakeAnswerRepo(), nil)

	seedSurvey(t, surveyRepo, &model.Survey{UserID: 1, PublicID: "pub-1"})

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, "pub-1", rawValues(i), "", ""); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
}

func TestSubmitTemplateSurveyBroadcasts(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	answerRepo := newFakeAnswerRepo()

	seedSurvey(t, surveyRepo, &model.Survey{
		UserID:     1,
		PublicID:   "pub-1",
		IsTemplate: true,
		AppName:    "Notq",
		Questions: []model.Question{
			{ID: model.RatingQuestionID, Type: model.QuestionRating},
			{ID: model.HelpfulQuestionID, Type: model.QuestionMultipleChoice, Options: []string{"Yes", "No"}},
		},
	})

	leaderboardSvc := NewLeaderboardService(surveyRepo, answerRepo, nil)
	broadcaster := &recordingBroadcaster{}
	leaderboardSvc.SetBroadcaster(broadcaster)

	svc := NewAnswerService(surveyRepo, answerRepo, leaderboardSvc)
	if _, err := svc.Submit(ctx, "pub-1", rawValues(10, "Yes"), "", "1.1.1.1"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(broadcaster.snapshots) != 1 {
		t.Fatalf("broadcast count = %d, want 1", len(broadcaster.snapshots))
	}
	if broadcaster.snapshots[0][0].AverageRating != 10 {
		t.Errorf("snapshot = %+v", broadcaster.snapshots[0])
	}
}

func TestGetPublicView(t *testing.T) {
	ctx := context.Background()
	surveyRepo := newFakeSurveyRepo()
	svc := NewAnswerService(surveyRepo, newFakeAnswerRepo(), nil)

	seedSurvey(t, surveyRepo, &model.Survey{
		UserID:   42,
		PublicID: "pub-1",
		Topic:    "Lunch options",
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionOpenEnded, Text: "Favourite place?"},
		},
	})

	view, err := svc.GetPublic(ctx, "pub-1")
	if err != nil {
		t.Fatalf("GetPublic: %v", err)
	}
	if view.Topic != "Lunch options" || len(view.Questions) != 1 {
		t.Errorf("view = %+v", view)
	}

	if _, err := svc.GetPublic(ctx, "missing"); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("missing err = %v, want ErrSurveyNotFound", err)
	}
}
