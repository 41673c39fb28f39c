package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/moonarraa/survey-chat-ai/internal/database"
	"github.com/moonarraa/survey-chat-ai/internal/model"
	"github.com/moonarraa/survey-chat-ai/internal/repository"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "survey.sqlite"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	surveyRepo := repository.NewSurveyRepo(db)
	answerRepo := repository.NewAnswerRepo(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Email:          "demo@example.com",
		HashedPassword: string(hash),
		Name:           "Demo User",
	}
	userID, err := userRepo.Create(ctx, user)
	if err != nil {
		if existing, gerr := userRepo.GetByEmail(ctx, user.Email); gerr == nil && existing != nil {
			userID = existing.ID
			log.Println("Demo user already exists, reusing")
		} else {
			log.Fatalf("Failed to create demo user: %v", err)
		}
	}

	survey := &model.Survey{
		UserID:           userID,
		Topic:            "Notq App Feedback",
		PublicID:         uuid.NewString(),
		IsTemplate:       true,
		AppName:          "Notq",
		AppPurpose:       "Voice notes with AI transcription",
		AppFunctionality: "Record, transcribe and search voice notes",
		Questions: []model.Question{
			{
				ID:      "q1",
				Type:    model.QuestionMultipleChoice,
				Text:    "How often do you use Notq?",
				Options: []string{"Daily", "Weekly", "Rarely"},
			},
			{
				ID:   "q2",
				Type: model.QuestionOpenEnded,
				Text: "What would you improve first?",
			},
			{
				ID:    model.RatingQuestionID,
				Type:  model.QuestionRating,
				Text:  "Rate Notq from 1 to 10",
				Scale: 10,
			},
			{
				ID:      model.HelpfulQuestionID,
				Type:    model.QuestionMultipleChoice,
				Text:    "Was this app helpful to you?",
				Options: []string{model.HelpfulYes, "No"},
			},
		},
	}
	surveyID, err := surveyRepo.Create(ctx, survey)
	if err != nil {
		log.Fatalf("Failed to create template survey: %v", err)
	}

	samples := []struct {
		answers []any
		ip      string
	}{
		{[]any{"Daily", "Faster sync", 9, "Yes"}, "10.0.0.1"},
		{[]any{"Weekly", "Dark mode", 7, "Yes"}, "10.0.0.2"},
		{[]any{"Rarely", "Nothing", 4, "No"}, "10.0.0.3"},
	}

	for i, s := range samples {
		values := make([]json.RawMessage, 0, len(s.answers))
		for _, a := range s.answers {
			raw, merr := json.Marshal(a)
			if merr != nil {
				log.Fatalf("Failed to encode sample answer: %v", merr)
			}
			values = append(values, raw)
		}
		answer := &model.SurveyAnswer{
			SurveyID:     surveyID,
			PublicID:     survey.PublicID,
			Values:       values,
			RespondentID: fmt.Sprintf("seed-%d", i+1),
			SourceIP:     s.ip,
		}
		if err := answerRepo.Create(ctx, answer); err != nil {
			log.Fatalf("Failed to create sample answer: %v", err)
		}
	}

	log.Printf("Seeded demo user %d (demo@example.com / demo1234)", userID)
	log.Printf("Seeded template survey %d with public id %s and %d answers", surveyID, survey.PublicID, len(samples))
}
