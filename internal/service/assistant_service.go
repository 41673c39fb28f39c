package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/moonarraa/survey-chat-ai/internal/config"
	"github.com/moonarraa/survey-chat-ai/internal/model"
)

// AssistantService generates survey questions and drives the chat
// survey flow via an OpenAI-compatible chat-completions API. Every
// method degrades gracefully: AI errors never reach the end user.
type AssistantService struct {
	config *config.AIConfig
	client *http.Client
}

// NewAssistantService creates a new assistant service
func NewAssistantService() *AssistantService {
	cfg := config.DefaultAIConfig()
	return &AssistantService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// IsEnabled reports whether a real API key is configured
func (s *AssistantService) IsEnabled() bool {
	return s.config.IsEnabled()
}

// TemplateQuestions generates the open-ended questions for an
// app-feedback template survey. Falls back to a fixed generic trio on
// any failure, so template creation always succeeds.
func (s *AssistantService) TemplateQuestions(ctx context.Context, appName, appPurpose, appFunctionality string) []model.Question {
	fallback := genericAppQuestions(appName)
	if !s.config.IsEnabled() {
		return fallback
	}

	prompt := fmt.Sprintf(`Generate 3 open-ended questions for a survey about an application with the following details:
- Application Name: %s
- Purpose: %s
- Key Functionality: %s

The questions should be concise, clear, and designed to gather qualitative feedback.
Return the questions as a JSON array of strings.`, appName, appPurpose, appFunctionality)

	content, err := s.callChat(ctx, s.config.Models.Questions, "You are a survey question writer.", prompt)
	if err != nil {
		return fallback
	}

	texts, err := parseStringArray(content)
	if err != nil || len(texts) == 0 {
		return fallback
	}

	questions := make([]model.Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, model.Question{
			ID:   fmt.Sprintf("ai_q_%d", i+1),
			Type: model.QuestionOpenEnded,
			Text: text,
		})
	}
	return questions
}

// GenerateQuestions generates count questions about a topic. Returns an
// empty list on any failure; this path has no generic fallback.
func (s *AssistantService) GenerateQuestions(ctx context.Context, topic string, count int) []model.Question {
	if !s.config.IsEnabled() {
		return nil
	}
	if count <= 0 {
		count = 3
	}

	prompt := fmt.Sprintf(`Write %d concise open-ended survey questions about the topic: %q.
Return the questions as a JSON array of strings.`, count, topic)

	content, err := s.callChat(ctx, s.config.Models.Questions, "You are a survey question writer.", prompt)
	if err != nil {
		return nil
	}

	texts, err := parseStringArray(content)
	if err != nil {
		return nil
	}

	questions := make([]model.Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, model.Question{
			ID:   fmt.Sprintf("ai_q_%d", i+1),
			Type: model.QuestionOpenEnded,
			Text: text,
		})
	}
	return questions
}

// FirstQuestion opens a chat survey on the given topic
func (s *AssistantService) FirstQuestion(ctx context.Context, topic string) string {
	fallback := fmt.Sprintf("What is your overall impression of %s?", topic)
	if !s.config.IsEnabled() {
		return fallback
	}

	prompt := fmt.Sprintf("Formulate the first open-ended question for a survey on the topic: %q.", topic)
	content, err := s.callChat(ctx, s.config.Models.Chat, "You are an AI survey bot.", prompt)
	if err != nil || strings.TrimSpace(content) == "" {
		return fallback
	}
	return strings.TrimSpace(content)
}

// FollowUpQuestion asks the next probing question given the dialog so far
func (s *AssistantService) FollowUpQuestion(ctx context.Context, topic string, history []model.ChatTurn, lastAnswer string) string {
	fallback := "Could you tell me more about that?"
	if !s.config.IsEnabled() {
		return fallback
	}

	var dialog strings.Builder
	for i, turn := range history {
		fmt.Fprintf(&dialog, "Question %d: %s\nAnswer: %s\n", i+1, turn.Question, turn.Answer)
	}

	prompt := fmt.Sprintf(`Survey topic: %s
%sLast answer: %s
Formulate the next follow-up question to explore the topic deeper or gather additional detail. If the respondent already gave an exhaustive answer, ask about feelings or emotions on the topic.`,
		topic, dialog.String(), lastAnswer)

	content, err := s.callChat(ctx, s.config.Models.Chat, "You are an AI survey bot.", prompt)
	if err != nil || strings.TrimSpace(content) == "" {
		return fallback
	}
	return strings.TrimSpace(content)
}

// Summarize produces the final analysis of a finished chat survey
func (s *AssistantService) Summarize(ctx context.Context, topic string, history []model.ChatTurn) string {
	fallback := fmt.Sprintf("Survey on %q complete: %d answers collected.", topic, len(history))
	if !s.config.IsEnabled() {
		return fallback
	}

	var answers strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&answers, "Question: %s\nAnswer: %s\n", turn.Question, turn.Answer)
	}

	prompt := fmt.Sprintf(`Survey topic: %s
%s
Analyze the respondent's answers: highlight emotions, key themes, problems and interests. Write a short summary for the survey owner.`,
		topic, answers.String())

	content, err := s.callChat(ctx, s.config.Models.Summary, "You are an AI survey analyst.", prompt)
	if err != nil || strings.TrimSpace(content) == "" {
		return fallback
	}
	return strings.TrimSpace(content)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *AssistantService) callChat(ctx context.Context, aiModel, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: aiModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.ChatCompletionsEndpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat completions status %d: %s", resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseStringArray extracts a JSON array of strings from model output,
// tolerating markdown code fences around the JSON.
func parseStringArray(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var values []string
	if err := json.Unmarshal([]byte(content), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func genericAppQuestions(appName string) []model.Question {
	return []model.Question{
		{ID: "q1", Type: model.QuestionOpenEnded, Text: fmt.Sprintf("What is your first impression of %s?", appName)},
		{ID: "q2", Type: model.QuestionOpenEnded, Text: "What feature did you find most useful?"},
		{ID: "q3", Type: model.QuestionOpenEnded, Text: "Is there anything you would change or add?"},
	}
}
