package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/moonarraa/survey-chat-ai/internal/cache"
	"github.com/moonarraa/survey-chat-ai/internal/model"
)

var ErrSessionNotFound = errors.New("chat session not found")

// maxChatQuestions is how many questions a chat survey asks before the
// assistant wraps up with a summary.
const maxChatQuestions = 5

// ChatService drives the interactive chat survey: an AI asks one
// question at a time, follows up on answers, and summarizes at the end.
// Session state lives in Redis so a restart only loses the TTL window.
type ChatService struct {
	sessions  cache.ChatCache
	assistant *AssistantService
}

// NewChatService creates a new chat service
func NewChatService(sessions cache.ChatCache, assistant *AssistantService) *ChatService {
	return &ChatService{
		sessions:  sessions,
		assistant: assistant,
	}
}

// Start opens a session and returns its id with the first question
func (s *ChatService) Start(ctx context.Context, topic string) (string, string, error) {
	question := s.assistant.FirstQuestion(ctx, topic)

	sessionID := uuid.New().String()
	session := &model.ChatSession{
		Topic:           topic,
		CurrentQuestion: question,
		Count:           1,
	}
	if err := s.sessions.Set(ctx, sessionID, session); err != nil {
		return "", "", err
	}
	return sessionID, question, nil
}

// Answer records the respondent's answer and returns either the next
// follow-up question or, after the question budget is spent, the final
// summary (which also ends the session).
func (s *ChatService) Answer(ctx context.Context, sessionID, answer string) (*model.ChatReply, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	session.History = append(session.History, model.ChatTurn{
		Question: session.CurrentQuestion,
		Answer:   answer,
	})
	session.Count++

	if session.Count > maxChatQuestions {
		summary := s.assistant.Summarize(ctx, session.Topic, session.History)
		_ = s.sessions.Delete(ctx, sessionID)
		return &model.ChatReply{Summary: summary}, nil
	}

	next := s.assistant.FollowUpQuestion(ctx, session.Topic, session.History, answer)
	session.CurrentQuestion = next
	if err := s.sessions.Set(ctx, sessionID, session); err != nil {
		return nil, err
	}
	return &model.ChatReply{Question: next}, nil
}
