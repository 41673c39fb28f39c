package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

// ChatCache stores in-flight chat survey sessions in Redis. Sessions
// are transient by design: the TTL reaps abandoned conversations.
type ChatCache interface {
	Get(ctx context.Context, sessionID string) (*model.ChatSession, error)
	Set(ctx context.Context, sessionID string, session *model.ChatSession) error
	Delete(ctx context.Context, sessionID string) error
}

type chatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChatCache creates a new chat session cache
func NewChatCache(client *redis.Client) ChatCache {
	return &chatCache{
		client: client,
		ttl:    30 * time.Minute,
	}
}

func (c *chatCache) key(sessionID string) string {
	return fmt.Sprintf("chat:%s:session", sessionID)
}

func (c *chatCache) Get(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session model.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *chatCache) Set(ctx context.Context, sessionID string, session *model.ChatSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err()
}

func (c *chatCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
