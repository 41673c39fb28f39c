package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moonarraa/survey-chat-ai/internal/model"
)

const leaderboardKey = "leaderboard:snapshot"

// LeaderboardCache keeps the last computed leaderboard snapshot so
// read-heavy traffic does not rescan every template survey's answers.
// Invalidated whenever a new template response lands.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]model.LeaderboardEntry, error)
	Set(ctx context.Context, entries []model.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard snapshot cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

// Get returns the cached snapshot, or nil on a miss
func (c *leaderboardCache) Get(ctx context.Context) ([]model.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, leaderboardKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *leaderboardCache) Set(ctx context.Context, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey, data, c.ttl).Err()
}

func (c *leaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}
