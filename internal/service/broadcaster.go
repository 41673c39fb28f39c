package service

import "github.com/moonarraa/survey-chat-ai/internal/model"

// Broadcaster pushes leaderboard snapshots to live subscribers.
// Implemented by the WebSocket hub; injected after construction so the
// transport layer can depend on services without a cycle.
type Broadcaster interface {
	BroadcastLeaderboard(entries []model.LeaderboardEntry)
}
