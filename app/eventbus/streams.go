package eventbus

import (
	"context"
	"fmt"
)

// Stream names and the subjects they cover. One stream per producing module.
const (
	ScoringStream     = "scoring"
	VotingStream      = "voting"
	LeaderboardStream = "leaderboard"
)

var streamSubjects = map[string][]string{
	ScoringStream:     {"scoring.>"},
	VotingStream:      {"voting.>"},
	LeaderboardStream: {"leaderboard.>"},
}

// InitializeStreams creates the JetStream streams every module publishes to.
// Called once during application startup, before the router runs.
func InitializeStreams(ctx context.Context, eb EventBus) error {
	for name, subjects := range streamSubjects {
		if err := eb.CreateStream(ctx, name, subjects...); err != nil {
			return fmt.Errorf("failed to initialize stream %s: %w", name, err)
		}
	}
	return nil
}
