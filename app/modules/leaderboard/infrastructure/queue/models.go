package leaderboardqueue

import (
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// FinalizeTrackJob is a scheduled track finalization. At the scheduled time
// the worker writes every team's total score and locks the track's rooms.
type FinalizeTrackJob struct {
	TrackID sharedtypes.TrackID `json:"track_id"`
}

// Kind returns the job type identifier for River.
func (FinalizeTrackJob) Kind() string { return "leaderboard_finalize_track" }

// JobInfo describes a scheduled job for monitoring.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	TrackID     string `json:"track_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
