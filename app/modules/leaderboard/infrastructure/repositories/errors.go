package leaderboarddb

import "errors"

// ErrSnapshotNotFound indicates no standings have been computed for the
// track yet.
var ErrSnapshotNotFound = errors.New("leaderboard snapshot not found")
