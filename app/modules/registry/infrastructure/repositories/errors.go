package registrydb

import "errors"

var (
	// ErrTrackNotFound is returned when a track does not exist.
	ErrTrackNotFound = errors.New("track not found")
	// ErrRoomNotFound is returned when a room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrTeamNotFound is returned when a team does not exist.
	ErrTeamNotFound = errors.New("team not found")
)
