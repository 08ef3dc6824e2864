package registryservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

var (
	// ErrEmptyName is returned when a track, room, or team name is blank.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrInvalidMaxScore is returned when a criterion's max score is not positive.
	ErrInvalidMaxScore = errors.New("max score must be positive")
	// ErrRoomTrackMismatch is returned when a team's room belongs to a different track.
	ErrRoomTrackMismatch = errors.New("room does not belong to the team's track")
)

// CreateTrack creates a new track.
func (s *RegistryService) CreateTrack(ctx context.Context, name string) (*registrydb.Track, error) {
	return withTelemetry(s, ctx, "CreateTrack", func(ctx context.Context) (*registrydb.Track, error) {
		if strings.TrimSpace(name) == "" {
			return nil, ErrEmptyName
		}
		track := &registrydb.Track{ID: uuid.New(), Name: name}
		if err := s.repo.CreateTrack(ctx, track); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Track created",
			attr.UUID("track_id", track.ID),
			attr.String("name", name),
		)
		return track, nil
	})
}

// ListTracks returns all tracks.
func (s *RegistryService) ListTracks(ctx context.Context) ([]registrydb.Track, error) {
	return withTelemetry(s, ctx, "ListTracks", func(ctx context.Context) ([]registrydb.Track, error) {
		return s.repo.ListTracks(ctx)
	})
}

// CreateRoom creates a room within a track.
func (s *RegistryService) CreateRoom(ctx context.Context, trackID sharedtypes.TrackID, name string) (*registrydb.Room, error) {
	return withTelemetry(s, ctx, "CreateRoom", func(ctx context.Context) (*registrydb.Room, error) {
		if strings.TrimSpace(name) == "" {
			return nil, ErrEmptyName
		}
		if _, err := s.repo.GetTrack(ctx, trackID); err != nil {
			return nil, err
		}
		room := &registrydb.Room{ID: uuid.New(), TrackID: trackID, Name: name}
		if err := s.repo.CreateRoom(ctx, room); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Room created",
			attr.UUID("room_id", room.ID),
			attr.UUID("track_id", trackID),
		)
		return room, nil
	})
}

// ListRooms returns the rooms of a track.
func (s *RegistryService) ListRooms(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Room, error) {
	return withTelemetry(s, ctx, "ListRooms", func(ctx context.Context) ([]registrydb.Room, error) {
		return s.repo.ListRooms(ctx, trackID)
	})
}

// CreateTeam creates a team in a track and room, assigning the next
// ascending team number for the track.
func (s *RegistryService) CreateTeam(ctx context.Context, trackID sharedtypes.TrackID, roomID sharedtypes.RoomID, name string) (*registrydb.Team, error) {
	return withTelemetry(s, ctx, "CreateTeam", func(ctx context.Context) (*registrydb.Team, error) {
		if strings.TrimSpace(name) == "" {
			return nil, ErrEmptyName
		}
		room, err := s.repo.GetRoom(ctx, nil, roomID)
		if err != nil {
			return nil, err
		}
		if room.TrackID != trackID {
			return nil, ErrRoomTrackMismatch
		}
		number, err := s.repo.NextTeamNumber(ctx, trackID)
		if err != nil {
			return nil, err
		}
		team := &registrydb.Team{
			ID:         uuid.New(),
			TrackID:    trackID,
			RoomID:     roomID,
			Name:       name,
			TeamNumber: number,
		}
		if err := s.repo.CreateTeam(ctx, team); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "Team created",
			attr.UUID("team_id", team.ID),
			attr.UUID("track_id", trackID),
			attr.Int("team_number", int(number)),
		)
		return team, nil
	})
}

// GetTeam retrieves a team by ID.
func (s *RegistryService) GetTeam(ctx context.Context, teamID sharedtypes.TeamID) (*registrydb.Team, error) {
	return withTelemetry(s, ctx, "GetTeam", func(ctx context.Context) (*registrydb.Team, error) {
		return s.repo.GetTeam(ctx, nil, teamID)
	})
}

// ListTeams returns the teams of a track ordered by team number.
func (s *RegistryService) ListTeams(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error) {
	return withTelemetry(s, ctx, "ListTeams", func(ctx context.Context) ([]registrydb.Team, error) {
		return s.repo.ListTeams(ctx, trackID)
	})
}

// CreateCriterion creates a judging criterion for a track. Weightage
// defaults to 1 and is surfaced for presentation-layer weighted variants;
// the canonical final score does not apply it.
func (s *RegistryService) CreateCriterion(ctx context.Context, input CreateCriterionInput) (*registrydb.Criterion, error) {
	return withTelemetry(s, ctx, "CreateCriterion", func(ctx context.Context) (*registrydb.Criterion, error) {
		if strings.TrimSpace(input.Title) == "" {
			return nil, ErrEmptyName
		}
		if input.MaxScore <= 0 {
			return nil, ErrInvalidMaxScore
		}
		if _, err := s.repo.GetTrack(ctx, input.TrackID); err != nil {
			return nil, err
		}
		weightage := input.Weightage
		if weightage == 0 {
			weightage = 1
		}
		criterion := &registrydb.Criterion{
			ID:        uuid.New(),
			TrackID:   input.TrackID,
			Title:     input.Title,
			MaxScore:  input.MaxScore,
			Weightage: weightage,
			Options:   input.Options,
		}
		if err := s.repo.CreateCriterion(ctx, criterion); err != nil {
			return nil, err
		}
		return criterion, nil
	})
}

// ListCriteria returns the criteria of a track in the shape the aggregation
// engine consumes.
func (s *RegistryService) ListCriteria(ctx context.Context, trackID sharedtypes.TrackID) ([]sharedtypes.CriterionInfo, error) {
	return withTelemetry(s, ctx, "ListCriteria", func(ctx context.Context) ([]sharedtypes.CriterionInfo, error) {
		criteria, err := s.repo.ListCriteria(ctx, nil, trackID)
		if err != nil {
			return nil, err
		}
		infos := make([]sharedtypes.CriterionInfo, 0, len(criteria))
		for i := range criteria {
			infos = append(infos, criteria[i].Info())
		}
		return infos, nil
	})
}
