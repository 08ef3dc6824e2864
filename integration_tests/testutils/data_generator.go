package testutils

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"

	registryservice "github.com/hackboard-live/hackboard/app/modules/registry/application"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// TrackFixture is a seeded track with its rooms, teams, and criteria.
type TrackFixture struct {
	Track    *registrydb.Track
	Rooms    []*registrydb.Room
	Teams    []*registrydb.Team
	Criteria []*registrydb.Criterion
}

// SeedTrack creates a track with the given shape through the registry
// service, with generated names.
func SeedTrack(ctx context.Context, registry registryservice.Service, numRooms, numTeams, numCriteria int) (*TrackFixture, error) {
	fixture := &TrackFixture{}

	track, err := registry.CreateTrack(ctx, gofakeit.BuzzWord()+" Track")
	if err != nil {
		return nil, fmt.Errorf("failed to seed track: %w", err)
	}
	fixture.Track = track

	for i := 0; i < numRooms; i++ {
		room, err := registry.CreateRoom(ctx, track.ID, fmt.Sprintf("Room %d", i+1))
		if err != nil {
			return nil, fmt.Errorf("failed to seed room: %w", err)
		}
		fixture.Rooms = append(fixture.Rooms, room)
	}

	for i := 0; i < numTeams; i++ {
		room := fixture.Rooms[i%len(fixture.Rooms)]
		team, err := registry.CreateTeam(ctx, track.ID, room.ID, gofakeit.AppName())
		if err != nil {
			return nil, fmt.Errorf("failed to seed team: %w", err)
		}
		fixture.Teams = append(fixture.Teams, team)
	}

	for i := 0; i < numCriteria; i++ {
		criterion, err := registry.CreateCriterion(ctx, registryservice.CreateCriterionInput{
			TrackID:  track.ID,
			Title:    gofakeit.BuzzWord(),
			MaxScore: 10,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed criterion: %w", err)
		}
		fixture.Criteria = append(fixture.Criteria, criterion)
	}

	return fixture, nil
}

// ScoreEntries builds one entry per criterion with the given score.
func (f *TrackFixture) ScoreEntries(score sharedtypes.Score) []sharedtypes.ScoreEntry {
	entries := make([]sharedtypes.ScoreEntry, 0, len(f.Criteria))
	for _, c := range f.Criteria {
		entries = append(entries, sharedtypes.ScoreEntry{CriterionID: c.ID, Score: score})
	}
	return entries
}

// VoteEntries builds one vote entry per criterion with the given score.
func (f *TrackFixture) VoteEntries(score sharedtypes.Score) []sharedtypes.VoteEntry {
	entries := make([]sharedtypes.VoteEntry, 0, len(f.Criteria))
	for _, c := range f.Criteria {
		entries = append(entries, sharedtypes.VoteEntry{CriterionID: c.ID, Score: score})
	}
	return entries
}
