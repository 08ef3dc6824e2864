package integrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackboard-live/hackboard/integration_tests/testutils"
)

func TestLockRoomsForTrackCountsOnlyNewlyLockedRooms(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	env, err := testutils.NewTestEnvironment(ctx)
	require.NoError(t, err)
	defer env.Cleanup(context.Background())

	fixture, err := testutils.SeedTrack(ctx, env.RegistryService, 3, 3, 1)
	require.NoError(t, err)

	locked, err := env.RegistryRepo.LockRoomsForTrack(ctx, nil, fixture.Track.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, locked)

	// Locking again touches no rows: every room is already locked.
	locked, err = env.RegistryRepo.LockRoomsForTrack(ctx, nil, fixture.Track.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, locked)

	rooms, err := env.RegistryRepo.ListRooms(ctx, fixture.Track.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	for _, room := range rooms {
		assert.True(t, room.Locked)
	}
}
