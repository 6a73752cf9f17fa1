package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestOpenInitializesSchema(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Health())

	// Schema was applied during Open, so the stores are usable immediately
	participants, err := db.ListParticipants(ParticipantFilter{})
	require.NoError(t, err)
	require.Empty(t, participants)

	count, err := db.CountActivities()
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestSeedPopulatesDemoData(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Seed())

	participants, err := db.ListParticipants(ParticipantFilter{})
	require.NoError(t, err)
	require.Len(t, participants, 8)

	teams, err := db.ListTeams(TeamFilter{})
	require.NoError(t, err)
	require.Len(t, teams, 2)

	count, err := db.CountActivities()
	require.NoError(t, err)
	require.Greater(t, count, 0)

	workouts, err := db.ListWorkouts(WorkoutFilter{})
	require.NoError(t, err)
	require.Len(t, workouts, 5)

	// Seeding leaves totals at zero; the recompute driver owns them
	for _, p := range participants {
		require.Zero(t, p.TotalPoints)
	}
}
