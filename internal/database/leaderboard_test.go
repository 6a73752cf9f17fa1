package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceLeaderboard(t *testing.T) {
	db := openTestDB(t)

	first := []*LeaderboardEntry{
		{Name: "Aria", Email: "aria@example.com", Team: "Red", Points: 35, Rank: 1, LastUpdated: 100},
		{Name: "Bo", Email: "bo@example.com", Team: "Blue", Points: 15, Rank: 2, LastUpdated: 100},
	}
	require.NoError(t, db.ReplaceLeaderboard(ScopeIndividual, first))

	got, err := db.GetLeaderboard(ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Aria", got[0].Name)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, ScopeIndividual, got[0].Scope)

	// A replace fully supersedes the old snapshot, including rows that
	// no longer exist
	second := []*LeaderboardEntry{
		{Name: "Cy", Email: "cy@example.com", Points: 50, Rank: 1, LastUpdated: 200},
	}
	require.NoError(t, db.ReplaceLeaderboard(ScopeIndividual, second))

	got, err = db.GetLeaderboard(ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cy", got[0].Name)
}

func TestLeaderboardScopesAreIndependent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.ReplaceLeaderboard(ScopeIndividual, []*LeaderboardEntry{
		{Name: "Aria", Email: "aria@example.com", Points: 35, Rank: 1, LastUpdated: 100},
	}))
	require.NoError(t, db.ReplaceLeaderboard(ScopeTeam, []*LeaderboardEntry{
		{Name: "Red", Points: 50, Rank: 1, LastUpdated: 100},
		{Name: "Blue", Points: 15, Rank: 2, LastUpdated: 100},
	}))

	// Replacing one scope leaves the other untouched
	require.NoError(t, db.ReplaceLeaderboard(ScopeIndividual, nil))

	individual, err := db.GetLeaderboard(ScopeIndividual, "")
	require.NoError(t, err)
	assert.Empty(t, individual)

	teams, err := db.GetLeaderboard(ScopeTeam, "")
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Red", teams[0].Name)
}

func TestGetLeaderboardTeamFilter(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.ReplaceLeaderboard(ScopeIndividual, []*LeaderboardEntry{
		{Name: "Aria", Email: "aria@example.com", Team: "Red", Points: 35, Rank: 1, LastUpdated: 100},
		{Name: "Bo", Email: "bo@example.com", Team: "Blue", Points: 15, Rank: 2, LastUpdated: 100},
		{Name: "Cy", Email: "cy@example.com", Team: "Red", Points: 10, Rank: 3, LastUpdated: 100},
	}))

	red, err := db.GetLeaderboard(ScopeIndividual, "Red")
	require.NoError(t, err)
	require.Len(t, red, 2)
	assert.Equal(t, "Aria", red[0].Name)
	assert.Equal(t, "Cy", red[1].Name)
}

func TestCountLeaderboardEntries(t *testing.T) {
	db := openTestDB(t)

	count, err := db.CountLeaderboardEntries(ScopeTeam)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, db.ReplaceLeaderboard(ScopeTeam, []*LeaderboardEntry{
		{Name: "Red", Points: 50, Rank: 1, LastUpdated: 100},
	}))

	count, err = db.CountLeaderboardEntries(ScopeTeam)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScopeValid(t *testing.T) {
	assert.True(t, ScopeIndividual.Valid())
	assert.True(t, ScopeTeam.Valid())
	assert.False(t, Scope("global").Valid())
	assert.False(t, Scope("").Valid())
}
