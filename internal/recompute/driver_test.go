package recompute

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamfit-tracker/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func addParticipant(t *testing.T, db *database.DB, id, name, email, team string) {
	t.Helper()
	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: id, Name: name, Email: email, Team: team,
	}))
}

func addActivity(t *testing.T, db *database.DB, id, email string, points int) {
	t.Helper()
	require.NoError(t, db.CreateActivity(&database.Activity{
		ID:           id,
		UserEmail:    email,
		ActivityType: "running",
		Duration:     30,
		Points:       points,
	}))
}

func TestFullRebuild(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateTeam(&database.Team{ID: "t1", Name: "Red"}))
	addParticipant(t, db, "p1", "Aria", "aria@example.com", "Red")
	addParticipant(t, db, "p2", "Bo", "bo@example.com", "Red")
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "aria@example.com", 20)
	addActivity(t, db, "a3", "aria@example.com", 5)
	addActivity(t, db, "a4", "bo@example.com", 15)

	d := NewDriver(db)
	defer d.Close()
	d.RebuildAndWait()

	assert.Equal(t, StateIdle, d.State())
	assert.EqualValues(t, 1, d.CompletedRuns())

	individual, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, individual, 2)
	assert.Equal(t, "Aria", individual[0].Name)
	assert.Equal(t, 35, individual[0].Points)
	assert.Equal(t, 1, individual[0].Rank)
	assert.Equal(t, "Red", individual[0].Team)
	assert.Equal(t, "Bo", individual[1].Name)
	assert.Equal(t, 2, individual[1].Rank)

	teams, err := db.GetLeaderboard(database.ScopeTeam, "")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Red", teams[0].Name)
	assert.Equal(t, 50, teams[0].Points)
	assert.Equal(t, 1, teams[0].Rank)
}

func TestRanksAreDeterministicUnderTies(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Cy", "cy@example.com", "")
	addParticipant(t, db, "p2", "Aria", "aria@example.com", "")
	addParticipant(t, db, "p3", "Bo", "bo@example.com", "")
	addActivity(t, db, "a1", "aria@example.com", 35)
	addActivity(t, db, "a2", "bo@example.com", 15)
	addActivity(t, db, "a3", "cy@example.com", 35)

	d := NewDriver(db)
	defer d.Close()
	d.RebuildAndWait()

	entries, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Equal points tie-break alphabetically; ranks stay dense
	assert.Equal(t, "Aria", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Cy", entries[1].Name)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "Bo", entries[2].Name)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRebuildIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")
	addParticipant(t, db, "p2", "Bo", "bo@example.com", "")
	addActivity(t, db, "a1", "aria@example.com", 35)
	addActivity(t, db, "a2", "bo@example.com", 15)

	d := NewDriver(db)
	defer d.Close()
	d.now = func() time.Time { return time.Unix(1700000000, 0) }

	d.RebuildAndWait()
	first, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)

	d.RebuildAndWait()
	second, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOrphanEventsExcludedFromLeaderboard(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "ghost@x.com", 50)

	d := NewDriver(db)
	defer d.Close()
	d.RebuildAndWait()

	// The orphan identity never reaches the leaderboard and the run
	// still succeeds
	entries, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "aria@example.com", entries[0].Email)
	assert.Equal(t, StateIdle, d.State())
}

func TestIncrementalTriggerUpdatesLeaderboard(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")
	addParticipant(t, db, "p2", "Bo", "bo@example.com", "")
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "bo@example.com", 15)

	d := NewDriver(db)
	defer d.Close()
	d.RebuildAndWait()

	// Bo ahead of Aria before the new activity lands
	entries, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	assert.Equal(t, "Bo", entries[0].Name)

	addActivity(t, db, "a3", "aria@example.com", 25)
	d.TriggerParticipants("aria@example.com")
	d.Wait()

	entries, err = db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	assert.Equal(t, "Aria", entries[0].Name)
	assert.Equal(t, 35, entries[0].Points)
	assert.Equal(t, "Bo", entries[1].Name)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestRapidTriggersCoalesce(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")

	d := NewDriver(db)
	defer d.Close()

	// Slow the materialization stamp so follow-up triggers land while the
	// first run is still in flight
	d.now = func() time.Time {
		time.Sleep(50 * time.Millisecond)
		return time.Now()
	}

	for i := 0; i < 10; i++ {
		addActivity(t, db, string(rune('a'+i)), "aria@example.com", 10)
		d.TriggerParticipants("aria@example.com")
	}
	d.Wait()

	// Ten writes, at most one in-flight run plus one catch-up run
	assert.LessOrEqual(t, d.CompletedRuns(), int64(2))

	entries, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].Points)
}

func TestFullTriggerSupersedesPendingIncremental(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")
	addParticipant(t, db, "p2", "Bo", "bo@example.com", "")
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "bo@example.com", 20)

	d := NewDriver(db)
	defer d.Close()
	d.now = func() time.Time {
		time.Sleep(50 * time.Millisecond)
		return time.Now()
	}

	d.TriggerParticipants("aria@example.com")
	d.TriggerFull()
	d.Wait()

	// The full pass covered Bo even though only Aria was triggered
	// incrementally
	bo, err := db.GetParticipantByEmail("bo@example.com")
	require.NoError(t, err)
	assert.Equal(t, 20, bo.TotalPoints)
}

func TestFailedRunLeavesPreviousLeaderboard(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")
	addActivity(t, db, "a1", "aria@example.com", 35)

	d := NewDriver(db)
	defer d.Close()
	d.RebuildAndWait()

	before, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	require.Len(t, before, 1)

	// Break the ledger out from under the next run
	_, err = db.Conn().Exec(`DROP TABLE activities`)
	require.NoError(t, err)

	d.RebuildAndWait()
	assert.Equal(t, StateIdle, d.State())
	assert.EqualValues(t, 2, d.CompletedRuns())

	after, err := db.GetLeaderboard(database.ScopeIndividual, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTriggerParticipantsNoEmailsIsNoop(t *testing.T) {
	db := openTestDB(t)

	d := NewDriver(db)
	defer d.Close()

	d.TriggerParticipants()
	d.Wait()
	assert.EqualValues(t, 0, d.CompletedRuns())
}

func TestCloseRejectsFurtherTriggers(t *testing.T) {
	db := openTestDB(t)

	addParticipant(t, db, "p1", "Aria", "aria@example.com", "")

	d := NewDriver(db)
	d.RebuildAndWait()
	d.Close()

	runs := d.CompletedRuns()
	d.TriggerFull()
	assert.Equal(t, runs, d.CompletedRuns())
}
