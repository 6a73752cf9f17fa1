package aggregate

import (
	"path/filepath"
	"testing"

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

func TestAggregateAllSumsLedgerPoints(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p1", Name: "Aria", Email: "aria@example.com",
	}))
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "aria@example.com", 20)
	addActivity(t, db, "a3", "aria@example.com", 5)

	totals, err := NewPointsAggregator(db).AggregateAll()
	require.NoError(t, err)
	assert.Equal(t, 35, totals["aria@example.com"])

	p, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	assert.Equal(t, 35, p.TotalPoints)
}

func TestAggregateAllZeroForNoEvents(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p1", Name: "Aria", Email: "aria@example.com",
	}))

	totals, err := NewPointsAggregator(db).AggregateAll()
	require.NoError(t, err)

	points, ok := totals["aria@example.com"]
	require.True(t, ok, "eventless participants must appear with an explicit total")
	assert.Equal(t, 0, points)
}

func TestAggregateAllStaleCacheOverwritten(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p1", Name: "Aria", Email: "aria@example.com",
	}))
	require.NoError(t, db.SetParticipantTotals(map[string]int{"aria@example.com": 999}))

	// The ledger is empty, so the stale cached 999 must drop to 0
	_, err := NewPointsAggregator(db).AggregateAll()
	require.NoError(t, err)

	p, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalPoints)
}

func TestAggregateAllOrphanEventsDoNotAbort(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p1", Name: "Aria", Email: "aria@example.com",
	}))
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "ghost@x.com", 50)

	totals, err := NewPointsAggregator(db).AggregateAll()
	require.NoError(t, err)

	// The orphan identity is aggregated but has no participant row to update
	assert.Equal(t, 50, totals["ghost@x.com"])
	assert.Equal(t, 10, totals["aria@example.com"])

	p, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	assert.Equal(t, 10, p.TotalPoints)
}

func TestAggregateParticipantsScoped(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p1", Name: "Aria", Email: "aria@example.com",
	}))
	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p2", Name: "Bo", Email: "bo@example.com",
	}))
	addActivity(t, db, "a1", "aria@example.com", 10)
	addActivity(t, db, "a2", "bo@example.com", 15)

	totals, err := NewPointsAggregator(db).AggregateParticipants([]string{"aria@example.com"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"aria@example.com": 10}, totals)

	// Bo was out of scope and keeps the prior stored total
	bo, err := db.GetParticipantByEmail("bo@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, bo.TotalPoints)
}

func TestAggregateParticipantsMissingLedgerEntries(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&database.Participant{
		ID: "p1", Name: "Aria", Email: "aria@example.com",
	}))
	require.NoError(t, db.SetParticipantTotals(map[string]int{"aria@example.com": 42}))

	totals, err := NewPointsAggregator(db).AggregateParticipants([]string{"aria@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 0, totals["aria@example.com"])

	p, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, p.TotalPoints)
}

func TestAggregateParticipantsEmptyScope(t *testing.T) {
	db := openTestDB(t)

	totals, err := NewPointsAggregator(db).AggregateParticipants(nil)
	require.NoError(t, err)
	assert.Empty(t, totals)
}
