package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantCRUD(t *testing.T) {
	db := openTestDB(t)

	p := &Participant{
		ID:    "p1",
		Name:  "Aria",
		Email: "aria@example.com",
		Team:  "Red",
	}
	require.NoError(t, db.CreateParticipant(p))
	assert.NotZero(t, p.CreatedAt)
	assert.NotZero(t, p.JoinedAt)

	got, err := db.GetParticipant("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Aria", got.Name)
	assert.Equal(t, "aria@example.com", got.Email)

	byEmail, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "p1", byEmail.ID)

	got.Team = "Blue"
	require.NoError(t, db.UpdateParticipant(got))

	got, err = db.GetParticipant("p1")
	require.NoError(t, err)
	assert.Equal(t, "Blue", got.Team)

	require.NoError(t, db.DeleteParticipant("p1"))

	got, err = db.GetParticipant("p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetParticipantMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetParticipant("nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = db.GetParticipantByEmail("nope@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateParticipantMissing(t *testing.T) {
	db := openTestDB(t)

	err := db.UpdateParticipant(&Participant{ID: "ghost", Name: "Ghost"})
	assert.Error(t, err)

	err = db.DeleteParticipant("ghost")
	assert.Error(t, err)
}

func TestCreateParticipantDuplicateEmail(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&Participant{ID: "p1", Name: "Aria", Email: "aria@example.com"}))
	err := db.CreateParticipant(&Participant{ID: "p2", Name: "Other", Email: "aria@example.com"})
	assert.Error(t, err)
}

func TestListParticipantsFilters(t *testing.T) {
	db := openTestDB(t)

	for _, p := range []*Participant{
		{ID: "p1", Name: "Aria", Email: "aria@example.com", Team: "Red"},
		{ID: "p2", Name: "Bo", Email: "bo@example.com", Team: "Blue"},
		{ID: "p3", Name: "Cy", Email: "cy@example.com", Team: "Red"},
	} {
		require.NoError(t, db.CreateParticipant(p))
	}

	red, err := db.ListParticipants(ParticipantFilter{Team: "Red"})
	require.NoError(t, err)
	require.Len(t, red, 2)
	for _, p := range red {
		assert.Equal(t, "Red", p.Team)
	}

	found, err := db.ListParticipants(ParticipantFilter{Search: "bo@"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bo", found[0].Name)

	byName, err := db.ListParticipants(ParticipantFilter{OrderBy: "name", Asc: true})
	require.NoError(t, err)
	require.Len(t, byName, 3)
	assert.Equal(t, "Aria", byName[0].Name)
	assert.Equal(t, "Bo", byName[1].Name)
	assert.Equal(t, "Cy", byName[2].Name)
}

func TestSetParticipantTotals(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&Participant{ID: "p1", Name: "Aria", Email: "aria@example.com"}))
	require.NoError(t, db.CreateParticipant(&Participant{ID: "p2", Name: "Bo", Email: "bo@example.com"}))

	err := db.SetParticipantTotals(map[string]int{
		"aria@example.com": 35,
		"bo@example.com":   15,
		// No participant row matches this email; it must not fail the batch
		"ghost@x.com": 99,
	})
	require.NoError(t, err)

	aria, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	assert.Equal(t, 35, aria.TotalPoints)

	bo, err := db.GetParticipantByEmail("bo@example.com")
	require.NoError(t, err)
	assert.Equal(t, 15, bo.TotalPoints)
}

func TestUpdateParticipantDoesNotTouchTotals(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.CreateParticipant(&Participant{ID: "p1", Name: "Aria", Email: "aria@example.com"}))
	require.NoError(t, db.SetParticipantTotals(map[string]int{"aria@example.com": 35}))

	p, err := db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	p.Name = "Aria R."
	p.TotalPoints = 0 // callers cannot reset derived totals through Update
	require.NoError(t, db.UpdateParticipant(p))

	p, err = db.GetParticipantByEmail("aria@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Aria R.", p.Name)
	assert.Equal(t, 35, p.TotalPoints)
}
