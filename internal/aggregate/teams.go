package aggregate

import (
	"fmt"
	"log/slog"

	"teamfit-tracker/internal/database"
)

// TeamAggregator rolls stored participant totals up into team totals. It must
// run after the PointsAggregator within a recomputation so that it reads
// fully updated participant totals.
type TeamAggregator struct {
	db     *database.DB
	logger *slog.Logger
}

// NewTeamAggregator creates a new team aggregator
func NewTeamAggregator(db *database.DB) *TeamAggregator {
	return &TeamAggregator{
		db:     db,
		logger: slog.Default(),
	}
}

// AggregateAll computes every team's total as the sum of its current members'
// stored totals and overwrites teams.total_points. Teams with no members get
// an explicit 0. Participants referencing a nonexistent team are excluded and
// logged, not treated as fatal.
//
// A single pass over all teams is used even for incremental recomputations:
// a participant switching teams moves points between two teams, and the full
// rollup is one query over already-aggregated totals.
func (a *TeamAggregator) AggregateAll() (map[string]int, error) {
	teams, err := a.db.ListTeams(database.TeamFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	totals := make(map[string]int, len(teams))
	for _, t := range teams {
		totals[t.Name] = 0
	}

	participants, err := a.db.ListParticipants(database.ParticipantFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	dangling := 0
	for _, p := range participants {
		if p.Team == "" {
			continue
		}
		if _, ok := totals[p.Team]; !ok {
			dangling++
			continue
		}
		totals[p.Team] += p.TotalPoints
	}

	if err := a.db.SetTeamTotals(totals); err != nil {
		return nil, fmt.Errorf("failed to store team totals: %w", err)
	}

	if dangling > 0 {
		a.logger.Warn("Participants reference teams that do not exist",
			"dangling_references", dangling)
	}

	return totals, nil
}
