// Package aggregate derives participant and team point totals from the
// activity ledger. The aggregators are the only writers of the cached
// total_points columns; everything else reads them.
package aggregate

import (
	"fmt"
	"log/slog"

	"teamfit-tracker/internal/database"
)

// PointsAggregator computes per-participant point totals from the ledger
type PointsAggregator struct {
	db     *database.DB
	logger *slog.Logger
}

// NewPointsAggregator creates a new points aggregator
func NewPointsAggregator(db *database.DB) *PointsAggregator {
	return &PointsAggregator{
		db:     db,
		logger: slog.Default(),
	}
}

// AggregateAll sums ledger points for every identity and overwrites the
// stored totals of all participants. Participants with no ledger entries get
// an explicit 0. Identities without a participant row (orphan events) stay in
// the returned map but have no stored row to update; the ranking stage never
// sees them because it reads participants, not this map.
func (a *PointsAggregator) AggregateAll() (map[string]int, error) {
	totals, err := a.db.SumPointsByEmail(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger points: %w", err)
	}

	participants, err := a.db.ListParticipants(database.ParticipantFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	orphans := len(totals)
	for _, p := range participants {
		if _, ok := totals[p.Email]; ok {
			orphans--
		} else {
			totals[p.Email] = 0
		}
	}

	if err := a.db.SetParticipantTotals(totals); err != nil {
		return nil, fmt.Errorf("failed to store participant totals: %w", err)
	}

	if orphans > 0 {
		a.logger.Warn("Ledger contains orphan identities with no participant record",
			"orphan_identities", orphans)
	}

	return totals, nil
}

// AggregateParticipants recomputes and stores totals for the given identities
// only. Identities with no ledger entries get an explicit 0.
func (a *PointsAggregator) AggregateParticipants(emails []string) (map[string]int, error) {
	if len(emails) == 0 {
		return map[string]int{}, nil
	}

	totals, err := a.db.SumPointsByEmail(emails)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger points: %w", err)
	}

	for _, email := range emails {
		if _, ok := totals[email]; !ok {
			totals[email] = 0
		}
	}

	if err := a.db.SetParticipantTotals(totals); err != nil {
		return nil, fmt.Errorf("failed to store participant totals: %w", err)
	}

	return totals, nil
}
