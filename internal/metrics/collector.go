package metrics

import (
	"context"
	"log/slog"
	"time"

	"teamfit-tracker/internal/database"
)

// DB interface for leaderboard and ledger stats queries
type DB interface {
	CountLeaderboardEntries(scope database.Scope) (int, error)
	CountActivities() (int, error)
}

// StartStatsCollector starts a background loop that periodically refreshes
// leaderboard and ledger size gauges from the database
func StartStatsCollector(ctx context.Context, db DB, interval time.Duration) {
	logger := slog.Default()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect once immediately
	collectStats(db, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stats collector stopping")
			return
		case <-ticker.C:
			collectStats(db, logger)
		}
	}
}

func collectStats(db DB, logger *slog.Logger) {
	for _, scope := range []database.Scope{database.ScopeIndividual, database.ScopeTeam} {
		if count, err := db.CountLeaderboardEntries(scope); err != nil {
			logger.Error("Failed to count leaderboard entries", "scope", scope, "error", err)
		} else {
			LeaderboardEntries.WithLabelValues(string(scope)).Set(float64(count))
		}
	}

	if count, err := db.CountActivities(); err != nil {
		logger.Error("Failed to count ledger size", "error", err)
	} else {
		LedgerSize.Set(float64(count))
	}
}
