package database

import (
	"fmt"
)

// Scope identifies which leaderboard view an entry belongs to
type Scope string

const (
	ScopeIndividual Scope = "individual"
	ScopeTeam       Scope = "team"
)

// Valid reports whether s is a known leaderboard scope
func (s Scope) Valid() bool {
	return s == ScopeIndividual || s == ScopeTeam
}

// LeaderboardEntry is one materialized rank row. A full leaderboard for a
// scope is a permutation of ranks 1..N sorted descending by points.
type LeaderboardEntry struct {
	Scope       Scope  `json:"scope"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"` // individual scope only
	Team        string `json:"team,omitempty"`
	Points      int    `json:"points"`
	Rank        int    `json:"rank"`
	LastUpdated int64  `json:"last_updated"`
}

// ReplaceLeaderboard atomically swaps the materialized entries for one scope.
// The delete and all inserts run in a single transaction, so readers observe
// either the complete prior snapshot or the complete new one.
func (db *DB) ReplaceLeaderboard(scope Scope, entries []*LeaderboardEntry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin leaderboard transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM leaderboard WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear %s leaderboard: %w", scope, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO leaderboard (scope, name, email, team, points, rank, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare leaderboard insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var email, team interface{}
		if e.Email != "" {
			email = e.Email
		}
		if e.Team != "" {
			team = e.Team
		}
		if _, err := stmt.Exec(scope, e.Name, email, team, e.Points, e.Rank, e.LastUpdated); err != nil {
			return fmt.Errorf("failed to insert leaderboard entry for %s: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s leaderboard: %w", scope, err)
	}
	return nil
}

// GetLeaderboard returns the materialized entries for a scope sorted by rank
// ascending. The optional team filter narrows the individual scope to one
// team's participants.
func (db *DB) GetLeaderboard(scope Scope, team string) ([]*LeaderboardEntry, error) {
	query := `
		SELECT scope, name, COALESCE(email, ''), COALESCE(team, ''), points, rank, last_updated
		FROM leaderboard
		WHERE scope = ?
	`
	args := []interface{}{scope}

	if team != "" {
		query += " AND team = ?"
		args = append(args, team)
	}
	query += " ORDER BY rank ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		err := rows.Scan(&e.Scope, &e.Name, &e.Email, &e.Team, &e.Points, &e.Rank, &e.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard entries: %w", err)
	}

	return entries, nil
}

// CountLeaderboardEntries returns the number of materialized rows for a scope
func (db *DB) CountLeaderboardEntries(scope Scope) (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM leaderboard WHERE scope = ?`, scope).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count leaderboard entries: %w", err)
	}
	return count, nil
}
