package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Team represents a named group of participants.
// TotalPoints is owned by the aggregation pipeline.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TotalPoints int    `json:"total_points"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// TeamFilter controls ListTeams
type TeamFilter struct {
	Search  string // substring match on name or description
	OrderBy string // "total_points", "created_at" or "name"; empty defaults to total_points
	Asc     bool
}

var teamOrderColumns = map[string]string{
	"total_points": "total_points",
	"created_at":   "created_at",
	"name":         "name",
}

// CreateTeam inserts a new team into the database
func (db *DB) CreateTeam(t *Team) error {
	now := time.Now().Unix()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := db.conn.Exec(`
		INSERT INTO teams (id, name, description, total_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Name, t.Description, t.TotalPoints, t.CreatedAt, t.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// GetTeam retrieves a team by ID
func (db *DB) GetTeam(id string) (*Team, error) {
	return db.scanTeam(db.conn.QueryRow(`
		SELECT id, name, description, total_points, created_at, updated_at
		FROM teams WHERE id = ?
	`, id))
}

// GetTeamByName retrieves a team by its unique name
func (db *DB) GetTeamByName(name string) (*Team, error) {
	return db.scanTeam(db.conn.QueryRow(`
		SELECT id, name, description, total_points, created_at, updated_at
		FROM teams WHERE name = ?
	`, name))
}

func (db *DB) scanTeam(row *sql.Row) (*Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.TotalPoints, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}

// UpdateTeam updates a team's name and description.
// total_points is deliberately not written here; it belongs to the aggregators.
func (db *DB) UpdateTeam(t *Team) error {
	result, err := db.conn.Exec(`
		UPDATE teams SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`, t.Name, t.Description, time.Now().Unix(), t.ID)

	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("team not found")
	}
	return nil
}

// DeleteTeam removes a team by ID
func (db *DB) DeleteTeam(id string) error {
	result, err := db.conn.Exec(`DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("team not found")
	}
	return nil
}

// ListTeams returns teams matching the filter
func (db *DB) ListTeams(filter TeamFilter) ([]*Team, error) {
	query := `
		SELECT id, name, description, total_points, created_at, updated_at
		FROM teams
		WHERE 1=1
	`
	var args []interface{}

	if filter.Search != "" {
		query += " AND (name LIKE ? OR description LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	column, ok := teamOrderColumns[filter.OrderBy]
	if !ok {
		column = "total_points"
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, name ASC", column, direction)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		var t Team
		err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.TotalPoints, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// SetTeamTotals overwrites total_points for the given teams in a single
// transaction. Team names without a matching row are skipped.
func (db *DB) SetTeamTotals(totals map[string]int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin team totals transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE teams SET total_points = ?, updated_at = ? WHERE name = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare team totals update: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for name, points := range totals {
		if _, err := stmt.Exec(points, now, name); err != nil {
			return fmt.Errorf("failed to set total for team %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit team totals: %w", err)
	}
	return nil
}
