package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Participant represents a competitor with a derived point total.
// TotalPoints is owned by the aggregation pipeline; external callers
// must treat it as read-only.
type Participant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Team        string `json:"team"`
	TotalPoints int    `json:"total_points"`
	JoinedAt    int64  `json:"joined_at"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// ParticipantFilter controls ListParticipants
type ParticipantFilter struct {
	Team    string // exact team name, empty for all
	Search  string // substring match on name or email
	OrderBy string // "total_points", "joined_at" or "name"; empty defaults to total_points
	Asc     bool   // ascending order; default is descending
}

// participantOrderColumns whitelists sortable columns
var participantOrderColumns = map[string]string{
	"total_points": "total_points",
	"joined_at":    "joined_at",
	"name":         "name",
}

// CreateParticipant inserts a new participant into the database
func (db *DB) CreateParticipant(p *Participant) error {
	now := time.Now().Unix()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.JoinedAt == 0 {
		p.JoinedAt = now
	}

	_, err := db.conn.Exec(`
		INSERT INTO participants (id, name, email, team, total_points, joined_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Email, p.Team, p.TotalPoints, p.JoinedAt, p.CreatedAt, p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// GetParticipant retrieves a participant by ID
func (db *DB) GetParticipant(id string) (*Participant, error) {
	return db.scanParticipant(db.conn.QueryRow(`
		SELECT id, name, email, team, total_points, joined_at, created_at, updated_at
		FROM participants WHERE id = ?
	`, id))
}

// GetParticipantByEmail retrieves a participant by email
func (db *DB) GetParticipantByEmail(email string) (*Participant, error) {
	return db.scanParticipant(db.conn.QueryRow(`
		SELECT id, name, email, team, total_points, joined_at, created_at, updated_at
		FROM participants WHERE email = ?
	`, email))
}

func (db *DB) scanParticipant(row *sql.Row) (*Participant, error) {
	var p Participant
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Team, &p.TotalPoints,
		&p.JoinedAt, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

// UpdateParticipant updates a participant's identity fields.
// total_points is deliberately not written here; it belongs to the aggregators.
func (db *DB) UpdateParticipant(p *Participant) error {
	result, err := db.conn.Exec(`
		UPDATE participants
		SET name = ?, email = ?, team = ?, joined_at = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Email, p.Team, p.JoinedAt, time.Now().Unix(), p.ID)

	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("participant not found")
	}
	return nil
}

// DeleteParticipant removes a participant by ID
func (db *DB) DeleteParticipant(id string) error {
	result, err := db.conn.Exec(`DELETE FROM participants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("participant not found")
	}
	return nil
}

// ListParticipants returns participants matching the filter
func (db *DB) ListParticipants(filter ParticipantFilter) ([]*Participant, error) {
	query := `
		SELECT id, name, email, team, total_points, joined_at, created_at, updated_at
		FROM participants
		WHERE 1=1
	`
	var args []interface{}

	if filter.Team != "" {
		query += " AND team = ?"
		args = append(args, filter.Team)
	}
	if filter.Search != "" {
		query += " AND (name LIKE ? OR email LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	column, ok := participantOrderColumns[filter.OrderBy]
	if !ok {
		column = "total_points"
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}
	// Secondary key keeps the listing stable across equal primary values
	query += fmt.Sprintf(" ORDER BY %s %s, name ASC", column, direction)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		var p Participant
		err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Team, &p.TotalPoints,
			&p.JoinedAt, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participants: %w", err)
	}

	return participants, nil
}

// SetParticipantTotals overwrites total_points for the given participants in a
// single transaction. Emails without a matching participant row are skipped;
// the aggregation pipeline treats those as orphan identities.
func (db *DB) SetParticipantTotals(totals map[string]int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin totals transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE participants SET total_points = ?, updated_at = ? WHERE email = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare totals update: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for email, points := range totals {
		if _, err := stmt.Exec(points, now, email); err != nil {
			return fmt.Errorf("failed to set total for %s: %w", email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit totals: %w", err)
	}
	return nil
}
