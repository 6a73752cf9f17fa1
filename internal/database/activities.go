package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Activity represents a single entry in the activity ledger. Points is the
// authoritative score contribution; UserName is denormalized for reads only.
type Activity struct {
	ID           string   `json:"id"`
	UserEmail    string   `json:"user_email"`
	UserName     string   `json:"user_name"`
	ActivityType string   `json:"activity_type"`
	Duration     int      `json:"duration"`
	Distance     *float64 `json:"distance,omitempty"`
	Calories     int      `json:"calories"`
	Points       int      `json:"points"`
	Date         int64    `json:"date"`
	Notes        string   `json:"notes"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
}

// ActivityFilter controls ListActivities
type ActivityFilter struct {
	UserEmail    string // exact match, empty for all
	ActivityType string // exact match, empty for all
	Search       string // substring match on user_name, activity_type or notes
	OrderBy      string // "date", "points", "duration" or "calories"; empty defaults to date
	Asc          bool
	Limit        int // 0 means no limit
	Offset       int
}

var activityOrderColumns = map[string]string{
	"date":     "date",
	"points":   "points",
	"duration": "duration",
	"calories": "calories",
}

// CreateActivity inserts a new activity into the ledger
func (db *DB) CreateActivity(a *Activity) error {
	now := time.Now().Unix()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Date == 0 {
		a.Date = now
	}

	_, err := db.conn.Exec(`
		INSERT INTO activities (
			id, user_email, user_name, activity_type, duration, distance,
			calories, points, date, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserEmail, a.UserName, a.ActivityType, a.Duration, a.Distance,
		a.Calories, a.Points, a.Date, a.Notes, a.CreatedAt, a.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(id string) (*Activity, error) {
	var a Activity
	err := db.conn.QueryRow(`
		SELECT id, user_email, user_name, activity_type, duration, distance,
		       calories, points, date, notes, created_at, updated_at
		FROM activities WHERE id = ?
	`, id).Scan(
		&a.ID, &a.UserEmail, &a.UserName, &a.ActivityType, &a.Duration, &a.Distance,
		&a.Calories, &a.Points, &a.Date, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &a, nil
}

// UpdateActivity overwrites an existing ledger entry
func (db *DB) UpdateActivity(a *Activity) error {
	result, err := db.conn.Exec(`
		UPDATE activities
		SET user_email = ?, user_name = ?, activity_type = ?, duration = ?,
		    distance = ?, calories = ?, points = ?, date = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, a.UserEmail, a.UserName, a.ActivityType, a.Duration,
		a.Distance, a.Calories, a.Points, a.Date, a.Notes, time.Now().Unix(), a.ID)

	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("activity not found")
	}
	return nil
}

// DeleteActivity removes a ledger entry by ID
func (db *DB) DeleteActivity(id string) error {
	result, err := db.conn.Exec(`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("activity not found")
	}
	return nil
}

// ListActivities returns ledger entries matching the filter
func (db *DB) ListActivities(filter ActivityFilter) ([]*Activity, error) {
	query := `
		SELECT id, user_email, user_name, activity_type, duration, distance,
		       calories, points, date, notes, created_at, updated_at
		FROM activities
		WHERE 1=1
	`
	var args []interface{}

	if filter.UserEmail != "" {
		query += " AND user_email = ?"
		args = append(args, filter.UserEmail)
	}
	if filter.ActivityType != "" {
		query += " AND activity_type = ?"
		args = append(args, filter.ActivityType)
	}
	if filter.Search != "" {
		query += " AND (user_name LIKE ? OR activity_type LIKE ? OR notes LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	column, ok := activityOrderColumns[filter.OrderBy]
	if !ok {
		column = "date"
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*Activity
	for rows.Next() {
		var a Activity
		err := rows.Scan(
			&a.ID, &a.UserEmail, &a.UserName, &a.ActivityType, &a.Duration, &a.Distance,
			&a.Calories, &a.Points, &a.Date, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// SumPointsByEmail returns the ledger's point total per participant identity.
// Identities with no matching participant row still appear in the result.
func (db *DB) SumPointsByEmail(emails []string) (map[string]int, error) {
	query := `SELECT user_email, COALESCE(SUM(points), 0) FROM activities`
	var args []interface{}

	if len(emails) > 0 {
		query += " WHERE user_email IN (?" + repeatPlaceholder(len(emails)-1) + ")"
		for _, email := range emails {
			args = append(args, email)
		}
	}
	query += " GROUP BY user_email"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum points: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var email string
		var points int
		if err := rows.Scan(&email, &points); err != nil {
			return nil, fmt.Errorf("failed to scan point total: %w", err)
		}
		totals[email] = points
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating point totals: %w", err)
	}

	return totals, nil
}

// CountActivities returns the total number of ledger entries
func (db *DB) CountActivities() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

// repeatPlaceholder returns n occurrences of ", ?"
func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
