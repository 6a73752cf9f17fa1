package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Workout is a static workout suggestion from the reference catalog.
// Catalog rows are not part of the aggregation pipeline.
type Workout struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Duration    int      `json:"duration"`
	Exercises   []string `json:"exercises"`
	Category    string   `json:"category"`
}

// WorkoutFilter controls ListWorkouts
type WorkoutFilter struct {
	Difficulty string
	Category   string
	Search     string // substring match on name, description or category
}

// CreateWorkout inserts a catalog entry
func (db *DB) CreateWorkout(w *Workout) error {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return fmt.Errorf("failed to marshal exercises: %w", err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO workouts (id, name, description, difficulty, duration, exercises, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Name, w.Description, w.Difficulty, w.Duration, string(exercises), w.Category)

	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a catalog entry by ID
func (db *DB) GetWorkout(id string) (*Workout, error) {
	var w Workout
	var exercises string
	err := db.conn.QueryRow(`
		SELECT id, name, description, difficulty, duration, exercises, category
		FROM workouts WHERE id = ?
	`, id).Scan(&w.ID, &w.Name, &w.Description, &w.Difficulty, &w.Duration, &exercises, &w.Category)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}

	if err := json.Unmarshal([]byte(exercises), &w.Exercises); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exercises: %w", err)
	}
	return &w, nil
}

// ListWorkouts returns catalog entries matching the filter, sorted by name
func (db *DB) ListWorkouts(filter WorkoutFilter) ([]*Workout, error) {
	query := `
		SELECT id, name, description, difficulty, duration, exercises, category
		FROM workouts
		WHERE 1=1
	`
	var args []interface{}

	if filter.Difficulty != "" {
		query += " AND difficulty = ?"
		args = append(args, filter.Difficulty)
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		query += " AND (name LIKE ? OR description LIKE ? OR category LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += " ORDER BY name ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*Workout
	for rows.Next() {
		var w Workout
		var exercises string
		err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Difficulty, &w.Duration, &exercises, &w.Category)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		if err := json.Unmarshal([]byte(exercises), &w.Exercises); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exercises: %w", err)
		}
		workouts = append(workouts, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workouts: %w", err)
	}

	return workouts, nil
}
