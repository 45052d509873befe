package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertWorkout stores a workout summary. Workouts are immutable;
// inserting an existing id is an error.
func (s *Store) InsertWorkout(w WorkoutRecord) error {
	if w.Category == "" {
		w.Category = Categorize(w.Type)
	}
	_, err := s.db.Exec(`
		INSERT INTO workouts (
			id, start_time, type, category, duration, distance, calories,
			avg_heart_rate, max_heart_rate, cadence, pace, elevation_gain,
			route_polyline, stride_length, ground_contact_time,
			vertical_oscillation, power, asymmetry, ground_contact_balance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.StartTime.UTC().Format(time.RFC3339), w.Type, string(w.Category),
		w.Duration, w.Distance, w.Calories, w.AvgHeartRate, w.MaxHeartRate,
		w.Cadence, w.Pace, w.ElevationGain, w.RoutePolyline, w.StrideLength,
		w.GroundContactTime, w.VerticalOscillation, w.Power, w.Asymmetry,
		w.GroundContactBal,
	)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}
	return nil
}

// GetWorkout returns a single workout by id.
func (s *Store) GetWorkout(id string) (*WorkoutRecord, error) {
	row := s.db.QueryRow(selectWorkout+` WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting workout: %w", err)
	}
	return w, nil
}

// ListWorkoutsSince returns all workouts starting at or after t,
// ascending by start time.
func (s *Store) ListWorkoutsSince(t time.Time) ([]WorkoutRecord, error) {
	rows, err := s.db.Query(selectWorkout+` WHERE start_time >= ? ORDER BY start_time`,
		t.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

// ListWorkouts returns all stored workouts ascending by start time.
func (s *Store) ListWorkouts() ([]WorkoutRecord, error) {
	rows, err := s.db.Query(selectWorkout + ` ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

// InsertSplits stores the ordered split sequence for a workout.
func (s *Store) InsertSplits(splits []RunSplit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sp := range splits {
		if _, err := tx.Exec(`
			INSERT INTO run_splits (workout_id, split_index, distance, pace, avg_heart_rate, cadence)
			VALUES (?, ?, ?, ?, ?, ?)`,
			sp.WorkoutID, sp.Index, sp.Distance, sp.Pace, sp.AvgHeartRate, sp.Cadence,
		); err != nil {
			return fmt.Errorf("inserting split %d: %w", sp.Index, err)
		}
	}
	return tx.Commit()
}

// ListSplits returns the ordered splits for a workout.
func (s *Store) ListSplits(workoutID string) ([]RunSplit, error) {
	rows, err := s.db.Query(`
		SELECT workout_id, split_index, distance, pace, avg_heart_rate, cadence
		FROM run_splits WHERE workout_id = ? ORDER BY split_index`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("listing splits: %w", err)
	}
	defer rows.Close()

	var out []RunSplit
	for rows.Next() {
		var sp RunSplit
		if err := rows.Scan(&sp.WorkoutID, &sp.Index, &sp.Distance, &sp.Pace,
			&sp.AvgHeartRate, &sp.Cadence); err != nil {
			return nil, fmt.Errorf("scanning split: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

const selectWorkout = `
	SELECT id, start_time, type, category, duration, distance, calories,
		avg_heart_rate, max_heart_rate, cadence, pace, elevation_gain,
		route_polyline, stride_length, ground_contact_time,
		vertical_oscillation, power, asymmetry, ground_contact_balance
	FROM workouts`

func scanWorkout(row rowScanner) (*WorkoutRecord, error) {
	var w WorkoutRecord
	var start, category string
	err := row.Scan(&w.ID, &start, &w.Type, &category, &w.Duration, &w.Distance,
		&w.Calories, &w.AvgHeartRate, &w.MaxHeartRate, &w.Cadence, &w.Pace,
		&w.ElevationGain, &w.RoutePolyline, &w.StrideLength, &w.GroundContactTime,
		&w.VerticalOscillation, &w.Power, &w.Asymmetry, &w.GroundContactBal)
	if err != nil {
		return nil, err
	}
	w.Category = WorkoutCategory(category)
	w.StartTime, err = time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("parsing start time %q: %w", start, err)
	}
	return &w, nil
}

func collectWorkouts(rows *sql.Rows) ([]WorkoutRecord, error) {
	var out []WorkoutRecord
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}
