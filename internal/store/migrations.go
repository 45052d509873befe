package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Daily biometrics (one row per calendar day, superseded in place)
		`CREATE TABLE IF NOT EXISTS daily_metrics (
			date TEXT PRIMARY KEY,
			step_count INTEGER NOT NULL DEFAULT 0,
			active_minutes INTEGER NOT NULL DEFAULT 0,
			active_calories REAL NOT NULL DEFAULT 0,
			total_calories REAL NOT NULL DEFAULT 0,
			total_distance REAL NOT NULL DEFAULT 0,
			sleep_hours REAL NOT NULL DEFAULT 0,
			deep_sleep_hours REAL NOT NULL DEFAULT 0,
			rem_sleep_hours REAL NOT NULL DEFAULT 0,
			time_in_bed REAL NOT NULL DEFAULT 0,
			resting_heart_rate INTEGER NOT NULL DEFAULT 0,
			hrv REAL NOT NULL DEFAULT 0,
			blood_oxygen REAL NOT NULL DEFAULT 0,
			respiratory_rate REAL NOT NULL DEFAULT 0,
			vo2_max REAL NOT NULL DEFAULT 0,
			workout_count INTEGER NOT NULL DEFAULT 0,
			recovery_score REAL NOT NULL DEFAULT 0,
			stress_level REAL NOT NULL DEFAULT 0,
			energy_level REAL NOT NULL DEFAULT 0,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Workout summaries (immutable once recorded)
		`CREATE TABLE IF NOT EXISTS workouts (
			id TEXT PRIMARY KEY,
			start_time TEXT NOT NULL,
			type TEXT NOT NULL,
			category TEXT NOT NULL,
			duration INTEGER NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			calories REAL NOT NULL DEFAULT 0,
			avg_heart_rate REAL,
			max_heart_rate REAL,
			cadence REAL,
			pace REAL NOT NULL DEFAULT 0,
			elevation_gain REAL NOT NULL DEFAULT 0,
			route_polyline TEXT NOT NULL DEFAULT '',
			stride_length REAL,
			ground_contact_time REAL,
			vertical_oscillation REAL,
			power REAL,
			asymmetry REAL,
			ground_contact_balance REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_start_time ON workouts(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_category ON workouts(category)`,

		// Per-kilometer splits
		`CREATE TABLE IF NOT EXISTS run_splits (
			workout_id TEXT NOT NULL,
			split_index INTEGER NOT NULL,
			distance REAL NOT NULL,
			pace REAL NOT NULL,
			avg_heart_rate REAL,
			cadence REAL,
			PRIMARY KEY (workout_id, split_index),
			FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
		)`,

		// Gear registry
		`CREATE TABLE IF NOT EXISTS gear (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			purchase_date TEXT NOT NULL,
			initial_mileage REAL NOT NULL DEFAULT 0,
			total_mileage REAL NOT NULL DEFAULT 0,
			target_mileage REAL NOT NULL DEFAULT 0,
			is_default INTEGER NOT NULL DEFAULT 0,
			is_retired INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Runs attributed to gear (idempotent per pair)
		`CREATE TABLE IF NOT EXISTS gear_runs (
			gear_id TEXT NOT NULL,
			workout_id TEXT NOT NULL,
			PRIMARY KEY (gear_id, workout_id),
			FOREIGN KEY (gear_id) REFERENCES gear(id) ON DELETE CASCADE
		)`,

		// Run streak ledger (singleton row)
		`CREATE TABLE IF NOT EXISTS streak_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			weekly_streak INTEGER NOT NULL DEFAULT 0,
			freeze_available INTEGER NOT NULL DEFAULT 1,
			last_freeze_reset TEXT NOT NULL DEFAULT '',
			last_qualifying_date TEXT NOT NULL DEFAULT '',
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
