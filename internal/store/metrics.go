package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertDailyMetrics inserts or replaces the metrics row for m.Date.
// A same-day correction supersedes the previous row.
func (s *Store) UpsertDailyMetrics(m DailyMetrics) error {
	_, err := s.db.Exec(`
		INSERT INTO daily_metrics (
			date, step_count, active_minutes, active_calories, total_calories,
			total_distance, sleep_hours, deep_sleep_hours, rem_sleep_hours,
			time_in_bed, resting_heart_rate, hrv, blood_oxygen, respiratory_rate,
			vo2_max, workout_count, recovery_score, stress_level, energy_level
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			step_count = excluded.step_count,
			active_minutes = excluded.active_minutes,
			active_calories = excluded.active_calories,
			total_calories = excluded.total_calories,
			total_distance = excluded.total_distance,
			sleep_hours = excluded.sleep_hours,
			deep_sleep_hours = excluded.deep_sleep_hours,
			rem_sleep_hours = excluded.rem_sleep_hours,
			time_in_bed = excluded.time_in_bed,
			resting_heart_rate = excluded.resting_heart_rate,
			hrv = excluded.hrv,
			blood_oxygen = excluded.blood_oxygen,
			respiratory_rate = excluded.respiratory_rate,
			vo2_max = excluded.vo2_max,
			workout_count = excluded.workout_count,
			recovery_score = excluded.recovery_score,
			stress_level = excluded.stress_level,
			energy_level = excluded.energy_level,
			updated_at = CURRENT_TIMESTAMP`,
		m.Date.Format(dateKey), m.StepCount, m.ActiveMinutes, m.ActiveCalories,
		m.TotalCalories, m.TotalDistance, m.SleepHours, m.DeepSleepHours,
		m.RemSleepHours, m.TimeInBed, m.RestingHeartRate, m.HRV, m.BloodOxygen,
		m.RespiratoryRate, m.VO2Max, m.WorkoutCount, m.RecoveryScore,
		m.StressLevel, m.EnergyLevel,
	)
	if err != nil {
		return fmt.Errorf("upserting daily metrics: %w", err)
	}
	return nil
}

// GetDailyMetrics returns the metrics row for the given calendar day.
func (s *Store) GetDailyMetrics(date time.Time) (*DailyMetrics, error) {
	row := s.db.QueryRow(selectDailyMetrics+` WHERE date = ?`, date.Format(dateKey))
	m, err := scanDailyMetrics(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMetricsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting daily metrics: %w", err)
	}
	return m, nil
}

// ListDailyMetrics returns all rows in [from, to], ascending by date.
// Days with no record are simply absent.
func (s *Store) ListDailyMetrics(from, to time.Time) ([]DailyMetrics, error) {
	rows, err := s.db.Query(selectDailyMetrics+` WHERE date >= ? AND date <= ? ORDER BY date`,
		from.Format(dateKey), to.Format(dateKey))
	if err != nil {
		return nil, fmt.Errorf("listing daily metrics: %w", err)
	}
	defer rows.Close()

	var out []DailyMetrics
	for rows.Next() {
		m, err := scanDailyMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning daily metrics: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

const selectDailyMetrics = `
	SELECT date, step_count, active_minutes, active_calories, total_calories,
		total_distance, sleep_hours, deep_sleep_hours, rem_sleep_hours,
		time_in_bed, resting_heart_rate, hrv, blood_oxygen, respiratory_rate,
		vo2_max, workout_count, recovery_score, stress_level, energy_level
	FROM daily_metrics`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDailyMetrics(row rowScanner) (*DailyMetrics, error) {
	var m DailyMetrics
	var date string
	err := row.Scan(&date, &m.StepCount, &m.ActiveMinutes, &m.ActiveCalories,
		&m.TotalCalories, &m.TotalDistance, &m.SleepHours, &m.DeepSleepHours,
		&m.RemSleepHours, &m.TimeInBed, &m.RestingHeartRate, &m.HRV,
		&m.BloodOxygen, &m.RespiratoryRate, &m.VO2Max, &m.WorkoutCount,
		&m.RecoveryScore, &m.StressLevel, &m.EnergyLevel)
	if err != nil {
		return nil, err
	}
	m.Date, err = time.Parse(dateKey, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return &m, nil
}
