package store

import (
	"strings"
	"time"
)

// DailyMetrics holds the aggregated biometrics for one calendar day.
// At most one row exists per day; a same-day import supersedes the
// previous row. Zero means "not measured" for the optional fields
// (resting HR, HRV, SpO2, recovery/stress/energy).
type DailyMetrics struct {
	Date             time.Time `db:"date"`
	StepCount        int       `db:"step_count"`
	ActiveMinutes    int       `db:"active_minutes"`
	ActiveCalories   float64   `db:"active_calories"`
	TotalCalories    float64   `db:"total_calories"`
	TotalDistance    float64   `db:"total_distance"` // km
	SleepHours       float64   `db:"sleep_hours"`
	DeepSleepHours   float64   `db:"deep_sleep_hours"`
	RemSleepHours    float64   `db:"rem_sleep_hours"`
	TimeInBed        float64   `db:"time_in_bed"` // hours
	RestingHeartRate int       `db:"resting_heart_rate"`
	HRV              float64   `db:"hrv"`          // ms
	BloodOxygen      float64   `db:"blood_oxygen"` // percent
	RespiratoryRate  float64   `db:"respiratory_rate"`
	VO2Max           float64   `db:"vo2_max"`
	WorkoutCount     int       `db:"workout_count"`
	RecoveryScore    float64   `db:"recovery_score"` // raw, externally supplied
	StressLevel      float64   `db:"stress_level"`   // raw 0-10
	EnergyLevel      float64   `db:"energy_level"`   // raw 0-10
}

// WorkoutCategory is the normalized workout type.
type WorkoutCategory string

const (
	CategoryRun      WorkoutCategory = "run"
	CategoryWalk     WorkoutCategory = "walk"
	CategoryCycle    WorkoutCategory = "cycle"
	CategoryStrength WorkoutCategory = "strength"
	CategorySwim     WorkoutCategory = "swim"
	CategoryYoga     WorkoutCategory = "yoga"
	CategoryOther    WorkoutCategory = "other"
)

// Categorize maps a free-form workout type string to a category.
func Categorize(workoutType string) WorkoutCategory {
	t := strings.ToLower(strings.TrimSpace(workoutType))
	switch {
	case strings.Contains(t, "run"), strings.Contains(t, "jog"):
		return CategoryRun
	case strings.Contains(t, "walk"), strings.Contains(t, "hike"):
		return CategoryWalk
	case strings.Contains(t, "cycl"), strings.Contains(t, "bike"), strings.Contains(t, "ride"), strings.Contains(t, "spin"):
		return CategoryCycle
	case strings.Contains(t, "strength"), strings.Contains(t, "weight"), strings.Contains(t, "lift"), strings.Contains(t, "gym"):
		return CategoryStrength
	case strings.Contains(t, "swim"):
		return CategorySwim
	case strings.Contains(t, "yoga"), strings.Contains(t, "pilates"), strings.Contains(t, "stretch"):
		return CategoryYoga
	default:
		return CategoryOther
	}
}

// WorkoutRecord is one recorded workout summary. Immutable once stored.
type WorkoutRecord struct {
	ID            string          `db:"id"`
	StartTime     time.Time       `db:"start_time"`
	Type          string          `db:"type"`
	Category      WorkoutCategory `db:"category"`
	Duration      int             `db:"duration"` // seconds
	Distance      float64         `db:"distance"` // km, 0 if untracked
	Calories      float64         `db:"calories"`
	AvgHeartRate  *float64        `db:"avg_heart_rate"` // nullable
	MaxHeartRate  *float64        `db:"max_heart_rate"` // nullable
	Cadence       *float64        `db:"cadence"`        // nullable, spm
	Pace          float64         `db:"pace"`           // sec/km, 0 if untracked
	ElevationGain float64         `db:"elevation_gain"` // meters
	RoutePolyline string          `db:"route_polyline"`

	// Running dynamics, nullable (watch-dependent).
	StrideLength        *float64 `db:"stride_length"`         // meters
	GroundContactTime   *float64 `db:"ground_contact_time"`   // ms
	VerticalOscillation *float64 `db:"vertical_oscillation"`  // cm
	Power               *float64 `db:"power"`                 // watts
	Asymmetry           *float64 `db:"asymmetry"`             // percent
	GroundContactBal    *float64 `db:"ground_contact_balance"` // percent left
}

// RunSplit is a per-kilometer sample belonging to one workout. The
// last split of a run may cover a partial kilometer.
type RunSplit struct {
	WorkoutID    string   `db:"workout_id"`
	Index        int      `db:"split_index"` // 1-based
	Distance     float64  `db:"distance"`    // km, <= 1
	Pace         float64  `db:"pace"`        // sec/km
	AvgHeartRate *float64 `db:"avg_heart_rate"`
	Cadence      *float64 `db:"cadence"`
}

// GearItem is one registered piece of gear (typically a shoe).
type GearItem struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	PurchaseDate   time.Time `db:"purchase_date"`
	InitialMileage float64   `db:"initial_mileage"` // km on the gear before registration
	TotalMileage   float64   `db:"total_mileage"`   // km
	TargetMileage  float64   `db:"target_mileage"`  // km, replacement target
	IsDefault      bool      `db:"is_default"`
	IsRetired      bool      `db:"is_retired"`
	RunIDs         []string  // workout ids attributed to this item
}

// StreakState is the persisted run-streak ledger snapshot (singleton row).
type StreakState struct {
	CurrentStreak      int       `db:"current_streak"`
	LongestStreak      int       `db:"longest_streak"`
	WeeklyStreak       int       `db:"weekly_streak"`
	FreezeAvailable    bool      `db:"freeze_available"`
	LastFreezeReset    time.Time `db:"last_freeze_reset"`
	LastQualifyingDate time.Time `db:"last_qualifying_date"` // zero if no run ever logged
}
