package service

import (
	"fmt"
	"io"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"fitcore/internal/store"
)

// ImportBatch is the JSON shape produced by the external ingestion
// pipeline: daily aggregates plus workout summaries with optional
// splits.
type ImportBatch struct {
	Daily    []DailyImport   `json:"daily,omitempty"`
	Workouts []WorkoutImport `json:"workouts,omitempty"`
}

// DailyImport is one day's aggregated biometrics.
type DailyImport struct {
	Date             string  `json:"date"` // YYYY-MM-DD
	StepCount        int     `json:"steps"`
	ActiveMinutes    int     `json:"active_minutes"`
	ActiveCalories   float64 `json:"active_calories"`
	TotalCalories    float64 `json:"total_calories"`
	TotalDistance    float64 `json:"total_distance_km"`
	SleepHours       float64 `json:"sleep_hours"`
	DeepSleepHours   float64 `json:"deep_sleep_hours"`
	RemSleepHours    float64 `json:"rem_sleep_hours"`
	TimeInBed        float64 `json:"time_in_bed_hours"`
	RestingHeartRate int     `json:"resting_hr"`
	HRV              float64 `json:"hrv_ms"`
	BloodOxygen      float64 `json:"spo2"`
	RespiratoryRate  float64 `json:"respiratory_rate"`
	VO2Max           float64 `json:"vo2_max"`
	WorkoutCount     int     `json:"workout_count"`
	RecoveryScore    float64 `json:"recovery_score"`
	StressLevel      float64 `json:"stress_level"`
	EnergyLevel      float64 `json:"energy_level"`
}

// WorkoutImport is one workout summary with optional splits.
type WorkoutImport struct {
	ID            string        `json:"id,omitempty"` // generated when absent
	StartTime     time.Time     `json:"start_time"`
	Type          string        `json:"type"`
	Duration      int           `json:"duration_sec"`
	Distance      float64       `json:"distance_km"`
	Calories      float64       `json:"calories"`
	AvgHeartRate  *float64      `json:"avg_hr,omitempty"`
	MaxHeartRate  *float64      `json:"max_hr,omitempty"`
	Cadence       *float64      `json:"cadence,omitempty"`
	Pace          float64       `json:"pace_sec_per_km"`
	ElevationGain float64       `json:"elevation_gain_m"`
	GearIDs       []string      `json:"gear_ids,omitempty"`
	Splits        []SplitImport `json:"splits,omitempty"`
}

// SplitImport is one per-kilometer sample.
type SplitImport struct {
	Distance     float64  `json:"distance_km"`
	Pace         float64  `json:"pace_sec_per_km"`
	AvgHeartRate *float64 `json:"avg_hr,omitempty"`
	Cadence      *float64 `json:"cadence,omitempty"`
}

// ImportResult reports what a batch import accepted and rejected.
type ImportResult struct {
	DaysImported     int
	WorkoutsImported int
	Rejected         []string // human-readable reasons, one per rejected row
}

// Import reads a JSON batch, validates each row's invariants, and
// stores the valid ones. Invalid rows are rejected individually with a
// reason; one bad row does not fail the batch.
func (s *Service) Import(r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}

	var batch ImportBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing import: %w", err)
	}

	result := &ImportResult{}

	for _, d := range batch.Daily {
		metrics, err := d.toMetrics()
		if err != nil {
			result.Rejected = append(result.Rejected, fmt.Sprintf("day %s: %v", d.Date, err))
			continue
		}
		if err := s.store.UpsertDailyMetrics(*metrics); err != nil {
			return result, err
		}
		result.DaysImported++
	}

	// Batches carry no ordering guarantee, but the streak ledger is
	// event-ordered: replay workouts oldest first.
	sort.SliceStable(batch.Workouts, func(i, j int) bool {
		return batch.Workouts[i].StartTime.Before(batch.Workouts[j].StartTime)
	})

	for _, w := range batch.Workouts {
		record, splits, err := w.toRecord()
		if err != nil {
			result.Rejected = append(result.Rejected, fmt.Sprintf("workout %s: %v", w.StartTime.Format("2006-01-02"), err))
			continue
		}
		if err := s.RecordWorkout(*record, splits, w.GearIDs); err != nil {
			return result, err
		}
		result.WorkoutsImported++
	}

	s.log.Info().
		Int("days", result.DaysImported).
		Int("workouts", result.WorkoutsImported).
		Int("rejected", len(result.Rejected)).
		Msg("import finished")

	return result, nil
}

// toMetrics validates a daily row against the data-model invariants:
// counts and durations are non-negative and sleep sub-stages never
// exceed total sleep, which never exceeds time in bed when measured.
func (d DailyImport) toMetrics() (*store.DailyMetrics, error) {
	date, err := time.Parse("2006-01-02", d.Date)
	if err != nil {
		return nil, fmt.Errorf("bad date %q", d.Date)
	}

	for name, v := range map[string]float64{
		"steps":            float64(d.StepCount),
		"active_minutes":   float64(d.ActiveMinutes),
		"active_calories":  d.ActiveCalories,
		"total_calories":   d.TotalCalories,
		"total_distance":   d.TotalDistance,
		"sleep_hours":      d.SleepHours,
		"deep_sleep_hours": d.DeepSleepHours,
		"rem_sleep_hours":  d.RemSleepHours,
		"time_in_bed":      d.TimeInBed,
		"resting_hr":       float64(d.RestingHeartRate),
		"hrv_ms":           d.HRV,
		"workout_count":    float64(d.WorkoutCount),
	} {
		if v < 0 {
			return nil, fmt.Errorf("negative %s", name)
		}
	}
	if d.DeepSleepHours+d.RemSleepHours > d.SleepHours {
		return nil, fmt.Errorf("sleep stages exceed total sleep")
	}
	if d.TimeInBed > 0 && d.SleepHours > d.TimeInBed {
		return nil, fmt.Errorf("sleep exceeds time in bed")
	}

	return &store.DailyMetrics{
		Date:             date,
		StepCount:        d.StepCount,
		ActiveMinutes:    d.ActiveMinutes,
		ActiveCalories:   d.ActiveCalories,
		TotalCalories:    d.TotalCalories,
		TotalDistance:    d.TotalDistance,
		SleepHours:       d.SleepHours,
		DeepSleepHours:   d.DeepSleepHours,
		RemSleepHours:    d.RemSleepHours,
		TimeInBed:        d.TimeInBed,
		RestingHeartRate: d.RestingHeartRate,
		HRV:              d.HRV,
		BloodOxygen:      d.BloodOxygen,
		RespiratoryRate:  d.RespiratoryRate,
		VO2Max:           d.VO2Max,
		WorkoutCount:     d.WorkoutCount,
		RecoveryScore:    d.RecoveryScore,
		StressLevel:      d.StressLevel,
		EnergyLevel:      d.EnergyLevel,
	}, nil
}

func (w WorkoutImport) toRecord() (*store.WorkoutRecord, []store.RunSplit, error) {
	if w.StartTime.IsZero() {
		return nil, nil, fmt.Errorf("missing start time")
	}
	if w.Duration <= 0 {
		return nil, nil, fmt.Errorf("non-positive duration")
	}
	if w.Distance < 0 {
		return nil, nil, fmt.Errorf("negative distance")
	}
	if w.AvgHeartRate != nil && (*w.AvgHeartRate < MinValidHeartRate || *w.AvgHeartRate > MaxValidHeartRate) {
		return nil, nil, fmt.Errorf("implausible avg heart rate %.0f", *w.AvgHeartRate)
	}

	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}

	record := &store.WorkoutRecord{
		ID:            id,
		StartTime:     w.StartTime,
		Type:          w.Type,
		Category:      store.Categorize(w.Type),
		Duration:      w.Duration,
		Distance:      w.Distance,
		Calories:      w.Calories,
		AvgHeartRate:  w.AvgHeartRate,
		MaxHeartRate:  w.MaxHeartRate,
		Cadence:       w.Cadence,
		Pace:          w.Pace,
		ElevationGain: w.ElevationGain,
	}

	splits := make([]store.RunSplit, 0, len(w.Splits))
	for i, sp := range w.Splits {
		if sp.Distance <= 0 || sp.Pace <= 0 {
			return nil, nil, fmt.Errorf("split %d: non-positive distance or pace", i+1)
		}
		splits = append(splits, store.RunSplit{
			WorkoutID:    id,
			Index:        i + 1,
			Distance:     sp.Distance,
			Pace:         sp.Pace,
			AvgHeartRate: sp.AvgHeartRate,
			Cadence:      sp.Cadence,
		})
	}
	return record, splits, nil
}
