package analysis

import (
	"math"
	"time"

	"fitcore/internal/store"
)

// Acute:chronic workload windows.
const (
	AcuteWindowDays   = 7
	ChronicWindowDays = 28

	// Lactate threshold assumed at 88% of max HR; an hour at threshold
	// scores ~100 stress points.
	thresholdHRFraction = 0.88
	maxIntensityFactor  = 1.5

	// Hourly stress fallbacks for workouts without heart rate data.
	fallbackEnduranceStress = 50
	fallbackOtherStress     = 30
)

// TrainingStatus classifies the acute:chronic workload ratio.
type TrainingStatus string

const (
	StatusUndertraining TrainingStatus = "Undertraining"
	StatusOptimal       TrainingStatus = "Optimal"
	StatusOverreaching  TrainingStatus = "Overreaching"
	StatusOvertraining  TrainingStatus = "Overtraining"
)

// LoadSummary holds the derived training-load state for a day.
type LoadSummary struct {
	AcuteLoad      float64 // trailing 7-day stress sum
	ChronicLoad    float64 // trailing 28-day daily average, weekly-equivalent
	Ratio          float64 // ACWR
	Balance        float64 // chronic - acute; positive means tapering
	Status         TrainingStatus
	Recommendation string
}

// WorkoutStress estimates a training-stress score for one workout:
//
//	stress = durationHours × IF² × 100
//	IF     = avgHR / (0.88 × maxHR)
//
// so an hour at lactate threshold scores ~100. IF is clamped to
// [0, 1.5]. Workouts without heart rate fall back to a flat hourly
// rate: 50 for endurance categories (run/cycle/swim), 30 otherwise.
func WorkoutStress(w store.WorkoutRecord, maxHR int) float64 {
	if w.Duration <= 0 {
		return 0
	}
	if maxHR <= 0 {
		maxHR = 185
	}
	hours := float64(w.Duration) / 3600

	if w.AvgHeartRate == nil || *w.AvgHeartRate <= 0 {
		switch w.Category {
		case store.CategoryRun, store.CategoryCycle, store.CategorySwim:
			return hours * fallbackEnduranceStress
		default:
			return hours * fallbackOtherStress
		}
	}

	intensity := *w.AvgHeartRate / (thresholdHRFraction * float64(maxHR))
	if intensity < 0 {
		intensity = 0
	}
	if intensity > maxIntensityFactor {
		intensity = maxIntensityFactor
	}
	return hours * intensity * intensity * 100
}

// AcuteLoad sums per-workout stress over the trailing 7 days ending at
// today (inclusive).
func AcuteLoad(workouts []store.WorkoutRecord, maxHR int, today time.Time) float64 {
	return windowStress(workouts, maxHR, today, AcuteWindowDays)
}

// ChronicLoad is the trailing 28-day average daily stress expressed on
// the same weekly scale as the acute load (average daily stress × 7).
func ChronicLoad(workouts []store.WorkoutRecord, maxHR int, today time.Time) float64 {
	total := windowStress(workouts, maxHR, today, ChronicWindowDays)
	return total / ChronicWindowDays * 7
}

// Ratio computes the acute:chronic workload ratio. A zero chronic load
// with zero acute load is 0 (no training at all); a zero chronic load
// with any acute load reads as 2.0, maximal risk, rather than dividing
// by zero.
func Ratio(acute, chronic float64) float64 {
	if chronic == 0 {
		if acute == 0 {
			return 0
		}
		return 2.0
	}
	return acute / chronic
}

// ClassifyRatio maps an ACWR to its training status band. Lower bounds
// are inclusive.
func ClassifyRatio(ratio float64) TrainingStatus {
	switch {
	case ratio < 0.8:
		return StatusUndertraining
	case ratio <= 1.3:
		return StatusOptimal
	case ratio <= 1.5:
		return StatusOverreaching
	default:
		return StatusOvertraining
	}
}

// Recommendation returns coaching guidance for a training status.
func Recommendation(status TrainingStatus) string {
	switch status {
	case StatusUndertraining:
		return "Training load is low - gradually increase volume to build fitness"
	case StatusOptimal:
		return "Load is well balanced - maintain current training"
	case StatusOverreaching:
		return "Load is ramping quickly - hold volume steady and watch recovery"
	case StatusOvertraining:
		return "Load is spiking - reduce volume and prioritize recovery"
	default:
		return ""
	}
}

// AnalyzeLoad derives the full training-load state from the workout
// history as of today.
func AnalyzeLoad(workouts []store.WorkoutRecord, maxHR int, today time.Time) LoadSummary {
	acute := AcuteLoad(workouts, maxHR, today)
	chronic := ChronicLoad(workouts, maxHR, today)
	ratio := Ratio(acute, chronic)
	status := ClassifyRatio(ratio)

	return LoadSummary{
		AcuteLoad:      math.Round(acute*10) / 10,
		ChronicLoad:    math.Round(chronic*10) / 10,
		Ratio:          math.Round(ratio*100) / 100,
		Balance:        math.Round((chronic-acute)*10) / 10,
		Status:         status,
		Recommendation: Recommendation(status),
	}
}

// windowStress sums stress for workouts within the trailing `days`
// calendar days ending at today (inclusive).
func windowStress(workouts []store.WorkoutRecord, maxHR int, today time.Time, days int) float64 {
	end := dayStart(today).AddDate(0, 0, 1) // exclusive
	start := end.AddDate(0, 0, -days)

	var total float64
	for _, w := range workouts {
		if w.StartTime.Before(start) || !w.StartTime.Before(end) {
			continue
		}
		total += WorkoutStress(w, maxHR)
	}
	return total
}
