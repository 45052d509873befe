package analysis

import (
	"math"
	"testing"
	"time"

	"fitcore/internal/store"
)

func floatPtr(f float64) *float64 { return &f }

func TestWorkoutStress(t *testing.T) {
	tests := []struct {
		name     string
		workout  store.WorkoutRecord
		maxHR    int
		expected float64
		delta    float64
	}{
		{
			name: "one hour at threshold is ~100",
			workout: store.WorkoutRecord{
				Category:     store.CategoryRun,
				Duration:     3600,
				AvgHeartRate: floatPtr(0.88 * 185),
			},
			maxHR:    185,
			expected: 100,
			delta:    0.01,
		},
		{
			name: "easy half hour",
			workout: store.WorkoutRecord{
				Category:     store.CategoryRun,
				Duration:     1800,
				AvgHeartRate: floatPtr(120),
			},
			maxHR: 185,
			// IF = 120/162.8 = 0.737, stress = 0.5 * 0.543 * 100
			expected: 27.2,
			delta:    0.2,
		},
		{
			name: "no HR endurance fallback",
			workout: store.WorkoutRecord{
				Category: store.CategoryCycle,
				Duration: 3600,
			},
			maxHR:    185,
			expected: 50,
			delta:    0.01,
		},
		{
			name: "no HR strength fallback",
			workout: store.WorkoutRecord{
				Category: store.CategoryStrength,
				Duration: 1800,
			},
			maxHR:    185,
			expected: 15,
			delta:    0.01,
		},
		{
			name: "intensity factor clamped",
			workout: store.WorkoutRecord{
				Category:     store.CategoryRun,
				Duration:     3600,
				AvgHeartRate: floatPtr(500),
			},
			maxHR:    185,
			expected: 225, // 1 * 1.5^2 * 100
			delta:    0.01,
		},
		{
			name:     "zero duration",
			workout:  store.WorkoutRecord{Category: store.CategoryRun},
			maxHR:    185,
			expected: 0,
			delta:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkoutStress(tt.workout, tt.maxHR)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("WorkoutStress() = %v, want %v (±%v)", got, tt.expected, tt.delta)
			}
		})
	}
}

// Stress must grow with duration and with average heart rate.
func TestWorkoutStressMonotonic(t *testing.T) {
	base := WorkoutStress(store.WorkoutRecord{
		Category: store.CategoryRun, Duration: 3600, AvgHeartRate: floatPtr(140),
	}, 185)

	longer := WorkoutStress(store.WorkoutRecord{
		Category: store.CategoryRun, Duration: 5400, AvgHeartRate: floatPtr(140),
	}, 185)
	if longer <= base {
		t.Errorf("longer workout stress %v not above base %v", longer, base)
	}

	harder := WorkoutStress(store.WorkoutRecord{
		Category: store.CategoryRun, Duration: 3600, AvgHeartRate: floatPtr(160),
	}, 185)
	if harder <= base {
		t.Errorf("harder workout stress %v not above base %v", harder, base)
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name            string
		acute, chronic  float64
		expected        float64
	}{
		{"normal", 700, 500, 1.4},
		{"both zero", 0, 0, 0},
		{"no chronic history reads maximal risk", 300, 0, 2.0},
		{"balanced", 500, 500, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.acute, tt.chronic); math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("Ratio(%v, %v) = %v, want %v", tt.acute, tt.chronic, got, tt.expected)
			}
		})
	}
}

func TestClassifyRatio(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected TrainingStatus
	}{
		{0, StatusUndertraining},
		{0.79, StatusUndertraining},
		{0.80, StatusOptimal},
		{1.30, StatusOptimal},
		{1.31, StatusOverreaching},
		{1.50, StatusOverreaching},
		{1.51, StatusOvertraining},
		{2.0, StatusOvertraining},
	}
	for _, tt := range tests {
		if got := ClassifyRatio(tt.ratio); got != tt.expected {
			t.Errorf("ClassifyRatio(%v) = %v, want %v", tt.ratio, got, tt.expected)
		}
	}
}

func TestAnalyzeLoad(t *testing.T) {
	today := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	run := func(daysAgo int, durationSec int, hr float64) store.WorkoutRecord {
		return store.WorkoutRecord{
			Category:     store.CategoryRun,
			StartTime:    today.AddDate(0, 0, -daysAgo),
			Duration:     durationSec,
			AvgHeartRate: floatPtr(hr),
		}
	}

	t.Run("no history", func(t *testing.T) {
		got := AnalyzeLoad(nil, 185, today)
		if got.Ratio != 0 || got.Status != StatusUndertraining {
			t.Errorf("AnalyzeLoad(nil) = %+v, want zero ratio and Undertraining", got)
		}
	})

	t.Run("sudden start with no chronic base", func(t *testing.T) {
		// All workouts inside the last week also sit inside the 28-day
		// window, so the chronic load is small but nonzero and the
		// ratio spikes: acute = S, chronic = S/4.
		workouts := []store.WorkoutRecord{run(1, 3600, 150), run(3, 3600, 150)}
		got := AnalyzeLoad(workouts, 185, today)
		if math.Abs(got.Ratio-4.0) > 0.01 {
			t.Errorf("Ratio = %v, want 4.0", got.Ratio)
		}
		if got.Status != StatusOvertraining {
			t.Errorf("Status = %v, want %v", got.Status, StatusOvertraining)
		}
		if got.Balance >= 0 {
			t.Errorf("Balance = %v, want negative (loading)", got.Balance)
		}
	})

	t.Run("steady training is optimal", func(t *testing.T) {
		// Identical run every other day: acute ≈ chronic.
		var workouts []store.WorkoutRecord
		for d := 0; d < 28; d += 2 {
			workouts = append(workouts, run(d, 3600, 145))
		}
		got := AnalyzeLoad(workouts, 185, today)
		if got.Status != StatusOptimal {
			t.Errorf("Status = %v (ratio %v), want %v", got.Status, got.Ratio, StatusOptimal)
		}
	})

	t.Run("recommendation follows status", func(t *testing.T) {
		for _, status := range []TrainingStatus{
			StatusUndertraining, StatusOptimal, StatusOverreaching, StatusOvertraining,
		} {
			if Recommendation(status) == "" {
				t.Errorf("Recommendation(%v) is empty", status)
			}
		}
	})
}
