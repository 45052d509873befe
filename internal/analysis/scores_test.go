package analysis

import (
	"testing"
	"time"

	"fitcore/internal/store"
)

func TestActivityScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  store.DailyMetrics
		stepGoal int
		expected int
	}{
		{
			name:     "goal met on both axes",
			metrics:  store.DailyMetrics{StepCount: 10000, ActiveMinutes: 30},
			stepGoal: 10000,
			expected: 100,
		},
		{
			name:     "half of both",
			metrics:  store.DailyMetrics{StepCount: 5000, ActiveMinutes: 15},
			stepGoal: 10000,
			expected: 50,
		},
		{
			name:     "overshoot capped",
			metrics:  store.DailyMetrics{StepCount: 30000, ActiveMinutes: 120},
			stepGoal: 10000,
			expected: 100,
		},
		{
			name:     "all zero",
			metrics:  store.DailyMetrics{},
			stepGoal: 10000,
			expected: 0,
		},
		{
			name:     "zero goal falls back to default",
			metrics:  store.DailyMetrics{StepCount: 10000, ActiveMinutes: 30},
			stepGoal: 0,
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActivityScore(tt.metrics, tt.stepGoal); got != tt.expected {
				t.Errorf("ActivityScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSleepScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  store.DailyMetrics
		expected int
	}{
		{
			name: "textbook night",
			metrics: store.DailyMetrics{
				SleepHours:     8,
				DeepSleepHours: 1.6, // 20%
				RemSleepHours:  1.8, // 22.5%
				TimeInBed:      8.5, // 94% efficiency
			},
			expected: 100, // 40 + 25 + 20 + 15
		},
		{
			name: "short restless night",
			metrics: store.DailyMetrics{
				SleepHours:     5,
				DeepSleepHours: 0.25, // 5%
				RemSleepHours:  0.5,  // 10%
				TimeInBed:      7,    // 71% efficiency
			},
			expected: 41, // 15 + 10 + 8 + 8
		},
		{
			name: "no time in bed assumes 85 percent efficiency",
			metrics: store.DailyMetrics{
				SleepHours:     7.5,
				DeepSleepHours: 1.5,  // 20%
				RemSleepHours:  1.65, // 22%
			},
			expected: 97, // 40 + 25 + 20 + 12
		},
		{
			name:     "no sleep data",
			metrics:  store.DailyMetrics{},
			expected: 0,
		},
		{
			name: "six hour night",
			metrics: store.DailyMetrics{
				SleepHours:     6,
				DeepSleepHours: 0.66, // 11%
				RemSleepHours:  0.96, // 16%
				TimeInBed:      6.5,  // 92% efficiency
			},
			expected: 78, // 30 + 18 + 15 + 15
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SleepScore(tt.metrics); got != tt.expected {
				t.Errorf("SleepScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHeartScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  store.DailyMetrics
		expected int
	}{
		{
			name:     "athlete heart",
			metrics:  store.DailyMetrics{RestingHeartRate: 55, HRV: 60},
			expected: 100,
		},
		{
			name:     "neither measured is neutral",
			metrics:  store.DailyMetrics{},
			expected: 50,
		},
		{
			name:     "resting HR only",
			metrics:  store.DailyMetrics{RestingHeartRate: 75},
			expected: 60,
		},
		{
			name:     "HRV only low",
			metrics:  store.DailyMetrics{HRV: 20},
			expected: 55,
		},
		{
			name:     "elevated resting HR earns no bonus",
			metrics:  store.DailyMetrics{RestingHeartRate: 90, HRV: 35},
			expected: 65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeartScore(tt.metrics); got != tt.expected {
				t.Errorf("HeartScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRecoveryScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  store.DailyMetrics
		expected int
	}{
		{
			name:     "raw value wins",
			metrics:  store.DailyMetrics{RecoveryScore: 85, HRV: 10, SleepHours: 3},
			expected: 85,
		},
		{
			name:     "fallback from hrv and sleep",
			metrics:  store.DailyMetrics{HRV: 50, SleepHours: 8},
			expected: 100,
		},
		{
			name:     "fallback partial",
			metrics:  store.DailyMetrics{HRV: 25, SleepHours: 4},
			expected: 50,
		},
		{
			name:     "all zero",
			metrics:  store.DailyMetrics{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecoveryScore(tt.metrics); got != tt.expected {
				t.Errorf("RecoveryScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOverallScore(t *testing.T) {
	if got := OverallScore(80, 90, 70, 60); got != 77 {
		t.Errorf("OverallScore(80, 90, 70, 60) = %v, want 77", got)
	}
	if got := OverallScore(0, 0, 0, 0); got != 0 {
		t.Errorf("OverallScore(0, 0, 0, 0) = %v, want 0", got)
	}
	if got := OverallScore(100, 100, 100, 100); got != 100 {
		t.Errorf("OverallScore(100, 100, 100, 100) = %v, want 100", got)
	}
}

// OverallScore must never decrease when a sub-score increases.
func TestOverallScoreMonotonic(t *testing.T) {
	base := OverallScore(50, 50, 50, 50)
	for delta := 1; delta <= 50; delta += 7 {
		if got := OverallScore(50+delta, 50, 50, 50); got < base {
			t.Errorf("OverallScore decreased when activity rose by %d: %v < %v", delta, got, base)
		}
		if got := OverallScore(50, 50+delta, 50, 50); got < base {
			t.Errorf("OverallScore decreased when sleep rose by %d: %v < %v", delta, got, base)
		}
		if got := OverallScore(50, 50, 50+delta, 50); got < base {
			t.Errorf("OverallScore decreased when heart rose by %d: %v < %v", delta, got, base)
		}
		if got := OverallScore(50, 50, 50, 50+delta); got < base {
			t.Errorf("OverallScore decreased when recovery rose by %d: %v < %v", delta, got, base)
		}
	}
}

func TestOverallLabel(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, LabelExcellent},
		{85, LabelExcellent},
		{84, LabelGood},
		{70, LabelGood},
		{69, LabelFair},
		{50, LabelFair},
		{49, LabelNeedsAttention},
		{0, LabelNeedsAttention},
	}
	for _, tt := range tests {
		if got := OverallLabel(tt.score); got != tt.expected {
			t.Errorf("OverallLabel(%d) = %q, want %q", tt.score, got, tt.expected)
		}
	}
}

func TestEnergyBattery(t *testing.T) {
	noon := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	early := time.Date(2025, 6, 30, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		metrics  store.DailyMetrics
		now      time.Time
		expected int
	}{
		{
			name:     "raw device level wins",
			metrics:  store.DailyMetrics{EnergyLevel: 7, SleepHours: 2},
			now:      noon,
			expected: 70,
		},
		{
			name: "full night midday drain",
			metrics: store.DailyMetrics{
				SleepHours:     8,
				ActiveCalories: 200,
				StepCount:      4000,
				HRV:            60,
			},
			now:      noon,
			expected: 84, // 100 - 20 awake - 4 cal - 2 steps + 10 hrv
		},
		{
			name:     "before wake reference no awake drain",
			metrics:  store.DailyMetrics{SleepHours: 8},
			now:      early,
			expected: 100,
		},
		{
			name:     "hard day floors at 5",
			metrics:  store.DailyMetrics{SleepHours: 3, ActiveCalories: 2000, StepCount: 30000},
			now:      noon,
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnergyBattery(tt.metrics, tt.now); got != tt.expected {
				t.Errorf("EnergyBattery() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStressScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  store.DailyMetrics
		expected int
	}{
		{
			name:     "raw device value wins",
			metrics:  store.DailyMetrics{StressLevel: 6, HRV: 80},
			expected: 60,
		},
		{
			name:     "recovered athlete",
			metrics:  store.DailyMetrics{HRV: 60, RestingHeartRate: 55, SleepHours: 8},
			expected: 0, // 30 - 10 - 10 - 10
		},
		{
			name:     "run down",
			metrics:  store.DailyMetrics{HRV: 20, RestingHeartRate: 85, SleepHours: 5},
			expected: 100, // 30 + 40 + 20 + 15, clamped
		},
		{
			name:     "no data leans on missing sleep",
			metrics:  store.DailyMetrics{},
			expected: 45, // 30 + 15 short-sleep adjustment
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StressScore(tt.metrics); got != tt.expected {
				t.Errorf("StressScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStressLabel(t *testing.T) {
	tests := []struct {
		stress   int
		expected string
	}{
		{0, "Calm"},
		{25, "Calm"},
		{26, "Relaxed"},
		{50, "Relaxed"},
		{51, "Moderate"},
		{70, "Moderate"},
		{71, "Elevated"},
		{85, "Elevated"},
		{86, "High"},
		{100, "High"},
	}
	for _, tt := range tests {
		if got := StressLabel(tt.stress); got != tt.expected {
			t.Errorf("StressLabel(%d) = %q, want %q", tt.stress, got, tt.expected)
		}
	}
}

// Every score stays in [0, 100] for arbitrary non-negative input,
// including all-zero records.
func TestScoreBounds(t *testing.T) {
	noon := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	inputs := []store.DailyMetrics{
		{},
		{StepCount: 100000, ActiveMinutes: 600, SleepHours: 14, DeepSleepHours: 7,
			RemSleepHours: 7, TimeInBed: 14, RestingHeartRate: 40, HRV: 150,
			ActiveCalories: 3000, RecoveryScore: 200, StressLevel: 20, EnergyLevel: 20},
		{SleepHours: 0.5, RestingHeartRate: 200, HRV: 1},
	}

	for i, m := range inputs {
		for name, score := range map[string]int{
			"activity": ActivityScore(m, 10000),
			"sleep":    SleepScore(m),
			"heart":    HeartScore(m),
			"recovery": RecoveryScore(m),
			"energy":   EnergyBattery(m, noon),
			"stress":   StressScore(m),
		} {
			if score < 0 || score > 100 {
				t.Errorf("input %d: %s score %d out of [0, 100]", i, name, score)
			}
		}
	}
}
