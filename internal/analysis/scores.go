package analysis

import (
	"math"
	"time"

	"fitcore/internal/store"
)

// Score labels for the overall composite.
const (
	LabelExcellent      = "Excellent"
	LabelGood           = "Good"
	LabelFair           = "Fair"
	LabelNeedsAttention = "Needs Attention"
)

// Overall score weights. Must sum to 1.
const (
	weightActivity = 0.25
	weightSleep    = 0.30
	weightHeart    = 0.25
	weightRecovery = 0.20
)

// wakeReferenceHour anchors the energy battery's hours-awake drain.
const wakeReferenceHour = 7

// ActivityScore rates daily movement 0-100: up to 50 points for step
// goal progress and up to 50 for active minutes against a 30-minute
// baseline.
func ActivityScore(m store.DailyMetrics, stepGoal int) int {
	if stepGoal <= 0 {
		stepGoal = 10000
	}
	stepPoints := math.Min(float64(m.StepCount)/float64(stepGoal)*50, 50)
	activePoints := math.Min(float64(m.ActiveMinutes)/30*50, 50)
	return int(math.Round(stepPoints + activePoints))
}

// SleepScore rates sleep 0-100 from duration, deep and REM stage
// shares, and efficiency (time asleep vs time in bed). Returns 0 when
// no sleep was recorded.
func SleepScore(m store.DailyMetrics) int {
	if m.SleepHours == 0 {
		return 0
	}

	durationScore := 15
	switch {
	case m.SleepHours >= 7 && m.SleepHours <= 9:
		durationScore = 40
	case m.SleepHours >= 6:
		durationScore = 30
	}

	deepRatio := m.DeepSleepHours / m.SleepHours
	deepScore := 10
	switch {
	case deepRatio >= 0.15 && deepRatio <= 0.25:
		deepScore = 25
	case deepRatio >= 0.10:
		deepScore = 18
	}

	remRatio := m.RemSleepHours / m.SleepHours
	remScore := 8
	switch {
	case remRatio >= 0.20 && remRatio <= 0.25:
		remScore = 20
	case remRatio >= 0.15:
		remScore = 15
	}

	// Without a time-in-bed reading assume a typical 85% efficiency.
	efficiency := 0.85
	if m.TimeInBed > 0 {
		efficiency = m.SleepHours / m.TimeInBed
	}
	efficiencyScore := 8
	switch {
	case efficiency >= 0.90:
		efficiencyScore = 15
	case efficiency >= 0.85:
		efficiencyScore = 12
	}

	return clampScore(durationScore + deepScore + remScore + efficiencyScore)
}

// HeartScore rates cardiovascular state 0-100 from resting heart rate
// and HRV. With neither measured it returns a neutral 50.
func HeartScore(m store.DailyMetrics) int {
	score := 50

	if m.RestingHeartRate > 0 {
		switch {
		case m.RestingHeartRate <= 60:
			score += 25
		case m.RestingHeartRate <= 70:
			score += 20
		case m.RestingHeartRate <= 80:
			score += 10
		}
	}

	if m.HRV > 0 {
		switch {
		case m.HRV >= 50:
			score += 25
		case m.HRV >= 30:
			score += 15
		default:
			score += 5
		}
	}

	return clampScore(score)
}

// RecoveryScore returns the externally measured recovery value when
// present, otherwise estimates one from HRV and sleep duration.
func RecoveryScore(m store.DailyMetrics) int {
	if m.RecoveryScore > 0 {
		return clampScore(int(math.Round(m.RecoveryScore)))
	}
	hrvPoints := math.Min(m.HRV/50*50, 50)
	sleepPoints := math.Min(m.SleepHours/8*50, 50)
	return int(math.Round(hrvPoints + sleepPoints))
}

// OverallScore combines the four sub-scores with fixed weights.
func OverallScore(activity, sleep, heart, recovery int) int {
	overall := weightActivity*float64(activity) +
		weightSleep*float64(sleep) +
		weightHeart*float64(heart) +
		weightRecovery*float64(recovery)
	return clampScore(int(math.Round(overall)))
}

// OverallLabel maps an overall score to its display band.
func OverallLabel(score int) string {
	switch {
	case score >= 85:
		return LabelExcellent
	case score >= 70:
		return LabelGood
	case score >= 50:
		return LabelFair
	default:
		return LabelNeedsAttention
	}
}

// EnergyBattery estimates remaining energy 0-100 for the day. A raw
// device-reported level (0-10) wins when present; otherwise the battery
// charges with sleep and drains with hours awake, active calories, and
// steps, with a small HRV bonus. Floor of 5: the battery never reads
// fully empty.
func EnergyBattery(m store.DailyMetrics, now time.Time) int {
	if m.EnergyLevel > 0 {
		return clampScore(int(math.Round(m.EnergyLevel * 10)))
	}

	battery := math.Min(100, m.SleepHours/8*100)

	wake := time.Date(now.Year(), now.Month(), now.Day(), wakeReferenceHour, 0, 0, 0, now.Location())
	if now.After(wake) {
		battery -= now.Sub(wake).Hours() * 4
	}

	battery -= m.ActiveCalories/50 + float64(m.StepCount)/2000

	if m.HRV > 50 {
		battery += 10
	}

	if battery < 5 {
		battery = 5
	}
	if battery > 100 {
		battery = 100
	}
	return int(math.Round(battery))
}

// StressScore estimates physiological stress 0-100. A raw device value
// (0-10) wins when present; otherwise HRV, resting HR, and sleep nudge
// a neutral baseline of 30.
func StressScore(m store.DailyMetrics) int {
	if m.StressLevel > 0 {
		return clampScore(int(math.Round(m.StressLevel * 10)))
	}

	stress := 30

	if m.HRV > 0 {
		switch {
		case m.HRV < 25:
			stress += 40
		case m.HRV < 40:
			stress += 25
		case m.HRV < 50:
			stress += 10
		default:
			stress -= 10
		}
	}

	if m.RestingHeartRate > 0 {
		switch {
		case m.RestingHeartRate > 80:
			stress += 20
		case m.RestingHeartRate > 70:
			stress += 10
		case m.RestingHeartRate < 60:
			stress -= 10
		}
	}

	switch {
	case m.SleepHours < 6:
		stress += 15
	case m.SleepHours > 7:
		stress -= 10
	}

	return clampScore(stress)
}

// StressLabel maps a stress score to its display band.
func StressLabel(stress int) string {
	switch {
	case stress <= 25:
		return "Calm"
	case stress <= 50:
		return "Relaxed"
	case stress <= 70:
		return "Moderate"
	case stress <= 85:
		return "Elevated"
	default:
		return "High"
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
