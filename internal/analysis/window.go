package analysis

import (
	"time"

	"fitcore/internal/store"
)

// Field selects one numeric metric from a daily record.
type Field func(m store.DailyMetrics) float64

// Common field selectors for rolling windows.
var (
	FieldSteps         Field = func(m store.DailyMetrics) float64 { return float64(m.StepCount) }
	FieldActiveMinutes Field = func(m store.DailyMetrics) float64 { return float64(m.ActiveMinutes) }
	FieldSleepHours    Field = func(m store.DailyMetrics) float64 { return m.SleepHours }
	FieldRestingHR     Field = func(m store.DailyMetrics) float64 { return float64(m.RestingHeartRate) }
	FieldHRV           Field = func(m store.DailyMetrics) float64 { return m.HRV }
	FieldDistance      Field = func(m store.DailyMetrics) float64 { return m.TotalDistance }
	FieldVO2Max        Field = func(m store.DailyMetrics) float64 { return m.VO2Max }
)

// Average returns the mean of field over the most recent `days` calendar
// days ending at `today` (inclusive). Days with no record are ignored,
// not imputed as zero. Returns 0 if no record falls in the window.
func Average(records []store.DailyMetrics, field Field, days int, today time.Time) float64 {
	if days <= 0 {
		return 0
	}
	end := dayStart(today)
	start := end.AddDate(0, 0, -(days - 1))
	return windowMean(records, field, start, end)
}

// Trend returns the percentage change between the mean of the most
// recent `recentDays` and the mean of the `priorDays` immediately
// preceding them:
//
//	(recentMean - priorMean) / priorMean * 100
//
// Returns 0 when the prior window holds no records (small history) or
// its mean is 0, avoiding division by zero. When invert is set the sign
// is flipped, for metrics where a decrease is an improvement (resting
// heart rate); the magnitude is unchanged.
func Trend(records []store.DailyMetrics, field Field, recentDays, priorDays int, invert bool, today time.Time) float64 {
	if recentDays <= 0 || priorDays <= 0 {
		return 0
	}

	end := dayStart(today)
	recentStart := end.AddDate(0, 0, -(recentDays - 1))
	priorEnd := recentStart.AddDate(0, 0, -1)
	priorStart := priorEnd.AddDate(0, 0, -(priorDays - 1))

	priorMean := windowMean(records, field, priorStart, priorEnd)
	if priorMean == 0 {
		return 0
	}
	recentMean := windowMean(records, field, recentStart, end)

	change := (recentMean - priorMean) / priorMean * 100
	if invert {
		change = -change
	}
	return change
}

// windowMean averages field over records dated within [start, end].
func windowMean(records []store.DailyMetrics, field Field, start, end time.Time) float64 {
	var sum float64
	var count int
	for _, m := range records {
		d := dayStart(m.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		sum += field(m)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// dayStart truncates t to midnight in its own location.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
