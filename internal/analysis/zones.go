package analysis

import (
	"math"

	"fitcore/internal/store"
)

// ZoneCount is the number of heart rate intensity zones.
const ZoneCount = 5

// zoneFloors are the lower-bound fractions of max HR for zones 2-4;
// anything below the first floor is zone 1, anything above 90% zone 5.
var zoneFloors = []float64{0.6, 0.7, 0.8}

// ZoneLabels names the five intensity zones.
var ZoneLabels = [ZoneCount]string{"Recovery", "Fat Burn", "Aerobic", "Threshold", "VO2 Max"}

// ZoneBreakdown is the time-in-zone aggregation for one workout.
type ZoneBreakdown struct {
	Durations    [ZoneCount]float64 // seconds per zone, summing to TotalSeconds
	Percent      [ZoneCount]float64 // share of total duration, 0-100
	TotalSeconds float64
	CurrentZone  int // 1-based zone of the average heart rate, 0 if unknown
}

// ZoneForHeartRate returns the 1-based zone for a heart rate given an
// estimated max: <60% is zone 1, 60-70% zone 2, 70-80% zone 3, 80-90%
// zone 4, strictly above 90% zone 5. Returns 0 when either input is
// missing.
func ZoneForHeartRate(hr float64, maxHR int) int {
	if hr <= 0 || maxHR <= 0 {
		return 0
	}
	fraction := hr / float64(maxHR)
	if fraction > 0.9 {
		return 5
	}
	zone := 1
	for _, floor := range zoneFloors {
		if fraction < floor {
			break
		}
		zone++
	}
	return zone
}

// AggregateZones buckets a workout's time into the five intensity
// zones. When per-kilometer splits carry heart rate samples each
// split's duration lands in its own zone; splits without heart rate,
// and any summary time not covered by splits, fall back to the zone of
// the workout's average heart rate. Summary-only workouts place the
// whole duration in that single zone. Zone durations always sum to the
// workout duration (within rounding).
func AggregateZones(w store.WorkoutRecord, splits []store.RunSplit, maxHR int) ZoneBreakdown {
	var b ZoneBreakdown
	b.TotalSeconds = float64(w.Duration)

	avgZone := 0
	if w.AvgHeartRate != nil {
		avgZone = ZoneForHeartRate(*w.AvgHeartRate, maxHR)
	}
	b.CurrentZone = avgZone

	if w.Duration <= 0 {
		return b
	}

	accounted := 0.0
	for _, sp := range splits {
		seconds := sp.Pace * sp.Distance
		if seconds <= 0 {
			continue
		}
		if accounted+seconds > b.TotalSeconds {
			seconds = b.TotalSeconds - accounted
			if seconds <= 0 {
				break
			}
		}

		zone := avgZone
		if sp.AvgHeartRate != nil {
			if z := ZoneForHeartRate(*sp.AvgHeartRate, maxHR); z > 0 {
				zone = z
			}
		}
		if zone > 0 {
			b.Durations[zone-1] += seconds
			accounted += seconds
		}
	}

	// Whatever the splits didn't cover belongs to the average zone.
	if rest := b.TotalSeconds - accounted; rest > 0 && avgZone > 0 {
		b.Durations[avgZone-1] += rest
	}

	for i := range b.Durations {
		b.Percent[i] = math.Round(b.Durations[i]/b.TotalSeconds*1000) / 10
	}
	return b
}
