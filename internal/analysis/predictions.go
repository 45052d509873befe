package analysis

import (
	"math"
	"time"

	"fitcore/internal/store"
)

// Standard race distances in kilometers.
const (
	Distance5K       = 5.0
	Distance10K      = 10.0
	DistanceHalfMara = 21.0975
	DistanceMarathon = 42.195

	// Riegel power-law exponent relating race times across distances.
	riegelExponent = 1.06
)

// Qualifying-run criteria for the reference performance.
const (
	referenceWindowDays = 90
	minReferenceKm      = 3.0
)

// RaceTarget is one projected race distance.
type RaceTarget struct {
	Name       string
	DistanceKm float64
}

// RaceTargets defines the standard projection distances.
var RaceTargets = []RaceTarget{
	{"5K", Distance5K},
	{"10K", Distance10K},
	{"Half Marathon", DistanceHalfMara},
	{"Marathon", DistanceMarathon},
}

// RacePrediction is a projected finish time for one target distance.
type RacePrediction struct {
	Target           RaceTarget
	PredictedSeconds int
	PredictedPace    float64 // sec/km
	Confidence       int     // 0-100
}

// ReferenceRun is the recent performance predictions are projected from.
type ReferenceRun struct {
	WorkoutID  string
	Date       time.Time
	DistanceKm float64
	Seconds    int
}

// SelectReferenceRun picks the best recent qualifying performance: a
// run of at least 3 km with a recorded duration within the last 90
// days, fastest pace winning, longer distance breaking ties. The
// second return is the number of qualifying runs considered, which
// feeds the confidence estimate. Returns nil when nothing qualifies.
func SelectReferenceRun(workouts []store.WorkoutRecord, today time.Time) (*ReferenceRun, int) {
	cutoff := dayStart(today).AddDate(0, 0, -referenceWindowDays)

	var best *ReferenceRun
	var bestPace float64
	count := 0

	for _, w := range workouts {
		if w.Category != store.CategoryRun || w.Distance < minReferenceKm || w.Duration <= 0 {
			continue
		}
		if w.StartTime.Before(cutoff) {
			continue
		}
		count++

		pace := float64(w.Duration) / w.Distance
		better := best == nil ||
			pace < bestPace ||
			(pace == bestPace && w.Distance > best.DistanceKm)
		if better {
			best = &ReferenceRun{
				WorkoutID:  w.ID,
				Date:       w.StartTime,
				DistanceKm: w.Distance,
				Seconds:    w.Duration,
			}
			bestPace = pace
		}
	}
	return best, count
}

// RiegelTime projects the finish time for targetKm from a reference
// performance using T2 = T1 × (D2/D1)^1.06.
func RiegelTime(refKm float64, refSeconds int, targetKm float64) float64 {
	if refKm <= 0 || refSeconds <= 0 || targetKm <= 0 {
		return 0
	}
	return float64(refSeconds) * math.Pow(targetKm/refKm, riegelExponent)
}

// PredictionConfidence scores 0-100 how reliable a projection is. It
// rises with the number of qualifying recent runs and falls with the
// log distance ratio between reference and target, since projecting a
// 5K onto a marathon is far shakier than onto a 10K.
func PredictionConfidence(qualifyingRuns int, refKm, targetKm float64) int {
	if qualifyingRuns <= 0 || refKm <= 0 || targetKm <= 0 {
		return 0
	}
	runs := qualifyingRuns
	if runs > 5 {
		runs = 5
	}
	conf := 40 + 10*float64(runs) - 25*math.Abs(math.Log(targetKm/refKm))

	if conf < 5 {
		conf = 5
	}
	if conf > 95 {
		conf = 95
	}
	return int(math.Round(conf))
}

// PredictRaces projects finish times for all standard distances from
// the best recent qualifying run. Returns nil when no reference run
// exists: absent, not zero.
func PredictRaces(workouts []store.WorkoutRecord, today time.Time) []RacePrediction {
	ref, count := SelectReferenceRun(workouts, today)
	if ref == nil {
		return nil
	}

	predictions := make([]RacePrediction, 0, len(RaceTargets))
	for _, target := range RaceTargets {
		seconds := RiegelTime(ref.DistanceKm, ref.Seconds, target.DistanceKm)
		if seconds <= 0 {
			continue
		}
		predictions = append(predictions, RacePrediction{
			Target:           target,
			PredictedSeconds: int(math.Round(seconds)),
			PredictedPace:    seconds / target.DistanceKm,
			Confidence:       PredictionConfidence(count, ref.DistanceKm, target.DistanceKm),
		})
	}
	return predictions
}
