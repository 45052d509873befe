package analysis

import (
	"math"
	"testing"

	"fitcore/internal/store"
)

func TestZoneForHeartRate(t *testing.T) {
	const maxHR = 200

	tests := []struct {
		hr       float64
		expected int
	}{
		{100, 1}, // 50%
		{119, 1}, // just under 60%
		{120, 2}, // exactly 60%
		{139, 2},
		{140, 3}, // 70%
		{159, 3},
		{160, 4}, // 80%
		{180, 4}, // exactly 90% stays in threshold; zone 5 is strictly above
		{181, 5},
		{199, 5},
		{0, 0},
	}
	for _, tt := range tests {
		if got := ZoneForHeartRate(tt.hr, maxHR); got != tt.expected {
			t.Errorf("ZoneForHeartRate(%v, %d) = %d, want %d", tt.hr, maxHR, got, tt.expected)
		}
	}

	if got := ZoneForHeartRate(150, 0); got != 0 {
		t.Errorf("ZoneForHeartRate with no max HR = %d, want 0", got)
	}
}

func TestAggregateZonesSummaryOnly(t *testing.T) {
	w := store.WorkoutRecord{
		Duration:     3600,
		AvgHeartRate: floatPtr(150), // 75% of 200 -> zone 3
	}

	b := AggregateZones(w, nil, 200)

	if b.CurrentZone != 3 {
		t.Errorf("CurrentZone = %d, want 3", b.CurrentZone)
	}
	if b.Durations[2] != 3600 {
		t.Errorf("zone 3 duration = %v, want 3600", b.Durations[2])
	}
	if b.Percent[2] != 100 {
		t.Errorf("zone 3 percent = %v, want 100", b.Percent[2])
	}
}

func TestAggregateZonesWithSplits(t *testing.T) {
	w := store.WorkoutRecord{
		Duration:     1500,
		AvgHeartRate: floatPtr(150), // zone 3 at max 200
		Distance:     4.5,
	}
	// 4 full kilometers plus a final partial split; the hard middle
	// kilometers reach zone 4.
	splits := []store.RunSplit{
		{Index: 1, Distance: 1, Pace: 330, AvgHeartRate: floatPtr(140)}, // zone 3
		{Index: 2, Distance: 1, Pace: 320, AvgHeartRate: floatPtr(165)}, // zone 4
		{Index: 3, Distance: 1, Pace: 315, AvgHeartRate: floatPtr(170)}, // zone 4
		{Index: 4, Distance: 1, Pace: 330, AvgHeartRate: floatPtr(145)}, // zone 3
		{Index: 5, Distance: 0.5, Pace: 340, AvgHeartRate: nil},         // falls back to avg zone 3
	}

	b := AggregateZones(w, splits, 200)

	var sum float64
	for _, d := range b.Durations {
		sum += d
	}
	if math.Abs(sum-1500) > 0.5 {
		t.Errorf("zone durations sum to %v, want 1500", sum)
	}

	if b.Durations[3] != 635 { // splits 2 and 3
		t.Errorf("zone 4 duration = %v, want 635", b.Durations[3])
	}
	// Everything else, including the uncovered remainder, is zone 3.
	if b.Durations[2] != 865 {
		t.Errorf("zone 3 duration = %v, want 865", b.Durations[2])
	}
	if b.Durations[0] != 0 || b.Durations[1] != 0 || b.Durations[4] != 0 {
		t.Errorf("unexpected time outside zones 3-4: %v", b.Durations)
	}
}

func TestAggregateZonesNoHeartRate(t *testing.T) {
	w := store.WorkoutRecord{Duration: 1800}
	b := AggregateZones(w, nil, 200)

	if b.CurrentZone != 0 {
		t.Errorf("CurrentZone = %d, want 0 for missing HR", b.CurrentZone)
	}
	for i, d := range b.Durations {
		if d != 0 {
			t.Errorf("zone %d has duration %v without any HR data", i+1, d)
		}
	}
}
