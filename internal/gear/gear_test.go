package gear

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitcore/internal/store"
)

var purchased = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestAssignRunFullDistanceToEach(t *testing.T) {
	l := NewLedger(nil)
	a := l.Add("Pegasus", 800, 0, purchased, true)
	b := l.Add("Treadmill belt", 2000, 0, purchased, false)

	updated, err := l.AssignRun("run-1", 10, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	// Each selected item receives the full distance; it is not split.
	gotA, _ := l.Get(a.ID)
	gotB, _ := l.Get(b.ID)
	assert.Equal(t, 10.0, gotA.TotalMileage)
	assert.Equal(t, 10.0, gotB.TotalMileage)
	assert.Equal(t, []string{"run-1"}, gotA.RunIDs)
}

func TestAssignRunDefaultFallback(t *testing.T) {
	l := NewLedger(nil)
	l.Add("Old shoe", 800, 650, purchased, false)
	def := l.Add("Daily trainer", 800, 0, purchased, true)

	updated, err := l.AssignRun("run-2", 8, nil)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, def.ID, updated[0].ID)
	assert.Equal(t, 8.0, updated[0].TotalMileage)
}

func TestAssignRunRejections(t *testing.T) {
	l := NewLedger(nil)
	a := l.Add("Racer", 400, 0, purchased, false)
	require.NoError(t, l.Retire(a.ID))

	t.Run("retired gear", func(t *testing.T) {
		_, err := l.AssignRun("run-3", 5, []string{a.ID})
		assert.ErrorIs(t, err, ErrGearRetired)
		got, _ := l.Get(a.ID)
		assert.Zero(t, got.TotalMileage, "rejected op must not mutate")
	})

	t.Run("unknown gear", func(t *testing.T) {
		_, err := l.AssignRun("run-3", 5, []string{"nope"})
		assert.ErrorIs(t, err, ErrGearNotFound)
	})

	t.Run("no default", func(t *testing.T) {
		_, err := l.AssignRun("run-3", 5, nil)
		assert.ErrorIs(t, err, ErrNoDefaultGear)
	})
}

func TestSetDefaultExclusive(t *testing.T) {
	l := NewLedger(nil)
	a := l.Add("A", 800, 0, purchased, true)
	b := l.Add("B", 800, 0, purchased, false)

	require.NoError(t, l.SetDefault(b.ID))

	gotA, _ := l.Get(a.ID)
	gotB, _ := l.Get(b.ID)
	assert.False(t, gotA.IsDefault, "previous default must be unset")
	assert.True(t, gotB.IsDefault)
}

func TestRetireClearsDefaultKeepsMileage(t *testing.T) {
	l := NewLedger(nil)
	a := l.Add("A", 800, 100, purchased, true)
	_, err := l.AssignRun("run-4", 12, []string{a.ID})
	require.NoError(t, err)

	require.NoError(t, l.Retire(a.ID))

	got, _ := l.Get(a.ID)
	assert.True(t, got.IsRetired)
	assert.False(t, got.IsDefault)
	assert.Equal(t, 112.0, got.TotalMileage, "mileage history preserved")
}

func TestCorrectMileage(t *testing.T) {
	l := NewLedger(nil)
	a := l.Add("A", 800, 100, purchased, false)

	require.NoError(t, l.CorrectMileage(a.ID, 250))
	got, _ := l.Get(a.ID)
	assert.Equal(t, 250.0, got.TotalMileage)

	err := l.CorrectMileage(a.ID, 50)
	assert.ErrorIs(t, err, ErrInvalidMileage)
}

func TestWear(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		target     float64
		wantPct    float64
		wantStatus string
	}{
		{"new", 0, 800, 0, WearFresh},
		{"fresh", 400, 800, 50, WearFresh},
		{"good", 500, 800, 62.5, WearGood},
		{"worn", 720, 800, 90, WearWorn},
		{"at target", 800, 800, 100, WearWorn},
		{"past target capped", 900, 800, 100, WearReplace},
		{"no target", 500, 0, 0, WearFresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := store.GearItem{TotalMileage: tt.total, TargetMileage: tt.target}
			assert.Equal(t, tt.wantPct, WearPercent(item))
			assert.Equal(t, tt.wantStatus, WearStatus(item))
		})
	}
}

func TestLedgerRestoresPersistedItems(t *testing.T) {
	items := []store.GearItem{
		{ID: "g1", Name: "A", TotalMileage: 300, TargetMileage: 800, IsDefault: true},
		{ID: "g2", Name: "B", TotalMileage: 50, TargetMileage: 800},
	}
	l := NewLedger(items)

	updated, err := l.AssignRun("run-5", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "g1", updated[0].ID)
	assert.Equal(t, 305.0, updated[0].TotalMileage)
}
