// Package gear tracks run mileage accumulated on registered gear
// (shoes, treadmill belts) and classifies wear. One ledger exists per
// user; mutating events are serialized through its lock and the host
// persists items after each one.
package gear

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitcore/internal/store"
)

// ErrGearNotFound is returned when an id is not registered
var ErrGearNotFound = errors.New("gear item not found")

// ErrGearRetired is returned when an operation targets a retired item
var ErrGearRetired = errors.New("gear item is retired")

// ErrNoDefaultGear is returned when an unassigned run has no default to fall back to
var ErrNoDefaultGear = errors.New("no default gear item")

// ErrInvalidMileage is returned when a correction would drop below the initial mileage
var ErrInvalidMileage = errors.New("total mileage below initial mileage")

// Wear status bands.
const (
	WearFresh   = "Fresh"
	WearGood    = "Good"
	WearWorn    = "Worn"
	WearReplace = "Replace"
)

// Ledger is the stateful per-user gear registry.
type Ledger struct {
	mu    sync.Mutex
	items map[string]*store.GearItem
	order []string // insertion order for stable listings
}

// NewLedger restores a ledger from persisted items.
func NewLedger(items []store.GearItem) *Ledger {
	l := &Ledger{items: make(map[string]*store.GearItem)}
	for i := range items {
		item := items[i]
		l.items[item.ID] = &item
		l.order = append(l.order, item.ID)
	}
	return l
}

// Add registers a new gear item. makeDefault moves the default flag to
// the new item.
func (l *Ledger) Add(name string, targetMileage, initialMileage float64, purchased time.Time, makeDefault bool) store.GearItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := &store.GearItem{
		ID:             uuid.NewString(),
		Name:           name,
		PurchaseDate:   purchased,
		InitialMileage: initialMileage,
		TotalMileage:   initialMileage,
		TargetMileage:  targetMileage,
	}
	if makeDefault {
		l.clearDefault()
		item.IsDefault = true
	}
	l.items[item.ID] = item
	l.order = append(l.order, item.ID)
	return *item
}

// AssignRun adds the run's full distance to every selected active item:
// the distance is not split, matching dual-shoe style tracking. With no
// explicit selection the distance goes to the default item. The whole
// operation is rejected, mutating nothing, when any id is unknown or
// retired, or when no default exists for an unassigned run.
func (l *Ledger) AssignRun(runID string, distance float64, gearIDs []string) ([]store.GearItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var targets []*store.GearItem
	if len(gearIDs) == 0 {
		def := l.defaultItem()
		if def == nil {
			return nil, ErrNoDefaultGear
		}
		targets = append(targets, def)
	} else {
		for _, id := range gearIDs {
			item, ok := l.items[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrGearNotFound, id)
			}
			if item.IsRetired {
				return nil, fmt.Errorf("%w: %s", ErrGearRetired, item.Name)
			}
			targets = append(targets, item)
		}
	}

	updated := make([]store.GearItem, 0, len(targets))
	for _, item := range targets {
		item.TotalMileage += distance
		item.RunIDs = append(item.RunIDs, runID)
		updated = append(updated, *item)
	}
	return updated, nil
}

// SetDefault marks an active item as the default, unsetting the
// previous one. At most one active item is default at a time.
func (l *Ledger) SetDefault(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGearNotFound, id)
	}
	if item.IsRetired {
		return fmt.Errorf("%w: %s", ErrGearRetired, item.Name)
	}

	l.clearDefault()
	item.IsDefault = true
	return nil
}

// Retire takes an item out of rotation. Its default flag is cleared but
// its mileage history is preserved.
func (l *Ledger) Retire(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGearNotFound, id)
	}
	item.IsRetired = true
	item.IsDefault = false
	return nil
}

// CorrectMileage applies a manual total-mileage correction, the one
// permitted non-monotonic change. The new total must still cover the
// initial mileage.
func (l *Ledger) CorrectMileage(id string, total float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGearNotFound, id)
	}
	if total < item.InitialMileage {
		return fmt.Errorf("%w: %.1f < %.1f", ErrInvalidMileage, total, item.InitialMileage)
	}
	item.TotalMileage = total
	return nil
}

// Items returns all items in registration order.
func (l *Ledger) Items() []store.GearItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]store.GearItem, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.items[id])
	}
	return out
}

// Get returns a single item by id.
func (l *Ledger) Get(id string) (store.GearItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return store.GearItem{}, fmt.Errorf("%w: %s", ErrGearNotFound, id)
	}
	return *item, nil
}

// WearPercent reports how much of the item's target mileage has been
// used, capped at 100.
func WearPercent(item store.GearItem) float64 {
	if item.TargetMileage <= 0 {
		return 0
	}
	return math.Min(100, item.TotalMileage/item.TargetMileage*100)
}

// WearStatus classifies wear: under 60% Fresh, to 85% Good, to 100%
// Worn, past the target Replace.
func WearStatus(item store.GearItem) string {
	if item.TargetMileage <= 0 {
		return WearFresh
	}
	pct := item.TotalMileage / item.TargetMileage * 100
	switch {
	case pct < 60:
		return WearFresh
	case pct < 85:
		return WearGood
	case pct <= 100:
		return WearWorn
	default:
		return WearReplace
	}
}

// defaultItem returns the active default, if any. Caller holds the lock.
func (l *Ledger) defaultItem() *store.GearItem {
	for _, id := range l.order {
		if item := l.items[id]; item.IsDefault && !item.IsRetired {
			return item
		}
	}
	return nil
}

// clearDefault unsets any existing default. Caller holds the lock.
func (l *Ledger) clearDefault() {
	for _, item := range l.items {
		item.IsDefault = false
	}
}
