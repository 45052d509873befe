// Package streak maintains the consecutive-day and weekly run streak
// ledger. One ledger exists per user; mutating events are serialized
// through its lock and the host persists the snapshot after each one.
package streak

import (
	"errors"
	"sync"
	"time"

	"fitcore/internal/store"
)

// ErrNoFreezeAvailable is returned when the freeze has already been spent
var ErrNoFreezeAvailable = errors.New("no streak freeze available")

// ErrFreezeNotApplicable is returned when the freeze wouldn't bridge the gap
var ErrFreezeNotApplicable = errors.New("freeze does not cover the missed day")

// Config holds streak policy knobs (host-supplied, not hard-coded).
type Config struct {
	FreezeResetDays int // cadence on which a spent freeze comes back
	RiskHour        int // local hour after which an unextended streak is at risk
}

// Ledger is the stateful streak tracker.
type Ledger struct {
	mu    sync.Mutex
	state store.StreakState
	cfg   Config
}

// NewLedger restores a ledger from a persisted snapshot.
func NewLedger(cfg Config, state store.StreakState) *Ledger {
	if cfg.FreezeResetDays <= 0 {
		cfg.FreezeResetDays = 30
	}
	if cfg.RiskHour <= 0 {
		cfg.RiskHour = 20
	}
	return &Ledger{cfg: cfg, state: state}
}

// Snapshot returns a copy of the current state for display or saving.
func (l *Ledger) Snapshot() store.StreakState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// LogRun records a qualifying run on the given day.
//
// A run the day after the last one extends the streak; a second run on
// the same day changes nothing. A single missed day is forgiven
// automatically when the freeze is available, consuming it; any other
// gap resets the streak to 1.
func (l *Ledger) LogRun(date time.Time) store.StreakState {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := dayStart(date)
	last := dayStart(l.state.LastQualifyingDate)

	switch {
	case l.state.LastQualifyingDate.IsZero():
		l.state.CurrentStreak = 1
	case day.Equal(last):
		// Second run today; streak unchanged.
	case day.Equal(last.AddDate(0, 0, 1)):
		l.state.CurrentStreak++
	case day.Equal(last.AddDate(0, 0, 2)) && l.state.FreezeAvailable:
		// Exactly one missed day; the freeze bridges it.
		l.state.FreezeAvailable = false
		l.state.CurrentStreak++
	default:
		l.state.CurrentStreak = 1
	}

	l.updateWeekly(day, last)

	if !day.Before(last) {
		l.state.LastQualifyingDate = day
	}
	if l.state.CurrentStreak > l.state.LongestStreak {
		l.state.LongestStreak = l.state.CurrentStreak
	}
	return l.state
}

// UseFreeze explicitly spends the freeze on a missed day, preserving
// the current streak. The missed day must be the day immediately after
// the last qualifying run. Rejected operations leave the state
// untouched.
func (l *Ledger) UseFreeze(missedDay time.Time) (store.StreakState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.FreezeAvailable {
		return l.state, ErrNoFreezeAvailable
	}

	day := dayStart(missedDay)
	last := dayStart(l.state.LastQualifyingDate)
	if l.state.LastQualifyingDate.IsZero() || !day.Equal(last.AddDate(0, 0, 1)) {
		return l.state, ErrFreezeNotApplicable
	}

	l.state.FreezeAvailable = false
	l.state.LastQualifyingDate = day
	return l.state, nil
}

// CheckEndOfDay runs the nightly maintenance pass: restores the freeze
// on its reset cadence and expires a streak whose gap can no longer be
// bridged.
func (l *Ledger) CheckEndOfDay(now time.Time) store.StreakState {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := dayStart(now)

	if !l.state.FreezeAvailable {
		if l.state.LastFreezeReset.IsZero() ||
			!day.Before(dayStart(l.state.LastFreezeReset).AddDate(0, 0, l.cfg.FreezeResetDays)) {
			l.state.FreezeAvailable = true
			l.state.LastFreezeReset = day
		}
	}

	if l.state.CurrentStreak > 0 && !l.state.LastQualifyingDate.IsZero() {
		gap := daysBetween(dayStart(l.state.LastQualifyingDate), day)
		// With a freeze in hand a single missed day is still
		// recoverable tomorrow; anything beyond that is broken.
		recoverable := 1
		if l.state.FreezeAvailable {
			recoverable = 2
		}
		if gap > recoverable {
			l.state.CurrentStreak = 0
		}
	}
	return l.state
}

// AtRisk reports whether the streak will break without a run today:
// there is a live streak, no qualifying run yet today, and the day has
// passed the configured risk hour.
func (l *Ledger) AtRisk(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.CurrentStreak == 0 {
		return false
	}
	if dayStart(l.state.LastQualifyingDate).Equal(dayStart(now)) {
		return false
	}
	return now.Hour() >= l.cfg.RiskHour
}

// updateWeekly advances the consecutive-week counter: a run in the ISO
// week immediately after the last active week extends it, the same week
// keeps it, and a longer gap restarts at 1.
func (l *Ledger) updateWeekly(day, last time.Time) {
	if l.state.LastQualifyingDate.IsZero() {
		l.state.WeeklyStreak = 1
		return
	}

	thisWeek := isoWeekStart(day)
	lastWeek := isoWeekStart(last)
	switch {
	case thisWeek.Equal(lastWeek):
		// Same week; counter unchanged.
	case thisWeek.Equal(lastWeek.AddDate(0, 0, 7)):
		l.state.WeeklyStreak++
	default:
		l.state.WeeklyStreak = 1
	}
}

// isoWeekStart returns the Monday beginning t's ISO week.
func isoWeekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b (both at midnight).
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
