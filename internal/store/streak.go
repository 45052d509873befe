package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetStreakState returns the persisted streak snapshot, or a zero
// state if none has been saved yet.
func (s *Store) GetStreakState() (*StreakState, error) {
	row := s.db.QueryRow(`
		SELECT current_streak, longest_streak, weekly_streak, freeze_available,
			last_freeze_reset, last_qualifying_date
		FROM streak_state WHERE id = 1`)

	var st StreakState
	var lastReset, lastRun string
	err := row.Scan(&st.CurrentStreak, &st.LongestStreak, &st.WeeklyStreak,
		&st.FreezeAvailable, &lastReset, &lastRun)
	if errors.Is(err, sql.ErrNoRows) {
		// No row yet: fresh ledger with a freeze in hand.
		return &StreakState{FreezeAvailable: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading streak state: %w", err)
	}

	if lastReset != "" {
		if st.LastFreezeReset, err = time.Parse(dateKey, lastReset); err != nil {
			return nil, fmt.Errorf("parsing last freeze reset %q: %w", lastReset, err)
		}
	}
	if lastRun != "" {
		if st.LastQualifyingDate, err = time.Parse(dateKey, lastRun); err != nil {
			return nil, fmt.Errorf("parsing last qualifying date %q: %w", lastRun, err)
		}
	}
	return &st, nil
}

// SaveStreakState persists the streak snapshot (singleton row).
func (s *Store) SaveStreakState(st StreakState) error {
	lastReset := ""
	if !st.LastFreezeReset.IsZero() {
		lastReset = st.LastFreezeReset.Format(dateKey)
	}
	lastRun := ""
	if !st.LastQualifyingDate.IsZero() {
		lastRun = st.LastQualifyingDate.Format(dateKey)
	}

	_, err := s.db.Exec(`
		INSERT INTO streak_state (id, current_streak, longest_streak, weekly_streak,
			freeze_available, last_freeze_reset, last_qualifying_date)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			weekly_streak = excluded.weekly_streak,
			freeze_available = excluded.freeze_available,
			last_freeze_reset = excluded.last_freeze_reset,
			last_qualifying_date = excluded.last_qualifying_date,
			updated_at = CURRENT_TIMESTAMP`,
		st.CurrentStreak, st.LongestStreak, st.WeeklyStreak,
		st.FreezeAvailable, lastReset, lastRun,
	)
	if err != nil {
		return fmt.Errorf("saving streak state: %w", err)
	}
	return nil
}
