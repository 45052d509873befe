// Package service assembles stored records and profile configuration
// into the derived daily picture: composite scores, trends, training
// load, race projections, and the two event-driven ledgers.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"fitcore/internal/analysis"
	"fitcore/internal/config"
	"fitcore/internal/gear"
	"fitcore/internal/store"
	"fitcore/internal/streak"
)

// Service owns the derivation layer's collaborators for one user.
type Service struct {
	store  *store.Store
	cfg    config.Config
	streak *streak.Ledger
	gear   *gear.Ledger
	log    zerolog.Logger
}

// New builds a Service, restoring both ledgers from the store.
func New(s *store.Store, cfg config.Config, log zerolog.Logger) (*Service, error) {
	streakState, err := s.GetStreakState()
	if err != nil {
		return nil, fmt.Errorf("loading streak state: %w", err)
	}
	items, err := s.ListGear()
	if err != nil {
		return nil, fmt.Errorf("loading gear: %w", err)
	}

	return &Service{
		store: s,
		cfg:   cfg,
		streak: streak.NewLedger(streak.Config{
			FreezeResetDays: cfg.Streak.FreezeResetDays,
			RiskHour:        cfg.Streak.RiskHour,
		}, *streakState),
		gear: gear.NewLedger(items),
		log:  log,
	}, nil
}

// MetricTrend is one rolling-window trend for the summary.
type MetricTrend struct {
	Name    string
	Change  float64 // percent, sign already adjusted for inverted metrics
	Average float64 // recent-window mean
}

// DailySummary is the full derived state for one day.
type DailySummary struct {
	Date time.Time

	ActivityScore int
	SleepScore    int
	HeartScore    int
	RecoveryScore int
	OverallScore  int
	OverallLabel  string

	EnergyBattery int
	StressScore   int
	StressLabel   string

	Trends []MetricTrend

	Load   analysis.LoadSummary
	Streak store.StreakState
	AtRisk bool
}

// DailySummary derives all scores and classifications for the given day.
func (s *Service) DailySummary(now time.Time) (*DailySummary, error) {
	day := now
	metrics, err := s.store.GetDailyMetrics(day)
	if errors.Is(err, store.ErrMetricsNotFound) {
		metrics = &store.DailyMetrics{Date: day}
	} else if err != nil {
		return nil, fmt.Errorf("loading daily metrics: %w", err)
	}

	history, err := s.store.ListDailyMetrics(day.AddDate(0, 0, -(TrendRecentDays+TrendPriorDays)), day)
	if err != nil {
		return nil, fmt.Errorf("loading metric history: %w", err)
	}

	load, err := s.TrainingStatus(now)
	if err != nil {
		return nil, err
	}

	activity := analysis.ActivityScore(*metrics, s.cfg.Goals.StepGoal)
	sleep := analysis.SleepScore(*metrics)
	heart := analysis.HeartScore(*metrics)
	recovery := analysis.RecoveryScore(*metrics)
	overall := analysis.OverallScore(activity, sleep, heart, recovery)
	stress := analysis.StressScore(*metrics)

	summary := &DailySummary{
		Date:          day,
		ActivityScore: activity,
		SleepScore:    sleep,
		HeartScore:    heart,
		RecoveryScore: recovery,
		OverallScore:  overall,
		OverallLabel:  analysis.OverallLabel(overall),
		EnergyBattery: analysis.EnergyBattery(*metrics, now),
		StressScore:   stress,
		StressLabel:   analysis.StressLabel(stress),
		Trends:        s.trends(history, now),
		Load:          load,
		Streak:        s.streak.Snapshot(),
		AtRisk:        s.streak.AtRisk(now),
	}

	s.log.Debug().
		Time("date", day).
		Int("overall", overall).
		Str("label", summary.OverallLabel).
		Str("training_status", string(load.Status)).
		Msg("daily summary computed")

	return summary, nil
}

// trends computes the rolling trends shown with a summary. Resting
// heart rate is inverted: a drop reads as an improvement.
func (s *Service) trends(history []store.DailyMetrics, now time.Time) []MetricTrend {
	specs := []struct {
		name   string
		field  analysis.Field
		invert bool
	}{
		{"Steps", analysis.FieldSteps, false},
		{"Sleep", analysis.FieldSleepHours, false},
		{"Resting HR", analysis.FieldRestingHR, true},
		{"HRV", analysis.FieldHRV, false},
	}

	trends := make([]MetricTrend, 0, len(specs))
	for _, spec := range specs {
		trends = append(trends, MetricTrend{
			Name:    spec.name,
			Change:  analysis.Trend(history, spec.field, TrendRecentDays, TrendPriorDays, spec.invert, now),
			Average: analysis.Average(history, spec.field, TrendRecentDays, now),
		})
	}
	return trends
}

// TrainingStatus derives the acute:chronic load state as of now.
func (s *Service) TrainingStatus(now time.Time) (analysis.LoadSummary, error) {
	workouts, err := s.store.ListWorkoutsSince(now.AddDate(0, 0, -LoadHistoryDays))
	if err != nil {
		return analysis.LoadSummary{}, fmt.Errorf("loading workouts: %w", err)
	}
	return analysis.AnalyzeLoad(workouts, s.maxHR(), now), nil
}

// RacePredictions projects finish times from the recent run history.
// Returns nil when no qualifying reference run exists.
func (s *Service) RacePredictions(now time.Time) ([]analysis.RacePrediction, error) {
	workouts, err := s.store.ListWorkoutsSince(now.AddDate(0, 0, -PredictionHistoryDays))
	if err != nil {
		return nil, fmt.Errorf("loading workouts: %w", err)
	}
	return analysis.PredictRaces(workouts, now), nil
}

// ZoneBreakdown aggregates time in heart rate zones for one workout.
func (s *Service) ZoneBreakdown(workoutID string) (analysis.ZoneBreakdown, *store.WorkoutRecord, error) {
	w, err := s.store.GetWorkout(workoutID)
	if err != nil {
		return analysis.ZoneBreakdown{}, nil, err
	}
	splits, err := s.store.ListSplits(workoutID)
	if err != nil {
		return analysis.ZoneBreakdown{}, nil, fmt.Errorf("loading splits: %w", err)
	}
	return analysis.AggregateZones(*w, splits, s.maxHR()), w, nil
}

// RecordWorkout stores a workout with its splits and applies the
// ledger events it implies: a qualifying run extends the streak and
// accrues mileage on the selected (or default) gear.
func (s *Service) RecordWorkout(w store.WorkoutRecord, splits []store.RunSplit, gearIDs []string) error {
	if w.Category == "" {
		w.Category = store.Categorize(w.Type)
	}
	if err := s.store.InsertWorkout(w); err != nil {
		return err
	}
	if len(splits) > 0 {
		if err := s.store.InsertSplits(splits); err != nil {
			return err
		}
	}

	if w.Category != store.CategoryRun {
		return nil
	}

	state := s.streak.LogRun(w.StartTime)
	if err := s.store.SaveStreakState(state); err != nil {
		return fmt.Errorf("saving streak state: %w", err)
	}
	s.log.Info().
		Str("workout_id", w.ID).
		Int("streak", state.CurrentStreak).
		Msg("run logged")

	if w.Distance <= 0 {
		return nil
	}
	updated, err := s.gear.AssignRun(w.ID, w.Distance, gearIDs)
	if errors.Is(err, gear.ErrNoDefaultGear) {
		// Unassigned run: no gear registered as default.
		s.log.Debug().Str("workout_id", w.ID).Msg("run left unassigned, no default gear")
		return nil
	}
	if err != nil {
		return fmt.Errorf("assigning gear: %w", err)
	}
	for _, item := range updated {
		if err := s.store.SaveGear(item); err != nil {
			return fmt.Errorf("saving gear: %w", err)
		}
		s.log.Info().
			Str("gear", item.Name).
			Float64("total_km", item.TotalMileage).
			Str("wear", gear.WearStatus(item)).
			Msg("mileage accrued")
	}
	return nil
}

// UseStreakFreeze spends the streak freeze on a missed day.
func (s *Service) UseStreakFreeze(missedDay time.Time) (store.StreakState, error) {
	state, err := s.streak.UseFreeze(missedDay)
	if err != nil {
		return state, err
	}
	if err := s.store.SaveStreakState(state); err != nil {
		return state, fmt.Errorf("saving streak state: %w", err)
	}
	return state, nil
}

// CheckEndOfDay runs the nightly streak maintenance pass and persists
// the result. Returns the state and whether the streak is at risk.
func (s *Service) CheckEndOfDay(now time.Time) (store.StreakState, bool, error) {
	state := s.streak.CheckEndOfDay(now)
	if err := s.store.SaveStreakState(state); err != nil {
		return state, false, fmt.Errorf("saving streak state: %w", err)
	}
	return state, s.streak.AtRisk(now), nil
}

// Gear exposes the gear ledger for host commands.
func (s *Service) Gear() *gear.Ledger { return s.gear }

// SaveGear persists one gear item after a ledger mutation.
func (s *Service) SaveGear(item store.GearItem) error {
	return s.store.SaveGear(item)
}

// Streak exposes the streak ledger snapshot for host commands.
func (s *Service) Streak() store.StreakState { return s.streak.Snapshot() }

func (s *Service) maxHR() int {
	if s.cfg.Athlete.MaxHR > 0 {
		return s.cfg.Athlete.MaxHR
	}
	return DefaultMaxHR
}
