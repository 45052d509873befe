package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fitcore/internal/analysis"
	"fitcore/internal/config"
	"fitcore/internal/gear"
	"fitcore/internal/service"
	"fitcore/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds the shared state commands operate on, built once in the
// root command's PersistentPreRunE.
type app struct {
	cfg *config.Config
	db  *store.Store
	svc *service.Service
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	var (
		a       app
		verbose bool
	)

	root := &cobra.Command{
		Use:   "fitcore",
		Short: "Daily health scores, training load, and run ledgers",
		Long: `fitcore derives daily health and fitness state from imported
wearable data: composite scores, rolling trends, acute:chronic training
load, race projections, heart rate zones, the run streak, and gear
mileage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			cfg, err := config.Load()
			if errors.Is(err, config.ErrNoConfig) {
				if err := config.CreateExample(); err != nil {
					return fmt.Errorf("creating example config: %w", err)
				}
				dir, _ := config.DataDir()
				fmt.Printf("No config file found. Wrote defaults to:\n  %s/config.json\n", dir)
				fmt.Println("Edit it to set your resting/max heart rate and goals.")
				d := config.DefaultConfig()
				cfg = &d
			} else if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				dir, _ := config.DataDir()
				return fmt.Errorf("invalid config (%s/config.json): %w", dir, err)
			}

			dir, err := config.DataDir()
			if err != nil {
				return err
			}
			db, err := store.Open(dir)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}

			svc, err := service.New(db, *cfg, a.log)
			if err != nil {
				db.Close()
				return err
			}

			a.cfg = cfg
			a.db = db
			a.svc = svc
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.db != nil {
				a.db.Close()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSummaryCmd(&a),
		newLoadCmd(&a),
		newPredictCmd(&a),
		newZonesCmd(&a),
		newStreakCmd(&a),
		newGearCmd(&a),
		newImportCmd(&a),
		newWatchCmd(&a),
	)
	return root
}

func newSummaryCmd(a *app) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the derived daily summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if dateFlag != "" {
				parsed, err := time.ParseInLocation("2006-01-02", dateFlag, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateFlag)
				}
				day = parsed
			}

			s, err := a.svc.DailySummary(day)
			if err != nil {
				return err
			}

			fmt.Printf("Summary for %s\n\n", s.Date.Format("Monday, Jan 2 2006"))
			fmt.Printf("  Overall    %3d  %s\n", s.OverallScore, s.OverallLabel)
			fmt.Printf("  Activity   %3d\n", s.ActivityScore)
			fmt.Printf("  Sleep      %3d\n", s.SleepScore)
			fmt.Printf("  Heart      %3d\n", s.HeartScore)
			fmt.Printf("  Recovery   %3d\n", s.RecoveryScore)
			fmt.Printf("  Energy     %3d\n", s.EnergyBattery)
			fmt.Printf("  Stress     %3d  %s\n\n", s.StressScore, s.StressLabel)

			fmt.Println("Trends (7d vs prior 28d):")
			for _, tr := range s.Trends {
				avg := humanize.CommafWithDigits(tr.Average, 1)
				if tr.Name == "Steps" {
					avg = humanize.Comma(int64(tr.Average))
				}
				fmt.Printf("  %-11s %+6.1f%%  avg %s\n", tr.Name, tr.Change, avg)
			}

			fmt.Printf("\nTraining: %s (ratio %.2f)\n", s.Load.Status, s.Load.Ratio)
			if s.Streak.CurrentStreak > 0 {
				fmt.Printf("Streak: %d days", s.Streak.CurrentStreak)
				if s.AtRisk {
					fmt.Print("  (no run yet today!)")
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "day to summarize (YYYY-MM-DD, default today)")
	return cmd
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Show acute:chronic training load",
		RunE: func(cmd *cobra.Command, args []string) error {
			load, err := a.svc.TrainingStatus(time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Acute load (7d):    %.1f\n", load.AcuteLoad)
			fmt.Printf("Chronic load (28d): %.1f\n", load.ChronicLoad)
			fmt.Printf("Ratio:              %.2f\n", load.Ratio)
			fmt.Printf("Balance:            %+.1f\n", load.Balance)
			fmt.Printf("Status:             %s\n", load.Status)
			fmt.Printf("\n%s\n", load.Recommendation)
			return nil
		},
	}
}

func newPredictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Project race finish times from recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			preds, err := a.svc.RacePredictions(time.Now())
			if err != nil {
				return err
			}
			if preds == nil {
				fmt.Println("No qualifying run in the last 90 days (need a run of 3 km or more).")
				return nil
			}
			fmt.Printf("%-14s %10s %9s %11s\n", "Distance", "Time", "Pace", "Confidence")
			for _, p := range preds {
				fmt.Printf("%-14s %10s %7s/km %10d%%\n",
					p.Target.Name,
					formatDuration(p.PredictedSeconds),
					formatPace(p.PredictedPace),
					p.Confidence)
			}
			return nil
		},
	}
}

func newZonesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zones <workout-id>",
		Short: "Show time in heart rate zones for a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, w, err := a.svc.ZoneBreakdown(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s - %s, %s\n\n",
				w.Type, humanize.Time(w.StartTime), formatDuration(w.Duration))
			var inZones float64
			for _, seconds := range b.Durations {
				inZones += seconds
			}
			if inZones == 0 {
				fmt.Println("No heart rate data recorded.")
				return nil
			}
			for i, seconds := range b.Durations {
				fmt.Printf("  Z%d %-10s %9s  %5.1f%%\n",
					i+1, analysis.ZoneLabels[i], formatDuration(int(seconds)), b.Percent[i])
			}
			return nil
		},
	}
}

func newStreakCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the run streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := a.svc.Streak()
			fmt.Printf("Current streak: %d days\n", state.CurrentStreak)
			fmt.Printf("Longest streak: %d days\n", state.LongestStreak)
			fmt.Printf("Weekly streak:  %d weeks\n", state.WeeklyStreak)
			if state.FreezeAvailable {
				fmt.Println("Freeze:         available")
			} else {
				fmt.Println("Freeze:         used")
			}
			if !state.LastQualifyingDate.IsZero() {
				fmt.Printf("Last run:       %s\n", humanize.Time(state.LastQualifyingDate))
			}
			return nil
		},
	}

	freeze := &cobra.Command{
		Use:   "freeze <missed-day>",
		Short: "Spend the streak freeze on a missed day (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[0])
			}
			state, err := a.svc.UseStreakFreeze(day)
			if err != nil {
				return err
			}
			fmt.Printf("Freeze applied. Streak preserved at %d days.\n", state.CurrentStreak)
			return nil
		},
	}
	cmd.AddCommand(freeze)
	return cmd
}

func newGearCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gear",
		Short: "Manage gear and mileage",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := a.svc.Gear().Items()
			if len(items) == 0 {
				fmt.Println("No gear registered. Add some with: fitcore gear add")
				return nil
			}
			fmt.Printf("%-36s %-20s %9s %6s %-8s\n", "ID", "Name", "Mileage", "Wear", "Status")
			for _, item := range items {
				name := item.Name
				switch {
				case item.IsRetired:
					name += " (retired)"
				case item.IsDefault:
					name += " *"
				}
				fmt.Printf("%-36s %-20s %7.1fkm %5.0f%% %-8s\n",
					item.ID, name, item.TotalMileage,
					gear.WearPercent(item), gear.WearStatus(item))
			}
			return nil
		},
	}

	var (
		addName    string
		addTarget  float64
		addInitial float64
		addDefault bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new gear item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addName == "" {
				return errors.New("--name is required")
			}
			item := a.svc.Gear().Add(addName, addTarget, addInitial, time.Now(), addDefault)
			if err := a.svc.SaveGear(item); err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	add.Flags().StringVar(&addName, "name", "", "gear name")
	add.Flags().Float64Var(&addTarget, "target", 800, "replacement target in km")
	add.Flags().Float64Var(&addInitial, "initial", 0, "mileage already on the gear in km")
	add.Flags().BoolVar(&addDefault, "default", false, "make this the default gear")

	setDefault := &cobra.Command{
		Use:   "default <id>",
		Short: "Make a gear item the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Gear().SetDefault(args[0]); err != nil {
				return err
			}
			return a.saveAllGear()
		},
	}

	retire := &cobra.Command{
		Use:   "retire <id>",
		Short: "Retire a gear item, keeping its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Gear().Retire(args[0]); err != nil {
				return err
			}
			item, err := a.svc.Gear().Get(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.SaveGear(item); err != nil {
				return err
			}
			fmt.Printf("Retired %s at %.1f km.\n", item.Name, item.TotalMileage)
			return nil
		},
	}

	correct := &cobra.Command{
		Use:   "correct <id> <total-km>",
		Short: "Correct a gear item's total mileage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid mileage %q", args[1])
			}
			if err := a.svc.Gear().CorrectMileage(args[0], total); err != nil {
				return err
			}
			item, err := a.svc.Gear().Get(args[0])
			if err != nil {
				return err
			}
			return a.svc.SaveGear(item)
		},
	}

	cmd.AddCommand(add, setDefault, retire, correct)
	return cmd
}

// saveAllGear persists every item; used after mutations that can touch
// more than one item, like moving the default flag.
func (a *app) saveAllGear() error {
	for _, item := range a.svc.Gear().Items() {
		if err := a.svc.SaveGear(item); err != nil {
			return err
		}
	}
	return nil
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON batch of daily metrics and workouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.svc.Import(f)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d days, %d workouts.\n", result.DaysImported, result.WorkoutsImported)
			for _, reason := range result.Rejected {
				fmt.Printf("  rejected: %s\n", reason)
			}
			return nil
		},
	}
}

// newWatchCmd runs the scheduled streak maintenance: the nightly
// rollover just after midnight, and an at-risk reminder at the
// configured evening hour.
func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run scheduled streak maintenance until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cron.New()

			_, err := c.AddFunc("5 0 * * *", func() {
				state, _, err := a.svc.CheckEndOfDay(time.Now())
				if err != nil {
					a.log.Error().Err(err).Msg("nightly streak check failed")
					return
				}
				a.log.Info().
					Int("streak", state.CurrentStreak).
					Bool("freeze_available", state.FreezeAvailable).
					Msg("nightly streak check")
			})
			if err != nil {
				return fmt.Errorf("scheduling nightly check: %w", err)
			}

			_, err = c.AddFunc(fmt.Sprintf("0 %d * * *", a.cfg.Streak.RiskHour), func() {
				_, atRisk, err := a.svc.CheckEndOfDay(time.Now())
				if err != nil {
					a.log.Error().Err(err).Msg("at-risk check failed")
					return
				}
				if atRisk {
					a.log.Warn().
						Int("streak", a.svc.Streak().CurrentStreak).
						Msg("streak at risk: no run logged today")
				}
			})
			if err != nil {
				return fmt.Errorf("scheduling at-risk check: %w", err)
			}

			a.log.Info().Int("risk_hour", a.cfg.Streak.RiskHour).Msg("watching streak")
			c.Start()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			<-quit

			ctx := c.Stop()
			<-ctx.Done()
			return nil
		},
	}
}

// formatDuration renders seconds as H:MM:SS, or M:SS under an hour.
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// formatPace renders sec/km as M:SS.
func formatPace(secPerKm float64) string {
	total := int(secPerKm + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
