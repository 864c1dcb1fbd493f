package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jstittsworth/mlb-dfs-projections/internal/app"
	"github.com/jstittsworth/mlb-dfs-projections/internal/metrics"
	"github.com/jstittsworth/mlb-dfs-projections/internal/models"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
	"github.com/jstittsworth/mlb-dfs-projections/internal/services"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/config"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/database"
	"github.com/jstittsworth/mlb-dfs-projections/pkg/logger"
)

var slateCmd = &cobra.Command{
	Use:   "slate",
	Short: "Project every player on a day's slate",
	Long: `Fetches the day's schedule, lineups, stats and weather and prints each
player's projected fantasy points.

Examples:
  project slate
  project slate --date 2024-07-04 --salaries DKSalaries.csv --top 25
  project slate --date 2024-07-04 --format json --role pitcher
  project slate --store`,
	RunE: runSlate,
}

var (
	slateDate     string
	slateFormat   string
	slateSalaries string
	slateRole     string
	slateTop      int
	slateWorkers  int
	slateStore    bool
)

func init() {
	rootCmd.AddCommand(slateCmd)

	slateCmd.Flags().StringVar(&slateDate, "date", "", "Slate date YYYY-MM-DD (default: today)")
	slateCmd.Flags().StringVar(&slateFormat, "format", "table", "Output format (table|json)")
	slateCmd.Flags().StringVar(&slateSalaries, "salaries", "", "DraftKings salary CSV to attach salaries and value")
	slateCmd.Flags().StringVar(&slateRole, "role", "", "Only print batter or pitcher")
	slateCmd.Flags().IntVar(&slateTop, "top", 0, "Print only the best N per role (0 prints everyone)")
	slateCmd.Flags().IntVar(&slateWorkers, "workers", 0, "Concurrent player projections (default: PROJECTION_WORKERS)")
	slateCmd.Flags().BoolVar(&slateStore, "store", false, "Persist the run to DATABASE_URL")
}

func runSlate(cmd *cobra.Command, args []string) error {
	opts := renderOptions{Format: slateFormat, Role: slateRole, Top: slateTop}
	if err := opts.validate(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if slateSalaries != "" {
		cfg.SalariesFile = slateSalaries
	}
	if slateWorkers > 0 {
		cfg.ProjectionWorkers = slateWorkers
	}

	date, err := parseSlateDate(slateDate, time.Now().In(cfg.Location()))
	if err != nil {
		return err
	}

	log := logger.GetLogger()
	registry := metrics.NewRegistry()
	log.AddHook(registry.FallbackHook())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := services.NewMemoryCache()
	engine, err := app.NewEngine(cfg, cache, registry, log)
	if err != nil {
		return err
	}

	result, err := engine.Orchestrator.Run(ctx, date)
	if err != nil {
		return err
	}
	registry.ObserveResult(result)

	if slateStore {
		if err := store(ctx, cfg, result, log); err != nil {
			return err
		}
	}

	batters, pitchers := result.Defaulted()
	logger.WithSlateContext(result.Date.Format(models.SlateDateFormat), "").WithFields(logrus.Fields{
		"games":              len(result.Games),
		"batters":            len(result.Batters),
		"pitchers":           len(result.Pitchers),
		"defaulted_batters":  batters,
		"defaulted_pitchers": pitchers,
		"cached_responses":   cache.Len(),
		"duration":           result.Duration(),
	}).Info("Slate projected")

	return render(cmd.OutOrStdout(), result, opts)
}

// store persists an already computed result through the projection service
func store(ctx context.Context, cfg *config.Config, result *batch.Result, log *logrus.Logger) error {
	db, err := database.NewConnection(cfg.DatabaseURL, false)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := models.NewProjectionRepository(db.DB)
	if err := repo.Migrate(); err != nil {
		return err
	}

	service := services.NewProjectionService(staticRunner{result}, repo, nil, nil, nil, nil, log, 0)
	run, err := service.RunSlate(ctx, result.Date, services.TriggerCLI)
	if err != nil {
		return err
	}
	logger.WithSlateContext(run.SlateDate, run.ID.String()).Info("Run stored")
	return nil
}

func parseSlateDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(models.SlateDateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}

// staticRunner replays a finished result
type staticRunner struct {
	result *batch.Result
}

func (r staticRunner) Run(context.Context, time.Time) (*batch.Result, error) {
	return r.result, nil
}
