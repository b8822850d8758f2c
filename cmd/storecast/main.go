// Command storecast forecasts aggregate daily store sales and disaggregates
// the result into per store and product-family rows.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/storecast/dataset"
	"github.com/sartorproj/storecast/forecast"
	"github.com/sartorproj/storecast/hierarchy"
	"github.com/sartorproj/storecast/sarimax"
	"github.com/sartorproj/storecast/seasreg"
	"github.com/sartorproj/storecast/timeseries"
)

type options struct {
	dataDir string
	output  string
	horizon int
	period  int
	verbose bool
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "storecast",
		Short: "Forecast aggregate store sales and disaggregate them per store and family",
		Long: `storecast fits an ensemble of forecasting models (ARIMA, seasonal ARIMA
with exogenous drivers, seasonal regression) on aggregate daily sales,
combines their forecasts, and splits the aggregate across store and
product-family pairs by historical share.

The data directory must contain train.csv and test.csv; oil.csv and
holidays_events.csv are used as exogenous drivers when present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), opts)
		},
	}

	root.Flags().StringVarP(&opts.dataDir, "data", "d", ".", "directory holding train.csv, test.csv and optional driver files")
	root.Flags().StringVarP(&opts.output, "output", "o", "submission.csv", "path for the prediction CSV")
	root.Flags().IntVarP(&opts.horizon, "horizon", "n", 16, "days to forecast past the training data")
	root.Flags().IntVarP(&opts.period, "period", "p", 7, "seasonal period in days")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	start := time.Now()

	sales, err := dataset.LoadSalesFile(filepath.Join(opts.dataDir, "train.csv"))
	if err != nil {
		return fmt.Errorf("loading training data: %w", err)
	}
	tests, err := dataset.LoadTestFile(filepath.Join(opts.dataDir, "test.csv"))
	if err != nil {
		return fmt.Errorf("loading test data: %w", err)
	}
	logger.Info("data loaded", "sales_rows", len(sales), "test_rows", len(tests))

	target, err := timeseries.Sanitize(dataset.DailyTotals(sales))
	if err != nil {
		return fmt.Errorf("sanitizing daily totals: %w", err)
	}
	horizon := timeseries.Horizon(target.LastDate(), opts.horizon)

	drivers := loadDrivers(opts.dataDir, target, horizon, logger)
	exog := forecast.BuildExog(target, horizon, drivers)
	for _, name := range exog.Dropped {
		logger.Warn("driver dropped, no usable values", "driver", name)
	}

	runner := forecast.NewRunner(logger,
		forecast.NewARIMASource(nil),
		forecast.NewSARIMAXSource(sarimax.Order{P: 1, D: 1, Q: 1, SP: 1, SD: -1, SQ: 1, M: opts.period}),
		forecast.NewRegressionSource(&seasreg.Config{Period: opts.period, FourierOrder: 3, Trend: true}),
	)
	ensemble := runner.Run(ctx, target, exog, opts.horizon)
	logger.Info("ensemble built",
		"horizon", opts.horizon, "degraded", ensemble.Degraded)

	table := hierarchy.EstimateProportions(dataset.Observations(sales))
	logger.Debug("proportions estimated", "keys", len(table), "sum", table.Sum())

	rows := hierarchy.Disaggregate(dataset.Requests(tests), ensemble.AggregateByDate(), table)

	out, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()
	if err := dataset.WriteSubmission(out, rows); err != nil {
		return fmt.Errorf("writing predictions: %w", err)
	}

	logger.Info("done", "rows", len(rows), "output", opts.output, "elapsed", time.Since(start))
	return nil
}

// loadDrivers reads the optional exogenous files. A missing file is skipped;
// a malformed one is only logged, since drivers are best effort.
func loadDrivers(dir string, target *timeseries.Series, horizon []time.Time, logger *slog.Logger) map[string]*timeseries.Series {
	drivers := make(map[string]*timeseries.Series)

	oilPath := filepath.Join(dir, "oil.csv")
	if _, err := os.Stat(oilPath); err == nil {
		oil, err := dataset.LoadDriverFile(oilPath)
		if err != nil {
			logger.Warn("skipping oil driver", "error", err)
		} else {
			drivers["oil"] = oil
		}
	}

	eventsPath := filepath.Join(dir, "holidays_events.csv")
	if _, err := os.Stat(eventsPath); err == nil {
		events, err := dataset.LoadEventsFile(eventsPath)
		if err != nil {
			logger.Warn("skipping events driver", "error", err)
		} else {
			dates := append(append([]time.Time{}, target.Dates...), horizon...)
			drivers["events"] = dataset.EventIndicator(dates, events)
		}
	}

	return drivers
}
