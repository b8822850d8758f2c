package forecast

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/storecast/timeseries"
)

// Runner fits and forecasts a set of sources in parallel and combines the
// survivors into an ensemble. Source failures are absorbed: a source that
// cannot fit or forecast is logged and excluded, never fatal.
type Runner struct {
	Sources []Source
	Logger  *slog.Logger
}

// NewRunner creates a runner over the given sources. A nil logger falls back
// to the default slog logger.
func NewRunner(logger *slog.Logger, sources ...Source) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Sources: sources, Logger: logger}
}

// Run sanitizes nothing itself: target must already be fully defined. It
// fits and forecasts every source concurrently, waits for each to reach a
// terminal state, and combines whatever succeeded over the horizon of steps
// days past the target's last date.
func (r *Runner) Run(ctx context.Context, target *timeseries.Series, exog *Exog, steps int) *Ensemble {
	horizon := timeseries.Horizon(target.LastDate(), steps)

	results := make([]*timeseries.Series, len(r.Sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range r.Sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				r.Logger.Warn("source skipped", "source", src.Name(), "error", err)
				return nil
			}

			start := time.Now()
			if err := src.Fit(target, exog); err != nil {
				r.Logger.Warn("source dropped from ensemble",
					"source", src.Name(), "state", src.State().String(), "error", err)
				return nil
			}

			series, err := src.Forecast(steps)
			if err != nil {
				r.Logger.Warn("source dropped from ensemble",
					"source", src.Name(), "state", src.State().String(), "error", err)
				return nil
			}

			r.Logger.Info("source forecasted",
				"source", src.Name(), "steps", steps, "elapsed", time.Since(start))
			results[i] = series
			return nil
		})
	}
	g.Wait()

	forecasts := make([]*timeseries.Series, 0, len(results))
	for _, s := range results {
		if s != nil {
			forecasts = append(forecasts, s)
		}
	}

	ensemble := Combine(horizon, forecasts, target)
	if ensemble.Degraded {
		r.Logger.Warn("ensemble degraded to historical mean fallback",
			"sources", len(r.Sources), "forecasted", len(forecasts))
	}
	return ensemble
}
