// Package timeseries provides the dated series type used throughout the
// module, together with gap repair for series with missing observations.
//
// # Creating a Series
//
// Create a daily series from a start date and values:
//
//	start := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
//	series := timeseries.New(start, []float64{100, 102, 105, 103})
//
// Or with explicit (strictly increasing) dates:
//
//	series, err := timeseries.NewWithDates(dates, values)
//
// # Missing Values
//
// A NaN value marks a missing observation and an infinite value marks an
// invalid one. Sanitize repairs both, in order: forward-fill, backward-fill
// for leading gaps, then mean fill:
//
//	clean, err := timeseries.Sanitize(series)
//	if errors.Is(err, timeseries.ErrNoUsableValues) {
//	    // the series had no finite values at all
//	}
//
// Interpolate fills interior gaps linearly and leaves edge gaps alone, which
// is the first cleaning step applied to partial forecast series.
//
// # Basic Statistics and Transformations
//
//	mean := series.Mean()
//	std := series.Std()
//	diff := series.Diff()            // first difference
//	sdiff := series.SeasonalDiff(7)  // weekly seasonal difference
//
// # Forecast Horizons
//
// Horizon generates the daily date range immediately after a series:
//
//	dates := timeseries.Horizon(series.LastDate(), 16)
package timeseries
