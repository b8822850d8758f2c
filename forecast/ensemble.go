package forecast

import (
	"math"
	"time"

	"github.com/sartorproj/storecast/timeseries"
)

// Ensemble is the combined per-date aggregate forecast. Contributors holds,
// per horizon date, how many sources supplied a finite raw value there.
// Degraded is set when every source failed and the horizon fell back to the
// historical mean.
type Ensemble struct {
	Series       *timeseries.Series
	Contributors []int
	Degraded     bool

	index map[time.Time]int
}

// Combine merges the successful source forecasts into one aggregate series
// over the horizon dates. Per date, the aggregate is the mean of the finite
// source values; dates no source covers are retried against per-source
// cleaned values, and only then fall back to the mean of the historical
// target. Combine never fails: it always returns a fully defined series
// carrying the horizon dates normalized to day precision.
func Combine(horizon []time.Time, forecasts []*timeseries.Series, history *timeseries.Series) *Ensemble {
	n := len(horizon)

	// Align every source onto the horizon dates.
	raw := make([][]float64, len(forecasts))
	for i, f := range forecasts {
		raw[i] = alignToHorizon(f, horizon)
	}

	values := make([]float64, n)
	contributors := make([]int, n)
	var cleaned [][]float64
	degraded := false

	fallback := historicalMean(history)

	for t := 0; t < n; t++ {
		v, count := finiteMeanAt(raw, t)
		contributors[t] = count
		if count > 0 {
			values[t] = v
			continue
		}

		// No source defined this date. Repair each source across the
		// horizon and try again with the cleaned values.
		if cleaned == nil {
			cleaned = cleanSources(raw, horizon)
		}
		if v, count := finiteMeanAt(cleaned, t); count > 0 {
			values[t] = v
			continue
		}

		values[t] = fallback
		degraded = true
	}

	dates := make([]time.Time, n)
	index := make(map[time.Time]int, n)
	for i, d := range horizon {
		dates[i] = timeseries.Day(d)
		index[dates[i]] = i
	}
	series := &timeseries.Series{Dates: dates, Values: values, Name: "ensemble"}

	return &Ensemble{
		Series:       series,
		Contributors: contributors,
		Degraded:     degraded,
		index:        index,
	}
}

// Value returns the aggregate for the date and whether the date is part of
// the horizon.
func (e *Ensemble) Value(date time.Time) (float64, bool) {
	i, ok := e.index[timeseries.Day(date)]
	if !ok {
		return 0, false
	}
	return e.Series.Values[i], true
}

// AggregateByDate returns the aggregate series as a date-keyed map.
func (e *Ensemble) AggregateByDate() map[time.Time]float64 {
	out := make(map[time.Time]float64, len(e.index))
	for d, i := range e.index {
		out[d] = e.Series.Values[i]
	}
	return out
}

// alignToHorizon places a source's values at their horizon positions,
// leaving NaN where the source does not define the date or the value is not
// finite.
func alignToHorizon(f *timeseries.Series, horizon []time.Time) []float64 {
	byDate := make(map[time.Time]float64, f.Len())
	for i, d := range f.Dates {
		byDate[timeseries.Day(d)] = f.Values[i]
	}

	out := make([]float64, len(horizon))
	for i, d := range horizon {
		v, ok := byDate[timeseries.Day(d)]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// finiteMeanAt returns the mean over the finite values at position t and how
// many there were.
func finiteMeanAt(sources [][]float64, t int) (float64, int) {
	sum := 0.0
	count := 0
	for _, src := range sources {
		v := src[t]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN(), 0
	}
	return sum / float64(count), count
}

// cleanSources repairs each aligned source column by interpolation and fill.
// Sources with no finite values at all stay entirely NaN.
func cleanSources(raw [][]float64, horizon []time.Time) [][]float64 {
	cleaned := make([][]float64, len(raw))
	for i, src := range raw {
		cleaned[i] = src
		s, err := timeseries.NewWithDates(horizon, src)
		if err != nil {
			continue
		}
		repaired, err := timeseries.Sanitize(timeseries.Interpolate(s))
		if err != nil {
			continue
		}
		cleaned[i] = repaired.Values
	}
	return cleaned
}

// historicalMean is the all-sources-failed fallback value.
func historicalMean(history *timeseries.Series) float64 {
	if history == nil || history.Len() == 0 {
		return 0
	}
	mean, count := history.FiniteMean()
	if count == 0 {
		return 0
	}
	return mean
}
