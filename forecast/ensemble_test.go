package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/sartorproj/storecast/timeseries"
)

func horizonFrom(start time.Time, steps int) []time.Time {
	return timeseries.Horizon(start.AddDate(0, 0, -1), steps)
}

func constSeries(start time.Time, steps int, v float64) *timeseries.Series {
	values := make([]float64, steps)
	for i := range values {
		values[i] = v
	}
	return timeseries.New(start, values)
}

func TestCombineMeanOfFiniteValues(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := horizonFrom(start, 3)

	a := timeseries.New(start, []float64{10, 10, 10})
	b := timeseries.New(start, []float64{math.NaN(), 20, 20})
	c := timeseries.New(start, []float64{30, 30, 30})
	history := timeseries.FromValues([]float64{100, 100, 100})

	ensemble := Combine(horizon, []*timeseries.Series{a, b, c}, history)

	// First date: only 10 and 30 are finite, so the mean is 20.
	if got := ensemble.Series.Values[0]; math.Abs(got-20) > 1e-12 {
		t.Errorf("expected mean 20 for [10, NaN, 30], got %v", got)
	}
	if ensemble.Contributors[0] != 2 {
		t.Errorf("expected 2 contributors at date 0, got %d", ensemble.Contributors[0])
	}
	if got := ensemble.Series.Values[1]; math.Abs(got-20) > 1e-12 {
		t.Errorf("expected mean 20 at date 1, got %v", got)
	}
	if ensemble.Contributors[1] != 3 {
		t.Errorf("expected 3 contributors at date 1, got %d", ensemble.Contributors[1])
	}
	if ensemble.Degraded {
		t.Error("ensemble should not be degraded with live sources")
	}
}

func TestCombineAllSourcesFailed(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := horizonFrom(start, 15)

	history := timeseries.FromValues([]float64{110, 120, 130})
	ensemble := Combine(horizon, nil, history)

	if !ensemble.Degraded {
		t.Error("expected degraded ensemble when no source succeeded")
	}
	for i, v := range ensemble.Series.Values {
		if math.Abs(v-120) > 1e-12 {
			t.Errorf("date %d: expected historical mean 120, got %v", i, v)
		}
	}
	if len(ensemble.Series.Values) != 15 {
		t.Errorf("expected 15 horizon values, got %d", len(ensemble.Series.Values))
	}
}

func TestCombineNeverReturnsNonFinite(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := horizonFrom(start, 5)

	a := timeseries.New(start, []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()})
	b := timeseries.New(start, []float64{math.Inf(1), 2, math.NaN(), 4, math.NaN()})
	history := timeseries.FromValues([]float64{50, 60, 70})

	ensemble := Combine(horizon, []*timeseries.Series{a, b}, history)

	for i, v := range ensemble.Series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("date %d: ensemble value not finite: %v", i, v)
		}
	}
}

func TestCombineCleansGapsBeforeFallback(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := horizonFrom(start, 3)

	// The single source misses the middle date; interpolation should bridge
	// it from the neighbors instead of using the historical mean.
	a := timeseries.New(start, []float64{10, math.NaN(), 30})
	history := timeseries.FromValues([]float64{1000, 1000})

	ensemble := Combine(horizon, []*timeseries.Series{a}, history)

	if got := ensemble.Series.Values[1]; math.Abs(got-20) > 1e-9 {
		t.Errorf("expected interpolated 20 at the gap, got %v", got)
	}
	if ensemble.Contributors[1] != 0 {
		t.Errorf("expected 0 raw contributors at the gap, got %d", ensemble.Contributors[1])
	}
	if ensemble.Degraded {
		t.Error("gap repaired from the source itself should not mark the ensemble degraded")
	}
}

func TestCombinePartialCoverage(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := horizonFrom(start, 4)

	// Source only covers the first two horizon dates.
	short := timeseries.New(start, []float64{5, 7})
	history := timeseries.FromValues([]float64{40, 60})

	ensemble := Combine(horizon, []*timeseries.Series{short}, history)

	if got := ensemble.Series.Values[0]; got != 5 {
		t.Errorf("expected 5 at date 0, got %v", got)
	}
	// Trailing dates get the source's forward-filled value, not the
	// historical mean.
	if got := ensemble.Series.Values[3]; math.Abs(got-7) > 1e-12 {
		t.Errorf("expected forward-filled 7 at date 3, got %v", got)
	}
}

func TestCombineToleratesUnorderedHorizon(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := []time.Time{start.AddDate(0, 0, 2), start, start.AddDate(0, 0, 1)}

	a := timeseries.New(start, []float64{10, 20, 30})
	ensemble := Combine(horizon, []*timeseries.Series{a}, timeseries.FromValues([]float64{1}))

	if ensemble.Series == nil || ensemble.Series.Len() != 3 {
		t.Fatal("expected a fully defined series for an unordered horizon")
	}
	// Values stay positional: slot 0 carries the date two days out.
	if got := ensemble.Series.Values[0]; got != 30 {
		t.Errorf("expected 30 at slot 0, got %v", got)
	}
	if v, ok := ensemble.Value(start); !ok || v != 10 {
		t.Errorf("expected (10, true) for the start date, got (%v, %v)", v, ok)
	}
}

func TestEnsembleValueLookup(t *testing.T) {
	start := time.Date(2017, 8, 16, 0, 0, 0, 0, time.UTC)
	horizon := horizonFrom(start, 2)

	a := timeseries.New(start, []float64{11, 13})
	ensemble := Combine(horizon, []*timeseries.Series{a}, timeseries.FromValues([]float64{1}))

	if v, ok := ensemble.Value(start); !ok || v != 11 {
		t.Errorf("expected (11, true), got (%v, %v)", v, ok)
	}
	if _, ok := ensemble.Value(start.AddDate(0, 0, 10)); ok {
		t.Error("expected miss for date outside horizon")
	}

	byDate := ensemble.AggregateByDate()
	if len(byDate) != 2 {
		t.Errorf("expected 2 entries, got %d", len(byDate))
	}
	if byDate[timeseries.Day(start)] != 11 {
		t.Errorf("expected 11 for first date, got %v", byDate[timeseries.Day(start)])
	}
}
