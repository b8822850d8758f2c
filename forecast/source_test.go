package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sartorproj/storecast/sarimax"
	"github.com/sartorproj/storecast/timeseries"
)

func trendingSeries(n int) *timeseries.Series {
	pattern := []float64{10, 12, 11, 14, 18, 25, 22}
	values := make([]float64, n)
	for i := range values {
		values[i] = 100 + 0.4*float64(i) + pattern[i%7]
	}
	return timeseries.New(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), values)
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Untrained:      "untrained",
		Fitting:        "fitting",
		Trained:        "trained",
		FitFailed:      "fit_failed",
		Forecasting:    "forecasting",
		Forecasted:     "forecasted",
		ForecastFailed: "forecast_failed",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	terminal := []State{Forecasted, FitFailed, ForecastFailed}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
	nonTerminal := []State{Untrained, Fitting, Trained, Forecasting}
	for _, s := range nonTerminal {
		if s.Terminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}

func TestARIMASourceLifecycle(t *testing.T) {
	src := NewARIMASource(nil)
	if src.State() != Untrained {
		t.Fatalf("expected untrained, got %v", src.State())
	}

	target := trendingSeries(120)
	if err := src.Fit(target, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if src.State() != Trained {
		t.Fatalf("expected trained, got %v", src.State())
	}

	series, err := src.Forecast(16)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if src.State() != Forecasted {
		t.Errorf("expected forecasted, got %v", src.State())
	}
	if series.Len() != 16 {
		t.Errorf("expected 16 values, got %d", series.Len())
	}

	wantFirst := timeseries.Day(target.LastDate().AddDate(0, 0, 1))
	if !series.Dates[0].Equal(wantFirst) {
		t.Errorf("forecast starts at %v, want %v", series.Dates[0], wantFirst)
	}
	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("forecast %d is not finite: %v", i, v)
		}
	}
}

func TestARIMASourceForecastBeforeFit(t *testing.T) {
	src := NewARIMASource(nil)
	if _, err := src.Forecast(5); err == nil {
		t.Error("expected error forecasting an untrained source")
	}
}

func TestARIMASourceFitFailure(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(i)
	}
	values[10] = math.NaN()
	target := timeseries.FromValues(values)

	src := NewARIMASource(nil)
	err := src.Fit(target, nil)
	if err == nil {
		t.Fatal("expected fit failure on gappy series")
	}
	if src.State() != FitFailed {
		t.Errorf("expected fit_failed, got %v", src.State())
	}
	var fitErr *FitError
	if !errors.As(err, &fitErr) {
		t.Errorf("expected *FitError, got %T", err)
	}
}

func TestSARIMAXSourceDegradesOnBadExog(t *testing.T) {
	target := trendingSeries(120)

	// One driver column with the wrong number of rows cannot be regressed
	// out; the source must retry without drivers.
	bad := &Exog{
		Names:   []string{"oil"},
		History: [][]float64{{1}, {2}, {3}},
		Future:  [][]float64{{1}},
	}

	src := NewSARIMAXSource(sarimax.Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 0, M: 7})
	if err := src.Fit(target, bad); err != nil {
		t.Fatalf("expected reduced-capability fit to succeed, got %v", err)
	}
	if src.State() != Trained {
		t.Fatalf("expected trained, got %v", src.State())
	}

	series, err := src.Forecast(16)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if series.Len() != 16 {
		t.Errorf("expected 16 values, got %d", series.Len())
	}
}

func TestSARIMAXSourceWithExog(t *testing.T) {
	target := trendingSeries(140)
	horizon := timeseries.Horizon(target.LastDate(), 14)

	driverVals := make([]float64, 140)
	for i := range driverVals {
		driverVals[i] = 50 + 0.1*float64(i)
	}
	driver := timeseries.New(target.Dates[0], driverVals)

	exog := BuildExog(target, horizon, map[string]*timeseries.Series{"oil": driver})

	src := NewSARIMAXSource(sarimax.Order{P: 1, D: 1, Q: 1, SP: 0, SD: 1, SQ: 0, M: 7})
	if err := src.Fit(target, exog); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	series, err := src.Forecast(14)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if src.State() != Forecasted {
		t.Errorf("expected forecasted, got %v", src.State())
	}
	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("forecast %d is not finite: %v", i, v)
		}
	}
}

func TestSARIMAXSourceAutoSeasonalDifferencing(t *testing.T) {
	target := trendingSeries(140)

	src := NewSARIMAXSource(sarimax.Order{P: 1, D: 1, Q: 0, SP: 0, SD: -1, SQ: 0, M: 7})
	if err := src.Fit(target, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if src.sd < 0 {
		t.Errorf("expected resolved seasonal differencing, got %d", src.sd)
	}

	if _, err := src.Forecast(7); err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
}

func TestRegressionSourceDegradesOnBadRegressor(t *testing.T) {
	target := trendingSeries(120)

	history := newRows(120)
	for i := range history {
		history[i] = []float64{math.NaN()}
	}
	bad := &Exog{
		Names:   []string{"promo"},
		History: history,
		Future:  newRows(16),
	}

	src := NewRegressionSource(nil)
	if err := src.Fit(target, bad); err != nil {
		t.Fatalf("expected zero-regressor retry to succeed, got %v", err)
	}

	series, err := src.Forecast(16)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if series.Len() != 16 {
		t.Errorf("expected 16 values, got %d", series.Len())
	}
}

func TestRegressionSourceLifecycle(t *testing.T) {
	target := trendingSeries(120)
	horizon := timeseries.Horizon(target.LastDate(), 10)

	promoVals := make([]float64, 120)
	for i := range promoVals {
		promoVals[i] = float64(i % 2)
	}
	promo := timeseries.New(target.Dates[0], promoVals)

	exog := BuildExog(target, horizon, map[string]*timeseries.Series{"promo": promo})

	src := NewRegressionSource(nil)
	if err := src.Fit(target, exog); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	series, err := src.Forecast(10)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if src.State() != Forecasted {
		t.Errorf("expected forecasted, got %v", src.State())
	}
	if series.Len() != 10 {
		t.Errorf("expected 10 values, got %d", series.Len())
	}
}

func TestRegressionSourceDegradesOnShortFutureRegressors(t *testing.T) {
	target := trendingSeries(120)
	horizon := timeseries.Horizon(target.LastDate(), 10)

	promoVals := make([]float64, 120)
	for i := range promoVals {
		promoVals[i] = float64(i % 2)
	}
	promo := timeseries.New(target.Dates[0], promoVals)

	exog := BuildExog(target, horizon, map[string]*timeseries.Series{"promo": promo})

	src := NewRegressionSource(nil)
	if err := src.Fit(target, exog); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// The future regressor values cover only 10 steps; asking for 16 must
	// refit without regressors rather than fail.
	series, err := src.Forecast(16)
	if err != nil {
		t.Fatalf("expected regressor-free retry to succeed, got %v", err)
	}
	if src.State() != Forecasted {
		t.Errorf("expected forecasted, got %v", src.State())
	}
	if series.Len() != 16 {
		t.Fatalf("expected 16 values, got %d", series.Len())
	}
	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("forecast %d is not finite: %v", i, v)
		}
	}
}

func TestBuildExogAlignsAndFills(t *testing.T) {
	target := trendingSeries(10)
	horizon := timeseries.Horizon(target.LastDate(), 4)

	// Driver misses the middle target date and all horizon dates past the
	// first.
	driverDates := append([]time.Time{}, target.Dates...)
	driverVals := []float64{1, 2, 3, 4, math.NaN(), 6, 7, 8, 9, 10}
	driverDates = append(driverDates, horizon[0])
	driverVals = append(driverVals, 42)
	driver, err := timeseries.NewWithDates(driverDates, driverVals)
	if err != nil {
		t.Fatalf("building driver: %v", err)
	}

	exog := BuildExog(target, horizon, map[string]*timeseries.Series{"oil": driver})

	if exog.Empty() {
		t.Fatal("driver should have survived alignment")
	}
	cols := exog.HistoryColumns()
	if got := cols["oil"][4]; math.Abs(got-5) > 1e-12 {
		t.Errorf("expected interpolated 5 at the gap, got %v", got)
	}

	fut := exog.FutureColumns()["oil"]
	if fut[0] != 42 {
		t.Errorf("expected known horizon value 42, got %v", fut[0])
	}
	for i := 1; i < len(fut); i++ {
		if fut[i] != 42 {
			t.Errorf("horizon date %d: expected forward-filled 42, got %v", i, fut[i])
		}
	}
}

func TestBuildExogDropsUnusableDriver(t *testing.T) {
	target := trendingSeries(10)
	horizon := timeseries.Horizon(target.LastDate(), 4)

	empty := timeseries.New(target.Dates[0], []float64{math.NaN(), math.NaN(), math.NaN()})

	exog := BuildExog(target, horizon, map[string]*timeseries.Series{"ghost": empty})
	if !exog.Empty() {
		t.Error("expected no surviving drivers")
	}
	if len(exog.Dropped) != 1 || exog.Dropped[0] != "ghost" {
		t.Errorf("expected ghost in Dropped, got %v", exog.Dropped)
	}
	if exog.HistoryMatrix() != nil {
		t.Error("expected nil matrix for empty exog")
	}
}
