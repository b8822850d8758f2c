// Package seasreg implements an additive seasonal regression forecaster.
package seasreg

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sartorproj/storecast/stats"
	"github.com/sartorproj/storecast/timeseries"
)

// Config holds configuration for the seasonal regression model.
type Config struct {
	Period       int  // Seasonal period in observations (e.g. 7 for daily data)
	FourierOrder int  // Number of sin/cos harmonic pairs
	Trend        bool // Include a linear trend term
}

// DefaultConfig returns the default configuration: weekly seasonality with
// three harmonics and a linear trend.
func DefaultConfig() *Config {
	return &Config{
		Period:       7,
		FourierOrder: 3,
		Trend:        true,
	}
}

// Model represents a fitted additive regression forecaster. The target is
// modeled as intercept + trend + Fourier seasonal terms + named regressors,
// estimated jointly by least squares.
type Model struct {
	Config Config

	coeffs    []float64
	regNames  []string
	nObs      int
	residuals []float64
	fitted    bool
}

// New creates a new seasonal regression model.
func New(cfg *Config) *Model {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.Period < 2 {
		c.Period = 7
	}
	if c.FourierOrder < 1 {
		c.FourierOrder = 3
	}
	return &Model{Config: c}
}

// RegressorNames returns the names of the regressors the model was fitted
// with, in design-matrix order.
func (m *Model) RegressorNames() []string {
	out := make([]string, len(m.regNames))
	copy(out, m.regNames)
	return out
}

// Fit fits the model to a fully defined series. regressors maps a name to a
// column of the same length as the series; it may be nil or empty for a pure
// trend-plus-seasonality fit.
func (m *Model) Fit(series *timeseries.Series, regressors map[string][]float64) error {
	if series.HasGaps() {
		return errors.New("series contains missing or invalid values")
	}

	n := series.Len()
	m.regNames = sortedNames(regressors)

	for _, name := range m.regNames {
		col := regressors[name]
		if len(col) != n {
			return fmt.Errorf("regressor %q has %d values, series has %d", name, len(col), n)
		}
		for _, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("regressor %q contains missing or invalid values", name)
			}
		}
	}

	k := m.columns()
	if n < k+10 {
		return errors.New("insufficient data points for the design matrix")
	}

	x := make([][]float64, n)
	for t := 0; t < n; t++ {
		x[t] = m.designRow(t, func(name string) float64 {
			return regressors[name][t]
		})
	}

	coeffs, _ := stats.OLS(x, series.Values)
	if coeffs == nil {
		return errors.New("design matrix is singular")
	}
	m.coeffs = coeffs
	m.nObs = n

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		pred := 0.0
		for j, c := range coeffs {
			pred += c * x[t][j]
		}
		m.residuals[t] = series.Values[t] - pred
	}

	m.fitted = true
	return nil
}

// Predict generates forecasts for the specified number of steps ahead.
// future must supply one column of length steps for every regressor the model
// was fitted with; it may be nil when the model has no regressors.
func (m *Model) Predict(steps int, future map[string][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	for _, name := range m.regNames {
		col, ok := future[name]
		if !ok {
			return nil, fmt.Errorf("future values for regressor %q are required", name)
		}
		if len(col) != steps {
			return nil, fmt.Errorf("regressor %q has %d future values, want %d", name, len(col), steps)
		}
	}

	forecasts := make([]float64, steps)
	for h := 0; h < steps; h++ {
		t := m.nObs + h
		row := m.designRow(t, func(name string) float64 {
			return future[name][h]
		})
		pred := 0.0
		for j, c := range m.coeffs {
			pred += c * row[j]
		}
		forecasts[h] = pred
	}

	return forecasts, nil
}

// Residuals returns the in-sample residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// columns returns the width of the design matrix.
func (m *Model) columns() int {
	k := 1 + 2*m.Config.FourierOrder + len(m.regNames)
	if m.Config.Trend {
		k++
	}
	return k
}

// designRow builds the design-matrix row for time index t. reg resolves the
// value of a named regressor at that index.
func (m *Model) designRow(t int, reg func(name string) float64) []float64 {
	row := make([]float64, 0, m.columns())
	row = append(row, 1)
	if m.Config.Trend {
		row = append(row, float64(t))
	}

	omega := 2 * math.Pi / float64(m.Config.Period)
	for k := 1; k <= m.Config.FourierOrder; k++ {
		angle := omega * float64(k) * float64(t)
		row = append(row, math.Sin(angle), math.Cos(angle))
	}

	for _, name := range m.regNames {
		row = append(row, reg(name))
	}
	return row
}

func sortedNames(regressors map[string][]float64) []string {
	names := make([]string, 0, len(regressors))
	for name := range regressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
