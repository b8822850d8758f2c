// Package autoarima implements automatic ARIMA order selection.
package autoarima

import (
	"errors"
	"math"

	"github.com/sartorproj/storecast/arima"
	"github.com/sartorproj/storecast/stats"
	"github.com/sartorproj/storecast/timeseries"
)

// Config holds configuration for the automatic order search.
type Config struct {
	MaxP        int    // Maximum AR order (default: 5)
	MaxD        int    // Maximum differencing order (default: 2)
	MaxQ        int    // Maximum MA order (default: 5)
	Stepwise    bool   // Use stepwise search instead of exhaustive
	Criterion   string // Information criterion: "aic", "aicc" or "bic" (default: "aicc")
	StationTest string // Stationarity test for d: "adf" or "kpss" (default: "kpss")
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:        5,
		MaxD:        2,
		MaxQ:        5,
		Stepwise:    true,
		Criterion:   "aicc",
		StationTest: "kpss",
	}
}

// Result represents the outcome of an automatic order search.
type Result struct {
	Model *arima.Model

	P int
	D int
	Q int

	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	Criterion float64

	ModelsEvaluated int
}

// Search selects the best ARIMA(p,d,q) model for the series. The
// differencing order is chosen by unit-root testing, then (p,q) by stepwise
// or exhaustive search minimizing the configured information criterion.
func Search(series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}

	d := stats.NDiffs(series, config.MaxD, config.StationTest)

	var result *Result
	if config.Stepwise {
		result = stepwiseSearch(series, d, config)
	} else {
		result = gridSearch(series, d, config)
	}

	if result.Model == nil {
		return nil, errors.New("no candidate model could be fitted")
	}
	return result, nil
}

func criterionOf(model *arima.Model, criterion string) float64 {
	switch criterion {
	case "bic":
		return model.BIC
	case "aic":
		return model.AIC
	default:
		return model.AICc
	}
}

// gridSearch evaluates every (p,q) pair up to the configured maxima.
func gridSearch(series *timeseries.Series, d int, config *Config) *Result {
	best := &Result{Criterion: math.Inf(1), D: d}
	modelsEvaluated := 0

	for p := 0; p <= config.MaxP; p++ {
		for q := 0; q <= config.MaxQ; q++ {
			model := arima.New(p, d, q)
			if err := model.Fit(series); err != nil {
				continue
			}

			modelsEvaluated++
			criterion := criterionOf(model, config.Criterion)
			if criterion < best.Criterion {
				best = resultFor(model, p, d, q, criterion)
			}
		}
	}

	best.ModelsEvaluated = modelsEvaluated
	return best
}

// stepwiseSearch starts from a small set of candidate orders and walks to
// neighboring orders while the criterion improves.
func stepwiseSearch(series *timeseries.Series, d int, config *Config) *Result {
	type spec struct {
		p, q int
	}

	startSpecs := []spec{
		{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 2},
	}

	bestSpec := spec{0, 0}
	bestCriterion := math.Inf(1)
	var bestModel *arima.Model
	modelsEvaluated := 0

	for _, s := range startSpecs {
		if s.p > config.MaxP || s.q > config.MaxQ {
			continue
		}

		model := arima.New(s.p, d, s.q)
		if err := model.Fit(series); err != nil {
			continue
		}

		modelsEvaluated++
		if c := criterionOf(model, config.Criterion); c < bestCriterion {
			bestCriterion = c
			bestSpec = s
			bestModel = model
		}
	}

	improved := bestModel != nil
	for improved {
		improved = false

		neighbors := []spec{
			{bestSpec.p + 1, bestSpec.q},
			{bestSpec.p - 1, bestSpec.q},
			{bestSpec.p, bestSpec.q + 1},
			{bestSpec.p, bestSpec.q - 1},
			{bestSpec.p + 1, bestSpec.q + 1},
			{bestSpec.p - 1, bestSpec.q - 1},
		}

		for _, s := range neighbors {
			if s.p < 0 || s.p > config.MaxP || s.q < 0 || s.q > config.MaxQ {
				continue
			}

			model := arima.New(s.p, d, s.q)
			if err := model.Fit(series); err != nil {
				continue
			}

			modelsEvaluated++
			if c := criterionOf(model, config.Criterion); c < bestCriterion {
				bestCriterion = c
				bestSpec = s
				bestModel = model
				improved = true
			}
		}
	}

	if bestModel == nil {
		return &Result{Criterion: math.Inf(1), D: d, ModelsEvaluated: modelsEvaluated}
	}

	result := resultFor(bestModel, bestSpec.p, d, bestSpec.q, bestCriterion)
	result.ModelsEvaluated = modelsEvaluated
	return result
}

func resultFor(model *arima.Model, p, d, q int, criterion float64) *Result {
	return &Result{
		Model:     model,
		P:         p,
		D:         d,
		Q:         q,
		AIC:       model.AIC,
		AICc:      model.AICc,
		BIC:       model.BIC,
		LogLik:    model.LogLik,
		Criterion: criterion,
	}
}

// Predict generates forecasts using the selected model.
func (r *Result) Predict(steps int) ([]float64, error) {
	if r.Model == nil {
		return nil, errors.New("no model selected")
	}
	return r.Model.Predict(steps)
}

// Residuals returns the selected model's residuals.
func (r *Result) Residuals() []float64 {
	if r.Model == nil {
		return nil
	}
	return r.Model.Residuals()
}
