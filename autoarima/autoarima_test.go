package autoarima

import (
	"math"
	"testing"

	"github.com/sartorproj/storecast/timeseries"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.MaxP != 5 {
		t.Errorf("Expected MaxP=5, got %d", config.MaxP)
	}
	if config.MaxD != 2 {
		t.Errorf("Expected MaxD=2, got %d", config.MaxD)
	}
	if config.MaxQ != 5 {
		t.Errorf("Expected MaxQ=5, got %d", config.MaxQ)
	}
	if config.Criterion != "aicc" {
		t.Errorf("Expected Criterion='aicc', got %s", config.Criterion)
	}
	if config.Stepwise != true {
		t.Error("Expected Stepwise=true")
	}
}

func TestSearchStationary(t *testing.T) {
	// Stationary AR(1) data
	n := 200
	phi := 0.6
	values := make([]float64, n)
	values[0] = 100

	for i := 1; i < n; i++ {
		innovation := float64(i%7-3) / 3
		values[i] = phi*(values[i-1]-100) + 100 + innovation
	}

	series := timeseries.FromValues(values)
	config := DefaultConfig()
	config.MaxP = 3
	config.MaxQ = 3
	config.Stepwise = true

	result, err := Search(series, config)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	t.Logf("Selected model: ARIMA(%d,%d,%d)", result.P, result.D, result.Q)
	t.Logf("AICc: %f, BIC: %f", result.AICc, result.BIC)
	t.Logf("Models evaluated: %d", result.ModelsEvaluated)

	// D should be low for stationary data
	if result.D > 1 {
		t.Logf("Warning: D=%d for stationary data", result.D)
	}
}

func TestSearchNonStationary(t *testing.T) {
	// Random walk (needs differencing)
	n := 200
	values := make([]float64, n)
	values[0] = 100

	for i := 1; i < n; i++ {
		values[i] = values[i-1] + float64(i%5-2)/2
	}

	series := timeseries.FromValues(values)
	config := DefaultConfig()
	config.MaxP = 2
	config.MaxQ = 2

	result, err := Search(series, config)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	t.Logf("Selected model: ARIMA(%d,%d,%d)", result.P, result.D, result.Q)
	t.Logf("AICc: %f", result.AICc)

	if result.D == 0 {
		t.Log("Note: D=0 selected for trending data")
	}
}

func TestSearchPredict(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + float64(i)/10 + float64(i%5-2)
	}

	series := timeseries.FromValues(values)
	config := DefaultConfig()
	config.MaxP = 2
	config.MaxQ = 2

	result, err := Search(series, config)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	forecasts, err := result.Predict(5)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(forecasts) != 5 {
		t.Errorf("Expected 5 forecasts, got %d", len(forecasts))
	}

	t.Logf("Forecasts: %v", forecasts)

	for i, f := range forecasts {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("Forecast %d is NaN or Inf", i)
		}
	}
}

func TestSearchResiduals(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + float64(i%5-2)
	}

	series := timeseries.FromValues(values)

	result, err := Search(series, DefaultConfig())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	residuals := result.Residuals()
	if residuals == nil {
		t.Error("Residuals should not be nil")
	}

	if len(residuals) > 0 {
		sum := 0.0
		for _, r := range residuals {
			sum += r
		}
		t.Logf("Mean of residuals: %f", sum/float64(len(residuals)))
	}
}

func TestSearchBICCriterion(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + float64(i%7-3)/2
	}

	series := timeseries.FromValues(values)

	configAIC := DefaultConfig()
	configAIC.Criterion = "aic"
	configAIC.MaxP = 2
	configAIC.MaxQ = 2

	resultAIC, err := Search(series, configAIC)
	if err != nil {
		t.Fatalf("Search with AIC failed: %v", err)
	}

	configBIC := DefaultConfig()
	configBIC.Criterion = "bic"
	configBIC.MaxP = 2
	configBIC.MaxQ = 2

	resultBIC, err := Search(series, configBIC)
	if err != nil {
		t.Fatalf("Search with BIC failed: %v", err)
	}

	t.Logf("AIC criterion: ARIMA(%d,%d,%d), AIC=%f",
		resultAIC.P, resultAIC.D, resultAIC.Q, resultAIC.AIC)
	t.Logf("BIC criterion: ARIMA(%d,%d,%d), BIC=%f",
		resultBIC.P, resultBIC.D, resultBIC.Q, resultBIC.BIC)
}

func TestSearchExhaustive(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + 0.5*float64(i%7-3)
	}

	series := timeseries.FromValues(values)
	config := DefaultConfig()
	config.Stepwise = false
	config.MaxP = 2
	config.MaxQ = 2

	result, err := Search(series, config)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	t.Logf("Exhaustive search: ARIMA(%d,%d,%d)", result.P, result.D, result.Q)
	t.Logf("Models evaluated: %d", result.ModelsEvaluated)

	if result.ModelsEvaluated < 5 {
		t.Log("Note: Exhaustive search evaluated fewer models than expected")
	}
}

func TestSearchADFTest(t *testing.T) {
	n := 150
	values := make([]float64, n)
	values[0] = 100

	for i := 1; i < n; i++ {
		values[i] = values[i-1] + 0.5 + float64(i%5-2)/5
	}

	series := timeseries.FromValues(values)
	config := DefaultConfig()
	config.StationTest = "adf"
	config.MaxP = 2
	config.MaxQ = 2

	result, err := Search(series, config)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	t.Logf("ADF test selected: ARIMA(%d,%d,%d)", result.P, result.D, result.Q)
}

func TestSearchNilConfig(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + float64(i%5-2)
	}

	series := timeseries.FromValues(values)

	result, err := Search(series, nil)
	if err != nil {
		t.Fatalf("Search with nil config failed: %v", err)
	}

	t.Logf("With nil config: ARIMA(%d,%d,%d)", result.P, result.D, result.Q)
}

func TestSearchRejectsGappySeries(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i%5)
	}
	values[20] = math.NaN()

	series := timeseries.FromValues(values)
	if _, err := Search(series, DefaultConfig()); err == nil {
		t.Error("expected error for series with missing values")
	}
}
