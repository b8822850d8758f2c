package stats

import (
	"math"

	"github.com/sartorproj/storecast/timeseries"
)

// DecompositionResult represents the decomposition of a time series.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string // "additive" or "multiplicative"
}

// Decompose performs classical seasonal decomposition of a time series using
// a centered moving average for the trend. Type can be "additive"
// (Y = T + S + R) or "multiplicative" (Y = T * S * R).
func Decompose(series *timeseries.Series, period int, decompositionType string) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}

	if decompositionType != "additive" && decompositionType != "multiplicative" {
		decompositionType = "additive"
	}

	trend := calculateTrend(series, period)

	// Detrend.
	detrended := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend.Values[i]):
			detrended[i] = math.NaN()
		case decompositionType == "multiplicative":
			if trend.Values[i] == 0 {
				detrended[i] = math.NaN()
			} else {
				detrended[i] = series.Values[i] / trend.Values[i]
			}
		default:
			detrended[i] = series.Values[i] - trend.Values[i]
		}
	}

	// Average the detrended values within each phase of the period.
	seasonalPattern := make([]float64, period)
	counts := make([]int, period)

	for i := 0; i < n; i++ {
		if !math.IsNaN(detrended[i]) {
			idx := i % period
			seasonalPattern[idx] += detrended[i]
			counts[idx]++
		}
	}
	for i := 0; i < period; i++ {
		if counts[i] > 0 {
			seasonalPattern[i] /= float64(counts[i])
		}
	}

	// Normalize the pattern so it carries no level.
	sum := 0.0
	for _, v := range seasonalPattern {
		sum += v
	}
	mean := sum / float64(period)
	for i := range seasonalPattern {
		if decompositionType == "multiplicative" {
			seasonalPattern[i] /= mean
		} else {
			seasonalPattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = seasonalPattern[i%period]
	}

	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case math.IsNaN(trend.Values[i]):
			residual[i] = math.NaN()
		case decompositionType == "multiplicative":
			if trend.Values[i] == 0 || seasonal[i] == 0 {
				residual[i] = math.NaN()
			} else {
				residual[i] = series.Values[i] / (trend.Values[i] * seasonal[i])
			}
		default:
			residual[i] = series.Values[i] - trend.Values[i] - seasonal[i]
		}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    trend,
		Seasonal: &timeseries.Series{Dates: series.Dates, Values: seasonal, Name: "seasonal"},
		Residual: &timeseries.Series{Dates: series.Dates, Values: residual, Name: "residual"},
		Period:   period,
		Type:     decompositionType,
	}
}

// calculateTrend calculates trend using a centered moving average.
func calculateTrend(series *timeseries.Series, period int) *timeseries.Series {
	n := series.Len()
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	halfPeriod := period / 2

	if period%2 == 0 {
		// Even period: 2xMA with half weight on the endpoints.
		for i := halfPeriod; i < n-halfPeriod; i++ {
			sum := series.Values[i-halfPeriod]*0.5 + series.Values[i+halfPeriod]*0.5
			for j := i - halfPeriod + 1; j < i+halfPeriod; j++ {
				sum += series.Values[j]
			}
			trend[i] = sum / float64(period)
		}
	} else {
		for i := halfPeriod; i < n-halfPeriod; i++ {
			sum := 0.0
			for j := i - halfPeriod; j <= i+halfPeriod; j++ {
				sum += series.Values[j]
			}
			trend[i] = sum / float64(period)
		}
	}

	return &timeseries.Series{Dates: series.Dates, Values: trend, Name: "trend"}
}
