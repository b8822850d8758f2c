package stats

import (
	"math"

	"github.com/sartorproj/storecast/timeseries"
)

// NDiffs determines the number of first differences required for stationarity.
// Uses the KPSS test by default. Returns a value in [0, maxD].
// testType can be "kpss" (default) or "adf".
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}
	if testType == "" {
		testType = "kpss"
	}

	current := series
	for d := 0; d < maxD; d++ {
		isStationary := false

		if testType == "adf" {
			result := ADF(current, 0)
			if result != nil && result.IsStationary {
				isStationary = true
			}
		} else {
			result := KPSS(current, "c", 0)
			if result != nil && result.IsStationary {
				isStationary = true
			}
		}

		if isStationary {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}

	return maxD
}

// NSDiffs determines the number of seasonal differences required.
// Uses the seasonal strength measure: if F_S >= 0.64 one seasonal difference
// is suggested. period is the seasonal period (e.g. 7 for daily data with
// weekly seasonality).
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		strength := seasonalStrength(current, period)
		if strength < 0.64 {
			return d
		}

		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d
		}
	}

	return maxD
}

// seasonalStrength calculates the strength of seasonality,
// F_S = max(0, 1 - Var(R) / Var(S+R)), with S the seasonal component and
// R the residual of an additive decomposition.
func seasonalStrength(series *timeseries.Series, period int) float64 {
	if series.Len() < 2*period {
		return 0
	}

	decomp := Decompose(series, period, "additive")
	if decomp == nil {
		return 0
	}

	varR := nanVariance(decomp.Residual.Values)

	seasonalPlusResid := make([]float64, len(decomp.Seasonal.Values))
	for i := range seasonalPlusResid {
		if !math.IsNaN(decomp.Seasonal.Values[i]) && !math.IsNaN(decomp.Residual.Values[i]) {
			seasonalPlusResid[i] = decomp.Seasonal.Values[i] + decomp.Residual.Values[i]
		}
	}
	varSR := nanVariance(seasonalPlusResid)

	if varSR == 0 {
		return 0
	}

	strength := 1 - varR/varSR
	if strength < 0 {
		strength = 0
	}
	return strength
}

// nanVariance calculates the sample variance of a slice, ignoring NaN values.
func nanVariance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	n := len(valid)
	if n < 2 {
		return 0
	}

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	mean := sum / float64(n)

	sumSq := 0.0
	for _, v := range valid {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(n-1)
}

// InformationCriteria holds the common model selection criteria.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates AIC, AICc, and BIC from a log-likelihood.
// nObs is the number of observations and nParams the number of estimated
// parameters.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	var aicc float64
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	} else {
		aicc = math.Inf(1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}
