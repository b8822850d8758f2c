package stats

import (
	"math"

	"github.com/sartorproj/storecast/timeseries"
)

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // Critical values at 1%, 5%, 10%
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test for unit root.
// The null hypothesis is that the series has a unit root (is non-stationary).
// If p-value < 0.05, we reject the null and conclude the series is stationary.
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	// Default lag selection (floor of (n-1)^(1/3))
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()

	// Regression: delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i}) + epsilon
	// We test beta = 0 (unit root) vs beta < 0 (stationary).
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	y := make([]float64, nObs)
	x := make([][]float64, nObs)

	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff.Values[t]

		x[i] = make([]float64, 2+maxLag)
		x[i][0] = 1                // constant
		x[i][1] = series.Values[t] // lagged level
		for j := 1; j <= maxLag; j++ {
			x[i][1+j] = diff.Values[t-j] // lagged differences
		}
	}

	coeffs, se := OLS(x, y)
	if coeffs == nil || se == nil || len(coeffs) < 2 || len(se) < 2 || se[1] == 0 {
		return nil
	}

	tStat := coeffs[1] / se[1]

	// Approximate critical values for the constant-only regression.
	criticalVals := map[string]float64{
		"1%":  -3.43,
		"5%":  -2.86,
		"10%": -2.57,
	}

	pValue := mackinnonPValue(tStat)
	isStationary := pValue < 0.05

	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		CriticalVals: criticalVals,
		IsStationary: isStationary,
	}
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for stationarity.
// The null hypothesis is that the series is stationary.
// regression is "c" for level stationarity or "ct" for trend stationarity.
func KPSS(series *timeseries.Series, regression string, nlags int) *KPSSResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	residuals := make([]float64, n)

	if regression == "ct" {
		// Remove constant and linear trend: y = a + b*t + residual.
		sumT, sumY, sumTY, sumT2 := 0.0, 0.0, 0.0, 0.0
		for i, v := range series.Values {
			t := float64(i)
			sumT += t
			sumY += v
			sumTY += t * v
			sumT2 += t * t
		}
		nf := float64(n)
		b := (nf*sumTY - sumT*sumY) / (nf*sumT2 - sumT*sumT)
		a := (sumY - b*sumT) / nf
		for i, v := range series.Values {
			residuals[i] = v - a - b*float64(i)
		}
	} else {
		mean := series.Mean()
		for i, v := range series.Values {
			residuals[i] = v - mean
		}
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Long-run variance estimator (Newey-West with Bartlett weights).
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)

	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1.0 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}

	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	kpssStat := etaSq / (float64(n) * float64(n) * s2)

	var criticalVals map[string]float64
	if regression == "ct" {
		criticalVals = map[string]float64{
			"10%": 0.119,
			"5%":  0.146,
			"1%":  0.216,
		}
	} else {
		criticalVals = map[string]float64{
			"10%": 0.347,
			"5%":  0.463,
			"1%":  0.739,
		}
	}

	pValue := kpssPValue(kpssStat, regression)

	// For KPSS the null is stationarity, so stationary means not rejecting.
	isStationary := pValue >= 0.05

	return &KPSSResult{
		Statistic:    kpssStat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: isStationary,
	}
}

// mackinnonPValue approximates the p-value for the ADF statistic using the
// MacKinnon (1994) response surface for the constant-only regression.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue approximates the p-value for the KPSS statistic.
func kpssPValue(stat float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case stat > 0.216:
			return 0.01
		case stat > 0.146:
			return 0.05
		case stat > 0.119:
			return 0.10
		default:
			return 0.10 + (0.119-stat)*2
		}
	}

	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
