// Package sarimax implements seasonal ARIMA models with exogenous regressors.
package sarimax

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/storecast/stats"
	"github.com/sartorproj/storecast/timeseries"
)

// Order represents SARIMAX model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (e.g., 7 for daily data with weekly seasonality)
}

// Model represents a SARIMAX model. When fitted with an exogenous matrix the
// target is first regressed on the exogenous columns and the seasonal ARIMA
// machinery models the regression residual.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Beta      []float64 // Exogenous regression coefficients (nil without exog)
	RegConst  float64   // Intercept of the exogenous regression
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64

	fitted     bool
	hasExog    bool
	data       *timeseries.Series
	arimaData  *timeseries.Series // regression residual (or the raw target)
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64
}

// New creates a new SARIMAX model with the specified order.
func New(p, d, q, sp, sd, sq, m int) *Model {
	return &Model{
		Order: Order{
			P: p, D: d, Q: q,
			SP: sp, SD: sd, SQ: sq, M: m,
		},
		ARCoeffs:  make([]float64, p),
		MACoeffs:  make([]float64, q),
		SARCoeffs: make([]float64, sp),
		SMACoeffs: make([]float64, sq),
	}
}

// HasExog reports whether the model was fitted with an exogenous matrix.
func (m *Model) HasExog() bool {
	return m.hasExog
}

// Fit fits the SARIMAX model. exog may be nil for a plain seasonal ARIMA;
// otherwise it must have one row per observation of the series. The series
// and the exogenous matrix must be fully defined.
func (m *Model) Fit(series *timeseries.Series, exog *mat.Dense) error {
	if series.HasGaps() {
		return errors.New("series contains missing or invalid values")
	}

	minLen := m.Order.P + m.Order.Q + m.Order.D +
		m.Order.SP*m.Order.M + m.Order.SD*m.Order.M + m.Order.SQ*m.Order.M + 20
	if series.Len() < minLen {
		return errors.New("insufficient data points for the specified order")
	}

	m.data = series
	m.hasExog = false
	m.Beta = nil
	m.RegConst = 0

	target := series

	if exog != nil {
		rows, cols := exog.Dims()
		if rows != series.Len() {
			return fmt.Errorf("exogenous matrix has %d rows, series has %d observations", rows, series.Len())
		}
		if cols > 0 {
			resid, err := m.regressOut(series, exog)
			if err != nil {
				return err
			}
			target = resid
			m.hasExog = true
		}
	}

	m.arimaData = target

	// Apply non-seasonal then seasonal differencing
	diffSeries := target
	for i := 0; i < m.Order.D; i++ {
		diffSeries = diffSeries.Diff()
		if diffSeries.Len() == 0 {
			return errors.New("differencing resulted in empty series")
		}
	}
	for i := 0; i < m.Order.SD; i++ {
		diffSeries = diffSeries.SeasonalDiff(m.Order.M)
		if diffSeries.Len() == 0 {
			return errors.New("seasonal differencing resulted in empty series")
		}
	}
	m.diffData = diffSeries

	if err := m.fitCSS(); err != nil {
		return err
	}

	m.calculateIC()
	m.fitted = true
	return nil
}

// regressOut fits the exogenous regression and returns the residual series.
func (m *Model) regressOut(series *timeseries.Series, exog *mat.Dense) (*timeseries.Series, error) {
	n := series.Len()
	_, cols := exog.Dims()

	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, cols+1)
		row[0] = 1
		for j := 0; j < cols; j++ {
			v := exog.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.New("exogenous matrix contains missing or invalid values")
			}
			row[j+1] = v
		}
		x[i] = row
	}

	coeffs, _ := stats.OLS(x, series.Values)
	if coeffs == nil {
		return nil, errors.New("exogenous regression is singular")
	}

	m.RegConst = coeffs[0]
	m.Beta = coeffs[1:]

	residValues := make([]float64, n)
	for i := 0; i < n; i++ {
		pred := m.RegConst
		for j := 0; j < cols; j++ {
			pred += m.Beta[j] * exog.At(i, j)
		}
		residValues[i] = series.Values[i] - pred
	}

	resid := &timeseries.Series{
		Dates:  series.Dates,
		Values: residValues,
		Name:   series.Name + "_regresid",
	}
	return resid, nil
}

// exogContribution evaluates the fitted regression on future exogenous rows.
func (m *Model) exogContribution(steps int, exogFuture *mat.Dense) ([]float64, error) {
	if !m.hasExog {
		return make([]float64, steps), nil
	}
	if exogFuture == nil {
		return nil, errors.New("model was fitted with exogenous regressors; future values required")
	}
	rows, cols := exogFuture.Dims()
	if rows != steps || cols != len(m.Beta) {
		return nil, fmt.Errorf("future exogenous matrix is %dx%d, want %dx%d", rows, cols, steps, len(m.Beta))
	}

	contrib := make([]float64, steps)
	for i := 0; i < steps; i++ {
		v := m.RegConst
		for j := 0; j < cols; j++ {
			v += m.Beta[j] * exogFuture.At(i, j)
		}
		contrib[i] = v
	}
	return contrib, nil
}

// fitCSS fits the seasonal ARIMA part using Conditional Sum of Squares.
func (m *Model) fitCSS() error {
	y := m.diffData.Values
	p := m.Order.P
	sp := m.Order.SP
	period := m.Order.M

	m.Intercept = m.diffData.Mean()

	// Initialize AR coefficients from the ACF
	if p > 0 {
		acf := stats.ACF(m.diffData, p)
		if acf != nil {
			for i := 0; i < p && i+1 < len(acf); i++ {
				m.ARCoeffs[i] = acf[i+1] * 0.5
			}
		}
	}
	if sp > 0 {
		acf := stats.ACF(m.diffData, sp*period)
		if acf != nil {
			for i := 0; i < sp; i++ {
				idx := (i + 1) * period
				if idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}

	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}

	return m.optimizeCSS(y)
}

// optimizeCSS optimizes SARIMA parameters with momentum and a decaying
// learning rate, tracking the best solution seen.
func (m *Model) optimizeCSS(y []float64) error {
	n := len(y)
	p := m.Order.P
	q := m.Order.Q
	sp := m.Order.SP
	sq := m.Order.SQ
	period := m.Order.M

	maxIter := 200
	tolerance := 1e-8
	learningRate := 0.005
	momentum := 0.9
	decay := 0.99

	arMomentum := make([]float64, p)
	maMomentum := make([]float64, q)
	sarMomentum := make([]float64, sp)
	smaMomentum := make([]float64, sq)

	startIdx := max(max(p, q), max(sp*period, sq*period))
	if startIdx >= n-10 {
		startIdx = 0
	}

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImproveCount := 0

	for iter := 0; iter < maxIter; iter++ {
		residuals := make([]float64, n)
		currentSSE := 0.0

		for t := startIdx; t < n; t++ {
			pred := m.predictOne(y, residuals, t)
			residuals[t] = y[t] - pred
			currentSSE += residuals[t] * residuals[t]
		}

		if currentSSE < bestSSE {
			bestSSE = currentSSE
			copy(bestAR, m.ARCoeffs)
			copy(bestMA, m.MACoeffs)
			copy(bestSAR, m.SARCoeffs)
			copy(bestSMA, m.SMACoeffs)
			noImproveCount = 0
		} else {
			noImproveCount++
		}
		if noImproveCount > 20 {
			break
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)

		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sq; i++ {
				lag := (i + 1) * period
				if t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		for i := 0; i < p; i++ {
			arMomentum[i] = momentum*arMomentum[i] + learningRate*arGrad[i]/float64(n)
			m.ARCoeffs[i] = clamp(m.ARCoeffs[i]-arMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < sp; i++ {
			sarMomentum[i] = momentum*sarMomentum[i] + learningRate*sarGrad[i]/float64(n)
			m.SARCoeffs[i] = clamp(m.SARCoeffs[i]-sarMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < q; i++ {
			maMomentum[i] = momentum*maMomentum[i] + learningRate*maGrad[i]/float64(n)
			m.MACoeffs[i] = clamp(m.MACoeffs[i]-maMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < sq; i++ {
			smaMomentum[i] = momentum*smaMomentum[i] + learningRate*smaGrad[i]/float64(n)
			m.SMACoeffs[i] = clamp(m.SMACoeffs[i]-smaMomentum[i], -0.99, 0.99)
		}

		learningRate *= decay

		if iter > 0 && math.Abs(currentSSE-bestSSE) < tolerance {
			break
		}
	}

	copy(m.ARCoeffs, bestAR)
	copy(m.MACoeffs, bestMA)
	copy(m.SARCoeffs, bestSAR)
	copy(m.SMACoeffs, bestSMA)

	// Final residuals and fitted values
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)

	for t := 0; t < n; t++ {
		pred := m.predictOne(y, m.residuals, t)
		m.fittedVals[t] = pred
		m.residuals[t] = y[t] - pred
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}

	numParams := p + q + sp + sq + 1
	if count > numParams {
		m.Variance = sse / float64(count-numParams)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}

	return nil
}

// predictOne evaluates the one-step prediction at index t given the
// differenced values and the residuals computed so far.
func (m *Model) predictOne(y, residuals []float64, t int) float64 {
	period := m.Order.M
	pred := m.Intercept

	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		lag := (i + 1) * period
		if t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		pred += m.MACoeffs[i] * residuals[t-i-1]
	}
	for i := 0; i < m.Order.SQ; i++ {
		lag := (i + 1) * period
		if t-lag >= 0 {
			pred += m.SMACoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

// calculateIC calculates AIC, AICc, and BIC.
func (m *Model) calculateIC() {
	n := len(m.residuals)
	k := m.Order.P + m.Order.Q + m.Order.SP + m.Order.SQ + 1 + len(m.Beta)

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	ic := stats.CalculateIC(m.LogLik, n, k)
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Predict generates forecasts for the specified number of steps ahead.
// exogFuture must carry one row per step when the model was fitted with
// exogenous regressors, and may be nil otherwise.
func (m *Model) Predict(steps int, exogFuture *mat.Dense) ([]float64, error) {
	forecasts, _, _, err := m.PredictWithInterval(steps, 0.95, exogFuture)
	return forecasts, err
}

// PredictWithInterval generates forecasts with prediction intervals at the
// given confidence level.
func (m *Model) PredictWithInterval(steps int, confidence float64, exogFuture *mat.Dense) (forecasts, lower, upper []float64, err error) {
	if !m.fitted {
		return nil, nil, nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, nil, nil, errors.New("steps must be at least 1")
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}

	contrib, err := m.exogContribution(steps, exogFuture)
	if err != nil {
		return nil, nil, nil, err
	}

	p := m.Order.P
	q := m.Order.Q
	sp := m.Order.SP
	sq := m.Order.SQ
	d := m.Order.D
	sd := m.Order.SD
	period := m.Order.M

	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)

	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.Intercept

		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ARCoeffs[i] * (extY[t-i-1] - m.Intercept)
		}
		for i := 0; i < sp; i++ {
			lag := (i + 1) * period
			if t-lag >= 0 {
				pred += m.SARCoeffs[i] * (extY[t-lag] - m.Intercept)
			}
		}
		// Future residuals are zero
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.MACoeffs[i] * extResiduals[t-i-1]
		}
		for i := 0; i < sq; i++ {
			lag := (i + 1) * period
			if t-lag >= 0 && t-lag < n {
				pred += m.SMACoeffs[i] * extResiduals[t-lag]
			}
		}

		extY[t] = pred
		extResiduals[t] = 0
	}

	forecasts = make([]float64, steps)
	copy(forecasts, extY[n:])

	forecasts = m.integrate(forecasts)

	// Add back the exogenous regression component
	for i := range forecasts {
		forecasts[i] += contrib[i]
	}

	// Prediction intervals: residual variance grows with the horizon for
	// integrated and seasonally integrated series.
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + confidence) / 2)

	lower = make([]float64, steps)
	upper = make([]float64, steps)

	for h := 0; h < steps; h++ {
		se := math.Sqrt(m.Variance)

		growthFactor := 1.0
		if d > 0 {
			growthFactor *= math.Sqrt(float64(h + 1))
		}
		if sd > 0 && period > 0 {
			seasonalCycles := float64(h/period + 1)
			growthFactor *= math.Sqrt(seasonalCycles)
		}

		se *= growthFactor
		lower[h] = forecasts[h] - z*se
		upper[h] = forecasts[h] + z*se
	}

	return forecasts, lower, upper, nil
}

// integrate undoes differencing to return forecasts on the original scale.
// Differencing in Fit is non-seasonal first then seasonal, so integration
// undoes seasonal differencing first.
func (m *Model) integrate(forecasts []float64) []float64 {
	d := m.Order.D
	sd := m.Order.SD
	period := m.Order.M
	original := m.arimaData.Values
	n := len(original)

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	// The non-seasonally differenced series is needed to seed seasonal
	// integration.
	nonSeasonalDiff := original
	for i := 0; i < d; i++ {
		if len(nonSeasonalDiff) <= 1 {
			break
		}
		newDiff := make([]float64, len(nonSeasonalDiff)-1)
		for j := 1; j < len(nonSeasonalDiff); j++ {
			newDiff[j-1] = nonSeasonalDiff[j] - nonSeasonalDiff[j-1]
		}
		nonSeasonalDiff = newDiff
	}

	// Undo seasonal differencing: z_t = y_t - y_{t-m} => y_t = z_t + y_{t-m}
	if sd > 0 && period > 0 {
		nDiff := len(nonSeasonalDiff)
		for i := 0; i < sd; i++ {
			for j := 0; j < len(result); j++ {
				if j < period {
					idx := nDiff - period + j
					if idx >= 0 && idx < nDiff {
						result[j] += nonSeasonalDiff[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	// Undo non-seasonal differencing by cumulative sum from the last level.
	for i := 0; i < d; i++ {
		lastVal := original[n-1]
		for j := 0; j < len(result); j++ {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the fitted values.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

// Summary represents a model summary.
type Summary struct {
	Order     Order
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Beta      []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	NObs      int
	LjungBox  *stats.LjungBoxResult
}

// Summary returns a summary of the fitted model.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	residSeries := timeseries.FromValues(m.residuals)
	lb := stats.LjungBox(residSeries, 10, m.Order.P+m.Order.Q+m.Order.SP+m.Order.SQ)

	return &Summary{
		Order:     m.Order,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Beta:      m.Beta,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		LogLik:    m.LogLik,
		NObs:      m.data.Len(),
		LjungBox:  lb,
	}
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
