// Package stats provides statistical tests and analysis functions for time
// series, used by the model packages for order selection and diagnostics.
//
// # Stationarity Tests
//
// Test whether a time series is stationary:
//
//	// Augmented Dickey-Fuller test
//	// H0: series has a unit root (non-stationary)
//	adf := stats.ADF(series, 0)
//
//	// KPSS test
//	// H0: series is stationary
//	kpss := stats.KPSS(series, "c", 0)
//
// # Differencing Analysis
//
// Determine how many differences a series needs:
//
//	d := stats.NDiffs(series, 2, "kpss")
//	sd := stats.NSDiffs(series, 7, 1) // period=7 for daily data
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 20)
//	pacf := stats.PACF(series, 20)
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // residuals are white noise (good)
//	}
//
// # Decomposition and Regression
//
// Decompose decomposes a series into trend, seasonal, and residual
// components; OLS performs least-squares regression (used by the tests above
// and by the forecasting models).
package stats
