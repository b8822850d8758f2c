// Package seasreg provides an additive regression forecaster for seasonal
// series. The target is modeled as an intercept, an optional linear trend,
// Fourier harmonic terms at a fixed seasonal period, and optional named
// exogenous regressors, all estimated jointly by ordinary least squares.
//
// Unlike ARIMA-family models, forecasts are a direct function of the time
// index, so the model extrapolates trend and seasonality arbitrarily far
// ahead without recursion. Future values for every fitted regressor must be
// supplied at prediction time.
//
// Usage:
//
//	model := seasreg.New(&seasreg.Config{Period: 7, FourierOrder: 3, Trend: true})
//	err := model.Fit(series, map[string][]float64{"price": prices})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	forecasts, err := model.Predict(16, map[string][]float64{"price": futurePrices})
//	if err != nil {
//		log.Fatal(err)
//	}
package seasreg
