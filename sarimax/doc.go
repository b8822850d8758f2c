// Package sarimax implements seasonal ARIMA models with optional exogenous
// regressors (SARIMAX).
//
// A SARIMAX(p,d,q)(P,D,Q,m) model adds seasonal AR, differencing, and MA
// terms at period m to a non-seasonal ARIMA, and can absorb external drivers
// through a linear regression on an exogenous matrix fitted before the ARIMA
// stage:
//
//	model := sarimax.New(1, 1, 1, 1, 1, 1, 7) // weekly seasonality
//	err := model.Fit(series, exog)            // exog may be nil
//	forecasts, err := model.Predict(16, exogFuture)
//
// When fitted with an exogenous matrix, Predict requires the future values of
// the same regressors, one row per forecast step. Prediction intervals are
// available through PredictWithInterval.
package sarimax
