// Package storecast forecasts aggregate daily store sales and disaggregates
// the forecast across store and product-family sub-entities.
//
// Storecast combines several independently fitted forecasting models into a
// robust per-date ensemble, then splits the aggregate by each sub-entity's
// historical share of total volume. Any model may fail to fit or forecast;
// the pipeline degrades gracefully and always emits a full prediction.
//
// # Features
//
//   - ARIMA models with automatic order selection
//   - Seasonal ARIMA with exogenous drivers regressed out (SARIMAX)
//   - Additive seasonal regression with Fourier terms and named regressors
//   - Failure-absorbing ensemble combiner with historical-mean fallback
//   - Proportional disaggregation over store and product-family pairs
//   - Statistical tests for stationarity (ADF, KPSS) and differencing analysis
//
// # Quick Start
//
// Forecast a sanitized daily series and split it across sub-entities:
//
//	target, _ := timeseries.Sanitize(dataset.DailyTotals(sales))
//	horizon := timeseries.Horizon(target.LastDate(), 16)
//	exog := forecast.BuildExog(target, horizon, drivers)
//
//	runner := forecast.NewRunner(logger,
//	    forecast.NewARIMASource(nil),
//	    forecast.NewSARIMAXSource(sarimax.Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, M: 7}),
//	    forecast.NewRegressionSource(nil),
//	)
//	ensemble := runner.Run(ctx, target, exog, 16)
//
//	table := hierarchy.EstimateProportions(dataset.Observations(sales))
//	rows := hierarchy.Disaggregate(dataset.Requests(tests), ensemble.AggregateByDate(), table)
//
// # Packages
//
// The module is organized into the following packages:
//
//   - timeseries: Dated series, sanitization and interpolation
//   - stats: Stationarity tests, differencing analysis, decomposition
//   - arima: Non-seasonal ARIMA models
//   - sarimax: Seasonal ARIMA with exogenous regressors
//   - seasreg: Additive seasonal regression forecaster
//   - autoarima: Automatic ARIMA order selection
//   - forecast: Source lifecycle, parallel runner and ensemble combiner
//   - hierarchy: Proportion estimation and disaggregation
//   - dataset: CSV adapters for the pipeline's record shapes
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package storecast
