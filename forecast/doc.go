// Package forecast runs an ensemble of forecasting models over one target
// series and combines their horizon forecasts into a single robust series.
//
// Each model is wrapped in a Source, a small lifecycle state machine
// (untrained, fitting, trained, forecasting, plus the terminal states
// forecasted, fit_failed and forecast_failed). Sources that use exogenous
// drivers degrade gracefully: if fitting or forecasting with drivers fails
// they retry without them before reporting failure.
//
// The Runner fits all sources in parallel, absorbs any failures, and hands
// the surviving forecasts to Combine. Combining never fails: per horizon
// date the ensemble value is the mean of the finite source values, repaired
// source values where no raw value exists, and the historical mean of the
// target when every source failed.
//
// Usage:
//
//	exog := forecast.BuildExog(target, timeseries.Horizon(target.LastDate(), 16), drivers)
//	runner := forecast.NewRunner(logger,
//	    forecast.NewARIMASource(nil),
//	    forecast.NewSARIMAXSource(sarimax.Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, M: 7}),
//	    forecast.NewRegressionSource(nil),
//	)
//	ensemble := runner.Run(ctx, target, exog, 16)
package forecast
