// Package arima implements non-seasonal ARIMA models fitted by conditional
// sum of squares.
//
// An ARIMA(p,d,q) model combines p autoregressive terms, d orders of
// differencing, and q moving-average terms:
//
//	model := arima.New(1, 1, 1)
//	if err := model.Fit(series); err != nil {
//	    // insufficient data or gaps in the series
//	}
//	forecasts, err := model.Predict(16)
//
// Fit requires a fully defined series: sanitize it first with
// timeseries.Sanitize when it may contain missing values.
//
// Model quality can be inspected through the information criteria on the
// model and through Summary, which includes a Ljung-Box test on the
// residuals:
//
//	summary := model.Summary()
//	if summary.LjungBox.PValue > 0.05 {
//	    // residuals are white noise
//	}
//
// Order selection is automated by the autoarima package.
package arima
