package forecast

// State describes where a forecast source is in its lifecycle.
type State int

const (
	Untrained State = iota
	Fitting
	Trained
	FitFailed
	Forecasting
	Forecasted
	ForecastFailed
)

// String returns the lifecycle state name.
func (s State) String() string {
	switch s {
	case Untrained:
		return "untrained"
	case Fitting:
		return "fitting"
	case Trained:
		return "trained"
	case FitFailed:
		return "fit_failed"
	case Forecasting:
		return "forecasting"
	case Forecasted:
		return "forecasted"
	case ForecastFailed:
		return "forecast_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is one a source cannot leave.
func (s State) Terminal() bool {
	switch s {
	case Forecasted, FitFailed, ForecastFailed:
		return true
	}
	return false
}
