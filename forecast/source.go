package forecast

import (
	"errors"
	"time"

	"github.com/sartorproj/storecast/autoarima"
	"github.com/sartorproj/storecast/sarimax"
	"github.com/sartorproj/storecast/seasreg"
	"github.com/sartorproj/storecast/stats"
	"github.com/sartorproj/storecast/timeseries"
)

// Source is the uniform capability contract every forecaster is wrapped
// behind. Fit trains on the sanitized target, optionally using aligned
// exogenous drivers. Forecast covers exactly the requested number of steps
// past the training data, one value per date, or fails as a whole.
type Source interface {
	Name() string
	Fit(target *timeseries.Series, exog *Exog) error
	Forecast(steps int) (*timeseries.Series, error)
	State() State
}

// horizonSeries wraps raw forecast values in a dated series starting the day
// after the training data ends.
func horizonSeries(after time.Time, values []float64, name string) *timeseries.Series {
	s := timeseries.New(after.AddDate(0, 0, 1), values)
	s.Name = name
	return s
}

// ARIMASource selects and fits a non-seasonal ARIMA model automatically.
// It ignores exogenous drivers.
type ARIMASource struct {
	Config *autoarima.Config

	name   string
	state  State
	after  time.Time
	result *autoarima.Result
}

// NewARIMASource creates an automatic ARIMA source. A nil config uses the
// default search settings.
func NewARIMASource(config *autoarima.Config) *ARIMASource {
	return &ARIMASource{Config: config, name: "arima", state: Untrained}
}

func (s *ARIMASource) Name() string { return s.name }

func (s *ARIMASource) State() State { return s.state }

func (s *ARIMASource) Fit(target *timeseries.Series, _ *Exog) error {
	s.state = Fitting
	result, err := autoarima.Search(target, s.Config)
	if err != nil {
		s.state = FitFailed
		return &FitError{Source: s.name, Err: err}
	}
	s.result = result
	s.after = target.LastDate()
	s.state = Trained
	return nil
}

func (s *ARIMASource) Forecast(steps int) (*timeseries.Series, error) {
	if s.state != Trained {
		return nil, &ForecastError{Source: s.name, Err: errors.New("source is not trained")}
	}
	s.state = Forecasting
	values, err := s.result.Predict(steps)
	if err != nil {
		s.state = ForecastFailed
		return nil, &ForecastError{Source: s.name, Err: err}
	}
	s.state = Forecasted
	return horizonSeries(s.after, values, s.name), nil
}

// SARIMAXSource fits a seasonal ARIMA with the exogenous drivers regressed
// out. When fitting or forecasting with drivers fails, it retries without
// them before giving up. A negative SD in the order means the seasonal
// differencing is chosen from the data at fit time.
type SARIMAXSource struct {
	Order sarimax.Order

	name   string
	state  State
	after  time.Time
	target *timeseries.Series
	model  *sarimax.Model
	sd     int
	exog   *Exog // nil once the source has degraded to no drivers
}

// NewSARIMAXSource creates a seasonal source with a fixed order.
func NewSARIMAXSource(order sarimax.Order) *SARIMAXSource {
	return &SARIMAXSource{Order: order, name: "sarimax", state: Untrained}
}

func (s *SARIMAXSource) Name() string { return s.name }

func (s *SARIMAXSource) State() State { return s.state }

func (s *SARIMAXSource) newModel() *sarimax.Model {
	o := s.Order
	return sarimax.New(o.P, o.D, o.Q, o.SP, s.sd, o.SQ, o.M)
}

func (s *SARIMAXSource) Fit(target *timeseries.Series, exog *Exog) error {
	s.state = Fitting
	s.target = target
	s.after = target.LastDate()

	s.sd = s.Order.SD
	if s.sd < 0 {
		s.sd = stats.NSDiffs(target, s.Order.M, 1)
	}

	if !exog.Empty() {
		model := s.newModel()
		if err := model.Fit(target, exog.HistoryMatrix()); err == nil {
			s.model = model
			s.exog = exog
			s.state = Trained
			return nil
		}
	}

	// Reduced capability: drop the drivers entirely.
	model := s.newModel()
	if err := model.Fit(target, nil); err != nil {
		s.state = FitFailed
		return &FitError{Source: s.name, Err: err}
	}
	s.model = model
	s.exog = nil
	s.state = Trained
	return nil
}

func (s *SARIMAXSource) Forecast(steps int) (*timeseries.Series, error) {
	if s.state != Trained {
		return nil, &ForecastError{Source: s.name, Err: errors.New("source is not trained")}
	}
	s.state = Forecasting

	if s.exog != nil {
		values, err := s.model.Predict(steps, s.exog.FutureMatrix())
		if err == nil {
			s.state = Forecasted
			return horizonSeries(s.after, values, s.name), nil
		}
		// Reduced capability: refit without drivers and forecast again.
		model := s.newModel()
		if err := model.Fit(s.target, nil); err != nil {
			s.state = ForecastFailed
			return nil, &ForecastError{Source: s.name, Err: err}
		}
		s.model = model
		s.exog = nil
	}

	values, err := s.model.Predict(steps, nil)
	if err != nil {
		s.state = ForecastFailed
		return nil, &ForecastError{Source: s.name, Err: err}
	}
	s.state = Forecasted
	return horizonSeries(s.after, values, s.name), nil
}

// RegressionSource fits the additive seasonal regression forecaster with the
// exogenous drivers as named regressors. On failure it retries with no
// regressors before giving up.
type RegressionSource struct {
	Config *seasreg.Config

	name   string
	state  State
	after  time.Time
	target *timeseries.Series
	model  *seasreg.Model
	future map[string][]float64 // nil once the source has degraded
}

// NewRegressionSource creates a seasonal regression source. A nil config
// uses the default weekly configuration.
func NewRegressionSource(config *seasreg.Config) *RegressionSource {
	return &RegressionSource{Config: config, name: "seasreg", state: Untrained}
}

func (s *RegressionSource) Name() string { return s.name }

func (s *RegressionSource) State() State { return s.state }

func (s *RegressionSource) Fit(target *timeseries.Series, exog *Exog) error {
	s.state = Fitting
	s.target = target
	s.after = target.LastDate()

	if !exog.Empty() {
		model := seasreg.New(s.Config)
		if err := model.Fit(target, exog.HistoryColumns()); err == nil {
			s.model = model
			s.future = exog.FutureColumns()
			s.state = Trained
			return nil
		}
	}

	model := seasreg.New(s.Config)
	if err := model.Fit(target, nil); err != nil {
		s.state = FitFailed
		return &FitError{Source: s.name, Err: err}
	}
	s.model = model
	s.future = nil
	s.state = Trained
	return nil
}

func (s *RegressionSource) Forecast(steps int) (*timeseries.Series, error) {
	if s.state != Trained {
		return nil, &ForecastError{Source: s.name, Err: errors.New("source is not trained")}
	}
	s.state = Forecasting

	if s.future != nil {
		if future := truncateColumns(s.future, steps); future != nil {
			values, err := s.model.Predict(steps, future)
			if err == nil {
				s.state = Forecasted
				return horizonSeries(s.after, values, s.name), nil
			}
		}
		// Reduced capability: refit without regressors and forecast again.
		model := seasreg.New(s.Config)
		if err := model.Fit(s.target, nil); err != nil {
			s.state = ForecastFailed
			return nil, &ForecastError{Source: s.name, Err: err}
		}
		s.model = model
		s.future = nil
	}

	values, err := s.model.Predict(steps, nil)
	if err != nil {
		s.state = ForecastFailed
		return nil, &ForecastError{Source: s.name, Err: err}
	}
	s.state = Forecasted
	return horizonSeries(s.after, values, s.name), nil
}

// truncateColumns trims each column to the requested length, or returns nil
// when a column is too short.
func truncateColumns(cols map[string][]float64, steps int) map[string][]float64 {
	out := make(map[string][]float64, len(cols))
	for name, col := range cols {
		if len(col) < steps {
			return nil
		}
		out[name] = col[:steps]
	}
	return out
}
