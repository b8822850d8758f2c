package forecast

import "fmt"

// FitError reports that a source could not produce a trained model, even
// after its reduced-capability retry.
type FitError struct {
	Source string
	Err    error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("source %s: fit failed: %v", e.Source, e.Err)
}

func (e *FitError) Unwrap() error { return e.Err }

// ForecastError reports that a trained source could not produce a forecast,
// even after its reduced-capability retry.
type ForecastError struct {
	Source string
	Err    error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("source %s: forecast failed: %v", e.Source, e.Err)
}

func (e *ForecastError) Unwrap() error { return e.Err }
