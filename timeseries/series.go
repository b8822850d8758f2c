// Package timeseries provides dated series types and gap repair for daily data.
package timeseries

import (
	"errors"
	"math"
	"time"
)

// Series represents a daily time series with dates and values.
// Dates are strictly increasing with no duplicates. A NaN value marks a
// missing observation; an infinite value marks an invalid one.
type Series struct {
	Dates  []time.Time
	Values []float64
	Name   string
}

// Day normalizes a timestamp to midnight UTC so dates compare by calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// New creates a series with a contiguous daily index starting at start.
func New(start time.Time, values []float64) *Series {
	dates := make([]time.Time, len(values))
	base := Day(start)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Dates:  dates,
		Values: values,
	}
}

// FromValues creates a series from bare values using an arbitrary daily index.
// Useful for derived series such as residuals where the calendar is irrelevant.
func FromValues(values []float64) *Series {
	return New(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), values)
}

// NewWithDates creates a series with explicit dates. Dates must be strictly
// increasing and match the values in length.
func NewWithDates(dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, errors.New("dates and values must have the same length")
	}
	normalized := make([]time.Time, len(dates))
	for i, d := range dates {
		normalized[i] = Day(d)
		if i > 0 && !normalized[i].After(normalized[i-1]) {
			return nil, errors.New("dates must be strictly increasing")
		}
	}
	return &Series{
		Dates:  normalized,
		Values: values,
	}, nil
}

// Horizon returns the next steps daily dates after the given date.
func Horizon(after time.Time, steps int) []time.Time {
	dates := make([]time.Time, steps)
	base := Day(after)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i+1)
	}
	return dates
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// FiniteMean calculates the mean over finite values only. The second return
// reports how many finite values contributed.
func (s *Series) FiniteMean() (float64, int) {
	sum := 0.0
	count := 0
	for _, v := range s.Values {
		if isFinite(v) {
			sum += v
			count++
		}
	}
	if count == 0 {
		return math.NaN(), 0
	}
	return sum / float64(count), count
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// HasGaps reports whether the series contains any missing or invalid values.
func (s *Series) HasGaps() bool {
	for _, v := range s.Values {
		if !isFinite(v) {
			return true
		}
	}
	return false
}

// LastDate returns the date of the final observation, or the zero time for an
// empty series.
func (s *Series) LastDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the n-th order difference of the series.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-n)
	for i := n; i < len(s.Values); i++ {
		result[i-n] = s.Values[i] - s.Values[i-n]
	}

	dates := make([]time.Time, len(result))
	if len(s.Dates) > n {
		copy(dates, s.Dates[n:])
	}

	return &Series{
		Dates:  dates,
		Values: result,
		Name:   s.Name + "_diff",
	}
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	if m <= 0 || len(s.Values) <= m {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-m)
	for i := m; i < len(s.Values); i++ {
		result[i-m] = s.Values[i] - s.Values[i-m]
	}

	dates := make([]time.Time, len(result))
	if len(s.Dates) > m {
		copy(dates, s.Dates[m:])
	}

	return &Series{
		Dates:  dates,
		Values: result,
		Name:   s.Name + "_seasonal_diff",
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	dates := make([]time.Time, len(values))
	if len(s.Dates) >= end {
		copy(dates, s.Dates[start:end])
	}

	return &Series{
		Dates:  dates,
		Values: values,
		Name:   s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	dates := make([]time.Time, len(s.Dates))
	copy(dates, s.Dates)

	return &Series{
		Dates:  dates,
		Values: values,
		Name:   s.Name,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
