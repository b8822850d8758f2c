package timeseries

import (
	"errors"
	"math"
)

// ErrNoUsableValues is returned by Sanitize when a series contains no finite
// values, so no fill rule can be applied.
var ErrNoUsableValues = errors.New("series has no usable values")

// Sanitize returns a copy of the series with every missing or invalid value
// repaired. Infinite values are first converted to missing, then gaps are
// resolved by forward-fill, backward-fill for leading gaps, and finally the
// mean of the defined values for anything still open.
//
// The input is never modified. Sanitize fails only when the series has zero
// finite values.
func Sanitize(s *Series) (*Series, error) {
	out := s.Copy()
	n := len(out.Values)

	for i, v := range out.Values {
		if math.IsInf(v, 0) {
			out.Values[i] = math.NaN()
		}
	}

	mean, count := out.FiniteMean()
	if count == 0 {
		return nil, ErrNoUsableValues
	}
	if count == n {
		return out, nil
	}

	forwardFill(out.Values)
	backwardFill(out.Values)

	// Mean fill for anything the two fills left open.
	for i, v := range out.Values {
		if math.IsNaN(v) {
			out.Values[i] = mean
		}
	}

	return out, nil
}

// Interpolate returns a copy of the series with interior missing runs
// replaced by linear interpolation between the surrounding defined values.
// Leading and trailing gaps are left untouched; infinite values are treated
// as missing.
func Interpolate(s *Series) *Series {
	out := s.Copy()
	values := out.Values
	n := len(values)

	for i, v := range values {
		if math.IsInf(v, 0) {
			values[i] = math.NaN()
		}
	}

	prev := -1 // index of last defined value
	for i := 0; i < n; i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			step := (values[i] - values[prev]) / float64(i-prev)
			for j := prev + 1; j < i; j++ {
				values[j] = values[prev] + step*float64(j-prev)
			}
		}
		prev = i
	}

	return out
}

func forwardFill(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
		} else {
			last = v
		}
	}
}

func backwardFill(values []float64) {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
		} else {
			next = values[i]
		}
	}
}
