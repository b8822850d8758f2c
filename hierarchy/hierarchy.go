// Package hierarchy splits an aggregate forecast across sub-entities by
// historical share.
package hierarchy

import (
	"math"
	"time"
)

// Key identifies one sub-entity of the aggregate, a store and product
// family pair.
type Key struct {
	Store  string
	Family string
}

// Observation is one historical record of value attributed to a sub-entity.
type Observation struct {
	Key   Key
	Value float64
}

// Request is one row to predict: an identifier, a date inside the forecast
// horizon, and the sub-entity the prediction is for.
type Request struct {
	ID   string
	Date time.Time
	Key  Key
}

// SubmissionRow is one finished prediction. Rows are produced in request
// order, exactly one per request.
type SubmissionRow struct {
	ID     string
	Date   time.Time
	Store  string
	Family string
	Sales  float64
}

// ProportionTable maps each sub-entity observed in history to its share of
// the grand total. Keys never observed are absent and read as share 0.
type ProportionTable map[Key]float64

// Sum returns the total share over all keys in the table.
func (p ProportionTable) Sum() float64 {
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total
}

// Share returns the proportion for the key, 0 when the key was never
// observed.
func (p ProportionTable) Share(k Key) float64 {
	return p[k]
}

// EstimateProportions sums the historical value per sub-entity and divides
// each sum by the grand total. Non-finite values are skipped. A zero grand
// total yields a share of 0 for every observed key.
func EstimateProportions(history []Observation) ProportionTable {
	sums := make(map[Key]float64)
	grand := 0.0
	for _, obs := range history {
		if math.IsNaN(obs.Value) || math.IsInf(obs.Value, 0) {
			continue
		}
		sums[obs.Key] += obs.Value
		grand += obs.Value
	}

	table := make(ProportionTable, len(sums))
	for k, sum := range sums {
		if grand == 0 {
			table[k] = 0
			continue
		}
		table[k] = sum / grand
	}
	return table
}

// Disaggregate produces one prediction per request, in request order. The
// predicted value is the date's aggregate times the sub-entity's share,
// clamped to a minimum of 0. Dates outside the aggregate map and keys never
// observed in history both contribute 0.
func Disaggregate(requests []Request, aggregate map[time.Time]float64, proportions ProportionTable) []SubmissionRow {
	rows := make([]SubmissionRow, len(requests))
	for i, req := range requests {
		total := aggregate[day(req.Date)]
		share := proportions.Share(req.Key)

		sales := total * share
		if sales < 0 || math.IsNaN(sales) {
			sales = 0
		}

		rows[i] = SubmissionRow{
			ID:     req.ID,
			Date:   req.Date,
			Store:  req.Key.Store,
			Family: req.Key.Family,
			Sales:  sales,
		}
	}
	return rows
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
