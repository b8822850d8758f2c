// Package hierarchy distributes an aggregate daily forecast across store and
// product-family sub-entities proportionally to their historical share of
// total volume.
//
// EstimateProportions builds a ProportionTable from historical observations:
// each sub-entity's share is its summed historical value over the grand
// total, so shares over all observed keys sum to 1. Disaggregate then maps
// each request row to aggregate × share, clamped at 0, preserving request
// order exactly.
//
// Usage:
//
//	table := hierarchy.EstimateProportions(history)
//	rows := hierarchy.Disaggregate(requests, ensemble.AggregateByDate(), table)
package hierarchy
