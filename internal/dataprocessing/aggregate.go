package dataprocessing

import (
	"math"
	"sort"
)

// TotalKey labels the synthetic row appended to an AggregateTable. It is
// included in tabular renderings but excluded from charts and top-N cuts.
const TotalKey = "TOTAL"

// AggregateRow holds the grouped statistics for one key of a grouping
// dimension. Mean is rounded to two decimals.
type AggregateRow struct {
	Key   string
	Total float64
	Count int
	Mean  float64
}

// sample is one observation fed into a grouping. Null samples participate
// in the group's count but are skipped by sum and mean.
type sample struct {
	key   string
	value float64
	null  bool
}

// groupBy aggregates samples into per-key sum/count/mean rows, sorted by
// key ascending so output order is deterministic for identical input.
func groupBy(samples []sample) []AggregateRow {
	type acc struct {
		sum   float64
		count int
		valid int
	}
	groups := make(map[string]*acc)
	for _, s := range samples {
		a := groups[s.key]
		if a == nil {
			a = &acc{}
			groups[s.key] = a
		}
		a.count++
		if !s.null {
			a.sum += s.value
			a.valid++
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]AggregateRow, 0, len(keys))
	for _, k := range keys {
		a := groups[k]
		mean := 0.0
		if a.valid > 0 {
			mean = a.sum / float64(a.valid)
		}
		rows = append(rows, AggregateRow{
			Key:   k,
			Total: round2(a.sum),
			Count: a.count,
			Mean:  round2(mean),
		})
	}
	return rows
}

// withTotal appends the synthetic TOTAL row. Its mean is sum-of-sums
// divided by sum-of-counts, not the arithmetic mean of per-group means,
// so unevenly sized groups do not bias it.
func withTotal(rows []AggregateRow) []AggregateRow {
	var sum float64
	var count int
	for _, r := range rows {
		sum += r.Total
		count += r.Count
	}
	mean := 0.0
	if count > 0 {
		mean = sum / float64(count)
	}
	return append(rows, AggregateRow{
		Key:   TotalKey,
		Total: round2(sum),
		Count: count,
		Mean:  round2(mean),
	})
}

// withoutTotal returns the rows minus any TOTAL row, for chart building.
func withoutTotal(rows []AggregateRow) []AggregateRow {
	out := make([]AggregateRow, 0, len(rows))
	for _, r := range rows {
		if r.Key != TotalKey {
			out = append(out, r)
		}
	}
	return out
}

// round2 rounds to two decimal places and collapses NaN and infinities to
// zero; non-finite values must never reach the payload boundary.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
