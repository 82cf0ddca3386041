// util/stats.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	gomath "math"
	"slices"

	"golang.org/x/exp/constraints"
)

// Stats summarizes a series of samples.
type Stats[T constraints.Integer | constraints.Float] struct {
	N             int
	Mean          T
	Min, Max      T
	P50, P95, P99 T
}

// ComputeStats returns summary statistics for the given samples; the
// samples slice is not modified. All fields are zero if there are no
// samples.
func ComputeStats[T constraints.Integer | constraints.Float](samples []T) Stats[T] {
	if len(samples) == 0 {
		return Stats[T]{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += float64(v)
	}

	return Stats[T]{
		N:    len(sorted),
		Mean: T(sum / float64(len(sorted))),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		P50:  Percentile(sorted, 50),
		P95:  Percentile(sorted, 95),
		P99:  Percentile(sorted, 99),
	}
}

// Percentile returns the nearest-rank p'th percentile of the sorted
// samples, with p in [0,100].
func Percentile[T constraints.Integer | constraints.Float](sorted []T, p float64) T {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(gomath.Ceil(p / 100 * float64(len(sorted))))
	rank = max(1, min(rank, len(sorted)))
	return sorted[rank-1]
}
