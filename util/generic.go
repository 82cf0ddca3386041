// util/generic.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

// Select returns a if sel is true and b otherwise.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}

// MapSlice returns a new slice holding xform applied to each element of
// from, in order.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	to := make([]T, 0, len(from))
	for _, v := range from {
		to = append(to, xform(v))
	}
	return to
}

// ReduceSlice folds the elements of s into a single value, starting from
// initial and updating it with result = reduce(v, result) for each v.
func ReduceSlice[V, R any](s []V, reduce func(V, R) R, initial R) R {
	result := initial
	for _, v := range s {
		result = reduce(v, result)
	}
	return result
}
