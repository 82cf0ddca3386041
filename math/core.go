// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Sprite code works in float32 throughout; these wrap the float64
// functions in the standard math package.

func Pi() float32 {
	return float32(gomath.Pi)
}

// Radians converts degrees to radians.
func Radians(d float32) float32 {
	return d * Pi() / 180
}

// Degrees converts radians to degrees.
func Degrees(r float32) float32 {
	return r * 180 / Pi()
}

// SinCos returns sin(a) and cos(a).
func SinCos(a float32) (float32, float32) {
	s, c := gomath.Sincos(float64(a))
	return float32(s), float32(c)
}

func Sqrt(a float32) float32 {
	return float32(gomath.Sqrt(float64(a)))
}

func Abs[V constraints.Signed | constraints.Float](x V) V {
	return max(x, -x)
}
