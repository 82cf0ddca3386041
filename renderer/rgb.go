// renderer/rgb.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

///////////////////////////////////////////////////////////////////////////
// RGB

type RGBA struct {
	R, G, B, A float32
}

// RGBAFromHex converts a packed integer color value to an RGBA where the
// low 8 bits give alpha, the next 8 give blue, then green and then red.
func RGBAFromHex(c uint32) RGBA {
	r, g, b, a := (c>>24)&255, (c>>16)&255, (c>>8)&255, c&255
	return RGBA{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

// ClearColor is the background color of the benchmark.
var ClearColor = RGBA{R: 0, G: 0, B: 0.2, A: 1}
