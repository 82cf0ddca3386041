// math/math_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"

	"github.com/mmp/spritebench/rand"
)

func matrixClose(a, b Matrix3, eps float32) bool {
	for i := range 3 {
		for j := range 3 {
			if Abs(a[i][j]-b[i][j]) > eps {
				return false
			}
		}
	}
	return true
}

func TestSpriteTransformMatchesComposition(t *testing.T) {
	r := rand.Make()
	r.Seed(1234)

	for range 1000 {
		pos := [2]float32{r.Range(-1000, 1000), r.Range(-1000, 1000)}
		size := [2]float32{r.Range(0, 200), r.Range(0, 200)}
		origin := [2]float32{r.Range(-100, 100), r.Range(-100, 100)}
		rot := r.Range(-2*Pi(), 2*Pi())

		composed := Identity3x3().
			Translate(pos[0]+origin[0], pos[1]+origin[1]).
			Rotate(rot).
			Translate(-origin[0], -origin[1]).
			Scale(size[0], size[1])
		m := SpriteTransform(pos, size, origin, rot)

		if !matrixClose(m, composed, 1e-2) {
			t.Errorf("pos %v size %v origin %v rot %f: got %v, expected %v", pos, size, origin, rot, m, composed)
		}
	}
}

func TestSpriteTransformQuadCorners(t *testing.T) {
	type testCase struct {
		name              string
		pos, size, origin [2]float32
		rotation          float32
		bl, br, tr, tl    [2]float32
	}
	for _, tc := range []testCase{
		{name: "identity", size: [2]float32{1, 1},
			bl: [2]float32{0, 0}, br: [2]float32{1, 0}, tr: [2]float32{1, 1}, tl: [2]float32{0, 1}},
		{name: "translate and scale", pos: [2]float32{10, 20}, size: [2]float32{4, 2},
			bl: [2]float32{10, 20}, br: [2]float32{14, 20}, tr: [2]float32{14, 22}, tl: [2]float32{10, 22}},
		{name: "quarter turn about origin", size: [2]float32{2, 2}, rotation: Pi() / 2,
			bl: [2]float32{0, 0}, br: [2]float32{0, 2}, tr: [2]float32{-2, 2}, tl: [2]float32{-2, 0}},
		{name: "half turn about center", pos: [2]float32{5, 5}, size: [2]float32{2, 2}, origin: [2]float32{1, 1},
			rotation: Pi(),
			bl: [2]float32{7, 7}, br: [2]float32{5, 7}, tr: [2]float32{5, 5}, tl: [2]float32{7, 5}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := SpriteTransform(tc.pos, tc.size, tc.origin, tc.rotation).QuadCorners()
			for i, expected := range [4][2]float32{tc.bl, tc.br, tc.tr, tc.tl} {
				if Distance2f(c[i], expected) > 1e-4 {
					t.Errorf("corner %d: got %v, expected %v", i, c[i], expected)
				}
			}
		})
	}
}

func TestColumnMajor(t *testing.T) {
	m := MakeMatrix3(1, 2, 3, 4, 5, 6, 7, 8, 9)
	expected := [9]float32{1, 4, 7, 2, 5, 8, 3, 6, 9}
	if cm := m.ColumnMajor(); cm != expected {
		t.Errorf("got %v, expected %v", cm, expected)
	}
}

func TestRadiansDegrees(t *testing.T) {
	for _, d := range []float32{0, 45, 90, 180, 270, 359} {
		if rt := Degrees(Radians(d)); Abs(rt-d) > 1e-4 {
			t.Errorf("%f: round trip gave %f", d, rt)
		}
	}
	if Abs(Radians(180)-Pi()) > 1e-6 {
		t.Errorf("Radians(180) = %f", Radians(180))
	}
}
